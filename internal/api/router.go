package api

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/clinic-scheduling/internal/booking"
)

type RouterConfig struct {
	Service     *booking.Service
	Logger      logrus.FieldLogger
	Postgres    Pinger
	Redis       Pinger
	DefaultName string
	Env         string
	Version     string
	Clock       func() time.Time
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.DefaultName == "" {
		cfg.DefaultName = "Guest"
	}

	h := &handlers{svc: cfg.Service, log: cfg.Logger, defaultName: cfg.DefaultName, now: cfg.Clock}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)

	health := NewHealthHandler(cfg.Postgres, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/session", h.withSession(h.session))
	r.Get("/specialties", h.specialties)
	r.Get("/doctors", h.withSession(h.searchDoctors))

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", h.withSession(h.listAppointments))
		r.Post("/", h.withSession(h.bookAppointment))
		r.Post("/{id}/status", h.withSession(h.changeStatus))
	})

	r.Get("/dashboard", h.withSession(h.dashboard))
	r.Get("/admin/analytics", h.withSession(h.analytics))
	r.Get("/notifications", h.notifications)

	return r
}
