package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/clinic-scheduling/internal/api"
	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/booking"
	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/eventlog"
	"github.com/hackgods/clinic-scheduling/internal/notification"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:   "api-server",
		Usage:  "Clinic directory and booking API",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "HTTP port, overrides HTTP_PORT",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Doctor catalog YAML file",
				Sources: cli.EnvVars("CATALOG_PATH"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("api-server failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	if p := cmd.String("port"); p != "" {
		cfg.HTTPPort = p
	}
	if c := cmd.String("catalog"); c != "" {
		cfg.CatalogPath = c
	}

	log := newLogger(cfg)
	log.WithFields(logrus.Fields{"env": cfg.Env, "http_port": cfg.HTTPPort}).Info("api-server starting up")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doctors, err := directory.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	ledger := appointment.NewLedger(doctors)
	if err := ledger.Seed(appointment.SeedRecords()...); err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}
	log.WithField("doctors", doctors.Len()).Info("directory loaded")

	opts := []booking.Option{booking.WithLogger(log)}
	routes := api.RouterConfig{
		Logger:      log,
		DefaultName: cfg.SessionDefaultName,
		Env:         cfg.Env,
		Version:     version,
	}

	seed := notification.SeedNotifications(time.Now())
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return fmt.Errorf("redis connection: %w", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Warn("error closing redis")
			}
		}()

		feed := notification.NewRedisFeed(rdb, cfg.FeedLimit, time.Now)
		if err := feed.Seed(ctx, seed...); err != nil {
			return fmt.Errorf("seed notifications: %w", err)
		}
		opts = append(opts, booking.WithFeed(feed))
		routes.Redis = api.RedisPinger(rdb)
		log.Info("notifications stored in Redis")
	} else {
		opts = append(opts, booking.WithFeed(notification.NewMemoryFeed(cfg.FeedLimit, time.Now, seed...)))
	}

	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			return fmt.Errorf("postgres connection: %w", err)
		}
		defer pool.Close()

		sink := eventlog.NewPgSink(pool)
		if err := sink.EnsureSchema(ctx); err != nil {
			return err
		}
		opts = append(opts, booking.WithEventSink(sink))
		routes.Postgres = pool
		log.Info("event log stored in Postgres")
	}

	svc := booking.NewService(ledger, doctors, opts...)
	routes.Service = svc

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(routes),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		runReminders(gCtx, svc, log)

		ticker := time.NewTicker(cfg.ReminderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				runReminders(gCtx, svc, log)
			}
		}
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down api-server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runReminders(ctx context.Context, svc *booking.Service, log logrus.FieldLogger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	sent, err := svc.RemindUpcoming(runCtx)
	if err != nil {
		log.WithError(err).Warn("reminder run error")
		return
	}
	log.WithFields(logrus.Fields{"sent": sent, "took": time.Since(start).String()}).Debug("reminder run complete")
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(cfg.Level())
	if cfg.Env == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
