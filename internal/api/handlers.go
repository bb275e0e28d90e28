package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/clinic-scheduling/internal/access"
	"github.com/hackgods/clinic-scheduling/internal/booking"
	"github.com/hackgods/clinic-scheduling/internal/directory"
)

type handlers struct {
	svc         *booking.Service
	log         logrus.FieldLogger
	defaultName string
	now         func() time.Time
}

// withSession resolves the session before calling next.
func (h *handlers) withSession(next func(http.ResponseWriter, *http.Request, access.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, h.defaultName)
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		next(w, r, sess)
	}
}

func (h *handlers) session(w http.ResponseWriter, _ *http.Request, sess access.Session) {
	writeJSON(w, http.StatusOK, SessionResponse{Session: sess, Operations: access.Operations(sess.Role)})
}

func (h *handlers) searchDoctors(w http.ResponseWriter, r *http.Request, sess access.Session) {
	q := r.URL.Query()
	doctors, err := h.svc.SearchDoctors(sess, q.Get("q"), q.Get("specialty"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *handlers) specialties(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SpecialtiesResponse{Specialties: directory.Specialties()})
}

func (h *handlers) listAppointments(w http.ResponseWriter, _ *http.Request, sess access.Session) {
	items, err := h.svc.Appointments(sess)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) bookAppointment(w http.ResponseWriter, r *http.Request, sess access.Session) {
	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appt, err := h.svc.BookByID(r.Context(), sess, req.DoctorID, req.Date, req.Time, req.Notes)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (h *handlers) changeStatus(w http.ResponseWriter, r *http.Request, sess access.Session) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be an integer")
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appt, err := h.svc.ChangeStatus(r.Context(), sess, id, req.Status)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *handlers) dashboard(w http.ResponseWriter, _ *http.Request, sess access.Session) {
	d, err := h.svc.Dashboard(sess)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) analytics(w http.ResponseWriter, _ *http.Request, sess access.Session) {
	a, err := h.svc.Analytics(sess)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handlers) notifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Notifications(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	now := h.now()
	resp := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Kind:      n.Kind,
			CreatedAt: n.CreatedAt,
			Time:      n.Relative(now),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
