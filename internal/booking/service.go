// Package booking orchestrates the directory, the appointment ledger and the
// role policy: it validates and commits bookings, gates status changes and
// builds the per-role read models.
package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/clinic-scheduling/internal/access"
	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/apperr"
	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/eventlog"
	"github.com/hackgods/clinic-scheduling/internal/notification"
)

// Ledger is the appointment store the service mutates. *appointment.Ledger
// satisfies it.
type Ledger interface {
	ListAll() []appointment.Appointment
	Get(id int) (appointment.Appointment, error)
	Append(a appointment.Appointment) (appointment.Appointment, error)
	TransitionStatus(id int, to appointment.Status) (appointment.Appointment, error)
}

// Directory is the read side of the doctor catalog. *directory.Index satisfies it.
type Directory interface {
	Search(query, specialty string) []directory.Doctor
	Get(id int) (directory.Doctor, bool)
	Len() int
}

type Service struct {
	ledger  Ledger
	doctors Directory
	feed    notification.Feed
	events  eventlog.Sink
	log     logrus.FieldLogger
	now     func() time.Time

	remindMu sync.Mutex
	reminded map[int]bool
}

type Option func(*Service)

func WithFeed(feed notification.Feed) Option {
	return func(s *Service) { s.feed = feed }
}

func WithEventSink(sink eventlog.Sink) Option {
	return func(s *Service) { s.events = sink }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(ledger Ledger, doctors Directory, opts ...Option) *Service {
	s := &Service{
		ledger:   ledger,
		doctors:  doctors,
		now:      time.Now,
		reminded: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.feed == nil {
		s.feed = notification.NewMemoryFeed(0, s.now)
	}
	if s.events == nil {
		s.events = eventlog.NewMemorySink()
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// Book reserves time on date with doctor for the session's patient. The new
// appointment starts pending and snapshots the doctor's name and specialty.
// No double-booking check is made across patients.
func (s *Service) Book(ctx context.Context, sess access.Session, doctor directory.Doctor, date, slot, notes string) (appointment.Appointment, error) {
	if err := access.Require(sess, access.OpBookAppointment); err != nil {
		return appointment.Appointment{}, err
	}
	if err := appointment.CheckDate(date, s.now()); err != nil {
		return appointment.Appointment{}, err
	}
	if slot == "" || !doctor.HasSlot(slot) {
		return appointment.Appointment{}, apperr.Validation(apperr.ReasonSlotUnavailable, "%s has no %q slot", doctor.Name, slot)
	}

	stored, err := s.ledger.Append(appointment.Appointment{
		PatientName: sess.DisplayName,
		DoctorName:  doctor.Name,
		Specialty:   string(doctor.Specialty),
		Date:        date,
		Time:        slot,
		Status:      appointment.StatusPending,
		Notes:       notes,
	})
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("append appointment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": stored.ID,
		"doctor":         stored.DoctorName,
		"date":           stored.Date,
		"time":           stored.Time,
	}).Info("appointment booked")

	s.notify(ctx, notification.KindSuccess,
		fmt.Sprintf("Appointment requested with %s on %s at %s", stored.DoctorName, stored.Date, stored.Time))
	s.logEvent(ctx, stored.ID, eventlog.EventAppointmentCreated, map[string]any{
		"patient": stored.PatientName,
		"doctor":  stored.DoctorName,
		"date":    stored.Date,
		"time":    stored.Time,
	})

	return stored, nil
}

// BookByID is Book with the doctor looked up in the directory.
func (s *Service) BookByID(ctx context.Context, sess access.Session, doctorID int, date, slot, notes string) (appointment.Appointment, error) {
	if err := access.Require(sess, access.OpBookAppointment); err != nil {
		return appointment.Appointment{}, err
	}
	doctor, ok := s.doctors.Get(doctorID)
	if !ok {
		return appointment.Appointment{}, apperr.NotFound("doctor %d", doctorID)
	}
	return s.Book(ctx, sess, doctor, date, slot, notes)
}

// SearchDoctors runs a directory search for roles allowed to browse it.
func (s *Service) SearchDoctors(sess access.Session, query, specialty string) ([]directory.Doctor, error) {
	if err := access.Require(sess, access.OpViewDirectory); err != nil {
		return nil, err
	}
	return s.doctors.Search(query, specialty), nil
}

// Appointments lists the ledger as seen by the session.
func (s *Service) Appointments(sess access.Session) ([]appointment.Appointment, error) {
	if err := access.Require(sess, access.OpViewAppointments); err != nil {
		return nil, err
	}
	return access.ScopeAppointments(sess.Role, sess.DisplayName, s.ledger.ListAll()), nil
}

// ChangeStatus moves an appointment the session can see to status to.
// Cancelling is open to every role; confirming and completing need
// manage-appointments. Appointments outside the session's scope are reported
// as not found.
func (s *Service) ChangeStatus(ctx context.Context, sess access.Session, id int, to string) (appointment.Appointment, error) {
	status, ok := appointment.ParseStatus(to)
	if !ok {
		return appointment.Appointment{}, apperr.Validation(apperr.ReasonInvalidStatus, "unknown status %q", to)
	}

	op := access.OpManageAppointments
	if status == appointment.StatusCancelled {
		op = access.OpCancelAppointment
	}
	if err := access.Require(sess, op); err != nil {
		return appointment.Appointment{}, err
	}

	current, err := s.ledger.Get(id)
	if err == nil && !access.InScope(sess.Role, sess.DisplayName, current) {
		err = apperr.NotFound("appointment %d", id)
	}
	if err == nil {
		current, err = s.ledger.TransitionStatus(id, status)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidTransition) {
			s.log.WithFields(logrus.Fields{
				"appointment_id": id,
				"to":             status,
				"role":           sess.Role,
			}).WithError(err).Warn("status change rejected")
		}
		return appointment.Appointment{}, err
	}

	kind, msg := statusMessage(current)
	s.notify(ctx, kind, msg)
	s.logEvent(ctx, current.ID, eventlog.EventAppointmentStatusChanged, map[string]any{
		"to":   current.Status,
		"role": sess.Role,
	})

	return current, nil
}

// Notifications returns the feed most recent first.
func (s *Service) Notifications(ctx context.Context) ([]notification.Notification, error) {
	items, err := s.feed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func statusMessage(a appointment.Appointment) (notification.Kind, string) {
	switch a.Status {
	case appointment.StatusConfirmed:
		return notification.KindSuccess, "Appointment confirmed with " + a.DoctorName
	case appointment.StatusCancelled:
		return notification.KindWarning, fmt.Sprintf("Appointment with %s on %s cancelled", a.DoctorName, a.Date)
	default:
		return notification.KindInfo, fmt.Sprintf("Appointment with %s %s", a.DoctorName, a.Status)
	}
}

func (s *Service) notify(ctx context.Context, kind notification.Kind, msg string) {
	if _, err := s.feed.Push(ctx, kind, msg); err != nil {
		s.log.WithError(err).Warn("failed to push notification")
	}
}

func (s *Service) logEvent(ctx context.Context, appointmentID int, eventType string, payload map[string]any) {
	ev, err := eventlog.NewEvent(eventType, appointmentID, payload, s.now())
	if err != nil {
		s.log.WithError(err).Warnf("failed to marshal event payload for %s", eventType)
		return
	}
	if err := s.events.Record(ctx, ev); err != nil {
		s.log.WithError(err).Warnf("failed to record event %s for appointment %d", eventType, appointmentID)
	}
}
