package booking

import (
	"context"
	"fmt"

	"github.com/hackgods/clinic-scheduling/internal/access"
	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/eventlog"
	"github.com/hackgods/clinic-scheduling/internal/notification"
)

type Dashboard struct {
	Upcoming          int    `json:"upcoming"`
	NextDate          string `json:"nextDate,omitempty"`
	Doctors           int    `json:"doctors"`
	Specialties       int    `json:"specialties"`
	TotalAppointments int    `json:"totalAppointments"`
}

// Dashboard summarises the session's scope. Upcoming counts confirmed
// appointments; NextDate is the earliest open appointment dated today or later.
func (s *Service) Dashboard(sess access.Session) (Dashboard, error) {
	all := s.ledger.ListAll()
	scoped, err := s.Appointments(sess)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Doctors:           s.doctors.Len(),
		Specialties:       len(directory.Specialties()),
		TotalAppointments: len(all),
	}

	today := appointment.Today(s.now()).Format(appointment.DateLayout)
	for _, a := range scoped {
		if a.Status == appointment.StatusConfirmed {
			d.Upcoming++
		}
		if a.Status.Terminal() || a.Date < today {
			continue
		}
		if d.NextDate == "" || a.Date < d.NextDate {
			d.NextDate = a.Date
		}
	}
	return d, nil
}

type SpecialtyCount struct {
	Specialty string `json:"specialty"`
	Count     int    `json:"count"`
}

type Analytics struct {
	Total       int                        `json:"total"`
	Patients    int                        `json:"patients"`
	Today       int                        `json:"today"`
	ByStatus    map[appointment.Status]int `json:"byStatus"`
	BySpecialty []SpecialtyCount           `json:"bySpecialty"`
}

// Analytics counts every appointment by status and by specialty, along with
// distinct patients and appointments dated today. Specialties come in catalog
// order, followed by any seen only on appointments.
func (s *Service) Analytics(sess access.Session) (Analytics, error) {
	if err := access.Require(sess, access.OpViewAdminAnalytics); err != nil {
		return Analytics{}, err
	}

	out := Analytics{ByStatus: make(map[appointment.Status]int)}
	today := appointment.Today(s.now()).Format(appointment.DateLayout)
	patients := make(map[string]struct{})
	pos := make(map[string]int)
	for _, sp := range directory.Specialties() {
		pos[string(sp)] = len(out.BySpecialty)
		out.BySpecialty = append(out.BySpecialty, SpecialtyCount{Specialty: string(sp)})
	}

	for _, a := range s.ledger.ListAll() {
		out.Total++
		out.ByStatus[a.Status]++
		patients[a.PatientName] = struct{}{}
		if a.Date == today {
			out.Today++
		}

		i, ok := pos[a.Specialty]
		if !ok {
			i = len(out.BySpecialty)
			pos[a.Specialty] = i
			out.BySpecialty = append(out.BySpecialty, SpecialtyCount{Specialty: a.Specialty})
		}
		out.BySpecialty[i].Count++
	}
	out.Patients = len(patients)
	return out, nil
}

// RemindUpcoming pushes one reminder per confirmed appointment dated tomorrow.
// Each appointment is reminded at most once per service lifetime.
func (s *Service) RemindUpcoming(ctx context.Context) (int, error) {
	tomorrow := appointment.Today(s.now()).AddDate(0, 0, 1).Format(appointment.DateLayout)

	s.remindMu.Lock()
	defer s.remindMu.Unlock()

	sent := 0
	for _, a := range s.ledger.ListAll() {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if a.Status != appointment.StatusConfirmed || a.Date != tomorrow || s.reminded[a.ID] {
			continue
		}

		s.notify(ctx, notification.KindInfo, fmt.Sprintf("Reminder: Appointment tomorrow at %s", a.Time))
		s.logEvent(ctx, a.ID, eventlog.EventAppointmentReminder, map[string]any{
			"patient": a.PatientName,
			"doctor":  a.DoctorName,
			"time":    a.Time,
		})
		s.reminded[a.ID] = true
		sent++
	}
	return sent, nil
}
