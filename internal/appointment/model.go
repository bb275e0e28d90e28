package appointment

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// DateLayout is the ISO calendar date format used for appointment dates.
const DateLayout = "2006-01-02"

// ParseStatus fails fast on anything outside the four known states.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, true
	}
	return "", false
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is an edge of the status machine.
// Cancelled and completed are terminal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Appointment is a booked visit. DoctorName and Specialty are copied from the
// doctor when the appointment is created and are never refreshed.
type Appointment struct {
	ID          int    `json:"id"`
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	Specialty   string `json:"specialty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      Status `json:"status"`
	Notes       string `json:"notes,omitempty"`
}

// Validate checks the record shape. Date-in-the-past and slot membership are
// checked by the ledger at append time, not here.
func (a Appointment) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PatientName, validation.Required),
		validation.Field(&a.DoctorName, validation.Required),
		validation.Field(&a.Specialty, validation.Required),
		validation.Field(&a.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&a.Time, validation.Required),
		validation.Field(&a.Status, validation.Required,
			validation.In(StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted)),
	)
}
