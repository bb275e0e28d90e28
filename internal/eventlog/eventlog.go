// Package eventlog records an audit trail of appointment events.
package eventlog

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"
)

const (
	EventAppointmentCreated       = "APPOINTMENT_CREATED"
	EventAppointmentStatusChanged = "APPOINTMENT_STATUS_CHANGED"
	EventAppointmentReminder      = "APPOINTMENT_REMINDER"
)

type Event struct {
	ID            int64
	EventType     string
	AppointmentID *int
	Payload       []byte
	CreatedAt     time.Time
}

// NewEvent marshals payload into an event for appointment id.
func NewEvent(eventType string, appointmentID int, payload map[string]any, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	id := appointmentID
	return Event{
		EventType:     eventType,
		AppointmentID: &id,
		Payload:       data,
		CreatedAt:     at,
	}, nil
}

type Sink interface {
	Record(ctx context.Context, ev Event) error
}

// MemorySink keeps events in process memory.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = int64(len(s.events) + 1)
	s.events = append(s.events, ev)
	return nil
}

func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}
