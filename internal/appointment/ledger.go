package appointment

import (
	"slices"
	"sync"
	"time"

	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

// SlotChecker answers whether a doctor publishes a slot label.
type SlotChecker interface {
	HasSlot(doctorName, label string) bool
}

// Ledger is the authoritative in-memory appointment set. Mutations are
// serialized so id assignment is atomic and each appointment has a linear
// status history.
type Ledger struct {
	mu     sync.Mutex
	items  []Appointment
	byID   map[int]int
	nextID int

	slots SlotChecker
	now   func() time.Time
}

type Option func(*Ledger)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(slots SlotChecker, opts ...Option) *Ledger {
	l := &Ledger{
		byID:   make(map[int]int),
		nextID: 1,
		slots:  slots,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Seed loads historical records verbatim, keeping their ids and statuses.
// Only the record shape is checked, so past dates are accepted.
func (l *Ledger) Seed(records ...Appointment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range records {
		if err := a.Validate(); err != nil {
			return apperr.Validation(apperr.ReasonInvalidRecord, "appointment %d: %v", a.ID, err)
		}
		if a.ID <= 0 {
			return apperr.Validation(apperr.ReasonInvalidRecord, "appointment id must be positive, got %d", a.ID)
		}
		if _, dup := l.byID[a.ID]; dup {
			return apperr.Validation(apperr.ReasonInvalidRecord, "duplicate appointment id %d", a.ID)
		}
		l.insert(a)
	}
	return nil
}

// ListAll returns a copy of every appointment in insertion order.
func (l *Ledger) ListAll() []Appointment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

func (l *Ledger) Get(id int) (Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[id]
	if !ok {
		return Appointment{}, apperr.NotFound("appointment %d", id)
	}
	return l.items[i], nil
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Append stores a new pending appointment under the next id. The date must
// not be before today and the time must be one of the doctor's slots.
func (l *Ledger) Append(a Appointment) (Appointment, error) {
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.Status != StatusPending {
		return Appointment{}, apperr.Validation(apperr.ReasonInvalidStatus, "new appointments start pending, got %q", a.Status)
	}
	if err := CheckDate(a.Date, l.now()); err != nil {
		return Appointment{}, err
	}
	if a.Time == "" || l.slots == nil || !l.slots.HasSlot(a.DoctorName, a.Time) {
		return Appointment{}, apperr.Validation(apperr.ReasonSlotUnavailable, "%s has no %q slot", a.DoctorName, a.Time)
	}
	if err := a.Validate(); err != nil {
		return Appointment{}, apperr.Validation(apperr.ReasonInvalidRecord, "%v", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a.ID = l.nextID
	l.insert(a)
	return a, nil
}

// TransitionStatus moves appointment id to status to.
func (l *Ledger) TransitionStatus(id int, to Status) (Appointment, error) {
	if _, ok := ParseStatus(string(to)); !ok {
		return Appointment{}, apperr.Validation(apperr.ReasonInvalidStatus, "unknown status %q", to)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[id]
	if !ok {
		return Appointment{}, apperr.NotFound("appointment %d", id)
	}

	from := l.items[i].Status
	if !CanTransition(from, to) {
		return Appointment{}, apperr.InvalidTransition("appointment %d: %s -> %s", id, from, to)
	}

	l.items[i].Status = to
	return l.items[i], nil
}

// insert must be called with mu held. Ids are never reused: nextID only grows.
func (l *Ledger) insert(a Appointment) {
	l.byID[a.ID] = len(l.items)
	l.items = append(l.items, a)
	if a.ID >= l.nextID {
		l.nextID = a.ID + 1
	}
}
