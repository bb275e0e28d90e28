// Package notification keeps the most-recent-first feed shown to users.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindSuccess, KindInfo, KindWarning:
		return k, true
	}
	return "", false
}

func checkKind(kind Kind) error {
	if _, ok := ParseKind(string(kind)); !ok {
		return apperr.Validation(apperr.ReasonInvalidKind, "unknown notification kind %q", kind)
	}
	return nil
}

type Notification struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

// Relative renders the age of n at now, e.g. "2 hours ago".
func (n Notification) Relative(now time.Time) string {
	age := now.Sub(n.CreatedAt)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return plural(int(age/time.Minute), "minute")
	case age < 24*time.Hour:
		return plural(int(age/time.Hour), "hour")
	default:
		return plural(int(age/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Feed is an append-at-front list of notifications.
type Feed interface {
	// List returns notifications most recent first.
	List(ctx context.Context) ([]Notification, error)
	Push(ctx context.Context, kind Kind, message string) (Notification, error)
}

// SeedNotifications returns the feed a fresh clinic starts with, relative to now.
func SeedNotifications(now time.Time) []Notification {
	return []Notification{
		{ID: 1, Message: "Appointment confirmed with Dr. Sarah Wilson", Kind: KindSuccess, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, Message: "Reminder: Appointment tomorrow at 10:00 AM", Kind: KindInfo, CreatedAt: now.Add(-24 * time.Hour)},
	}
}
