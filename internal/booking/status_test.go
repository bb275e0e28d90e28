package booking

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/apperr"
	"github.com/hackgods/clinic-scheduling/internal/eventlog"
	"github.com/hackgods/clinic-scheduling/internal/notification"
)

func TestDoctorConfirmsOwnAppointment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got, err := env.svc.ChangeStatus(ctx, session(t, "doctor", "Dr. Michael Chen"), 2, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, got.Status)

	items, _ := env.feed.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "Appointment confirmed with Dr. Michael Chen", items[0].Message)
	assert.Equal(t, notification.KindSuccess, items[0].Kind)

	events := env.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, eventlog.EventAppointmentStatusChanged, events[0].EventType)

	_, err = env.svc.ChangeStatus(ctx, session(t, "doctor", "Dr. Michael Chen"), 2, "pending")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestPatientMayOnlyCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jane := session(t, "patient", "Jane Smith")

	_, err := env.svc.ChangeStatus(ctx, jane, 2, "confirmed")
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	got, err := env.svc.ChangeStatus(ctx, jane, 2, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, got.Status)

	items, _ := env.feed.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, notification.KindWarning, items[0].Kind)
}

func TestOutOfScopeAppointmentIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ChangeStatus(ctx, session(t, "patient", "Sneha Gardiner"), 2, "cancelled")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.svc.ChangeStatus(ctx, session(t, "doctor", "Dr. Sarah Wilson"), 2, "confirmed")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	stored, _ := env.ledger.Get(2)
	assert.Equal(t, appointment.StatusPending, stored.Status)
}

func TestAdminCompletesConfirmed(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.svc.ChangeStatus(context.Background(), session(t, "admin", "Admin"), 1, "completed")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, got.Status)

	_, err = env.svc.ChangeStatus(context.Background(), session(t, "admin", "Admin"), 1, "cancelled")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestRejectedChangesAreLogged(t *testing.T) {
	env := newTestEnv(t)
	admin := session(t, "admin", "Admin")

	_, err := env.svc.ChangeStatus(context.Background(), admin, 99, "confirmed")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.svc.ChangeStatus(context.Background(), admin, 2, "completed")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	entries := env.logs.AllEntries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, logrus.WarnLevel, e.Level)
		assert.Equal(t, "status change rejected", e.Message)
	}
	assert.Empty(t, env.events.Events())
}

func TestUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ChangeStatus(context.Background(), session(t, "admin", "Admin"), 2, "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, apperr.ReasonInvalidStatus, apperr.Reason(err))
}
