package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	ev, err := NewEvent(EventAppointmentCreated, 3, map[string]any{"time": "2:00 PM"}, at)
	require.NoError(t, err)

	assert.Equal(t, EventAppointmentCreated, ev.EventType)
	require.NotNil(t, ev.AppointmentID)
	assert.Equal(t, 3, *ev.AppointmentID)
	assert.JSONEq(t, `{"time":"2:00 PM"}`, string(ev.Payload))
}

func TestMemorySinkAssignsIDs(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, Event{EventType: EventAppointmentCreated}))
	require.NoError(t, s.Record(ctx, Event{EventType: EventAppointmentStatusChanged}))

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, EventAppointmentStatusChanged, events[1].EventType)
}

func TestPgSinkRecord(t *testing.T) {
	db := &fakeExecer{}
	s := NewPgSink(db)
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	ev, err := NewEvent(EventAppointmentStatusChanged, 2, map[string]any{"to": "confirmed"}, at)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), ev))

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "INSERT INTO event_logs")
	require.Len(t, db.calls[0].args, 4)
	assert.Equal(t, EventAppointmentStatusChanged, db.calls[0].args[0])
	assert.Equal(t, &at, db.calls[0].args[3])
}

func TestPgSinkZeroTimeUsesDatabaseClock(t *testing.T) {
	db := &fakeExecer{}
	require.NoError(t, NewPgSink(db).Record(context.Background(), Event{EventType: EventAppointmentReminder}))
	assert.Nil(t, db.calls[0].args[3])
}

func TestPgSinkWrapsErrors(t *testing.T) {
	boom := errors.New("connection reset")
	s := NewPgSink(&fakeExecer{err: boom})

	err := s.Record(context.Background(), Event{EventType: EventAppointmentCreated})
	assert.ErrorIs(t, err, boom)

	err = s.EnsureSchema(context.Background())
	assert.ErrorIs(t, err, boom)
}
