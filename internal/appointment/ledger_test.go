package appointment

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

type slotTable map[string][]string

func (s slotTable) HasSlot(doctor, label string) bool {
	for _, l := range s[doctor] {
		if l == label {
			return true
		}
	}
	return false
}

var (
	fixedNow = time.Date(2026, time.October, 17, 15, 30, 0, 0, time.UTC)
	slots    = slotTable{
		"Dr. Sarah Wilson": {"9:00 AM", "10:00 AM", "2:00 PM"},
		"Dr. Michael Chen": {"8:00 AM", "1:00 PM"},
	}
)

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(slots, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, l.Seed(SeedRecords()...))
	return l
}

func booking(date, at string) Appointment {
	return Appointment{
		PatientName: "Sneha Gardiner",
		DoctorName:  "Dr. Sarah Wilson",
		Specialty:   "Cardiologist",
		Date:        date,
		Time:        at,
	}
}

func TestAppendAssignsNextIDAndPending(t *testing.T) {
	l := newLedger(t)

	got, err := l.Append(booking("2026-10-20", "2:00 PM"))
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)
	assert.Equal(t, StatusPending, got.Status)

	got, err = l.Append(booking("2026-10-21", "9:00 AM"))
	require.NoError(t, err)
	assert.Equal(t, 4, got.ID)
	assert.Equal(t, 4, l.Len())
}

func TestAppendAcceptsToday(t *testing.T) {
	l := newLedger(t)

	_, err := l.Append(booking("2026-10-17", "9:00 AM"))
	assert.NoError(t, err)
}

func TestAppendRejectsPastDate(t *testing.T) {
	l := newLedger(t)

	for _, date := range []string{"2026-10-16", "1999-01-01", ""} {
		_, err := l.Append(booking(date, "9:00 AM"))
		require.Error(t, err, date)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, apperr.ReasonPastDate, apperr.Reason(err))
	}
	assert.Equal(t, 2, l.Len())
}

func TestAppendRejectsMalformedDate(t *testing.T) {
	l := newLedger(t)

	_, err := l.Append(booking("17/10/2026", "9:00 AM"))
	assert.Equal(t, apperr.ReasonInvalidDate, apperr.Reason(err))
}

func TestAppendRejectsUnavailableSlot(t *testing.T) {
	l := newLedger(t)

	for _, at := range []string{"6:00 PM", "8:00 AM", ""} {
		_, err := l.Append(booking("2026-11-01", at))
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, apperr.ReasonSlotUnavailable, apperr.Reason(err), at)
	}
	assert.Equal(t, 2, l.Len())
}

func TestAppendRejectsNonPendingStatus(t *testing.T) {
	l := newLedger(t)

	a := booking("2026-11-01", "9:00 AM")
	a.Status = StatusConfirmed
	_, err := l.Append(a)
	assert.Equal(t, apperr.ReasonInvalidStatus, apperr.Reason(err))
}

func TestIDsAreNeverReused(t *testing.T) {
	l := NewLedger(slots, WithClock(func() time.Time { return fixedNow }))
	seeded := SeedRecords()
	seeded[1].ID = 10
	require.NoError(t, l.Seed(seeded...))

	got, err := l.Append(booking("2026-11-01", "9:00 AM"))
	require.NoError(t, err)
	assert.Equal(t, 11, got.ID)
}

func TestSeedRejectsDuplicatesAndBadRecords(t *testing.T) {
	l := newLedger(t)

	err := l.Seed(SeedRecords()[0])
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad := SeedRecords()[0]
	bad.ID = 50
	bad.Status = "archived"
	assert.ErrorIs(t, l.Seed(bad), apperr.ErrValidation)
}

func TestTransitionStatusMachine(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			l := NewLedger(slots, WithClock(func() time.Time { return fixedNow }))
			rec := SeedRecords()[0]
			rec.Status = tc.from
			require.NoError(t, l.Seed(rec))

			got, err := l.TransitionStatus(rec.ID, tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, got.Status)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
			stored, _ := l.Get(rec.ID)
			assert.Equal(t, tc.from, stored.Status)
		})
	}
}

func TestTransitionSeededScenario(t *testing.T) {
	l := newLedger(t)

	got, err := l.TransitionStatus(2, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, "Jane Smith", got.PatientName)

	_, err = l.TransitionStatus(2, StatusPending)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestTransitionUnknownIDAndStatus(t *testing.T) {
	l := newLedger(t)

	_, err := l.TransitionStatus(99, StatusConfirmed)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = l.TransitionStatus(2, "archived")
	assert.Equal(t, apperr.ReasonInvalidStatus, apperr.Reason(err))
}

func TestListAllIsACopy(t *testing.T) {
	l := newLedger(t)

	all := l.ListAll()
	require.Len(t, all, 2)
	all[0].Status = StatusCancelled

	stored, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)
}

func TestConcurrentAppendsGetDistinctIDs(t *testing.T) {
	l := newLedger(t)

	const n = 50
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := l.Append(booking("2026-12-01", "10:00 AM"))
			if assert.NoError(t, err) {
				ids <- a.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n+2, l.Len())
}

func TestConcurrentTransitionsAreLinear(t *testing.T) {
	l := newLedger(t)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, to := range []Status{StatusConfirmed, StatusCancelled} {
		wg.Add(1)
		go func(to Status) {
			defer wg.Done()
			_, err := l.TransitionStatus(2, to)
			results <- err
		}(to)
	}
	wg.Wait()
	close(results)

	// Either order is legal: confirm then cancel, or cancel then a rejected confirm.
	var failures int
	for err := range results {
		if err != nil {
			assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
			failures++
		}
	}
	final, _ := l.Get(2)
	assert.Equal(t, StatusCancelled, final.Status)
	assert.LessOrEqual(t, failures, 1)
}

func TestCheckDate(t *testing.T) {
	assert.NoError(t, CheckDate("2099-01-01", fixedNow))
	assert.NoError(t, CheckDate("2026-10-17", fixedNow))
	assert.Equal(t, apperr.ReasonPastDate, apperr.Reason(CheckDate("2026-10-16", fixedNow)))
	assert.Equal(t, apperr.ReasonInvalidDate, apperr.Reason(CheckDate("2026-13-01", fixedNow)))
}

func TestParseStatusAndTerminal(t *testing.T) {
	st, ok := ParseStatus("completed")
	assert.True(t, ok)
	assert.True(t, st.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())

	_, ok = ParseStatus("Pending")
	assert.False(t, ok)
}
