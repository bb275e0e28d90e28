package appointment

import (
	"time"

	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

// Today truncates now to midnight in its own location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// CheckDate accepts an ISO date that is today or later relative to now.
// A missing date is reported as past-date, a malformed one as invalid-date.
func CheckDate(date string, now time.Time) error {
	if date == "" {
		return apperr.Validation(apperr.ReasonPastDate, "date is required")
	}
	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return apperr.Validation(apperr.ReasonInvalidDate, "date %q is not YYYY-MM-DD", date)
	}
	if day.Before(Today(now)) {
		return apperr.Validation(apperr.ReasonPastDate, "date %s is before today", date)
	}
	return nil
}
