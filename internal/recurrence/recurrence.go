// Package recurrence computes the next due date of a recurring task.
package recurrence

import (
	"time"

	"childcare-tasks.com/childcare-tasks/internal/constants"
)

// Advance returns the due date that follows t for the given cadence.
//
// MONTHLY uses time.AddDate, so a day that does not exist in the next month
// overflows into the month after: Jan 31 2023 becomes Mar 3 2023 and
// Jan 31 2024 becomes Mar 2 2024. Unknown types return t unchanged.
func Advance(t time.Time, rt constants.RecurringType) time.Time {
	switch rt {
	case constants.RecurringDaily:
		return t.AddDate(0, 0, 1)
	case constants.RecurringWeekly:
		return t.AddDate(0, 0, 7)
	case constants.RecurringMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t
	}
}
