// Package calendar derives the visible date range from the active view mode
// and keeps the displayed event list in sync with the backend.
package calendar

import (
	"time"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

// RangeFor computes the inclusive [start, end] calendar-date bounds for a
// view mode and reference date. A zero reference falls back to now.
//
//	month: first to last day of the reference month
//	week:  Sunday to Saturday of the reference week
//	day:   the reference date alone
func RangeFor(view models.ViewMode, ref time.Time) (time.Time, time.Time) {
	if ref.IsZero() {
		ref = time.Now()
	}
	ref = midnight(ref)

	switch view {
	case models.ViewWeek:
		start := ref.AddDate(0, 0, -int(ref.Weekday()))
		return start, start.AddDate(0, 0, 6)
	case models.ViewDay:
		return ref, ref
	default:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, -1)
	}
}

// FullDaySpan returns the start and end timestamps of a full-day booking:
// 00:00:00.000 to 23:59:59.999 of the given date.
func FullDaySpan(date time.Time) (time.Time, time.Time) {
	start := midnight(date)
	end := time.Date(date.Year(), date.Month(), date.Day(),
		23, 59, 59, int(999*time.Millisecond), date.Location())
	return start, end
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
