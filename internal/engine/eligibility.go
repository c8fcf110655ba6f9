package engine

import "time"

// SameCalendarDay reports whether two instants fall on the same calendar date
// in the given location. The gate is date-based, not a rolling 24h window: a
// player who spun at 23:59 may spin again right after midnight.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
