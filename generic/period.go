package generic

// =============================================================================
// PERIOD - A pay cycle
// =============================================================================

// Period is a closed date range [Start, End]. A pay period runs from the last
// payday to the next one.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns the number of days from Start to End.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End)
}

// DaysLeft returns the days remaining from today until End, never negative.
func (p Period) DaysLeft(today TimePoint) int {
	n := DaysBetween(today, p.End)
	if n < 0 {
		return 0
	}
	return n
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
