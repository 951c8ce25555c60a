package models

import "fmt"

// Interval is a half-open [Start, End) range within a single business day,
// expressed in minutes from midnight of the salon's operating time zone
// (e.g. 540 for 9:00). Start < End always holds for a valid interval.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// Overlaps reports whether two half-open intervals share any instant.
// Intervals that only touch at an endpoint do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains reports whether other fits entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// Label renders the interval as "HH:MM~HH:MM" for user-facing prompts.
func (iv Interval) Label() string {
	return fmt.Sprintf("%s~%s", FormatMinute(iv.Start), FormatMinute(iv.End))
}

// BusyInterval tags an interval with the reservation that occupies it, so a
// reservation under modification can be excluded from its own availability
// accounting.
type BusyInterval struct {
	Interval
	ReservationID string `json:"reservationId"`
}

// FormatMinute renders minutes-from-midnight as "HH:MM".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
