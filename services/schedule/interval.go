package schedule

import (
	"sort"

	"salonai/models"
)

// SortIntervals orders intervals ascending by start (end breaks ties).
func SortIntervals(intervals []models.Interval) {
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})
}

// MergeIntervals coalesces a start-sorted list into maximal disjoint runs.
// Adjacent intervals that touch at an endpoint merge into one; the output is
// sorted, disjoint, and no two outputs touch. Merging an already-merged list
// returns it unchanged.
func MergeIntervals(sorted []models.Interval) []models.Interval {
	if len(sorted) == 0 {
		return nil
	}
	merged := make([]models.Interval, 0, len(sorted))
	current := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Start <= current.End {
			if iv.End > current.End {
				current.End = iv.End
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}
	return append(merged, current)
}

// SubtractIntervals returns the free sub-intervals of bound not covered by
// the sorted, merged busy list. Busy intervals extending before or past the
// bound are clipped to it.
func SubtractIntervals(bound models.Interval, busy []models.Interval) []models.Interval {
	var free []models.Interval
	cursor := bound.Start
	for _, b := range busy {
		if b.End <= bound.Start || b.Start >= bound.End {
			continue
		}
		start := b.Start
		if start < bound.Start {
			start = bound.Start
		}
		end := b.End
		if end > bound.End {
			end = bound.End
		}
		if start > cursor {
			free = append(free, models.Interval{Start: cursor, End: start})
		}
		if end > cursor {
			cursor = end
		}
	}
	if cursor < bound.End {
		free = append(free, models.Interval{Start: cursor, End: bound.End})
	}
	return free
}
