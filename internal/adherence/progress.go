package adherence

import (
	"time"
)

type ProgressStats struct {
	// TotalDays days with status completed, partial or skipped
	TotalDays     int `json:"totalDays"`
	CompletedDays int `json:"completedDays"`
	// SkippedDays days with at least one skipped exercise, partial days included
	SkippedDays              int        `json:"skippedDays"`
	ConsecutiveCompletedDays int        `json:"consecutiveCompletedDays"`
	ConsecutiveSkippedDays   int        `json:"consecutiveSkippedDays"`
	LastCompletedDate        *time.Time `json:"lastCompletedDate,omitempty"`
	LastSkippedDate          *time.Time `json:"lastSkippedDate,omitempty"`
}

// countTrailingRun walks the (ascending) entries from the most recent one backward,
// and counts entries until the first one not matching the predicate.
func countTrailingRun(entries Ledger, match func(DayStatus) bool) int {
	run := 0
	for i := len(entries) - 1; i >= 0; i-- {
		if !match(entries[i].OverallStatus) {
			break
		}
		run++
	}
	return run
}

func isStatus(status DayStatus) func(DayStatus) bool {
	return func(ds DayStatus) bool {
		return ds == status
	}
}

// ComputeProgressStats derives progress statistics from the whole ledger.
// Entries' OverallStatus values are taken as they are; see Engine.Recompute for refreshing them.
func ComputeProgressStats(ledger Ledger, plan Plan) ProgressStats {
	entries := ledger.Sorted()

	var stats ProgressStats
	for _, e := range entries {
		if e.OverallStatus.Active() {
			stats.TotalDays++
		}
		if e.OverallStatus == DayStatusCompleted {
			stats.CompletedDays++
			d := e.Date
			stats.LastCompletedDate = &d
		}
		if e.OverallStatus == DayStatusSkipped {
			d := e.Date
			stats.LastSkippedDate = &d
		}
		if e.hasSkip(plan) {
			stats.SkippedDays++
		}
	}

	stats.ConsecutiveCompletedDays = countTrailingRun(entries, isStatus(DayStatusCompleted))
	stats.ConsecutiveSkippedDays = countTrailingRun(entries, isStatus(DayStatusSkipped))

	return stats
}
