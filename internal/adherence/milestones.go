package adherence

import (
	"math"
	"sort"
)

type MilestoneProgress struct {
	Days            int     `json:"days"`
	Achieved        bool    `json:"achieved"`
	ProgressPercent float64 `json:"progressPercent"`
}

// GetMilestoneProgress reports, for each configured milestone, how far the current
// completion streak is from reaching it. Used for UI progress bars.
func GetMilestoneProgress(stats ProgressStats, settings Settings) []MilestoneProgress {
	days := append([]int(nil), settings.WithDefaults().MilestoneDays...)
	sort.Ints(days)

	streak := stats.ConsecutiveCompletedDays
	progress := make([]MilestoneProgress, 0, len(days))
	for i, d := range days {
		if d <= 0 || (i > 0 && days[i-1] == d) {
			continue
		}
		p := float64(streak*100) / float64(d)
		if p > 100 {
			p = 100
		}
		p = math.Round(p*100) / 100
		progress = append(progress, MilestoneProgress{
			Days:            d,
			Achieved:        streak >= d,
			ProgressPercent: p,
		})
	}
	return progress
}
