package adherence

import (
	"time"
)

const (
	// PainHistoryLimit max number of per-day pain records kept in PainStats.History
	PainHistoryLimit = 30
	// PainTrendWindow number of most recent per-day records used for the trend
	PainTrendWindow = 7
	// PainTrendMinSamples below this many per-day records the trend is unknown
	PainTrendMinSamples = 3
	// PainTrendDeltaThreshold day-over-day change needed to count as increasing/decreasing
	PainTrendDeltaThreshold = 0.5
	// HighPainLevel reported levels at or above this raise high_pain_reported
	HighPainLevel = 7.0
)

// PainTrend can be one of:
//   - increasing
//   - decreasing
//   - stable
//   - fluctuating
//   - unknown
type PainTrend string

const (
	PainTrendIncreasing  PainTrend = "increasing"
	PainTrendDecreasing  PainTrend = "decreasing"
	PainTrendStable      PainTrend = "stable"
	PainTrendFluctuating PainTrend = "fluctuating"
	PainTrendUnknown     PainTrend = "unknown"
)

// AlertState is the state of a condition-based alert that must not fire again
// while its condition keeps holding:
//
//	armed --(condition holds, alert raised)--> triggered
//	triggered --(condition cleared)--> armed
type AlertState string

const (
	AlertStateArmed     AlertState = "armed"
	AlertStateTriggered AlertState = "triggered"
)

func (as AlertState) Triggered() bool {
	return as == AlertStateTriggered
}

// orArmed maps the zero value (never evaluated) to armed.
func (as AlertState) orArmed() AlertState {
	if as == AlertStateTriggered {
		return AlertStateTriggered
	}
	return AlertStateArmed
}

// DailyPain is the average pain level reported over the completed exercises of a day.
type DailyPain struct {
	Date             time.Time `json:"date"`
	AveragePainLevel float64   `json:"averagePainLevel"`
	ExerciseCount    int       `json:"exerciseCount"`
}

type PainStats struct {
	History               []DailyPain `json:"history"`
	AveragePainLevel      float64     `json:"averagePainLevel"`
	LastReportedPainLevel *float64    `json:"lastReportedPainLevel,omitempty"`
	LastReportedPainDate  *time.Time  `json:"lastReportedPainDate,omitempty"`
	Trend                 PainTrend   `json:"trend"`

	HighPainAlert       AlertState `json:"highPainAlert"`
	IncreasingPainAlert AlertState `json:"increasingPainAlert"`
}

// dailyPainRecords extracts per-day average pain, ascending by date.
// Only completed exercises that are still in the plan and carry a pain level count.
func dailyPainRecords(ledger Ledger, plan Plan) []DailyPain {
	var records []DailyPain
	for _, e := range ledger.Sorted() {
		var sum float64
		var count int
		for _, c := range e.Completions {
			if c.Status != CompletionStatusCompleted || c.PainLevel == nil {
				continue
			}
			if !plan.HasExercise(c.ExerciseID) {
				continue
			}
			sum += *c.PainLevel
			count++
		}
		if count == 0 {
			continue
		}
		records = append(records, DailyPain{
			Date:             e.Date,
			AveragePainLevel: sum / float64(count),
			ExerciseCount:    count,
		})
	}
	return records
}

// ComputePainStats derives pain statistics from the whole ledger.
// Alert states are not derived from the ledger, they are carried over from prev.
func ComputePainStats(ledger Ledger, plan Plan, prev PainStats) PainStats {
	stats := PainStats{
		History:             []DailyPain{},
		Trend:               PainTrendUnknown,
		HighPainAlert:       prev.HighPainAlert.orArmed(),
		IncreasingPainAlert: prev.IncreasingPainAlert.orArmed(),
	}

	records := dailyPainRecords(ledger, plan)
	if len(records) > PainHistoryLimit {
		records = records[len(records)-PainHistoryLimit:]
	}
	if len(records) == 0 {
		return stats
	}
	stats.History = records

	var sum float64
	for _, r := range records {
		sum += r.AveragePainLevel
	}
	stats.AveragePainLevel = sum / float64(len(records))

	last := records[len(records)-1]
	lastLevel := last.AveragePainLevel
	lastDate := last.Date
	stats.LastReportedPainLevel = &lastLevel
	stats.LastReportedPainDate = &lastDate

	stats.Trend = classifyPainTrend(records)

	return stats
}

// classifyPainTrend looks at day-over-day deltas of the most recent records and picks
// the direction with a strict plurality, fluctuating on ties.
func classifyPainTrend(records []DailyPain) PainTrend {
	if len(records) < PainTrendMinSamples {
		return PainTrendUnknown
	}

	window := records
	if len(window) > PainTrendWindow {
		window = window[len(window)-PainTrendWindow:]
	}

	counts := map[PainTrend]int{}
	for i := 1; i < len(window); i++ {
		delta := window[i].AveragePainLevel - window[i-1].AveragePainLevel
		switch {
		case delta > PainTrendDeltaThreshold:
			counts[PainTrendIncreasing]++
		case delta < -PainTrendDeltaThreshold:
			counts[PainTrendDecreasing]++
		default:
			counts[PainTrendStable]++
		}
	}

	best := PainTrendFluctuating
	bestCount := 0
	tie := false
	for _, trend := range []PainTrend{PainTrendIncreasing, PainTrendDecreasing, PainTrendStable} {
		c := counts[trend]
		switch {
		case c > bestCount:
			best, bestCount, tie = trend, c, false
		case c == bestCount && c > 0:
			tie = true
		}
	}
	if tie {
		return PainTrendFluctuating
	}
	return best
}
