package adherence

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// AlertType can be one of:
//   - skipped_sessions
//   - high_pain_reported
//   - increasing_pain_trend
//   - five_day_milestone, ten_day_milestone, fifteen_day_milestone, thirty_day_milestone
//   - progress_milestone
type AlertType string

const (
	AlertTypeSkippedSessions     AlertType = "skipped_sessions"
	AlertTypeHighPainReported    AlertType = "high_pain_reported"
	AlertTypeIncreasingPainTrend AlertType = "increasing_pain_trend"
	AlertTypeFiveDayMilestone    AlertType = "five_day_milestone"
	AlertTypeTenDayMilestone     AlertType = "ten_day_milestone"
	AlertTypeFifteenDayMilestone AlertType = "fifteen_day_milestone"
	AlertTypeThirtyDayMilestone  AlertType = "thirty_day_milestone"
	AlertTypeProgressMilestone   AlertType = "progress_milestone"
)

func (at AlertType) String() string {
	return string(at)
}

func (at AlertType) IsMilestone() bool {
	switch at {
	case AlertTypeFiveDayMilestone,
		AlertTypeTenDayMilestone,
		AlertTypeFifteenDayMilestone,
		AlertTypeThirtyDayMilestone,
		AlertTypeProgressMilestone:
		return true
	default:
		return false
	}
}

// streak length -> dedicated milestone alert
var milestoneAlertTypes = map[int]AlertType{
	5:  AlertTypeFiveDayMilestone,
	10: AlertTypeTenDayMilestone,
	15: AlertTypeFifteenDayMilestone,
	30: AlertTypeThirtyDayMilestone,
}

// AlertMetadata carries what is needed to reconstruct the triggering condition.
type AlertMetadata struct {
	PlanID    string    `json:"planId"`
	WorkerID  string    `json:"workerId"`
	CaseID    string    `json:"caseId"`
	Streak    *int      `json:"streak,omitempty"`
	PainLevel *float64  `json:"painLevel,omitempty"`
	PainTrend PainTrend `json:"painTrend,omitempty"`
}

type Alert struct {
	Type        AlertType     `json:"type"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggeredAt"`
	IsRead      bool          `json:"isRead"`
	Metadata    AlertMetadata `json:"metadata"`
}

type alertKey struct {
	alertType AlertType
	streak    int
}

// milestoneIndex indexes existing streak alerts by (type, streak).
type milestoneIndex map[alertKey]bool

func newMilestoneIndex(existing []Alert) milestoneIndex {
	idx := make(milestoneIndex)
	for _, a := range existing {
		if !a.Type.IsMilestone() || a.Metadata.Streak == nil {
			continue
		}
		idx[alertKey{alertType: a.Type, streak: *a.Metadata.Streak}] = true
	}
	return idx
}

func (idx milestoneIndex) has(alertType AlertType, streak int) bool {
	return idx[alertKey{alertType: alertType, streak: streak}]
}

// EvaluateAlerts returns the new alerts to raise for the given statistics.
// Each rule is evaluated independently and produces at most one alert.
// The only state it mutates are the alert states held in pain.
func EvaluateAlerts(
	plan Plan,
	stats ProgressStats,
	pain *PainStats,
	existing []Alert,
	now time.Time,
) []Alert {
	settings := plan.Settings.WithDefaults()
	newAlert := func(alertType AlertType, message string) Alert {
		return Alert{
			Type:        alertType,
			Message:     message,
			TriggeredAt: now,
			Metadata: AlertMetadata{
				PlanID:   plan.ID,
				WorkerID: plan.WorkerID,
				CaseID:   plan.CaseID,
			},
		}
	}

	alerts := []Alert{}

	// not deduplicated, reported on every evaluation while the condition holds
	if skipped := stats.ConsecutiveSkippedDays; skipped >= settings.MaxConsecutiveSkips {
		a := newAlert(
			AlertTypeSkippedSessions,
			fmt.Sprintf("Worker skipped all exercises %d days in a row", skipped),
		)
		a.Metadata.Streak = &skipped
		alerts = append(alerts, a)
	}

	if pain != nil {
		alerts = append(alerts, evaluatePainAlerts(pain, newAlert)...)
	}

	streak := stats.ConsecutiveCompletedDays
	index := newMilestoneIndex(existing)

	if alertType, ok := milestoneAlertTypes[streak]; ok && milestoneEnabled(settings, streak) {
		if !index.has(alertType, streak) {
			s := streak
			a := newAlert(alertType, fmt.Sprintf("%d day streak reached, all exercises completed %d days in a row", streak, streak))
			a.Metadata.Streak = &s
			alerts = append(alerts, a)
		}
	}

	if _, specific := milestoneAlertTypes[streak]; !specific && streak >= settings.ProgressMilestoneDays {
		if !index.has(AlertTypeProgressMilestone, streak) {
			s := streak
			a := newAlert(AlertTypeProgressMilestone, fmt.Sprintf("All exercises completed %d days in a row", streak))
			a.Metadata.Streak = &s
			alerts = append(alerts, a)
		}
	}

	for _, a := range alerts {
		log.Tracef("plan [%s]: new alert [%s]", plan.ID, a.Type)
	}

	return alerts
}

func evaluatePainAlerts(pain *PainStats, newAlert func(AlertType, string) Alert) []Alert {
	var alerts []Alert

	pain.HighPainAlert = pain.HighPainAlert.orArmed()
	pain.IncreasingPainAlert = pain.IncreasingPainAlert.orArmed()

	if pain.LastReportedPainLevel != nil {
		level := *pain.LastReportedPainLevel
		switch {
		case level >= HighPainLevel && !pain.HighPainAlert.Triggered():
			a := newAlert(AlertTypeHighPainReported, fmt.Sprintf("High pain level reported: %.1f/10", level))
			a.Metadata.PainLevel = &level
			alerts = append(alerts, a)
			pain.HighPainAlert = AlertStateTriggered
		case level < HighPainLevel:
			pain.HighPainAlert = AlertStateArmed
		}
	}

	switch {
	case pain.Trend == PainTrendIncreasing && !pain.IncreasingPainAlert.Triggered():
		a := newAlert(AlertTypeIncreasingPainTrend, "Reported pain levels show an increasing trend")
		a.Metadata.PainTrend = pain.Trend
		if pain.LastReportedPainLevel != nil {
			level := *pain.LastReportedPainLevel
			a.Metadata.PainLevel = &level
		}
		alerts = append(alerts, a)
		pain.IncreasingPainAlert = AlertStateTriggered
	case pain.Trend != PainTrendIncreasing:
		pain.IncreasingPainAlert = AlertStateArmed
	}

	return alerts
}

func milestoneEnabled(settings Settings, days int) bool {
	for _, d := range settings.MilestoneDays {
		if d == days {
			return true
		}
	}
	return false
}
