package rehab

import (
	"time"

	"github.com/2beens/rehabtracker/internal/adherence"
)

// PlanState is the persisted adherence state of one plan.
// Version is bumped on every write, it guards against concurrent read-modify-write cycles.
type PlanState struct {
	PlanID    string                  `json:"planId"`
	Ledger    adherence.Ledger        `json:"ledger"`
	Progress  adherence.ProgressStats `json:"progress"`
	Pain      adherence.PainStats     `json:"pain"`
	Alerts    []adherence.Alert       `json:"alerts"`
	Version   int64                   `json:"version"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func NewPlanState(planID string) *PlanState {
	return &PlanState{
		PlanID: planID,
		Ledger: adherence.Ledger{},
		Pain: adherence.PainStats{
			History:             []adherence.DailyPain{},
			Trend:               adherence.PainTrendUnknown,
			HighPainAlert:       adherence.AlertStateArmed,
			IncreasingPainAlert: adherence.AlertStateArmed,
		},
		Alerts: []adherence.Alert{},
	}
}

func (s *PlanState) Snapshot() adherence.Snapshot {
	return adherence.Snapshot{
		Ledger:    s.Ledger,
		PainStats: s.Pain,
		Alerts:    s.Alerts,
	}
}

// withResult returns the next state, new alerts appended to the existing ones.
// Version stays the one the state was loaded with, the repo checks it on save.
func (s *PlanState) withResult(res *adherence.Result, now time.Time) *PlanState {
	alerts := make([]adherence.Alert, 0, len(s.Alerts)+len(res.NewAlerts))
	alerts = append(alerts, s.Alerts...)
	alerts = append(alerts, res.NewAlerts...)

	return &PlanState{
		PlanID:    s.PlanID,
		Ledger:    res.Ledger,
		Progress:  res.Stats,
		Pain:      res.PainStats,
		Alerts:    alerts,
		Version:   s.Version,
		UpdatedAt: now,
	}
}

// PlanView is the read model served by the progress, milestones and alerts endpoints.
type PlanView struct {
	Plan  adherence.Plan `json:"plan"`
	State PlanState      `json:"state"`
}

func (v *PlanView) Milestones() []adherence.MilestoneProgress {
	return adherence.GetMilestoneProgress(v.State.Progress, v.Plan.Settings)
}

// ActionResult is returned after a plan action is applied and stored.
type ActionResult struct {
	PlanID     string                        `json:"planId"`
	Progress   adherence.ProgressStats       `json:"progress"`
	Pain       adherence.PainStats           `json:"pain"`
	Milestones []adherence.MilestoneProgress `json:"milestones"`
	NewAlerts  []adherence.Alert             `json:"newAlerts"`
}

type ProgressResponse struct {
	PlanID     string                        `json:"planId"`
	Status     adherence.PlanStatus          `json:"status"`
	Progress   adherence.ProgressStats       `json:"progress"`
	Pain       adherence.PainStats           `json:"pain"`
	Milestones []adherence.MilestoneProgress `json:"milestones"`
	UpdatedAt  time.Time                     `json:"updatedAt"`
}

// IndexedAlert carries the alert position in the plan's alert list, used to mark it as read.
type IndexedAlert struct {
	Index int `json:"index"`
	adherence.Alert
}

// RecomputeReport summarizes a batch recompute run.
type RecomputeReport struct {
	Total      int           `json:"total"`
	Recomputed int           `json:"recomputed"`
	Failed     []string      `json:"failed"`
	Duration   time.Duration `json:"duration"`
}
