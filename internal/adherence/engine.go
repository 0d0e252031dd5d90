package adherence

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Snapshot is the state of a plan as loaded by the caller before an action is applied.
// The engine never mutates it.
type Snapshot struct {
	Ledger    Ledger    `json:"ledger"`
	PainStats PainStats `json:"painStats"`
	Alerts    []Alert   `json:"alerts"`
}

// Result is the updated plan state the caller has to persist, and the alerts
// it has to forward to the notification subsystem.
type Result struct {
	Ledger    Ledger        `json:"ledger"`
	Stats     ProgressStats `json:"stats"`
	PainStats PainStats     `json:"painStats"`
	NewAlerts []Alert       `json:"newAlerts"`
}

type Engine struct {
	now func() time.Time
}

type EngineOption func(*Engine)

// WithClock overrides the clock used for "today" and for completion/alert timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyCompletion records a completed exercise and returns the recomputed plan state
// along with newly raised alerts.
func (e *Engine) ApplyCompletion(plan Plan, snapshot Snapshot, in CompletionInput) (*Result, error) {
	now := e.now()
	return e.apply(plan, snapshot, in.Date, now, func(entry *DailyEntry) error {
		return RecordCompletion(entry, plan, in, now)
	})
}

// ApplySkip records a skipped exercise and returns the recomputed plan state
// along with newly raised alerts.
func (e *Engine) ApplySkip(plan Plan, snapshot Snapshot, in SkipInput) (*Result, error) {
	now := e.now()
	return e.apply(plan, snapshot, in.Date, now, func(entry *DailyEntry) error {
		return RecordSkip(entry, plan, in, now)
	})
}

// ApplyReset puts an exercise back to not_started for the given day (zero means today).
func (e *Engine) ApplyReset(plan Plan, snapshot Snapshot, exerciseID string, date time.Time) (*Result, error) {
	now := e.now()
	return e.apply(plan, snapshot, date, now, func(entry *DailyEntry) error {
		return ResetExercise(entry, plan, exerciseID)
	})
}

func (e *Engine) apply(
	plan Plan,
	snapshot Snapshot,
	date, now time.Time,
	record func(entry *DailyEntry) error,
) (*Result, error) {
	if plan.Status != PlanStatusActive {
		return nil, &StateError{Reason: "plan " + plan.ID + " is " + plan.Status.String()}
	}

	ledger := snapshot.Ledger.Clone()
	if err := ledger.Validate(); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = now
	}
	if NormalizeDate(date).After(NormalizeDate(now)) {
		return nil, newValidationError("date", "[%s] is in the future", date.Format(dateLayout))
	}

	entry := ledger.GetOrCreateEntry(date)
	if err := record(entry); err != nil {
		return nil, err
	}

	res := e.recompute(plan, ledger, snapshot.PainStats)
	res.NewAlerts = EvaluateAlerts(plan, res.Stats, &res.PainStats, snapshot.Alerts, now)

	log.Tracef(
		"plan [%s] day [%s] -> %s, streak %d, skip streak %d, pain trend %s, new alerts %d",
		plan.ID, entry.Date.Format(dateLayout), entry.OverallStatus,
		res.Stats.ConsecutiveCompletedDays, res.Stats.ConsecutiveSkippedDays,
		res.PainStats.Trend, len(res.NewAlerts),
	)

	return res, nil
}

// Recompute does a full, idempotent recompute of the plan state, used for backfill and repair.
// Every entry's OverallStatus is refreshed against the plan's current exercise list.
// No alerts are evaluated.
func (e *Engine) Recompute(plan Plan, snapshot Snapshot) (*Result, error) {
	ledger := snapshot.Ledger.Clone()
	if err := ledger.Validate(); err != nil {
		return nil, err
	}
	return e.recompute(plan, ledger, snapshot.PainStats), nil
}

func (e *Engine) recompute(plan Plan, ledger Ledger, prevPain PainStats) *Result {
	ledger.sortInPlace()
	for _, entry := range ledger {
		entry.OverallStatus = DayStatusFor(entry, plan)
	}

	return &Result{
		Ledger:    ledger,
		Stats:     ComputeProgressStats(ledger, plan),
		PainStats: ComputePainStats(ledger, plan, prevPain),
		NewAlerts: []Alert{},
	}
}
