package adherence

import (
	"time"
)

const (
	DefaultMaxConsecutiveSkips   = 3
	DefaultProgressMilestoneDays = 7
)

// DefaultMilestoneDays are the streak lengths shown as milestone progress bars,
// and the ones that have their own alert type.
var DefaultMilestoneDays = []int{5, 10, 15, 30}

// PlanStatus can be one of:
//   - active
//   - paused
//   - completed
//   - cancelled
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusPaused    PlanStatus = "paused"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

func (ps PlanStatus) String() string {
	return string(ps)
}

func (ps PlanStatus) IsValid() bool {
	switch ps {
	case PlanStatusActive,
		PlanStatusPaused,
		PlanStatusCompleted,
		PlanStatusCancelled:
		return true
	default:
		return false
	}
}

type Exercise struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Duration   time.Duration `json:"duration"`
	Category   string        `json:"category"`
	Difficulty string        `json:"difficulty"`
}

type Settings struct {
	// MaxConsecutiveSkips is the number of fully skipped days in a row that raises
	// the skipped_sessions alert
	MaxConsecutiveSkips int `json:"maxConsecutiveSkips"`
	// MilestoneDays streak lengths reported by MilestoneProgress
	MilestoneDays []int `json:"milestoneDays"`
	// ProgressMilestoneDays is the streak from which generic progress milestones are raised
	ProgressMilestoneDays int `json:"progressMilestoneDays"`
	// AllowSkip nil means skipping is allowed
	AllowSkip *bool `json:"allowSkip,omitempty"`
}

// WithDefaults returns a copy of the settings with zero values replaced by defaults.
func (s Settings) WithDefaults() Settings {
	if s.MaxConsecutiveSkips <= 0 {
		s.MaxConsecutiveSkips = DefaultMaxConsecutiveSkips
	}
	if s.ProgressMilestoneDays <= 0 {
		s.ProgressMilestoneDays = DefaultProgressMilestoneDays
	}
	if len(s.MilestoneDays) == 0 {
		s.MilestoneDays = append([]int(nil), DefaultMilestoneDays...)
	}
	return s
}

func (s Settings) SkipAllowed() bool {
	return s.AllowSkip == nil || *s.AllowSkip
}

// Plan is the prescribed daily exercise program for one worker and case.
type Plan struct {
	ID        string     `json:"id"`
	WorkerID  string     `json:"workerId"`
	CaseID    string     `json:"caseId"`
	Exercises []Exercise `json:"exercises"`
	Status    PlanStatus `json:"status"`
	Settings  Settings   `json:"settings"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (p Plan) HasExercise(exerciseID string) bool {
	for _, ex := range p.Exercises {
		if ex.ID == exerciseID {
			return true
		}
	}
	return false
}

// Validate checks the plan definition itself, used before a plan is stored.
func (p Plan) Validate() error {
	if p.ID == "" {
		return newValidationError("plan id", "empty")
	}
	if p.WorkerID == "" || p.CaseID == "" {
		return newValidationError("plan owner", "worker id and case id are required")
	}
	if !p.Status.IsValid() {
		return newValidationError("plan status", "unknown status [%s]", p.Status)
	}
	if len(p.Exercises) == 0 {
		return newValidationError("exercises", "plan has no exercises")
	}

	seen := make(map[string]bool, len(p.Exercises))
	for _, ex := range p.Exercises {
		if ex.ID == "" {
			return newValidationError("exercise id", "empty")
		}
		if seen[ex.ID] {
			return newValidationError("exercise id", "duplicate exercise [%s]", ex.ID)
		}
		seen[ex.ID] = true
	}

	for _, days := range p.Settings.MilestoneDays {
		if days <= 0 {
			return newValidationError("milestone days", "must be positive, got %d", days)
		}
	}

	return nil
}
