package adherence

import (
	"math"
	"strings"
	"time"
)

const (
	MinPainLevel = 0.0
	MaxPainLevel = 10.0
)

// CompletionInput is a single "worker completed exercise X" action.
type CompletionInput struct {
	ExerciseID string
	Duration   *time.Duration
	PainLevel  *float64
	PainNotes  string
	// Date of the ledger entry to update, zero means today
	Date time.Time
}

// SkipInput is a single "worker skipped exercise X" action.
type SkipInput struct {
	ExerciseID string
	Reason     string
	Notes      string
	// Date of the ledger entry to update, zero means today
	Date time.Time
}

func (in CompletionInput) Validate(plan Plan) error {
	if err := validateExerciseID(plan, in.ExerciseID); err != nil {
		return err
	}
	if in.Duration != nil && *in.Duration < 0 {
		return newValidationError("duration", "negative duration %s", *in.Duration)
	}
	if in.PainLevel != nil {
		return ValidatePainLevel(*in.PainLevel)
	}
	return nil
}

func (in SkipInput) Validate(plan Plan) error {
	return validateExerciseID(plan, in.ExerciseID)
}

// ValidatePainLevel rejects (never clamps) levels outside of [0, 10].
func ValidatePainLevel(level float64) error {
	if math.IsNaN(level) || level < MinPainLevel || level > MaxPainLevel {
		return newValidationError("pain level", "%v not in range [%v, %v]", level, MinPainLevel, MaxPainLevel)
	}
	return nil
}

func validateExerciseID(plan Plan, exerciseID string) error {
	if strings.TrimSpace(exerciseID) == "" {
		return newValidationError("exercise id", "empty")
	}
	if !plan.HasExercise(exerciseID) {
		return newValidationError("exercise id", "exercise [%s] not in plan [%s]", exerciseID, plan.ID)
	}
	return nil
}

// RecordCompletion marks the exercise completed in the entry and refreshes the day status.
// Recording the same exercise twice on the same day overwrites the previous record.
func RecordCompletion(entry *DailyEntry, plan Plan, in CompletionInput, now time.Time) error {
	if err := in.Validate(plan); err != nil {
		return err
	}

	completedAt := now
	c := entry.upsert(in.ExerciseID)
	c.Status = CompletionStatusCompleted
	c.CompletedAt = &completedAt
	c.SkippedAt = nil
	c.SkipReason = ""
	c.Notes = ""
	c.Duration = nil
	if in.Duration != nil {
		d := *in.Duration
		c.Duration = &d
	}
	c.PainLevel = nil
	c.PainNotes = ""
	if in.PainLevel != nil {
		p := *in.PainLevel
		c.PainLevel = &p
		c.PainNotes = in.PainNotes
	}

	entry.OverallStatus = DayStatusFor(entry, plan)
	return nil
}

// RecordSkip marks the exercise skipped in the entry and refreshes the day status.
func RecordSkip(entry *DailyEntry, plan Plan, in SkipInput, now time.Time) error {
	if err := in.Validate(plan); err != nil {
		return err
	}
	if !plan.Settings.SkipAllowed() {
		return &StateError{Reason: "skipping exercises is disabled for plan " + plan.ID}
	}

	skippedAt := now
	c := entry.upsert(in.ExerciseID)
	c.Status = CompletionStatusSkipped
	c.SkippedAt = &skippedAt
	c.SkipReason = in.Reason
	c.Notes = in.Notes
	c.CompletedAt = nil
	c.Duration = nil
	c.PainLevel = nil
	c.PainNotes = ""

	entry.OverallStatus = DayStatusFor(entry, plan)
	return nil
}

// ResetExercise puts the exercise back to not_started (undo of a completion or skip).
func ResetExercise(entry *DailyEntry, plan Plan, exerciseID string) error {
	if err := validateExerciseID(plan, exerciseID); err != nil {
		return err
	}

	c := entry.Completion(exerciseID)
	if c == nil {
		return nil
	}
	*c = ExerciseCompletion{
		ExerciseID: exerciseID,
		Status:     CompletionStatusNotStarted,
	}

	entry.OverallStatus = DayStatusFor(entry, plan)
	return nil
}
