package adherence

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// CompletionStatus can be one of:
//   - completed
//   - skipped
//   - not_started
type CompletionStatus string

const (
	CompletionStatusCompleted  CompletionStatus = "completed"
	CompletionStatusSkipped    CompletionStatus = "skipped"
	CompletionStatusNotStarted CompletionStatus = "not_started"
)

// DayStatus is the aggregate status of a whole day, can be one of:
//   - completed (every plan exercise completed)
//   - partial (every plan exercise covered, mix of completed and skipped)
//   - skipped (every plan exercise skipped)
//   - not_started (anything else)
type DayStatus string

const (
	DayStatusCompleted  DayStatus = "completed"
	DayStatusPartial    DayStatus = "partial"
	DayStatusSkipped    DayStatus = "skipped"
	DayStatusNotStarted DayStatus = "not_started"
)

// Active days are the ones counted in ProgressStats.TotalDays.
func (ds DayStatus) Active() bool {
	return ds == DayStatusCompleted || ds == DayStatusPartial || ds == DayStatusSkipped
}

type ExerciseCompletion struct {
	ExerciseID  string           `json:"exerciseId"`
	Status      CompletionStatus `json:"status"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	SkippedAt   *time.Time       `json:"skippedAt,omitempty"`
	Duration    *time.Duration   `json:"duration,omitempty"`
	PainLevel   *float64         `json:"painLevel,omitempty"`
	PainNotes   string           `json:"painNotes,omitempty"`
	SkipReason  string           `json:"skipReason,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// DailyEntry holds completions of plan exercises for a single (normalized) day.
type DailyEntry struct {
	Date          time.Time            `json:"date"`
	Completions   []ExerciseCompletion `json:"completions"`
	OverallStatus DayStatus            `json:"overallStatus"`
}

func (e *DailyEntry) Completion(exerciseID string) *ExerciseCompletion {
	for i := range e.Completions {
		if e.Completions[i].ExerciseID == exerciseID {
			return &e.Completions[i]
		}
	}
	return nil
}

// upsert returns the completion for the exercise, adding a not_started one if missing.
func (e *DailyEntry) upsert(exerciseID string) *ExerciseCompletion {
	if c := e.Completion(exerciseID); c != nil {
		return c
	}
	e.Completions = append(e.Completions, ExerciseCompletion{
		ExerciseID: exerciseID,
		Status:     CompletionStatusNotStarted,
	})
	return &e.Completions[len(e.Completions)-1]
}

// hasSkip reports whether any exercise still in the plan was skipped on this day.
func (e *DailyEntry) hasSkip(plan Plan) bool {
	for _, c := range e.Completions {
		if c.Status == CompletionStatusSkipped && plan.HasExercise(c.ExerciseID) {
			return true
		}
	}
	return false
}

func (e *DailyEntry) clone() *DailyEntry {
	c := &DailyEntry{
		Date:          e.Date,
		OverallStatus: e.OverallStatus,
		Completions:   make([]ExerciseCompletion, len(e.Completions)),
	}
	for i, comp := range e.Completions {
		c.Completions[i] = comp.clone()
	}
	return c
}

func (c ExerciseCompletion) clone() ExerciseCompletion {
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		c.CompletedAt = &t
	}
	if c.SkippedAt != nil {
		t := *c.SkippedAt
		c.SkippedAt = &t
	}
	if c.Duration != nil {
		d := *c.Duration
		c.Duration = &d
	}
	if c.PainLevel != nil {
		p := *c.PainLevel
		c.PainLevel = &p
	}
	return c
}

// DayStatusFor derives the aggregate status of the entry using the plan's current exercise list.
// Completions of exercises no longer in the plan are ignored.
func DayStatusFor(entry *DailyEntry, plan Plan) DayStatus {
	total := len(plan.Exercises)
	if total == 0 {
		return DayStatusNotStarted
	}

	var completed, skipped int
	for _, ex := range plan.Exercises {
		c := entry.Completion(ex.ID)
		if c == nil {
			continue
		}
		switch c.Status {
		case CompletionStatusCompleted:
			completed++
		case CompletionStatusSkipped:
			skipped++
		}
	}

	switch {
	case completed == total:
		return DayStatusCompleted
	case skipped == total:
		return DayStatusSkipped
	case completed+skipped == total:
		return DayStatusPartial
	default:
		return DayStatusNotStarted
	}
}

// NormalizeDate returns the midnight (UTC) of the given time's UTC calendar day.
// Ledger entries are keyed by normalized dates only.
func NormalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// ParseDate accepts either a plain date (2006-01-02) or an RFC3339 timestamp.
// A timestamp with an offset lands on its UTC day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, newValidationError("date", "empty")
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return NormalizeDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, newValidationError("date", "cannot parse [%s]", s)
	}
	return NormalizeDate(t), nil
}

// Ledger is the list of daily entries of a single plan.
type Ledger []*DailyEntry

// Entry returns the entry for the given day, or nil.
func (l Ledger) Entry(date time.Time) *DailyEntry {
	day := NormalizeDate(date)
	for _, e := range l {
		if e != nil && e.Date.Equal(day) {
			return e
		}
	}
	return nil
}

// GetOrCreateEntry returns the entry for the given day, appending an empty one when absent.
// The ledger is kept sorted by date.
func (l *Ledger) GetOrCreateEntry(date time.Time) *DailyEntry {
	if e := l.Entry(date); e != nil {
		return e
	}

	entry := &DailyEntry{
		Date:          NormalizeDate(date),
		Completions:   []ExerciseCompletion{},
		OverallStatus: DayStatusNotStarted,
	}
	*l = append(*l, entry)
	l.sortInPlace()
	return entry
}

func (l Ledger) sortInPlace() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Date.Before(l[j].Date)
	})
}

// Sorted returns a shallow copy of the ledger, ordered ascending by date.
func (l Ledger) Sorted() Ledger {
	sorted := make(Ledger, len(l))
	copy(sorted, l)
	sorted.sortInPlace()
	return sorted
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return Ledger{}
	}
	c := make(Ledger, 0, len(l))
	for _, e := range l {
		if e == nil {
			continue
		}
		c = append(c, e.clone())
	}
	return c
}

// Validate checks the one-entry-per-normalized-date invariant.
func (l Ledger) Validate() error {
	seen := make(map[int64]bool, len(l))
	for _, e := range l {
		if e == nil {
			return &ComputationError{Reason: "nil ledger entry"}
		}
		if e.Date.IsZero() || !e.Date.Equal(NormalizeDate(e.Date)) {
			return &ComputationError{
				Reason: fmt.Sprintf("ledger entry date [%s] is not normalized", e.Date.Format(time.RFC3339)),
			}
		}
		day := e.Date.Unix()
		if seen[day] {
			return &ComputationError{
				Reason: fmt.Sprintf("duplicate ledger entry for [%s]", e.Date.UTC().Format(dateLayout)),
			}
		}
		seen[day] = true
	}
	return nil
}
