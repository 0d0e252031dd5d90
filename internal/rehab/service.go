package rehab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/rehabtracker/internal/adherence"
	"github.com/2beens/rehabtracker/internal/telemetry/metrics"
	"github.com/2beens/rehabtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const defaultWriteRetries = 3

// plan action names, used as the metrics label
const (
	actionComplete  = "complete"
	actionSkip      = "skip"
	actionReset     = "reset"
	actionRecompute = "recompute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=rehab_test

type stateRepo interface {
	CreatePlan(ctx context.Context, plan adherence.Plan) (err error)
	GetPlan(ctx context.Context, planID string) (_ *adherence.Plan, err error)
	UpdatePlanStatus(ctx context.Context, planID string, status adherence.PlanStatus) (err error)
	ListPlanIDs(ctx context.Context) (_ []string, err error)
	LoadState(ctx context.Context, planID string) (_ *PlanState, err error)
	SaveState(ctx context.Context, state *PlanState) (_ int64, err error)
	MarkAlertRead(ctx context.Context, planID string, idx int) (err error)
}

type planLocker interface {
	Lock(ctx context.Context, planID string) (_ func(), err error)
}

type alertSink interface {
	Publish(ctx context.Context, alerts []adherence.Alert) (err error)
}

type viewCache interface {
	Generation(ctx context.Context, planID string) (_ uint64, ok bool)
	Get(planID string, generation uint64) (*PlanView, bool)
	Set(view *PlanView, generation uint64)
	Invalidate(ctx context.Context, planID string)
}

type NewServiceParams struct {
	Repo                 stateRepo
	Locker               planLocker
	AlertSink            alertSink
	Cache                viewCache
	MetricsManager       *metrics.Manager
	WriteRetries         int
	RecomputeConcurrency int
	// Now is the clock for "today" and all timestamps, defaults to time.Now
	Now func() time.Time
}

type Service struct {
	repo                 stateRepo
	locker               planLocker
	alertSink            alertSink
	cache                viewCache
	metricsManager       *metrics.Manager
	engine               *adherence.Engine
	writeRetries         int
	recomputeConcurrency int
	now                  func() time.Time
}

func NewService(params NewServiceParams) *Service {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	writeRetries := params.WriteRetries
	if writeRetries <= 0 {
		writeRetries = defaultWriteRetries
	}
	recomputeConcurrency := params.RecomputeConcurrency
	if recomputeConcurrency <= 0 {
		recomputeConcurrency = 1
	}

	return &Service{
		repo:                 params.Repo,
		locker:               params.Locker,
		alertSink:            params.AlertSink,
		cache:                params.Cache,
		metricsManager:       params.MetricsManager,
		engine:               adherence.NewEngine(adherence.WithClock(now)),
		writeRetries:         writeRetries,
		recomputeConcurrency: recomputeConcurrency,
		now:                  now,
	}
}

func (s *Service) CreatePlan(ctx context.Context, plan adherence.Plan) (_ *adherence.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.plan.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if plan.Status == "" {
		plan.Status = adherence.PlanStatusActive
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now().UTC()
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan [%s]: %w", plan.ID, err)
	}

	log.Debugf("plan [%s] created for worker [%s], case [%s]", plan.ID, plan.WorkerID, plan.CaseID)
	return &plan, nil
}

// GetPlan returns the plan along with its stored adherence state.
func (s *Service) GetPlan(ctx context.Context, planID string) (_ *PlanView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.plan.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID))

	// read before loading, a write landing in between makes the cached view stale right away
	generation, cacheUsable := s.cache.Generation(ctx, planID)
	if cacheUsable {
		if view, ok := s.cache.Get(planID, generation); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return view, nil
		}
	}

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan [%s]: %w", planID, err)
	}
	state, err := s.repo.LoadState(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load state of plan [%s]: %w", planID, err)
	}

	view := &PlanView{
		Plan:  *plan,
		State: *state,
	}
	if cacheUsable {
		s.cache.Set(view, generation)
	}

	return view, nil
}

func (s *Service) SetPlanStatus(ctx context.Context, planID string, status adherence.PlanStatus) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.plan.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !status.IsValid() {
		return &adherence.ValidationError{Field: "plan status", Reason: fmt.Sprintf("unknown status [%s]", status)}
	}

	if err := s.repo.UpdatePlanStatus(ctx, planID, status); err != nil {
		return fmt.Errorf("update status of plan [%s]: %w", planID, err)
	}
	s.cache.Invalidate(context.WithoutCancel(ctx), planID)

	log.Debugf("plan [%s] status set to [%s]", planID, status)
	return nil
}

func (s *Service) ApplyCompletion(ctx context.Context, planID string, in adherence.CompletionInput) (_ *ActionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.action.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID), attribute.String("exercise.id", in.ExerciseID))

	return s.mutate(ctx, planID, actionComplete, func(plan adherence.Plan, snapshot adherence.Snapshot) (*adherence.Result, error) {
		return s.engine.ApplyCompletion(plan, snapshot, in)
	})
}

func (s *Service) ApplySkip(ctx context.Context, planID string, in adherence.SkipInput) (_ *ActionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.action.skip")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID), attribute.String("exercise.id", in.ExerciseID))

	return s.mutate(ctx, planID, actionSkip, func(plan adherence.Plan, snapshot adherence.Snapshot) (*adherence.Result, error) {
		return s.engine.ApplySkip(plan, snapshot, in)
	})
}

// ResetExercise puts the exercise back to not started on the given day, zero date means today.
func (s *Service) ResetExercise(ctx context.Context, planID, exerciseID string, date time.Time) (_ *ActionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.action.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID), attribute.String("exercise.id", exerciseID))

	return s.mutate(ctx, planID, actionReset, func(plan adherence.Plan, snapshot adherence.Snapshot) (*adherence.Result, error) {
		return s.engine.ApplyReset(plan, snapshot, exerciseID, date)
	})
}

// Recompute rebuilds derived stats of the plan from its ledger. It raises no alerts.
func (s *Service) Recompute(ctx context.Context, planID string) (_ *ActionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.action.recompute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID))

	return s.mutate(ctx, planID, actionRecompute, s.engine.Recompute)
}

// mutate runs one read-modify-write cycle on the plan state under the plan lock.
// A write that lost against a concurrent one is retried on a freshly loaded state.
func (s *Service) mutate(
	ctx context.Context,
	planID, action string,
	apply func(plan adherence.Plan, snapshot adherence.Snapshot) (*adherence.Result, error),
) (_ *ActionResult, err error) {
	defer func() {
		s.metricsManager.CounterPlanActions.WithLabelValues(action, actionOutcome(err)).Inc()
	}()

	unlock, err := s.locker.Lock(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("lock plan [%s]: %w", planID, err)
	}
	defer unlock()

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan [%s]: %w", planID, err)
	}

	var res *adherence.Result
	for attempt := 1; ; attempt++ {
		state, err := s.repo.LoadState(ctx, planID)
		if err != nil {
			return nil, fmt.Errorf("load state of plan [%s]: %w", planID, err)
		}

		res, err = apply(*plan, state.Snapshot())
		if err != nil {
			return nil, err
		}

		_, err = s.repo.SaveState(ctx, state.withResult(res, s.now().UTC()))
		if err == nil {
			break
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, fmt.Errorf("save state of plan [%s]: %w", planID, err)
		}

		s.metricsManager.CounterWriteConflicts.Inc()
		if attempt >= s.writeRetries {
			return nil, fmt.Errorf("save state of plan [%s] after %d attempts: %w", planID, attempt, err)
		}
		log.Warnf("plan [%s] %s: state changed concurrently, retrying [%d/%d]", planID, action, attempt, s.writeRetries)
	}

	s.cache.Invalidate(context.WithoutCancel(ctx), planID)
	s.emitAlerts(ctx, planID, res.NewAlerts)

	return &ActionResult{
		PlanID:     planID,
		Progress:   res.Stats,
		Pain:       res.PainStats,
		Milestones: adherence.GetMilestoneProgress(res.Stats, plan.Settings),
		NewAlerts:  res.NewAlerts,
	}, nil
}

// emitAlerts forwards new alerts. The state is stored by now, so a failed publish is only logged.
func (s *Service) emitAlerts(ctx context.Context, planID string, alerts []adherence.Alert) {
	if len(alerts) == 0 {
		return
	}

	for _, alert := range alerts {
		s.metricsManager.CounterAlerts.WithLabelValues(alert.Type.String()).Inc()
		log.Infof("plan [%s] alert [%s]: %s", planID, alert.Type, alert.Message)
	}

	if err := s.alertSink.Publish(ctx, alerts); err != nil {
		log.Errorf("publish %d alerts of plan [%s]: %s", len(alerts), planID, err)
	}
}

func actionOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case adherence.IsValidationError(err):
		return "invalid"
	case adherence.IsStateError(err):
		return "rejected"
	case errors.Is(err, ErrPlanLocked), errors.Is(err, ErrVersionConflict):
		return "conflict"
	case errors.Is(err, ErrPlanNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (s *Service) Progress(ctx context.Context, planID string) (_ *ProgressResponse, err error) {
	view, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	return &ProgressResponse{
		PlanID:     planID,
		Status:     view.Plan.Status,
		Progress:   view.State.Progress,
		Pain:       view.State.Pain,
		Milestones: view.Milestones(),
		UpdatedAt:  view.State.UpdatedAt,
	}, nil
}

func (s *Service) Milestones(ctx context.Context, planID string) ([]adherence.MilestoneProgress, error) {
	view, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return view.Milestones(), nil
}

// Alerts lists the plan alerts oldest first, optionally only the unread ones.
func (s *Service) Alerts(ctx context.Context, planID string, unreadOnly bool) ([]IndexedAlert, error) {
	view, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	alerts := make([]IndexedAlert, 0, len(view.State.Alerts))
	for i, alert := range view.State.Alerts {
		if unreadOnly && alert.IsRead {
			continue
		}
		alerts = append(alerts, IndexedAlert{
			Index: i,
			Alert: alert,
		})
	}

	return alerts, nil
}

func (s *Service) MarkAlertRead(ctx context.Context, planID string, idx int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.alert.read")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.MarkAlertRead(ctx, planID, idx); err != nil {
		return fmt.Errorf("mark alert [%d] of plan [%s] read: %w", idx, planID, err)
	}
	s.cache.Invalidate(context.WithoutCancel(ctx), planID)

	return nil
}
