package rehab

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/rehabtracker/internal/adherence"
	"github.com/2beens/rehabtracker/internal/telemetry/tracing"
	"github.com/2beens/rehabtracker/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrPlanNotFound    = errors.New("plan not found")
	ErrPlanExists      = errors.New("plan already exists")
	ErrAlertNotFound   = errors.New("alert not found")
	ErrVersionConflict = errors.New("plan state was modified concurrently")
)

//go:embed schema.sql
var schemaSQL string

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// EnsureSchema creates the plan tables if they do not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreatePlan stores the plan together with its empty adherence state.
func (r *Repo) CreatePlan(ctx context.Context, plan adherence.Plan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.rehab.plan.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", plan.ID))

	settings, err := json.Marshal(plan.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	exercises, err := json.Marshal(plan.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}

	state := NewPlanState(plan.ID)
	ledger, progress, pain, alerts, err := marshalState(state)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO rehab_plan (id, worker_id, case_id, status, settings, exercises, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		plan.ID, plan.WorkerID, plan.CaseID, plan.Status, settings, exercises, plan.CreatedAt,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrPlanExists
		}
		return fmt.Errorf("insert plan: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO rehab_plan_state (plan_id, ledger, progress, pain, alerts, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6)
	`,
		plan.ID, ledger, progress, pain, alerts, plan.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert plan state: %w", err)
	}

	return nil
}

func (r *Repo) GetPlan(ctx context.Context, planID string) (_ *adherence.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.rehab.plan.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID))

	var plan adherence.Plan
	var settings, exercises []byte
	err = r.db.QueryRow(ctx, `
		SELECT id, worker_id, case_id, status, settings, exercises, created_at
		FROM rehab_plan
		WHERE id = $1
	`, planID).Scan(
		&plan.ID, &plan.WorkerID, &plan.CaseID, &plan.Status, &settings, &exercises, &plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(settings, &plan.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings of plan [%s]: %w", planID, err)
	}
	if err := json.Unmarshal(exercises, &plan.Exercises); err != nil {
		return nil, fmt.Errorf("unmarshal exercises of plan [%s]: %w", planID, err)
	}

	return &plan, nil
}

func (r *Repo) UpdatePlanStatus(ctx context.Context, planID string, status adherence.PlanStatus) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.rehab.plan.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID), attribute.String("status", status.String()))

	tag, err := r.db.Exec(ctx, `UPDATE rehab_plan SET status = $1 WHERE id = $2`, status, planID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// ListPlanIDs returns ids of all plans, ordered.
func (r *Repo) ListPlanIDs(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.rehab.plan.listids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id FROM rehab_plan ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(ids)))
	return ids, nil
}

func (r *Repo) LoadState(ctx context.Context, planID string) (_ *PlanState, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.rehab.state.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID))

	state := &PlanState{PlanID: planID}
	var ledger, progress, pain, alerts []byte
	err = r.db.QueryRow(ctx, `
		SELECT ledger, progress, pain, alerts, version, updated_at
		FROM rehab_plan_state
		WHERE plan_id = $1
	`, planID).Scan(&ledger, &progress, &pain, &alerts, &state.Version, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	for _, part := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"ledger", ledger, &state.Ledger},
		{"progress", progress, &state.Progress},
		{"pain", pain, &state.Pain},
		{"alerts", alerts, &state.Alerts},
	} {
		if err := json.Unmarshal(part.raw, part.dst); err != nil {
			return nil, fmt.Errorf("unmarshal %s of plan [%s]: %w", part.name, planID, err)
		}
	}
	if state.Ledger == nil {
		state.Ledger = adherence.Ledger{}
	}
	if state.Alerts == nil {
		state.Alerts = []adherence.Alert{}
	}

	span.SetAttributes(attribute.Int64("version", state.Version))
	return state, nil
}

// SaveState stores the state if it still has the version it was loaded with,
// and returns the new version. A concurrent write in between yields ErrVersionConflict.
func (r *Repo) SaveState(ctx context.Context, state *PlanState) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.rehab.state.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", state.PlanID), attribute.Int64("version", state.Version))

	ledger, progress, pain, alerts, err := marshalState(state)
	if err != nil {
		return 0, err
	}

	var newVersion int64
	err = r.db.QueryRow(ctx, `
		UPDATE rehab_plan_state
		SET ledger = $1, progress = $2, pain = $3, alerts = $4, updated_at = $5, version = version + 1
		WHERE plan_id = $6 AND version = $7
		RETURNING version
	`,
		ledger, progress, pain, alerts, state.UpdatedAt, state.PlanID, state.Version,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrVersionConflict
		}
		return 0, err
	}

	return newVersion, nil
}

// MarkAlertRead flips isRead of the alert at index idx in place, without a full state rewrite.
func (r *Repo) MarkAlertRead(ctx context.Context, planID string, idx int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.rehab.alert.read")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID), attribute.Int("alert.index", idx))

	if idx < 0 {
		return ErrAlertNotFound
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE rehab_plan_state
		SET alerts = jsonb_set(alerts, ARRAY[$2::text, 'isRead'], 'true'::jsonb),
		    version = version + 1,
		    updated_at = $4
		WHERE plan_id = $1 AND $3 < jsonb_array_length(alerts)
	`, planID, strconv.Itoa(idx), idx, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func marshalState(state *PlanState) (ledger, progress, pain, alerts []byte, err error) {
	if ledger, err = json.Marshal(state.Ledger); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal ledger: %w", err)
	}
	if progress, err = json.Marshal(state.Progress); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal progress: %w", err)
	}
	if pain, err = json.Marshal(state.Pain); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal pain stats: %w", err)
	}
	if alerts, err = json.Marshal(state.Alerts); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal alerts: %w", err)
	}
	return ledger, progress, pain, alerts, nil
}
