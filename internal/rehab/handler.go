package rehab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/rehabtracker/internal/adherence"
	"github.com/2beens/rehabtracker/internal/telemetry/tracing"
	"github.com/2beens/rehabtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=rehab_test

type planService interface {
	CreatePlan(ctx context.Context, plan adherence.Plan) (_ *adherence.Plan, err error)
	GetPlan(ctx context.Context, planID string) (_ *PlanView, err error)
	SetPlanStatus(ctx context.Context, planID string, status adherence.PlanStatus) (err error)
	ApplyCompletion(ctx context.Context, planID string, in adherence.CompletionInput) (_ *ActionResult, err error)
	ApplySkip(ctx context.Context, planID string, in adherence.SkipInput) (_ *ActionResult, err error)
	ResetExercise(ctx context.Context, planID, exerciseID string, date time.Time) (_ *ActionResult, err error)
	Recompute(ctx context.Context, planID string) (_ *ActionResult, err error)
	Progress(ctx context.Context, planID string) (_ *ProgressResponse, err error)
	Milestones(ctx context.Context, planID string) ([]adherence.MilestoneProgress, error)
	Alerts(ctx context.Context, planID string, unreadOnly bool) ([]IndexedAlert, error)
	MarkAlertRead(ctx context.Context, planID string, idx int) (err error)
}

type CompleteRequest struct {
	DurationSeconds *float64 `json:"durationSeconds"`
	PainLevel       *float64 `json:"painLevel"`
	PainNotes       string   `json:"painNotes"`
	// Date YYYY-MM-DD, empty means today
	Date string `json:"date"`
}

type SkipRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
	Date   string `json:"date"`
}

type ResetRequest struct {
	Date string `json:"date"`
}

type StatusRequest struct {
	Status adherence.PlanStatus `json:"status"`
}

type Handler struct {
	service planService
}

func NewHandler(service planService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.plan.create")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var plan adherence.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		log.Errorf("new plan, unmarshal json params: %s", err)
		http.Error(w, "add plan failed", http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreatePlan(ctx, plan)
	if err != nil {
		writeError(w, err, "add plan failed")
		return
	}

	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.plan.get")
	defer span.End()

	view, err := handler.service.GetPlan(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get plan failed")
		return
	}

	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.plan.status")
	defer span.End()

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("set plan status, unmarshal json params: %s", err)
		http.Error(w, "set plan status failed", http.StatusBadRequest)
		return
	}

	planID := mux.Vars(r)["id"]
	if err := handler.service.SetPlanStatus(ctx, planID, req.Status); err != nil {
		writeError(w, err, "set plan status failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.exercise.complete")
	defer span.End()

	var req CompleteRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		log.Errorf("complete exercise, unmarshal json params: %s", err)
		http.Error(w, "complete exercise failed", http.StatusBadRequest)
		return
	}

	date, err := parseRequestDate(req.Date)
	if err != nil {
		writeError(w, err, "complete exercise failed")
		return
	}

	vars := mux.Vars(r)
	in := adherence.CompletionInput{
		ExerciseID: vars["exid"],
		PainLevel:  req.PainLevel,
		PainNotes:  req.PainNotes,
		Date:       date,
	}
	if req.DurationSeconds != nil {
		if math.IsNaN(*req.DurationSeconds) || math.IsInf(*req.DurationSeconds, 0) {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}
		duration := time.Duration(*req.DurationSeconds * float64(time.Second))
		in.Duration = &duration
	}

	res, err := handler.service.ApplyCompletion(ctx, vars["id"], in)
	if err != nil {
		writeError(w, err, "complete exercise failed")
		return
	}

	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.exercise.skip")
	defer span.End()

	var req SkipRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		log.Errorf("skip exercise, unmarshal json params: %s", err)
		http.Error(w, "skip exercise failed", http.StatusBadRequest)
		return
	}

	date, err := parseRequestDate(req.Date)
	if err != nil {
		writeError(w, err, "skip exercise failed")
		return
	}

	vars := mux.Vars(r)
	res, err := handler.service.ApplySkip(ctx, vars["id"], adherence.SkipInput{
		ExerciseID: vars["exid"],
		Reason:     req.Reason,
		Notes:      req.Notes,
		Date:       date,
	})
	if err != nil {
		writeError(w, err, "skip exercise failed")
		return
	}

	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.exercise.reset")
	defer span.End()

	var req ResetRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		log.Errorf("reset exercise, unmarshal json params: %s", err)
		http.Error(w, "reset exercise failed", http.StatusBadRequest)
		return
	}

	date, err := parseRequestDate(req.Date)
	if err != nil {
		writeError(w, err, "reset exercise failed")
		return
	}

	vars := mux.Vars(r)
	res, err := handler.service.ResetExercise(ctx, vars["id"], vars["exid"], date)
	if err != nil {
		writeError(w, err, "reset exercise failed")
		return
	}

	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.plan.recompute")
	defer span.End()

	res, err := handler.service.Recompute(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "recompute plan failed")
		return
	}

	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.plan.progress")
	defer span.End()

	progress, err := handler.service.Progress(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get progress failed")
		return
	}

	pkg.WriteJSON(w, progress, http.StatusOK)
}

func (handler *Handler) HandleMilestones(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.plan.milestones")
	defer span.End()

	milestones, err := handler.service.Milestones(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get milestones failed")
		return
	}

	pkg.WriteJSON(w, milestones, http.StatusOK)
}

func (handler *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.plan.alerts")
	defer span.End()

	unreadOnly := false
	if unreadParam := r.URL.Query().Get("unread"); unreadParam != "" {
		var err error
		if unreadOnly, err = strconv.ParseBool(unreadParam); err != nil {
			http.Error(w, "invalid unread param", http.StatusBadRequest)
			return
		}
	}

	alerts, err := handler.service.Alerts(ctx, mux.Vars(r)["id"], unreadOnly)
	if err != nil {
		writeError(w, err, "get alerts failed")
		return
	}

	pkg.WriteJSON(w, alerts, http.StatusOK)
}

func (handler *Handler) HandleMarkAlertRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rehab.alert.read")
	defer span.End()

	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["idx"])
	if err != nil || idx < 0 {
		http.Error(w, "invalid alert index", http.StatusBadRequest)
		return
	}

	if err := handler.service.MarkAlertRead(ctx, vars["id"], idx); err != nil {
		writeError(w, err, "mark alert read failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeOptionalBody allows action requests without a body at all.
// decodeOptionalBody leaves dst as is when there is no body, chunked empty ones included.
func decodeOptionalBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseRequestDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	return adherence.ParseDate(date)
}

func writeError(w http.ResponseWriter, err error, message string) {
	status := errorStatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %s", message, err)
	} else {
		log.Debugf("%s: %s", message, err)
	}
	http.Error(w, fmt.Sprintf("%s: %s", message, err), status)
}

func errorStatusCode(err error) int {
	switch {
	case adherence.IsValidationError(err):
		return http.StatusBadRequest
	case adherence.IsStateError(err):
		return http.StatusConflict
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPlanExists), errors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPlanLocked):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
