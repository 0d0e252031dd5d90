//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/rehabtracker/internal/adherence"
	"github.com/2beens/rehabtracker/internal/rehab"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) newPlan(ctx context.Context, exerciseIDs ...string) adherence.Plan {
	t := s.T()

	plan := adherence.Plan{
		ID:       gofakeit.UUID(),
		WorkerID: gofakeit.UUID(),
		CaseID:   gofakeit.Numerify("case-####"),
	}
	for _, id := range exerciseIDs {
		plan.Exercises = append(plan.Exercises, adherence.Exercise{
			ID:       id,
			Name:     gofakeit.HipsterWord(),
			Duration: 10 * time.Minute,
		})
	}

	status, respBytes := s.doRequest(ctx, "POST", "/plans", plan)
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	var created adherence.Plan
	require.NoError(t, json.Unmarshal(respBytes, &created))
	assert.Equal(t, plan.ID, created.ID)
	assert.Equal(t, adherence.PlanStatusActive, created.Status)

	return created
}

func (s *IntegrationTestSuite) TestRehab_CompleteDay() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	plan := s.newPlan(ctx, "ex1", "ex2")

	status, respBytes := s.doRequest(ctx, "POST",
		fmt.Sprintf("/plans/%s/exercises/ex1/complete", plan.ID),
		rehab.CompleteRequest{PainLevel: ptr(8.0), PainNotes: "knee"},
	)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var first rehab.ActionResult
	require.NoError(t, json.Unmarshal(respBytes, &first))
	assert.Equal(t, 0, first.Progress.TotalDays)
	require.Len(t, first.NewAlerts, 1)
	assert.Equal(t, adherence.AlertTypeHighPainReported, first.NewAlerts[0].Type)

	// no body at all is a completion without duration or pain
	status, respBytes = s.doRequest(ctx, "POST", fmt.Sprintf("/plans/%s/exercises/ex2/complete", plan.ID), nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var second rehab.ActionResult
	require.NoError(t, json.Unmarshal(respBytes, &second))
	assert.Equal(t, 1, second.Progress.TotalDays)
	assert.Equal(t, 1, second.Progress.CompletedDays)
	assert.Equal(t, 1, second.Progress.ConsecutiveCompletedDays)

	status, respBytes = s.doRequest(ctx, "GET", fmt.Sprintf("/plans/%s/progress", plan.ID), nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var progress rehab.ProgressResponse
	require.NoError(t, json.Unmarshal(respBytes, &progress))
	assert.Equal(t, plan.ID, progress.PlanID)
	assert.Equal(t, 1, progress.Progress.ConsecutiveCompletedDays)
	require.Len(t, progress.Milestones, 4)
	assert.Equal(t, 5, progress.Milestones[0].Days)
	assert.False(t, progress.Milestones[0].Achieved)

	var version int64
	var ledgerDays int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT version, jsonb_array_length(ledger) FROM rehab_plan_state WHERE plan_id = $1`, plan.ID,
	).Scan(&version, &ledgerDays))
	assert.Equal(t, int64(3), version)
	assert.Equal(t, 1, ledgerDays)
}

func (s *IntegrationTestSuite) TestRehab_Alerts() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	plan := s.newPlan(ctx, "ex1")

	status, respBytes := s.doRequest(ctx, "POST",
		fmt.Sprintf("/plans/%s/exercises/ex1/complete", plan.ID),
		rehab.CompleteRequest{PainLevel: ptr(9.0)},
	)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	status, respBytes = s.doRequest(ctx, "GET", fmt.Sprintf("/plans/%s/alerts?unread=true", plan.ID), nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var alerts []rehab.IndexedAlert
	require.NoError(t, json.Unmarshal(respBytes, &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, adherence.AlertTypeHighPainReported, alerts[0].Type)
	assert.Equal(t, plan.ID, alerts[0].Metadata.PlanID)

	status, _ = s.doRequest(ctx, "PUT", fmt.Sprintf("/plans/%s/alerts/%d/read", plan.ID, alerts[0].Index), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, respBytes = s.doRequest(ctx, "GET", fmt.Sprintf("/plans/%s/alerts?unread=true", plan.ID), nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(respBytes, &alerts))
	assert.Empty(t, alerts)

	status, _ = s.doRequest(ctx, "PUT", fmt.Sprintf("/plans/%s/alerts/7/read", plan.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestRehab_RejectedActions() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	plan := s.newPlan(ctx, "ex1")

	status, _ := s.doRequest(ctx, "POST", fmt.Sprintf("/plans/%s/exercises/nope/complete", plan.ID), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, respBytes := s.doRequest(ctx, "PUT",
		fmt.Sprintf("/plans/%s/status", plan.ID),
		rehab.StatusRequest{Status: adherence.PlanStatusPaused},
	)
	require.Equal(t, http.StatusNoContent, status, string(respBytes))

	status, _ = s.doRequest(ctx, "POST", fmt.Sprintf("/plans/%s/exercises/ex1/skip", plan.ID), rehab.SkipRequest{Reason: "sick"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.doRequest(ctx, "GET", fmt.Sprintf("/plans/%s/progress", gofakeit.UUID()), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestRehab_SkipResetAndRecompute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	plan := s.newPlan(ctx, "ex1")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	status, respBytes := s.doRequest(ctx, "POST",
		fmt.Sprintf("/plans/%s/exercises/ex1/skip", plan.ID),
		rehab.SkipRequest{Reason: "travel", Date: yesterday},
	)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var skipped rehab.ActionResult
	require.NoError(t, json.Unmarshal(respBytes, &skipped))
	assert.Equal(t, 1, skipped.Progress.SkippedDays)
	assert.Equal(t, 1, skipped.Progress.ConsecutiveSkippedDays)

	status, respBytes = s.doRequest(ctx, "POST",
		fmt.Sprintf("/plans/%s/exercises/ex1/reset", plan.ID),
		rehab.ResetRequest{Date: yesterday},
	)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var reset rehab.ActionResult
	require.NoError(t, json.Unmarshal(respBytes, &reset))
	assert.Equal(t, 0, reset.Progress.TotalDays)
	assert.Equal(t, 0, reset.Progress.SkippedDays)

	status, respBytes = s.doRequest(ctx, "POST", fmt.Sprintf("/plans/%s/recompute", plan.ID), nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var recomputed rehab.ActionResult
	require.NoError(t, json.Unmarshal(respBytes, &recomputed))
	assert.Equal(t, reset.Progress, recomputed.Progress)
	assert.Empty(t, recomputed.NewAlerts)
}

func ptr[T any](v T) *T {
	return &v
}
