package rehab

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/2beens/rehabtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// RecomputeAll recomputes every stored plan, used for backfill and repair runs.
// One failed plan does not stop the others, failures are combined into the returned error
// and listed in the report.
func (s *Service) RecomputeAll(ctx context.Context) (_ *RecomputeReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rehab.recompute.all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	defer func() {
		s.metricsManager.HistRecomputeDuration.Observe(time.Since(start).Seconds())
	}()

	planIDs, err := s.repo.ListPlanIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plan ids: %w", err)
	}
	span.SetAttributes(attribute.Int("plans", len(planIDs)))
	log.Infof("recompute all: %d plans, concurrency %d", len(planIDs), s.recomputeConcurrency)

	var (
		mu        sync.Mutex
		failed    []string
		errs      error
		succeeded int
	)

	g := errgroup.Group{}
	g.SetLimit(s.recomputeConcurrency)
	for _, planID := range planIDs {
		g.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				failed = append(failed, planID)
				errs = multierr.Append(errs, fmt.Errorf("plan [%s]: %w", planID, ctx.Err()))
				mu.Unlock()
				return nil
			}

			_, recomputeErr := s.Recompute(ctx, planID)

			mu.Lock()
			defer mu.Unlock()
			if recomputeErr != nil {
				log.Errorf("recompute plan [%s]: %s", planID, recomputeErr)
				failed = append(failed, planID)
				errs = multierr.Append(errs, fmt.Errorf("plan [%s]: %w", planID, recomputeErr))
				return nil
			}
			succeeded++
			return nil
		})
	}
	// goroutines never return an error, failures are collected above
	_ = g.Wait()

	sort.Strings(failed)
	report := &RecomputeReport{
		Total:      len(planIDs),
		Recomputed: succeeded,
		Failed:     failed,
		Duration:   time.Since(start),
	}
	if report.Failed == nil {
		report.Failed = []string{}
	}

	log.Infof("recompute all done in %s: %d/%d recomputed", report.Duration, report.Recomputed, report.Total)
	return report, errs
}
