package rehab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/rehabtracker/internal/telemetry/tracing"
	"github.com/2beens/rehabtracker/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	planLockKeyPrefix       = "rehab-plan-lock||"
	planLockTokenLength     = 24
	defaultLockAttempts     = 5
	defaultLockRetryBackoff = 50 * time.Millisecond
)

var ErrPlanLocked = errors.New("plan is locked by another action")

// deletes the lock only if it is still held with our token
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// PlanLocker serializes read-modify-write cycles on a single plan across service instances.
type PlanLocker struct {
	redisClient   *redis.Client
	ttl           time.Duration
	attempts      int
	retryInterval time.Duration
	// ability to inject random string generator func for lock tokens (for unit testing)
	RandStringFunc func(s int) (string, error)
}

func NewPlanLocker(redisClient *redis.Client, ttl time.Duration) *PlanLocker {
	return &PlanLocker{
		redisClient:    redisClient,
		ttl:            ttl,
		attempts:       defaultLockAttempts,
		retryInterval:  defaultLockRetryBackoff,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func planLockKey(planID string) string {
	return planLockKeyPrefix + planID
}

// Lock acquires the plan lock, retrying a few times while it is held by someone else.
// The returned func releases it.
func (l *PlanLocker) Lock(ctx context.Context, planID string) (_ func(), err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "locker.rehab.plan.lock")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID))

	token, err := l.RandStringFunc(planLockTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate lock token: %w", err)
	}

	key := planLockKey(planID)
	for attempt := 1; attempt <= l.attempts; attempt++ {
		acquired, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("set plan lock: %w", err)
		}
		if acquired {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return func() {
				l.release(context.WithoutCancel(ctx), key, token)
			}, nil
		}

		if attempt == l.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}

	return nil, ErrPlanLocked
}

func (l *PlanLocker) release(ctx context.Context, key, token string) {
	released, err := l.redisClient.Eval(ctx, releaseLockScript, []string{key}, token).Int()
	if err != nil {
		log.Errorf("release plan lock [%s]: %s", key, err)
		return
	}
	if released == 0 {
		// lock expired and maybe taken by someone else meanwhile
		log.Warnf("plan lock [%s] was not held on release", key)
	}
}
