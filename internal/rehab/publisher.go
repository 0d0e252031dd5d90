package rehab

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/rehabtracker/internal/adherence"
	"github.com/2beens/rehabtracker/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// AlertPublisher hands newly raised alerts over to the notification subsystem
// through a redis pub/sub channel.
type AlertPublisher struct {
	redisClient *redis.Client
	channel     string
}

func NewAlertPublisher(redisClient *redis.Client, channel string) *AlertPublisher {
	return &AlertPublisher{
		redisClient: redisClient,
		channel:     channel,
	}
}

// Publish sends every alert, one message each. A failed alert does not stop the rest.
func (p *AlertPublisher) Publish(ctx context.Context, alerts []adherence.Alert) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "publisher.rehab.alerts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("channel", p.channel), attribute.Int("count", len(alerts)))

	for _, alert := range alerts {
		alertJson, marshalErr := json.Marshal(alert)
		if marshalErr != nil {
			err = multierr.Append(err, fmt.Errorf("marshal alert [%s]: %w", alert.Type, marshalErr))
			continue
		}
		if pubErr := p.redisClient.Publish(ctx, p.channel, string(alertJson)).Err(); pubErr != nil {
			err = multierr.Append(err, fmt.Errorf("publish alert [%s]: %w", alert.Type, pubErr))
		}
	}

	return err
}
