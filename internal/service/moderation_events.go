package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/middleware"
	"github.com/arsverma5/huskyhub-api/internal/observability"
)

// publishEvent runs after commit. A delivery failure is logged and counted but never
// surfaces to the caller because the state change is already durable.
func publishEvent(ctx context.Context, publisher events.Publisher, logger zerolog.Logger, event events.ModerationEvent) {
	if publisher == nil {
		return
	}
	event.CorrelationID = middleware.CorrelationIDFromContext(ctx)
	if err := publisher.Publish(ctx, event); err != nil {
		observability.EventPublishFailures().WithLabelValues(string(event.Type)).Inc()
		logger.Warn().Err(err).
			Str("event_type", string(event.Type)).
			Uint("entity_id", event.EntityID).
			Msg("moderation event not delivered")
	}
}
