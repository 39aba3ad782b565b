package service

import (
	"context"
	"time"

	"neomind-chat-be/internal/pkg/logger"
	"neomind-chat-be/pkg/events"
)

// publishEvent never fails the caller; a lost event is logged instead.
func publishEvent(ctx context.Context, pub events.Publisher, log logger.ILogger, eventType string, data map[string]interface{}) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := pub.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		log.Warn("Events", "Failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
