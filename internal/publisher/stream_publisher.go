// Package publisher fans committed events out to a Redis stream so downstream
// consumers can react without polling the events table.
package publisher

import (
	"context"
	"fmt"

	rediscommon "github.com/Anshuman122/worker-productivity-dashboard-final/common/redis"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"

	"go.uber.org/zap"
)

// StreamPublisher XADDs every committed event as JSON under the "data" field
type StreamPublisher struct {
	client *rediscommon.Client
	stream string
	logger *zap.Logger
}

// NewStreamPublisher creates a publisher writing to stream
func NewStreamPublisher(client *rediscommon.Client, stream string, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, logger: logger}
}

// PublishEvent implements service.EventPublisher
func (p *StreamPublisher) PublishEvent(ctx context.Context, e *domain.Event) error {
	id, err := rediscommon.PublishJSONToStream(ctx, p.client, p.stream, e)
	if err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", p.stream, err)
	}
	p.logger.Debug("Committed event published",
		zap.String("stream", p.stream),
		zap.String("message_id", id),
		zap.Int64("event_id", e.ID),
	)
	return nil
}
