package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	rediscommon "github.com/Anshuman122/worker-productivity-dashboard-final/common/redis"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"go.uber.org/zap"
)

// Ingester the ingestion gate; *service.EventService satisfies it
type Ingester interface {
	Ingest(ctx context.Context, req service.IngestRequest) (*domain.Event, error)
}

// StreamConsumer reads classifier events from a Redis stream and feeds them through the gate
type StreamConsumer struct {
	redisClient  *rediscommon.Client
	ingester     Ingester
	logger       *zap.Logger
	stream       string
	groupName    string
	consumerName string
	batchSize    int64
	block        time.Duration
}

// NewStreamConsumer creates the stream consumer
func NewStreamConsumer(
	redisClient *rediscommon.Client,
	ingester Ingester,
	logger *zap.Logger,
	stream string,
	groupName string,
	consumerName string,
	batchSize int64,
) *StreamConsumer {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &StreamConsumer{
		redisClient:  redisClient,
		ingester:     ingester,
		logger:       logger,
		stream:       stream,
		groupName:    groupName,
		consumerName: consumerName,
		batchSize:    batchSize,
		block:        2 * time.Second,
	}
}

// Start consumes until ctx is cancelled, backing off exponentially on read errors
func (c *StreamConsumer) Start(ctx context.Context) error {
	if err := rediscommon.CreateConsumerGroup(ctx, c.redisClient, c.stream, c.groupName); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("Stream ingest consumer started",
		zap.String("stream", c.stream),
		zap.String("consumer_group", c.groupName),
		zap.String("consumer_name", c.consumerName),
	)

	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.consumeEvents(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("Failed to consume events",
					zap.Error(err),
					zap.Duration("backoff", backoffDuration),
				)

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(backoffDuration):
					backoffDuration *= 2
					if backoffDuration > maxBackoff {
						backoffDuration = maxBackoff
					}
				}
			} else {
				backoffDuration = time.Second
			}
		}
	}
}

// consumeEvents first retries this consumer's pending entries, then reads new
// ones. Rejected and unparsable messages are acked; storage failures stay
// pending and are returned as an error so Start backs off before the retry.
func (c *StreamConsumer) consumeEvents(ctx context.Context) error {
	pending, err := rediscommon.ReadPendingFromStream(
		ctx,
		c.redisClient,
		c.stream,
		c.groupName,
		c.consumerName,
		c.batchSize,
	)
	if err != nil {
		return fmt.Errorf("failed to read pending entries: %w", err)
	}
	if failed := c.handleMessages(ctx, pending); failed > 0 {
		return fmt.Errorf("%d pending events still failing", failed)
	}

	messages, err := rediscommon.ReadFromStream(
		ctx,
		c.redisClient,
		c.stream,
		c.groupName,
		c.consumerName,
		c.batchSize,
		c.block,
	)
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}
	if failed := c.handleMessages(ctx, messages); failed > 0 {
		return fmt.Errorf("%d events left pending", failed)
	}
	return nil
}

// handleMessages processes and acks messages, returning how many stay pending
func (c *StreamConsumer) handleMessages(ctx context.Context, messages []rediscommon.StreamMessage) int {
	failed := 0
	for _, msg := range messages {
		if err := c.processEvent(ctx, msg); err != nil {
			c.logger.Error("Failed to ingest stream event",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
			failed++
			continue
		}
		if err := rediscommon.Ack(ctx, c.redisClient, c.stream, c.groupName, msg.ID); err != nil {
			c.logger.Warn("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}
	return failed
}

// processEvent returns an error only when the message should be retried
func (c *StreamConsumer) processEvent(ctx context.Context, msg rediscommon.StreamMessage) error {
	req, err := parseEvent(msg)
	if err != nil {
		c.logger.Warn("Dropping malformed stream event",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return nil
	}

	e, err := c.ingester.Ingest(ctx, *req)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			c.logger.Warn("Stream event rejected",
				zap.String("message_id", msg.ID),
				zap.String("rule", ve.Rule),
				zap.String("reason", ve.Message),
			)
			return nil
		}
		return err
	}

	c.logger.Debug("Stream event ingested",
		zap.String("message_id", msg.ID),
		zap.Int64("event_id", e.ID),
	)
	return nil
}

// parseEvent accepts either a JSON body in "data" or flat fields
func parseEvent(msg rediscommon.StreamMessage) (*service.IngestRequest, error) {
	if dataStr, ok := msg.Values["data"].(string); ok {
		var req service.IngestRequest
		if err := json.Unmarshal([]byte(dataStr), &req); err != nil {
			return nil, fmt.Errorf("invalid data payload: %w", err)
		}
		return &req, nil
	}

	req := &service.IngestRequest{}
	if v, ok := msg.Values["timestamp"].(string); ok {
		req.Timestamp = &v
	}
	if v, ok := msg.Values["worker_id"].(string); ok {
		req.WorkerID = &v
	}
	if v, ok := msg.Values["workstation_id"].(string); ok {
		req.WorkstationID = &v
	}
	if v, ok := msg.Values["event_type"].(string); ok {
		req.EventType = &v
	}
	if v, ok := msg.Values["confidence"].(string); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid confidence %q: %w", v, err)
		}
		req.Confidence = &f
	}
	if v, ok := msg.Values["count"].(string); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid count %q: %w", v, err)
		}
		req.Count = &n
	}
	return req, nil
}
