package consumer

import (
	"context"
	"encoding/json"
	"time"

	mqttcommon "github.com/Anshuman122/worker-productivity-dashboard-final/common/mqtt"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"go.uber.org/zap"
)

const mqttIngestTimeout = 10 * time.Second

// NewMQTTIngestHandler decodes each MQTT payload as an event and runs it through the gate.
// Malformed and rejected payloads are logged and dropped; only storage failures are returned.
func NewMQTTIngestHandler(ingester Ingester, logger *zap.Logger) mqttcommon.MessageHandler {
	return func(topic string, payload []byte) error {
		var req service.IngestRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			logger.Warn("Dropping malformed MQTT event",
				zap.String("topic", topic),
				zap.Error(err),
			)
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), mqttIngestTimeout)
		defer cancel()

		e, err := ingester.Ingest(ctx, req)
		if err != nil {
			if ve, ok := service.AsValidationError(err); ok {
				logger.Warn("MQTT event rejected",
					zap.String("topic", topic),
					zap.String("rule", ve.Rule),
					zap.String("reason", ve.Message),
				)
				return nil
			}
			return err
		}

		logger.Debug("MQTT event ingested", zap.String("topic", topic), zap.Int64("event_id", e.ID))
		return nil
	}
}
