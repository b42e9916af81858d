package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// cameraEvent body posted to the ingestion endpoint
type cameraEvent struct {
	Timestamp     string  `json:"timestamp"`
	WorkerID      string  `json:"worker_id"`
	WorkstationID string  `json:"workstation_id"`
	EventType     string  `json:"event_type"`
	Confidence    float64 `json:"confidence"`
	Count         int     `json:"count"`
}

// classifier stands in for the vision model: W<n> is always seen at S<n>
type classifier struct {
	rng      *rand.Rand
	workers  []string
	stations []string
}

func newClassifier(rng *rand.Rand) *classifier {
	return &classifier{
		rng:      rng,
		workers:  []string{"W1", "W2", "W3", "W4", "W5", "W6"},
		stations: []string{"S1", "S2", "S3", "S4", "S5", "S6"},
	}
}

func (c *classifier) predict(now time.Time) cameraEvent {
	var eventType domain.EventType
	r := c.rng.Float64()
	switch {
	case r < 0.5:
		eventType = domain.EventTypeWorking
	case r < 0.65:
		eventType = domain.EventTypeIdle
	case r < 0.80:
		eventType = domain.EventTypeProductCount
	default:
		eventType = domain.EventTypeAbsent
	}

	idx := c.rng.Intn(len(c.workers))
	ev := cameraEvent{
		Timestamp:     now.UTC().Format(time.RFC3339Nano),
		WorkerID:      c.workers[idx],
		WorkstationID: c.stations[idx],
		EventType:     string(eventType),
		Confidence:    math.Round((0.85+c.rng.Float64()*0.15)*1000) / 1000,
	}
	if eventType == domain.EventTypeProductCount {
		ev.Count = 1 + c.rng.Intn(10)
	}
	return ev
}

// eventSender delivers one prediction to the metrics service
type eventSender interface {
	send(ctx context.Context, ev cameraEvent) error
}

// ingestClient posts events to /api/v1/events
type ingestClient struct {
	http   *resty.Client
	logger *zap.Logger
}

func newIngestClient(apiURL string, logger *zap.Logger) *ingestClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &ingestClient{http: client, logger: logger}
}

func (c *ingestClient) send(ctx context.Context, ev cameraEvent) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(ev).
		Post("/api/v1/events")
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	if resp.StatusCode() != 201 && resp.StatusCode() != 200 {
		return fmt.Errorf("ingest rejected: %d %s", resp.StatusCode(), resp.String())
	}
	c.logger.Info("Event sent",
		zap.String("event_type", ev.EventType),
		zap.String("worker_id", ev.WorkerID),
		zap.String("workstation_id", ev.WorkstationID),
	)
	return nil
}

// mqttPublisher is satisfied by *mqttcommon.Client
type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// mqttSender publishes events to the topic the service's MQTT ingest subscribes to
type mqttSender struct {
	pub    mqttPublisher
	topic  string
	qos    byte
	logger *zap.Logger
}

func (s *mqttSender) send(_ context.Context, ev cameraEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := s.pub.Publish(s.topic, s.qos, false, payload); err != nil {
		return err
	}
	s.logger.Info("Event published",
		zap.String("topic", s.topic),
		zap.String("event_type", ev.EventType),
		zap.String("worker_id", ev.WorkerID),
	)
	return nil
}

// run posts one prediction per interval until ctx ends or duration elapses (0 = no limit).
// It returns how many events were accepted.
func run(ctx context.Context, c eventSender, cl *classifier, interval, duration time.Duration, logger *zap.Logger) int {
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sent := 0
	for {
		if err := c.send(ctx, cl.predict(time.Now())); err != nil {
			if ctx.Err() != nil {
				return sent
			}
			logger.Warn("Failed to send event", zap.Error(err))
		} else {
			sent++
		}

		select {
		case <-ctx.Done():
			return sent
		case <-ticker.C:
		}
	}
}
