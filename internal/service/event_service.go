package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"

	"go.uber.org/zap"
)

// EventPublisher receives every committed event. A nil publisher disables fan-out.
type EventPublisher interface {
	PublishEvent(ctx context.Context, e *domain.Event) error
}

// EventServiceConfig query limits and identity policy. MaxLimit <= 0 leaves
// requested limits uncapped.
type EventServiceConfig struct {
	DefaultLimit           int
	MaxLimit               int
	RequireKnownIdentities bool
}

// EventService ingestion gate, event query and bulk clear
type EventService struct {
	events     repository.EventsRepository
	identities repository.IdentityRepository
	publisher  EventPublisher
	cfg        EventServiceConfig
	logger     *zap.Logger
}

// NewEventService creates the event service
func NewEventService(
	events repository.EventsRepository,
	identities repository.IdentityRepository,
	publisher EventPublisher,
	cfg EventServiceConfig,
	logger *zap.Logger,
) *EventService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 100
	}
	if cfg.MaxLimit > 0 && cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	return &EventService{
		events:     events,
		identities: identities,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
	}
}

// IngestRequest inbound event. Pointers distinguish absent from zero.
type IngestRequest struct {
	Timestamp     *string  `json:"timestamp"`
	WorkerID      *string  `json:"worker_id"`
	WorkstationID *string  `json:"workstation_id"`
	EventType     *string  `json:"event_type"`
	Confidence    *float64 `json:"confidence"`
	Count         *int     `json:"count"`
}

// accepted timestamp layouts, the ISO forms Postgres takes for timestamptz.
// Zone-less values and bare dates are read as UTC midnight/wall time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// Validate runs the ingestion rules in order and returns the normalized event.
// It does not consult the identity tables.
func (s *EventService) Validate(req IngestRequest) (*domain.Event, error) {
	if blank(req.Timestamp) || blank(req.WorkerID) || blank(req.WorkstationID) || blank(req.EventType) || req.Confidence == nil {
		return nil, newValidationError(RuleMissingFields, ErrMissingFields,
			"Missing required fields: timestamp, worker_id, workstation_id, event_type, confidence")
	}

	eventType := domain.EventType(strings.TrimSpace(*req.EventType))
	if !eventType.Valid() {
		return nil, newValidationError(RuleInvalidEventType, ErrInvalidEventType,
			"Invalid event_type. Must be one of: working, idle, absent, product_count")
	}

	confidence := *req.Confidence
	if confidence < 0 || confidence > 1 {
		return nil, newValidationError(RuleConfidenceRange, ErrConfidenceOutOfRange,
			"Confidence must be between 0 and 1")
	}

	ts, err := parseTimestamp(strings.TrimSpace(*req.Timestamp))
	if err != nil {
		return nil, newValidationError(RuleInvalidTimestamp, nil,
			"Invalid timestamp %q: expected ISO-8601", *req.Timestamp)
	}

	count := 0
	if req.Count != nil {
		count = *req.Count
	}
	if count < 0 {
		return nil, newValidationError(RuleInvalidCount, nil, "Count must be >= 0")
	}
	// count only carries meaning on product_count rows
	if eventType != domain.EventTypeProductCount {
		count = 0
	}

	return &domain.Event{
		Timestamp:     ts,
		WorkerID:      strings.TrimSpace(*req.WorkerID),
		WorkstationID: strings.TrimSpace(*req.WorkstationID),
		EventType:     eventType,
		Confidence:    confidence,
		Count:         count,
	}, nil
}

func (s *EventService) checkIdentities(ctx context.Context, e *domain.Event) error {
	if _, err := s.identities.GetWorker(ctx, e.WorkerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newValidationError(RuleUnknownWorker, nil, "Unknown worker_id %q", e.WorkerID)
		}
		return fmt.Errorf("failed to look up worker: %w", err)
	}
	if _, err := s.identities.GetWorkstation(ctx, e.WorkstationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newValidationError(RuleUnknownWorkstation, nil, "Unknown workstation_id %q", e.WorkstationID)
		}
		return fmt.Errorf("failed to look up workstation: %w", err)
	}
	return nil
}

// Ingest validates req and upserts it on the natural key. Resubmitting the same
// key overwrites confidence and count; the committed row is returned either way.
func (s *EventService) Ingest(ctx context.Context, req IngestRequest) (*domain.Event, error) {
	e, err := s.Validate(req)
	if err != nil {
		s.logger.Info("Event rejected", zap.Error(err))
		return nil, err
	}

	if s.cfg.RequireKnownIdentities {
		if err := s.checkIdentities(ctx, e); err != nil {
			if _, ok := AsValidationError(err); ok {
				s.logger.Info("Event rejected", zap.Error(err))
			} else {
				s.logger.Error("Identity lookup failed", zap.Error(err))
			}
			return nil, err
		}
	}

	committed, err := s.events.UpsertEvent(ctx, e)
	if err != nil {
		s.logger.Error("Failed to upsert event",
			zap.String("worker_id", e.WorkerID),
			zap.String("workstation_id", e.WorkstationID),
			zap.String("event_type", string(e.EventType)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to ingest event: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ctx, committed); err != nil {
			s.logger.Warn("Failed to publish committed event", zap.Int64("event_id", committed.ID), zap.Error(err))
		}
	}

	return committed, nil
}

// ListEventsRequest query filters. Empty strings and EventType "all" mean no constraint;
// Limit <= 0 selects the default.
type ListEventsRequest struct {
	WorkerID      string
	WorkstationID string
	EventType     string
	Limit         int
}

// ResolveFilter applies the defaults and caps of req
func (s *EventService) ResolveFilter(req ListEventsRequest) repository.EventFilter {
	filter := repository.EventFilter{
		WorkerID:      strings.TrimSpace(req.WorkerID),
		WorkstationID: strings.TrimSpace(req.WorkstationID),
		EventType:     strings.TrimSpace(req.EventType),
		Limit:         req.Limit,
	}
	if filter.EventType == domain.EventTypeAll {
		filter.EventType = ""
	}
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && filter.Limit > s.cfg.MaxLimit {
		filter.Limit = s.cfg.MaxLimit
	}
	return filter
}

// List most recent events first, enriched with identity names
func (s *EventService) List(ctx context.Context, req ListEventsRequest) ([]domain.EventRecord, error) {
	records, err := s.events.ListEvents(ctx, s.ResolveFilter(req))
	if err != nil {
		s.logger.Error("Failed to list events", zap.Error(err))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return records, nil
}

// Clear deletes every event and returns how many were removed
func (s *EventService) Clear(ctx context.Context) (int64, error) {
	n, err := s.events.DeleteAllEvents(ctx)
	if err != nil {
		s.logger.Error("Failed to delete events", zap.Error(err))
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	s.logger.Info("All events deleted", zap.Int64("deleted", n))
	return n, nil
}
