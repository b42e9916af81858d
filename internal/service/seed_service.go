package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/seed"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedResult POST /api/v1/seed response body
type SeedResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	EventsCount int    `json:"events_count"`
}

// SeedService replaces all events with a generated demo day
type SeedService struct {
	mu sync.Mutex // generator is not goroutine-safe

	events     repository.EventsRepository
	identities repository.IdentityRepository
	generator  *seed.Generator
	logger     *zap.Logger
}

// NewSeedService creates the seed service
func NewSeedService(
	events repository.EventsRepository,
	identities repository.IdentityRepository,
	generator *seed.Generator,
	logger *zap.Logger,
) *SeedService {
	return &SeedService{
		events:     events,
		identities: identities,
		generator:  generator,
		logger:     logger,
	}
}

// Seed clears events, registers the roster, then upserts one generated day
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.New().String()
	log := s.logger.With(zap.String("seed_run_id", runID))

	if _, err := s.events.DeleteAllEvents(ctx); err != nil {
		log.Error("Failed to clear events before seeding", zap.Error(err))
		return nil, fmt.Errorf("failed to seed data: %w", err)
	}

	roster := seed.Roster()
	for _, p := range roster {
		w := p.Worker
		if _, err := s.identities.EnsureWorker(ctx, &w); err != nil {
			log.Error("Failed to register seed worker", zap.String("worker_id", w.WorkerID), zap.Error(err))
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
		ws := p.Workstation
		if _, err := s.identities.EnsureWorkstation(ctx, &ws); err != nil {
			log.Error("Failed to register seed workstation", zap.String("station_id", ws.StationID), zap.Error(err))
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
	}

	events := s.generator.Generate(roster)
	for i := range events {
		if _, err := s.events.UpsertEvent(ctx, &events[i]); err != nil {
			log.Error("Failed to upsert seed event", zap.Int("index", i), zap.Error(err))
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
	}

	log.Info("Seed data generated", zap.Int("events", len(events)), zap.Int("workers", len(roster)))

	return &SeedResult{
		Success:     true,
		Message:     fmt.Sprintf("Generated %d events for %d workers", len(events), len(roster)),
		EventsCount: len(events),
	}, nil
}
