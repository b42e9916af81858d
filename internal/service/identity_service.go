package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"

	"go.uber.org/zap"
)

// IdentityService worker / workstation registry
type IdentityService struct {
	repo   repository.IdentityRepository
	logger *zap.Logger
}

// NewIdentityService creates the identity service
func NewIdentityService(repo repository.IdentityRepository, logger *zap.Logger) *IdentityService {
	return &IdentityService{repo: repo, logger: logger}
}

// RegisterWorkerRequest POST /api/v1/workers body
type RegisterWorkerRequest struct {
	WorkerID string `json:"worker_id"`
	Name     string `json:"name"`
}

// RegisterWorkstationRequest POST /api/v1/workstations body
type RegisterWorkstationRequest struct {
	StationID string `json:"station_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

func (s *IdentityService) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	workers, err := s.repo.ListWorkers(ctx)
	if err != nil {
		s.logger.Error("Failed to list workers", zap.Error(err))
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

func (s *IdentityService) ListWorkstations(ctx context.Context) ([]domain.Workstation, error) {
	stations, err := s.repo.ListWorkstations(ctx)
	if err != nil {
		s.logger.Error("Failed to list workstations", zap.Error(err))
		return nil, fmt.Errorf("failed to list workstations: %w", err)
	}
	return stations, nil
}

// RegisterWorker inserts the worker if absent; an existing worker is returned unchanged
func (s *IdentityService) RegisterWorker(ctx context.Context, req RegisterWorkerRequest) (*domain.Worker, error) {
	id := strings.TrimSpace(req.WorkerID)
	name := strings.TrimSpace(req.Name)
	if id == "" || name == "" {
		return nil, newValidationError(RuleMissingFields, ErrMissingFields, "Missing required fields: worker_id, name")
	}

	w, err := s.repo.EnsureWorker(ctx, &domain.Worker{WorkerID: id, Name: name})
	if err != nil {
		s.logger.Error("Failed to register worker", zap.String("worker_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to register worker: %w", err)
	}
	return w, nil
}

// RegisterWorkstation inserts the workstation if absent; an existing one is returned unchanged
func (s *IdentityService) RegisterWorkstation(ctx context.Context, req RegisterWorkstationRequest) (*domain.Workstation, error) {
	id := strings.TrimSpace(req.StationID)
	name := strings.TrimSpace(req.Name)
	if id == "" || name == "" {
		return nil, newValidationError(RuleMissingFields, ErrMissingFields, "Missing required fields: station_id, name")
	}

	ws, err := s.repo.EnsureWorkstation(ctx, &domain.Workstation{
		StationID: id,
		Name:      name,
		Type:      strings.ToLower(strings.TrimSpace(req.Type)),
	})
	if err != nil {
		s.logger.Error("Failed to register workstation", zap.String("station_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to register workstation: %w", err)
	}
	return ws, nil
}
