package service

import (
	"context"
	"fmt"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/metrics"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"

	"go.uber.org/zap"
)

// MetricsService recomputes the full report on every call; nothing is cached
type MetricsService struct {
	events repository.EventsRepository
	engine *metrics.Engine
	logger *zap.Logger
}

// NewMetricsService creates the metrics service
func NewMetricsService(events repository.EventsRepository, engine *metrics.Engine, logger *zap.Logger) *MetricsService {
	return &MetricsService{events: events, engine: engine, logger: logger}
}

// Report reads a consistent snapshot and aggregates it
func (s *MetricsService) Report(ctx context.Context) (*metrics.Report, error) {
	snap, err := s.events.LoadSnapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to load snapshot", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch metrics: %w", err)
	}
	return s.engine.Compute(snap), nil
}

// Export the current report as an XLSX workbook
func (s *MetricsService) Export(ctx context.Context) ([]byte, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	data, err := metrics.ExportXLSX(report)
	if err != nil {
		s.logger.Error("Failed to render metrics workbook", zap.Error(err))
		return nil, fmt.Errorf("failed to export metrics: %w", err)
	}
	return data, nil
}
