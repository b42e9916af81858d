package service

import (
	"context"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher EventPublisher mock
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, e *domain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockEventsRepository EventsRepository mock, used for storage failure paths
type MockEventsRepository struct {
	mock.Mock
}

func (m *MockEventsRepository) UpsertEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventsRepository) ListEvents(ctx context.Context, filter repository.EventFilter) ([]domain.EventRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventRecord), args.Error(1)
}

func (m *MockEventsRepository) DeleteAllEvents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventsRepository) LoadSnapshot(ctx context.Context) (*repository.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Snapshot), args.Error(1)
}
