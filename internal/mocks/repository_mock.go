package mocks

import (
	"context"
	"time"

	"github.com/maheshrc27/clipstudio/internal/models"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/stretchr/testify/mock"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Save(ctx context.Context, s *publish.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*publish.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publish.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublishHistoryRepository struct {
	mock.Mock
}

func (m *MockPublishHistoryRepository) Create(ctx context.Context, ph *models.PublishHistory) (int64, error) {
	args := m.Called(ctx, ph)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPublishHistoryRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.PublishHistory, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublishHistory), args.Error(1)
}

func (m *MockPublishHistoryRepository) ListByUserID(ctx context.Context, userID string) ([]*models.PublishHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PublishHistory), args.Error(1)
}

func (m *MockPublishHistoryRepository) RemoveOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
