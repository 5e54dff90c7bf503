package mocks

import (
	"context"
	"mime/multipart"

	"github.com/maheshrc27/clipstudio/internal/models"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/maheshrc27/clipstudio/internal/service"
	"github.com/maheshrc27/clipstudio/internal/transfer"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

type MockConnectionStore struct {
	mock.Mock
}

func (m *MockConnectionStore) CreateConnection(ctx context.Context, userID string, svc models.ConnectionService, code, redirectURL string) error {
	args := m.Called(ctx, userID, svc, code, redirectURL)
	return args.Error(0)
}

func (m *MockConnectionStore) DeleteConnection(ctx context.Context, userID string, svc models.ConnectionService) error {
	args := m.Called(ctx, userID, svc)
	return args.Error(0)
}

func (m *MockConnectionStore) ListConnections(ctx context.Context, userID string) ([]models.Connection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Connection), args.Error(1)
}

func (m *MockConnectionStore) Token(ctx context.Context, userID string, svc models.ConnectionService) (*oauth2.Token, error) {
	args := m.Called(ctx, userID, svc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

type MockTiktokService struct {
	mock.Mock
}

func (m *MockTiktokService) QueryCreatorInfo(ctx context.Context, token *oauth2.Token) (*models.CreatorPermissions, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatorPermissions), args.Error(1)
}

func (m *MockTiktokService) Publisher(token *oauth2.Token) publish.Provider {
	args := m.Called(token)
	return args.Get(0).(publish.Provider)
}

type MockAssetStorage struct {
	mock.Mock
}

func (m *MockAssetStorage) Upload(ctx context.Context, key string, file []byte, filetype string) error {
	args := m.Called(ctx, key, file, filetype)
	return args.Error(0)
}

func (m *MockAssetStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockConnectionService struct {
	mock.Mock
}

func (m *MockConnectionService) Create(ctx context.Context, userID, connectionType, code, redirectURL string) error {
	args := m.Called(ctx, userID, connectionType, code, redirectURL)
	return args.Error(0)
}

func (m *MockConnectionService) Delete(ctx context.Context, userID, connectionType string) error {
	args := m.Called(ctx, userID, connectionType)
	return args.Error(0)
}

func (m *MockConnectionService) ListAllowed(ctx context.Context, userID string) ([]models.AllowedConnection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AllowedConnection), args.Error(1)
}

type MockClipService struct {
	mock.Mock
}

func (m *MockClipService) Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*service.ClipUpload, error) {
	args := m.Called(ctx, userID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClipUpload), args.Error(1)
}

type MockPublishService struct {
	mock.Mock
}

func (m *MockPublishService) CreatorInfo(ctx context.Context, userID string) (*models.CreatorPermissions, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatorPermissions), args.Error(1)
}

func (m *MockPublishService) PublishForm(ctx context.Context, userID string, durationSec float64) publish.FormView {
	args := m.Called(ctx, userID, durationSec)
	return args.Get(0).(publish.FormView)
}

func (m *MockPublishService) Start(ctx context.Context, userID string, pc *transfer.PublishCreation) (*publish.Session, error) {
	args := m.Called(ctx, userID, pc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publish.Session), args.Error(1)
}

func (m *MockPublishService) Session(ctx context.Context, userID, sessionID string) (*publish.Session, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publish.Session), args.Error(1)
}

func (m *MockPublishService) Reset(ctx context.Context, userID, sessionID string) (*publish.Session, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publish.Session), args.Error(1)
}

func (m *MockPublishService) Discard(ctx context.Context, userID, sessionID string) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockPublishService) Execute(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockPublishService) History(ctx context.Context, userID string) ([]*models.PublishHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PublishHistory), args.Error(1)
}
