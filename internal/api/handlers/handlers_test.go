package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	config "github.com/maheshrc27/clipstudio/configs"
	"github.com/maheshrc27/clipstudio/internal/api"
	"github.com/maheshrc27/clipstudio/internal/api/handlers"
	"github.com/maheshrc27/clipstudio/internal/api/middleware"
	"github.com/maheshrc27/clipstudio/internal/mocks"
	"github.com/maheshrc27/clipstudio/internal/models"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/maheshrc27/clipstudio/internal/queue"
	"github.com/maheshrc27/clipstudio/internal/repository"
	"github.com/maheshrc27/clipstudio/internal/service"
	"github.com/maheshrc27/clipstudio/internal/transfer"
	"github.com/maheshrc27/clipstudio/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "handlers-secret"

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task1", Queue: "default"}, nil
}

type testApp struct {
	app         *fiber.App
	connections *mocks.MockConnectionService
	clips       *mocks.MockClipService
	publish     *mocks.MockPublishService
	enqueuer    *fakeEnqueuer
	token       string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Config{SecretKey: testSecret, FrontendURL: "http://localhost:5173"}
	ta := &testApp{
		connections: new(mocks.MockConnectionService),
		clips:       new(mocks.MockClipService),
		publish:     new(mocks.MockPublishService),
		enqueuer:    &fakeEnqueuer{},
	}

	ta.app = api.NewApp(cfg)
	api.SetupRoutes(ta.app, api.Handlers{
		Layers:      handlers.NewLayerHandler(),
		Connections: handlers.NewConnectionHandler(ta.connections),
		Clips:       handlers.NewClipHandler(ta.clips),
		Publish:     handlers.NewPublishHandler(ta.publish, ta.enqueuer, time.Minute),
	}, middleware.NewAuthMiddleware(cfg).AuthMiddleware())

	token, err := utils.GenerateToken(testSecret, "user1", time.Hour)
	require.NoError(t, err)
	ta.token = token
	return ta
}

func (ta *testApp) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ta.token != "" {
		req.Header.Set("Authorization", "Bearer "+ta.token)
	}
	return ta.send(t, req)
}

func (ta *testApp) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload["error"]
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	ta := setupApp(t)
	ta.token = ""

	for _, route := range []struct{ method, path string }{
		{"POST", "/user/connection/tiktok"},
		{"DELETE", "/user/connection/tiktok"},
		{"GET", "/user/allowed-connections"},
		{"POST", "/api/layers/add"},
		{"POST", "/api/publish"},
		{"GET", "/api/publish/history"},
	} {
		resp, _ := ta.do(t, route.method, route.path, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, route.path)
	}

	ta.connections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ta.publish.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateConnection(t *testing.T) {
	ta := setupApp(t)

	ta.connections.On("Create", mock.Anything, "user1", "tiktok", "code123", "https://app/cb").Return(nil)

	resp, _ := ta.do(t, "POST", "/user/connection/tiktok", transfer.ConnectionCreation{Code: "code123", RedirectURL: "https://app/cb"})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	ta.connections.AssertExpectations(t)
}

func TestCreateConnection_UnsupportedType(t *testing.T) {
	ta := setupApp(t)

	ta.connections.On("Create", mock.Anything, "user1", "myspace", "c", "r").
		Return(fmt.Errorf("%w: %q", models.ErrUnsupportedConnection, "myspace"))

	resp, body := ta.do(t, "POST", "/user/connection/myspace", transfer.ConnectionCreation{Code: "c", RedirectURL: "r"})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessage(t, body), "unsupported connection type")
}

func TestDeleteConnection(t *testing.T) {
	ta := setupApp(t)

	ta.connections.On("Delete", mock.Anything, "user1", "youtube").Return(nil)

	resp, _ := ta.do(t, "DELETE", "/user/connection/youtube", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAllowedConnections(t *testing.T) {
	ta := setupApp(t)
	allowed := []models.AllowedConnection{
		{Service: models.ConnectionTiktok, Allowed: true, Connected: true, Account: "@clipper"},
		{Service: models.ConnectionYoutube},
	}

	ta.connections.On("ListAllowed", mock.Anything, "user1").Return(allowed, nil)

	resp, body := ta.do(t, "GET", "/user/allowed-connections", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got []models.AllowedConnection
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, allowed, got)
}

func TestAllowedConnections_UnhandledErrorIsGeneric(t *testing.T) {
	ta := setupApp(t)

	ta.connections.On("ListAllowed", mock.Anything, "user1").Return(nil, service.ErrNoConnectionList)

	resp, body := ta.do(t, "GET", "/user/allowed-connections", nil)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", errorMessage(t, body))
}

func TestAddLayer(t *testing.T) {
	ta := setupApp(t)

	resp, body := ta.do(t, "POST", "/api/layers/add", map[string]any{"layers": []any{}})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got transfer.LayersRequest
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Layers, 1)
	assert.Equal(t, 1, got.Layers[0].ID)
	assert.Equal(t, 1, got.Layers[0].ZIndex)
	assert.Equal(t, models.LayerFilterNone, got.Layers[0].Filter)
}

func TestAddLayer_InvalidFilter(t *testing.T) {
	ta := setupApp(t)

	resp, _ := ta.do(t, "POST", "/api/layers/add", map[string]any{
		"layers": []map[string]any{{"id": 1, "zIndex": 1, "filter": "sepia", "aspect": "free"}},
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStartPublish(t *testing.T) {
	ta := setupApp(t)
	req := transfer.PublishCreation{AssetKey: "clips/user1/a.mp4", Title: "t", Privacy: models.PrivacySelfOnly}

	ta.publish.On("Start", mock.Anything, "user1", &req).Return(publish.NewSession("sess1", "user1", publish.FormData{}), nil)

	resp, body := ta.do(t, "POST", "/api/publish", req)

	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"session_id":"sess1"}`, string(body))
	require.Len(t, ta.enqueuer.tasks, 1)
	assert.Equal(t, queue.TaskTypePublishVideo, ta.enqueuer.tasks[0].Type())
}

func TestStartPublish_EnqueueFailureDiscardsSession(t *testing.T) {
	ta := setupApp(t)
	ta.enqueuer.err = errors.New("dial tcp: connection refused")
	req := transfer.PublishCreation{AssetKey: "clips/user1/a.mp4", Title: "t", Privacy: models.PrivacySelfOnly}

	ta.publish.On("Start", mock.Anything, "user1", &req).Return(publish.NewSession("sess1", "user1", publish.FormData{}), nil)
	ta.publish.On("Discard", mock.Anything, "user1", "sess1").Return(nil)

	resp, body := ta.do(t, "POST", "/api/publish", req)

	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Error scheduling publish"}`, string(body))
	ta.publish.AssertCalled(t, "Discard", mock.Anything, "user1", "sess1")
}

func TestStartPublish_Guards(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"privacy required", publish.ErrPrivacyRequired, fiber.StatusBadRequest},
		{"privacy not allowed", publish.ErrPrivacyNotAllowed, fiber.StatusBadRequest},
		{"too long", publish.ErrDurationExceeded, fiber.StatusBadRequest},
		{"not connected", fmt.Errorf("%w: gone", service.ErrNotConnected), fiber.StatusPreconditionFailed},
		{"provider", &publish.ProviderError{Code: "spam_risk", Message: "Slow down"}, fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupApp(t)
			ta.publish.On("Start", mock.Anything, "user1", mock.Anything).Return(nil, tt.err)

			resp, _ := ta.do(t, "POST", "/api/publish", transfer.PublishCreation{AssetKey: "clips/user1/a.mp4"})

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Empty(t, ta.enqueuer.tasks)
		})
	}
}

func TestGetPublish(t *testing.T) {
	ta := setupApp(t)

	ta.publish.On("Session", mock.Anything, "user1", "sess1").Return(publish.NewSession("sess1", "user1", publish.FormData{Title: "t"}), nil)
	ta.publish.On("Session", mock.Anything, "user1", "missing").Return(nil, repository.ErrSessionNotFound)

	resp, body := ta.do(t, "GET", "/api/publish/sess1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, "form", snapshot["status"])

	resp, _ = ta.do(t, "GET", "/api/publish/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestResetPublish_Conflict(t *testing.T) {
	ta := setupApp(t)

	ta.publish.On("Reset", mock.Anything, "user1", "sess1").
		Return(nil, fmt.Errorf("%w: cannot reset from uploading", publish.ErrInvalidTransition))

	resp, _ := ta.do(t, "POST", "/api/publish/sess1/reset", nil)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPublishHistory(t *testing.T) {
	ta := setupApp(t)

	ta.publish.On("History", mock.Anything, "user1").Return([]*models.PublishHistory{{ID: 1, SessionID: "sess1"}}, nil)

	resp, body := ta.do(t, "GET", "/api/publish/history", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"sess1"`)
	ta.publish.AssertNotCalled(t, "Session", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishForm(t *testing.T) {
	ta := setupApp(t)

	ta.publish.On("PublishForm", mock.Anything, "user1", 30.5).Return(publish.FormView{CanSubmit: true})

	resp, body := ta.do(t, "GET", "/api/tiktok/publish-form?duration=30.5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"can_submit":true`)

	resp, _ = ta.do(t, "GET", "/api/tiktok/publish-form?duration=long", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreatorInfo(t *testing.T) {
	ta := setupApp(t)

	ta.publish.On("CreatorInfo", mock.Anything, "user1").Return(&models.CreatorPermissions{CreatorUsername: "clipper"}, nil)

	resp, body := ta.do(t, "GET", "/api/tiktok/creator-info", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"creator_username":"clipper"`)
}

func TestUploadClip(t *testing.T) {
	ta := setupApp(t)

	ta.clips.On("Upload", mock.Anything, "user1", mock.AnythingOfType("*multipart.FileHeader")).
		Return(&service.ClipUpload{AssetKey: "clips/user1/x.mp4", Size: 3, MimeType: "video/mp4"}, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "clip.mp4")
	require.NoError(t, err)
	part.Write([]byte("abc"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/clips", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ta.token)
	resp, body := ta.send(t, req)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(body), "clips/user1/x.mp4")
}

func TestUploadClip_NotVideo(t *testing.T) {
	ta := setupApp(t)

	ta.clips.On("Upload", mock.Anything, "user1", mock.Anything).Return(nil, service.ErrNotVideo)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("file", "notes.txt")
	part.Write([]byte("text"))
	w.Close()

	req := httptest.NewRequest("POST", "/api/clips", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ta.token)
	resp, _ := ta.send(t, req)

	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestUploadClip_MissingFile(t *testing.T) {
	ta := setupApp(t)

	resp, _ := ta.do(t, "POST", "/api/clips", map[string]string{})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	ta.clips.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUserID(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("[" + handlers.GetUserID(c) + "]")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", string(body))
}
