package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/clipstudio/internal/authapi"
	"github.com/maheshrc27/clipstudio/internal/models"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/maheshrc27/clipstudio/internal/repository"
	"github.com/maheshrc27/clipstudio/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const interruptedMessage = "The upload was interrupted. Please try again"

var (
	ErrSessionForbidden = errors.New("publish session belongs to another user")
	ErrNotConnected     = errors.New("tiktok account is not connected")
)

type PublishService interface {
	CreatorInfo(ctx context.Context, userID string) (*models.CreatorPermissions, error)
	PublishForm(ctx context.Context, userID string, durationSec float64) publish.FormView
	Start(ctx context.Context, userID string, pc *transfer.PublishCreation) (*publish.Session, error)
	Session(ctx context.Context, userID, sessionID string) (*publish.Session, error)
	Reset(ctx context.Context, userID, sessionID string) (*publish.Session, error)
	Discard(ctx context.Context, userID, sessionID string) error
	Execute(ctx context.Context, sessionID string) error
	History(ctx context.Context, userID string) ([]*models.PublishHistory, error)
}

type publishService struct {
	orchestrator *publish.Orchestrator
	sessions     repository.SessionRepository
	history      repository.PublishHistoryRepository
	connections  ConnectionStore
	tt           TiktokService
	storage      AssetStorage
}

func NewPublishService(
	orchestrator *publish.Orchestrator,
	sessions repository.SessionRepository,
	history repository.PublishHistoryRepository,
	connections ConnectionStore,
	tt TiktokService,
	storage AssetStorage) PublishService {
	return &publishService{
		orchestrator: orchestrator,
		sessions:     sessions,
		history:      history,
		connections:  connections,
		tt:           tt,
		storage:      storage,
	}
}

// CreatorInfo returns the account's publish permissions with the compliance
// mode already applied.
func (s *publishService) CreatorInfo(ctx context.Context, userID string) (*models.CreatorPermissions, error) {
	if userID == "" {
		return nil, publish.ErrUnauthorized
	}

	token, err := s.connections.Token(ctx, userID, models.ConnectionTiktok)
	if err != nil {
		if errors.Is(err, authapi.ErrConnectionNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
		slog.Error("unable to load tiktok token", "user", userID, "error", err)
		return nil, fmt.Errorf("load tiktok token: %w", err)
	}

	perms, err := s.tt.QueryCreatorInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	filtered := publish.FilterPermissions(*perms, s.orchestrator.Config().Unaudited)
	return &filtered, nil
}

func (s *publishService) PublishForm(ctx context.Context, userID string, durationSec float64) publish.FormView {
	in := publish.FormInput{
		DurationSec: durationSec,
		Unaudited:   s.orchestrator.Config().Unaudited,
	}

	perms, err := s.CreatorInfo(ctx, userID)
	if err != nil {
		in.Error = "Unable to get tiktok account information. Please try again later"
		var perr *publish.ProviderError
		if errors.As(err, &perr) && perr.Message != "" {
			in.Error = perr.Message
		}
	} else {
		in.Permissions = perms
	}

	return publish.BuildForm(in)
}

func (s *publishService) Start(ctx context.Context, userID string, pc *transfer.PublishCreation) (*publish.Session, error) {
	if pc == nil {
		return nil, fmt.Errorf("%w: publish request is empty", ErrValidation)
	}

	form := publish.FormData{
		Title:        pc.Title,
		Privacy:      pc.Privacy,
		AllowComment: pc.AllowComment,
		AllowDuet:    pc.AllowDuet,
		AllowStitch:  pc.AllowStitch,
	}
	// Guards that need no network run first.
	if form.Privacy == "" {
		return nil, publish.ErrPrivacyRequired
	}
	if userID == "" {
		return nil, publish.ErrUnauthorized
	}
	if !strings.HasPrefix(pc.AssetKey, clipKeyPrefix(userID)) {
		return nil, fmt.Errorf("%w: unknown clip", ErrValidation)
	}

	perms, err := s.CreatorInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	session, err := s.orchestrator.Start(ctx, publish.StartRequest{
		SessionID:   id,
		UserID:      userID,
		AssetKey:    pc.AssetKey,
		DurationSec: pc.DurationSec,
		Form:        form,
		Permissions: perms,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("publish session started", "session", session.ID, "user", userID)
	return session, nil
}

func (s *publishService) Session(ctx context.Context, userID, sessionID string) (*publish.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionForbidden
	}
	return session, nil
}

// Reset returns a failed session to the form and discards it.
func (s *publishService) Reset(ctx context.Context, userID, sessionID string) (*publish.Session, error) {
	session, err := s.Session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.orchestrator.Reset(ctx, session); err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	return session, nil
}

// Discard drops a session that will never be executed, for example when its
// task could not be queued.
func (s *publishService) Discard(ctx context.Context, userID, sessionID string) error {
	if _, err := s.Session(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(context.WithoutCancel(ctx), sessionID)
}

// Execute runs the publish phases for a started session. A redelivered task
// never publishes twice: finished sessions only get their history recorded and
// a session left mid-upload by an earlier attempt is failed.
func (s *publishService) Execute(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			slog.Info("publish session expired before execution", "session", sessionID)
			return nil
		}
		return err
	}

	switch session.State().(type) {
	case publish.Uploading:
		if session.Progress != publish.ProgressStarted {
			slog.Info("publish session interrupted", "session", sessionID, "progress", session.Progress)
			return s.abort(ctx, session, interruptedMessage)
		}
	case publish.Succeeded, publish.Failed:
		slog.Info("publish session already executed", "session", sessionID, "status", session.State().Status())
		return s.record(ctx, session)
	default:
		slog.Info("publish session not started", "session", sessionID)
		return nil
	}

	data, err := s.storage.Download(ctx, session.AssetKey)
	if err != nil {
		slog.Info(err.Error())
		return s.abort(ctx, session, "Unable to read the clip. Please export it again")
	}

	token, err := s.connections.Token(ctx, session.UserID, models.ConnectionTiktok)
	if err != nil {
		slog.Info(err.Error())
		return s.abort(ctx, session, "Your TikTok account is no longer connected")
	}

	asset := publish.Asset{Data: bytes.NewReader(data), Size: int64(len(data))}
	if err := s.orchestrator.Run(ctx, session, s.tt.Publisher(token), asset); err != nil {
		slog.Error("publish run interrupted", "session", sessionID, "error", err)
		return s.abort(ctx, session, interruptedMessage)
	}

	return s.record(ctx, session)
}

// abort fails the session and records it. An error leaves the stored session
// uploading so the retried task can fail it again.
func (s *publishService) abort(ctx context.Context, session *publish.Session, message string) error {
	if err := s.orchestrator.Abort(ctx, session, message); err != nil {
		return err
	}
	return s.record(ctx, session)
}

func (s *publishService) History(ctx context.Context, userID string) ([]*models.PublishHistory, error) {
	if userID == "" {
		return nil, publish.ErrUnauthorized
	}
	return s.history.ListByUserID(ctx, userID)
}

// record writes the final outcome once per session.
func (s *publishService) record(ctx context.Context, session *publish.Session) error {
	ctx = context.WithoutCancel(ctx)
	existing, err := s.history.GetBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	entry := &models.PublishHistory{
		UserID:    session.UserID,
		SessionID: session.ID,
		Service:   models.ConnectionTiktok,
		AssetKey:  session.AssetKey,
		PublishID: session.PublishID,
		Status:    models.PublishStatusPublished,
	}
	if failed, ok := session.State().(publish.Failed); ok {
		entry.Status = models.PublishStatusFailed
		entry.ErrorMessage = failed.Message
	}

	if _, err := s.history.Create(ctx, entry); err != nil {
		slog.Error("unable to record publish history", "session", session.ID, "error", err)
		return err
	}
	return nil
}
