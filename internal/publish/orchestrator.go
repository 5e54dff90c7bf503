// Package publish drives a clip through the provider publish workflow:
// container creation, chunked upload and status verification.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/maheshrc27/clipstudio/internal/models"
)

const (
	uploadFailedMessage  = "Failed to upload video. Please try again later"
	createFailedMessage  = "Unable to create the upload. Please try again later"
	verifyFailedMessage  = "Unable to verify the upload. Please try again later"
	verifyTimeoutMessage = "The upload is taking too long to be processed. Check your account later"
)

type Config struct {
	// Unaudited limits privacy to SELF_ONLY.
	Unaudited        bool
	ChunkSize        int64
	CoverTimestampMs int
	Poll             PollConfig
}

type StartRequest struct {
	SessionID   string
	UserID      string
	AssetKey    string
	DurationSec float64
	Form        FormData
	// Permissions, when known, are enforced on the form.
	Permissions *models.CreatorPermissions
}

type Orchestrator struct {
	cfg      Config
	observer Observer
}

func New(cfg Config, observer Observer) *Orchestrator {
	if cfg.CoverTimestampMs == 0 {
		cfg.CoverTimestampMs = 100
	}
	return &Orchestrator{cfg: cfg, observer: observer}
}

func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Start validates the form and moves a new session from Form to Uploading.
// On a guard failure no session is created.
func (o *Orchestrator) Start(ctx context.Context, req StartRequest) (*Session, error) {
	if req.Form.Privacy == "" {
		return nil, ErrPrivacyRequired
	}
	if req.UserID == "" {
		return nil, ErrUnauthorized
	}
	if req.Permissions != nil {
		if !slices.Contains(PrivacyOptions(req.Permissions.PrivacyLevelOptions, o.cfg.Unaudited), req.Form.Privacy) {
			return nil, ErrPrivacyNotAllowed
		}
		if OverDurationLimit(req.DurationSec, req.Permissions) {
			return nil, ErrDurationExceeded
		}
	}

	s := NewSession(req.SessionID, req.UserID, req.Form)
	s.AssetKey = req.AssetKey
	s.DurationSec = req.DurationSec
	if err := s.begin(); err != nil {
		return nil, err
	}
	if err := o.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Run executes the three phases in order on a session returned by Start.
// It returns nil when the session ends in Failed; the failure is recorded on
// the session. A non-nil error means the session could not be driven at all.
func (o *Orchestrator) Run(ctx context.Context, s *Session, p Provider, asset Asset) error {
	if _, ok := s.State().(Uploading); !ok {
		return s.invalid("run")
	}

	if err := s.checkpoint(ProgressAssetReady); err != nil {
		return err
	}
	if err := o.save(ctx, s); err != nil {
		return err
	}

	chunks, err := PlanChunks(asset.Size, o.cfg.ChunkSize)
	if err != nil {
		return o.halt(ctx, s, err.Error())
	}

	container, err := o.create(ctx, s, p, asset, chunks)
	if err != nil {
		slog.Info("publish create failed", "session", s.ID, "error", err)
		return o.halt(ctx, s, messageFor(err, createFailedMessage))
	}
	s.PublishID = container.PublishID
	if err := o.advance(ctx, s, PhaseUpload, ProgressCreated); err != nil {
		return err
	}

	if err := o.upload(ctx, p, container.UploadURL, asset, chunks); err != nil {
		slog.Info("publish upload failed", "session", s.ID, "error", err)
		return o.halt(ctx, s, messageFor(err, uploadFailedMessage))
	}
	if err := o.advance(ctx, s, PhaseVerify, ProgressUploaded); err != nil {
		return err
	}

	if err := o.verify(ctx, p, container.PublishID); err != nil {
		slog.Info("publish verify failed", "session", s.ID, "error", err)
		msg := messageFor(err, verifyFailedMessage)
		if errors.Is(err, ErrPollExhausted) || errors.Is(err, context.DeadlineExceeded) {
			msg = verifyTimeoutMessage
		}
		return o.halt(ctx, s, msg)
	}

	if err := s.succeed(); err != nil {
		return err
	}
	return o.save(ctx, s)
}

// Abort fails an uploading session outside of Run, for example when the clip
// or the credential is no longer available or a run was cut short. A session
// that already failed keeps its message and is saved again.
func (o *Orchestrator) Abort(ctx context.Context, s *Session, message string) error {
	if _, ok := s.State().(Failed); ok {
		return o.save(context.WithoutCancel(ctx), s)
	}
	return o.halt(ctx, s, message)
}

// Reset discards a failed session's progress and returns it to Form.
func (o *Orchestrator) Reset(ctx context.Context, s *Session) error {
	if err := s.reset(); err != nil {
		return err
	}
	return o.save(ctx, s)
}

func (o *Orchestrator) create(ctx context.Context, s *Session, p Provider, asset Asset, chunks []Chunk) (*Container, error) {
	req := InitRequest{
		Form:             s.FormData,
		CoverTimestampMs: o.cfg.CoverTimestampMs,
		VideoSize:        asset.Size,
		ChunkSize:        chunks[0].Size(),
		ChunkCount:       len(chunks),
	}
	container, err := p.InitVideoUpload(ctx, req)
	if err != nil {
		return nil, err
	}
	if container == nil || container.UploadURL == "" || container.PublishID == "" {
		return nil, errors.New("provider returned an empty upload container")
	}
	return container, nil
}

func (o *Orchestrator) upload(ctx context.Context, p Provider, uploadURL string, asset Asset, chunks []Chunk) error {
	for _, chunk := range chunks {
		body := io.NewSectionReader(asset.Data, chunk.Start, chunk.Size())
		if err := p.UploadChunk(ctx, uploadURL, chunk, asset.Size, body); err != nil {
			return fmt.Errorf("chunk %d of %d: %w", chunk.Index+1, len(chunks), err)
		}
	}
	return nil
}

func (o *Orchestrator) verify(ctx context.Context, p Provider, publishID string) error {
	return Poll(ctx, o.cfg.Poll, func(ctx context.Context) (bool, error) {
		report, err := p.FetchStatus(ctx, publishID)
		if err != nil {
			return false, err
		}
		if report == nil {
			return false, nil
		}
		switch report.Status {
		case JobComplete:
			return true, nil
		case JobFailed:
			return false, &ProviderError{Code: "failed", Message: report.FailReason}
		default:
			return false, nil
		}
	})
}

func (o *Orchestrator) advance(ctx context.Context, s *Session, next Phase, progress int) error {
	if err := s.complete(next, progress); err != nil {
		return err
	}
	return o.save(ctx, s)
}

func (o *Orchestrator) halt(ctx context.Context, s *Session, message string) error {
	if err := s.fail(message); err != nil {
		return err
	}
	// The run context may be the reason we halted; the snapshot still has to land.
	return o.save(context.WithoutCancel(ctx), s)
}

func (o *Orchestrator) save(ctx context.Context, s *Session) error {
	if o.observer == nil {
		return nil
	}
	if err := o.observer.Save(ctx, s); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func messageFor(err error, fallback string) string {
	var perr *ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return fallback
}
