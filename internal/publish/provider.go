package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	ErrPrivacyRequired   = errors.New("privacy level is required")
	ErrPrivacyNotAllowed = errors.New("privacy level is not allowed for this account")
	ErrDurationExceeded  = errors.New("clip is longer than the account allows")
	ErrUnauthorized      = errors.New("user is not authenticated")
	ErrInvalidTransition = errors.New("invalid publish transition")
	ErrPollExhausted     = errors.New("publish status polling gave up")
)

// ProviderError is an error reported by the publishing provider itself.
// Message is shown to the user as is.
type ProviderError struct {
	Code    string
	Message string
	LogID   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
}

type InitRequest struct {
	Form             FormData
	CoverTimestampMs int
	VideoSize        int64
	ChunkSize        int64
	ChunkCount       int
}

type Container struct {
	PublishID string
	UploadURL string
}

type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobComplete   JobStatus = "complete"
	JobFailed     JobStatus = "failed"
)

type StatusReport struct {
	Status     JobStatus
	FailReason string
}

// Provider is the publishing API used by the orchestrator, already bound to
// the credentials of the user publishing.
type Provider interface {
	InitVideoUpload(ctx context.Context, req InitRequest) (*Container, error)
	UploadChunk(ctx context.Context, uploadURL string, chunk Chunk, totalSize int64, body io.Reader) error
	FetchStatus(ctx context.Context, publishID string) (*StatusReport, error)
}

// Observer receives a full snapshot after every state change.
type Observer interface {
	Save(ctx context.Context, s *Session) error
}

// Asset is the binary being published.
type Asset struct {
	Data io.ReaderAt
	Size int64
}
