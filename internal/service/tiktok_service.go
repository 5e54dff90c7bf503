package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	config "github.com/maheshrc27/clipstudio/configs"
	"github.com/maheshrc27/clipstudio/internal/models"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/maheshrc27/clipstudio/internal/transfer"
	"golang.org/x/oauth2"
)

const (
	tiktokCreatorInfoPath = "/v2/post/publish/creator_info/query/"
	tiktokVideoInitPath   = "/v2/post/publish/video/init/"
	tiktokStatusPath      = "/v2/post/publish/status/fetch/"
)

type TiktokService interface {
	QueryCreatorInfo(ctx context.Context, token *oauth2.Token) (*models.CreatorPermissions, error)
	Publisher(token *oauth2.Token) publish.Provider
}

type tiktokService struct {
	cfg    config.Config
	client *http.Client
}

func NewTiktokService(cfg config.Config, client *http.Client) TiktokService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	return &tiktokService{
		cfg:    cfg,
		client: client,
	}
}

func (s *tiktokService) authorized(token *oauth2.Token) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(token),
			Base:   s.client.Transport,
		},
		Timeout: s.client.Timeout,
	}
}

func (s *tiktokService) QueryCreatorInfo(ctx context.Context, token *oauth2.Token) (*models.CreatorPermissions, error) {
	var result transfer.TiktokCreatorInfoResponse
	status, err := s.postJSON(ctx, s.authorized(token), tiktokCreatorInfoPath, nil, &result)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(status, result.Error); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (s *tiktokService) Publisher(token *oauth2.Token) publish.Provider {
	return &tiktokPublisher{s: s, api: s.authorized(token)}
}

// tiktokPublisher implements publish.Provider for one user's credential.
type tiktokPublisher struct {
	s   *tiktokService
	api *http.Client
}

func (p *tiktokPublisher) InitVideoUpload(ctx context.Context, req publish.InitRequest) (*publish.Container, error) {
	body := transfer.VideoInitRequest{
		PostInfo: transfer.VideoPostInfo{
			Title:                 req.Form.Title,
			PrivacyLevel:          req.Form.Privacy,
			DisableComment:        !req.Form.AllowComment,
			DisableDuet:           !req.Form.AllowDuet,
			DisableStitch:         !req.Form.AllowStitch,
			VideoCoverTimestampMs: req.CoverTimestampMs,
		},
		SourceInfo: transfer.VideoSourceInfo{
			Source:          "FILE_UPLOAD",
			VideoSize:       req.VideoSize,
			ChunkSize:       req.ChunkSize,
			TotalChunkCount: req.ChunkCount,
		},
	}

	var result transfer.TiktokInitResponse
	status, err := p.s.postJSON(ctx, p.api, tiktokVideoInitPath, body, &result)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(status, result.Error); err != nil {
		return nil, err
	}

	slog.Info("tiktok upload container created", "publish_id", result.Data.PublishID)
	return &publish.Container{PublishID: result.Data.PublishID, UploadURL: result.Data.UploadURL}, nil
}

// UploadChunk sends one byte range to the upload URL. The URL is pre-signed,
// so no bearer token is attached.
func (p *tiktokPublisher) UploadChunk(ctx context.Context, uploadURL string, chunk publish.Chunk, totalSize int64, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}
	req.ContentLength = chunk.Size()
	req.Header.Set("Content-Type", "video/mp4")
	req.Header.Set("Content-Length", strconv.FormatInt(chunk.Size(), 10))
	req.Header.Set("Content-Range", chunk.ContentRange(totalSize))

	resp, err := p.s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("upload chunk %d: %w", chunk.Index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Info("tiktok chunk rejected", "status", resp.StatusCode, "body", string(bodyBytes))
		return fmt.Errorf("upload chunk %d: unexpected status %d", chunk.Index, resp.StatusCode)
	}
	return nil
}

func (p *tiktokPublisher) FetchStatus(ctx context.Context, publishID string) (*publish.StatusReport, error) {
	var result transfer.TiktokStatusResponse
	status, err := p.s.postJSON(ctx, p.api, tiktokStatusPath, transfer.PublishStatusRequest{PublishID: publishID}, &result)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(status, result.Error); err != nil {
		return nil, err
	}

	switch result.Data.Status {
	case "PUBLISH_COMPLETE", "SEND_TO_USER_INBOX":
		return &publish.StatusReport{Status: publish.JobComplete}, nil
	case "FAILED":
		return &publish.StatusReport{Status: publish.JobFailed, FailReason: result.Data.FailReason}, nil
	default:
		return &publish.StatusReport{Status: publish.JobProcessing}, nil
	}
}

// postJSON sends body to the TikTok API and decodes the envelope into out.
func (s *tiktokService) postJSON(ctx context.Context, client *http.Client, path string, body any, out any) (int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(jsonData)
	}

	url := strings.TrimRight(s.cfg.Tiktok.APIBaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("tiktok request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, fmt.Errorf("tiktok %s returned status %d", path, resp.StatusCode)
		}
		return resp.StatusCode, fmt.Errorf("failed to decode tiktok response: %w", err)
	}
	return resp.StatusCode, nil
}

func checkEnvelope(status int, e transfer.TiktokError) error {
	if !e.OK() {
		slog.Info("tiktok error", "code", e.Code, "message", e.Message, "log_id", e.LogID)
		return &publish.ProviderError{Code: e.Code, Message: e.Message, LogID: e.LogID}
	}
	if status != http.StatusOK {
		return fmt.Errorf("tiktok returned status %d", status)
	}
	return nil
}
