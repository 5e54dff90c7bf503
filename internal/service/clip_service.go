package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const MaxClipSize = 512 * 1024 * 1024

var ErrNotVideo = errors.New("file is not a supported video")

type ClipUpload struct {
	AssetKey string `json:"asset_key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type ClipService interface {
	Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*ClipUpload, error)
}

type clipService struct {
	storage AssetStorage
}

func NewClipService(storage AssetStorage) ClipService {
	return &clipService{storage: storage}
}

func (s *clipService) Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*ClipUpload, error) {
	if userID == "" {
		return nil, errUserRequired()
	}
	if file == nil {
		return nil, fmt.Errorf("%w: no file provided", ErrValidation)
	}
	if file.Size > MaxClipSize {
		return nil, fmt.Errorf("%w: clip exceeds %d bytes", ErrValidation, MaxClipSize)
	}

	f, err := file.Open()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s.store(ctx, userID, data)
}

func (s *clipService) store(ctx context.Context, userID string, data []byte) (*ClipUpload, error) {
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsVideo(data) {
		return nil, ErrNotVideo
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%s.%s", clipKeyPrefix(userID), id, kind.Extension)
	if err := s.storage.Upload(ctx, key, data, kind.MIME.Value); err != nil {
		return nil, fmt.Errorf("failed to store clip: %w", err)
	}

	slog.Info("clip stored", "user", userID, "key", key, "size", len(data))
	return &ClipUpload{AssetKey: key, Size: int64(len(data)), MimeType: kind.MIME.Value}, nil
}
