package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/ports/adapter"
	"telegram-profile-bridge/internal/infra/logging"
	"telegram-profile-bridge/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StorageUseCase = (*storageUC)(nil)

// UploadInput carries base64 content, optionally as a data URI.
type UploadInput struct {
	FileBase64 string
	FileName   string
	FileType   string
}

// StorageUseCase proxies uploads to and reads from the pinning service.
type StorageUseCase interface {
	Upload(ctx context.Context, in UploadInput) (string, error)
	Fetch(ctx context.Context, hash string) (json.RawMessage, error)
}

type storageUC struct {
	pins adapter.PinningService
	log  *zerolog.Logger
}

func NewStorageUseCase(pins adapter.PinningService, logger *zerolog.Logger) *storageUC {
	return &storageUC{pins: pins, log: logger}
}

var dataURIPrefix = regexp.MustCompile(`^data:.+;base64,`)

// DecodeBase64 strips an optional data-URI header and decodes padded or
// unpadded standard base64.
func DecodeBase64(s string) ([]byte, error) {
	s = dataURIPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 content: %w", domain.ErrInvalidArgument)
	}
	return b, nil
}

func (s *storageUC) Upload(ctx context.Context, in UploadInput) (string, error) {
	defer logging.TraceDuration(s.log, "StorageUC.Upload")()

	if strings.TrimSpace(in.FileBase64) == "" {
		return "", fmt.Errorf("no file: %w", domain.ErrInvalidArgument)
	}
	data, err := DecodeBase64(in.FileBase64)
	if err != nil {
		return "", err
	}

	start := time.Now()
	hash, err := s.pins.Pin(ctx, adapter.Blob{Name: in.FileName, ContentType: in.FileType, Data: data})
	metrics.ObservePinata("upload", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).
			Str("file_name", in.FileName).
			Int("bytes", len(data)).
			Msg("pinata upload failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	metrics.AddUploadBytes(len(data))

	logging.With(ctx, s.log).Info().Str("ipfs_hash", hash).Int("bytes", len(data)).Msg("file pinned")
	return hash, nil
}

func (s *storageUC) Fetch(ctx context.Context, hash string) (json.RawMessage, error) {
	defer logging.TraceDuration(s.log, "StorageUC.Fetch")()

	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, fmt.Errorf("empty hash: %w", domain.ErrInvalidArgument)
	}
	start := time.Now()
	data, err := s.pins.Fetch(ctx, hash)
	metrics.ObservePinata("fetch", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Str("ipfs_hash", hash).Msg("pinata fetch failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	return data, nil
}
