package service

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/models"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

type fileStore interface {
	SaveStream(name string, r io.Reader) (int64, error)
	Delete(name string) (bool, error)
}

// Upload is an incoming attachment. Size is the size declared by the client and may be zero when unknown.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// UploadConfig constrains accepted attachments.
type UploadConfig struct {
	MaxSizeBytes      int64
	AllowedExtensions []string
}

// UploadService validates attachments and stores them under generated names.
type UploadService struct {
	store   fileStore
	allowed map[string]struct{}
	maxSize int64
	logger  *zap.Logger
	metrics *MetricsService
}

// NewUploadService constructs an UploadService.
func NewUploadService(store fileStore, cfg UploadConfig, logger *zap.Logger, metrics *MetricsService) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSizeBytes <= 0 {
		cfg.MaxSizeBytes = 5 << 20
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &UploadService{store: store, allowed: allowed, maxSize: cfg.MaxSizeBytes, logger: logger, metrics: metrics}
}

// Accept checks the extension, then the size, and stores the file as uuid.ext.
// The client's file name is kept only for display.
func (s *UploadService) Accept(u Upload) (*models.StoredFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(u.Filename), "."))
	if _, ok := s.allowed[ext]; !ok || ext == "" {
		s.metrics.RecordUpload(OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrRejectedExtension, fmt.Sprintf("file type %q is not allowed", ext))
	}
	if u.Size > s.maxSize {
		s.metrics.RecordUpload(OutcomeRejected)
		return nil, s.tooLarge()
	}

	name := uuid.NewString() + "." + ext
	written, err := s.store.SaveStream(name, io.LimitReader(u.Reader, s.maxSize+1))
	if err != nil {
		s.metrics.RecordUpload(OutcomeFailure)
		return nil, appErrors.Internal(err, "failed to store attachment")
	}
	if written > s.maxSize {
		s.remove(name)
		s.metrics.RecordUpload(OutcomeRejected)
		return nil, s.tooLarge()
	}

	s.metrics.RecordUpload(OutcomeSuccess)
	return &models.StoredFile{Name: name, OriginalName: filepath.Base(u.Filename), Size: written}, nil
}

// Remove deletes a stored file. A file that is already gone is only logged.
func (s *UploadService) Remove(name string) error {
	removed, err := s.store.Delete(name)
	if err != nil {
		return appErrors.Internal(err, "failed to remove attachment")
	}
	if !removed {
		s.logger.Warn("attachment already missing", zap.String("file", name))
	}
	return nil
}

func (s *UploadService) remove(name string) {
	if _, err := s.store.Delete(name); err != nil {
		s.logger.Warn("failed to clean up attachment", zap.String("file", name), zap.Error(err))
	}
}

func (s *UploadService) tooLarge() error {
	return appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("file exceeds %d MB", s.maxSize>>20))
}
