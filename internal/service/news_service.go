package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

const newsCacheKey = "news:list"

type newsRepository interface {
	List(ctx context.Context) ([]models.News, error)
	FindByID(ctx context.Context, id string) (*models.News, error)
	Create(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id string) error
}

type attachmentStore interface {
	Accept(u Upload) (*models.StoredFile, error)
	Remove(name string) error
}

// NewsService manages news entries and their attachments.
type NewsService struct {
	repo      newsRepository
	uploads   attachmentStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs a NewsService. cache may be nil.
func NewNewsService(repo newsRepository, uploads attachmentStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NewsService{repo: repo, uploads: uploads, cache: cache, validator: validate, logger: logger}
}

// List returns all entries newest first.
func (s *NewsService) List(ctx context.Context) ([]models.News, error) {
	return readThrough(ctx, s.cache, newsCacheKey, func(ctx context.Context) ([]models.News, error) {
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list news")
		}
		if items == nil {
			items = []models.News{}
		}
		return items, nil
	})
}

// Create stores the attachment first, then the entry. The file is removed again if the insert fails.
func (s *NewsService) Create(ctx context.Context, actor models.Identity, req dto.NewsForm, attachment *Upload) (*models.News, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and content are required; title is at most 100 characters")
	}

	item := &models.News{Title: req.Title, Content: req.Content}
	if attachment != nil {
		stored, err := s.uploads.Accept(*attachment)
		if err != nil {
			return nil, err
		}
		item.Attachment = &stored.Name
		item.AttachmentOriginal = &stored.OriginalName
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if item.HasAttachment() {
			if rmErr := s.uploads.Remove(*item.Attachment); rmErr != nil {
				s.logger.Warn("failed to remove orphaned attachment", zap.String("file", *item.Attachment), zap.Error(rmErr))
			}
		}
		return nil, appErrors.Internal(err, "failed to create news")
	}

	s.cache.Invalidate(ctx, newsCacheKey)
	s.logger.Info("news created", zap.String("news_id", item.ID), zap.String("actor_id", actor.UserID))
	return item, nil
}

// Delete removes the entry and its attachment. A second delete of the same id reports NotFound.
func (s *NewsService) Delete(ctx context.Context, actor models.Identity, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "news not found")
		}
		return appErrors.Internal(err, "failed to fetch news")
	}

	if item.HasAttachment() {
		if err := s.uploads.Remove(*item.Attachment); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "news not found")
		}
		return appErrors.Internal(err, "failed to delete news")
	}

	s.cache.Invalidate(ctx, newsCacheKey)
	s.logger.Info("news deleted", zap.String("news_id", id), zap.String("actor_id", actor.UserID))
	return nil
}
