package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-site/internal/models"
)

const newsColumns = `id, title, content, attachment, attachment_original, created_at`

// NewsRepository provides persistence for news entries.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates the repository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns all entries, newest first.
func (r *NewsRepository) List(ctx context.Context) ([]models.News, error) {
	const query = `SELECT ` + newsColumns + ` FROM news ORDER BY created_at DESC`
	var items []models.News
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// FindByID returns a news entry by identifier.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.News, error) {
	const query = `SELECT ` + newsColumns + ` FROM news WHERE id = $1`
	var item models.News
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if notFound(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find news: %w", err)
	}
	return &item, nil
}

// Create inserts a news entry.
func (r *NewsRepository) Create(ctx context.Context, item *models.News) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO news (id, title, content, attachment, attachment_original, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Title, item.Content, item.Attachment, item.AttachmentOriginal, item.CreatedAt); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// Delete removes an entry. It returns sql.ErrNoRows when nothing was deleted,
// which is also what the loser of two concurrent deletes sees.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		if notFound(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("delete news: %w", err)
	}
	if err := requireAffected(res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}
