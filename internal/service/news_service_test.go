package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/repository"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

var adminIdentity = models.Identity{UserID: "admin-1", Username: "admin", Role: models.RoleAdmin}

func newTestNewsService(repo *memNewsRepo, store *memFileStore, cache *CacheService) *NewsService {
	uploads := NewUploadService(store, defaultUploadConfig, nil, nil)
	return NewNewsService(repo, uploads, cache, nil, nil)
}

func pdfUpload() *Upload {
	return &Upload{Filename: "schedule.pdf", Size: 4, Reader: strings.NewReader("%PDF")}
}

func TestCreateAndDeleteNewsWithAttachment(t *testing.T) {
	repo, store := newMemNewsRepo(), newMemFileStore()
	svc := newTestNewsService(repo, store, nil)

	item, err := svc.Create(context.Background(), adminIdentity, dto.NewsForm{Title: "Exam", Content: "Next week"}, pdfUpload())
	require.NoError(t, err)
	require.True(t, item.HasAttachment())
	assert.Equal(t, "schedule.pdf", *item.AttachmentOriginal)
	assert.Contains(t, store.files, *item.Attachment)

	require.NoError(t, svc.Delete(context.Background(), adminIdentity, item.ID))
	assert.NotContains(t, store.files, *item.Attachment)
	assert.Empty(t, repo.items)

	err = svc.Delete(context.Background(), adminIdentity, item.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestDeleteNewsToleratesMissingFile(t *testing.T) {
	repo, store := newMemNewsRepo(), newMemFileStore()
	svc := newTestNewsService(repo, store, nil)

	item, err := svc.Create(context.Background(), adminIdentity, dto.NewsForm{Title: "Exam", Content: "Next week"}, pdfUpload())
	require.NoError(t, err)
	delete(store.files, *item.Attachment)

	require.NoError(t, svc.Delete(context.Background(), adminIdentity, item.ID))
	assert.Empty(t, repo.items)
}

func TestCreateNewsRemovesFileWhenInsertFails(t *testing.T) {
	repo, store := newMemNewsRepo(), newMemFileStore()
	repo.createErr = errors.New("db down")
	svc := newTestNewsService(repo, store, nil)

	_, err := svc.Create(context.Background(), adminIdentity, dto.NewsForm{Title: "Exam", Content: "Next week"}, pdfUpload())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.Empty(t, store.files)
}

func TestCreateNewsRequiresAdmin(t *testing.T) {
	repo, store := newMemNewsRepo(), newMemFileStore()
	svc := newTestNewsService(repo, store, nil)

	student := models.Identity{UserID: "u1", Role: models.RoleStudent}
	_, err := svc.Create(context.Background(), student, dto.NewsForm{Title: "x", Content: "y"}, pdfUpload())
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Empty(t, store.files)
	assert.Empty(t, repo.items)

	err = svc.Delete(context.Background(), models.Identity{}, "any")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestCreateNewsValidatesFields(t *testing.T) {
	svc := newTestNewsService(newMemNewsRepo(), newMemFileStore(), nil)

	_, err := svc.Create(context.Background(), adminIdentity, dto.NewsForm{Title: "  ", Content: "body"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), adminIdentity, dto.NewsForm{Title: strings.Repeat("t", 101), Content: "body"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCreateNewsRejectsBadAttachment(t *testing.T) {
	repo := newMemNewsRepo()
	svc := newTestNewsService(repo, newMemFileStore(), nil)

	_, err := svc.Create(context.Background(), adminIdentity, dto.NewsForm{Title: "x", Content: "y"},
		&Upload{Filename: "setup.exe", Size: 2, Reader: strings.NewReader("MZ")})
	assert.True(t, errors.Is(err, appErrors.ErrRejectedExtension))
	assert.Empty(t, repo.items)
}

func TestListNewsUsesCacheUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := NewCacheService(repository.NewCacheRepository(client, nil), nil, time.Minute, nil, true)

	repo := newMemNewsRepo()
	svc := newTestNewsService(repo, newMemFileStore(), cache)
	ctx := context.Background()

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)

	_, err = svc.Create(ctx, adminIdentity, dto.NewsForm{Title: "New", Content: "Body"}, nil)
	require.NoError(t, err)
	assert.False(t, mr.Exists(newsCacheKey))

	items, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, repo.lists)
}
