package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-site/internal/models"
)

var newsCols = []string{"id", "title", "content", "attachment", "attachment_original", "created_at"}

func TestNewsListNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNewsRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(newsCols).
		AddRow("n2", "Exam week", "Bring pencils", "a.png", "poster.png", now).
		AddRow("n1", "Welcome", "Hello", nil, nil, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, attachment, attachment_original, created_at FROM news ORDER BY created_at DESC")).
		WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].HasAttachment())
	assert.False(t, items[1].HasAttachment())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNewsRepository(db)

	stored, original := "abc.pdf", "syllabus.pdf"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO news (id, title, content, attachment, attachment_original, created_at)")).
		WithArgs(sqlmock.AnyArg(), "Syllabus", "Term plan", stored, original, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.News{Title: "Syllabus", Content: "Term plan", Attachment: &stored, AttachmentOriginal: &original}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsDeleteTwiceReportsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNewsRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM news WHERE id = $1")).WithArgs("n1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM news WHERE id = $1")).WithArgs("n1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "n1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "n1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNewsRepository(db)

	mock.ExpectQuery("FROM news WHERE id").WithArgs("nope").WillReturnRows(sqlmock.NewRows(newsCols))

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
