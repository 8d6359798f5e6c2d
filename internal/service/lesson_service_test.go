package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-site/internal/models"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

type stubLessonRepo struct {
	grades  []models.Grade
	lessons []models.Lesson
	err     error
}

func (r *stubLessonRepo) FindByGradeAndTopic(_ context.Context, gradeCode, topic string) (*models.Lesson, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, l := range r.lessons {
		if l.GradeCode == gradeCode && l.Topic == topic {
			l := l
			return &l, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubLessonRepo) ListGrades(context.Context) ([]models.Grade, error) { return r.grades, r.err }

func (r *stubLessonRepo) ListLessons(context.Context) ([]models.Lesson, error) { return r.lessons, r.err }

func seededLessons() *stubLessonRepo {
	return &stubLessonRepo{
		grades: []models.Grade{{ID: "g7", Code: "grade7", Name: "Grade 7"}, {ID: "g9", Code: "grade9", Name: "Grade 9"}},
		lessons: []models.Lesson{
			{ID: "l1", GradeID: "g7", GradeCode: "grade7", Topic: "fraction", Title: "Fractions"},
			{ID: "l2", GradeID: "g7", GradeCode: "grade7", Topic: "integer", Title: "Integers"},
		},
	}
}

func TestLookupLesson(t *testing.T) {
	svc := NewLessonService(seededLessons(), nil)

	lesson, err := svc.Lookup(context.Background(), "grade7", "fraction")
	require.NoError(t, err)
	assert.Equal(t, "Fractions", lesson.Title)

	_, err = svc.Lookup(context.Background(), "grade7", "nonexistent")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Lookup(context.Background(), "grade8", "fraction")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestLookupLessonInternalError(t *testing.T) {
	svc := NewLessonService(&stubLessonRepo{err: errors.New("conn reset")}, nil)
	_, err := svc.Lookup(context.Background(), "grade7", "fraction")
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestCatalogueGroupsLessonsByGrade(t *testing.T) {
	svc := NewLessonService(seededLessons(), nil)

	grades, err := svc.Catalogue(context.Background())
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, "grade7", grades[0].Code)
	assert.Len(t, grades[0].Lessons, 2)
	assert.NotNil(t, grades[1].Lessons)
	assert.Empty(t, grades[1].Lessons)
}
