package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/models"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

type lessonRepository interface {
	FindByGradeAndTopic(ctx context.Context, gradeCode, topic string) (*models.Lesson, error)
	ListGrades(ctx context.Context) ([]models.Grade, error)
	ListLessons(ctx context.Context) ([]models.Lesson, error)
}

// LessonService resolves lesson pages.
type LessonService struct {
	repo   lessonRepository
	logger *zap.Logger
}

func NewLessonService(repo lessonRepository, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{repo: repo, logger: logger}
}

// Lookup returns the lesson at exactly (gradeCode, topic); there is no fallback page.
func (s *LessonService) Lookup(ctx context.Context, gradeCode, topic string) (*models.Lesson, error) {
	lesson, err := s.repo.FindByGradeAndTopic(ctx, gradeCode, topic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch lesson")
	}
	return lesson, nil
}

// Catalogue returns every grade with its lessons, grades without lessons included.
func (s *LessonService) Catalogue(ctx context.Context) ([]models.GradeWithLessons, error) {
	grades, err := s.repo.ListGrades(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list grades")
	}
	lessons, err := s.repo.ListLessons(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list lessons")
	}

	byGrade := make(map[string][]models.Lesson, len(grades))
	for _, l := range lessons {
		byGrade[l.GradeID] = append(byGrade[l.GradeID], l)
	}
	out := make([]models.GradeWithLessons, 0, len(grades))
	for _, g := range grades {
		entry := models.GradeWithLessons{Grade: g, Lessons: byGrade[g.ID]}
		if entry.Lessons == nil {
			entry.Lessons = []models.Lesson{}
		}
		out = append(out, entry)
	}
	return out, nil
}
