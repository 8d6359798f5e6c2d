package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-site/internal/models"
)

const lessonSelect = `SELECT l.id, l.grade_id, g.code AS grade_code, g.name AS grade_name, l.topic, l.title, l.body, l.created_at
FROM lessons l JOIN grades g ON g.id = l.grade_id`

// LessonRepository reads the grade and lesson catalogue.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs the repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// FindByGradeAndTopic returns the lesson at exactly (gradeCode, topic).
func (r *LessonRepository) FindByGradeAndTopic(ctx context.Context, gradeCode, topic string) (*models.Lesson, error) {
	query := lessonSelect + ` WHERE g.code = $1 AND l.topic = $2`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, gradeCode, topic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	return &lesson, nil
}

// ListGrades returns every grade in display order.
func (r *LessonRepository) ListGrades(ctx context.Context) ([]models.Grade, error) {
	const query = `SELECT id, code, name, sort_order FROM grades ORDER BY sort_order, code`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// ListLessons returns every lesson ordered by grade then topic.
func (r *LessonRepository) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	query := lessonSelect + ` ORDER BY g.sort_order, l.topic`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}
