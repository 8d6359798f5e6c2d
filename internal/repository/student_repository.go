package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-site/internal/models"
)

// StudentRepository provides access to student profiles, courses and scores.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByUserID returns the profile owned by a user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	const query = `SELECT id, user_id, grade_label, created_at, updated_at FROM students WHERE user_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if notFound(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find student by user: %w", err)
	}
	return &student, nil
}

// ListCourses returns the courses of a student ordered by course id.
func (r *StudentRepository) ListCourses(ctx context.Context, studentID string) ([]models.StudentCourse, error) {
	const query = `SELECT student_id, course_id, title, schedule, updated_at FROM student_courses WHERE student_id = $1 ORDER BY course_id`
	var courses []models.StudentCourse
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list student courses: %w", err)
	}
	return courses, nil
}

// ListScores returns the scores of a student ordered by course id.
func (r *StudentRepository) ListScores(ctx context.Context, studentID string) ([]models.StudentScore, error) {
	const query = `SELECT student_id, course_id, score, updated_at FROM student_scores WHERE student_id = $1 ORDER BY course_id`
	var scores []models.StudentScore
	if err := r.db.SelectContext(ctx, &scores, query, studentID); err != nil {
		return nil, fmt.Errorf("list student scores: %w", err)
	}
	return scores, nil
}

// UpdateGrade sets the grade label on a user's profile.
func (r *StudentRepository) UpdateGrade(ctx context.Context, userID, grade string) error {
	const query = `UPDATE students SET grade_label = $2, updated_at = $3 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, grade, time.Now().UTC())
	if err != nil {
		if notFound(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update student grade: %w", err)
	}
	if err := requireAffected(res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("update student grade: %w", err)
	}
	return nil
}

// UpsertCourse inserts or replaces one course entry.
func (r *StudentRepository) UpsertCourse(ctx context.Context, course *models.StudentCourse) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO student_courses (student_id, course_id, title, schedule, updated_at) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (student_id, course_id) DO UPDATE SET title = EXCLUDED.title, schedule = EXCLUDED.schedule, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, course.StudentID, course.CourseID, course.Title, course.Schedule, course.UpdatedAt); err != nil {
		return fmt.Errorf("upsert student course: %w", err)
	}
	return nil
}

// UpsertScore inserts or replaces one course score.
func (r *StudentRepository) UpsertScore(ctx context.Context, score *models.StudentScore) error {
	score.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO student_scores (student_id, course_id, score, updated_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id, course_id) DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, score.StudentID, score.CourseID, score.Score, score.UpdatedAt); err != nil {
		return fmt.Errorf("upsert student score: %w", err)
	}
	return nil
}
