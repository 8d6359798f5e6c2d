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

type studentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	ListCourses(ctx context.Context, studentID string) ([]models.StudentCourse, error)
	ListScores(ctx context.Context, studentID string) ([]models.StudentScore, error)
	UpdateGrade(ctx context.Context, userID, grade string) error
	UpsertCourse(ctx context.Context, course *models.StudentCourse) error
	UpsertScore(ctx context.Context, score *models.StudentScore) error
}

type studentUserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// StudentService serves the student dashboard and its admin maintenance.
type StudentService struct {
	repo      studentRepository
	users     studentUserLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, users studentUserLookup, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, users: users, validator: validate, logger: logger}
}

// Dashboard returns profile, courses and scores of the signed-in user.
func (s *StudentService) Dashboard(ctx context.Context, identity models.Identity) (*models.StudentDashboard, error) {
	if err := RequireLogin(identity); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	student, err := s.profile(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	courses, err := s.repo.ListCourses(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	scores, err := s.repo.ListScores(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list scores")
	}

	dash := &models.StudentDashboard{
		User:    *user,
		Student: *student,
		Courses: make(map[string]models.StudentCourse, len(courses)),
		Scores:  make(map[string]float64, len(scores)),
	}
	for _, c := range courses {
		dash.Courses[c.CourseID] = c
	}
	for _, sc := range scores {
		dash.Scores[sc.CourseID] = sc.Score
	}
	return dash, nil
}

// SetGrade changes the grade label of the student owned by userID.
func (s *StudentService) SetGrade(ctx context.Context, actor models.Identity, userID string, req dto.StudentGradeForm) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	req.Grade = strings.TrimSpace(req.Grade)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "grade is required")
	}
	if err := s.repo.UpdateGrade(ctx, userID, req.Grade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Internal(err, "failed to update grade")
	}
	return nil
}

// UpsertCourse adds or replaces a course on the student owned by userID.
func (s *StudentService) UpsertCourse(ctx context.Context, actor models.Identity, userID string, req dto.StudentCourseForm) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course id and title are required")
	}
	student, err := s.profile(ctx, userID)
	if err != nil {
		return err
	}
	course := &models.StudentCourse{StudentID: student.ID, CourseID: req.CourseID, Title: req.Title, Schedule: req.Schedule}
	if err := s.repo.UpsertCourse(ctx, course); err != nil {
		return appErrors.Internal(err, "failed to save course")
	}
	return nil
}

// UpsertScore records a score on the student owned by userID.
func (s *StudentService) UpsertScore(ctx context.Context, actor models.Identity, userID string, req dto.StudentScoreForm) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "score must be between 0 and 100")
	}
	student, err := s.profile(ctx, userID)
	if err != nil {
		return err
	}
	score := &models.StudentScore{StudentID: student.ID, CourseID: req.CourseID, Score: req.Score}
	if err := s.repo.UpsertScore(ctx, score); err != nil {
		return appErrors.Internal(err, "failed to save score")
	}
	return nil
}

func (s *StudentService) profile(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch student profile")
	}
	return student, nil
}
