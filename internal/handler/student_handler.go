package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/session"
)

type studentService interface {
	SetGrade(ctx context.Context, actor models.Identity, userID string, req dto.StudentGradeForm) error
	UpsertCourse(ctx context.Context, actor models.Identity, userID string, req dto.StudentCourseForm) error
	UpsertScore(ctx context.Context, actor models.Identity, userID string, req dto.StudentScoreForm) error
}

// StudentHandler lets admins maintain student grades, courses and scores.
type StudentHandler struct {
	service studentService
	logger  *zap.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(svc studentService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{service: svc, logger: nopIfNil(logger)}
}

const studentsReturnPath = "/admin/users"

// SetGrade updates the student's grade label.
func (h *StudentHandler) SetGrade(c *gin.Context) {
	var form dto.StudentGradeForm
	if !h.bind(c, &form) {
		return
	}
	h.finish(c, h.service.SetGrade(c.Request.Context(), identityFromContext(c), c.Param("user_id"), form), "Grade updated.")
}

// UpsertCourse adds or replaces a course.
func (h *StudentHandler) UpsertCourse(c *gin.Context) {
	var form dto.StudentCourseForm
	if !h.bind(c, &form) {
		return
	}
	h.finish(c, h.service.UpsertCourse(c.Request.Context(), identityFromContext(c), c.Param("user_id"), form), "Course saved.")
}

// UpsertScore records the latest score for a course.
func (h *StudentHandler) UpsertScore(c *gin.Context) {
	var form dto.StudentScoreForm
	if !h.bind(c, &form) {
		return
	}
	h.finish(c, h.service.UpsertScore(c.Request.Context(), identityFromContext(c), c.Param("user_id"), form), "Score recorded.")
}

func (h *StudentHandler) bind(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBind(form); err != nil {
		flashRedirect(c, session.FlashError, "Invalid student form.", studentsReturnPath)
		return false
	}
	return true
}

func (h *StudentHandler) finish(c *gin.Context, err error, success string) {
	if err != nil {
		failRedirect(c, h.logger, err, studentsReturnPath)
		return
	}
	flashRedirect(c, session.FlashSuccess, success, studentsReturnPath)
}
