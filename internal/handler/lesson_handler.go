package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/models"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

type lessonService interface {
	Lookup(ctx context.Context, gradeCode, topic string) (*models.Lesson, error)
	Catalogue(ctx context.Context) ([]models.GradeWithLessons, error)
}

// LessonHandler serves the lesson browser.
type LessonHandler struct {
	service lessonService
	logger  *zap.Logger
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(svc lessonService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{service: svc, logger: nopIfNil(logger)}
}

// Index lists every grade and its topics.
func (h *LessonHandler) Index(c *gin.Context) {
	grades, err := h.service.Catalogue(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load lesson catalogue", zap.Error(err))
		c.String(http.StatusInternalServerError, genericFailure)
		return
	}
	render(c, http.StatusOK, "lessons.html", "Lessons", gin.H{"Grades": grades})
}

// Show renders one lesson, or a plain 404 when the grade and topic pair is unknown.
func (h *LessonHandler) Show(c *gin.Context) {
	lesson, err := h.service.Lookup(c.Request.Context(), c.Param("grade_code"), c.Param("topic"))
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			c.String(http.StatusNotFound, "Lesson not found")
			return
		}
		h.logger.Error("failed to load lesson", zap.Error(err))
		c.String(http.StatusInternalServerError, genericFailure)
		return
	}
	render(c, http.StatusOK, "lesson.html", lesson.Title, gin.H{"Lesson": lesson})
}
