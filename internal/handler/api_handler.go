package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/web"
	"github.com/noah-isme/tutoring-site/pkg/response"
)

// APIHandler exposes read-only content as JSON.
type APIHandler struct {
	news    newsLister
	lessons lessonService
}

// NewAPIHandler constructs the handler.
func NewAPIHandler(news newsLister, lessons lessonService) *APIHandler {
	return &APIHandler{news: news, lessons: lessons}
}

// ListNews godoc
// @Summary List news
// @Description Returns every news entry, newest first
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /api/v1/news [get]
func (h *APIHandler) ListNews(c *gin.Context) {
	items, err := h.news.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.NewsResponse, 0, len(items))
	for _, n := range items {
		out = append(out, newsResponse(n))
	}
	response.JSON(c, http.StatusOK, out, map[string]interface{}{"count": len(out)})
}

// ListGrades godoc
// @Summary List grades and lessons
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /api/v1/grades [get]
func (h *APIHandler) ListGrades(c *gin.Context) {
	grades, err := h.lessons.Catalogue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.GradeResponse, 0, len(grades))
	for _, g := range grades {
		entry := dto.GradeResponse{Code: g.Code, Name: g.Name, Lessons: make([]dto.LessonResponse, 0, len(g.Lessons))}
		for _, l := range g.Lessons {
			entry.Lessons = append(entry.Lessons, lessonResponse(l))
		}
		out = append(out, entry)
	}
	response.JSON(c, http.StatusOK, out)
}

// GetLesson godoc
// @Summary Get lesson
// @Tags Content
// @Produce json
// @Param grade_code path string true "Grade code"
// @Param topic path string true "Topic slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/lessons/{grade_code}/{topic} [get]
func (h *APIHandler) GetLesson(c *gin.Context) {
	lesson, err := h.lessons.Lookup(c.Request.Context(), c.Param("grade_code"), c.Param("topic"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessonResponse(*lesson))
}

func newsResponse(n models.News) dto.NewsResponse {
	out := dto.NewsResponse{ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt}
	if n.HasAttachment() {
		out.AttachmentURL = web.UploadsPath + "/" + *n.Attachment
		if n.AttachmentOriginal != nil {
			out.AttachmentName = *n.AttachmentOriginal
		}
	}
	return out
}

func lessonResponse(l models.Lesson) dto.LessonResponse {
	return dto.LessonResponse{GradeCode: l.GradeCode, GradeName: l.GradeName, Topic: l.Topic, Title: l.Title, Body: l.Body}
}

