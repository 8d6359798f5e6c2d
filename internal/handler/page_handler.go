package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/web"
)

type newsLister interface {
	List(ctx context.Context) ([]models.News, error)
}

// PageHandler serves the public read-only pages.
type PageHandler struct {
	news   newsLister
	logger *zap.Logger
}

// NewPageHandler constructs the handler.
func NewPageHandler(news newsLister, logger *zap.Logger) *PageHandler {
	return &PageHandler{news: news, logger: nopIfNil(logger)}
}

// Root redirects to the home page.
func (h *PageHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/home")
}

// Static returns a handler rendering a page that needs no data.
func (h *PageHandler) Static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, name, title, nil)
	}
}

// News lists every entry, newest first.
func (h *PageHandler) News(c *gin.Context) {
	items, err := h.news.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list news", zap.Error(err))
		c.String(http.StatusInternalServerError, genericFailure)
		return
	}
	render(c, http.StatusOK, "news.html", "News", gin.H{"News": items})
}

// Verification serves the bundled ownership-verification document.
func (h *PageHandler) Verification(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := web.VerificationDocument(name)
		if err != nil {
			if !errors.Is(err, web.ErrNoDocument) {
				h.logger.Error("failed to read verification document", zap.Error(err))
			}
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
}
