package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/service"
	"github.com/noah-isme/tutoring-site/internal/session"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

// attachmentField is the multipart field carrying the optional news attachment.
const attachmentField = "image"

type newsService interface {
	Create(ctx context.Context, actor models.Identity, req dto.NewsForm, attachment *service.Upload) (*models.News, error)
	Delete(ctx context.Context, actor models.Identity, id string) error
}

// NewsHandler serves the admin news pages.
type NewsHandler struct {
	service      newsService
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewNewsHandler constructs the handler. maxUploadBytes bounds the request body, leaving room
// for the other form fields.
func NewNewsHandler(svc newsService, maxUploadBytes int64, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{service: svc, maxBodyBytes: maxUploadBytes + 1<<20, logger: nopIfNil(logger)}
}

// NewPage renders the news form.
func (h *NewsHandler) NewPage(c *gin.Context) {
	render(c, http.StatusOK, "admin_news_new.html", "Post news", nil)
}

// Create publishes a news entry with an optional attachment.
func (h *NewsHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var form dto.NewsForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			failRedirect(c, h.logger, appErrors.Clone(appErrors.ErrTooLarge, "file too large"), "/admin/news/new")
			return
		}
		flashRedirect(c, session.FlashError, "Invalid news form.", "/admin/news/new")
		return
	}

	var upload *service.Upload
	header, err := c.FormFile(attachmentField)
	switch {
	case err == nil && header.Filename != "":
		file, openErr := header.Open()
		if openErr != nil {
			failRedirect(c, h.logger, appErrors.Internal(openErr, "failed to read upload"), "/admin/news/new")
			return
		}
		defer file.Close()
		upload = &service.Upload{Filename: header.Filename, Size: header.Size, Reader: file}
	case err != nil && !errors.Is(err, http.ErrMissingFile):
		flashRedirect(c, session.FlashError, "Could not read the uploaded file.", "/admin/news/new")
		return
	}

	if _, err := h.service.Create(c.Request.Context(), identityFromContext(c), form, upload); err != nil {
		failRedirect(c, h.logger, err, "/admin/news/new")
		return
	}
	flashRedirect(c, session.FlashSuccess, "News published.", "/news")
}

// Delete removes a news entry and its attachment.
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		failRedirect(c, h.logger, err, "/news")
		return
	}
	flashRedirect(c, session.FlashSuccess, "News deleted.", "/news")
}
