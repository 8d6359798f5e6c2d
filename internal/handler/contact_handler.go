package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/session"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

type contactService interface {
	Send(ctx context.Context, req dto.ContactForm) error
}

// ContactHandler serves the enquiry form.
type ContactHandler struct {
	service contactService
	logger  *zap.Logger
}

// NewContactHandler constructs the handler.
func NewContactHandler(svc contactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{service: svc, logger: nopIfNil(logger)}
}

// Page renders the contact form.
func (h *ContactHandler) Page(c *gin.Context) {
	render(c, http.StatusOK, "contact.html", "Contact", nil)
}

// Send forwards the message to the site inbox.
func (h *ContactHandler) Send(c *gin.Context) {
	var form dto.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, session.FlashError, "Invalid contact form.", "/contact")
		return
	}
	if err := h.service.Send(c.Request.Context(), form); err != nil {
		appErr := appErrors.FromError(err)
		switch appErr.Code {
		case appErrors.ErrNotConfigured.Code, appErrors.ErrDeliveryFailed.Code:
			flashRedirect(c, session.FlashError, appErr.Message, "/contact")
		default:
			failRedirect(c, h.logger, err, "/contact")
		}
		return
	}
	flashRedirect(c, session.FlashSuccess, "Message sent, we will get back to you soon!", "/contact")
}
