package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/middleware"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/session"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

const genericFailure = "Something went wrong, please try again later."

func identityFromContext(c *gin.Context) models.Identity {
	return middleware.Identity(c)
}

// render executes a page template with the caller, pending flashes and title attached.
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Identity"] = identityFromContext(c)
	data["Flashes"] = session.TakeFlashes(c)
	c.HTML(status, name, data)
}

func flashRedirect(c *gin.Context, kind, message, location string) {
	session.AddFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, location)
}

// failRedirect turns a service error into a flash message. Internal failures are logged and
// shown generically.
func failRedirect(c *gin.Context, logger *zap.Logger, err error, location string) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		message = genericFailure
	}
	flashRedirect(c, session.FlashError, message, location)
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
