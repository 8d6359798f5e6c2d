package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/session"
)

type userService interface {
	List(ctx context.Context, actor models.Identity) ([]models.User, error)
	ChangeRole(ctx context.Context, actor models.Identity, req dto.RoleChangeForm) (*models.User, error)
}

// UserHandler serves the admin user list and role changes.
type UserHandler struct {
	service userService
	logger  *zap.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(svc userService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: nopIfNil(logger)}
}

// List renders every account.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context(), identityFromContext(c))
	if err != nil {
		failRedirect(c, h.logger, err, "/home")
		return
	}
	render(c, http.StatusOK, "admin_users.html", "Users", gin.H{"Users": users})
}

// ChangeRole promotes or demotes the account named in the form.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var form dto.RoleChangeForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, session.FlashError, "Invalid role change.", "/admin/users")
		return
	}
	user, err := h.service.ChangeRole(c.Request.Context(), identityFromContext(c), form)
	if err != nil {
		failRedirect(c, h.logger, err, "/admin/users")
		return
	}

	message := fmt.Sprintf("%s is now a student.", user.Username)
	if user.IsAdmin() {
		message = fmt.Sprintf("%s is now an admin.", user.Username)
	}
	flashRedirect(c, session.FlashSuccess, message, "/admin/users")
}
