package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/session"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

type authService interface {
	Register(ctx context.Context, req dto.RegisterForm) (*models.User, error)
	Verify(ctx context.Context, req dto.LoginForm) (*models.User, error)
	ChangePassword(ctx context.Context, identity models.Identity, req dto.ChangePasswordForm) error
}

// AuthHandler serves registration, login, logout and password changes.
type AuthHandler struct {
	service  authService
	sessions *session.Manager
	logger   *zap.Logger
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, sessions *session.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions, logger: nopIfNil(logger)}
}

// RegisterPage renders the sign-up form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", "Register", nil)
}

// Register creates a student account and sends the visitor to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, session.FlashError, "Invalid registration form.", "/register")
		return
	}
	if _, err := h.service.Register(c.Request.Context(), form); err != nil {
		failRedirect(c, h.logger, err, "/register")
		return
	}
	flashRedirect(c, session.FlashSuccess, "Registration successful, please log in.", "/login")
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", "Log in", nil)
}

// Login starts a session. Admins land on the user list, students on the home page.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, session.FlashError, appErrors.ErrInvalidCredentials.Message, "/login")
		return
	}
	user, err := h.service.Verify(c.Request.Context(), form)
	if err != nil {
		failRedirect(c, h.logger, err, "/login")
		return
	}
	if err := h.sessions.Start(c, user); err != nil {
		h.logger.Error("failed to start session", zap.String("user_id", user.ID), zap.Error(err))
		flashRedirect(c, session.FlashError, genericFailure, "/login")
		return
	}
	h.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("ip", c.ClientIP()))

	target := "/home"
	if user.IsAdmin() {
		target = "/admin/users"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// LoginThrottled answers a login attempt refused by the rate limiter.
func (h *AuthHandler) LoginThrottled(c *gin.Context) {
	flashRedirect(c, session.FlashError, "Too many login attempts, please wait a minute and try again.", "/login")
}

// Logout ends the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.End(c); err != nil {
		h.logger.Warn("failed to end session", zap.Error(err))
	}
	flashRedirect(c, session.FlashSuccess, "You have been logged out.", "/home")
}

// PasswordPage renders the change-password form.
func (h *AuthHandler) PasswordPage(c *gin.Context) {
	render(c, http.StatusOK, "password.html", "Change password", nil)
}

// ChangePassword replaces the signed-in user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var form dto.ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, session.FlashError, "Please fill in every field.", "/account/password")
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), identityFromContext(c), form); err != nil {
		failRedirect(c, h.logger, err, "/account/password")
		return
	}
	flashRedirect(c, session.FlashSuccess, "Password updated.", "/dashboard")
}
