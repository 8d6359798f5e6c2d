package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/service"
	"github.com/noah-isme/tutoring-site/internal/session"
)

// ContextIdentityKey is the gin context key storing the resolved caller.
const ContextIdentityKey = "identity"

type identityLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// LoadIdentity resolves the caller from the session. When users is set, the stored role is
// re-read so promotions and demotions apply to live sessions; deleted accounts are signed out.
func LoadIdentity(manager *session.Manager, users identityLookup, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		identity := manager.Current(c)
		if !identity.Anonymous() && users != nil {
			user, err := users.FindByID(c.Request.Context(), identity.UserID)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				_ = manager.End(c)
				identity = models.Identity{}
			case err != nil:
				logger.Warn("failed to refresh session identity", zap.String("user_id", identity.UserID), zap.Error(err))
			case user.Role != identity.Role:
				identity.Role = user.Role
				if err := manager.Refresh(c, user.Role); err != nil {
					logger.Warn("failed to refresh session role", zap.Error(err))
				}
			}
		}
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// Identity returns the caller attached by LoadIdentity.
func Identity(c *gin.Context) models.Identity {
	if v, ok := c.Get(ContextIdentityKey); ok {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return models.Identity{}
}

// RequireLogin redirects anonymous callers to loginPath with a flash message.
func RequireLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireLogin(Identity(c)); err != nil {
			session.AddFlash(c, session.FlashError, "Please log in first.")
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin lets only admins through. Anonymous callers go to loginPath, everyone else to homePath.
func RequireAdmin(loginPath, homePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Identity(c)
		if err := service.RequireAdmin(identity); err != nil {
			session.AddFlash(c, session.FlashError, "You do not have permission to view that page.")
			target := homePath
			if identity.Anonymous() {
				target = loginPath
			}
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
