package service

import (
	"github.com/noah-isme/tutoring-site/internal/models"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

// RequireLogin fails for anonymous callers.
func RequireLogin(identity models.Identity) error {
	if identity.Anonymous() {
		return appErrors.Clone(appErrors.ErrUnauthorized, "please log in first")
	}
	return nil
}

// RequireAdmin fails unless the caller is a signed-in admin. Every admin-only operation calls it
// before touching storage.
func RequireAdmin(identity models.Identity) error {
	if !identity.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "admin access required")
	}
	return nil
}
