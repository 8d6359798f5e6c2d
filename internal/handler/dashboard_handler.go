package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/models"
)

type dashboardService interface {
	Dashboard(ctx context.Context, identity models.Identity) (*models.StudentDashboard, error)
}

// DashboardHandler renders the signed-in user's courses and scores.
type DashboardHandler struct {
	service dashboardService
	logger  *zap.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: nopIfNil(logger)}
}

// Show renders the dashboard page.
func (h *DashboardHandler) Show(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), identityFromContext(c))
	if err != nil {
		failRedirect(c, h.logger, err, "/home")
		return
	}
	render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{"Dashboard": dashboard})
}

