package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/middleware"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
)

// DashboardHandler handles admin dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboardData godoc
// GET /api/v1/admin/dashboard
// Returns the school name, entity counts, the menu the caller may open, and recent activity.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	var perms []string
	if claims := middleware.GetClaims(c); claims != nil {
		perms = claims.Permissions
	}

	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), perms)
	if err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// GetActivity godoc
// GET /api/v1/admin/activity?page=1&per_page=20
func (h *DashboardHandler) GetActivity(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	entries, pagination, err := h.dashboardService.Activity(c.Request.Context(), page, perPage)
	if err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorage)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"activity": entries}, pagination)
}
