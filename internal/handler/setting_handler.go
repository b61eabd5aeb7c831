package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
)

// publicSettings may be read without logging in; the login page shows them.
var publicSettings = []string{model.SettingSchoolName, model.SettingAcademicYear, model.SettingTermLabel}

type SettingHandler struct {
	settingService *service.SettingService
}

func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// GetAllSettings godoc
// GET /api/v1/admin/settings
func (h *SettingHandler) GetAllSettings(c *gin.Context) {
	settings, err := h.settingService.GetAllSettings(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings godoc
// PUT /api/v1/admin/settings
// Returns the settings after the update.
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx := c.Request.Context()
	if err := h.settingService.UpdateSettings(ctx, req.Settings); err != nil {
		if errors.Is(err, service.ErrUnknownSetting) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"settings": err.Error()})
			return
		}
		fail(c, err, "Failed to save settings")
		return
	}

	settings, err := h.settingService.GetAllSettings(ctx)
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// GetPublicSettings godoc
// GET /api/v1/public/settings
func (h *SettingHandler) GetPublicSettings(c *gin.Context) {
	settings, err := h.settingService.GetAllSettings(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}

	public := make(map[string]string, len(publicSettings))
	for _, key := range publicSettings {
		public[key] = settings[key]
	}
	response.Success(c, http.StatusOK, public)
}
