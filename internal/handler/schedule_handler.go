package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
)

// ScheduleHandler serves the "Schedule Projection" page.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	exportService   *service.ExportService
}

func NewScheduleHandler(scheduleService *service.ScheduleService, exportService *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, exportService: exportService}
}

// Meta godoc
// GET /api/v1/admin/schedule/meta
// Returns the school days and the 30-minute start slots of the grid.
func (h *ScheduleHandler) Meta(c *gin.Context) {
	response.Success(c, http.StatusOK, h.scheduleService.Meta())
}

// Week godoc
// GET /api/v1/admin/schedule/sections/:id
func (h *ScheduleHandler) Week(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	week, err := h.scheduleService.Week(id)
	if err != nil {
		failWith(c, err, "section")
		return
	}
	response.Success(c, http.StatusOK, week)
}

// FindAt godoc
// GET /api/v1/admin/schedule/sections/:id/at?day=Monday&slot=8:00
// Returns the class starting at that cell, or null.
func (h *ScheduleHandler) FindAt(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var q model.FindAtQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	day, slot, err := q.Cell()
	if err != nil {
		fail(c, err, "")
		return
	}

	class, found, err := h.scheduleService.FindAt(id, day, slot)
	if err != nil {
		failWith(c, err, "section")
		return
	}
	if !found {
		response.Success(c, http.StatusOK, gin.H{"class": nil})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Export godoc
// GET /api/v1/admin/schedule/sections/:id/export
// Downloads the section's week as an .xlsx workbook.
func (h *ScheduleHandler) Export(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	data, filename, err := h.exportService.Section(id)
	if err != nil {
		failWith(c, err, "section")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, service.XLSXContentType, data)
}

// GetClass godoc
// GET /api/v1/admin/schedule/classes/:id
func (h *ScheduleHandler) GetClass(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	class, err := h.scheduleService.Get(id)
	if err != nil {
		fail(c, err, "Class not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/v1/admin/schedule/classes
func (h *ScheduleHandler) CreateClass(c *gin.Context) {
	var req model.CreateScheduledClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.scheduleService.Add(c.Request.Context(), req)
	if err != nil {
		fail(c, err, h.scheduleService.Explain(err, ""))
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/v1/admin/schedule/classes/:id
// Moves or edits a class; the result is checked like a new class.
func (h *ScheduleHandler) UpdateClass(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateScheduledClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.scheduleService.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		fail(c, err, h.scheduleService.Explain(err, ""))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/v1/admin/schedule/classes/:id
func (h *ScheduleHandler) DeleteClass(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.scheduleService.Remove(c.Request.Context(), id); err != nil {
		fail(c, err, h.scheduleService.Explain(err, ""))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Class removed"})
}
