package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
)

// SectionHandler handles the "Manage Sections" tool.
type SectionHandler struct {
	sectionService *service.SectionService
}

func NewSectionHandler(sectionService *service.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

// GetAll godoc
// GET /api/v1/admin/sections?grade=all|7..12
func (h *SectionHandler) GetAll(c *gin.Context) {
	filter, ok := gradeFilter(c)
	if !ok {
		return
	}

	sections := h.sectionService.List(filter)
	response.Success(c, http.StatusOK, gin.H{
		"sections": sections,
		"count":    len(sections),
		"grade":    filter.String(),
	})
}

// Create godoc
// POST /api/v1/admin/sections
func (h *SectionHandler) Create(c *gin.Context) {
	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sec, err := h.sectionService.Add(c.Request.Context(), req)
	if err != nil {
		failWith(c, err, "section")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"section": sec})
}

// Update godoc
// PUT /api/v1/admin/sections/:id
func (h *SectionHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sec, err := h.sectionService.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		failWith(c, err, "section")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"section": sec})
}

// Delete godoc
// DELETE /api/v1/admin/sections/:id
func (h *SectionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.sectionService.Remove(c.Request.Context(), id); err != nil {
		failWith(c, err, "section")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Section removed"})
}
