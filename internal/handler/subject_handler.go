package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// GetAll godoc
// GET /api/v1/admin/subjects?grade=all|7..12
func (h *SubjectHandler) GetAll(c *gin.Context) {
	filter, ok := gradeFilter(c)
	if !ok {
		return
	}

	subjects := h.subjectService.List(filter)
	response.Success(c, http.StatusOK, gin.H{
		"subjects": subjects,
		"count":    len(subjects),
		"grade":    filter.String(),
	})
}

// Create godoc
// POST /api/v1/admin/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.subjectService.Add(c.Request.Context(), req)
	if err != nil {
		failWith(c, err, "subject")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": sub})
}

// Update godoc
// PUT /api/v1/admin/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.subjectService.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		failWith(c, err, "subject")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": sub})
}

// Delete godoc
// DELETE /api/v1/admin/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.subjectService.Remove(c.Request.Context(), id); err != nil {
		failWith(c, err, "subject")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Subject removed"})
}
