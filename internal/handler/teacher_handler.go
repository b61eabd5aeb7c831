package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
)

// TeacherHandler handles the "Manage Teachers" tool.
type TeacherHandler struct {
	teacherService *service.TeacherService
}

func NewTeacherHandler(teacherService *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// GetAll godoc
// GET /api/v1/admin/teachers?grade=all|7..12
func (h *TeacherHandler) GetAll(c *gin.Context) {
	filter, ok := gradeFilter(c)
	if !ok {
		return
	}

	teachers := h.teacherService.List(filter)
	response.Success(c, http.StatusOK, gin.H{
		"teachers": teachers,
		"count":    len(teachers),
		"grade":    filter.String(),
	})
}

// Get godoc
// GET /api/v1/admin/teachers/:id
func (h *TeacherHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	teacher, err := h.teacherService.Get(id)
	if err != nil {
		failWith(c, err, "teacher")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// Create godoc
// POST /api/v1/admin/teachers
func (h *TeacherHandler) Create(c *gin.Context) {
	var req model.CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherService.Add(c.Request.Context(), req)
	if err != nil {
		failWith(c, err, "teacher")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"teacher": teacher})
}

// Update godoc
// PUT /api/v1/admin/teachers/:id
func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherService.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		failWith(c, err, "teacher")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// Delete godoc
// DELETE /api/v1/admin/teachers/:id
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.teacherService.Remove(c.Request.Context(), id); err != nil {
		failWith(c, err, "teacher")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Teacher removed"})
}

// gradeFilter parses ?grade= and answers 400 on a value outside all|7..12.
func gradeFilter(c *gin.Context) (model.GradeFilter, bool) {
	filter, err := model.ParseGradeFilter(c.Query("grade"))
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidGrade, map[string]string{"grade": err.Error()})
		return model.GradeFilter{}, false
	}
	return filter, true
}
