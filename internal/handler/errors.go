package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/repository"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
)

// errorStatus maps service errors to an HTTP status and API code.
var errorStatus = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrEmptyName, http.StatusBadRequest, response.ErrEmptyName},
	{service.ErrEmptySelection, http.StatusBadRequest, response.ErrEmptySelection},
	{service.ErrInvalidGrade, http.StatusBadRequest, response.ErrInvalidGrade},
	{service.ErrInvalidDay, http.StatusBadRequest, response.ErrInvalidDay},
	{service.ErrInvalidSlot, http.StatusBadRequest, response.ErrInvalidSlot},
	{service.ErrInvalidDuration, http.StatusBadRequest, response.ErrInvalidDuration},
	{service.ErrEmptyRoom, http.StatusBadRequest, response.ErrEmptyRoom},
	{service.ErrUnknownReference, http.StatusUnprocessableEntity, response.ErrInvalidReference},
	{service.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrDuplicateName, http.StatusConflict, response.ErrDuplicateName},
	{service.ErrInUse, http.StatusConflict, response.ErrDependencyExists},
	{service.ErrSlotConflict, http.StatusConflict, response.ErrSlotConflict},
	{service.ErrTeacherBusy, http.StatusConflict, response.ErrTeacherBusy},
	{service.ErrRoomBusy, http.StatusConflict, response.ErrRoomBusy},
	{repository.ErrPersist, http.StatusServiceUnavailable, response.ErrStorage},
}

// classify maps err to its HTTP status and API code.
func classify(err error) (int, response.ErrCode) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, response.ErrInternal
}

// fail writes the error envelope for a service error. An empty msg uses the code's default.
func fail(c *gin.Context, err error, msg string) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.FailWithMessage(c, status, code, msg)
}

// failWith is fail for the entity lists. noun names the record kind ("teacher")
// in the messages that mention it.
func failWith(c *gin.Context, err error, noun string) {
	var msg string
	switch _, code := classify(err); code {
	case response.ErrEmptyName:
		msg = fmt.Sprintf("Please enter a %s name", noun)
	case response.ErrDuplicateName:
		msg = fmt.Sprintf("A %s with this name already exists", noun)
	case response.ErrNotFound:
		msg = fmt.Sprintf("%s not found", capitalize(noun))
	}
	fail(c, err, msg)
}

// paramID parses the :id path parameter and answers 400 when it is not a positive integer.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
