// Package response writes every API reply in one envelope:
// {"data", "error", "pagination", "metadata"}.
package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the API response envelope.
type Response struct {
	Data       any         `json:"data"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// ErrorBody is the error half of the envelope. Message is what the admin sees.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPagination fills in TotalPages. perPage must be positive.
func NewPagination(page, perPage, totalItems int) *Pagination {
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: (totalItems + perPage - 1) / perPage,
	}
}

type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

func Success(c *gin.Context, statusCode int, data any) {
	write(c, statusCode, Response{Data: data})
}

func SuccessWithPagination(c *gin.Context, statusCode int, data any, pagination *Pagination) {
	write(c, statusCode, Response{Data: data, Pagination: pagination})
}

// Fail sends the default message of code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	write(c, statusCode, Response{Error: &ErrorBody{Code: code, Message: GetMessage(code)}})
}

// FailWithFields sends per-field validation messages.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	write(c, statusCode, Response{Error: &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields}})
}

// FailWithMessage replaces the default message of code. An empty message keeps the default.
func FailWithMessage(c *gin.Context, statusCode int, code ErrCode, message string) {
	if message == "" {
		message = GetMessage(code)
	}
	write(c, statusCode, Response{Error: &ErrorBody{Code: code, Message: message}})
}

// AbortFail stops the handler chain and sends the default message of code.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	Fail(c, statusCode, code)
	c.Abort()
}

func write(c *gin.Context, statusCode int, r Response) {
	id := RequestID(c)
	if id == "" {
		id = uuid.NewString()
	}
	r.Metadata = Metadata{RequestID: id, Timestamp: time.Now().UTC().Format(time.RFC3339)}
	c.JSON(statusCode, r)
}
