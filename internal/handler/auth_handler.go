package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classgrid-backend/internal/middleware"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
// Accepts a JSON body or the url-encoded login form. A rejected login and an
// unreachable authentication backend answer differently.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{
			"token":       resp.Token,
			"username":    resp.Username,
			"role":        resp.Role,
			"permissions": resp.Permissions,
			"navigate":    resp.Navigate,
			"path":        resp.Navigate.Path(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrUpstreamStatus):
		_ = c.Error(err)
		response.Fail(c, http.StatusBadGateway, response.ErrLoginFailed)
	case errors.Is(err, service.ErrAuthUnavailable):
		_ = c.Error(err)
		response.Fail(c, http.StatusServiceUnavailable, response.ErrAuthUnavailable)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrLoginFailed)
	}
}

// Signup godoc
// POST /api/v1/auth/signup
// Accounts are created by an administrator with cmd/create-admin.
func (h *AuthHandler) Signup(c *gin.Context) {
	h.authService.Signup(c.Request.Context())
	response.Fail(c, http.StatusNotImplemented, response.ErrNotImplemented)
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.Username); err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"navigate": model.RouteAuth,
		"path":     model.RouteAuth.Path(),
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin": gin.H{
			"username": claims.Username,
			"name":     claims.Name,
			"role":     claims.Role,
		},
		"permissions": claims.Permissions,
		"expires_at":  claims.ExpiresAt,
	})
}
