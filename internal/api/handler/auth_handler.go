package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/api/middleware"
	"github.com/verlic/zapcentral/internal/pkg/response"
	authSvc "github.com/verlic/zapcentral/internal/service/auth"
)

type AuthHandler struct {
	service *authSvc.Service
}

func NewAuthHandler(service *authSvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register registra só as rotas públicas. O /auth/me entra no grupo
// autenticado via RegisterProtected.
func (h *AuthHandler) Register(r *gin.RouterGroup) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/logout", h.logout)
}

func (h *AuthHandler) RegisterProtected(r *gin.RouterGroup) {
	r.GET("/auth/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authSvc.ErrInvalidCredentials) || errors.Is(err, authSvc.ErrMissingFields) {
			response.Error(c, http.StatusUnauthorized, err)
			return
		}
		response.Error(c, http.StatusInternalServerError, err)
		return
	}

	middleware.SetSessionCookie(c, result.Token, time.Until(result.ExpiresAt))
	response.Success(c, http.StatusOK, result)
}

func (h *AuthHandler) logout(c *gin.Context) {
	token := ""
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		token = cookie
	}
	if token == "" {
		token = extractBearer(c.GetHeader("Authorization"))
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}

	middleware.ClearSessionCookie(c)
	response.Success(c, http.StatusOK, gin.H{"message": "sessão encerrada"})
}

func (h *AuthHandler) me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"id":    c.GetString("userID"),
		"email": c.GetString("userEmail"),
		"role":  c.GetString("userRole"),
	})
}

func extractBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
