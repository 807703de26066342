package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/pkg/response"
	settingsSvc "github.com/verlic/zapcentral/internal/service/settings"
	"github.com/verlic/zapcentral/internal/storage"
)

type SettingsHandler struct {
	service *settingsSvc.Service
}

func NewSettingsHandler(service *settingsSvc.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) Register(r *gin.RouterGroup) {
	r.GET("/settings", h.list)
	r.GET("/settings/:key", h.get)
	r.PUT("/settings/:key", h.set)
}

func (h *SettingsHandler) list(c *gin.Context) {
	configs, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, configs)
}

func (h *SettingsHandler) get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.ErrorWithMessage(c, http.StatusNotFound, "configuração não encontrada")
			return
		}
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

type setSettingRequest struct {
	Value string `json:"value"`
}

func (h *SettingsHandler) set(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err)
		return
	}

	cfg, err := h.service.Set(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		if errors.Is(err, settingsSvc.ErrInvalidKey) {
			response.Error(c, http.StatusBadRequest, err)
			return
		}
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, cfg)
}
