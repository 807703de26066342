package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/pkg/response"
	instanceSvc "github.com/verlic/zapcentral/internal/service/instance"
	"github.com/verlic/zapcentral/internal/storage"
)

type InstanceHandler struct {
	service *instanceSvc.Service
	log     *zap.Logger
}

func NewInstanceHandler(service *instanceSvc.Service, log *zap.Logger) *InstanceHandler {
	return &InstanceHandler{service: service, log: log}
}

func (h *InstanceHandler) Register(r *gin.RouterGroup) {
	r.GET("/instances", h.list)
	r.POST("/instances", h.create)
	r.GET("/instances/:id", h.get)
	r.GET("/instances/:id/status", h.status)
	r.POST("/instances/:id", h.action)
	r.DELETE("/instances/:id", h.delete)
}

type createInstanceRequest struct {
	InstanceName string `json:"instanceName" binding:"required,min=2"`
}

func (h *InstanceHandler) create(c *gin.Context) {
	var req createInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err)
		return
	}

	instance, err := h.service.Create(c.Request.Context(), req.InstanceName)
	if err != nil {
		switch {
		case errors.Is(err, instanceSvc.ErrInvalidName), errors.Is(err, instanceSvc.ErrNameTaken):
			response.Error(c, http.StatusBadRequest, err)
		default:
			h.log.Error("erro ao criar instância", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	response.Success(c, http.StatusCreated, instance)
}

func (h *InstanceHandler) list(c *gin.Context) {
	instances, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, instances)
}

func (h *InstanceHandler) get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.ErrorWithMessage(c, http.StatusNotFound, "instância não encontrada")
			return
		}
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *InstanceHandler) status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.ErrorWithMessage(c, http.StatusNotFound, "instância não encontrada")
			return
		}
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": status})
}

type actionRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *InstanceHandler) action(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Action(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			response.ErrorWithMessage(c, http.StatusNotFound, "instância não encontrada")
		case errors.Is(err, instanceSvc.ErrInvalidAction), errors.Is(err, instanceSvc.ErrNoGateway):
			response.Error(c, http.StatusBadRequest, err)
		default:
			h.log.Error("erro ao executar ação na instância",
				zap.String("instance_id", c.Param("id")),
				zap.String("action", req.Action),
				zap.Error(err),
			)
			response.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *InstanceHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.ErrorWithMessage(c, http.StatusNotFound, "instância não encontrada")
			return
		}
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "instância removida"})
}
