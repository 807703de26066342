package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/pkg/response"
	authorizedSvc "github.com/verlic/zapcentral/internal/service/authorized"
	"github.com/verlic/zapcentral/internal/storage"
)

type AuthorizedHandler struct {
	service *authorizedSvc.Service
}

func NewAuthorizedHandler(service *authorizedSvc.Service) *AuthorizedHandler {
	return &AuthorizedHandler{service: service}
}

func (h *AuthorizedHandler) Register(r *gin.RouterGroup) {
	r.GET("/authorized-numbers", h.list)
	r.POST("/authorized-numbers", h.create)
	r.PUT("/authorized-numbers/:id", h.update)
	r.DELETE("/authorized-numbers/:id", h.delete)
}

func (h *AuthorizedHandler) list(c *gin.Context) {
	instanceID := c.Query("instanceId")
	if instanceID == "" {
		response.ErrorWithMessage(c, http.StatusBadRequest, "instanceId é obrigatório")
		return
	}

	numbers, err := h.service.List(c.Request.Context(), instanceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, numbers)
}

func (h *AuthorizedHandler) create(c *gin.Context) {
	var input authorizedSvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err)
		return
	}

	number, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			response.ErrorWithMessage(c, http.StatusNotFound, "instância não encontrada")
		case errors.Is(err, authorizedSvc.ErrInvalidPhone),
			errors.Is(err, authorizedSvc.ErrInvalidName),
			errors.Is(err, authorizedSvc.ErrDuplicatePhone):
			response.Error(c, http.StatusBadRequest, err)
		default:
			response.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	response.Success(c, http.StatusCreated, number)
}

func (h *AuthorizedHandler) update(c *gin.Context) {
	var input authorizedSvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err)
		return
	}

	number, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			response.ErrorWithMessage(c, http.StatusNotFound, "número não encontrado")
		case errors.Is(err, authorizedSvc.ErrInvalidPhone), errors.Is(err, authorizedSvc.ErrInvalidName):
			response.Error(c, http.StatusBadRequest, err)
		default:
			response.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	response.Success(c, http.StatusOK, number)
}

func (h *AuthorizedHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.ErrorWithMessage(c, http.StatusNotFound, "número não encontrado")
			return
		}
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "número removido"})
}
