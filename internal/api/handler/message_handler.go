package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/pkg/response"
	messageSvc "github.com/verlic/zapcentral/internal/service/message"
	"github.com/verlic/zapcentral/internal/storage/model"
)

type MessageHandler struct {
	service *messageSvc.Service
}

func NewMessageHandler(service *messageSvc.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Register(r *gin.RouterGroup) {
	r.GET("/messages", h.list)
	r.GET("/messages/conversation", h.conversation)
	r.GET("/messages/ranking", h.ranking)
	r.GET("/messages/stats", h.stats)
}

func (h *MessageHandler) list(c *gin.Context) {
	filter := model.MessageFilter{
		InstanceID:  c.Query("instanceId"),
		PhoneNumber: c.Query("phoneNumber"),
		Limit:       queryInt(c, "limit", 0),
		Offset:      queryInt(c, "offset", 0),
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *MessageHandler) conversation(c *gin.Context) {
	instanceID := c.Query("instanceId")
	phoneNumber := c.Query("phoneNumber")
	if instanceID == "" || phoneNumber == "" {
		response.ErrorWithMessage(c, http.StatusBadRequest, "instanceId e phoneNumber são obrigatórios")
		return
	}

	messages, err := h.service.Conversation(c.Request.Context(), instanceID, phoneNumber, queryInt(c, "limit", 0))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}

func (h *MessageHandler) ranking(c *gin.Context) {
	senders, err := h.service.Ranking(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, senders)
}

func (h *MessageHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
