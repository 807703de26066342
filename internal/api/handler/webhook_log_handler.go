package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/pkg/response"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

type WebhookLogHandler struct {
	repo storage.WebhookLogRepository
}

func NewWebhookLogHandler(repo storage.WebhookLogRepository) *WebhookLogHandler {
	return &WebhookLogHandler{repo: repo}
}

func (h *WebhookLogHandler) Register(r *gin.RouterGroup) {
	r.GET("/webhook-logs", h.list)
	r.DELETE("/webhook-logs", h.purge)
}

func (h *WebhookLogHandler) list(c *gin.Context) {
	logs, err := h.repo.List(
		c.Request.Context(),
		c.Query("event"),
		c.Query("instanceName"),
		queryInt(c, "limit", 50),
	)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	if logs == nil {
		logs = []model.WebhookLog{}
	}
	response.Success(c, http.StatusOK, logs)
}

// purge remove logs mais antigos que N dias (padrão 30).
func (h *WebhookLogHandler) purge(c *gin.Context) {
	days := queryInt(c, "days", 30)
	if days < 1 {
		response.ErrorWithMessage(c, http.StatusBadRequest, "days deve ser positivo")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := h.repo.DeleteOlderThan(c.Request.Context(), cutoff)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}
