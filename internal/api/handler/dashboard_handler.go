package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/config"
	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/pkg/response"
)

type DashboardHandler struct {
	aggregator *metrics.Aggregator
	cfg        config.Config
}

func NewDashboardHandler(aggregator *metrics.Aggregator, cfg config.Config) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator, cfg: cfg}
}

func (h *DashboardHandler) Register(r *gin.RouterGroup) {
	r.GET("/dashboard/stats", h.stats)
	r.GET("/dashboard/env", h.env)
}

func (h *DashboardHandler) stats(c *gin.Context) {
	stats, err := h.aggregator.DashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// env expõe para o console quais integrações estão configuradas, sem
// vazar chaves ou URLs.
func (h *DashboardHandler) env(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"evolutionConfigured": h.cfg.Evolution.IsConfigured(),
		"deepseekConfigured":  h.cfg.DeepSeek.IsConfigured(),
		"redisEnabled":        h.cfg.Redis.Enabled,
		"version":             config.Version,
	})
}
