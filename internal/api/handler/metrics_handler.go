package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/pkg/response"
	"github.com/verlic/zapcentral/internal/storage/model"
)

type MetricsHandler struct {
	aggregator *metrics.Aggregator
}

func NewMetricsHandler(aggregator *metrics.Aggregator) *MetricsHandler {
	return &MetricsHandler{aggregator: aggregator}
}

func (h *MetricsHandler) Register(r *gin.RouterGroup) {
	r.GET("/metrics/summary", h.summary)
	r.GET("/metrics/by-day", h.byDay)
	r.GET("/metrics/errors", h.recentErrors)
}

func (h *MetricsHandler) summary(c *gin.Context) {
	summary, err := h.aggregator.Summary(c.Request.Context(), queryInt(c, "days", 7))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *MetricsHandler) byDay(c *gin.Context) {
	kind := model.MetricType(c.Query("type"))
	if kind == "" {
		response.ErrorWithMessage(c, http.StatusBadRequest, "type é obrigatório")
		return
	}

	totals, err := h.aggregator.ByDay(c.Request.Context(), kind, queryInt(c, "days", 7))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	if totals == nil {
		totals = []model.DayTotal{}
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *MetricsHandler) recentErrors(c *gin.Context) {
	entries, err := h.aggregator.Recent(c.Request.Context(), model.MetricError, queryInt(c, "limit", 20))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []model.Metric{}
	}
	response.Success(c, http.StatusOK, entries)
}
