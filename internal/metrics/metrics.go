package metrics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

// Recorder grava métricas de forma best-effort: falha de gravação é
// logada e engolida, nunca interrompe o fluxo que a originou.
type Recorder struct {
	repo storage.MetricRepository
	log  *zap.Logger
}

func NewRecorder(repo storage.MetricRepository, log *zap.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

func (r *Recorder) Record(ctx context.Context, kind model.MetricType, value float64, metadata map[string]any) {
	if r == nil || r.repo == nil {
		return
	}

	var meta string
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			r.log.Warn("metrics: erro ao serializar metadata", zap.Error(err))
		} else {
			meta = string(data)
		}
	}

	err := r.repo.Create(ctx, model.Metric{
		MetricType: kind,
		Value:      value,
		Metadata:   meta,
	})
	if err != nil {
		r.log.Warn("metrics: erro ao gravar métrica",
			zap.String("type", string(kind)),
			zap.Error(err),
		)
	}
}

// Count é o atalho para métricas de valor 1.
func (r *Recorder) Count(ctx context.Context, kind model.MetricType, metadata map[string]any) {
	r.Record(ctx, kind, 1, metadata)
}

// Aggregator responde as consultas de dashboard e relatórios.
type Aggregator struct {
	metrics    storage.MetricRepository
	messages   storage.MessageRepository
	instances  storage.InstanceRepository
	authorized storage.AuthorizedNumberRepository
}

func NewAggregator(repos *storage.Repositories) *Aggregator {
	return &Aggregator{
		metrics:    repos.Metric,
		messages:   repos.Message,
		instances:  repos.Instance,
		authorized: repos.Authorized,
	}
}

func (a *Aggregator) Summary(ctx context.Context, days int) (map[model.MetricType]model.MetricSummary, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)
	return a.metrics.Summary(ctx, since)
}

func (a *Aggregator) ByDay(ctx context.Context, kind model.MetricType, days int) ([]model.DayTotal, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)
	return a.metrics.TotalsByDay(ctx, kind, since)
}

// Recent lista as últimas ocorrências de um tipo de métrica, usado na
// tela de erros recentes.
func (a *Aggregator) Recent(ctx context.Context, kind model.MetricType, limit int) ([]model.Metric, error) {
	if limit <= 0 {
		limit = 20
	}
	return a.metrics.ListRecent(ctx, kind, limit)
}

func (a *Aggregator) MessageStats(ctx context.Context) (model.MessageStats, error) {
	return a.messages.Stats(ctx)
}

// TopSenders devolve o ranking de remetentes com o nome do número
// autorizado quando cadastrado.
func (a *Aggregator) TopSenders(ctx context.Context, limit int) ([]model.SenderCount, error) {
	senders, err := a.messages.TopSenders(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(senders) == 0 {
		return senders, nil
	}

	phones := make([]string, len(senders))
	for i, s := range senders {
		phones[i] = s.PhoneNumber
	}

	names, err := a.authorized.NamesByPhone(ctx, phones)
	if err != nil {
		return nil, err
	}
	for i := range senders {
		senders[i].Name = names[senders[i].PhoneNumber]
	}

	return senders, nil
}

// DashboardStats agrega os contadores exibidos na tela inicial.
type DashboardStats struct {
	model.MessageStats
	InstanceCount   int     `json:"instanceCount"`
	ActiveInstances int     `json:"activeInstances"`
	AuthorizedCount int     `json:"authorizedCount"`
	APIRequests     float64 `json:"apiRequests"`
	AIRequests      float64 `json:"aiRequests"`
	Errors          float64 `json:"errors"`
}

func (a *Aggregator) DashboardStats(ctx context.Context) (DashboardStats, error) {
	stats, err := a.messages.Stats(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	instances, err := a.instances.List(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	active := 0
	for _, inst := range instances {
		if inst.Status == model.InstanceStatusConnected {
			active++
		}
	}

	authorized, err := a.authorized.List(ctx, "")
	if err != nil {
		return DashboardStats{}, err
	}
	authorizedActive := 0
	for _, num := range authorized {
		if num.IsActive {
			authorizedActive++
		}
	}

	summary, err := a.Summary(ctx, 7)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		MessageStats:    stats,
		InstanceCount:   len(instances),
		ActiveInstances: active,
		AuthorizedCount: authorizedActive,
		APIRequests:     summary[model.MetricAPIRequest].Total,
		AIRequests:      summary[model.MetricAIRequest].Total,
		Errors:          summary[model.MetricError].Total,
	}, nil
}
