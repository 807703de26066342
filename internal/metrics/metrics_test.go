package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type fakeMetricRepo struct {
	created []model.Metric
	err     error
}

func (f *fakeMetricRepo) Create(ctx context.Context, m model.Metric) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMetricRepo) Summary(ctx context.Context, since time.Time) (map[model.MetricType]model.MetricSummary, error) {
	return map[model.MetricType]model.MetricSummary{
		model.MetricAPIRequest: {Total: 10, Count: 10},
		model.MetricError:      {Total: 2, Count: 2},
	}, nil
}

func (f *fakeMetricRepo) TotalsByDay(ctx context.Context, kind model.MetricType, since time.Time) ([]model.DayTotal, error) {
	return []model.DayTotal{{Date: "2026-08-30", Total: 5}}, nil
}

func (f *fakeMetricRepo) ListRecent(ctx context.Context, kind model.MetricType, limit int) ([]model.Metric, error) {
	return nil, nil
}

func TestRecordPersistsMetric(t *testing.T) {
	repo := &fakeMetricRepo{}
	rec := NewRecorder(repo, zap.NewNop())

	rec.Record(context.Background(), model.MetricAIRequest, 1, map[string]any{"instanceId": "inst-1"})

	if len(repo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(repo.created))
	}
	m := repo.created[0]
	if m.MetricType != model.MetricAIRequest {
		t.Errorf("type = %s", m.MetricType)
	}
	if m.Value != 1 {
		t.Errorf("value = %v", m.Value)
	}
	if m.Metadata == "" {
		t.Error("expected metadata json")
	}
}

func TestRecordSwallowsRepositoryError(t *testing.T) {
	repo := &fakeMetricRepo{err: errors.New("db down")}
	rec := NewRecorder(repo, zap.NewNop())

	// Não deve entrar em pânico nem propagar o erro
	rec.Count(context.Background(), model.MetricError, nil)
}

func TestRecordNilRecorderIsNoOp(t *testing.T) {
	var rec *Recorder
	rec.Count(context.Background(), model.MetricAPIRequest, nil)
}
