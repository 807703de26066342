package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type metricRepo struct {
	db *DB
}

func NewMetricRepository(db *DB) *metricRepo {
	return &metricRepo{db: db}
}

func (r *metricRepo) Create(ctx context.Context, metric model.Metric) error {
	if metric.ID == "" {
		metric.ID = uuid.New().String()
	}
	if metric.CreatedAt.IsZero() {
		metric.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO metrics (id, metric_type, value, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		metric.ID, string(metric.MetricType), metric.Value, nullIfEmpty(metric.Metadata), metric.CreatedAt,
	)
	return err
}

func (r *metricRepo) Summary(ctx context.Context, since time.Time) (map[model.MetricType]model.MetricSummary, error) {
	query := `
		SELECT metric_type, COALESCE(SUM(value), 0), COUNT(*)
		FROM metrics
		WHERE created_at >= $1
		GROUP BY metric_type
	`

	rows, err := r.db.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make(map[model.MetricType]model.MetricSummary)
	for rows.Next() {
		var metricType string
		var s model.MetricSummary
		if err := rows.Scan(&metricType, &s.Total, &s.Count); err != nil {
			return nil, err
		}
		summary[model.MetricType(metricType)] = s
	}

	return summary, rows.Err()
}

func (r *metricRepo) TotalsByDay(ctx context.Context, metricType model.MetricType, since time.Time) ([]model.DayTotal, error) {
	query := `
		SELECT TO_CHAR(created_at, 'YYYY-MM-DD') AS day, COALESCE(SUM(value), 0)
		FROM metrics
		WHERE metric_type = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, string(metricType), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []model.DayTotal
	for rows.Next() {
		var t model.DayTotal
		if err := rows.Scan(&t.Date, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

func (r *metricRepo) ListRecent(ctx context.Context, metricType model.MetricType, limit int) ([]model.Metric, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, metric_type, value, COALESCE(metadata, ''), created_at
		FROM metrics
		WHERE metric_type = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, string(metricType), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []model.Metric
	for rows.Next() {
		var m model.Metric
		if err := rows.Scan(&m.ID, &m.MetricType, &m.Value, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}

	return metrics, rows.Err()
}
