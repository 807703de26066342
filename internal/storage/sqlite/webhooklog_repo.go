package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type webhookLogRepo struct {
	db *DB
}

func NewWebhookLogRepository(db *DB) *webhookLogRepo {
	return &webhookLogRepo{db: db}
}

func (r *webhookLogRepo) Create(ctx context.Context, log model.WebhookLog) (model.WebhookLog, error) {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now()

	query := `
		INSERT INTO webhook_logs (id, event, instance_name, payload, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Conn.ExecContext(ctx, query,
		log.ID, log.Event, log.InstanceName, log.Payload, nullIfEmpty(log.Error),
		log.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return model.WebhookLog{}, err
	}

	return log, nil
}

func (r *webhookLogRepo) List(ctx context.Context, event, instanceName string, limit int) ([]model.WebhookLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, event, instance_name, payload, COALESCE(error, ''), created_at
		FROM webhook_logs
		WHERE 1=1
	`
	args := []any{}
	if event != "" {
		query += ` AND event = ?`
		args = append(args, event)
	}
	if instanceName != "" {
		query += ` AND instance_name = ?`
		args = append(args, instanceName)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.WebhookLog
	for rows.Next() {
		var l model.WebhookLog
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Event, &l.InstanceName, &l.Payload, &l.Error, &createdAt); err != nil {
			return nil, err
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (r *webhookLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.Conn.ExecContext(ctx, `DELETE FROM webhook_logs WHERE created_at < ?`, cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
