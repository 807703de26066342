package postgres

import (
	"context"
	"fmt"
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
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		log.ID, log.Event, log.InstanceName, log.Payload, nullIfEmpty(log.Error), log.CreatedAt,
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

	where := ` WHERE 1=1`
	args := []any{}
	if event != "" {
		args = append(args, event)
		where += fmt.Sprintf(` AND event = $%d`, len(args))
	}
	if instanceName != "" {
		args = append(args, instanceName)
		where += fmt.Sprintf(` AND instance_name = $%d`, len(args))
	}

	query := `
		SELECT id, event, instance_name, payload, COALESCE(error, ''), created_at
		FROM webhook_logs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.WebhookLog
	for rows.Next() {
		var l model.WebhookLog
		if err := rows.Scan(&l.ID, &l.Event, &l.InstanceName, &l.Payload, &l.Error, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (r *webhookLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM webhook_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
