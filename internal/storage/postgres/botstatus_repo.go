package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type botStatusRepo struct {
	db *DB
}

func NewBotStatusRepository(db *DB) *botStatusRepo {
	return &botStatusRepo{db: db}
}

func (r *botStatusRepo) Upsert(ctx context.Context, status model.BotStatus) (model.BotStatus, error) {
	if status.ID == "" {
		status.ID = uuid.New().String()
	}
	status.UpdatedAt = time.Now()

	query := `
		INSERT INTO bot_status (id, instance_id, is_running, last_started, last_stopped, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (instance_id) DO UPDATE SET
			is_running = EXCLUDED.is_running,
			last_started = COALESCE(EXCLUDED.last_started, bot_status.last_started),
			last_stopped = COALESCE(EXCLUDED.last_stopped, bot_status.last_stopped),
			updated_at = EXCLUDED.updated_at
		RETURNING id, instance_id, is_running, last_started, last_stopped, updated_at
	`

	var out model.BotStatus
	err := r.db.Pool.QueryRow(ctx, query,
		status.ID, status.InstanceID, status.IsRunning, status.LastStarted, status.LastStopped, status.UpdatedAt,
	).Scan(&out.ID, &out.InstanceID, &out.IsRunning, &out.LastStarted, &out.LastStopped, &out.UpdatedAt)
	if err != nil {
		return model.BotStatus{}, err
	}

	return out, nil
}

func (r *botStatusRepo) GetByInstanceID(ctx context.Context, instanceID string) (model.BotStatus, error) {
	query := `
		SELECT id, instance_id, is_running, last_started, last_stopped, updated_at
		FROM bot_status
		WHERE instance_id = $1
	`

	var status model.BotStatus
	err := r.db.Pool.QueryRow(ctx, query, instanceID).Scan(
		&status.ID, &status.InstanceID, &status.IsRunning, &status.LastStarted, &status.LastStopped, &status.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BotStatus{}, ErrNotFound
		}
		return model.BotStatus{}, err
	}

	return status, nil
}

func (r *botStatusRepo) DeleteByInstanceID(ctx context.Context, instanceID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM bot_status WHERE instance_id = $1`, instanceID)
	return err
}
