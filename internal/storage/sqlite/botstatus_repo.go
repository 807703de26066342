package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

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
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (instance_id) DO UPDATE SET
			is_running = excluded.is_running,
			last_started = COALESCE(excluded.last_started, bot_status.last_started),
			last_stopped = COALESCE(excluded.last_stopped, bot_status.last_stopped),
			updated_at = excluded.updated_at
	`

	_, err := r.db.Conn.ExecContext(ctx, query,
		status.ID, status.InstanceID, status.IsRunning,
		formatTimePtr(status.LastStarted), formatTimePtr(status.LastStopped),
		status.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return model.BotStatus{}, err
	}

	return r.GetByInstanceID(ctx, status.InstanceID)
}

func (r *botStatusRepo) GetByInstanceID(ctx context.Context, instanceID string) (model.BotStatus, error) {
	query := `
		SELECT id, instance_id, is_running, last_started, last_stopped, updated_at
		FROM bot_status
		WHERE instance_id = ?
	`

	var status model.BotStatus
	var lastStarted, lastStopped sql.NullString
	var updatedAt string
	err := r.db.Conn.QueryRowContext(ctx, query, instanceID).Scan(
		&status.ID, &status.InstanceID, &status.IsRunning, &lastStarted, &lastStopped, &updatedAt,
	)
	if err != nil {
		return model.BotStatus{}, mapError(err)
	}

	if lastStarted.Valid {
		status.LastStarted = parseTimePtr(lastStarted.String)
	}
	if lastStopped.Valid {
		status.LastStopped = parseTimePtr(lastStopped.String)
	}
	status.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return status, nil
}

func (r *botStatusRepo) DeleteByInstanceID(ctx context.Context, instanceID string) error {
	_, err := r.db.Conn.ExecContext(ctx, `DELETE FROM bot_status WHERE instance_id = ?`, instanceID)
	return err
}

func parseTimePtr(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
