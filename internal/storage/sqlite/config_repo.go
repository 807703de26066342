package sqlite

import (
	"context"
	"time"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type configRepo struct {
	db *DB
}

func NewConfigRepository(db *DB) *configRepo {
	return &configRepo{db: db}
}

func (r *configRepo) Get(ctx context.Context, key string) (model.SystemConfig, error) {
	query := `SELECT key, value, updated_at FROM system_config WHERE key = ?`

	var cfg model.SystemConfig
	var updatedAt string
	err := r.db.Conn.QueryRowContext(ctx, query, key).Scan(&cfg.Key, &cfg.Value, &updatedAt)
	if err != nil {
		return model.SystemConfig{}, mapError(err)
	}
	cfg.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return cfg, nil
}

func (r *configRepo) GetAll(ctx context.Context) ([]model.SystemConfig, error) {
	rows, err := r.db.Conn.QueryContext(ctx, `SELECT key, value, updated_at FROM system_config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []model.SystemConfig
	for rows.Next() {
		var cfg model.SystemConfig
		var updatedAt string
		if err := rows.Scan(&cfg.Key, &cfg.Value, &updatedAt); err != nil {
			return nil, err
		}
		cfg.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		configs = append(configs, cfg)
	}

	return configs, rows.Err()
}

func (r *configRepo) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO system_config (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Conn.ExecContext(ctx, query, key, value, time.Now().Format(time.RFC3339))
	return err
}
