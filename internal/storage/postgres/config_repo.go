package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type configRepo struct {
	db *DB
}

func NewConfigRepository(db *DB) *configRepo {
	return &configRepo{db: db}
}

func (r *configRepo) Get(ctx context.Context, key string) (model.SystemConfig, error) {
	query := `SELECT key, value, updated_at FROM system_config WHERE key = $1`

	var cfg model.SystemConfig
	err := r.db.Pool.QueryRow(ctx, query, key).Scan(&cfg.Key, &cfg.Value, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SystemConfig{}, ErrNotFound
		}
		return model.SystemConfig{}, err
	}

	return cfg, nil
}

func (r *configRepo) GetAll(ctx context.Context) ([]model.SystemConfig, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT key, value, updated_at FROM system_config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []model.SystemConfig
	for rows.Next() {
		var cfg model.SystemConfig
		if err := rows.Scan(&cfg.Key, &cfg.Value, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	return configs, rows.Err()
}

func (r *configRepo) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO system_config (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool.Exec(ctx, query, key, value, time.Now())
	return err
}
