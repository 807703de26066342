package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type instanceRepo struct {
	db *DB
}

func NewInstanceRepository(db *DB) *instanceRepo {
	return &instanceRepo{db: db}
}

func (r *instanceRepo) Create(ctx context.Context, inst model.Instance) (model.Instance, error) {
	if inst.ID == "" {
		inst.ID = uuid.New().String()
	}
	now := time.Now()
	inst.CreatedAt = now
	inst.UpdatedAt = now
	if inst.Status == "" {
		inst.Status = model.InstanceStatusDisconnected
	}

	query := `
		INSERT INTO whatsapp_instances (id, instance_name, status, qr_code, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, instance_name, status, COALESCE(qr_code, ''), COALESCE(phone_number, ''), created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		inst.ID, inst.InstanceName, string(inst.Status), nullIfEmpty(inst.QRCode), nullIfEmpty(inst.PhoneNumber), inst.CreatedAt, inst.UpdatedAt,
	).Scan(
		&inst.ID, &inst.InstanceName, &inst.Status, &inst.QRCode, &inst.PhoneNumber, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return model.Instance{}, err
	}

	return inst, nil
}

func (r *instanceRepo) GetByID(ctx context.Context, id string) (model.Instance, error) {
	query := `
		SELECT id, instance_name, status, COALESCE(qr_code, ''), COALESCE(phone_number, ''), created_at, updated_at
		FROM whatsapp_instances
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *instanceRepo) GetByName(ctx context.Context, instanceName string) (model.Instance, error) {
	query := `
		SELECT id, instance_name, status, COALESCE(qr_code, ''), COALESCE(phone_number, ''), created_at, updated_at
		FROM whatsapp_instances
		WHERE instance_name = $1
	`
	return r.scanOne(ctx, query, instanceName)
}

func (r *instanceRepo) scanOne(ctx context.Context, query string, arg any) (model.Instance, error) {
	var inst model.Instance
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&inst.ID, &inst.InstanceName, &inst.Status, &inst.QRCode, &inst.PhoneNumber, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.Instance{}, ErrNotFound
	}
	if err != nil {
		return model.Instance{}, err
	}
	return inst, nil
}

func (r *instanceRepo) List(ctx context.Context) ([]model.Instance, error) {
	query := `
		SELECT id, instance_name, status, COALESCE(qr_code, ''), COALESCE(phone_number, ''), created_at, updated_at
		FROM whatsapp_instances
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []model.Instance
	for rows.Next() {
		var inst model.Instance
		if err := rows.Scan(
			&inst.ID, &inst.InstanceName, &inst.Status, &inst.QRCode, &inst.PhoneNumber, &inst.CreatedAt, &inst.UpdatedAt,
		); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}

	return instances, rows.Err()
}

func (r *instanceRepo) Update(ctx context.Context, inst model.Instance) (model.Instance, error) {
	inst.UpdatedAt = time.Now()

	query := `
		UPDATE whatsapp_instances
		SET instance_name = $2, status = $3, qr_code = $4, phone_number = $5, updated_at = $6
		WHERE id = $1
		RETURNING id, instance_name, status, COALESCE(qr_code, ''), COALESCE(phone_number, ''), created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		inst.ID, inst.InstanceName, string(inst.Status), nullIfEmpty(inst.QRCode), nullIfEmpty(inst.PhoneNumber), inst.UpdatedAt,
	).Scan(
		&inst.ID, &inst.InstanceName, &inst.Status, &inst.QRCode, &inst.PhoneNumber, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.Instance{}, ErrNotFound
	}
	if err != nil {
		return model.Instance{}, err
	}

	return inst, nil
}

func (r *instanceRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM whatsapp_instances WHERE id = $1`
	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
