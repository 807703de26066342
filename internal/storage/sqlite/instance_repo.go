package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

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
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Conn.ExecContext(ctx, query,
		inst.ID, inst.InstanceName, string(inst.Status), nullIfEmpty(inst.QRCode), nullIfEmpty(inst.PhoneNumber),
		inst.CreatedAt.Format(time.RFC3339), inst.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return model.Instance{}, err
	}

	return inst, nil
}

const instanceColumns = `id, instance_name, status, COALESCE(qr_code, ''), COALESCE(phone_number, ''), created_at, updated_at`

func (r *instanceRepo) GetByID(ctx context.Context, id string) (model.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM whatsapp_instances WHERE id = ?`
	return r.scanOne(r.db.Conn.QueryRowContext(ctx, query, id))
}

func (r *instanceRepo) GetByName(ctx context.Context, instanceName string) (model.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM whatsapp_instances WHERE instance_name = ?`
	return r.scanOne(r.db.Conn.QueryRowContext(ctx, query, instanceName))
}

func (r *instanceRepo) List(ctx context.Context) ([]model.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM whatsapp_instances ORDER BY created_at DESC`

	rows, err := r.db.Conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []model.Instance
	for rows.Next() {
		var inst model.Instance
		var createdAt, updatedAt string
		if err := rows.Scan(
			&inst.ID, &inst.InstanceName, &inst.Status, &inst.QRCode, &inst.PhoneNumber, &createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		inst.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		inst.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		instances = append(instances, inst)
	}

	return instances, rows.Err()
}

func (r *instanceRepo) Update(ctx context.Context, inst model.Instance) (model.Instance, error) {
	inst.UpdatedAt = time.Now()

	query := `
		UPDATE whatsapp_instances
		SET instance_name = ?, status = ?, qr_code = ?, phone_number = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.Conn.ExecContext(ctx, query,
		inst.InstanceName, string(inst.Status), nullIfEmpty(inst.QRCode), nullIfEmpty(inst.PhoneNumber),
		inst.UpdatedAt.Format(time.RFC3339), inst.ID,
	)
	if err != nil {
		return model.Instance{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Instance{}, ErrNotFound
	}

	return r.GetByID(ctx, inst.ID)
}

func (r *instanceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.Conn.ExecContext(ctx, `DELETE FROM whatsapp_instances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *instanceRepo) scanOne(row rowScanner) (model.Instance, error) {
	var inst model.Instance
	var createdAt, updatedAt string
	err := row.Scan(&inst.ID, &inst.InstanceName, &inst.Status, &inst.QRCode, &inst.PhoneNumber, &createdAt, &updatedAt)
	if err != nil {
		return model.Instance{}, mapError(err)
	}
	inst.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	inst.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return inst, nil
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
