package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type authorizedRepo struct {
	db *DB
}

func NewAuthorizedNumberRepository(db *DB) *authorizedRepo {
	return &authorizedRepo{db: db}
}

const authorizedColumns = `id, instance_id, phone_number, COALESCE(name, ''), is_active, created_at, updated_at`

func (r *authorizedRepo) Create(ctx context.Context, num model.AuthorizedNumber) (model.AuthorizedNumber, error) {
	if num.ID == "" {
		num.ID = uuid.New().String()
	}
	now := time.Now()
	num.CreatedAt = now
	num.UpdatedAt = now

	query := `
		INSERT INTO authorized_numbers (id, instance_id, phone_number, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + authorizedColumns

	err := r.db.Pool.QueryRow(ctx, query,
		num.ID, num.InstanceID, num.PhoneNumber, nullIfEmpty(num.Name), num.IsActive, num.CreatedAt, num.UpdatedAt,
	).Scan(
		&num.ID, &num.InstanceID, &num.PhoneNumber, &num.Name, &num.IsActive, &num.CreatedAt, &num.UpdatedAt,
	)
	if err != nil {
		return model.AuthorizedNumber{}, err
	}

	return num, nil
}

func (r *authorizedRepo) GetByID(ctx context.Context, id string) (model.AuthorizedNumber, error) {
	query := `SELECT ` + authorizedColumns + ` FROM authorized_numbers WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *authorizedRepo) FindActive(ctx context.Context, instanceID, phone string) (model.AuthorizedNumber, error) {
	query := `
		SELECT ` + authorizedColumns + `
		FROM authorized_numbers
		WHERE instance_id = $1 AND phone_number = $2 AND is_active = TRUE
		LIMIT 1
	`
	return r.scanOne(ctx, query, instanceID, phone)
}

func (r *authorizedRepo) FindActiveBySuffix(ctx context.Context, instanceID, suffix string) (model.AuthorizedNumber, error) {
	query := `
		SELECT ` + authorizedColumns + `
		FROM authorized_numbers
		WHERE instance_id = $1 AND is_active = TRUE AND phone_number LIKE '%' || $2
		LIMIT 1
	`
	return r.scanOne(ctx, query, instanceID, suffix)
}

func (r *authorizedRepo) scanOne(ctx context.Context, query string, args ...any) (model.AuthorizedNumber, error) {
	var num model.AuthorizedNumber
	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&num.ID, &num.InstanceID, &num.PhoneNumber, &num.Name, &num.IsActive, &num.CreatedAt, &num.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.AuthorizedNumber{}, ErrNotFound
	}
	if err != nil {
		return model.AuthorizedNumber{}, err
	}
	return num, nil
}

func (r *authorizedRepo) List(ctx context.Context, instanceID string) ([]model.AuthorizedNumber, error) {
	query := `SELECT ` + authorizedColumns + ` FROM authorized_numbers`
	args := []any{}
	if instanceID != "" {
		query += ` WHERE instance_id = $1`
		args = append(args, instanceID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []model.AuthorizedNumber
	for rows.Next() {
		var num model.AuthorizedNumber
		if err := rows.Scan(
			&num.ID, &num.InstanceID, &num.PhoneNumber, &num.Name, &num.IsActive, &num.CreatedAt, &num.UpdatedAt,
		); err != nil {
			return nil, err
		}
		numbers = append(numbers, num)
	}

	return numbers, rows.Err()
}

func (r *authorizedRepo) NamesByPhone(ctx context.Context, phones []string) (map[string]string, error) {
	if len(phones) == 0 {
		return map[string]string{}, nil
	}

	query := `
		SELECT phone_number, COALESCE(name, '')
		FROM authorized_numbers
		WHERE phone_number = ANY($1)
	`

	rows, err := r.db.Pool.Query(ctx, query, phones)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var phone, name string
		if err := rows.Scan(&phone, &name); err != nil {
			return nil, err
		}
		names[phone] = name
	}

	return names, rows.Err()
}

func (r *authorizedRepo) Update(ctx context.Context, num model.AuthorizedNumber) (model.AuthorizedNumber, error) {
	num.UpdatedAt = time.Now()

	query := `
		UPDATE authorized_numbers
		SET name = $2, is_active = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + authorizedColumns

	err := r.db.Pool.QueryRow(ctx, query,
		num.ID, nullIfEmpty(num.Name), num.IsActive, num.UpdatedAt,
	).Scan(
		&num.ID, &num.InstanceID, &num.PhoneNumber, &num.Name, &num.IsActive, &num.CreatedAt, &num.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.AuthorizedNumber{}, ErrNotFound
	}
	if err != nil {
		return model.AuthorizedNumber{}, err
	}

	return num, nil
}

func (r *authorizedRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM authorized_numbers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
