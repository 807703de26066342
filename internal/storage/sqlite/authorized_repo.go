package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

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
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Conn.ExecContext(ctx, query,
		num.ID, num.InstanceID, num.PhoneNumber, nullIfEmpty(num.Name), num.IsActive,
		num.CreatedAt.Format(time.RFC3339), num.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return model.AuthorizedNumber{}, err
	}

	return num, nil
}

func (r *authorizedRepo) GetByID(ctx context.Context, id string) (model.AuthorizedNumber, error) {
	query := `SELECT ` + authorizedColumns + ` FROM authorized_numbers WHERE id = ?`
	return r.scanOne(r.db.Conn.QueryRowContext(ctx, query, id))
}

func (r *authorizedRepo) FindActive(ctx context.Context, instanceID, phone string) (model.AuthorizedNumber, error) {
	query := `
		SELECT ` + authorizedColumns + `
		FROM authorized_numbers
		WHERE instance_id = ? AND phone_number = ? AND is_active = 1
		LIMIT 1
	`
	return r.scanOne(r.db.Conn.QueryRowContext(ctx, query, instanceID, phone))
}

func (r *authorizedRepo) FindActiveBySuffix(ctx context.Context, instanceID, suffix string) (model.AuthorizedNumber, error) {
	query := `
		SELECT ` + authorizedColumns + `
		FROM authorized_numbers
		WHERE instance_id = ? AND is_active = 1 AND phone_number LIKE '%' || ?
		LIMIT 1
	`
	return r.scanOne(r.db.Conn.QueryRowContext(ctx, query, instanceID, suffix))
}

func (r *authorizedRepo) List(ctx context.Context, instanceID string) ([]model.AuthorizedNumber, error) {
	query := `SELECT ` + authorizedColumns + ` FROM authorized_numbers`
	args := []any{}
	if instanceID != "" {
		query += ` WHERE instance_id = ?`
		args = append(args, instanceID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []model.AuthorizedNumber
	for rows.Next() {
		var num model.AuthorizedNumber
		var createdAt, updatedAt string
		if err := rows.Scan(
			&num.ID, &num.InstanceID, &num.PhoneNumber, &num.Name, &num.IsActive, &createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		num.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		num.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		numbers = append(numbers, num)
	}

	return numbers, rows.Err()
}

func (r *authorizedRepo) NamesByPhone(ctx context.Context, phones []string) (map[string]string, error) {
	names := make(map[string]string)
	if len(phones) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(phones)), ",")
	query := `
		SELECT phone_number, COALESCE(name, '')
		FROM authorized_numbers
		WHERE phone_number IN (` + placeholders + `)
	`

	args := make([]any, len(phones))
	for i, p := range phones {
		args[i] = p
	}

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var phone, name string
		if err := rows.Scan(&phone, &name); err != nil {
			return nil, err
		}
		if name != "" {
			names[phone] = name
		}
	}

	return names, rows.Err()
}

func (r *authorizedRepo) Update(ctx context.Context, num model.AuthorizedNumber) (model.AuthorizedNumber, error) {
	num.UpdatedAt = time.Now()

	query := `
		UPDATE authorized_numbers
		SET name = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.Conn.ExecContext(ctx, query,
		nullIfEmpty(num.Name), num.IsActive, num.UpdatedAt.Format(time.RFC3339), num.ID,
	)
	if err != nil {
		return model.AuthorizedNumber{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.AuthorizedNumber{}, ErrNotFound
	}

	return r.GetByID(ctx, num.ID)
}

func (r *authorizedRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.Conn.ExecContext(ctx, `DELETE FROM authorized_numbers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *authorizedRepo) scanOne(row rowScanner) (model.AuthorizedNumber, error) {
	var num model.AuthorizedNumber
	var createdAt, updatedAt string
	err := row.Scan(&num.ID, &num.InstanceID, &num.PhoneNumber, &num.Name, &num.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return model.AuthorizedNumber{}, mapError(err)
	}
	num.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	num.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return num, nil
}
