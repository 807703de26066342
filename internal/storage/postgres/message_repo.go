package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verlic/zapcentral/internal/storage/model"
)

type messageRepo struct {
	db *DB
}

func NewMessageRepository(db *DB) *messageRepo {
	return &messageRepo{db: db}
}

const messageColumns = `id, instance_id, phone_number, direction, content, status, ai_generated, COALESCE(tokens_used, 0), COALESCE(response_time_ms, 0), COALESCE(authorized_number_id, ''), created_at`

func (r *messageRepo) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = time.Now()

	query := `
		INSERT INTO messages (id, instance_id, phone_number, direction, content, status, ai_generated, tokens_used, response_time_ms, authorized_number_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		msg.ID, msg.InstanceID, msg.PhoneNumber, string(msg.Direction), msg.Content, msg.Status,
		msg.AIGenerated, msg.TokensUsed, msg.ResponseTimeMillis, nullIfEmpty(msg.AuthorizedNumberID), msg.CreatedAt,
	)
	if err != nil {
		return model.Message{}, err
	}

	return msg, nil
}

func (r *messageRepo) List(ctx context.Context, filter model.MessageFilter) ([]model.Message, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.InstanceID != "" {
		args = append(args, filter.InstanceID)
		where += fmt.Sprintf(` AND instance_id = $%d`, len(args))
	}
	if filter.PhoneNumber != "" {
		args = append(args, filter.PhoneNumber)
		where += fmt.Sprintf(` AND phone_number = $%d`, len(args))
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + messageColumns + ` FROM messages` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *messageRepo) ListConversation(ctx context.Context, instanceID, phone string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE instance_id = $1 AND phone_number = $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.db.Pool.Query(ctx, query, instanceID, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *messageRepo) Stats(ctx context.Context) (model.MessageStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE direction = 'inbound'),
			COUNT(*) FILTER (WHERE direction = 'outbound'),
			COUNT(*) FILTER (WHERE ai_generated)
		FROM messages
	`

	var stats model.MessageStats
	err := r.db.Pool.QueryRow(ctx, query).Scan(&stats.Total, &stats.Inbound, &stats.Outbound, &stats.AIGenerated)
	if err != nil {
		return model.MessageStats{}, err
	}
	return stats, nil
}

func (r *messageRepo) TopSenders(ctx context.Context, limit int) ([]model.SenderCount, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT phone_number, COUNT(*) AS total
		FROM messages
		WHERE direction = 'inbound'
		GROUP BY phone_number
		ORDER BY total DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var senders []model.SenderCount
	for rows.Next() {
		var s model.SenderCount
		if err := rows.Scan(&s.PhoneNumber, &s.Count); err != nil {
			return nil, err
		}
		senders = append(senders, s)
	}

	return senders, rows.Err()
}

func (r *messageRepo) DeleteByInstanceID(ctx context.Context, instanceID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM messages WHERE instance_id = $1`, instanceID)
	return err
}

func scanMessages(rows pgx.Rows) ([]model.Message, error) {
	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(
			&msg.ID, &msg.InstanceID, &msg.PhoneNumber, &msg.Direction, &msg.Content, &msg.Status,
			&msg.AIGenerated, &msg.TokensUsed, &msg.ResponseTimeMillis, &msg.AuthorizedNumberID, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
