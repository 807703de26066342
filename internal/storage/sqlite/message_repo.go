package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Conn.ExecContext(ctx, query,
		msg.ID, msg.InstanceID, msg.PhoneNumber, string(msg.Direction), msg.Content, msg.Status,
		msg.AIGenerated, msg.TokensUsed, msg.ResponseTimeMillis, nullIfEmpty(msg.AuthorizedNumberID),
		msg.CreatedAt.Format(time.RFC3339),
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
		where += ` AND instance_id = ?`
		args = append(args, filter.InstanceID)
	}
	if filter.PhoneNumber != "" {
		where += ` AND phone_number = ?`
		args = append(args, filter.PhoneNumber)
	}

	var total int64
	if err := r.db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + messageColumns + ` FROM messages` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
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
		WHERE instance_id = ? AND phone_number = ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := r.db.Conn.QueryContext(ctx, query, instanceID, phone, limit)
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
			COALESCE(SUM(CASE WHEN direction = 'inbound' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction = 'outbound' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN ai_generated THEN 1 ELSE 0 END), 0)
		FROM messages
	`

	var stats model.MessageStats
	err := r.db.Conn.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Inbound, &stats.Outbound, &stats.AIGenerated)
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
		LIMIT ?
	`

	rows, err := r.db.Conn.QueryContext(ctx, query, limit)
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
	_, err := r.db.Conn.ExecContext(ctx, `DELETE FROM messages WHERE instance_id = ?`, instanceID)
	return err
}

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		var createdAt string
		if err := rows.Scan(
			&msg.ID, &msg.InstanceID, &msg.PhoneNumber, &msg.Direction, &msg.Content, &msg.Status,
			&msg.AIGenerated, &msg.TokensUsed, &msg.ResponseTimeMillis, &msg.AuthorizedNumberID, &createdAt,
		); err != nil {
			return nil, err
		}
		msg.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
