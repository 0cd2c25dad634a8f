package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"zanonyme_go/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

const messageColumns = `id, recipient_id, link_id, content, status, created_at,
	fingerprint, reported_count, link_name`

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.RecipientID, m.LinkID, m.Content, string(m.Status),
		m.CreatedAt, m.Fingerprint, m.ReportedCount, m.LinkName,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	return r.scanMessage(r.db.QueryRowContext(ctx, query, id))
}

func (r *MessageRepo) ListForRecipient(ctx context.Context, recipientID string, status domain.MessageStatus, limit, offset int) ([]*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE recipient_id = $1`
	args := []any{recipientID}
	if status != "" {
		query += fmt.Sprintf(` AND status = $%d`, len(args)+1)
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		m, err := r.scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *MessageRepo) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE messages SET status = $1 WHERE id = $2`, string(status), id); err != nil {
		return fmt.Errorf("update message status: %w", err)
	}
	return nil
}

// BulkUpdateStatus updates all given messages of one recipient in one
// transaction; either every row is updated or none are.
func (r *MessageRepo) BulkUpdateStatus(ctx context.Context, recipientID string, ids []string, status domain.MessageStatus) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE messages SET status = $1 WHERE recipient_id = $2 AND id IN (` + placeholders(3, len(ids)) + `)`
	args := make([]any, 0, len(ids)+2)
	args = append(args, string(status), recipientID)
	for _, id := range ids {
		args = append(args, id)
	}
	return r.inTx(ctx, query, args)
}

func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (r *MessageRepo) BulkDelete(ctx context.Context, recipientID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM messages WHERE recipient_id = $1 AND id IN (` + placeholders(2, len(ids)) + `)`
	args := make([]any, 0, len(ids)+1)
	args = append(args, recipientID)
	for _, id := range ids {
		args = append(args, id)
	}
	return r.inTx(ctx, query, args)
}

func (r *MessageRepo) CountRecent(ctx context.Context, recipientID, fingerprint string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE recipient_id = $1 AND fingerprint = $2 AND created_at >= $3
	`, recipientID, fingerprint, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recent messages: %w", err)
	}
	return n, nil
}

func (r *MessageRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (r *MessageRepo) inTx(ctx context.Context, query string, args []any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk exec: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *MessageRepo) scanMessage(row rowScanner) (*domain.Message, error) {
	m := &domain.Message{}
	var status string
	err := row.Scan(
		&m.ID,
		&m.RecipientID,
		&m.LinkID,
		&m.Content,
		&status,
		&m.CreatedAt,
		&m.Fingerprint,
		&m.ReportedCount,
		&m.LinkName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	m.Status = domain.MessageStatus(status)
	return m, nil
}

// placeholders renders $start..$start+n-1 for an IN clause.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ",")
}
