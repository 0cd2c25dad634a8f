package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"zanonyme_go/internal/domain"
)

type LinkRepo struct {
	db *sql.DB
}

func NewLinkRepo(db *sql.DB) *LinkRepo {
	return &LinkRepo{db: db}
}

var _ domain.LinkRepository = (*LinkRepo)(nil)

const linkColumns = `id, owner_id, token, short_code, name, is_active, expires_at,
	max_messages, message_count, created_at, owner_name, owner_username, owner_avatar`

func (r *LinkRepo) Create(ctx context.Context, l *domain.ShareLink) error {
	query := `
		INSERT INTO links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.OwnerID, l.Token, l.ShortCode, l.Name, l.IsActive,
		l.ExpiresAt, l.MaxMessages, l.MessageCount, l.CreatedAt,
		l.OwnerName, l.OwnerUsername, l.OwnerAvatar,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

func (r *LinkRepo) GetByID(ctx context.Context, id string) (*domain.ShareLink, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`
	return r.scanLink(r.db.QueryRowContext(ctx, query, id))
}

func (r *LinkRepo) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE token = $1`
	return r.scanLink(r.db.QueryRowContext(ctx, query, token))
}

func (r *LinkRepo) GetByShortCode(ctx context.Context, code string) (*domain.ShareLink, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_code = $1`
	return r.scanLink(r.db.QueryRowContext(ctx, query, code))
}

func (r *LinkRepo) ListForOwner(ctx context.Context, ownerID string) ([]*domain.ShareLink, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []*domain.ShareLink
	for rows.Next() {
		l, err := r.scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *LinkRepo) Update(ctx context.Context, l *domain.ShareLink) error {
	query := `
		UPDATE links
		SET name = $1, is_active = $2, expires_at = $3, max_messages = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, l.Name, l.IsActive, l.ExpiresAt, l.MaxMessages, l.ID)
	if err != nil {
		return fmt.Errorf("update link: %w", err)
	}
	return nil
}

func (r *LinkRepo) UpdateToken(ctx context.Context, id, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE links SET token = $1 WHERE id = $2`, token, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update token: %w", err)
	}
	return nil
}

func (r *LinkRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

func (r *LinkRepo) IncrementMessageCount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE links SET message_count = message_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment message count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LinkRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active links: %w", err)
	}
	return n, nil
}

func (r *LinkRepo) scanLink(row rowScanner) (*domain.ShareLink, error) {
	l := &domain.ShareLink{}
	var expiresAt sql.NullTime
	var maxMessages sql.NullInt64
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Token,
		&l.ShortCode,
		&l.Name,
		&l.IsActive,
		&expiresAt,
		&maxMessages,
		&l.MessageCount,
		&l.CreatedAt,
		&l.OwnerName,
		&l.OwnerUsername,
		&l.OwnerAvatar,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan link: %w", err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		l.ExpiresAt = &t
	}
	if maxMessages.Valid {
		m := int(maxMessages.Int64)
		l.MaxMessages = &m
	}
	return l, nil
}
