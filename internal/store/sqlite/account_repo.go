package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"zanonyme_go/internal/domain"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

var _ domain.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, email, display_name, avatar_url, username, role, status,
	created_at, last_login_at, email_notifications, show_online_status,
	allow_public_profile, push_tokens`

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	tokens, err := json.Marshal(a.PushTokens)
	if err != nil {
		return fmt.Errorf("marshal push tokens: %w", err)
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		a.ID, nullable(a.Email), a.DisplayName, a.AvatarURL, a.Username,
		string(a.Role), string(a.Status), a.CreatedAt, a.LastLoginAt,
		a.Settings.EmailNotifications, a.Settings.ShowOnlineStatus,
		a.Settings.AllowPublicProfile, string(tokens),
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *AccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepo) UpdateProfile(ctx context.Context, id, displayName, avatarURL string, settings domain.AccountSettings) error {
	query := `
		UPDATE accounts
		SET display_name = ?, avatar_url = ?, email_notifications = ?,
		    show_online_status = ?, allow_public_profile = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		displayName, avatarURL,
		settings.EmailNotifications, settings.ShowOnlineStatus, settings.AllowPublicProfile,
		id,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *AccountRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET role = ? WHERE id = ?`, string(role), id); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

func (r *AccountRepo) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET status = ? WHERE id = ?`, string(status), id); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (r *AccountRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET last_login_at = ? WHERE id = ?`, at, id); err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}

func (r *AccountRepo) SetPushTokens(ctx context.Context, id string, tokens []string) error {
	if tokens == nil {
		tokens = []string{}
	}
	raw, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal push tokens: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET push_tokens = ? WHERE id = ?`, string(raw), id); err != nil {
		return fmt.Errorf("set push tokens: %w", err)
	}
	return nil
}

func (r *AccountRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AccountRepo) scanAccount(row rowScanner) (*domain.Account, error) {
	a := &domain.Account{}
	var email sql.NullString
	var role, status, tokens string
	err := row.Scan(
		&a.ID,
		&email,
		&a.DisplayName,
		&a.AvatarURL,
		&a.Username,
		&role,
		&status,
		&a.CreatedAt,
		&a.LastLoginAt,
		&a.Settings.EmailNotifications,
		&a.Settings.ShowOnlineStatus,
		&a.Settings.AllowPublicProfile,
		&tokens,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.Email = email.String
	a.Role = domain.Role(role)
	a.Status = domain.AccountStatus(status)
	if err := json.Unmarshal([]byte(tokens), &a.PushTokens); err != nil {
		return nil, fmt.Errorf("unmarshal push tokens: %w", err)
	}
	return a, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
