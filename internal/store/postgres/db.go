package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Migrate runs idempotent DDL migrations for the message-box schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		// Accounts
		`CREATE TABLE IF NOT EXISTS accounts (
			id                   TEXT PRIMARY KEY,
			email                TEXT UNIQUE,
			display_name         TEXT NOT NULL DEFAULT '',
			avatar_url           TEXT NOT NULL DEFAULT '',
			username             TEXT NOT NULL DEFAULT '',
			role                 TEXT NOT NULL DEFAULT 'USER',
			status               TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at           TIMESTAMPTZ NOT NULL,
			last_login_at        TIMESTAMPTZ NOT NULL,
			email_notifications  BOOLEAN NOT NULL DEFAULT TRUE,
			show_online_status   BOOLEAN NOT NULL DEFAULT FALSE,
			allow_public_profile BOOLEAN NOT NULL DEFAULT TRUE,
			push_tokens          TEXT NOT NULL DEFAULT '[]'
		)`,

		// Public username directory
		`CREATE TABLE IF NOT EXISTS usernames (
			username     TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL REFERENCES accounts(id),
			display_name TEXT NOT NULL DEFAULT '',
			avatar_url   TEXT NOT NULL DEFAULT ''
		)`,

		// Share links
		`CREATE TABLE IF NOT EXISTS links (
			id             TEXT PRIMARY KEY,
			owner_id       TEXT NOT NULL REFERENCES accounts(id),
			token          TEXT UNIQUE NOT NULL,
			short_code     TEXT UNIQUE NOT NULL,
			name           TEXT NOT NULL,
			is_active      BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at     TIMESTAMPTZ,
			max_messages   INTEGER,
			message_count  INTEGER NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL,
			owner_name     TEXT NOT NULL DEFAULT '',
			owner_username TEXT NOT NULL DEFAULT '',
			owner_avatar   TEXT NOT NULL DEFAULT ''
		)`,

		// Messages. link_id has no foreign key: the synthetic public
		// profile link has no row in links.
		`CREATE TABLE IF NOT EXISTS messages (
			id             TEXT PRIMARY KEY,
			recipient_id   TEXT NOT NULL REFERENCES accounts(id),
			link_id        TEXT NOT NULL DEFAULT '',
			content        TEXT NOT NULL,
			status         TEXT NOT NULL DEFAULT 'NEW',
			created_at     TIMESTAMPTZ NOT NULL,
			fingerprint    TEXT NOT NULL DEFAULT '',
			reported_count INTEGER NOT NULL DEFAULT 0,
			link_name      TEXT NOT NULL DEFAULT ''
		)`,

		// Reports
		`CREATE TABLE IF NOT EXISTS reports (
			id          TEXT PRIMARY KEY,
			message_id  TEXT NOT NULL,
			reporter_id TEXT NOT NULL,
			reason      TEXT NOT NULL,
			note        TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'OPEN',
			created_at  TIMESTAMPTZ NOT NULL
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email)`,
		`CREATE INDEX IF NOT EXISTS idx_usernames_owner ON usernames(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_links_owner ON links(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_recipient_created ON messages(recipient_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_rate_window ON messages(recipient_id, fingerprint, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
