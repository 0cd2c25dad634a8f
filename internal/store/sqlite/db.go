package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
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
			created_at           DATETIME NOT NULL,
			last_login_at        DATETIME NOT NULL,
			email_notifications  BOOLEAN NOT NULL DEFAULT 1,
			show_online_status   BOOLEAN NOT NULL DEFAULT 0,
			allow_public_profile BOOLEAN NOT NULL DEFAULT 1,
			push_tokens          TEXT NOT NULL DEFAULT '[]'
		);`,
		// Public username directory
		`CREATE TABLE IF NOT EXISTS usernames (
			username     TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			avatar_url   TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (owner_id) REFERENCES accounts(id)
		);`,
		// Share links
		`CREATE TABLE IF NOT EXISTS links (
			id             TEXT PRIMARY KEY,
			owner_id       TEXT NOT NULL,
			token          TEXT UNIQUE NOT NULL,
			short_code     TEXT UNIQUE NOT NULL,
			name           TEXT NOT NULL,
			is_active      BOOLEAN NOT NULL DEFAULT 1,
			expires_at     DATETIME,
			max_messages   INTEGER,
			message_count  INTEGER NOT NULL DEFAULT 0,
			created_at     DATETIME NOT NULL,
			owner_name     TEXT NOT NULL DEFAULT '',
			owner_username TEXT NOT NULL DEFAULT '',
			owner_avatar   TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (owner_id) REFERENCES accounts(id)
		);`,
		// Messages. link_id carries no foreign key: the synthetic public
		// profile link has no row in links.
		`CREATE TABLE IF NOT EXISTS messages (
			id             TEXT PRIMARY KEY,
			recipient_id   TEXT NOT NULL,
			link_id        TEXT NOT NULL DEFAULT '',
			content        TEXT NOT NULL,
			status         TEXT NOT NULL DEFAULT 'NEW',
			created_at     DATETIME NOT NULL,
			fingerprint    TEXT NOT NULL DEFAULT '',
			reported_count INTEGER NOT NULL DEFAULT 0,
			link_name      TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (recipient_id) REFERENCES accounts(id)
		);`,
		// Reports
		`CREATE TABLE IF NOT EXISTS reports (
			id          TEXT PRIMARY KEY,
			message_id  TEXT NOT NULL,
			reporter_id TEXT NOT NULL,
			reason      TEXT NOT NULL,
			note        TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'OPEN',
			created_at  DATETIME NOT NULL
		);`,
		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);`,
		`CREATE INDEX IF NOT EXISTS idx_usernames_owner ON usernames(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_links_owner ON links(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_recipient_created ON messages(recipient_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_rate_window ON messages(recipient_id, fingerprint, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
