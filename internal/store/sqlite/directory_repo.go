package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"zanonyme_go/internal/domain"
)

type DirectoryRepo struct {
	db *sql.DB
}

func NewDirectoryRepo(db *sql.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

var _ domain.DirectoryRepository = (*DirectoryRepo)(nil)

func (r *DirectoryRepo) Get(ctx context.Context, username string) (*domain.UsernameEntry, error) {
	e := &domain.UsernameEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, owner_id, display_name, avatar_url FROM usernames WHERE username = ?`,
		username,
	).Scan(&e.Username, &e.OwnerID, &e.DisplayName, &e.AvatarURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan username entry: %w", err)
	}
	return e, nil
}

// Claim releases the old username, claims the new one and updates the owner
// account's username column, all in one transaction. The upsert only touches
// rows owned by the claiming account, so a slot held by someone else leaves
// zero rows affected and the whole transaction is rolled back.
func (r *DirectoryRepo) Claim(ctx context.Context, entry *domain.UsernameEntry, oldUsername string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin claim tx: %w", err)
	}
	defer tx.Rollback()

	if oldUsername != "" && oldUsername != entry.Username {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM usernames WHERE username = ? AND owner_id = ?`,
			oldUsername, entry.OwnerID,
		); err != nil {
			return fmt.Errorf("release old username: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO usernames (username, owner_id, display_name, avatar_url)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE
		SET display_name = excluded.display_name, avatar_url = excluded.avatar_url
		WHERE usernames.owner_id = excluded.owner_id
	`, entry.Username, entry.OwnerID, entry.DisplayName, entry.AvatarURL)
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrUsernameTaken
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET username = ? WHERE id = ?`,
		entry.Username, entry.OwnerID,
	); err != nil {
		return fmt.Errorf("update account username: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit claim tx: %w", err)
	}
	return nil
}

func (r *DirectoryRepo) UpdatePublicFields(ctx context.Context, username, displayName, avatarURL string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE usernames SET display_name = ?, avatar_url = ? WHERE username = ?`,
		displayName, avatarURL, username,
	); err != nil {
		return fmt.Errorf("update public fields: %w", err)
	}
	return nil
}
