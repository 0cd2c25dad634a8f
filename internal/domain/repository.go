package domain

import (
	"context"
	"time"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	UpdateProfile(ctx context.Context, id, displayName, avatarURL string, settings AccountSettings) error
	UpdateRole(ctx context.Context, id string, role Role) error
	UpdateStatus(ctx context.Context, id string, status AccountStatus) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	SetPushTokens(ctx context.Context, id string, tokens []string) error
	CountAll(ctx context.Context) (int, error)
}

// DirectoryRepository defines operations on the public username directory.
type DirectoryRepository interface {
	Get(ctx context.Context, username string) (*UsernameEntry, error)
	// Claim atomically releases oldUsername (when non-empty), creates the
	// entry for the new username and updates the owner account's username
	// field. The whole batch fails with ErrUsernameTaken if the slot is
	// held by a different account.
	Claim(ctx context.Context, entry *UsernameEntry, oldUsername string) error
	UpdatePublicFields(ctx context.Context, username, displayName, avatarURL string) error
}

// LinkRepository defines persistence operations for share links.
type LinkRepository interface {
	// Create returns ErrDuplicate when the token or short code collides
	// with an existing link; callers retry with fresh identifiers.
	Create(ctx context.Context, l *ShareLink) error
	GetByID(ctx context.Context, id string) (*ShareLink, error)
	GetByToken(ctx context.Context, token string) (*ShareLink, error)
	GetByShortCode(ctx context.Context, code string) (*ShareLink, error)
	ListForOwner(ctx context.Context, ownerID string) ([]*ShareLink, error)
	Update(ctx context.Context, l *ShareLink) error
	UpdateToken(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
	IncrementMessageCount(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	// ListForRecipient returns messages newest-first. An empty status
	// means no status filter.
	ListForRecipient(ctx context.Context, recipientID string, status MessageStatus, limit, offset int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id string, status MessageStatus) error
	// Bulk operations are scoped to one recipient and apply as a single
	// all-or-nothing batch.
	BulkUpdateStatus(ctx context.Context, recipientID string, ids []string, status MessageStatus) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, recipientID string, ids []string) error
	// CountRecent counts messages from one fingerprint to one recipient
	// created at or after the given instant.
	CountRecent(ctx context.Context, recipientID, fingerprint string, since time.Time) (int, error)
	CountAll(ctx context.Context) (int, error)
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	// Create inserts the report and increments the reported count of the
	// referenced message in the same transaction.
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, status ReportStatus) ([]*Report, error)
	Resolve(ctx context.Context, id string) error
	CountOpen(ctx context.Context) (int, error)
}
