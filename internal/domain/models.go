package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

type MessageStatus string

const (
	MessageNew      MessageStatus = "NEW"
	MessageRead     MessageStatus = "READ"
	MessageArchived MessageStatus = "ARCHIVED"
)

type ReportStatus string

const (
	ReportOpen     ReportStatus = "OPEN"
	ReportResolved ReportStatus = "RESOLVED"
)

// AccountSettings are the user-facing preference flags.
type AccountSettings struct {
	EmailNotifications bool `json:"email_notifications"`
	ShowOnlineStatus   bool `json:"show_online_status"`
	AllowPublicProfile bool `json:"allow_public_profile"`
}

// Account represents a registered user able to receive anonymous messages.
// Accounts are created on first sign-in and never hard-deleted.
type Account struct {
	ID          string          `json:"id"`
	Email       string          `json:"email,omitempty"`
	DisplayName string          `json:"display_name"`
	AvatarURL   string          `json:"avatar_url"`
	Username    string          `json:"username"`
	Role        Role            `json:"role"`
	Status      AccountStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	LastLoginAt time.Time       `json:"last_login_at"`
	Settings    AccountSettings `json:"settings"`
	PushTokens  []string        `json:"-"`
}

// UsernameEntry is the public directory record mapping a claimed username to
// its owner. At most one entry exists per username; it mirrors the owner's
// public profile fields so anonymous readers never touch the accounts table.
type UsernameEntry struct {
	Username    string `json:"username"`
	OwnerID     string `json:"owner_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// ShareLink is a named, revocable capability letting anonymous senders reach
// one account. The Owner* fields are snapshots taken at creation time and are
// not kept live-updated.
type ShareLink struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Token         string     `json:"token"`
	ShortCode     string     `json:"short_code"`
	Name          string     `json:"name"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	MaxMessages   *int       `json:"max_messages,omitempty"`
	MessageCount  int        `json:"message_count"`
	CreatedAt     time.Time  `json:"created_at"`
	OwnerName     string     `json:"owner_name"`
	OwnerUsername string     `json:"owner_username"`
	OwnerAvatar   string     `json:"owner_avatar"`
}

// Message is an anonymous message delivered to a recipient account.
// LinkName is a snapshot of the link's name at submission time.
type Message struct {
	ID            string        `json:"id"`
	RecipientID   string        `json:"recipient_id"`
	LinkID        string        `json:"link_id"`
	Content       string        `json:"content"`
	Status        MessageStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	Fingerprint   string        `json:"-"`
	ReportedCount int           `json:"reported_count"`
	LinkName      string        `json:"link_name"`
}

// Report is a recipient's flag on a message, handled by admins.
type Report struct {
	ID         string       `json:"id"`
	MessageID  string       `json:"message_id"`
	ReporterID string       `json:"reporter_id"`
	Reason     string       `json:"reason"`
	Note       string       `json:"note,omitempty"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}
