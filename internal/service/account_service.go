package service

import (
	"context"
	"fmt"
	"time"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/security"
	"zanonyme_go/internal/validate"
)

// AccountService provisions and maintains accounts. Authentication itself is
// delegated to the external identity provider; this service only reacts to
// verified claims.
type AccountService struct {
	accounts  domain.AccountRepository
	directory *DirectoryService

	// isAdminEmail is the immutable administrator allow-list check,
	// injected from configuration at startup.
	isAdminEmail func(email string) bool

	now func() time.Time
}

func NewAccountService(accounts domain.AccountRepository, directory *DirectoryService, isAdminEmail func(string) bool) *AccountService {
	if isAdminEmail == nil {
		isAdminEmail = func(string) bool { return false }
	}
	return &AccountService{
		accounts:     accounts,
		directory:    directory,
		isAdminEmail: isAdminEmail,
		now:          time.Now,
	}
}

// EnsureAccount upserts the account for a verified identity: created on
// first sign-in (with the admin allow-list elevation applied once, here),
// otherwise the last-login timestamp is bumped. Re-applying the elevation
// check on an existing account is a no-op by construction.
func (s *AccountService) EnsureAccount(ctx context.Context, claims *security.IdentityClaims) (*domain.Account, error) {
	now := s.now().UTC()

	a, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if a != nil {
		if err := s.accounts.TouchLogin(ctx, a.ID, now); err != nil {
			return nil, err
		}
		a.LastLoginAt = now
		return a, nil
	}

	role := domain.RoleUser
	if s.isAdminEmail(claims.Email) {
		role = domain.RoleAdmin
	}
	name := claims.Name
	if name == "" {
		name = "Anonymous"
	}

	a = &domain.Account{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: name,
		AvatarURL:   claims.Picture,
		Role:        role,
		Status:      domain.AccountActive,
		CreatedAt:   now,
		LastLoginAt: now,
		Settings: domain.AccountSettings{
			EmailNotifications: true,
			AllowPublicProfile: true,
		},
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

type SettingsInput struct {
	DisplayName string
	AvatarURL   string
	Settings    domain.AccountSettings
}

// UpdateSettings saves the account's profile and preference flags, then
// syncs the public mirror in the same logical update. This is the single
// call site that fans profile changes out to the directory.
func (s *AccountService) UpdateSettings(ctx context.Context, account *domain.Account, in SettingsInput) error {
	if err := validate.DisplayName(in.DisplayName); err != nil {
		return err
	}

	if err := s.accounts.UpdateProfile(ctx, account.ID, in.DisplayName, in.AvatarURL, in.Settings); err != nil {
		return err
	}

	if in.DisplayName != account.DisplayName || in.AvatarURL != account.AvatarURL {
		if err := s.directory.SyncMirror(ctx, account, in.DisplayName, in.AvatarURL); err != nil {
			return fmt.Errorf("sync public mirror: %w", err)
		}
	}

	account.DisplayName = in.DisplayName
	account.AvatarURL = in.AvatarURL
	account.Settings = in.Settings
	return nil
}

// AddPushToken registers a push token on the account, set semantics.
func (s *AccountService) AddPushToken(ctx context.Context, account *domain.Account, token string) error {
	if token == "" {
		return domain.ErrInvalidInput
	}
	for _, t := range account.PushTokens {
		if t == token {
			return nil
		}
	}
	tokens := append(append([]string(nil), account.PushTokens...), token)
	if err := s.accounts.SetPushTokens(ctx, account.ID, tokens); err != nil {
		return err
	}
	account.PushTokens = tokens
	return nil
}

func (s *AccountService) RemovePushToken(ctx context.Context, account *domain.Account, token string) error {
	tokens := make([]string, 0, len(account.PushTokens))
	for _, t := range account.PushTokens {
		if t != token {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == len(account.PushTokens) {
		return nil
	}
	if err := s.accounts.SetPushTokens(ctx, account.ID, tokens); err != nil {
		return err
	}
	account.PushTokens = tokens
	return nil
}

// Admin operations.

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) SetRole(ctx context.Context, id string, role domain.Role) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	return s.accounts.UpdateRole(ctx, id, role)
}

func (s *AccountService) SetStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	if status != domain.AccountActive && status != domain.AccountSuspended {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.accounts.UpdateStatus(ctx, id, status)
}
