package service

import (
	"context"
	"fmt"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/validate"
)

// DirectoryService keeps the public username directory consistent with the
// accounts it mirrors: one entry per claimed username, entries created and
// released only through the atomic claim.
type DirectoryService struct {
	directory domain.DirectoryRepository
}

func NewDirectoryService(directory domain.DirectoryRepository) *DirectoryService {
	return &DirectoryService{directory: directory}
}

// IsTaken reports whether the username is claimed by an account other than
// the given one.
func (s *DirectoryService) IsTaken(ctx context.Context, username, accountID string) (bool, error) {
	entry, err := s.directory.Get(ctx, username)
	if err != nil {
		return false, fmt.Errorf("lookup username: %w", err)
	}
	return entry != nil && entry.OwnerID != accountID, nil
}

// Claim atomically moves the account onto the new username, releasing the
// previously claimed one. The pre-check is advisory; the conditional batch
// in the repository is the authoritative guard, so a concurrent loser gets
// ErrUsernameTaken from the write itself.
func (s *DirectoryService) Claim(ctx context.Context, account *domain.Account, newUsername string) error {
	if err := validate.Username(newUsername); err != nil {
		return err
	}

	taken, err := s.IsTaken(ctx, newUsername, account.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}

	entry := &domain.UsernameEntry{
		Username:    newUsername,
		OwnerID:     account.ID,
		DisplayName: account.DisplayName,
		AvatarURL:   account.AvatarURL,
	}
	if err := s.directory.Claim(ctx, entry, account.Username); err != nil {
		return err
	}
	account.Username = newUsername
	return nil
}

// PublicProfile returns the public directory entry for a username. It never
// touches the accounts table.
func (s *DirectoryService) PublicProfile(ctx context.Context, username string) (*domain.UsernameEntry, error) {
	entry, err := s.directory.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// SyncMirror propagates changed public profile fields into the account's
// directory entry. Accounts without a claimed username have no mirror.
func (s *DirectoryService) SyncMirror(ctx context.Context, account *domain.Account, displayName, avatarURL string) error {
	if account.Username == "" {
		return nil
	}
	return s.directory.UpdatePublicFields(ctx, account.Username, displayName, avatarURL)
}
