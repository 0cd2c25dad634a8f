package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/ident"
	"zanonyme_go/internal/validate"
)

// identRetries bounds the retry loop when a freshly generated token or short
// code collides with an existing link.
const identRetries = 3

// LinkService manages share links and their denormalized owner snapshots.
type LinkService struct {
	links domain.LinkRepository

	now func() time.Time
}

func NewLinkService(links domain.LinkRepository) *LinkService {
	return &LinkService{links: links, now: time.Now}
}

type LinkCreateInput struct {
	Name        string
	ExpiresAt   *time.Time
	MaxMessages *int
}

// Create builds a link for the owner, snapshotting the owner's public
// profile fields onto the record so anonymous senders can see the
// recipient's name without any read access to accounts. Snapshots are not
// kept live-updated afterwards.
func (s *LinkService) Create(ctx context.Context, owner *domain.Account, in LinkCreateInput) (*domain.ShareLink, error) {
	if err := validate.LinkName(in.Name); err != nil {
		return nil, err
	}
	if in.MaxMessages != nil {
		if err := validate.MaxMessages(*in.MaxMessages); err != nil {
			return nil, err
		}
	}

	l := &domain.ShareLink{
		ID:            uuid.NewString(),
		OwnerID:       owner.ID,
		Name:          in.Name,
		IsActive:      true,
		ExpiresAt:     in.ExpiresAt,
		MaxMessages:   in.MaxMessages,
		CreatedAt:     s.now().UTC(),
		OwnerName:     owner.DisplayName,
		OwnerUsername: owner.Username,
		OwnerAvatar:   owner.AvatarURL,
	}

	for attempt := 0; attempt < identRetries; attempt++ {
		l.Token = ident.NewToken()
		l.ShortCode = ident.NewShortCode()
		err := s.links.Create(ctx, l)
		if err == nil {
			return l, nil
		}
		if err != domain.ErrDuplicate {
			return nil, err
		}
	}
	return nil, fmt.Errorf("create link: identifiers kept colliding: %w", domain.ErrDuplicate)
}

func (s *LinkService) ListForOwner(ctx context.Context, ownerID string) ([]*domain.ShareLink, error) {
	return s.links.ListForOwner(ctx, ownerID)
}

// LinkUpdateInput is a partial update: nil fields are left untouched.
// SetExpiresAt/SetMaxMessages distinguish "absent" from an explicit null
// that clears the value.
type LinkUpdateInput struct {
	Name           *string
	IsActive       *bool
	ExpiresAt      *time.Time
	SetExpiresAt   bool
	MaxMessages    *int
	SetMaxMessages bool
}

func (s *LinkService) Update(ctx context.Context, owner *domain.Account, linkID string, in LinkUpdateInput) (*domain.ShareLink, error) {
	l, err := s.getOwned(ctx, owner, linkID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := validate.LinkName(*in.Name); err != nil {
			return nil, err
		}
		l.Name = *in.Name
	}
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
	if in.SetExpiresAt {
		l.ExpiresAt = in.ExpiresAt
	}
	if in.SetMaxMessages {
		if in.MaxMessages != nil {
			if err := validate.MaxMessages(*in.MaxMessages); err != nil {
				return nil, err
			}
		}
		l.MaxMessages = in.MaxMessages
	}

	if err := s.links.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// RotateToken replaces the link's token, invalidating the old share URL.
func (s *LinkService) RotateToken(ctx context.Context, owner *domain.Account, linkID string) (string, error) {
	l, err := s.getOwned(ctx, owner, linkID)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < identRetries; attempt++ {
		token := ident.NewToken()
		err := s.links.UpdateToken(ctx, l.ID, token)
		if err == nil {
			return token, nil
		}
		if err != domain.ErrDuplicate {
			return "", err
		}
	}
	return "", fmt.Errorf("rotate token: identifiers kept colliding: %w", domain.ErrDuplicate)
}

func (s *LinkService) Delete(ctx context.Context, owner *domain.Account, linkID string) error {
	l, err := s.getOwned(ctx, owner, linkID)
	if err != nil {
		return err
	}
	return s.links.Delete(ctx, l.ID)
}

// PublicByToken returns the link for a public send page. Inactive, expired
// and capped links all read as not found; anonymous visitors get no detail.
func (s *LinkService) PublicByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	l, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !s.visible(l) {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// ResolveShortCode maps a 6-character short code to its link token.
func (s *LinkService) ResolveShortCode(ctx context.Context, code string) (string, error) {
	l, err := s.links.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	if !s.visible(l) {
		return "", domain.ErrNotFound
	}
	return l.Token, nil
}

func (s *LinkService) visible(l *domain.ShareLink) bool {
	if l == nil || !l.IsActive {
		return false
	}
	if l.ExpiresAt != nil && l.ExpiresAt.Before(s.now()) {
		return false
	}
	if l.MaxMessages != nil && l.MessageCount >= *l.MaxMessages {
		return false
	}
	return true
}

func (s *LinkService) getOwned(ctx context.Context, owner *domain.Account, linkID string) (*domain.ShareLink, error) {
	l, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if l.OwnerID != owner.ID {
		return nil, domain.ErrForbidden
	}
	return l, nil
}
