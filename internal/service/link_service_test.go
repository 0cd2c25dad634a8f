package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/service"
)

func TestLinkCreate(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Account{ID: "uid-1", DisplayName: "John", Username: "john-doe", AvatarURL: "https://a/x.png"}

	t.Run("SnapshotsOwner", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.ShareLink) bool {
			return l.OwnerID == "uid-1" &&
				l.OwnerName == "John" &&
				l.OwnerUsername == "john-doe" &&
				l.IsActive &&
				len(l.Token) == 12 &&
				len(l.ShortCode) == 6
		})).Return(nil)

		l, err := svc.Create(ctx, owner, service.LinkCreateInput{Name: "Work"})
		assert.NoError(t, err)
		assert.Equal(t, "Work", l.Name)
	})

	t.Run("RetriesOnCollision", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate).Once()
		links.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.Create(ctx, owner, service.LinkCreateInput{Name: "Work"})
		assert.NoError(t, err)
		links.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("GivesUpAfterRetries", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate)

		_, err := svc.Create(ctx, owner, service.LinkCreateInput{Name: "Work"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		links.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("InvalidName", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		_, err := svc.Create(ctx, owner, service.LinkCreateInput{Name: ""})
		assert.Error(t, err)
		links.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("InvalidCap", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		zero := 0
		_, err := svc.Create(ctx, owner, service.LinkCreateInput{Name: "Work", MaxMessages: &zero})
		assert.Error(t, err)
	})
}

func TestLinkUpdate(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Account{ID: "uid-1"}

	stored := func() *domain.ShareLink {
		expires := time.Now().Add(24 * time.Hour)
		cap := 50
		return &domain.ShareLink{
			ID:          "link-1",
			OwnerID:     "uid-1",
			Name:        "Work",
			IsActive:    true,
			ExpiresAt:   &expires,
			MaxMessages: &cap,
		}
	}

	t.Run("NameOnlyLeavesRestIntact", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "link-1").Return(stored(), nil)
		links.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.ShareLink) bool {
			return l.Name == "Personal" && l.IsActive && l.ExpiresAt != nil && l.MaxMessages != nil
		})).Return(nil)

		name := "Personal"
		l, err := svc.Update(ctx, owner, "link-1", service.LinkUpdateInput{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, "Personal", l.Name)
		assert.True(t, l.IsActive)
		links.AssertExpectations(t)
	})

	t.Run("DeactivateOnly", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "link-1").Return(stored(), nil)
		links.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.ShareLink) bool {
			return l.Name == "Work" && !l.IsActive
		})).Return(nil)

		inactive := false
		_, err := svc.Update(ctx, owner, "link-1", service.LinkUpdateInput{IsActive: &inactive})
		assert.NoError(t, err)
	})

	t.Run("ExplicitNullClearsExpiryAndCap", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "link-1").Return(stored(), nil)
		links.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.ShareLink) bool {
			return l.ExpiresAt == nil && l.MaxMessages == nil
		})).Return(nil)

		_, err := svc.Update(ctx, owner, "link-1", service.LinkUpdateInput{
			SetExpiresAt:   true,
			SetMaxMessages: true,
		})
		assert.NoError(t, err)
	})

	t.Run("InvalidNewName", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "link-1").Return(stored(), nil)

		empty := ""
		_, err := svc.Update(ctx, owner, "link-1", service.LinkUpdateInput{Name: &empty})
		assert.Error(t, err)
		links.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestLinkOwnership(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Account{ID: "uid-1"}
	stranger := &domain.Account{ID: "uid-2"}
	link := &domain.ShareLink{ID: "link-1", OwnerID: "uid-1", Name: "Work", IsActive: true}

	t.Run("DeleteForeignLink", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "link-1").Return(link, nil)

		err := svc.Delete(ctx, stranger, "link-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		links.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("DeleteOwnLink", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "link-1").Return(link, nil)
		links.On("Delete", mock.Anything, "link-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, owner, "link-1"))
	})

	t.Run("RotateReplacesToken", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "link-1").Return(link, nil)
		links.On("UpdateToken", mock.Anything, "link-1", mock.Anything).Return(nil)

		token, err := svc.RotateToken(ctx, owner, "link-1")
		assert.NoError(t, err)
		assert.Len(t, token, 12)
	})

	t.Run("MissingLink", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)

		links.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

		err := svc.Delete(ctx, owner, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLinkVisibility(t *testing.T) {
	ctx := context.Background()

	base := func() *domain.ShareLink {
		return &domain.ShareLink{ID: "link-1", OwnerID: "uid-1", Token: "abcdefgh1234", IsActive: true}
	}

	t.Run("ActiveVisible", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)
		links.On("GetByToken", mock.Anything, "abcdefgh1234").Return(base(), nil)

		l, err := svc.PublicByToken(ctx, "abcdefgh1234")
		assert.NoError(t, err)
		assert.Equal(t, "link-1", l.ID)
	})

	t.Run("InactiveHidden", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)
		l := base()
		l.IsActive = false
		links.On("GetByToken", mock.Anything, "abcdefgh1234").Return(l, nil)

		_, err := svc.PublicByToken(ctx, "abcdefgh1234")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ExpiredHidden", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)
		l := base()
		past := time.Now().Add(-time.Hour)
		l.ExpiresAt = &past
		links.On("GetByToken", mock.Anything, "abcdefgh1234").Return(l, nil)

		_, err := svc.PublicByToken(ctx, "abcdefgh1234")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("CappedHidden", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)
		l := base()
		cap := 5
		l.MaxMessages = &cap
		l.MessageCount = 5
		links.On("GetByToken", mock.Anything, "abcdefgh1234").Return(l, nil)

		_, err := svc.PublicByToken(ctx, "abcdefgh1234")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ShortCodeResolves", func(t *testing.T) {
		links := new(MockLinkRepo)
		svc := service.NewLinkService(links)
		links.On("GetByShortCode", mock.Anything, "Ab3dE9").Return(base(), nil)

		token, err := svc.ResolveShortCode(ctx, "Ab3dE9")
		assert.NoError(t, err)
		assert.Equal(t, "abcdefgh1234", token)
	})
}
