package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/service"
)

func newSubmissionFixture(max int) (*service.SubmissionService, *MockAccountRepo, *MockLinkRepo, *MockMessageRepo, *fakeNotifier) {
	accounts := new(MockAccountRepo)
	links := new(MockLinkRepo)
	messages := new(MockMessageRepo)
	notifier := &fakeNotifier{}
	limiter := service.NewRateLimiter(messages, max, time.Hour)
	svc := service.NewSubmissionService(accounts, links, messages, limiter, notifier, zerolog.Nop())
	return svc, accounts, links, messages, notifier
}

func activeAccount(id string) *domain.Account {
	return &domain.Account{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: "Someone",
		Status:      domain.AccountActive,
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, accounts, links, messages, notifier := newSubmissionFixture(10)

		accounts.On("GetByID", mock.Anything, "uid-1").Return(activeAccount("uid-1"), nil)
		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", mock.Anything).Return(0, nil)
		messages.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			return m.RecipientID == "uid-1" && m.Status == domain.MessageNew && m.Fingerprint == "fp-1"
		})).Return(nil)
		links.On("IncrementMessageCount", mock.Anything, "link-1").Return(nil)

		m, err := svc.Submit(ctx, service.SubmitInput{
			RecipientID:  "uid-1",
			LinkID:       "link-1",
			Content:      "hello",
			Fingerprint:  "fp-1",
			LinkNameHint: "Work",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, "Work", m.LinkName)
		assert.Len(t, notifier.created, 1)
	})

	t.Run("DefaultLinkName", func(t *testing.T) {
		svc, accounts, links, messages, _ := newSubmissionFixture(10)

		accounts.On("GetByID", mock.Anything, "uid-1").Return(activeAccount("uid-1"), nil)
		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", mock.Anything).Return(0, nil)
		messages.On("Create", mock.Anything, mock.Anything).Return(nil)
		links.On("IncrementMessageCount", mock.Anything, "link-1").Return(nil)

		m, err := svc.Submit(ctx, service.SubmitInput{
			RecipientID: "uid-1",
			LinkID:      "link-1",
			Content:     "hello",
			Fingerprint: "fp-1",
		})
		assert.NoError(t, err)
		assert.Equal(t, service.DefaultLinkName, m.LinkName)
	})

	t.Run("InvalidContent", func(t *testing.T) {
		svc, accounts, _, _, _ := newSubmissionFixture(10)

		_, err := svc.Submit(ctx, service.SubmitInput{RecipientID: "uid-1", Content: "<b>hi</b>"})
		assert.Error(t, err)
		accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("UnknownRecipient", func(t *testing.T) {
		svc, accounts, _, _, _ := newSubmissionFixture(10)

		accounts.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

		_, err := svc.Submit(ctx, service.SubmitInput{RecipientID: "ghost", Content: "hello"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SuspendedRecipient", func(t *testing.T) {
		svc, accounts, _, messages, _ := newSubmissionFixture(10)

		suspended := activeAccount("uid-1")
		suspended.Status = domain.AccountSuspended
		accounts.On("GetByID", mock.Anything, "uid-1").Return(suspended, nil)

		_, err := svc.Submit(ctx, service.SubmitInput{RecipientID: "uid-1", Content: "hello"})
		assert.ErrorIs(t, err, domain.ErrRecipientSuspended)
		messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RateLimited", func(t *testing.T) {
		svc, accounts, _, messages, _ := newSubmissionFixture(10)

		accounts.On("GetByID", mock.Anything, "uid-1").Return(activeAccount("uid-1"), nil)
		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", mock.Anything).Return(10, nil)

		_, err := svc.Submit(ctx, service.SubmitInput{
			RecipientID: "uid-1",
			Content:     "hello",
			Fingerprint: "fp-1",
		})
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CountFailureFailsSubmission", func(t *testing.T) {
		svc, accounts, _, messages, _ := newSubmissionFixture(10)

		accounts.On("GetByID", mock.Anything, "uid-1").Return(activeAccount("uid-1"), nil)
		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", mock.Anything).Return(0, errors.New("db gone"))

		_, err := svc.Submit(ctx, service.SubmitInput{
			RecipientID: "uid-1",
			Content:     "hello",
			Fingerprint: "fp-1",
		})
		assert.Error(t, err)
		messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CounterFailureDoesNotFailSubmission", func(t *testing.T) {
		svc, accounts, links, messages, notifier := newSubmissionFixture(10)

		accounts.On("GetByID", mock.Anything, "uid-1").Return(activeAccount("uid-1"), nil)
		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", mock.Anything).Return(0, nil)
		messages.On("Create", mock.Anything, mock.Anything).Return(nil)
		links.On("IncrementMessageCount", mock.Anything, "link-1").Return(domain.ErrNotFound)

		m, err := svc.Submit(ctx, service.SubmitInput{
			RecipientID: "uid-1",
			LinkID:      "link-1",
			Content:     "hello",
			Fingerprint: "fp-1",
		})
		assert.NoError(t, err)
		assert.NotNil(t, m)
		assert.Len(t, notifier.created, 1)
	})

	t.Run("PersistFailure", func(t *testing.T) {
		svc, accounts, _, messages, notifier := newSubmissionFixture(10)

		accounts.On("GetByID", mock.Anything, "uid-1").Return(activeAccount("uid-1"), nil)
		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", mock.Anything).Return(0, nil)
		messages.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.Submit(ctx, service.SubmitInput{
			RecipientID: "uid-1",
			Content:     "hello",
			Fingerprint: "fp-1",
		})
		assert.Error(t, err)
		assert.Empty(t, notifier.created)
	})
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("WindowBoundary", func(t *testing.T) {
		messages := new(MockMessageRepo)
		limiter := service.NewRateLimiter(messages, 10, time.Hour)

		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", now.Add(-time.Hour)).Return(9, nil)
		allowed, err := limiter.Allow(ctx, "uid-1", "fp-1", now)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("AtLimit", func(t *testing.T) {
		messages := new(MockMessageRepo)
		limiter := service.NewRateLimiter(messages, 10, time.Hour)

		messages.On("CountRecent", mock.Anything, "uid-1", "fp-1", mock.Anything).Return(10, nil)
		allowed, err := limiter.Allow(ctx, "uid-1", "fp-1", now)
		assert.NoError(t, err)
		assert.False(t, allowed)
	})
}
