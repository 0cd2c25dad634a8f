package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"zanonyme_go/internal/domain"
)

// Mocks for the repository interfaces.

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) UpdateProfile(ctx context.Context, id, displayName, avatarURL string, settings domain.AccountSettings) error {
	args := m.Called(ctx, id, displayName, avatarURL, settings)
	return args.Error(0)
}

func (m *MockAccountRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockAccountRepo) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAccountRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAccountRepo) SetPushTokens(ctx context.Context, id string, tokens []string) error {
	args := m.Called(ctx, id, tokens)
	return args.Error(0)
}

func (m *MockAccountRepo) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockDirectoryRepo struct {
	mock.Mock
}

func (m *MockDirectoryRepo) Get(ctx context.Context, username string) (*domain.UsernameEntry, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UsernameEntry), args.Error(1)
}

func (m *MockDirectoryRepo) Claim(ctx context.Context, entry *domain.UsernameEntry, oldUsername string) error {
	args := m.Called(ctx, entry, oldUsername)
	return args.Error(0)
}

func (m *MockDirectoryRepo) UpdatePublicFields(ctx context.Context, username, displayName, avatarURL string) error {
	args := m.Called(ctx, username, displayName, avatarURL)
	return args.Error(0)
}

type MockLinkRepo struct {
	mock.Mock
}

func (m *MockLinkRepo) Create(ctx context.Context, l *domain.ShareLink) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLinkRepo) GetByID(ctx context.Context, id string) (*domain.ShareLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShareLink), args.Error(1)
}

func (m *MockLinkRepo) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShareLink), args.Error(1)
}

func (m *MockLinkRepo) GetByShortCode(ctx context.Context, code string) (*domain.ShareLink, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShareLink), args.Error(1)
}

func (m *MockLinkRepo) ListForOwner(ctx context.Context, ownerID string) ([]*domain.ShareLink, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShareLink), args.Error(1)
}

func (m *MockLinkRepo) Update(ctx context.Context, l *domain.ShareLink) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLinkRepo) UpdateToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockLinkRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLinkRepo) IncrementMessageCount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLinkRepo) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) ListForRecipient(ctx context.Context, recipientID string, status domain.MessageStatus, limit, offset int) ([]*domain.Message, error) {
	args := m.Called(ctx, recipientID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMessageRepo) BulkUpdateStatus(ctx context.Context, recipientID string, ids []string, status domain.MessageStatus) error {
	args := m.Called(ctx, recipientID, ids, status)
	return args.Error(0)
}

func (m *MockMessageRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMessageRepo) BulkDelete(ctx context.Context, recipientID string, ids []string) error {
	args := m.Called(ctx, recipientID, ids)
	return args.Error(0)
}

func (m *MockMessageRepo) CountRecent(ctx context.Context, recipientID, fingerprint string, since time.Time) (int, error) {
	args := m.Called(ctx, recipientID, fingerprint, since)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageRepo) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, r *domain.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepo) List(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Report), args.Error(1)
}

func (m *MockReportRepo) Resolve(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReportRepo) CountOpen(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fakeNotifier records the notifications the submission pipeline emits.
type fakeNotifier struct {
	created []*domain.Message
}

func (f *fakeNotifier) MessageCreated(ctx context.Context, recipient *domain.Account, m *domain.Message) {
	f.created = append(f.created, m)
}
