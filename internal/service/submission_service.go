package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/validate"
)

// DefaultLinkName is stored on a message when the sender supplied no link
// name hint.
const DefaultLinkName = "Unknown link"

// Notifier receives the message-created side effect. Implementations are
// best-effort and must never fail the submission.
type Notifier interface {
	MessageCreated(ctx context.Context, recipient *domain.Account, m *domain.Message)
}

// SubmissionService is the single entry point through which anonymous
// messages are accepted. Every transport adapter goes through it, so
// fingerprinting and rate limiting always apply.
type SubmissionService struct {
	accounts domain.AccountRepository
	links    domain.LinkRepository
	messages domain.MessageRepository
	limiter  *RateLimiter
	notifier Notifier
	log      zerolog.Logger

	now func() time.Time
}

func NewSubmissionService(
	accounts domain.AccountRepository,
	links domain.LinkRepository,
	messages domain.MessageRepository,
	limiter *RateLimiter,
	notifier Notifier,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		accounts: accounts,
		links:    links,
		messages: messages,
		limiter:  limiter,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type SubmitInput struct {
	RecipientID  string
	LinkID       string
	Content      string
	Fingerprint  string
	LinkNameHint string
}

// Submit runs the pipeline: validate, recipient check, rate limit, persist,
// then the best-effort counter increment and notification. It short-circuits
// on the first failure.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*domain.Message, error) {
	if err := validate.MessageContent(in.Content); err != nil {
		return nil, err
	}

	recipient, err := s.accounts.GetByID(ctx, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}
	if recipient == nil {
		return nil, domain.ErrNotFound
	}
	if recipient.Status == domain.AccountSuspended {
		return nil, domain.ErrRecipientSuspended
	}

	now := s.now().UTC()
	allowed, err := s.limiter.Allow(ctx, in.RecipientID, in.Fingerprint, now)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrRateLimited
	}

	linkName := in.LinkNameHint
	if linkName == "" {
		linkName = DefaultLinkName
	}

	m := &domain.Message{
		ID:          uuid.NewString(),
		RecipientID: in.RecipientID,
		LinkID:      in.LinkID,
		Content:     in.Content,
		Status:      domain.MessageNew,
		CreatedAt:   now,
		Fingerprint: in.Fingerprint,
		LinkName:    linkName,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	// The link may not exist: synthetic public-profile links have no row.
	// Message acceptance never depends on the counter.
	if err := s.links.IncrementMessageCount(ctx, in.LinkID); err != nil {
		s.log.Debug().Err(err).Str("link_id", in.LinkID).Msg("link counter increment skipped")
	}

	if s.notifier != nil {
		s.notifier.MessageCreated(ctx, recipient, m)
	}

	return m, nil
}
