package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/validate"
)

// ResolveAction is the moderation action bundled with a report resolution.
type ResolveAction string

const (
	ResolveNone ResolveAction = "NONE"
	// ResolveDeleteMessage removes the reported message.
	ResolveDeleteMessage ResolveAction = "DELETE_MESSAGE"
	// ResolveSuspendRecipient suspends the account that received the
	// reported message. Senders are anonymous and cannot be suspended;
	// this cuts off the inbox being used as a shield. New submissions to
	// a suspended recipient are refused by the submission pipeline.
	ResolveSuspendRecipient ResolveAction = "SUSPEND_RECIPIENT"
)

// ModerationService governs the message lifecycle (NEW/READ/ARCHIVED plus
// hard deletion) and the report lifecycle (OPEN -> RESOLVED).
type ModerationService struct {
	accounts domain.AccountRepository
	messages domain.MessageRepository
	reports  domain.ReportRepository
	links    domain.LinkRepository

	now func() time.Time
}

func NewModerationService(
	accounts domain.AccountRepository,
	messages domain.MessageRepository,
	reports domain.ReportRepository,
	links domain.LinkRepository,
) *ModerationService {
	return &ModerationService{
		accounts: accounts,
		messages: messages,
		reports:  reports,
		links:    links,
		now:      time.Now,
	}
}

// validStatus reports whether s is a live message status. Every transition
// between the three live statuses is legal; deletion is the only terminal
// move and goes through Delete.
func validStatus(s domain.MessageStatus) bool {
	switch s {
	case domain.MessageNew, domain.MessageRead, domain.MessageArchived:
		return true
	}
	return false
}

func (s *ModerationService) ListInbox(ctx context.Context, owner *domain.Account, status domain.MessageStatus, limit, offset int) ([]*domain.Message, error) {
	if status != "" && !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status filter %q", domain.ErrInvalidInput, status)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.ListForRecipient(ctx, owner.ID, status, limit, offset)
}

// GetMessage returns one of the owner's messages. Reading a NEW message
// marks it READ as a side effect of the read itself.
func (s *ModerationService) GetMessage(ctx context.Context, owner *domain.Account, messageID string) (*domain.Message, error) {
	m, err := s.getOwned(ctx, owner, messageID)
	if err != nil {
		return nil, err
	}
	if m.Status == domain.MessageNew {
		if err := s.messages.UpdateStatus(ctx, m.ID, domain.MessageRead); err != nil {
			return nil, fmt.Errorf("auto-mark read: %w", err)
		}
		m.Status = domain.MessageRead
	}
	return m, nil
}

func (s *ModerationService) SetMessageStatus(ctx context.Context, owner *domain.Account, messageID string, status domain.MessageStatus) (*domain.Message, error) {
	if !validStatus(status) {
		return nil, domain.ErrInvalidTransition
	}
	m, err := s.getOwned(ctx, owner, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.UpdateStatus(ctx, m.ID, status); err != nil {
		return nil, err
	}
	m.Status = status
	return m, nil
}

func (s *ModerationService) BulkSetStatus(ctx context.Context, owner *domain.Account, ids []string, status domain.MessageStatus) error {
	if !validStatus(status) {
		return domain.ErrInvalidTransition
	}
	return s.messages.BulkUpdateStatus(ctx, owner.ID, ids, status)
}

func (s *ModerationService) DeleteMessage(ctx context.Context, owner *domain.Account, messageID string) error {
	m, err := s.getOwned(ctx, owner, messageID)
	if err != nil {
		return err
	}
	return s.messages.Delete(ctx, m.ID)
}

func (s *ModerationService) BulkDelete(ctx context.Context, owner *domain.Account, ids []string) error {
	return s.messages.BulkDelete(ctx, owner.ID, ids)
}

// Report flags one of the reporter's received messages. The reported count
// on the message is incremented atomically with the report insert.
func (s *ModerationService) Report(ctx context.Context, reporter *domain.Account, messageID, reason, note string) (*domain.Report, error) {
	if err := validate.ReportReason(reason); err != nil {
		return nil, err
	}
	if err := validate.ReportNote(note); err != nil {
		return nil, err
	}

	m, err := s.getOwned(ctx, reporter, messageID)
	if err != nil {
		return nil, err
	}

	rep := &domain.Report{
		ID:         uuid.NewString(),
		MessageID:  m.ID,
		ReporterID: reporter.ID,
		Reason:     reason,
		Note:       note,
		Status:     domain.ReportOpen,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *ModerationService) ListReports(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	return s.reports.List(ctx, status)
}

// ResolveReport closes a report, optionally deleting the reported message or
// suspending the recipient account first. Resolution is terminal.
func (s *ModerationService) ResolveReport(ctx context.Context, reportID string, action ResolveAction) error {
	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if rep == nil {
		return domain.ErrNotFound
	}
	if rep.Status == domain.ReportResolved {
		return domain.ErrReportResolved
	}

	switch action {
	case ResolveNone, "":
	case ResolveDeleteMessage:
		if err := s.messages.Delete(ctx, rep.MessageID); err != nil {
			return err
		}
	case ResolveSuspendRecipient:
		m, err := s.messages.GetByID(ctx, rep.MessageID)
		if err != nil {
			return err
		}
		if m != nil {
			if err := s.accounts.UpdateStatus(ctx, m.RecipientID, domain.AccountSuspended); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unknown resolve action %q", domain.ErrInvalidInput, action)
	}

	return s.reports.Resolve(ctx, reportID)
}

// PlatformStats are the admin dashboard totals.
type PlatformStats struct {
	TotalUsers    int `json:"total_users"`
	TotalMessages int `json:"total_messages"`
	OpenReports   int `json:"open_reports"`
	ActiveLinks   int `json:"active_links"`
}

func (s *ModerationService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.accounts.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.links.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{
		TotalUsers:    users,
		TotalMessages: msgs,
		OpenReports:   reports,
		ActiveLinks:   links,
	}, nil
}

func (s *ModerationService) getOwned(ctx context.Context, owner *domain.Account, messageID string) (*domain.Message, error) {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.RecipientID != owner.ID {
		return nil, domain.ErrForbidden
	}
	return m, nil
}
