package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"zanonyme_go/internal/domain"
)

// ErrInvalidToken is returned by a PushSender when the provider reports a
// device token as dead; the notifier prunes such tokens from the account.
var ErrInvalidToken = errors.New("push token invalid")

// PushPayload is the message handed to the push provider.
type PushPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	MessageID string `json:"message_id"`
}

// PushSender delivers a payload to one device token. The real provider is an
// external collaborator; tests plug in fakes.
type PushSender interface {
	Send(ctx context.Context, token string, payload PushPayload) error
}

// Notifier implements the message-created side effect: an event on the
// recipient's dashboard sockets and a push to their registered devices.
// Everything here is best-effort and never fails the submission.
type Notifier struct {
	hub      *Hub
	push     PushSender
	accounts domain.AccountRepository
	log      zerolog.Logger
}

func NewNotifier(hub *Hub, push PushSender, accounts domain.AccountRepository, log zerolog.Logger) *Notifier {
	return &Notifier{hub: hub, push: push, accounts: accounts, log: log}
}

type messageEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	LinkName  string `json:"link_name"`
}

// MessageCreated notifies the recipient about a freshly accepted message.
func (n *Notifier) MessageCreated(ctx context.Context, recipient *domain.Account, m *domain.Message) {
	if n.hub != nil {
		n.hub.Send(recipient.ID, messageEvent{
			Type:      "NEW_MESSAGE",
			MessageID: m.ID,
			LinkName:  m.LinkName,
		})
	}

	if n.push == nil || !recipient.Settings.EmailNotifications || len(recipient.PushTokens) == 0 {
		return
	}

	payload := PushPayload{
		Title:     "New anonymous message",
		Body:      "Someone sent you a message.",
		MessageID: m.ID,
	}

	var valid []string
	pruned := false
	for _, token := range recipient.PushTokens {
		err := n.push.Send(ctx, token, payload)
		switch {
		case err == nil:
			valid = append(valid, token)
		case errors.Is(err, ErrInvalidToken):
			pruned = true
		default:
			n.log.Warn().Err(err).Str("account_id", recipient.ID).Msg("push dispatch failed")
			valid = append(valid, token)
		}
	}

	if pruned {
		if err := n.accounts.SetPushTokens(ctx, recipient.ID, valid); err != nil {
			n.log.Warn().Err(err).Str("account_id", recipient.ID).Msg("push token cleanup failed")
		}
	}
}
