package service

import (
	"context"
	"fmt"
	"time"

	"zanonyme_go/internal/domain"
)

// RateLimiter bounds anonymous submission volume per recipient and sender
// fingerprint over a sliding window. The count query and the later message
// insert are deliberately not one transaction: a concurrent burst can admit
// slightly more than the limit, which is acceptable for an abuse deterrent.
type RateLimiter struct {
	messages domain.MessageRepository
	max      int
	window   time.Duration
}

func NewRateLimiter(messages domain.MessageRepository, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{messages: messages, max: max, window: window}
}

// Allow reports whether a submission from fingerprint to recipient may
// proceed at the given instant. A failing count query fails the submission;
// the limit is never silently bypassed.
func (l *RateLimiter) Allow(ctx context.Context, recipientID, fingerprint string, now time.Time) (bool, error) {
	n, err := l.messages.CountRecent(ctx, recipientID, fingerprint, now.Add(-l.window))
	if err != nil {
		return false, fmt.Errorf("count rate window: %w", err)
	}
	return n < l.max, nil
}
