// Package validate holds the syntactic rules applied to user-supplied
// payloads before anything is persisted. All functions are pure and return
// nil or one of the sentinel errors below.
package validate

import (
	"errors"
	"regexp"
)

var (
	ErrEmpty       = errors.New("must not be empty")
	ErrTooShort    = errors.New("too short")
	ErrTooLong     = errors.New("too long")
	ErrHTML        = errors.New("html is not allowed")
	ErrFormat      = errors.New("invalid format")
	ErrNotPositive = errors.New("must be a positive integer")
)

const (
	MaxContentLen     = 500
	MinUsernameLen    = 3
	MaxUsernameLen    = 30
	MaxDisplayNameLen = 50
	MaxLinkNameLen    = 50
	MaxReportNoteLen  = 500
)

// tagPattern deliberately also matches benign bracket pairs that merely look
// like a tag; lone < or > characters pass.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)

// MessageContent checks an anonymous message body: 1..500 characters and no
// bracketed tag substring.
func MessageContent(s string) error {
	n := len([]rune(s))
	if n == 0 {
		return ErrEmpty
	}
	if n > MaxContentLen {
		return ErrTooLong
	}
	if tagPattern.MatchString(s) {
		return ErrHTML
	}
	return nil
}

// Username checks a public username: 3..30 characters, lowercase letters,
// digits and interior hyphens, starting and ending with a letter or digit.
func Username(s string) error {
	n := len([]rune(s))
	if n < MinUsernameLen {
		return ErrTooShort
	}
	if n > MaxUsernameLen {
		return ErrTooLong
	}
	if !usernamePattern.MatchString(s) {
		return ErrFormat
	}
	return nil
}

// DisplayName checks a profile display name: 1..50 characters.
func DisplayName(s string) error {
	n := len([]rune(s))
	if n == 0 {
		return ErrEmpty
	}
	if n > MaxDisplayNameLen {
		return ErrTooLong
	}
	return nil
}

// LinkName checks a share link name: 1..50 characters.
func LinkName(s string) error {
	n := len([]rune(s))
	if n == 0 {
		return ErrEmpty
	}
	if n > MaxLinkNameLen {
		return ErrTooLong
	}
	return nil
}

// MaxMessages checks an optional per-link message cap.
func MaxMessages(n int) error {
	if n < 1 {
		return ErrNotPositive
	}
	return nil
}

// ReportReason checks a report reason: required, non-empty.
func ReportReason(s string) error {
	if len([]rune(s)) == 0 {
		return ErrEmpty
	}
	return nil
}

// ReportNote checks an optional report note: at most 500 characters, empty
// allowed.
func ReportNote(s string) error {
	if len([]rune(s)) > MaxReportNoteLen {
		return ErrTooLong
	}
	return nil
}
