// Package ident produces the unguessable identifiers used in public URLs.
package ident

import (
	"crypto/rand"
	"math/big"
)

const (
	tokenChars     = "abcdefghijklmnopqrstuvwxyz0123456789"
	shortCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	TokenLen     = 12
	ShortCodeLen = 6
)

// NewToken returns a 12-character lowercase-alphanumeric share link token.
func NewToken() string {
	return random(tokenChars, TokenLen)
}

// NewShortCode returns a 6-character mixed-case alphanumeric redirect code.
func NewShortCode() string {
	return random(shortCodeChars, ShortCodeLen)
}

// random draws characters uniformly from charset using crypto/rand. Neither
// generator checks uniqueness; link creation retries on a write conflict.
func random(charset string, n int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; nothing sensible to do but stop.
			panic(err)
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b)
}
