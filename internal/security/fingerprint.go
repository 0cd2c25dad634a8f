package security

import (
	"encoding/base64"

	"golang.org/x/crypto/blake2b"
)

// fingerprintLen keeps the stored value short; it is an abuse-deterrence
// key, not a security primitive.
const fingerprintLen = 20

// UnknownSender is the sentinel used when no client address is available.
const UnknownSender = "unknown"

// Fingerprinter derives a coarse, salted, one-way sender fingerprint from a
// client network address. The same address always maps to the same value
// within one deployment, which is all the rate limiter needs; the salt keeps
// the mapping non-reversible for anyone reading the stored messages.
type Fingerprinter struct {
	key [32]byte
}

func NewFingerprinter(salt string) *Fingerprinter {
	return &Fingerprinter{key: blake2b.Sum256([]byte(salt))}
}

// FromAddr hashes the given address. An empty address maps to the
// UnknownSender sentinel before hashing.
func (f *Fingerprinter) FromAddr(addr string) string {
	if addr == "" {
		addr = UnknownSender
	}
	h, err := blake2b.New256(f.key[:])
	if err != nil {
		// only reachable with an oversized key, which the fixed-size
		// field rules out
		panic(err)
	}
	h.Write([]byte(addr))
	sum := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return sum[:fingerprintLen]
}
