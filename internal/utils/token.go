package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewInviteToken returns the opaque secret embedded in an invitation's
// RSVP link: 32 bytes of crypto-random data as 64 hex characters.  256
// bits of entropy makes the link unguessable; global uniqueness is still
// enforced by the invitations.token index, with the caller retrying on the
// (negligible but nonzero) chance of a collision.
func NewInviteToken() (string, error) {
	return randomHex(32)
}

// randomHex returns n bytes of crypto-random data hex-encoded.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
