// Package ident generates the time-ordered operation identifiers and fresh
// nonces stamped into Elydora operation records.
package ident

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// NonceSize is the number of random bytes in an operation nonce.
const NonceSize = 16

// nowMillis is a variable to allow freezing the clock in tests.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// NewOperationID returns an RFC 9562 UUIDv7 in canonical lowercase form:
// a 48-bit big-endian Unix-millisecond timestamp followed by 74 random bits.
//
// uuid.NewV7 is not used here: it spends 12 of the random bits on a
// sub-millisecond sequence, and operation identifiers keep the full 74 bits
// of entropy. Identifiers minted in the same millisecond are unordered.
func NewOperationID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[6:]); err != nil {
		return "", contracts.Validationf("entropy source failed: %v", err)
	}
	ms := uint64(nowMillis())
	b[0] = byte(ms >> 40)
	b[1] = byte(ms >> 32)
	b[2] = byte(ms >> 24)
	b[3] = byte(ms >> 16)
	b[4] = byte(ms >> 8)
	b[5] = byte(ms)
	b[6] = 0x70 | (b[6] & 0x0f) // version 7
	b[8] = 0x80 | (b[8] & 0x3f) // RFC 4122 variant
	return uuid.UUID(b).String(), nil
}

// NewNonce returns 16 fresh cryptographically random bytes as a 22-character
// unpadded base64url string. Nonces are never reused across operations.
func NewNonce() (string, error) {
	var b [NonceSize]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", contracts.Validationf("entropy source failed: %v", err)
	}
	return canonicalize.B64uEncode(b[:]), nil
}
