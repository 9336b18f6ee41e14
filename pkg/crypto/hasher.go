// Package crypto provides the hashing and Ed25519 signing primitives behind
// Elydora operation records.
package crypto

import (
	"crypto/sha256"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
)

// ZeroChainHash is the genesis prev_chain_hash: the base64url SHA-256 of 32
// zero bytes. Every agent chain starts here.
const ZeroChainHash = "Zmh6rfhivXdsj8GLjp-OIAiXFIVu4jOzkCpZHQ1fKSU"

// SHA256B64u computes the SHA-256 digest of data, base64url-encoded without
// padding.
func SHA256B64u(data []byte) string {
	sum := sha256.Sum256(data)
	return canonicalize.B64uEncode(sum[:])
}

// PayloadHash computes the content hash of a structured payload: the
// SHA-256 of its RFC 8785 canonical form. Hashing Null() digests the literal
// four bytes "null".
func PayloadHash(v canonicalize.Value) (string, error) {
	data, err := canonicalize.JCS(v)
	if err != nil {
		return "", err
	}
	return SHA256B64u(data), nil
}

// GenesisChainHash recomputes ZeroChainHash from first principles. Exists so
// the pinned constant stays honest under test.
func GenesisChainHash() string {
	var zero [32]byte
	return SHA256B64u(zero[:])
}
