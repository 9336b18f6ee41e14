package crypto

import (
	"crypto/ed25519"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// SeedSize is the raw Ed25519 seed length accepted by the signer.
const SeedSize = ed25519.SeedSize

// Signer holds the expanded Ed25519 key material for one signing key. The
// private key never leaves the signer.
type Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey

	// KeyID is the opaque identifier (kid) bound to this key on the
	// platform.
	KeyID string
}

// NewSignerFromSeed expands a raw 32-byte RFC 8032 seed. Any other length
// fails with VALIDATION_ERROR.
func NewSignerFromSeed(seed []byte, keyID string) (*Signer, error) {
	if len(seed) != SeedSize {
		return nil, contracts.Validationf("ed25519 seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Signer{
		priv:  priv,
		pub:   priv.Public().(ed25519.PublicKey),
		KeyID: keyID,
	}, nil
}

// NewSignerFromSeedB64u expands a base64url-encoded seed.
func NewSignerFromSeedB64u(seed, keyID string) (*Signer, error) {
	raw, err := canonicalize.B64uDecode(seed)
	if err != nil {
		return nil, err
	}
	return NewSignerFromSeed(raw, keyID)
}

// Sign produces the base64url pure-Ed25519 signature over data.
func (s *Signer) Sign(data []byte) string {
	return canonicalize.B64uEncode(ed25519.Sign(s.priv, data))
}

// PublicKey returns the derived public key, base64url-encoded.
func (s *Signer) PublicKey() string {
	return canonicalize.B64uEncode(s.pub)
}

// PublicKeyBytes returns the raw 32-byte public key.
func (s *Signer) PublicKeyBytes() []byte {
	out := make([]byte, len(s.pub))
	copy(out, s.pub)
	return out
}

// DerivePublic returns the base64url public key for a base64url seed without
// retaining any key material. The installer uses this to prove a seed is
// well-formed before writing it to disk.
func DerivePublic(seedB64u string) (string, error) {
	s, err := NewSignerFromSeedB64u(seedB64u, "")
	if err != nil {
		return "", err
	}
	return s.PublicKey(), nil
}

// Verify checks a base64url signature over data against a base64url public
// key.
func Verify(pubB64u, sigB64u string, data []byte) (bool, error) {
	pub, err := canonicalize.B64uDecode(pubB64u)
	if err != nil {
		return false, err
	}
	if len(pub) != ed25519.PublicKeySize {
		return false, contracts.Validationf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	sig, err := canonicalize.B64uDecode(sigB64u)
	if err != nil {
		return false, err
	}
	if len(sig) != ed25519.SignatureSize {
		return false, contracts.Validationf("ed25519 signature must be %d bytes, got %d", ed25519.SignatureSize, len(sig))
	}
	return ed25519.Verify(ed25519.PublicKey(pub), data, sig), nil
}
