// Package envelope composes, hashes, and signs Elydora Operation Records.
// The Builder owns the per-agent chain state: each record binds to its
// predecessor through the chain hash, and the chain head only ever moves
// forward.
package envelope

import (
	"strconv"
	"sync"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/crypto"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/ident"
)

// DefaultTTLMillis is the record freshness window when the config leaves
// TTLMillis zero.
const DefaultTTLMillis = 30_000

// Config is the immutable part of a Builder.
type Config struct {
	OrgID       string
	AgentID     string
	PrivateSeed string // base64url 32-byte Ed25519 seed
	KID         string
	TTLMillis   int64
}

// BuildParams are the caller-supplied fields of one operation.
type BuildParams struct {
	OperationType string
	Subject       canonicalize.Value // mapping
	Action        canonicalize.Value // mapping
	Payload       canonicalize.Value // any structured value; defaults to null
}

// SignedOperation is the result of one Build: the typed record, its
// canonical wire bytes, and the locally computed chain hash. The chain hash
// is not part of the wire form; the server recomputes it from the
// transmitted fields.
type SignedOperation struct {
	Record    contracts.OperationRecord
	Canonical []byte
	ChainHash string
}

// Builder holds one agent's signing key and chain state. A Builder is safe
// for concurrent use; Build runs atomically with respect to the chain head.
type Builder struct {
	mu            sync.Mutex
	orgID         string
	agentID       string
	kid           string
	ttlMillis     int64
	signer        *crypto.Signer
	prevChainHash string

	// Variables to allow pinning time, identifiers, and nonces in tests.
	nowMillis      func() int64
	newOperationID func() (string, error)
	newNonce       func() (string, error)
}

// NewBuilder validates the config, expands the signing seed, and starts the
// chain at the genesis hash.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.OrgID == "" {
		return nil, contracts.Validationf("org_id is required")
	}
	if cfg.AgentID == "" {
		return nil, contracts.Validationf("agent_id is required")
	}
	if cfg.KID == "" {
		return nil, contracts.Validationf("kid is required")
	}
	if cfg.TTLMillis < 0 {
		return nil, contracts.Validationf("ttl_ms must be positive, got %d", cfg.TTLMillis)
	}
	signer, err := crypto.NewSignerFromSeedB64u(cfg.PrivateSeed, cfg.KID)
	if err != nil {
		return nil, err
	}
	ttl := cfg.TTLMillis
	if ttl == 0 {
		ttl = DefaultTTLMillis
	}
	return &Builder{
		orgID:          cfg.OrgID,
		agentID:        cfg.AgentID,
		kid:            cfg.KID,
		ttlMillis:      ttl,
		signer:         signer,
		prevChainHash:  crypto.ZeroChainHash,
		nowMillis:      func() int64 { return time.Now().UnixMilli() },
		newOperationID: ident.NewOperationID,
		newNonce:       ident.NewNonce,
	}, nil
}

// Build composes, hashes, and signs one operation record, then advances the
// chain head. The head advances even if the caller's subsequent submission
// fails: the server derives the same next hash from the transmitted fields,
// and rewinding locally would fork the chain.
//
// Build performs no I/O.
func (b *Builder) Build(params BuildParams) (*SignedOperation, error) {
	if params.OperationType == "" {
		return nil, contracts.Validationf("operation_type is required")
	}
	if params.Subject.Kind() != canonicalize.KindObject {
		return nil, contracts.Validationf("subject must be a mapping")
	}
	if params.Action.Kind() != canonicalize.KindObject {
		return nil, contracts.Validationf("action must be a mapping")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	operationID, err := b.newOperationID()
	if err != nil {
		return nil, err
	}
	issuedAt := b.nowMillis()
	nonce, err := b.newNonce()
	if err != nil {
		return nil, err
	}

	payload := params.Payload
	payloadHash, err := crypto.PayloadHash(payload)
	if err != nil {
		return nil, err
	}

	chainHash := ChainHash(b.prevChainHash, payloadHash, operationID, issuedAt)

	unsigned := map[string]canonicalize.Value{
		"op_version":       canonicalize.String(contracts.OpVersion),
		"operation_id":     canonicalize.String(operationID),
		"org_id":           canonicalize.String(b.orgID),
		"agent_id":         canonicalize.String(b.agentID),
		"issued_at":        canonicalize.Int(issuedAt),
		"ttl_ms":           canonicalize.Int(b.ttlMillis),
		"nonce":            canonicalize.String(nonce),
		"operation_type":   canonicalize.String(params.OperationType),
		"subject":          params.Subject,
		"action":           params.Action,
		"payload":          payload,
		"payload_hash":     canonicalize.String(payloadHash),
		"prev_chain_hash":  canonicalize.String(b.prevChainHash),
		"agent_pubkey_kid": canonicalize.String(b.kid),
	}
	msg, err := canonicalize.JCS(canonicalize.Object(unsigned))
	if err != nil {
		return nil, err
	}
	signature := b.signer.Sign(msg)

	signed := make(map[string]canonicalize.Value, len(unsigned)+1)
	for k, v := range unsigned {
		signed[k] = v
	}
	signed["signature"] = canonicalize.String(signature)
	wire, err := canonicalize.JCS(canonicalize.Object(signed))
	if err != nil {
		return nil, err
	}

	record := contracts.OperationRecord{
		OpVersion:      contracts.OpVersion,
		OperationID:    operationID,
		OrgID:          b.orgID,
		AgentID:        b.agentID,
		IssuedAt:       issuedAt,
		TTLMillis:      b.ttlMillis,
		Nonce:          nonce,
		OperationType:  params.OperationType,
		Subject:        asMap(params.Subject),
		Action:         asMap(params.Action),
		Payload:        payload.Interface(),
		PayloadHash:    payloadHash,
		PrevChainHash:  b.prevChainHash,
		AgentPubkeyKID: b.kid,
		Signature:      signature,
	}

	// Commit: the chain head moves forward before the record is handed back.
	b.prevChainHash = chainHash

	return &SignedOperation{
		Record:    record,
		Canonical: wire,
		ChainHash: chainHash,
	}, nil
}

// PublicKey returns the base64url Ed25519 public key derived from the
// builder's seed.
func (b *Builder) PublicKey() string {
	return b.signer.PublicKey()
}

// ChainHead returns the current prev_chain_hash the next Build will bind to.
func (b *Builder) ChainHead() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prevChainHash
}

// ChainHash computes the digest linking one record to its predecessor.
func ChainHash(prevChainHash, payloadHash, operationID string, issuedAt int64) string {
	input := prevChainHash + "|" + payloadHash + "|" + operationID + "|" + strconv.FormatInt(issuedAt, 10)
	return crypto.SHA256B64u([]byte(input))
}

func asMap(v canonicalize.Value) map[string]any {
	m, _ := v.Interface().(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	return m
}
