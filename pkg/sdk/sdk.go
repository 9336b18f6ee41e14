// Package sdk is the high-level entry point for embedding Elydora in an
// agent process: one Agent bundles the operation builder and the platform
// transport behind the create/submit hot path.
package sdk

import (
	"context"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/client"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/envelope"
)

// Config enumerates the options of one SDK agent. Zero values take the
// documented defaults: production base URL, 30s TTL, 3 retries.
type Config struct {
	OrgID       string
	AgentID     string
	PrivateSeed string // base64url 32-byte Ed25519 seed
	KID         string
	BaseURL     string
	Token       string
	TTLMillis   int64
	MaxRetries  int
}

// Agent owns a signing chain and a platform client. Safe for concurrent
// use; operations built on one Agent must be submitted in build order.
type Agent struct {
	builder *envelope.Builder
	api     *client.Client
}

// New validates the config and assembles an Agent.
func New(cfg Config) (*Agent, error) {
	builder, err := envelope.NewBuilder(envelope.Config{
		OrgID:       cfg.OrgID,
		AgentID:     cfg.AgentID,
		PrivateSeed: cfg.PrivateSeed,
		KID:         cfg.KID,
		TTLMillis:   cfg.TTLMillis,
	})
	if err != nil {
		return nil, err
	}
	opts := []client.Option{client.WithToken(cfg.Token)}
	if cfg.MaxRetries > 0 {
		opts = append(opts, client.WithMaxRetries(cfg.MaxRetries))
	}
	return &Agent{
		builder: builder,
		api:     client.New(cfg.BaseURL, opts...),
	}, nil
}

// CreateOperation builds and signs one operation record locally, advancing
// the chain. No I/O.
func (a *Agent) CreateOperation(params envelope.BuildParams) (*envelope.SignedOperation, error) {
	return a.builder.Build(params)
}

// SubmitOperation sends a signed record to the platform and returns the
// receipt. Records must be submitted in the order they were built.
func (a *Agent) SubmitOperation(ctx context.Context, op *envelope.SignedOperation) (*contracts.Receipt, error) {
	return a.api.SubmitOperation(ctx, op.Canonical)
}

// RecordOperation is the hot path: build, sign, submit.
func (a *Agent) RecordOperation(ctx context.Context, params envelope.BuildParams) (*envelope.SignedOperation, *contracts.Receipt, error) {
	op, err := a.builder.Build(params)
	if err != nil {
		return nil, nil, err
	}
	receipt, err := a.api.SubmitOperation(ctx, op.Canonical)
	if err != nil {
		// The chain already advanced; the caller decides whether to retry
		// the submission or reconcile with the server.
		return op, nil, err
	}
	return op, receipt, nil
}

// PublicKey returns the agent's base64url Ed25519 public key.
func (a *Agent) PublicKey() string { return a.builder.PublicKey() }

// ChainHead returns the hash the next operation will bind to.
func (a *Agent) ChainHead() string { return a.builder.ChainHead() }

// Client exposes the underlying platform transport for the read-only
// queries (agents, operations, epochs, exports, JWKS).
func (a *Agent) Client() *client.Client { return a.api }
