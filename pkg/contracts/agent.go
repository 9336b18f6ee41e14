package contracts

// AgentStatus values reported by the platform.
const (
	AgentActive  = "active"
	AgentFrozen  = "frozen"
	AgentRevoked = "revoked"
)

// Agent is the platform's view of a registered signing agent.
type Agent struct {
	AgentID    string `json:"agent_id"`
	OrgID      string `json:"org_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"created_at"`
	FrozenAt   int64  `json:"frozen_at,omitempty"`
	FreezeNote string `json:"freeze_note,omitempty"`
}

// AgentKey is one public key bound to an agent. Revoked keys stay listed so
// historical operations remain verifiable.
type AgentKey struct {
	KID       string `json:"kid"`
	PublicKey string `json:"public_key"` // base64url Ed25519, 32 bytes
	Algorithm string `json:"algorithm"`  // "Ed25519"
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
	RevokedAt int64  `json:"revoked_at,omitempty"`
}

// RegisterAgentRequest registers a new agent and its first signing key.
type RegisterAgentRequest struct {
	AgentID   string `json:"agent_id"`
	Name      string `json:"name"`
	KID       string `json:"kid"`
	PublicKey string `json:"public_key"`
	Algorithm string `json:"algorithm"`
}

// AgentWithKeys is the response shape of agent registration and lookup.
type AgentWithKeys struct {
	Agent Agent      `json:"agent"`
	Keys  []AgentKey `json:"keys"`
}

// FreezeAgentRequest is the body of POST /v1/agents/{id}/freeze.
type FreezeAgentRequest struct {
	Reason string `json:"reason"`
}

// RevokeKeyRequest is the body of POST /v1/agents/{id}/revoke.
type RevokeKeyRequest struct {
	KID    string `json:"kid"`
	Reason string `json:"reason"`
}
