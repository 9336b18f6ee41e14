package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// RegisterUser creates a platform account and, when OrgName is set, its
// organization. The returned token is not installed on the client; call
// SetToken with it.
func (c *Client) RegisterUser(ctx context.Context, req *contracts.RegisterUserRequest) (*contracts.RegisterUserResponse, error) {
	var out contracts.RegisterUserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req *contracts.LoginRequest) (*contracts.LoginResponse, error) {
	var out contracts.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterAgent registers an agent and its first signing key.
func (c *Client) RegisterAgent(ctx context.Context, req *contracts.RegisterAgentRequest) (*contracts.AgentWithKeys, error) {
	var out contracts.AgentWithKeys
	if err := c.doJSON(ctx, http.MethodPost, "/v1/agents/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAgent fetches an agent and its key history.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*contracts.AgentWithKeys, error) {
	var out contracts.AgentWithKeys
	if err := c.doJSON(ctx, http.MethodGet, "/v1/agents/"+url.PathEscape(agentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FreezeAgent puts an agent in the frozen state; subsequent submissions are
// rejected with AGENT_FROZEN.
func (c *Client) FreezeAgent(ctx context.Context, agentID, reason string) error {
	body := contracts.FreezeAgentRequest{Reason: reason}
	return c.doJSON(ctx, http.MethodPost, "/v1/agents/"+url.PathEscape(agentID)+"/freeze", body, nil)
}

// RevokeAgentKey revokes one signing key of an agent.
func (c *Client) RevokeAgentKey(ctx context.Context, agentID, kid, reason string) error {
	body := contracts.RevokeKeyRequest{KID: kid, Reason: reason}
	return c.doJSON(ctx, http.MethodPost, "/v1/agents/"+url.PathEscape(agentID)+"/revoke", body, nil)
}

// SubmitOperation posts a signed EOR in its canonical wire form and returns
// the server receipt. The bytes must be the RFC 8785 serialization produced
// by the envelope builder; re-marshalling here would break the signature.
func (c *Client) SubmitOperation(ctx context.Context, canonical json.RawMessage) (*contracts.Receipt, error) {
	var out contracts.SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/v1/operations", canonical, &out); err != nil {
		return nil, err
	}
	return &out.Receipt, nil
}

// GetOperation fetches a stored operation and, when present, its receipt.
func (c *Client) GetOperation(ctx context.Context, operationID string) (*contracts.OperationWithReceipt, error) {
	var out contracts.OperationWithReceipt
	if err := c.doJSON(ctx, http.MethodGet, "/v1/operations/"+url.PathEscape(operationID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOperation asks the server to re-verify a stored operation.
func (c *Client) VerifyOperation(ctx context.Context, operationID string) (*contracts.VerifyOperationResponse, error) {
	var out contracts.VerifyOperationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/operations/"+url.PathEscape(operationID)+"/verify", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryAudit pages through operations matching the filter.
func (c *Client) QueryAudit(ctx context.Context, filter *contracts.AuditFilter) (*contracts.AuditQueryResponse, error) {
	var out contracts.AuditQueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/audit/query", filter, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEpochs fetches the sealed epochs.
func (c *Client) ListEpochs(ctx context.Context) ([]contracts.Epoch, error) {
	var out contracts.EpochList
	if err := c.doJSON(ctx, http.MethodGet, "/v1/epochs", nil, &out); err != nil {
		return nil, err
	}
	return out.Epochs, nil
}

// GetEpoch fetches one epoch and its anchor, when anchored.
func (c *Client) GetEpoch(ctx context.Context, epochID string) (*contracts.EpochWithAnchor, error) {
	var out contracts.EpochWithAnchor
	if err := c.doJSON(ctx, http.MethodGet, "/v1/epochs/"+url.PathEscape(epochID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateExport starts an evidence-pack export job.
func (c *Client) CreateExport(ctx context.Context, filter *contracts.AuditFilter) (*contracts.Export, error) {
	req := contracts.CreateExportRequest{}
	if filter != nil {
		req.Filter = *filter
	}
	var out contracts.ExportCreated
	if err := c.doJSON(ctx, http.MethodPost, "/v1/exports", req, &out); err != nil {
		return nil, err
	}
	return &out.Export, nil
}

// ListExports fetches the caller's export jobs.
func (c *Client) ListExports(ctx context.Context) ([]contracts.Export, error) {
	var out contracts.ExportList
	if err := c.doJSON(ctx, http.MethodGet, "/v1/exports", nil, &out); err != nil {
		return nil, err
	}
	return out.Exports, nil
}

// GetExport fetches one export job and, once ready, its download URL.
func (c *Client) GetExport(ctx context.Context, exportID string) (*contracts.ExportStatus, error) {
	var out contracts.ExportStatus
	if err := c.doJSON(ctx, http.MethodGet, "/v1/exports/"+url.PathEscape(exportID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JWKS fetches the platform's receipt-verification key set.
func (c *Client) JWKS(ctx context.Context) (*contracts.JWKSet, error) {
	var out contracts.JWKSet
	if err := c.doJSON(ctx, http.MethodGet, "/.well-known/elydora/jwks.json", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
