package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// TokenInfo is the client-side view of a bearer token's claims. The token is
// NOT verified here; the platform is the only verifier. This exists for
// diagnostic display (`elydora whoami`).
type TokenInfo struct {
	Subject   string
	OrgID     string
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// InspectToken parses the claims of a bearer token without verifying its
// signature. Malformed tokens fail with VALIDATION_ERROR.
func InspectToken(token string) (*TokenInfo, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, contracts.Validationf("token is not a parseable JWT: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, contracts.Validationf("token carries no claims")
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if org, ok := claims["org_id"].(string); ok {
		info.OrgID = org
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	return info, nil
}
