package contracts

// JWK is one platform verification key as published at
// /.well-known/elydora/jwks.json. Only OKP/Ed25519 keys are expected.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	KID string `json:"kid"`
	X   string `json:"x"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
}

// JWKSet is the platform key set document.
type JWKSet struct {
	Keys []JWK `json:"keys"`
}
