package canonicalize

import (
	"encoding/base64"
	"strings"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// B64uEncode encodes data as RFC 4648 §5 base64url without padding.
func B64uEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// B64uDecode decodes base64url input, tolerating trailing '=' padding.
// Non-alphabet bytes fail with VALIDATION_ERROR.
func B64uDecode(s string) ([]byte, error) {
	trimmed := strings.TrimRight(s, "=")
	data, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, contracts.Validationf("invalid base64url input: %v", err)
	}
	return data, nil
}
