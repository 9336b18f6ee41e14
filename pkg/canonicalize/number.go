package canonicalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// formatDouble serializes an IEEE-754 double the way ES2015
// Number.prototype.toString does, which is what RFC 8785 mandates for JSON
// numbers. NaN and the infinities have no JSON representation and fail with
// VALIDATION_ERROR.
func formatDouble(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", contracts.Validationf("non-finite number cannot be canonicalized")
	}

	// ES2015 collapses both zeros to "0".
	if f == 0 {
		return "0", nil
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// ES2015 switches to exponent notation below 1e-6 and at 1e21; inside
	// that window the shortest plain decimal form is used.
	format := byte('e')
	if f >= 1e-6 && f < 1e21 {
		format = 'f'
	}
	out := strconv.FormatFloat(f, format, -1, 64)

	if format == 'e' {
		// Go prints at least two exponent digits ("1e+09"); ES prints the
		// minimum ("1e+9").
		if i := strings.IndexByte(out, 'e'); i >= 0 && out[i+2] == '0' {
			out = out[:i+2] + out[i+3:]
		}
	}
	return sign + out, nil
}
