package canonicalize

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf16"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// JCS returns the RFC 8785 canonical JSON representation of v as UTF-8
// bytes.
//
// Key features:
//  1. Object keys are sorted by UTF-16 code units, as RFC 8785 requires.
//  2. Strings use minimal escaping; HTML-significant characters pass through.
//  3. Doubles are serialized with the ES2015 Number-to-String algorithm;
//     integers are emitted exactly. Non-finite doubles fail with
//     VALIDATION_ERROR.
func JCS(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalRecursive(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JCSString returns the canonical form as a string.
func JCSString(v Value) (string, error) {
	data, err := JCS(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalRecursive(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt:
		fmt.Fprintf(buf, "%d", v.i)
	case KindDouble:
		s, err := formatDouble(v.f)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case KindString:
		encodeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, elem := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalRecursive(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		keys := make([]string, 0, len(v.o))
		for k := range v.o {
			keys = append(keys, k)
		}
		sortUTF16(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, k)
			buf.WriteByte(':')
			if err := marshalRecursive(buf, v.o[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return contracts.Validationf("unknown value kind %d", v.kind)
	}
	return nil
}

// encodeString writes s as a JSON string with the minimal escape set: only
// the quote, the backslash, and control characters U+0000..U+001F. Everything
// else, non-ASCII included, passes through as UTF-8.
func encodeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\t':
			buf.WriteString(`\t`)
		case '\n':
			buf.WriteString(`\n`)
		case '\f':
			buf.WriteString(`\f`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// sortUTF16 orders keys lexicographically by UTF-16 code units. This differs
// from byte order for supplementary-plane characters, whose surrogate pairs
// sort below U+E000..U+FFFF code points.
func sortUTF16(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		return lessUTF16(keys[i], keys[j])
	})
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	n := len(ua)
	if len(ub) < n {
		n = len(ub)
	}
	for i := 0; i < n; i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}
