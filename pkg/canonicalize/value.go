// Package canonicalize provides RFC 8785 (JSON Canonicalization Scheme)
// compliant serialization for deterministic hashing and signing of Elydora
// operation records.
package canonicalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// Kind discriminates the JSON-like value variants.
type Kind int

// Value kinds. Integer and Double are kept distinct on ingress so that
// integers serialize exactly while doubles follow the ES2015
// Number-to-String rules.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindArray
	KindObject
)

// Value is a JSON-like structured value. The zero Value is null.
//
// Object members model presence explicitly: a key missing from the map is
// absent and omitted from canonical output, while a key mapped to Null() is
// serialized as an explicit null. Callers that need the distinction build
// objects directly instead of round-tripping through encoding/json.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	a    []Value
	o    map[string]Value
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a JSON number holding an exact integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double returns a JSON number holding an IEEE-754 double. Non-finite
// doubles are accepted here and rejected at serialization time.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array preserving element order.
func Array(elems ...Value) Value { return Value{kind: KindArray, a: elems} }

// Object returns a JSON object over the given members. The map is used
// as-is; callers must not mutate it after handing it over.
func Object(members map[string]Value) Value { return Value{kind: KindObject, o: members} }

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// FromAny converts a dynamically typed Go value (the shapes produced by
// encoding/json plus the native Go numeric types) into a Value. Unsupported
// types fail with VALIDATION_ERROR.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Value{}, contracts.Validationf("integer %d overflows int64", t)
		}
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, contracts.Validationf("integer %d overflows int64", t)
		}
		return Int(int64(t)), nil
	case float32:
		return Double(float64(t)), nil
	case float64:
		return Double(t), nil
	case json.Number:
		return fromNumber(t)
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return Value{kind: KindArray, a: elems}, nil
	case []Value:
		return Value{kind: KindArray, a: t}, nil
	case map[string]any:
		members := make(map[string]Value, len(t))
		for k, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			members[k] = ev
		}
		return Object(members), nil
	case map[string]Value:
		return Object(t), nil
	default:
		return Value{}, contracts.Validationf("unsupported value type %T", v)
	}
}

// FromJSON parses JSON text into a Value, preserving the integer/double
// distinction via json.Number. Malformed input fails with VALIDATION_ERROR.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return Value{}, contracts.Validationf("invalid JSON: %v", err)
	}
	// Trailing garbage after the first value is not valid JSON text.
	if dec.More() {
		return Value{}, contracts.Validationf("invalid JSON: trailing data after value")
	}
	return FromAny(generic)
}

func fromNumber(n json.Number) (Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return Value{}, contracts.Validationf("invalid JSON number %q", n.String())
	}
	return Double(f), nil
}

// Interface converts v back into the generic encoding/json shapes. Integers
// come back as int64, doubles as float64.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.a))
		for i, e := range v.a {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.o))
		for k, e := range v.o {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}
