//go:build property
// +build property

package canonicalize

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genScalar yields leaf values across every scalar kind.
func genScalar() gopter.Gen {
	return gen.OneGenOf(
		gen.Const(Null()),
		gen.Bool().Map(Bool),
		gen.Int64().Map(Int),
		gen.Float64Range(-1e12, 1e12).Map(Double),
		gen.AnyString().Map(String),
	)
}

func buildObject(keys []string, values []Value) Value {
	members := make(map[string]Value)
	for i := 0; i < len(keys) && i < len(values); i++ {
		members[keys[i]] = values[i]
	}
	return Object(members)
}

func TestJCSDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("canonical serialization is deterministic", prop.ForAll(
		func(keys []string, values []Value) bool {
			obj := buildObject(keys, values)
			b1, err1 := JCS(obj)
			b2, err2 := JCS(obj)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return string(b1) == string(b2)
		},
		gen.SliceOf(gen.AnyString()),
		gen.SliceOf(genScalar()),
	))

	properties.TestingRun(t)
}

func TestJCSKeyOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("UTF-16-smaller key precedes in output", prop.ForAll(
		func(k1, k2 string) bool {
			if k1 == k2 {
				return true
			}
			obj := Object(map[string]Value{k1: Int(1), k2: Int(2)})
			out, err := JCS(obj)
			if err != nil {
				return false
			}
			first, second := k1, k2
			if lessUTF16(k2, k1) {
				first, second = k2, k1
			}
			fb, _ := JCS(String(first))
			sb, _ := JCS(String(second))
			iFirst := indexOf(out, fb)
			iSecond := indexOf(out, sb)
			return iFirst >= 0 && iSecond >= 0 && iFirst <= iSecond
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}

func TestJCSIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse-then-canonicalize is a fixed point", prop.ForAll(
		func(keys []string, values []Value) bool {
			obj := buildObject(keys, values)
			b1, err := JCS(obj)
			if err != nil {
				return true
			}
			v2, err := FromJSON(b1)
			if err != nil {
				return false
			}
			b2, err := JCS(v2)
			if err != nil {
				return false
			}
			return string(b1) == string(b2)
		},
		gen.SliceOf(gen.AnyString()),
		gen.SliceOf(genScalar()),
	))

	properties.TestingRun(t)
}
