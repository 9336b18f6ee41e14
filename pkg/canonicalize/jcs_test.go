package canonicalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

func TestJCS_Sorting(t *testing.T) {
	input := Object(map[string]Value{
		"b": Int(1),
		"a": Int(2),
	})

	out, err := JCS(input)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, string(out))
}

func TestJCS_RecursiveSorting(t *testing.T) {
	input := Object(map[string]Value{
		"z": Object(map[string]Value{
			"y": String("foo"),
			"x": String("bar"),
		}),
		"a": Int(1),
	})

	out, err := JCS(input)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"z":{"x":"bar","y":"foo"}}`, string(out))
}

func TestJCS_UTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as the surrogate pair D83D DE00 in UTF-16, which
	// sorts below U+FF61 even though its UTF-8 bytes sort above.
	input := Object(map[string]Value{
		"｡":          Int(1),
		"\U0001F600": Int(2),
	})

	out, err := JCS(input)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"｡\":1}", string(out))
}

func TestJCS_NoHTMLEscaping(t *testing.T) {
	input := Object(map[string]Value{
		"html": String("<script>alert('xss')</script> &"),
	})

	out, err := JCS(input)
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<script>alert('xss')</script> &"}`, string(out))
}

func TestJCS_StringEscaping(t *testing.T) {
	input := Object(map[string]Value{
		"s": String("quote\" slash\\ tab\t newline\n bell\a unicodeé"),
	})

	out, err := JCS(input)
	require.NoError(t, err)
	assert.Equal(t, "{\"s\":\"quote\\\" slash\\\\ tab\\t newline\\n bell\\u0007 unicodeé\"}", string(out))
}

func TestJCS_Scalars(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null(), "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"string", String("hi"), `"hi"`},
		{"empty array", Array(), "[]"},
		{"array order", Array(Int(3), Int(1), Int(2)), "[3,1,2]"},
		{"empty object", Object(nil), "{}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := JCS(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(out))
		})
	}
}

func TestJCS_Numbers(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"simple", 1.5, "1.5"},
		{"integral double", 100, "100"},
		{"smallest plain", 0.000001, "0.000001"},
		{"exponent low", 1e-7, "1e-7"},
		{"exponent high", 1e21, "1e+21"},
		{"below exponent threshold", 1e20, "100000000000000000000"},
		{"negative", -123.456, "-123.456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := JCS(Double(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(out))
		})
	}
}

func TestJCS_NonFiniteRejected(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := JCS(Double(f))
		require.Error(t, err)
		assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))
	}
}

func TestJCS_AbsentVersusNull(t *testing.T) {
	withNull := Object(map[string]Value{"a": Int(1), "b": Null()})
	without := Object(map[string]Value{"a": Int(1)})

	outNull, err := JCS(withNull)
	require.NoError(t, err)
	outAbsent, err := JCS(without)
	require.NoError(t, err)

	assert.Equal(t, `{"a":1,"b":null}`, string(outNull))
	assert.Equal(t, `{"a":1}`, string(outAbsent))
}

func TestFromJSON_PreservesNumberKinds(t *testing.T) {
	v, err := FromJSON([]byte(`{"i":7,"f":2.5,"big":1e21}`))
	require.NoError(t, err)

	obj := v.Interface().(map[string]any)
	assert.Equal(t, int64(7), obj["i"])
	assert.Equal(t, 2.5, obj["f"])
	assert.Equal(t, 1e21, obj["big"])
}

func TestFromJSON_Malformed(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":}`, `[1,2] trailing`} {
		_, err := FromJSON([]byte(in))
		require.Error(t, err, "input %q", in)
		assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))
	}
}

func TestJCS_Idempotent(t *testing.T) {
	v, err := FromJSON([]byte(`{"z":[1,2.5,{"b":null,"a":"x"}],"a":true}`))
	require.NoError(t, err)

	first, err := JCS(v)
	require.NoError(t, err)
	reparsed, err := FromJSON(first)
	require.NoError(t, err)
	second, err := JCS(reparsed)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestFromAny_RejectsUnsupported(t *testing.T) {
	_, err := FromAny(make(chan int))
	require.Error(t, err)
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))
}
