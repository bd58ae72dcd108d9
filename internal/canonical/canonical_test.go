package canonical

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"max uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"json number kept verbatim", json.Number("1.50"), "1.50"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"mixed array", []any{json.Number("1"), "two", false}, `[1,"two",false]`},
		{"float", 2.5, "2.5"},
		{"large float", 1e21, "1e+21"},
		{"small float", 1e-7, "1e-7"},
		{"float integer", 100.0, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	got, err := Marshal(map[string]any{
		"z": map[string]any{"b": 1, "a": 2},
		"a": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(got))
}

func TestMarshalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as the surrogate pair D800 DC00, which sorts before
	// U+E000 in UTF-16 but after it in UTF-8.
	got, err := Marshal(map[string]any{"\uE000": 1, "𐀀": 2})
	require.NoError(t, err)
	assert.Equal(t, `{"𐀀":2,"`+"\uE000"+`":1}`, string(got))
}

func TestMarshalEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html", "<a & b>", `"<a & b>"`},
		{"newline", "a\nb", `"a\nb"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"line separator", "a\u2028b", "\"a\u2028b\""},
		{"literal escape text", `see \u2028`, `"see \\u2028"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalNFC(t *testing.T) {
	decomposed := "e\u0301"
	composed := "\u00e9"

	a, err := Marshal(map[string]any{decomposed: decomposed})
	require.NoError(t, err)
	b, err := Marshal(map[string]any{composed: composed})
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))

	_, err = Marshal(map[string]any{decomposed: 1, composed: 2})
	assert.Error(t, err)
}

func TestMarshalRejects(t *testing.T) {
	for name, v := range map[string]any{
		"null":           nil,
		"nested null":    map[string]any{"a": []any{nil}},
		"nan":            []any{nanValue()},
		"bad number":     json.Number("01"),
		"unsupported":    struct{}{},
		"unsupported el": []any{int32(1)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Marshal(v)
			assert.Error(t, err)
		})
	}
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}

func TestCanonicalize(t *testing.T) {
	got, err := Canonicalize([]byte(`{ "b" : [1, 2.50], "a": "x" }`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":[1,2.50]}`, string(got))

	_, err = Canonicalize([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)

	_, err = Canonicalize([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestCanonicalizeIdempotent(t *testing.T) {
	once, err := Canonicalize([]byte(`{"z": {"y": "é", "x": [true, "<>"]}, "a": 0}`))
	require.NoError(t, err)
	twice, err := Canonicalize(once)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}
