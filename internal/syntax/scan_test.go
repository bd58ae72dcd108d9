package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanString(t *testing.T) {
	tests := []struct {
		input string
		want  string
		end   int
	}{
		{`"abc" rest`, "abc", 5},
		{`'a"b'`, `a"b`, 5},
		{`'it\'s'`, "it's", 7},
		{`"\n\t\\\/\""`, "\n\t\\/\"", 12},
		{`"é😀"`, "é😀", 8},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, end, err := ScanString(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestScanString_Errors(t *testing.T) {
	_, _, err := ScanString(`"abc`, 0)
	assert.True(t, HasCode(err, ErrCodeUnexpectedEOF))

	_, _, err = ScanString(`"\q"`, 0)
	assert.True(t, HasCode(err, ErrCodeSyntax))

	_, _, err = ScanString("\"a\nb\"", 0)
	assert.True(t, HasCode(err, ErrCodeSyntax))
}

func TestQuote_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", `q"uote`, `back\slash`, "ctrl\x01\x7f", "line sep", "tab\tnew\nline", "é😀"} {
		got, end, err := ScanString(Quote(s), 0)
		require.NoError(t, err, s)
		assert.Equal(t, s, got)
		assert.Equal(t, len(Quote(s)), end)
	}
}

func TestScanNumber(t *testing.T) {
	tests := []struct {
		input string
		end   int
		ok    bool
	}{
		{"18,", 2, true},
		{"-1.50)", 5, true},
		{"2.5e-3 ", 6, true},
		{"1e", 1, true},
		{"1.", 1, true},
		{"-x", 0, false},
	}
	for _, tt := range tests {
		end, ok := ScanNumber(tt.input, 0)
		assert.Equal(t, tt.ok, ok, tt.input)
		if ok {
			assert.Equal(t, tt.end, end, tt.input)
		}
	}
}

func TestCheckBalance(t *testing.T) {
	d := func(s string) []Delim {
		var out []Delim
		for i := 0; i < len(s); i++ {
			if s[i] != ' ' {
				out = append(out, Delim{Char: s[i], Offset: i})
			}
		}
		return out
	}

	assert.NoError(t, CheckBalance(d("([]{()})")))

	err := CheckBalance(d("(()"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeUnexpectedEOF, pe.Code)
	assert.Equal(t, 0, pe.Offset)

	err = CheckBalance(d("([)"))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeSyntax, pe.Code)
	assert.Equal(t, 1, pe.Offset)

	err = CheckBalance(d("() ]"))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeSyntax, pe.Code)
	assert.Equal(t, 3, pe.Offset)

	// A wrong closer is a syntax error even while an earlier opener is
	// still open; the offset stays at the earliest unmatched delimiter.
	err = CheckBalance(d("(]"))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeSyntax, pe.Code)
	assert.Equal(t, 0, pe.Offset)

	err = CheckBalance(d("( [ ( ] ("))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeSyntax, pe.Code)
	assert.Equal(t, 0, pe.Offset)
}
