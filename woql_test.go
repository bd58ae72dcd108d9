package woql_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql"
)

func TestParse_AllSyntaxesAgree(t *testing.T) {
	fromDSL, err := woql.ParseDSL(`triple($S, name, $X)`)
	require.NoError(t, err)
	fromAlt, err := woql.ParseAlt(`WOQL.triple("v:S", "name", "v:X")`)
	require.NoError(t, err)

	doc, err := woql.Encode(fromDSL)
	require.NoError(t, err)
	fromJSON, err := woql.Decode(doc)
	require.NoError(t, err)

	built, err := woql.NewBuilder().Triple("v:S", "name", "v:X").Finalize()
	require.NoError(t, err)

	want, err := woql.QueryID(fromDSL)
	require.NoError(t, err)
	for _, q := range []woql.Query{fromAlt, fromJSON, built} {
		got, err := woql.QueryID(q)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "807a1e730b6ee00a77df68b986a3f81e9aee632385666de121a8289917b79873", want)
}

func TestParse_Detects(t *testing.T) {
	tests := []struct {
		text string
		want woql.Syntax
	}{
		{`not(true())`, woql.SyntaxDSL},
		{`WOQL.not(WOQL.true())`, woql.SyntaxAlt},
		{` {"@type":"Not","query":{"@type":"True"}} `, woql.SyntaxJSON},
	}
	var first woql.Query
	for _, tt := range tests {
		q, syn, err := woql.Parse(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, syn)
		if first == nil {
			first = q
		}
		assert.Equal(t, first, q)
	}
}

func TestParse_Errors(t *testing.T) {
	_, _, err := woql.Parse("triple(")
	var pe *woql.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 6, pe.Offset)

	_, err = woql.Decode([]byte(`{"@type":"Nope"}`))
	var de *woql.DecodeError
	assert.True(t, errors.As(err, &de))

	_, err = woql.NewBuilder().Select(42).Finalize()
	var be *woql.BuildError
	assert.True(t, errors.As(err, &be))
}

func TestFormat(t *testing.T) {
	q, err := woql.ParseDSL(`triple($S, name, $X)`)
	require.NoError(t, err)

	text, err := woql.FormatDSL(q)
	require.NoError(t, err)
	assert.Equal(t, `triple($S, "name", $X)`, text)

	text, err = woql.FormatAlt(q)
	require.NoError(t, err)
	assert.Equal(t, `WOQL.triple("v:S", "name", "v:X")`, text)
}

func TestValidateAndAnalyze(t *testing.T) {
	q, err := woql.ParseDSL(`add_triple($S, name, $X)`)
	require.NoError(t, err)
	doc, err := woql.Encode(q)
	require.NoError(t, err)

	assert.NoError(t, woql.Validate(doc))
	assert.True(t, woql.Analyze(q).HasMutation)

	err = woql.Validate([]byte(`{"@type":"True","extra":1}`))
	var ve *woql.ValidationError
	assert.True(t, errors.As(err, &ve))
}
