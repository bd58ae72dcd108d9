package altsyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/dsl"
	q "github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
	"github.com/roach88/woql/internal/testutil"
	"github.com/roach88/woql/internal/xsd"
)

const nestedExample = `
// people over 18
WOQL.select("v:Name", "v:Age", WOQL.and(
    WOQL.triple("v:Person", "rdf:type", "Person"),
    WOQL.triple("v:Person", "name", "v:Name"),
    WOQL.triple("v:Person", "age", "v:Age"),
    WOQL.greater("v:Age", 18),
));
`

func TestParse_MatchesDSL(t *testing.T) {
	got, err := Parse(nestedExample)
	require.NoError(t, err)

	want, err := dsl.Parse(`select($Name, $Age, and(
		triple($Person, rdf:type, "Person"),
		triple($Person, name, $Name),
		triple($Person, age, $Age),
		greater($Age, 18)))`)
	require.NoError(t, err)
	assert.True(t, q.Equal(want, got))
}

func TestParse_WithoutPrefix(t *testing.T) {
	got, err := Parse(`triple("v:S", "name", "v:X")`)
	require.NoError(t, err)
	assert.Equal(t, q.Triple{Subject: q.Var("S"), Predicate: q.Node("name"), Object: q.Var("X")}, got)
}

func TestParse_CamelCaseNames(t *testing.T) {
	got, err := Parse(`WOQL.addTriple("v:S", "age", 3)`)
	require.NoError(t, err)
	assert.Equal(t, q.AddTriple{Subject: q.Var("S"), Predicate: q.Node("age"), Object: q.Uint(3)}, got)
}

func TestParse_Objects(t *testing.T) {
	got, err := Parse(`WOQL.insert_document({'@type': "Person", name: "v:Name",}, "v:ID")`)
	require.NoError(t, err)

	ins, ok := got.(q.InsertDocument)
	require.True(t, ok)
	assert.Equal(t, q.Var("ID"), ins.Identifier)
	assert.NotNil(t, ins.Document)
}

func TestParse_Literals(t *testing.T) {
	got, err := Parse(`WOQL.equals("v:X", WOQL.literal("2024-01-02", "xsd:date"))`)
	require.NoError(t, err)

	eq, ok := got.(q.Equals)
	require.True(t, ok)
	assert.Equal(t, q.Lit(xsd.Date{Year: 2024, Month: 1, Day: 2}), eq.Right)

	got, err = Parse(`WOQL.equals("v:X", true)`)
	require.NoError(t, err)
	assert.Equal(t, q.Lit(xsd.Boolean(true)), got.(q.Equals).Right)
}

func TestParse_JSONDelegates(t *testing.T) {
	doc, err := codec.Encode(q.True{})
	require.NoError(t, err)

	got, err := Parse(string(doc))
	require.NoError(t, err)
	assert.Equal(t, q.True{}, got)

	_, err = Parse(`{"@type": "Nope"}`)
	require.Error(t, err)
	assert.True(t, codec.HasCode(err, codec.ErrCodeUnknownType))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   syntax.ErrorCode
		offset int
	}{
		{"bare identifier", `WOQL.not(foo)`, syntax.ErrCodeSyntax, 9},
		{"bad variable", `WOQL.not(WOQL.triple("v:1x", "p", "o"))`, syntax.ErrCodeInvalidVariable, 21},
		{"unclosed", `WOQL.and(WOQL.true()`, syntax.ErrCodeUnexpectedEOF, 8},
		{"stray closer", `WOQL.true())`, syntax.ErrCodeSyntax, 11},
		{"missing name", `WOQL.("x")`, syntax.ErrCodeSyntax, 5},
		{"unterminated comment", `WOQL.true() /* x`, syntax.ErrCodeUnexpectedEOF, 12},
		{"trailing input", `WOQL.true() WOQL.false()`, syntax.ErrCodeSyntax, 12},
		{"unknown function", `WOQL.frobnicate()`, syntax.ErrCodeInvalidFunction, 0},
		{"argument count", `WOQL.greater("v:X")`, syntax.ErrCodeInvalidArgumentCount, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var pe *syntax.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, tt.offset, pe.Offset)
		})
	}
}

func TestParse_Depth(t *testing.T) {
	_, err := ParseWithLimits(`WOQL.not(WOQL.not(WOQL.not(WOQL.true())))`, syntax.Limits{MaxDepth: 3})
	assert.True(t, syntax.IsTooDeep(err))

	_, err = ParseWithLimits(`WOQL.not(WOQL.not(WOQL.true()))`, syntax.Limits{MaxDepth: 3})
	assert.NoError(t, err)
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, s := range testutil.SampleQueries() {
		t.Run(s.Name, func(t *testing.T) {
			text, err := Format(s.Query)
			require.NoError(t, err)
			back, err := Parse(text)
			require.NoError(t, err, text)
			assert.True(t, q.Equal(s.Query, back), text)
		})
	}
}

func TestFormat_Text(t *testing.T) {
	text, err := Format(q.Greater{Left: q.Var("Age"), Right: q.Uint(18)})
	require.NoError(t, err)
	assert.Equal(t, `WOQL.greater("v:Age", 18)`, text)

	text, err = Format(q.AddTriple{Subject: q.Var("S"), Predicate: q.Node("p"), Object: q.Var("O")})
	require.NoError(t, err)
	assert.Equal(t, `WOQL.addTriple("v:S", "p", "v:O")`, text)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		input string
		want  Syntax
	}{
		{`{"@type": "True"}`, JSON},
		{`  {"@type": `, JSON},
		{`WOQL.true()`, Alt},
		{`triple("v:S", "p", "o")`, Alt},
		{`true() // comment`, Alt},
		{`triple($S, p, o)`, DSL},
		{`triple(S, "v", O)`, DSL},
		{`% comment
true()`, DSL},
		{`true()`, DSL},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.input))
		})
	}
}
