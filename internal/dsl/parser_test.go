package dsl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
	"github.com/roach88/woql/internal/testutil"
	"github.com/roach88/woql/internal/xsd"
)

const nestedExample = `
select($Name, $Age, and(
    triple($Person, rdf:type, "Person"),
    triple($Person, name, $Name),
    triple($Person, age, $Age),
    greater($Age, 18)))
`

func TestParse_NestedExample(t *testing.T) {
	got, err := Parse(nestedExample)
	require.NoError(t, err)

	sel, ok := got.(q.Select)
	require.True(t, ok)
	assert.Equal(t, []q.Variable{"Name", "Age"}, sel.Variables)

	and, ok := sel.Query.(q.And)
	require.True(t, ok)
	require.Len(t, and.And, 4)
	assert.Equal(t, q.Triple{Subject: q.Var("Person"), Predicate: q.Node("rdf:type"), Object: q.Node("Person")}, and.And[0])
	assert.Equal(t, q.Greater{Left: q.Var("Age"), Right: q.Lit(xsd.UnsignedInt(18))}, and.And[3])
}

func TestParse_ArgumentCount(t *testing.T) {
	_, err := Parse("greater(X)")
	require.Error(t, err)

	var pe *syntax.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, syntax.ErrCodeInvalidArgumentCount, pe.Code)
	assert.Equal(t, "greater", pe.Function)
	assert.Equal(t, "2", pe.Expected)
	assert.Equal(t, 1, pe.Got)
	assert.Equal(t, 0, pe.Offset)
}

func TestParse_Unbalanced(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   syntax.ErrorCode
		offset int
	}{
		{"unclosed call", "and(triple(A, b, C)", syntax.ErrCodeUnexpectedEOF, 3},
		{"unclosed list", "select([A, B, true())", syntax.ErrCodeSyntax, 7},
		{"stray closer", "true())", syntax.ErrCodeSyntax, 6},
		{"wrong closer", "and(true(]", syntax.ErrCodeSyntax, 3},
		{"mismatched closer", "and(]", syntax.ErrCodeSyntax, 3},
		{"stray before unclosed", "] and(", syntax.ErrCodeSyntax, 0},
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

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   syntax.ErrorCode
		offset int
	}{
		{"empty", "", syntax.ErrCodeUnexpectedEOF, 0},
		{"unknown function", "frob($X)", syntax.ErrCodeInvalidFunction, 0},
		{"bad sigil", "not($1)", syntax.ErrCodeInvalidVariable, 4},
		{"bad bare variable", "not(X:y)", syntax.ErrCodeInvalidVariable, 4},
		{"unterminated string", `equals($X, "abc)`, syntax.ErrCodeUnexpectedEOF, 11},
		{"unterminated comment", "true() /* x", syntax.ErrCodeUnexpectedEOF, 7},
		{"missing comma", "equals($X $Y)", syntax.ErrCodeSyntax, 10},
		{"trailing garbage", "true() true()", syntax.ErrCodeSyntax, 7},
		{"bad character", "equals($X, #)", syntax.ErrCodeSyntax, 11},
		{"bad literal", `equals($X, "x"^^xsd:date)`, syntax.ErrCodeInvalidLiteral, 11},
		{"non-variable select", `select("Name", true())`, syntax.ErrCodeInvalidArgument, 7},
		{"dict key", `insert_document({name: "x"})`, syntax.ErrCodeSyntax, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var pe *syntax.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code, pe.Error())
			assert.Equal(t, tt.offset, pe.Offset, pe.Error())
		})
	}
}

func TestParse_Depth(t *testing.T) {
	deep := strings.Repeat("not(", 20) + "true()" + strings.Repeat(")", 20)

	_, err := ParseWithLimits(deep, syntax.Limits{MaxDepth: 10})
	assert.True(t, syntax.IsTooDeep(err))

	got, err := ParseWithLimits(deep, syntax.Limits{MaxDepth: 21})
	require.NoError(t, err)
	assert.Equal(t, 21, q.Depth(got))

	huge := strings.Repeat("[", 100000) + strings.Repeat("]", 100000)
	_, err = Parse("member($X, " + huge + ")")
	assert.True(t, syntax.IsTooDeep(err))
}

func TestParse_Lexical(t *testing.T) {
	got, err := Parse(`
		% people named in either quote style
		and(
			triple(Person, name, 'Al\'s'), /* atom object */
			equals(_x, "tab\there é"),
			equals($Y, "2024-02-29"^^xsd:date),
			equals($Z, -1.50),
			equals($W, 2.5e3),
			equals($B, false)
		)`)
	require.NoError(t, err)

	and := got.(q.And)
	require.Len(t, and.And, 6)
	assert.Equal(t, q.Node("Al's"), and.And[0].(q.Triple).Object)
	assert.Equal(t, q.Str("tab\there é"), and.And[1].(q.Equals).Right)
	assert.Equal(t, q.Var("_x"), and.And[1].(q.Equals).Left)
	assert.Equal(t, q.Lit(xsd.Date{Year: 2024, Month: 2, Day: 29}), and.And[2].(q.Equals).Right)
	assert.Equal(t, q.Lit(xsd.MustDecimal("-1.50")), and.And[3].(q.Equals).Right)
	assert.Equal(t, q.Lit(xsd.Float(2500)), and.And[4].(q.Equals).Right)
	assert.Equal(t, q.Bool(false), and.And[5].(q.Equals).Right)
}

func TestParse_TrueFalse(t *testing.T) {
	got, err := Parse("or(true, false(), true())")
	require.NoError(t, err)
	assert.Equal(t, q.Or{Or: []q.Query{q.True{}, q.False{}, q.True{}}}, got)
}

func TestParse_Aliases(t *testing.T) {
	long, err := Parse("add_triple($S, $P, $O)")
	require.NoError(t, err)
	short, err := Parse("addTriple($S, $P, $O)")
	require.NoError(t, err)
	assert.Equal(t, long, short)
}

func TestParse_Dictionary(t *testing.T) {
	got, err := Parse(`insert_document({"@type": "Person", "friend": node("Person/bob"), "age": 30}, $ID)`)
	require.NoError(t, err)
	assert.Equal(t, q.InsertDocument{
		Document: q.Dict(
			q.Pair("@type", q.Str("Person")),
			q.Pair("friend", q.Node("Person/bob")),
			q.Pair("age", q.Uint(30)),
		),
		Identifier: q.Var("ID"),
	}, got)
}

func TestParse_PathString(t *testing.T) {
	got, err := Parse(`path($S, "knows+", $O)`)
	require.NoError(t, err)
	assert.Equal(t, q.PathPlus{Pattern: q.PathPredicate{Predicate: "knows"}}, got.(q.Path).Pattern)
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, s := range testutil.SampleQueries() {
		t.Run(s.Name, func(t *testing.T) {
			text, err := Format(s.Query)
			require.NoError(t, err)
			back, err := Parse(text)
			require.NoError(t, err, text)
			assert.True(t, q.Equal(s.Query, back), text)

			compact, err := FormatCompact(s.Query)
			require.NoError(t, err)
			assert.NotContains(t, compact, "\n")
			back, err = Parse(compact)
			require.NoError(t, err, compact)
			assert.True(t, q.Equal(s.Query, back), compact)
		})
	}
}

func TestFormat_Text(t *testing.T) {
	got, err := FormatCompact(q.Select{
		Variables: []q.Variable{"X"},
		Query:     q.Triple{Subject: q.Var("X"), Predicate: q.Node("name"), Object: q.Str("Al")},
	})
	require.NoError(t, err)
	assert.Equal(t, `select($X, triple($X, "name", "Al"^^xsd:string))`, got)

	long, err := Format(testutil.SampleQueries()[len(testutil.SampleQueries())-1].Query)
	require.NoError(t, err)
	assert.Equal(t, `select(
  $Name,
  $Age,
  and(
    triple($Person, "rdf:type", "Person"),
    triple($Person, "name", $Name),
    triple($Person, "age", $Age),
    greater($Age, 18)
  )
)`, long)
}

func TestFormat_RejectsInvalid(t *testing.T) {
	_, err := Format(q.Select{Variables: []q.Variable{"1x"}, Query: q.True{}})
	assert.Error(t, err)
}
