package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/testutil"
	"github.com/roach88/woql/internal/xsd"
)

func call(name string, args ...Node) *Call { return &Call{Name: name, Args: args} }
func v(name string) *Var { return &Var{Name: name} }
func str(s string) *String { return &String{Value: s} }
func num(text string) *Number { return &Number{Text: text} }
func list(elems ...Node) *List { return &List{Elems: elems} }

func TestLower_PositionDirectedStrings(t *testing.T) {
	got, err := Lower(call("triple", v("P"), str("name"), str("Alice")))
	require.NoError(t, err)
	assert.Equal(t, q.Triple{Subject: q.Var("P"), Predicate: q.Node("name"), Object: q.Node("Alice")}, got)

	got, err = Lower(call("concatenate", list(str("name"), v("X")), v("R")))
	require.NoError(t, err)
	assert.Equal(t, q.Concatenate{List: q.DataValues(q.Str("name"), q.Var("X")), ResultString: q.Var("R")}, got)

	got, err = Lower(call("triple", v("P"), str("name"), call("string", str("Alice"))))
	require.NoError(t, err)
	assert.Equal(t, q.Str("Alice"), got.(q.Triple).Object)
}

func TestLower_Numbers(t *testing.T) {
	tests := []struct {
		text string
		want xsd.Literal
	}{
		{"18", xsd.UnsignedInt(18)},
		{"-3", xsd.MustDecimal("-3")},
		{"1.50", xsd.MustDecimal("1.50")},
		{"2e3", xsd.Float(2000)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Lower(call("greater", v("X"), num(tt.text)))
			require.NoError(t, err)
			assert.Equal(t, q.Lit(tt.want), got.(q.Greater).Right)
		})
	}
}

func TestLower_Variadic(t *testing.T) {
	spread, err := Lower(call("select", v("A"), v("B"), call("true")))
	require.NoError(t, err)
	framed, err := Lower(call("select", list(v("A"), v("B")), call("true")))
	require.NoError(t, err)

	want := q.Select{Variables: []q.Variable{"A", "B"}, Query: q.True{}}
	assert.True(t, q.Equal(want, spread))
	assert.True(t, q.Equal(want, framed))

	and, err := Lower(call("and", call("true"), &Bool{Value: false}))
	require.NoError(t, err)
	assert.Equal(t, q.And{And: []q.Query{q.True{}, q.False{}}}, and)
}

func TestLower_OptionalFields(t *testing.T) {
	got, err := Lower(call("triple", v("S"), v("P"), v("O")))
	require.NoError(t, err)
	assert.Equal(t, q.GraphType(""), got.(q.Triple).Graph)

	got, err = Lower(call("triple", v("S"), v("P"), v("O"), str("schema")))
	require.NoError(t, err)
	assert.Equal(t, q.GraphSchema, got.(q.Triple).Graph)

	_, err = Lower(call("triple", v("S"), v("P"), v("O"), str("other")))
	assert.True(t, HasCode(err, ErrCodeInvalidArgument))
}

func TestLower_Errors(t *testing.T) {
	tests := []struct {
		name string
		tree Node
		code ErrorCode
		msg  string
	}{
		{"unknown function", call("frobnicate"), ErrCodeInvalidFunction, `unknown function "frobnicate"`},
		{"arity", call("greater", v("X")), ErrCodeInvalidArgumentCount, "greater expects 2 arguments, got 1"},
		{"non-variable select", call("select", str("Name"), call("true")), ErrCodeInvalidArgument, "non-variable select argument: string"},
		{"not a query", call("not", v("X")), ErrCodeInvalidArgument, "expected a query, got variable X"},
		{"bad literal", call("equals", v("X"), &Typed{Text: "soon", Type: "xsd:date"}), ErrCodeInvalidLiteral, ""},
		{"unknown literal type", call("equals", v("X"), &Typed{Text: "1", Type: "xsd:nope"}), ErrCodeInvalidLiteral, ""},
		{"negative limit", call("limit", num("-1"), call("true")), ErrCodeInvalidArgument, ""},
		{"duplicate key", call("insert_document", &Dict{Entries: []DictEntry{{"a", num("1")}, {"a", num("2")}}}), ErrCodeInvalidArgument, `duplicate dictionary key "a"`},
		{"dictionary as data", call("equals", v("X"), &Dict{}), ErrCodeInvalidArgument, "expected data, got dictionary"},
		{"bad path", call("path", v("S"), str("(a"), v("O")), ErrCodeInvalidArgument, ""},
		{"empty inverse predicate", call("path", v("S"), call("inv", str("")), v("O")), ErrCodeInvalidArgument, "inv expects a non-empty predicate"},
		{"bad order", call("order_by", str("x"), call("true")), ErrCodeInvalidArgument, ""},
		{"list in arithmetic", call("eval", call("plus", list(), num("1")), v("R")), ErrCodeInvalidArgument, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lower(tt.tree)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, pe.Message)
			}
		})
	}
}

func TestLower_ArgumentCountFields(t *testing.T) {
	_, err := Lower(&Call{Offset: 7, Name: "greater", Args: []Node{v("X")}})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "greater", pe.Function)
	assert.Equal(t, "2", pe.Expected)
	assert.Equal(t, 1, pe.Got)
	assert.Equal(t, 7, pe.Offset)
	assert.True(t, IsArgumentCountError(err))
}

func TestLower_Paths(t *testing.T) {
	got, err := Lower(call("path", v("S"), call("seq", call("pred", str("a")), call("times", call("pred"), num("1"), num("2"))), v("O")))
	require.NoError(t, err)
	assert.Equal(t, q.PathSequence{
		q.PathPredicate{Predicate: "a"},
		q.PathTimes{Pattern: q.PathPredicate{}, From: 1, To: 2},
	}, got.(q.Path).Pattern)
}

func TestLower_Ordering(t *testing.T) {
	got, err := Lower(call("order_by", call("desc", v("A")), v("B"), list(v("C"), str("desc")), call("true")))
	require.NoError(t, err)
	assert.Equal(t, []q.OrderTemplate{
		{Variable: "A", Order: q.Desc},
		{Variable: "B", Order: q.Asc},
		{Variable: "C", Order: q.Desc},
	}, got.(q.OrderBy).Ordering)
}

func TestBindArgs(t *testing.T) {
	op, ok := q.LookupName("select")
	require.True(t, ok)
	args := []Node{v("A"), v("B"), call("true")}
	groups := bindArgs(op, args)
	assert.Equal(t, [][]Node{{v("A"), v("B")}, {call("true")}}, groups)

	op, _ = q.LookupName("triple")
	groups = bindArgs(op, []Node{v("S"), v("P"), v("O")})
	assert.Len(t, groups, 4)
	assert.Empty(t, groups[3])
}

func TestRaiseLower_RoundTrip(t *testing.T) {
	for _, s := range testutil.SampleQueries() {
		t.Run(s.Name, func(t *testing.T) {
			tree, err := Raise(s.Query)
			require.NoError(t, err)
			back, err := Lower(tree)
			require.NoError(t, err)
			assert.True(t, q.Equal(s.Query, back), "got %#v", back)
		})
	}
}

func TestRaise_Shapes(t *testing.T) {
	tree, err := Raise(q.Call{Name: "f", Arguments: []q.Value{q.Values(q.Node("a"))}})
	require.NoError(t, err)
	assert.Equal(t, call("call", str("f"), list(list(str("a")))), tree)

	tree, err = Raise(q.Triple{Subject: q.Var("S"), Predicate: q.Node("p"), Object: q.Str("x")})
	require.NoError(t, err)
	assert.Equal(t, &Typed{Text: "x", Type: xsd.TypeString}, tree.(*Call).Args[2])

	tree, err = Raise(q.Equals{Left: q.Var("X"), Right: q.Lit(xsd.MustDecimal("18"))})
	require.NoError(t, err)
	assert.Equal(t, &Typed{Text: "18", Type: xsd.TypeDecimal}, tree.(*Call).Args[1])

	tree, err = Raise(q.Equals{Left: q.Var("X"), Right: q.Uint(18)})
	require.NoError(t, err)
	assert.Equal(t, num("18"), tree.(*Call).Args[1])
}

func TestRaise_RejectsInvalid(t *testing.T) {
	_, err := Raise(q.Not{})
	var ve *q.ValidationError
	assert.ErrorAs(t, err, &ve)
}
