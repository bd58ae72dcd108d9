package queryir

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/xsd"
)

func TestValidate_WellFormedQuery(t *testing.T) {
	q := Select{
		Variables: []Variable{"Name"},
		Query: And{And: []Query{
			Triple{Subject: Var("P"), Predicate: Node("rdf:type"), Object: Node("Person"), Graph: GraphInstance},
			Triple{Subject: Var("P"), Predicate: Node("name"), Object: Var("Name")},
			Path{Subject: Var("P"), Pattern: PathPlus{PathPredicate{"knows"}}, Object: Var("Q")},
			Eval{Expression: Floor{ArithmeticValue{Var("X")}}, Result: Var("Y")},
			OrderBy{Ordering: []OrderTemplate{{Variable: "Name", Order: Asc}}, Query: True{}},
		}},
	}

	assert.NoError(t, Validate(q))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		path    string
		message string
	}{
		{
			name:    "nil root",
			query:   nil,
			message: "missing query",
		},
		{
			name:    "missing sub-query",
			query:   Not{},
			path:    "Not.query",
			message: "missing required field",
		},
		{
			name:    "nil conjunct",
			query:   And{And: []Query{True{}, nil}},
			path:    "And.and[1]",
			message: "missing query",
		},
		{
			name:    "invalid select variable",
			query:   Select{Variables: []Variable{"1bad"}, Query: True{}},
			path:    "Select.variables[0]",
			message: `invalid variable name "1bad"`,
		},
		{
			name:    "missing subject",
			query:   Triple{Predicate: Node("p"), Object: Node("o")},
			path:    "Triple.subject",
			message: "missing required field",
		},
		{
			name:    "bad graph",
			query:   Triple{Subject: Node("s"), Predicate: Node("p"), Object: Node("o"), Graph: "inference"},
			path:    "Triple.graph",
			message: `invalid graph "inference"`,
		},
		{
			name:    "non-finite literal",
			query:   Equals{Left: Var("X"), Right: Lit(xsd.Float(math.Inf(1)))},
			path:    "Equals.right",
			message: "non-finite number",
		},
		{
			name:    "date out of range",
			query:   Equals{Left: Var("X"), Right: Lit(xsd.Date{Year: 10000, Month: time.January, Day: 1})},
			path:    "Equals.right",
			message: "year 10000 out of range",
		},
		{
			name:    "nonexistent date",
			query:   Equals{Left: Var("X"), Right: Lit(xsd.Date{Year: 2023, Month: time.February, Day: 29})},
			path:    "Equals.right",
			message: "does not exist",
		},
		{
			name:    "time out of range",
			query:   Equals{Left: Var("X"), Right: Lit(xsd.Time{Hour: 25})},
			path:    "Equals.right",
			message: "out of range",
		},
		{
			name:    "invalid utf-8 string literal",
			query:   Equals{Left: Var("X"), Right: Str("a\xff")},
			path:    "Equals.right",
			message: "not valid UTF-8",
		},
		{
			name:    "invalid utf-8 node",
			query:   Triple{Subject: Node("a\xff"), Predicate: Node("p"), Object: Node("o")},
			path:    "Triple.subject",
			message: "node is not valid UTF-8",
		},
		{
			name:    "invalid utf-8 collection",
			query:   Using{Collection: "db\xff", Query: True{}},
			path:    "Using.collection",
			message: "not valid UTF-8",
		},
		{
			name:    "duplicate dictionary field",
			query:   ReadDocument{Identifier: Var("ID"), Document: Dict(FieldValuePair{"a", Str("x")}, FieldValuePair{"a", Str("y")})},
			path:    "ReadDocument.document.a",
			message: `duplicate field "a"`,
		},
		{
			name:    "inverse path without predicate",
			query:   Path{Subject: Var("A"), Pattern: InversePathPredicate{}, Object: Var("B")},
			path:    "Path.pattern",
			message: "inverse path requires a predicate",
		},
		{
			name:    "nil literal data",
			query:   Equals{Left: Var("X"), Right: Literal{}},
			path:    "Equals.right",
			message: "literal without data",
		},
		{
			name:    "nested list element",
			query:   Member{Member: Var("X"), List: DataValues(Str("a"), Variable("bad name"))},
			path:    "Member.list[1]",
			message: "invalid variable name",
		},
		{
			name:    "bad order",
			query:   OrderBy{Ordering: []OrderTemplate{{Variable: "X", Order: "up"}}, Query: True{}},
			path:    "OrderBy.ordering[0]",
			message: `invalid order "up"`,
		},
		{
			name:    "repetition bounds",
			query:   Path{Subject: Var("A"), Pattern: PathTimes{PathPredicate{"p"}, 3, 1}, Object: Var("B")},
			path:    "Path.pattern",
			message: "lower bound 3 exceeds upper bound 1",
		},
		{
			name:    "list arithmetic operand",
			query:   Eval{Expression: ArithmeticValue{DataValues(Uint(1))}, Result: Var("X")},
			path:    "Eval.expression",
			message: "cannot be a list",
		},
		{
			name:    "deep error path",
			query:   Select{Variables: []Variable{"X"}, Query: And{And: []Query{True{}, Not{}}}},
			path:    "Select.query.And.and[1].Not.query",
			message: "missing required field",
		},
		{
			name:    "pointer operator",
			query:   &True{},
			message: "unknown query type *queryir.True",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.path, verr.Path)
			assert.Contains(t, verr.Message, tt.message)
		})
	}
}

func TestValidate_OptionalFieldsMayBeAbsent(t *testing.T) {
	assert.NoError(t, Validate(InsertDocument{Document: Var("Doc")}))
	assert.NoError(t, Validate(Regexp{Pattern: Str("a.*"), String: Var("S")}))
	assert.NoError(t, Validate(Path{Subject: Var("A"), Pattern: PathPredicate{}, Object: Var("B")}))
	assert.NoError(t, Validate(Select{Query: True{}}))
}

func TestAnalyze_ReadOnlyQuery(t *testing.T) {
	q := Select{
		Variables: []Variable{"Name"},
		Query:     Triple{Subject: Var("P"), Predicate: Node("name"), Object: Var("Name")},
	}

	result := Analyze(q)

	assert.False(t, result.HasMutation)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []Variable{"Name", "P"}, result.Variables)
	assert.Equal(t, map[string]int{"Select": 1, "Triple": 1}, result.Operators)
}

func TestAnalyze_Mutation(t *testing.T) {
	q := And{And: []Query{
		Triple{Subject: Var("P"), Predicate: Node("name"), Object: Var("Name")},
		AddTriple{Subject: Var("P"), Predicate: Node("seen"), Object: Bool(true)},
	}}

	result := Analyze(q)

	assert.True(t, result.HasMutation)
	assert.Empty(t, result.Warnings)
}

func TestAnalyze_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		warning string
	}{
		{
			name:    "unused projection",
			query:   Select{Variables: []Variable{"X", "Y"}, Query: Triple{Subject: Var("X"), Predicate: Node("p"), Object: Node("o")}},
			warning: "Select projects variables not used by its query: $Y",
		},
		{
			name:    "limit zero",
			query:   Limit{Limit: 0, Query: True{}},
			warning: "Limit 0 never yields a solution",
		},
		{
			name:    "negated mutation",
			query:   Not{Query: DeleteDocument{Identifier: Var("D")}},
			warning: "DeleteDocument under Not has no effect",
		},
		{
			name:    "single conjunct",
			query:   And{And: []Query{True{}}},
			warning: "And with a single conjunct",
		},
		{
			name:    "empty or",
			query:   Or{},
			warning: "empty Or never succeeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.query)
			require.Len(t, result.Warnings, 1)
			assert.Equal(t, tt.warning, result.Warnings[0])
		})
	}
}
