// Package testutil provides shared fixtures for tests across packages.
package testutil

import (
	"time"

	q "github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/xsd"
)

// Sample is a named query used by round-trip and printer tests.
type Sample struct {
	Name  string
	Query q.Query
}

// SampleQueries returns at least one query per operator, plus cases that
// exercise tricky encodings: nested lists, dictionaries, typed literals,
// absent optional fields and path patterns with no string form.
//
// A fresh slice is returned on every call so tests may not interfere.
func SampleQueries() []Sample {
	s, p := q.Var("S"), q.Var("P")
	x, y := q.Var("X"), q.Var("Y")

	return []Sample{
		{"and", q.And{And: []q.Query{
			q.Triple{Subject: s, Predicate: q.Node("rdf:type"), Object: q.Node("Person")},
			q.Triple{Subject: s, Predicate: q.Node("name"), Object: x},
		}}},
		{"empty and", q.And{}},
		{"single conjunct and", q.And{And: []q.Query{q.True{}}}},
		{"or", q.Or{Or: []q.Query{q.True{}, q.False{}}}},
		{"not", q.Not{Query: q.Triple{Subject: s, Predicate: p, Object: x}}},
		{"select", q.Select{Variables: []q.Variable{"X", "Y"}, Query: q.Triple{Subject: x, Predicate: p, Object: y}}},
		{"select nothing", q.Select{Query: q.True{}}},
		{"distinct", q.Distinct{Variables: []q.Variable{"X"}, Query: q.Triple{Subject: x, Predicate: p, Object: y}}},
		{"optional", q.Optional{Query: q.Triple{Subject: s, Predicate: q.Node("email"), Object: x}}},
		{"if", q.If{Test: q.True{}, Then: q.False{}, Else: q.True{}}},
		{"once", q.Once{Query: q.True{}}},
		{"immediately", q.Immediately{Query: q.AddTriple{Subject: s, Predicate: p, Object: x}}},
		{"limit", q.Limit{Limit: 10, Query: q.True{}}},
		{"start", q.Start{Start: 5, Query: q.Limit{Limit: 0, Query: q.True{}}}},
		{"using", q.Using{Collection: "admin/people", Query: q.True{}}},
		{"from", q.From{Graph: "instance/main", Query: q.True{}}},
		{"into", q.Into{Graph: "schema/main", Query: q.True{}}},
		{"order by", q.OrderBy{
			Ordering: []q.OrderTemplate{{Variable: "X", Order: q.Asc}, {Variable: "Y", Order: q.Desc}},
			Query:    q.Triple{Subject: x, Predicate: p, Object: y},
		}},
		{"group by", q.GroupBy{
			GroupBy:  []q.Variable{"X"},
			Template: q.Values(y),
			Grouped:  q.Var("Grouped"),
			Query:    q.Triple{Subject: x, Predicate: p, Object: y},
		}},
		{"count", q.Count{Query: q.Triple{Subject: s, Predicate: p, Object: x}, Count: q.Var("N")}},
		{"true", q.True{}},
		{"false", q.False{}},

		{"triple with graph", q.Triple{Subject: s, Predicate: p, Object: x, Graph: q.GraphSchema}},
		{"triple string object", q.Triple{Subject: s, Predicate: q.Node("name"), Object: q.Str("Alice")}},
		{"triple list object", q.Triple{Subject: s, Predicate: p, Object: q.Values(q.Node("a"), q.Str("b"), q.Uint(3))}},
		{"add triple", q.AddTriple{Subject: q.Node("Person/alice"), Predicate: q.Node("age"), Object: q.Uint(30), Graph: q.GraphInstance}},
		{"added triple", q.AddedTriple{Subject: s, Predicate: p, Object: x}},
		{"delete triple", q.DeleteTriple{Subject: s, Predicate: p, Object: x}},
		{"deleted triple", q.DeletedTriple{Subject: s, Predicate: p, Object: x}},
		{"data", q.Data{Subject: s, Predicate: q.Node("label"), Object: q.Str("x")}},
		{"add data", q.AddData{Subject: s, Predicate: p, Object: q.Lit(xsd.MustDecimal("3.25"))}},
		{"added data", q.AddedData{Subject: s, Predicate: p, Object: x}},
		{"delete data", q.DeleteData{Subject: s, Predicate: p, Object: x, Graph: q.GraphInstance}},
		{"deleted data", q.DeletedData{Subject: s, Predicate: p, Object: x}},
		{"link", q.Link{Subject: s, Predicate: q.Node("friend"), Object: q.Node("Person/bob")}},
		{"add link", q.AddLink{Subject: s, Predicate: p, Object: x}},
		{"added link", q.AddedLink{Subject: s, Predicate: p, Object: x}},
		{"delete link", q.DeleteLink{Subject: s, Predicate: p, Object: x}},
		{"deleted link", q.DeletedLink{Subject: s, Predicate: p, Object: x, Graph: q.GraphSchema}},

		{"read document", q.ReadDocument{Identifier: q.Node("Person/alice"), Document: q.Var("Doc")}},
		{"insert document", q.InsertDocument{
			Document: q.Dict(
				q.Pair("@type", q.Str("Person")),
				q.Pair("name", q.Str("Alice")),
				q.Pair("age", q.Uint(30)),
				q.Pair("friend", q.Node("Person/bob")),
				q.Pair("tags", q.Values(q.Str("a"), q.Str("b"))),
			),
			Identifier: q.Var("ID"),
		}},
		{"insert document without id", q.InsertDocument{Document: q.Var("Doc")}},
		{"update document", q.UpdateDocument{Document: q.Var("Doc")}},
		{"delete document", q.DeleteDocument{Identifier: q.Var("ID")}},

		{"equals", q.Equals{Left: x, Right: q.Str("a")}},
		{"greater", q.Greater{Left: q.Var("Age"), Right: q.Uint(18)}},
		{"less", q.Less{Left: x, Right: q.Lit(xsd.MustDecimal("-1.5"))}},
		{"eval", q.Eval{
			Expression: q.Plus{
				Left: q.Times{Left: q.ArithmeticValue{Value: x}, Right: q.ArithmeticValue{Value: q.Uint(2)}},
				Right: q.Floor{Argument: q.Divide{
					Left:  q.ArithmeticValue{Value: y},
					Right: q.ArithmeticValue{Value: q.Lit(xsd.Float(2.5))},
				}},
			},
			Result: q.Var("R"),
		}},
		{"eval every operator", q.Eval{
			Expression: q.Minus{
				Left:  q.Div{Left: q.ArithmeticValue{Value: x}, Right: q.ArithmeticValue{Value: q.Uint(3)}},
				Right: q.Exp{Left: q.ArithmeticValue{Value: y}, Right: q.ArithmeticValue{Value: q.Uint(2)}},
			},
			Result: q.Var("R"),
		}},

		{"sum", q.Sum{List: q.DataValues(q.Uint(1), q.Uint(2), x), Result: q.Var("Total")}},
		{"length", q.Length{List: q.Var("L"), Length: q.Var("N")}},
		{"member", q.Member{Member: x, List: q.DataValues(q.Str("a"), q.Str("b"))}},
		{"dot", q.Dot{Document: q.Var("Doc"), Field: q.Str("name"), Value: x}},

		{"concatenate", q.Concatenate{List: q.DataValues(q.Str("AwsDBPublication/"), q.Var("PubId")), ResultString: q.Var("URI")}},
		{"join", q.Join{List: q.Var("Parts"), Separator: q.Str(", "), ResultString: q.Var("Out")}},
		{"split", q.Split{String: q.Str("a,b"), Pattern: q.Str(","), List: q.Var("Parts")}},
		{"trim", q.Trim{Untrimmed: q.Str("  x "), Trimmed: x}},
		{"upper", q.Upper{Mixed: q.Str("aBc"), Upper: x}},
		{"lower", q.Lower{Mixed: q.Str("aBc"), Lower: x}},
		{"pad", q.Pad{String: q.Str("7"), Char: q.Str("0"), Times: q.Uint(3), ResultString: x}},
		{"like", q.Like{Left: q.Str("hello"), Right: x, Similarity: q.Var("Sim")}},
		{"regexp", q.Regexp{Pattern: q.Str("^(\\d+)-(\\d+)$"), String: x, Result: q.DataValues(q.Var("All"), q.Var("A"), q.Var("B"))}},
		{"regexp without result", q.Regexp{Pattern: q.Str("^a"), String: x}},
		{"substring", q.Substring{String: q.Str("hello"), Before: q.Uint(1), Length: q.Uint(3), After: q.Var("After"), Substring: q.Var("Sub")}},

		{"path string", q.Path{Subject: s, Pattern: q.PathPlus{Pattern: q.PathPredicate{Predicate: "knows"}}, Object: x}},
		{"path with edges", q.Path{
			Subject: s,
			Pattern: q.PathSequence{q.InversePathPredicate{Predicate: "parent"}, q.PathTimes{Pattern: q.PathPredicate{}, From: 1, To: 3}},
			Object:  x,
			Path:    q.Var("Edges"),
		}},
		{"path without string form", q.Path{
			Subject: s,
			Pattern: q.PathSequence{q.PathPredicate{Predicate: "a"}},
			Object:  x,
		}},
		{"path odd predicate", q.Path{
			Subject: s,
			Pattern: q.PathOr{q.PathPredicate{Predicate: "has,comma"}, q.PathStar{Pattern: q.PathPredicate{Predicate: "b"}}},
			Object:  x,
		}},

		{"isa", q.IsA{Element: x, Type: q.Node("Person")}},
		{"type of", q.TypeOf{Value: x, Type: q.Var("T")}},
		{"typecast", q.TypeCast{Value: q.Str("42"), Type: q.Node("xsd:integer"), Result: x}},
		{"subsumption", q.Subsumption{Parent: q.Node("Animal"), Child: q.Var("Sub")}},
		{"random key", q.RandomKey{Base: q.Str("Person/"), URI: x}},
		{"lexical key", q.LexicalKey{Base: q.Str("Person/"), KeyList: q.DataValues(q.Var("First"), q.Var("Last")), URI: x}},
		{"hash key", q.HashKey{Base: q.Str("Event/"), KeyList: q.DataValues(q.Var("When")), URI: x}},
		{"triple count", q.TripleCount{Resource: "admin/people", Count: q.Var("N")}},
		{"size", q.Size{Resource: "admin/people", Size: q.Var("Bytes")}},

		{"named query", q.NamedParametricQuery{
			Name:       "adults",
			Parameters: []string{"Person", "Age"},
			Query: q.And{And: []q.Query{
				q.Triple{Subject: q.Var("Person"), Predicate: q.Node("age"), Object: q.Var("Age")},
				q.Greater{Left: q.Var("Age"), Right: q.Uint(17)},
			}},
		}},
		{"call", q.Call{Name: "adults", Arguments: []q.Value{q.Var("P"), q.Uint(18)}}},
		{"call with one list", q.Call{Name: "f", Arguments: []q.Value{q.Values(q.Node("a"), q.Node("b"))}}},
		{"call without arguments", q.Call{Name: "f"}},

		{"typed literals", q.And{And: []q.Query{
			q.Equals{Left: x, Right: q.Lit(xsd.Date{Year: 2024, Month: time.February, Day: 29})},
			q.Equals{Left: x, Right: q.Lit(xsd.NewDateTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))},
			q.Equals{Left: x, Right: q.Lit(xsd.Time{Hour: 12, Minute: 30})},
			q.Equals{Left: x, Right: q.Lit(xsd.HexBinary("\x01\xab"))},
			q.Equals{Left: x, Right: q.Lit(xsd.URI("http://example.com/a b"))},
			q.Equals{Left: x, Right: q.Lit(xsd.MustDecimal("18"))},
			q.Equals{Left: x, Right: q.Lit(xsd.MustDecimal("1E+3"))},
			q.Equals{Left: x, Right: q.Lit(xsd.Float(1e21))},
			q.Equals{Left: x, Right: q.Bool(false)},
			q.Equals{Left: x, Right: q.Str("quote \" backslash \\ tab \t unicode é")},
		}}},
		{"nested lists", q.Member{Member: x, List: q.DataValues(q.DataValues(q.Uint(1), q.Uint(2)), q.DataValues())}},
		{"nested example", q.Select{
			Variables: []q.Variable{"Name", "Age"},
			Query: q.And{And: []q.Query{
				q.Triple{Subject: q.Var("Person"), Predicate: q.Node("rdf:type"), Object: q.Node("Person")},
				q.Triple{Subject: q.Var("Person"), Predicate: q.Node("name"), Object: q.Var("Name")},
				q.Triple{Subject: q.Var("Person"), Predicate: q.Node("age"), Object: q.Var("Age")},
				q.Greater{Left: q.Var("Age"), Right: q.Uint(18)},
			}},
		}},
	}
}
