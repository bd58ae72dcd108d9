package codec

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/testutil"
	"github.com/roach88/woql/internal/xsd"
)

func sample(t *testing.T, name string) q.Query {
	t.Helper()
	for _, s := range testutil.SampleQueries() {
		if s.Name == name {
			return s.Query
		}
	}
	t.Fatalf("no sample query %q", name)
	return nil
}

func TestRoundTrip_AllSamples(t *testing.T) {
	for _, s := range testutil.SampleQueries() {
		t.Run(s.Name, func(t *testing.T) {
			data, err := Encode(s.Query)
			require.NoError(t, err)
			assert.True(t, json.Valid(data))
			assert.NotContains(t, string(data), "null")

			back, err := Decode(data)
			require.NoError(t, err, string(data))
			assert.True(t, q.Equal(s.Query, back), string(data))

			indented, err := EncodeIndent(s.Query, "  ")
			require.NoError(t, err)
			back, err = Decode(indented)
			require.NoError(t, err)
			assert.True(t, q.Equal(s.Query, back))
		})
	}
}

func TestRoundTrip_EveryOperator(t *testing.T) {
	covered := map[string]bool{}
	for _, s := range testutil.SampleQueries() {
		q.Walk(s.Query, func(n q.Query) bool {
			covered[q.OperatorFor(n).Type] = true
			return true
		})
	}
	for _, op := range q.Operators() {
		assert.True(t, covered[op.Type], "no sample covers %s", op.Type)
	}
}

func TestEncode_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, name := range []string{"concatenate", "insert document", "path with edges"} {
		data, err := Encode(sample(t, name))
		require.NoError(t, err)
		g.Assert(t, strings.ReplaceAll(name, " ", "_"), data)
	}

	data, err := EncodeIndent(sample(t, "nested example"), "  ")
	require.NoError(t, err)
	g.Assert(t, "nested_example", data)
}

func TestEncode_ListFraming(t *testing.T) {
	data, err := Encode(q.Concatenate{
		List:         q.DataValues(q.Str("AwsDBPublication/"), q.Var("PubId")),
		ResultString: q.Var("URI"),
	})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	list, ok := doc["list"].([]any)
	require.True(t, ok, "list must be a bare array")
	require.Len(t, list, 2)
	assert.Equal(t, "Data", list[0].(map[string]any)["@type"])
	assert.Equal(t, "Variable", list[1].(map[string]any)["@type"])
	assert.Equal(t, "PubId", list[1].(map[string]any)["variable"])

	data, err = Encode(q.Concatenate{List: q.Var("Parts"), ResultString: q.Var("URI")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"list":{"@type":"DataValue","variable":"Parts"}`)
}

func TestEncode_Literals(t *testing.T) {
	tests := []struct {
		lit  xsd.Literal
		want string
	}{
		{xsd.UnsignedInt(18), `{"@type":"xsd:unsignedInt","@value":18}`},
		{xsd.MustDecimal("1.50"), `{"@type":"xsd:decimal","@value":1.50}`},
		{xsd.Float(2.5), `{"@type":"xsd:double","@value":2.5}`},
		{xsd.Boolean(true), `{"@type":"xsd:boolean","@value":true}`},
		{xsd.String("a<b>&c"), `{"@type":"xsd:string","@value":"a<b>&c"}`},
		{xsd.Date{Year: 2024, Month: 1, Day: 2}, `{"@type":"xsd:date","@value":"2024-01-02"}`},
		{xsd.HexBinary("\x01\xab"), `{"@type":"xsd:hexBinary","@value":"01ab"}`},
	}
	for _, tt := range tests {
		t.Run(tt.lit.XSDType(), func(t *testing.T) {
			data, err := Encode(q.Equals{Left: q.Var("X"), Right: q.Lit(tt.lit)})
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestEncode_OmitsAbsentOptionals(t *testing.T) {
	data, err := Encode(q.Triple{Subject: q.Var("S"), Predicate: q.Var("P"), Object: q.Var("O")})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "graph")

	data, err = Encode(q.InsertDocument{Document: q.Var("D")})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "identifier")
}

func TestEncode_RejectsInvalid(t *testing.T) {
	_, err := Encode(q.Not{})
	var ve *q.ValidationError
	assert.ErrorAs(t, err, &ve)

	deep := q.Query(q.True{})
	for i := 0; i < 10; i++ {
		deep = q.Not{Query: deep}
	}
	_, err = (&Encoder{MaxDepth: 5}).Encode(deep)
	assert.ErrorContains(t, err, "exceeds maximum 5")
}

func TestEncode_RejectsTreesDecodeCannotRestore(t *testing.T) {
	tests := []struct {
		name  string
		query q.Query
	}{
		{"inverse path without predicate", q.Path{Subject: q.Var("A"), Pattern: q.InversePathPredicate{}, Object: q.Var("B")}},
		{"duplicate dictionary field", q.ReadDocument{
			Identifier: q.Var("ID"),
			Document:   q.Dict(q.FieldValuePair{Field: "a", Value: q.Str("x")}, q.FieldValuePair{Field: "a", Value: q.Str("y")}),
		}},
		{"invalid utf-8 node", q.Triple{Subject: q.Node("a\xff"), Predicate: q.Node("p"), Object: q.Var("O")}},
		{"invalid utf-8 string", q.Equals{Left: q.Var("X"), Right: q.Str("a\xff")}},
		{"five digit year", q.Equals{Left: q.Var("X"), Right: q.Lit(xsd.Date{Year: 10000, Month: time.January, Day: 1})}},
		{"hour out of range", q.Equals{Left: q.Var("X"), Right: q.Lit(xsd.Time{Hour: 25})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.query)
			var ve *q.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestEncode_AcceptedTreesRoundTrip(t *testing.T) {
	tests := []q.Query{
		q.Path{Subject: q.Var("A"), Pattern: q.InversePathPredicate{Predicate: "knows"}, Object: q.Var("B")},
		q.Equals{Left: q.Var("X"), Right: q.Str("héllo")},
		q.Equals{Left: q.Var("X"), Right: q.Lit(xsd.Date{Year: 9999, Month: time.December, Day: 31})},
		q.Equals{Left: q.Var("X"), Right: q.Lit(xsd.Time{Hour: 23, Minute: 59, Second: 59})},
		q.Equals{Left: q.Var("X"), Right: q.Lit(xsd.NewDateTime(time.Date(1880, 1, 1, 12, 0, 0, 0, time.FixedZone("LMT", 3600+45))))},
	}

	for _, query := range tests {
		data, err := Encode(query)
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, query, decoded)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code ErrorCode
		path string
	}{
		{"malformed", `{"@type":`, ErrCodeMalformedJSON, "$"},
		{"not an object", `[]`, ErrCodeShapeMismatch, "$"},
		{"no type", `{"query":{}}`, ErrCodeMissingField, "$.@type"},
		{"unknown type", `{"@type":"Frobnicate"}`, ErrCodeUnknownType, "$.@type"},
		{"unknown field", `{"@type":"True","extra":1}`, ErrCodeUnexpectedField, "$.extra"},
		{"missing field", `{"@type":"Not"}`, ErrCodeMissingField, "$.query"},
		{"null required", `{"@type":"Not","query":null}`, ErrCodeMissingField, "$.query"},
		{"wrong shape", `{"@type":"And","and":{"@type":"True"}}`, ErrCodeShapeMismatch, "$.and"},
		{"nested path", `{"@type":"And","and":[{"@type":"True"},{"@type":"Not","query":[]}]}`, ErrCodeShapeMismatch, "$.and[1].query"},
		{"wrong value tag", `{"@type":"Greater","left":{"@type":"NodeValue","variable":"X"},"right":{"@type":"DataValue","variable":"Y"}}`, ErrCodeUnknownType, "$.left.@type"},
		{"node as data", `{"@type":"Greater","left":{"@type":"DataValue","node":"x"},"right":{"@type":"DataValue","variable":"Y"}}`, ErrCodeUnexpectedField, "$.left.node"},
		{"two variants", `{"@type":"Triple","subject":{"@type":"NodeValue","variable":"S","node":"s"},"predicate":{"@type":"NodeValue","variable":"P"},"object":{"@type":"Value","variable":"O"}}`, ErrCodeShapeMismatch, "$.subject"},
		{"bad literal", `{"@type":"Equals","left":{"@type":"DataValue","variable":"X"},"right":{"@type":"DataValue","data":{"@type":"xsd:date","@value":"soon"}}}`, ErrCodeInvalidLiteral, "$.right.data.@value"},
		{"number for string", `{"@type":"Equals","left":{"@type":"DataValue","variable":"X"},"right":{"@type":"DataValue","data":{"@type":"xsd:string","@value":3}}}`, ErrCodeShapeMismatch, "$.right.data.@value"},
		{"unknown literal type", `{"@type":"Equals","left":{"@type":"DataValue","variable":"X"},"right":{"@type":"DataValue","data":{"@type":"xsd:nope","@value":"x"}}}`, ErrCodeUnknownType, "$.right.data.@type"},
		{"negative limit", `{"@type":"Limit","limit":-1,"query":{"@type":"True"}}`, ErrCodeShapeMismatch, "$.limit"},
		{"bad graph", `{"@type":"Triple","subject":{"@type":"NodeValue","variable":"S"},"predicate":{"@type":"NodeValue","variable":"P"},"object":{"@type":"Value","variable":"O"},"graph":"other"}`, ErrCodeShapeMismatch, "$.graph"},
		{"bad element", `{"@type":"Member","member":{"@type":"DataValue","variable":"X"},"list":[{"@type":"Node","node":"a"}]}`, ErrCodeShapeMismatch, "$.list[0].node"},
		{"unknown element", `{"@type":"Member","member":{"@type":"DataValue","variable":"X"},"list":[{"@type":"Thing"}]}`, ErrCodeUnknownType, "$.list[0].@type"},
		{"bad order", `{"@type":"OrderBy","ordering":[{"@type":"OrderTemplate","variable":"X","order":"up"}],"query":{"@type":"True"}}`, ErrCodeShapeMismatch, "$.ordering[0].order"},
		{"bad variable", `{"@type":"Select","variables":["1x"],"query":{"@type":"True"}}`, ErrCodeShapeMismatch, "$"},
		{"unknown path", `{"@type":"Path","subject":{"@type":"Value","variable":"S"},"pattern":{"@type":"PathMaybe"},"object":{"@type":"Value","variable":"O"}}`, ErrCodeUnknownType, "$.pattern.@type"},
		{"list operand", `{"@type":"Eval","expression":{"@type":"ArithmeticValue","list":[]},"result":{"@type":"DataValue","variable":"R"}}`, ErrCodeShapeMismatch, "$.expression.list"},
		{"duplicate dictionary field", `{"@type":"InsertDocument","document":{"@type":"Value","dictionary":{"@type":"DictionaryTemplate","data":[` +
			`{"@type":"FieldValuePair","field":"a","value":{"@type":"Value","node":"x"}},` +
			`{"@type":"FieldValuePair","field":"a","value":{"@type":"Value","node":"y"}}]}}}`, ErrCodeShapeMismatch, "$.document.dictionary.data[1].field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code, de.Error())
			assert.Equal(t, tt.path, de.Path, de.Error())
		})
	}
}

func TestDecode_NullOptionalIsAbsent(t *testing.T) {
	got, err := Decode([]byte(`{"@type":"InsertDocument","document":{"@type":"Value","variable":"D"},"identifier":null}`))
	require.NoError(t, err)
	assert.Equal(t, q.InsertDocument{Document: q.Var("D")}, got)
}

func TestDecode_LegacyCounter(t *testing.T) {
	got, err := Decode([]byte(`{"@type":"Limit","limit":{"@type":"xsd:nonNegativeInteger","@value":5},"query":{"@type":"True"}}`))
	require.NoError(t, err)
	assert.Equal(t, q.Limit{Limit: 5, Query: q.True{}}, got)
}

func TestDecode_Depth(t *testing.T) {
	doc := strings.Repeat(`{"@type":"Not","query":`, 20) + `{"@type":"True"}` + strings.Repeat("}", 20)

	_, err := (&Decoder{MaxDepth: 10}).Decode([]byte(doc))
	assert.True(t, IsTooDeep(err))

	got, err := (&Decoder{MaxDepth: 21}).Decode([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 21, q.Depth(got))

	huge := strings.Repeat("[", 50000) + strings.Repeat("]", 50000)
	_, err = Decode([]byte(`{"@type":"Member","member":{"@type":"DataValue","variable":"X"},"list":` + huge + `}`))
	assert.True(t, IsTooDeep(err))
}

func TestDocument(t *testing.T) {
	doc, err := Document(sample(t, "limit"))
	require.NoError(t, err)
	assert.Equal(t, "Limit", doc["@type"])
	assert.Equal(t, json.Number("10"), doc["limit"])
}
