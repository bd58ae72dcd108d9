// Package woql parses, builds, prints and encodes WOQL queries.
//
// A query can be written in the compact DSL, in WOQL.* call syntax or as a
// JSON document, or assembled with a Builder. All four produce the same
// Query values, which encode to the same document and hash to the same
// QueryID.
package woql

import (
	"strings"

	"github.com/roach88/woql/internal/altsyntax"
	"github.com/roach88/woql/internal/builder"
	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/dsl"
	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/schema"
	"github.com/roach88/woql/internal/syntax"
)

type (
	Query     = queryir.Query
	Value     = queryir.Value
	NodeValue = queryir.NodeValue
	DataValue = queryir.DataValue
	Variable  = queryir.Variable
	Analysis  = queryir.Analysis

	Builder = builder.Builder
	Syntax  = altsyntax.Syntax

	ParseError      = syntax.ParseError
	DecodeError     = codec.DecodeError
	BuildError      = builder.BuildError
	ValidationError = schema.ValidationError
)

// Input syntaxes recognised by Parse.
const (
	SyntaxDSL  = altsyntax.DSL
	SyntaxAlt  = altsyntax.Alt
	SyntaxJSON = altsyntax.JSON
)

// ParseDSL parses the compact DSL.
func ParseDSL(text string) (Query, error) {
	return dsl.Parse(text)
}

// ParseAlt parses WOQL.* call syntax.
func ParseAlt(text string) (Query, error) {
	return altsyntax.Parse(text)
}

// Parse detects the syntax of text and parses it. JSON documents are
// decoded.
func Parse(text string) (Query, Syntax, error) {
	switch s := altsyntax.Sniff(text); s {
	case altsyntax.JSON:
		q, err := codec.Decode([]byte(strings.TrimSpace(text)))
		return q, s, err
	case altsyntax.Alt:
		q, err := altsyntax.Parse(text)
		return q, s, err
	default:
		q, err := dsl.Parse(text)
		return q, altsyntax.DSL, err
	}
}

// Encode returns the compact JSON document of q.
func Encode(q Query) ([]byte, error) {
	return codec.Encode(q)
}

// Decode reads a JSON document.
func Decode(data []byte) (Query, error) {
	return codec.Decode(data)
}

// NewBuilder returns an empty Builder.
func NewBuilder() Builder {
	return builder.New()
}

// FormatDSL prints q in canonical DSL form.
func FormatDSL(q Query) (string, error) {
	return dsl.Format(q)
}

// FormatAlt prints q in canonical WOQL.* call syntax.
func FormatAlt(q Query) (string, error) {
	return altsyntax.Format(q)
}

// QueryID returns the content identifier of q.
func QueryID(q Query) (string, error) {
	return canonical.QueryID(q)
}

// Validate checks a JSON document against the document schema.
func Validate(data []byte) error {
	return schema.Validate(data)
}

// Analyze reports what q does without running it.
func Analyze(q Query) Analysis {
	return queryir.Analyze(q)
}
