// Package syntax holds what the two WOQL text syntaxes share: the parse
// tree both parsers produce, the position-directed lowering from that tree
// to the query algebra, the reverse raising used by the printers, and the
// ParseError type.
//
// The surface grammars differ (sigils, comments, call prefixes), but after
// parsing a program in either syntax the tree is the same shape, so a single
// lowering pass guarantees both parsers agree on the resulting query.
package syntax

// DefaultMaxDepth bounds the nesting of calls, lists and dictionaries.
const DefaultMaxDepth = 512

// Limits bounds the resources a parse may use.
type Limits struct {
	MaxDepth int
}

// DefaultLimits returns the limits used by Parse.
func DefaultLimits() Limits {
	return Limits{MaxDepth: DefaultMaxDepth}
}

// Node is a parse tree node. Pos is the byte offset of its first token.
type Node interface {
	Pos() int
	node() // Sealed
}

// Call is a function application such as triple(A, B, C).
type Call struct {
	Offset int
	Name   string
	Args   []Node
}

// Var is a variable reference; Name carries no sigil.
type Var struct {
	Offset int
	Name   string
}

// String is a quoted string or a bare atom.
type String struct {
	Offset int
	Value  string
}

// Number is an unquoted numeric token, kept as text so that classification
// into unsignedInt, decimal or double happens during lowering.
type Number struct {
	Offset int
	Text   string
}

// Bool is true or false.
type Bool struct {
	Offset int
	Value  bool
}

// Typed is a string annotated with an explicit literal type,
// e.g. "2024-01-01"^^xsd:date.
type Typed struct {
	Offset int
	Text   string
	Type   string
}

// List is a bracketed sequence.
type List struct {
	Offset int
	Elems  []Node
}

// Dict is a braced sequence of key/value entries in source order.
type Dict struct {
	Offset  int
	Entries []DictEntry
}

// DictEntry is one key/value pair of a Dict.
type DictEntry struct {
	Key   string
	Value Node
}

func (n *Call) Pos() int { return n.Offset }
func (n *Var) Pos() int { return n.Offset }
func (n *String) Pos() int { return n.Offset }
func (n *Number) Pos() int { return n.Offset }
func (n *Bool) Pos() int { return n.Offset }
func (n *Typed) Pos() int { return n.Offset }
func (n *List) Pos() int { return n.Offset }
func (n *Dict) Pos() int { return n.Offset }

func (*Call) node() {}
func (*Var) node() {}
func (*String) node() {}
func (*Number) node() {}
func (*Bool) node() {}
func (*Typed) node() {}
func (*List) node() {}
func (*Dict) node() {}

// Describe names a node's kind for error messages.
func Describe(n Node) string {
	switch x := n.(type) {
	case *Call:
		return x.Name + "(...)"
	case *Var:
		return "variable " + x.Name
	case *String:
		return "string"
	case *Number:
		return "number"
	case *Bool:
		return "boolean"
	case *Typed:
		return x.Type + " literal"
	case *List:
		return "list"
	case *Dict:
		return "dictionary"
	default:
		return "nothing"
	}
}
