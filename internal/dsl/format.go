package dsl

import (
	"strings"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

// lineWidth is the column past which calls and lists break one argument
// per line.
const lineWidth = 80

// Format prints q as DSL text that parses back to an equal query.
// Variables always carry the $ sigil and strings are always quoted.
func Format(q queryir.Query) (string, error) {
	tree, err := syntax.Raise(q)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeNode(&b, tree, 0)
	return b.String(), nil
}

// FormatCompact prints q on a single line.
func FormatCompact(q queryir.Query) (string, error) {
	tree, err := syntax.Raise(q)
	if err != nil {
		return "", err
	}
	return flat(tree), nil
}

func writeNode(b *strings.Builder, n syntax.Node, indent int) {
	one := flat(n)
	if indent*2+len(one) <= lineWidth {
		b.WriteString(one)
		return
	}
	switch x := n.(type) {
	case *syntax.Call:
		b.WriteString(x.Name)
		writeBroken(b, "(", ")", x.Args, indent)
	case *syntax.List:
		writeBroken(b, "[", "]", x.Elems, indent)
	case *syntax.Dict:
		b.WriteString("{\n")
		for i, e := range x.Entries {
			pad(b, indent+1)
			b.WriteString(syntax.Quote(e.Key))
			b.WriteString(": ")
			writeNode(b, e.Value, indent+1)
			if i < len(x.Entries)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		pad(b, indent)
		b.WriteByte('}')
	default:
		b.WriteString(one)
	}
}

func writeBroken(b *strings.Builder, open, close string, args []syntax.Node, indent int) {
	if len(args) == 0 {
		b.WriteString(open + close)
		return
	}
	b.WriteString(open + "\n")
	for i, a := range args {
		pad(b, indent+1)
		writeNode(b, a, indent+1)
		if i < len(args)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	pad(b, indent)
	b.WriteString(close)
}

func pad(b *strings.Builder, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
}

func flat(n syntax.Node) string {
	switch x := n.(type) {
	case *syntax.Call:
		return x.Name + "(" + flatList(x.Args) + ")"
	case *syntax.Var:
		return "$" + x.Name
	case *syntax.String:
		return syntax.Quote(x.Value)
	case *syntax.Number:
		return x.Text
	case *syntax.Bool:
		if x.Value {
			return "true"
		}
		return "false"
	case *syntax.Typed:
		return syntax.Quote(x.Text) + "^^" + x.Type
	case *syntax.List:
		return "[" + flatList(x.Elems) + "]"
	case *syntax.Dict:
		parts := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			parts[i] = syntax.Quote(e.Key) + ": " + flat(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

func flatList(nodes []syntax.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = flat(n)
	}
	return strings.Join(parts, ", ")
}
