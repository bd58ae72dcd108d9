package altsyntax

import (
	"strings"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

// Format prints q in alternate syntax, one conjunct or list member per line
// once a call grows past a single line. Operator names use their camel case
// spelling and every call carries the WOQL. prefix.
//
// Strings that begin with "v:" read back as variables; such data or node
// values are not representable and come back as variables.
func Format(q queryir.Query) (string, error) {
	tree, err := syntax.Raise(q)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	write(&b, tree, 0)
	return b.String(), nil
}

const lineWidth = 80

func write(b *strings.Builder, n syntax.Node, indent int) {
	one := flat(n)
	if indent*2+len(one) <= lineWidth {
		b.WriteString(one)
		return
	}
	switch x := n.(type) {
	case *syntax.Call:
		b.WriteString(callName(x.Name))
		writeBroken(b, "(", ")", x.Args, indent)
	case *syntax.List:
		writeBroken(b, "[", "]", x.Elems, indent)
	case *syntax.Dict:
		b.WriteString("{\n")
		for _, e := range x.Entries {
			pad(b, indent+1)
			b.WriteString(key(e.Key))
			b.WriteString(": ")
			write(b, e.Value, indent+1)
			b.WriteString(",\n")
		}
		pad(b, indent)
		b.WriteByte('}')
	default:
		b.WriteString(one)
	}
}

func writeBroken(b *strings.Builder, open, close string, args []syntax.Node, indent int) {
	b.WriteString(open + "\n")
	for _, a := range args {
		pad(b, indent+1)
		write(b, a, indent+1)
		b.WriteString(",\n")
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
		return callName(x.Name) + "(" + flatList(x.Args) + ")"
	case *syntax.Var:
		return syntax.Quote(queryir.VariablePrefix + x.Name)
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
		return callPrefix + ".literal(" + syntax.Quote(x.Text) + ", " + syntax.Quote(x.Type) + ")"
	case *syntax.List:
		return "[" + flatList(x.Elems) + "]"
	case *syntax.Dict:
		parts := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			parts[i] = key(e.Key) + ": " + flat(e.Value)
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

// callName spells an operator or helper call with its camel case alias.
func callName(name string) string {
	if op, ok := queryir.LookupName(name); ok && op.Name() == name {
		return callPrefix + "." + op.JSName()
	}
	return callPrefix + "." + name
}

// key writes an object key bare when it is a plain identifier.
func key(k string) string {
	if k == "" || !(k[0] == '_' || (k[0] >= 'a' && k[0] <= 'z') || (k[0] >= 'A' && k[0] <= 'Z')) {
		return syntax.Quote(k)
	}
	for i := 1; i < len(k); i++ {
		if !isJSIdentPart(k[i]) || k[i] == '$' {
			return syntax.Quote(k)
		}
	}
	return k
}
