package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/woql/internal/xsd"
)

// Kind is the closed tag carried by every value variant. It replaces
// "this is definitely not that other kind" checks with an exhaustive switch.
type Kind int

const (
	KindVariable Kind = iota
	KindNode
	KindData
	KindList
	KindDictionary
)

// String returns the element tag used on the wire for the kind.
func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "Variable"
	case KindNode:
		return "Node"
	case KindData:
		return "Data"
	case KindList:
		return "List"
	case KindDictionary:
		return "Dictionary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a sealed union of Dictionary, ValueList, NodeURI, Variable and
// Literal. It is legal wherever a resource or data may appear.
type Value interface {
	Kind() Kind
	valueNode() // Sealed
}

// NodeValue is a sealed union of NodeURI and Variable. It is legal where only
// a resource reference may appear (edge subjects and predicates).
type NodeValue interface {
	Kind() Kind
	nodeValue() // Sealed
}

// DataValue is a sealed union of DataList, Literal and Variable. It is legal
// where only data may appear.
type DataValue interface {
	Kind() Kind
	dataValue() // Sealed
}

// Variable names a query variable. Identity is by name.
type Variable string

func (Variable) Kind() Kind { return KindVariable }
func (Variable) valueNode() {}
func (Variable) nodeValue() {}
func (Variable) dataValue() {}

// Name returns the variable name without any sigil.
func (v Variable) Name() string { return string(v) }

// ValidVariableName reports whether name is a legal variable identifier:
// a letter or underscore followed by letters, digits or underscores.
func ValidVariableName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// NodeURI identifies a graph resource.
type NodeURI string

func (NodeURI) Kind() Kind { return KindNode }
func (NodeURI) valueNode() {}
func (NodeURI) nodeValue() {}

// PredicateURI identifies an edge label.
type PredicateURI string

// NodeValue converts the predicate into a node reference.
func (p PredicateURI) NodeValue() NodeValue { return NodeURI(p) }

// Literal wraps a primitive literal as data.
type Literal struct {
	Data xsd.Literal
}

func (Literal) Kind() Kind { return KindData }
func (Literal) valueNode() {}
func (Literal) dataValue() {}

// ValueList is the list variant of Value.
type ValueList []Value

func (ValueList) Kind() Kind { return KindList }
func (ValueList) valueNode() {}

// DataList is the list variant of DataValue.
type DataList []DataValue

func (DataList) Kind() Kind { return KindList }
func (DataList) dataValue() {}

// FieldValuePair is one entry of a Dictionary.
type FieldValuePair struct {
	Field string
	Value Value
}

// Dictionary is an ordered set of field/value pairs.
type Dictionary []FieldValuePair

func (Dictionary) Kind() Kind { return KindDictionary }
func (Dictionary) valueNode() {}

// Lookup returns the value for field, if present.
func (d Dictionary) Lookup(field string) (Value, bool) {
	for _, pair := range d {
		if pair.Field == field {
			return pair.Value, true
		}
	}
	return nil, false
}

// Var creates a Variable, stripping a leading "$" or "v:" sigil.
func Var(name string) Variable {
	switch {
	case strings.HasPrefix(name, "$"):
		name = name[1:]
	case strings.HasPrefix(name, VariablePrefix):
		name = name[len(VariablePrefix):]
	}
	return Variable(name)
}

// VariablePrefix is the sigil that marks a quoted string as a variable in the
// alternate syntax and in builder arguments.
const VariablePrefix = "v:"

// Node creates a NodeURI.
func Node(uri string) NodeURI { return NodeURI(uri) }

// Lit wraps a primitive literal as a data value.
func Lit(l xsd.Literal) Literal { return Literal{Data: l} }

// Str creates an xsd:string data value.
func Str(s string) Literal { return Literal{Data: xsd.String(s)} }

// Uint creates an xsd:unsignedInt data value.
func Uint(n uint64) Literal { return Literal{Data: xsd.UnsignedInt(n)} }

// Bool creates an xsd:boolean data value.
func Bool(b bool) Literal { return Literal{Data: xsd.Boolean(b)} }

// Values creates a ValueList.
func Values(vals ...Value) ValueList { return ValueList(vals) }

// DataValues creates a DataList.
func DataValues(vals ...DataValue) DataList { return DataList(vals) }

// Dict creates a Dictionary from pairs.
func Dict(pairs ...FieldValuePair) Dictionary { return Dictionary(pairs) }

// Pair is a shorthand for FieldValuePair.
func Pair(field string, value Value) FieldValuePair {
	return FieldValuePair{Field: field, Value: value}
}

// Describe renders a value for error messages.
func Describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case Variable:
		return "$" + string(val)
	case NodeURI:
		return fmt.Sprintf("node %q", string(val))
	case Literal:
		if val.Data == nil {
			return "literal <nil>"
		}
		return fmt.Sprintf("%q^^%s", val.Data.String(), val.Data.XSDType())
	case ValueList:
		return fmt.Sprintf("list of %d values", len(val))
	case DataList:
		return fmt.Sprintf("list of %d values", len(val))
	case Dictionary:
		return fmt.Sprintf("dictionary of %d fields", len(val))
	case string:
		return fmt.Sprintf("%q (string)", val)
	default:
		return fmt.Sprintf("%v (%T)", v, v)
	}
}
