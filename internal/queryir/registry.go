package queryir

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// FieldKind classifies an operator field by what it may hold.
//
// The kind decides how a field is encoded on the wire, how parser arguments
// bound to it are interpreted, and which CUE constraint the schema emits.
type FieldKind int

const (
	FieldQuery        FieldKind = iota // Query
	FieldQueryList                     // []Query
	FieldValue                         // Value
	FieldNodeValue                     // NodeValue
	FieldDataValue                     // DataValue
	FieldDataList                      // DataValue, a list encoded as a bare array
	FieldValueList                     // []Value, encoded as a bare array
	FieldVariableList                  // []Variable, encoded as plain strings
	FieldString                        // string
	FieldStringList                    // []string
	FieldUint                          // uint64
	FieldGraph                         // GraphType
	FieldPath                          // PathPattern
	FieldArith                         // ArithmeticExpression
	FieldOrderList                     // []OrderTemplate
)

var fieldKindTags = []string{
	FieldQuery:        "query",
	FieldQueryList:    "queries",
	FieldValue:        "value",
	FieldNodeValue:    "node",
	FieldDataValue:    "data",
	FieldDataList:     "datalist",
	FieldValueList:    "values",
	FieldVariableList: "vars",
	FieldString:       "string",
	FieldStringList:   "strings",
	FieldUint:         "uint",
	FieldGraph:        "graph",
	FieldPath:         "path",
	FieldArith:        "arith",
	FieldOrderList:    "order",
}

var fieldKindTypes = []reflect.Type{
	FieldQuery:        reflect.TypeOf((*Query)(nil)).Elem(),
	FieldQueryList:    reflect.TypeOf([]Query(nil)),
	FieldValue:        reflect.TypeOf((*Value)(nil)).Elem(),
	FieldNodeValue:    reflect.TypeOf((*NodeValue)(nil)).Elem(),
	FieldDataValue:    reflect.TypeOf((*DataValue)(nil)).Elem(),
	FieldDataList:     reflect.TypeOf((*DataValue)(nil)).Elem(),
	FieldValueList:    reflect.TypeOf([]Value(nil)),
	FieldVariableList: reflect.TypeOf([]Variable(nil)),
	FieldString:       reflect.TypeOf(""),
	FieldStringList:   reflect.TypeOf([]string(nil)),
	FieldUint:         reflect.TypeOf(uint64(0)),
	FieldGraph:        reflect.TypeOf(GraphType("")),
	FieldPath:         reflect.TypeOf((*PathPattern)(nil)).Elem(),
	FieldArith:        reflect.TypeOf((*ArithmeticExpression)(nil)).Elem(),
	FieldOrderList:    reflect.TypeOf([]OrderTemplate(nil)),
}

// String returns the tag spelling of the kind.
func (k FieldKind) String() string {
	if int(k) < len(fieldKindTags) {
		return fieldKindTags[k]
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// IsSlice reports whether the Go field is a slice, which is what a variadic
// field must be.
func (k FieldKind) IsSlice() bool {
	switch k {
	case FieldQueryList, FieldValueList, FieldVariableList, FieldStringList, FieldOrderList:
		return true
	}
	return false
}

// Field describes one field of an operator.
type Field struct {
	Name     string // wire name, e.g. "result_string"
	GoName   string // struct field name, e.g. "ResultString"
	Kind     FieldKind
	Optional bool // may be absent; absent fields are omitted on the wire
	Variadic bool // collects the remaining positional arguments

	index int
}

// Operator is the metadata of one query operator: its wire discriminator,
// the names it is called by in the text syntaxes and its ordered fields.
type Operator struct {
	Type   string   // wire "@type"
	Names  []string // text names, canonical snake_case first
	Fields []Field

	typ reflect.Type
}

// Name returns the canonical text name.
func (o *Operator) Name() string { return o.Names[0] }

// JSName returns the camelCase name used by the alternate syntax, falling
// back to Name when the operator has no camelCase alias.
func (o *Operator) JSName() string {
	for _, n := range o.Names {
		if strings.IndexFunc(n, unicode.IsUpper) >= 0 {
			return n
		}
	}
	return o.Name()
}

// MinArity is the number of positional arguments that must be present.
func (o *Operator) MinArity() int {
	n := 0
	for _, f := range o.Fields {
		if !f.Optional && !f.Variadic {
			n++
		}
	}
	return n
}

// MaxArity is the largest number of positional arguments accepted, or -1
// when a variadic field makes it unbounded.
func (o *Operator) MaxArity() int {
	n := 0
	for _, f := range o.Fields {
		if f.Variadic {
			return -1
		}
		n++
	}
	return n
}

// ExpectedArity renders the accepted argument count for error messages:
// "2", "3..4" or "at least 1".
func (o *Operator) ExpectedArity() string {
	lo, hi := o.MinArity(), o.MaxArity()
	switch {
	case hi < 0:
		return fmt.Sprintf("at least %d", lo)
	case lo == hi:
		return fmt.Sprintf("%d", lo)
	default:
		return fmt.Sprintf("%d..%d", lo, hi)
	}
}

// AcceptsArity reports whether n positional arguments fit the operator.
func (o *Operator) AcceptsArity(n int) bool {
	if n < o.MinArity() {
		return false
	}
	hi := o.MaxArity()
	return hi < 0 || n <= hi
}

// Field returns the field with the given wire name.
func (o *Operator) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Get returns the value of field i of q. Interface fields holding nil
// return an untyped nil.
func (o *Operator) Get(q Query, i int) any {
	return reflect.ValueOf(q).Field(o.Fields[i].index).Interface()
}

// Values returns every field value of q in declaration order.
func (o *Operator) Values(q Query) []any {
	out := make([]any, len(o.Fields))
	for i := range o.Fields {
		out[i] = o.Get(q, i)
	}
	return out
}

// IsZero reports whether field i of q holds its zero value (nil interface,
// empty slice, empty string or zero count).
func (o *Operator) IsZero(q Query, i int) bool {
	v := reflect.ValueOf(q).Field(o.Fields[i].index)
	if v.Kind() == reflect.Slice {
		return v.Len() == 0
	}
	return v.IsZero()
}

// Build constructs the operator from field values in declaration order.
// A nil entry leaves the field at its zero value.
func (o *Operator) Build(values []any) (Query, error) {
	if len(values) != len(o.Fields) {
		return nil, fmt.Errorf("%s: expected %d field values, got %d", o.Type, len(o.Fields), len(values))
	}
	v := reflect.New(o.typ).Elem()
	for i, f := range o.Fields {
		if values[i] == nil {
			continue
		}
		rv := reflect.ValueOf(values[i])
		ft := v.Field(f.index).Type()
		if !rv.Type().AssignableTo(ft) {
			return nil, fmt.Errorf("%s.%s: cannot use %s as %s", o.Type, f.Name, Describe(values[i]), f.Kind)
		}
		v.Field(f.index).Set(rv)
	}
	return v.Interface().(Query), nil
}

var (
	operators   []*Operator
	opsByType   = map[string]*Operator{}
	opsByName   = map[string]*Operator{}
	opsByGoType = map[reflect.Type]*Operator{}
)

func init() {
	reg("And", And{}, "and")
	reg("Or", Or{}, "or")
	reg("Not", Not{}, "not")
	reg("Select", Select{}, "select")
	reg("Distinct", Distinct{}, "distinct")
	reg("Optional", Optional{}, "optional", "opt")
	reg("If", If{}, "if")
	reg("Once", Once{}, "once")
	reg("Immediately", Immediately{}, "immediately")
	reg("Limit", Limit{}, "limit")
	reg("Start", Start{}, "start")
	reg("Using", Using{}, "using")
	reg("From", From{}, "from")
	reg("Into", Into{}, "into")
	reg("OrderBy", OrderBy{}, "order_by", "orderBy")
	reg("GroupBy", GroupBy{}, "group_by", "groupBy")
	reg("Count", Count{}, "count")
	reg("True", True{}, "true")
	reg("False", False{}, "false")

	reg("Triple", Triple{}, "triple", "t", "quad")
	reg("AddTriple", AddTriple{}, "add_triple", "addTriple", "add_quad", "addQuad")
	reg("AddedTriple", AddedTriple{}, "added_triple", "addedTriple", "added_quad", "addedQuad")
	reg("DeleteTriple", DeleteTriple{}, "delete_triple", "deleteTriple", "delete_quad", "deleteQuad")
	reg("DeletedTriple", DeletedTriple{}, "deleted_triple", "deletedTriple", "deleted_quad", "deletedQuad")
	reg("Data", Data{}, "data")
	reg("AddData", AddData{}, "add_data", "addData")
	reg("AddedData", AddedData{}, "added_data", "addedData")
	reg("DeleteData", DeleteData{}, "delete_data", "deleteData")
	reg("DeletedData", DeletedData{}, "deleted_data", "deletedData")
	reg("Link", Link{}, "link")
	reg("AddLink", AddLink{}, "add_link", "addLink")
	reg("AddedLink", AddedLink{}, "added_link", "addedLink")
	reg("DeleteLink", DeleteLink{}, "delete_link", "deleteLink")
	reg("DeletedLink", DeletedLink{}, "deleted_link", "deletedLink")

	reg("ReadDocument", ReadDocument{}, "read_document", "readDocument")
	reg("InsertDocument", InsertDocument{}, "insert_document", "insertDocument")
	reg("UpdateDocument", UpdateDocument{}, "update_document", "updateDocument")
	reg("DeleteDocument", DeleteDocument{}, "delete_document", "deleteDocument")

	reg("Equals", Equals{}, "equals", "eq")
	reg("Greater", Greater{}, "greater")
	reg("Less", Less{}, "less")
	reg("Eval", Eval{}, "eval", "evaluate")

	reg("Sum", Sum{}, "sum")
	reg("Length", Length{}, "length")
	reg("Member", Member{}, "member")
	reg("Dot", Dot{}, "dot")

	reg("Concatenate", Concatenate{}, "concatenate", "concat")
	reg("Join", Join{}, "join")
	reg("Split", Split{}, "split")
	reg("Trim", Trim{}, "trim")
	reg("Upper", Upper{}, "upper")
	reg("Lower", Lower{}, "lower")
	reg("Pad", Pad{}, "pad")
	reg("Like", Like{}, "like")
	reg("Regexp", Regexp{}, "regexp", "re")
	reg("Substring", Substring{}, "substring", "substr")

	reg("Path", Path{}, "path")
	reg("IsA", IsA{}, "isa", "is_a", "isA")
	reg("TypeOf", TypeOf{}, "type_of", "typeOf")
	reg("Typecast", TypeCast{}, "typecast", "cast")
	reg("Subsumption", Subsumption{}, "subsumption", "sub")
	reg("RandomKey", RandomKey{}, "random_key", "randomKey", "idgen_random")
	reg("LexicalKey", LexicalKey{}, "lexical_key", "lexicalKey", "idgen")
	reg("HashKey", HashKey{}, "hash_key", "hashKey", "unique")

	reg("TripleCount", TripleCount{}, "triple_count", "tripleCount")
	reg("Size", Size{}, "size")

	reg("NamedParametricQuery", NamedParametricQuery{}, "named_parametric_query", "namedParametricQuery", "define")
	reg("Call", Call{}, "call")
}

// reg adds an operator to the table. Malformed tags are programming errors
// and panic during package initialisation.
func reg(wireType string, proto Query, names ...string) {
	t := reflect.TypeOf(proto)
	o := &Operator{Type: wireType, Names: names, typ: t}

	variadic := false
	optional := false
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("woql")
		if !ok {
			panic(fmt.Sprintf("queryir: %s.%s has no woql tag", t.Name(), sf.Name))
		}
		f := parseFieldTag(t.Name(), sf.Name, tag)
		f.index = i
		if sf.Type != fieldKindTypes[f.Kind] {
			panic(fmt.Sprintf("queryir: %s.%s is %s, kind %s wants %s", t.Name(), sf.Name, sf.Type, f.Kind, fieldKindTypes[f.Kind]))
		}
		if f.Variadic {
			if variadic || optional || !f.Kind.IsSlice() {
				panic(fmt.Sprintf("queryir: %s.%s: invalid variadic field", t.Name(), sf.Name))
			}
			variadic = true
		}
		if f.Optional {
			if variadic {
				panic(fmt.Sprintf("queryir: %s.%s: optional field alongside variadic", t.Name(), sf.Name))
			}
			optional = true
		} else if optional && !f.Variadic {
			panic(fmt.Sprintf("queryir: %s.%s: required field after optional", t.Name(), sf.Name))
		}
		o.Fields = append(o.Fields, f)
	}

	if _, dup := opsByType[wireType]; dup {
		panic("queryir: duplicate operator " + wireType)
	}
	operators = append(operators, o)
	opsByType[wireType] = o
	opsByGoType[t] = o
	for _, n := range names {
		if _, dup := opsByName[n]; dup {
			panic("queryir: duplicate operator name " + n)
		}
		opsByName[n] = o
	}
}

func parseFieldTag(typeName, fieldName, tag string) Field {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 {
		panic(fmt.Sprintf("queryir: %s.%s: malformed tag %q", typeName, fieldName, tag))
	}
	f := Field{Name: parts[0], GoName: fieldName, Kind: -1}
	for k, s := range fieldKindTags {
		if s == parts[1] {
			f.Kind = FieldKind(k)
		}
	}
	if f.Kind < 0 {
		panic(fmt.Sprintf("queryir: %s.%s: unknown field kind %q", typeName, fieldName, parts[1]))
	}
	for _, opt := range parts[2:] {
		switch opt {
		case "optional":
			f.Optional = true
		case "variadic":
			f.Variadic = true
		default:
			panic(fmt.Sprintf("queryir: %s.%s: unknown tag option %q", typeName, fieldName, opt))
		}
	}
	return f
}

// Operators returns the operator table in registration order.
func Operators() []*Operator {
	out := make([]*Operator, len(operators))
	copy(out, operators)
	return out
}

// Lookup finds an operator by its wire "@type".
func Lookup(wireType string) (*Operator, bool) {
	o, ok := opsByType[wireType]
	return o, ok
}

// LookupName finds an operator by any of its text names.
func LookupName(name string) (*Operator, bool) {
	o, ok := opsByName[name]
	return o, ok
}

// OperatorFor returns the table entry for q's dynamic type, or nil when q is
// nil.
func OperatorFor(q Query) *Operator {
	if q == nil {
		return nil
	}
	return opsByGoType[reflect.TypeOf(q)]
}

// Names returns every text name known to the table, sorted.
func Names() []string {
	out := make([]string, 0, len(opsByName))
	for n := range opsByName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
