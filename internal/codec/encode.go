package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
	"github.com/roach88/woql/internal/xsd"
)

// Encoder writes queries as wire documents.
type Encoder struct {
	// Indent, when non-empty, pretty-prints with this indent per level.
	Indent string

	// MaxDepth bounds query nesting. Zero means syntax.DefaultMaxDepth.
	MaxDepth int
}

// Encode returns the compact wire document for q.
func Encode(q queryir.Query) ([]byte, error) {
	return (&Encoder{}).Encode(q)
}

// EncodeIndent returns the wire document for q, indented by indent.
func EncodeIndent(q queryir.Query, indent string) ([]byte, error) {
	return (&Encoder{Indent: indent}).Encode(q)
}

// Encode validates q and renders it. Encoding never produces null and omits
// absent optional fields.
func (e *Encoder) Encode(q queryir.Query) ([]byte, error) {
	if err := queryir.Validate(q); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	limit := e.MaxDepth
	if limit <= 0 {
		limit = syntax.DefaultMaxDepth
	}
	if d := queryir.Depth(q); d > limit {
		return nil, fmt.Errorf("encode: query depth %d exceeds maximum %d", d, limit)
	}

	var buf bytes.Buffer
	writeJSON(&buf, encodeQuery(q), e.Indent, 0)
	return buf.Bytes(), nil
}

// Document returns q's wire form as generic JSON values: map[string]any,
// []any, string, json.Number and bool. Member order is lost.
func Document(q queryir.Query) (map[string]any, error) {
	data, err := Encode(q)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("encode: reread document: %w", err)
	}
	return doc, nil
}

func encodeQuery(q queryir.Query) object {
	op := queryir.OperatorFor(q)
	obj := tagged(op.Type)
	for i, f := range op.Fields {
		if f.Optional && op.IsZero(q, i) {
			continue
		}
		obj = obj.with(f.Name, encodeField(f, op.Get(q, i)))
	}
	return obj
}

func encodeField(f queryir.Field, val any) any {
	switch f.Kind {
	case queryir.FieldQuery:
		return encodeQuery(val.(queryir.Query))
	case queryir.FieldQueryList:
		qs := val.([]queryir.Query)
		out := make([]any, len(qs))
		for i, q := range qs {
			out[i] = encodeQuery(q)
		}
		return out
	case queryir.FieldValue:
		return encodeTagged("Value", val)
	case queryir.FieldNodeValue:
		return encodeTagged("NodeValue", val)
	case queryir.FieldDataValue:
		return encodeTagged("DataValue", val)
	case queryir.FieldDataList:
		if l, ok := val.(queryir.DataList); ok {
			return encodeElements(dataElems(l))
		}
		return encodeTagged("DataValue", val)
	case queryir.FieldValueList:
		return encodeElements(valueElems(val.([]queryir.Value)))
	case queryir.FieldVariableList:
		vs := val.([]queryir.Variable)
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = string(v)
		}
		return out
	case queryir.FieldOrderList:
		orders := val.([]queryir.OrderTemplate)
		out := make([]any, len(orders))
		for i, o := range orders {
			out[i] = tagged("OrderTemplate").
				with("variable", string(o.Variable)).
				with("order", string(o.Order))
		}
		return out
	case queryir.FieldString:
		return val.(string)
	case queryir.FieldStringList:
		ss := val.([]string)
		out := make([]any, len(ss))
		for i, s := range ss {
			out[i] = s
		}
		return out
	case queryir.FieldUint:
		return json.Number(strconv.FormatUint(val.(uint64), 10))
	case queryir.FieldGraph:
		return string(val.(queryir.GraphType))
	case queryir.FieldPath:
		return encodePath(val.(queryir.PathPattern))
	case queryir.FieldArith:
		return encodeArith(val.(queryir.ArithmeticExpression))
	}
	panic(fmt.Sprintf("codec: unhandled field kind %s", f.Kind))
}

// encodeTagged renders a single value as {"@type": typ, "<variant>": ...}.
func encodeTagged(typ string, v any) object {
	return encodeVariant(tagged(typ), v)
}

// encodeElements renders list members with element tags: Variable, Node,
// Data, List or Dictionary.
func encodeElements(vs []kinded) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = encodeVariant(tagged(v.Kind().String()), v)
	}
	return out
}

func encodeVariant(obj object, v any) object {
	switch x := v.(type) {
	case queryir.Variable:
		return obj.with("variable", string(x))
	case queryir.NodeURI:
		return obj.with("node", string(x))
	case queryir.Literal:
		return obj.with("data", encodeLiteral(x.Data))
	case queryir.ValueList:
		return obj.with("list", encodeElements(valueElems(x)))
	case queryir.DataList:
		return obj.with("list", encodeElements(dataElems(x)))
	case queryir.Dictionary:
		return obj.with("dictionary", encodeDictionary(x))
	}
	panic(fmt.Sprintf("codec: unhandled value %T", v))
}

func encodeDictionary(d queryir.Dictionary) object {
	pairs := make([]any, len(d))
	for i, p := range d {
		pairs[i] = tagged("FieldValuePair").
			with("field", p.Field).
			with("value", encodeTagged("Value", p.Value))
	}
	return tagged("DictionaryTemplate").with("data", pairs)
}

func encodeLiteral(lit xsd.Literal) object {
	obj := tagged(lit.XSDType())
	switch l := lit.(type) {
	case xsd.Boolean:
		return obj.with("@value", bool(l))
	case xsd.UnsignedInt, xsd.Decimal, xsd.Float:
		return obj.with("@value", json.Number(lit.String()))
	}
	return obj.with("@value", lit.String())
}

func encodePath(p queryir.PathPattern) object {
	switch x := p.(type) {
	case queryir.PathPredicate:
		obj := tagged("PathPredicate")
		if x.Predicate != "" {
			obj = obj.with("predicate", x.Predicate)
		}
		return obj
	case queryir.InversePathPredicate:
		return tagged("InversePathPredicate").with("predicate", x.Predicate)
	case queryir.PathSequence:
		return tagged("PathSequence").with("sequence", encodePaths(x))
	case queryir.PathOr:
		return tagged("PathOr").with("or", encodePaths(x))
	case queryir.PathPlus:
		return tagged("PathPlus").with("plus", encodePath(x.Pattern))
	case queryir.PathStar:
		return tagged("PathStar").with("star", encodePath(x.Pattern))
	case queryir.PathTimes:
		return tagged("PathTimes").
			with("times", encodePath(x.Pattern)).
			with("from", json.Number(strconv.FormatUint(x.From, 10))).
			with("to", json.Number(strconv.FormatUint(x.To, 10)))
	}
	panic(fmt.Sprintf("codec: unhandled path %T", p))
}

func encodePaths(ps []queryir.PathPattern) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = encodePath(p)
	}
	return out
}

func encodeArith(e queryir.ArithmeticExpression) object {
	switch x := e.(type) {
	case queryir.ArithmeticValue:
		obj := tagged("ArithmeticValue")
		if v, ok := x.Value.(queryir.Variable); ok {
			return obj.with("variable", string(v))
		}
		return obj.with("data", encodeLiteral(x.Value.(queryir.Literal).Data))
	case queryir.Floor:
		return tagged("Floor").with("argument", encodeArith(x.Argument))
	}
	typ, l, r, _ := queryir.SplitArithmetic(e)
	return tagged(typ).with("left", encodeArith(l)).with("right", encodeArith(r))
}

// kinded is what Value and DataValue have in common.
type kinded interface {
	Kind() queryir.Kind
}

func valueElems(vs []queryir.Value) []kinded {
	out := make([]kinded, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func dataElems(l queryir.DataList) []kinded {
	out := make([]kinded, len(l))
	for i, v := range l {
		out[i] = v
	}
	return out
}
