package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
	"github.com/roach88/woql/internal/xsd"
)

// jsonNestingPerLevel bounds how many JSON containers one level of query
// nesting may take. Input nested deeper than this multiple of MaxDepth is
// rejected before it is unmarshalled.
const jsonNestingPerLevel = 4

// Decoder reads wire documents.
type Decoder struct {
	// MaxDepth bounds query nesting. Zero means syntax.DefaultMaxDepth.
	MaxDepth int
}

// Decode reads a wire document with the default limits.
func Decode(data []byte) (queryir.Query, error) {
	return (&Decoder{}).Decode(data)
}

// Decode reads a wire document. Every failure is a *DecodeError.
func (d *Decoder) Decode(data []byte) (queryir.Query, error) {
	limit := d.MaxDepth
	if limit <= 0 {
		limit = syntax.DefaultMaxDepth
	}
	if depth := jsonDepth(data); depth > jsonNestingPerLevel*limit+jsonNestingPerLevel {
		return nil, errorf(ErrCodeTooDeep, "$", "document nesting %d exceeds limit", depth)
	}
	if !json.Valid(data) {
		return nil, errorf(ErrCodeMalformedJSON, "$", "input is not valid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errorf(ErrCodeMalformedJSON, "$", "%v", err)
	}
	return DecodeValue(doc, limit)
}

// DecodeValue decodes an already unmarshalled document. Numbers must be
// json.Number, as produced by a json.Decoder with UseNumber.
func DecodeValue(doc any, maxDepth int) (queryir.Query, error) {
	if maxDepth <= 0 {
		maxDepth = syntax.DefaultMaxDepth
	}
	r := &reader{limit: maxDepth}
	q, err := r.query(doc, "$", 0)
	if err != nil {
		return nil, err
	}
	if err := queryir.Validate(q); err != nil {
		return nil, errorf(ErrCodeShapeMismatch, "$", "%v", err)
	}
	return q, nil
}

type reader struct {
	limit int
}

// typedObject checks that v is an object and returns its "@type".
func typedObject(v any, path string) (map[string]any, string, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, "", errorf(ErrCodeShapeMismatch, path, "expected an object, got %s", describeJSON(v))
	}
	raw, ok := obj["@type"]
	if !ok || raw == nil {
		return nil, "", errorf(ErrCodeMissingField, path+".@type", "missing @type")
	}
	typ, ok := raw.(string)
	if !ok {
		return nil, "", errorf(ErrCodeShapeMismatch, path+".@type", "expected a string, got %s", describeJSON(raw))
	}
	return obj, typ, nil
}

// checkKeys rejects members other than "@type" and the allowed names.
func checkKeys(obj map[string]any, path string, allowed ...string) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "@type" {
			continue
		}
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			return errorf(ErrCodeUnexpectedField, path+"."+k, "unexpected field %q", k)
		}
	}
	return nil
}

func (r *reader) query(v any, path string, depth int) (queryir.Query, error) {
	obj, typ, err := typedObject(v, path)
	if err != nil {
		return nil, err
	}
	if depth+1 > r.limit {
		return nil, errorf(ErrCodeTooDeep, path, "query nesting exceeds maximum depth %d", r.limit)
	}
	op, ok := queryir.Lookup(typ)
	if !ok {
		return nil, errorf(ErrCodeUnknownType, path+".@type", "unknown query type %q", typ)
	}

	names := make([]string, len(op.Fields))
	for i, f := range op.Fields {
		names[i] = f.Name
	}
	if err := checkKeys(obj, path, names...); err != nil {
		return nil, err
	}

	values := make([]any, len(op.Fields))
	for i, f := range op.Fields {
		fp := path + "." + f.Name
		raw := obj[f.Name]
		if raw == nil {
			if f.Optional {
				continue
			}
			return nil, errorf(ErrCodeMissingField, fp, "%s requires %s", op.Type, f.Name)
		}
		val, err := r.field(f, raw, fp, depth+1)
		if err != nil {
			return nil, err
		}
		values[i] = val
	}

	q, err := op.Build(values)
	if err != nil {
		return nil, errorf(ErrCodeShapeMismatch, path, "%v", err)
	}
	return q, nil
}

func (r *reader) field(f queryir.Field, raw any, path string, depth int) (any, error) {
	switch f.Kind {
	case queryir.FieldQuery:
		return r.query(raw, path, depth)
	case queryir.FieldQueryList:
		arr, err := array(raw, path)
		if err != nil {
			return nil, err
		}
		out := make([]queryir.Query, len(arr))
		for i, e := range arr {
			if out[i], err = r.query(e, index(path, i), depth); err != nil {
				return nil, err
			}
		}
		return out, nil
	case queryir.FieldValue:
		return r.value(raw, path, "Value", ctxValue)
	case queryir.FieldNodeValue:
		return r.value(raw, path, "NodeValue", ctxNode)
	case queryir.FieldDataValue:
		return r.value(raw, path, "DataValue", ctxData)
	case queryir.FieldDataList:
		if arr, ok := raw.([]any); ok {
			return r.dataElements(arr, path)
		}
		return r.value(raw, path, "DataValue", ctxData)
	case queryir.FieldValueList:
		arr, err := array(raw, path)
		if err != nil {
			return nil, err
		}
		out := make([]queryir.Value, len(arr))
		for i, e := range arr {
			v, err := r.element(e, index(path, i), ctxValue)
			if err != nil {
				return nil, err
			}
			out[i] = v.(queryir.Value)
		}
		return out, nil
	case queryir.FieldVariableList:
		names, err := stringArray(raw, path)
		if err != nil {
			return nil, err
		}
		out := make([]queryir.Variable, len(names))
		for i, n := range names {
			out[i] = queryir.Var(n)
		}
		return out, nil
	case queryir.FieldOrderList:
		arr, err := array(raw, path)
		if err != nil {
			return nil, err
		}
		out := make([]queryir.OrderTemplate, len(arr))
		for i, e := range arr {
			if out[i], err = orderTemplate(e, index(path, i)); err != nil {
				return nil, err
			}
		}
		return out, nil
	case queryir.FieldString:
		return str(raw, path)
	case queryir.FieldStringList:
		return stringArray(raw, path)
	case queryir.FieldUint:
		return unsigned(raw, path)
	case queryir.FieldGraph:
		s, err := str(raw, path)
		if err != nil {
			return nil, err
		}
		g := queryir.GraphType(s)
		if !g.Valid() {
			return nil, errorf(ErrCodeShapeMismatch, path, "invalid graph %q, expected instance or schema", s)
		}
		return g, nil
	case queryir.FieldPath:
		return r.path(raw, path, 0)
	case queryir.FieldArith:
		return r.arith(raw, path)
	}
	return nil, errorf(ErrCodeShapeMismatch, path, "unsupported field kind %s", f.Kind)
}

// valueContext restricts which variants a value position admits.
type valueContext int

const (
	ctxValue valueContext = iota
	ctxNode
	ctxData
)

// variants lists the members a tagged value may carry in each context.
var variants = map[valueContext][]string{
	ctxValue: {"variable", "node", "data", "list", "dictionary"},
	ctxNode:  {"variable", "node"},
	ctxData:  {"variable", "data", "list"},
}

// value decodes {"@type": typ, "<variant>": ...}.
func (r *reader) value(raw any, path, typ string, ctx valueContext) (any, error) {
	obj, got, err := typedObject(raw, path)
	if err != nil {
		return nil, err
	}
	if got != typ {
		return nil, errorf(ErrCodeUnknownType, path+".@type", "expected %s, got %q", typ, got)
	}
	return r.variant(obj, path, ctx)
}

// element decodes a list member tagged Variable, Node, Data, List or
// Dictionary.
func (r *reader) element(raw any, path string, ctx valueContext) (any, error) {
	obj, typ, err := typedObject(raw, path)
	if err != nil {
		return nil, err
	}
	want := map[string]string{
		"Variable":   "variable",
		"Node":       "node",
		"Data":       "data",
		"List":       "list",
		"Dictionary": "dictionary",
	}[typ]
	if want == "" {
		return nil, errorf(ErrCodeUnknownType, path+".@type", "unknown list element type %q", typ)
	}
	if _, ok := obj[want]; !ok {
		return nil, errorf(ErrCodeMissingField, path+"."+want, "%s element requires %s", typ, want)
	}
	return r.variant(obj, path, ctx, want)
}

// variant decodes the single variant member of a value object. When only is
// given, that member must be the one present.
func (r *reader) variant(obj map[string]any, path string, ctx valueContext, only ...string) (any, error) {
	allowed := variants[ctx]
	if len(only) > 0 {
		allowed = only
	}
	if err := checkKeys(obj, path, allowed...); err != nil {
		return nil, err
	}

	var (
		key string
		raw any
	)
	for _, k := range allowed {
		if v, ok := obj[k]; ok {
			if key != "" {
				return nil, errorf(ErrCodeShapeMismatch, path, "value has both %s and %s", key, k)
			}
			key, raw = k, v
		}
	}
	if key == "" || raw == nil {
		return nil, errorf(ErrCodeMissingField, path, "value requires one of %v", allowed)
	}
	if ctx == ctxNode && key != "variable" && key != "node" ||
		ctx == ctxData && (key == "node" || key == "dictionary") {
		return nil, errorf(ErrCodeShapeMismatch, path+"."+key, "%s is not allowed here", key)
	}

	vp := path + "." + key
	switch key {
	case "variable":
		s, err := str(raw, vp)
		if err != nil {
			return nil, err
		}
		return queryir.Var(s), nil
	case "node":
		s, err := str(raw, vp)
		if err != nil {
			return nil, err
		}
		return queryir.NodeURI(s), nil
	case "data":
		return literal(raw, vp)
	case "list":
		arr, err := array(raw, vp)
		if err != nil {
			return nil, err
		}
		if ctx == ctxData {
			return r.dataElements(arr, vp)
		}
		out := make(queryir.ValueList, len(arr))
		for i, e := range arr {
			v, err := r.element(e, index(vp, i), ctxValue)
			if err != nil {
				return nil, err
			}
			out[i] = v.(queryir.Value)
		}
		return out, nil
	case "dictionary":
		return r.dictionary(raw, vp)
	}
	return nil, errorf(ErrCodeShapeMismatch, path, "unsupported value member %q", key)
}

func (r *reader) dataElements(arr []any, path string) (queryir.DataList, error) {
	out := make(queryir.DataList, len(arr))
	for i, e := range arr {
		v, err := r.element(e, index(path, i), ctxData)
		if err != nil {
			return nil, err
		}
		dv, ok := v.(queryir.DataValue)
		if !ok {
			return nil, errorf(ErrCodeShapeMismatch, index(path, i), "%s is not data", queryir.Describe(v))
		}
		out[i] = dv
	}
	return out, nil
}

func (r *reader) dictionary(raw any, path string) (queryir.Dictionary, error) {
	obj, typ, err := typedObject(raw, path)
	if err != nil {
		return nil, err
	}
	if typ != "DictionaryTemplate" {
		return nil, errorf(ErrCodeUnknownType, path+".@type", "expected DictionaryTemplate, got %q", typ)
	}
	if err := checkKeys(obj, path, "data"); err != nil {
		return nil, err
	}
	arr, err := array(obj["data"], path+".data")
	if err != nil {
		return nil, err
	}

	out := make(queryir.Dictionary, 0, len(arr))
	seen := map[string]bool{}
	for i, e := range arr {
		ep := index(path+".data", i)
		pair, typ, err := typedObject(e, ep)
		if err != nil {
			return nil, err
		}
		if typ != "FieldValuePair" {
			return nil, errorf(ErrCodeUnknownType, ep+".@type", "expected FieldValuePair, got %q", typ)
		}
		if err := checkKeys(pair, ep, "field", "value"); err != nil {
			return nil, err
		}
		field, err := str(pair["field"], ep+".field")
		if err != nil {
			return nil, err
		}
		if seen[field] {
			return nil, errorf(ErrCodeShapeMismatch, ep+".field", "duplicate field %q", field)
		}
		seen[field] = true
		if pair["value"] == nil {
			return nil, errorf(ErrCodeMissingField, ep+".value", "FieldValuePair requires value")
		}
		v, err := r.value(pair["value"], ep+".value", "Value", ctxValue)
		if err != nil {
			return nil, err
		}
		out = append(out, queryir.FieldValuePair{Field: field, Value: v.(queryir.Value)})
	}
	return out, nil
}

func literal(raw any, path string) (queryir.Literal, error) {
	obj, typ, err := typedObject(raw, path)
	if err != nil {
		return queryir.Literal{}, err
	}
	if err := checkKeys(obj, path, "@value"); err != nil {
		return queryir.Literal{}, err
	}
	canonical, ok := xsd.CanonicalType(typ)
	if !ok {
		return queryir.Literal{}, errorf(ErrCodeUnknownType, path+".@type", "unknown literal type %q", typ)
	}

	var text string
	switch v := obj["@value"].(type) {
	case nil:
		return queryir.Literal{}, errorf(ErrCodeMissingField, path+".@value", "literal requires @value")
	case string:
		text = v
	case json.Number:
		switch canonical {
		case xsd.TypeDecimal, xsd.TypeUnsignedInt, xsd.TypeFloat:
			text = v.String()
		default:
			return queryir.Literal{}, errorf(ErrCodeShapeMismatch, path+".@value", "%s expects a string, got a number", typ)
		}
	case bool:
		if canonical != xsd.TypeBoolean {
			return queryir.Literal{}, errorf(ErrCodeShapeMismatch, path+".@value", "%s expects a string, got a boolean", typ)
		}
		text = strconv.FormatBool(v)
	default:
		return queryir.Literal{}, errorf(ErrCodeShapeMismatch, path+".@value", "expected a scalar, got %s", describeJSON(v))
	}

	lit, err := xsd.Parse(canonical, text)
	if err != nil {
		return queryir.Literal{}, errorf(ErrCodeInvalidLiteral, path+".@value", "%v", err)
	}
	return queryir.Lit(lit), nil
}

func orderTemplate(raw any, path string) (queryir.OrderTemplate, error) {
	obj, typ, err := typedObject(raw, path)
	if err != nil {
		return queryir.OrderTemplate{}, err
	}
	if typ != "OrderTemplate" {
		return queryir.OrderTemplate{}, errorf(ErrCodeUnknownType, path+".@type", "expected OrderTemplate, got %q", typ)
	}
	if err := checkKeys(obj, path, "variable", "order"); err != nil {
		return queryir.OrderTemplate{}, err
	}
	name, err := str(obj["variable"], path+".variable")
	if err != nil {
		return queryir.OrderTemplate{}, err
	}
	order, err := str(obj["order"], path+".order")
	if err != nil {
		return queryir.OrderTemplate{}, err
	}
	if order != string(queryir.Asc) && order != string(queryir.Desc) {
		return queryir.OrderTemplate{}, errorf(ErrCodeShapeMismatch, path+".order", "invalid order %q, expected asc or desc", order)
	}
	return queryir.OrderTemplate{Variable: queryir.Var(name), Order: queryir.Order(order)}, nil
}

func (r *reader) path(raw any, path string, depth int) (queryir.PathPattern, error) {
	obj, typ, err := typedObject(raw, path)
	if err != nil {
		return nil, err
	}
	if depth+1 > r.limit {
		return nil, errorf(ErrCodeTooDeep, path, "path nesting exceeds maximum depth %d", r.limit)
	}

	sub := func(key string) (queryir.PathPattern, error) {
		if err := checkKeys(obj, path, key); err != nil {
			return nil, err
		}
		if obj[key] == nil {
			return nil, errorf(ErrCodeMissingField, path+"."+key, "%s requires %s", typ, key)
		}
		return r.path(obj[key], path+"."+key, depth+1)
	}
	subs := func(key string) ([]queryir.PathPattern, error) {
		if err := checkKeys(obj, path, key); err != nil {
			return nil, err
		}
		arr, err := array(obj[key], path+"."+key)
		if err != nil {
			return nil, err
		}
		out := make([]queryir.PathPattern, len(arr))
		for i, e := range arr {
			if out[i], err = r.path(e, index(path+"."+key, i), depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	switch typ {
	case "PathPredicate", "InversePathPredicate":
		if err := checkKeys(obj, path, "predicate"); err != nil {
			return nil, err
		}
		var pred string
		if obj["predicate"] != nil {
			if pred, err = str(obj["predicate"], path+".predicate"); err != nil {
				return nil, err
			}
		}
		if typ == "PathPredicate" {
			return queryir.PathPredicate{Predicate: pred}, nil
		}
		if pred == "" {
			return nil, errorf(ErrCodeMissingField, path+".predicate", "InversePathPredicate requires predicate")
		}
		return queryir.InversePathPredicate{Predicate: pred}, nil
	case "PathSequence":
		ps, err := subs("sequence")
		if err != nil {
			return nil, err
		}
		return queryir.PathSequence(ps), nil
	case "PathOr":
		ps, err := subs("or")
		if err != nil {
			return nil, err
		}
		return queryir.PathOr(ps), nil
	case "PathPlus":
		p, err := sub("plus")
		if err != nil {
			return nil, err
		}
		return queryir.PathPlus{Pattern: p}, nil
	case "PathStar":
		p, err := sub("star")
		if err != nil {
			return nil, err
		}
		return queryir.PathStar{Pattern: p}, nil
	case "PathTimes":
		if err := checkKeys(obj, path, "times", "from", "to"); err != nil {
			return nil, err
		}
		if obj["times"] == nil {
			return nil, errorf(ErrCodeMissingField, path+".times", "PathTimes requires times")
		}
		p, err := r.path(obj["times"], path+".times", depth+1)
		if err != nil {
			return nil, err
		}
		from, err := unsigned(obj["from"], path+".from")
		if err != nil {
			return nil, err
		}
		to, err := unsigned(obj["to"], path+".to")
		if err != nil {
			return nil, err
		}
		return queryir.PathTimes{Pattern: p, From: from, To: to}, nil
	}
	return nil, errorf(ErrCodeUnknownType, path+".@type", "unknown path pattern type %q", typ)
}

func (r *reader) arith(raw any, path string) (queryir.ArithmeticExpression, error) {
	obj, typ, err := typedObject(raw, path)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "ArithmeticValue":
		v, err := r.variant(obj, path, ctxData)
		if err != nil {
			return nil, err
		}
		if _, isList := v.(queryir.DataList); isList {
			return nil, errorf(ErrCodeShapeMismatch, path+".list", "arithmetic operand cannot be a list")
		}
		return queryir.ArithmeticValue{Value: v.(queryir.DataValue)}, nil
	case "Floor":
		if err := checkKeys(obj, path, "argument"); err != nil {
			return nil, err
		}
		if obj["argument"] == nil {
			return nil, errorf(ErrCodeMissingField, path+".argument", "Floor requires argument")
		}
		arg, err := r.arith(obj["argument"], path+".argument")
		if err != nil {
			return nil, err
		}
		return queryir.Floor{Argument: arg}, nil
	}

	op, ok := queryir.LookupArithmetic(typ)
	if !ok || op.Type != typ {
		return nil, errorf(ErrCodeUnknownType, path+".@type", "unknown arithmetic type %q", typ)
	}
	if err := checkKeys(obj, path, "left", "right"); err != nil {
		return nil, err
	}
	operands := make([]queryir.ArithmeticExpression, 2)
	for i, key := range []string{"left", "right"} {
		if obj[key] == nil {
			return nil, errorf(ErrCodeMissingField, path+"."+key, "%s requires %s", typ, key)
		}
		if operands[i], err = r.arith(obj[key], path+"."+key); err != nil {
			return nil, err
		}
	}
	return op.New(operands[0], operands[1]), nil
}

func array(raw any, path string) ([]any, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, errorf(ErrCodeShapeMismatch, path, "expected an array, got %s", describeJSON(raw))
	}
	return arr, nil
}

func str(raw any, path string) (string, error) {
	s, ok := raw.(string)
	if !ok {
		if raw == nil {
			return "", errorf(ErrCodeMissingField, path, "missing string")
		}
		return "", errorf(ErrCodeShapeMismatch, path, "expected a string, got %s", describeJSON(raw))
	}
	return s, nil
}

func stringArray(raw any, path string) ([]string, error) {
	arr, err := array(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(arr))
	for i, e := range arr {
		if out[i], err = str(e, index(path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// unsigned accepts a JSON number, or an xsd:nonNegativeInteger style literal
// object as older documents carry.
func unsigned(raw any, path string) (uint64, error) {
	if obj, ok := raw.(map[string]any); ok {
		lit, err := literal(obj, path)
		if err != nil {
			return 0, err
		}
		if u, ok := lit.Data.(xsd.UnsignedInt); ok {
			return uint64(u), nil
		}
		return 0, errorf(ErrCodeShapeMismatch, path, "expected a non-negative integer, got %s", queryir.Describe(lit))
	}
	n, ok := raw.(json.Number)
	if !ok {
		if raw == nil {
			return 0, errorf(ErrCodeMissingField, path, "missing number")
		}
		return 0, errorf(ErrCodeShapeMismatch, path, "expected a number, got %s", describeJSON(raw))
	}
	u, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, errorf(ErrCodeShapeMismatch, path, "expected a non-negative integer, got %s", n)
	}
	return u, nil
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func describeJSON(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", x)
	}
}
