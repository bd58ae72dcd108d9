package builder

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/xsd"
)

// sigil returns the variable named by a "$X" or "v:X" string.
func sigil(s string) (name string, ok bool) {
	switch {
	case strings.HasPrefix(s, "$"):
		return s[1:], true
	case strings.HasPrefix(s, queryir.VariablePrefix):
		return s[len(queryir.VariablePrefix):], true
	}
	return "", false
}

func variableFromString(op, s string) (queryir.Variable, *BuildError) {
	name, _ := sigil(s)
	if !queryir.ValidVariableName(name) {
		return "", errorf(ErrCodeInvalidVariable, op, "invalid variable name %q", s)
	}
	return queryir.Variable(name), nil
}

// toVariable accepts a Variable or a sigil string and nothing else.
func toVariable(op string, arg any) (queryir.Variable, *BuildError) {
	switch v := arg.(type) {
	case queryir.Variable:
		if !queryir.ValidVariableName(string(v)) {
			return "", errorf(ErrCodeInvalidVariable, op, "invalid variable name %q", string(v))
		}
		return v, nil
	case string:
		if _, ok := sigil(v); ok {
			return variableFromString(op, v)
		}
	}
	return "", errorf(ErrCodeNonVariable, op, "non-variable %s argument: %s", op, queryir.Describe(arg))
}

func toVariables(op string, args []any) ([]queryir.Variable, *BuildError) {
	out := make([]queryir.Variable, 0, len(args))
	for _, a := range flatten(args) {
		v, err := toVariable(op, a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// flatten spreads a single slice argument so that Select("v:A", "v:B")
// and Select([]string{"v:A", "v:B"}) agree.
func flatten(args []any) []any {
	if len(args) != 1 {
		return args
	}
	rv := reflect.ValueOf(args[0])
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return args
	}
	switch args[0].(type) {
	case queryir.ValueList, queryir.DataList:
		return args
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// toLiteral converts Go primitives and xsd literals. ok is false when arg
// is not literal-shaped at all.
func toLiteral(op string, arg any) (lit queryir.Literal, ok bool, err *BuildError) {
	switch v := arg.(type) {
	case queryir.Literal:
		return v, true, nil
	case xsd.Literal:
		if err := xsd.Check(v); err != nil {
			return queryir.Literal{}, true, errorf(ErrCodeInvalidLiteral, op, "%s", err)
		}
		return queryir.Lit(v), true, nil
	case bool:
		return queryir.Bool(v), true, nil
	case time.Time:
		return queryir.Lit(xsd.NewDateTime(v)), true, nil
	case []byte:
		return queryir.Lit(xsd.HexBinary(v)), true, nil
	}

	rv := reflect.ValueOf(arg)
	if !rv.IsValid() {
		return queryir.Literal{}, false, nil
	}
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return queryir.Uint(rv.Uint()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n >= 0 {
			return queryir.Uint(uint64(n)), true, nil
		}
		return queryir.Lit(xsd.MustDecimal(strconv.FormatInt(n, 10))), true, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return queryir.Literal{}, true, errorf(ErrCodeInvalidLiteral, op, "non-finite number %v", f)
		}
		return queryir.Lit(xsd.Float(f)), true, nil
	}
	return queryir.Literal{}, false, nil
}

// toValue interprets arg in a Value position, where plain strings are nodes.
func toValue(op string, arg any) (queryir.Value, *BuildError) {
	return value(op, arg, false)
}

func value(op string, arg any, inDict bool) (queryir.Value, *BuildError) {
	switch v := arg.(type) {
	case nil:
		return nil, errorf(ErrCodeInvalidArgument, op, "missing value")
	case queryir.Variable:
		return toVariable(op, v)
	case queryir.Value:
		return v, nil
	case queryir.DataList:
		out := make(queryir.ValueList, len(v))
		for i, e := range v {
			ev, err := value(op, e, true)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case string:
		if _, ok := sigil(v); ok {
			return variableFromString(op, v)
		}
		if inDict {
			return queryir.Str(v), nil
		}
		return queryir.NodeURI(v), nil
	case map[string]any:
		return toDictionary(op, v)
	}

	lit, ok, err := toLiteral(op, arg)
	if err != nil {
		return nil, err
	}
	if ok {
		return lit, nil
	}
	if elems, ok := sliceElems(arg); ok {
		out := make(queryir.ValueList, len(elems))
		for i, e := range elems {
			ev, err := value(op, e, inDict)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	}
	return nil, errorf(ErrCodeInvalidArgument, op, "cannot use %s as a value", queryir.Describe(arg))
}

// toDictionary orders map keys so the result is deterministic.
func toDictionary(op string, m map[string]any) (queryir.Dictionary, *BuildError) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(queryir.Dictionary, 0, len(m))
	for _, k := range keys {
		v, err := value(op, m[k], true)
		if err != nil {
			return nil, err
		}
		out = append(out, queryir.Pair(k, v))
	}
	return out, nil
}

// toNode interprets arg in a NodeValue position.
func toNode(op string, arg any) (queryir.NodeValue, *BuildError) {
	switch v := arg.(type) {
	case queryir.Variable:
		return toVariable(op, v)
	case queryir.NodeValue:
		return v, nil
	case string:
		if _, ok := sigil(v); ok {
			return variableFromString(op, v)
		}
		return queryir.NodeURI(v), nil
	}
	return nil, errorf(ErrCodeInvalidArgument, op, "expected a node or variable, got %s", queryir.Describe(arg))
}

// toData interprets arg in a DataValue position, where plain strings are
// xsd:string literals.
func toData(op string, arg any) (queryir.DataValue, *BuildError) {
	switch v := arg.(type) {
	case nil:
		return nil, errorf(ErrCodeInvalidArgument, op, "missing value")
	case queryir.Variable:
		return toVariable(op, v)
	case queryir.DataValue:
		return v, nil
	case string:
		if _, ok := sigil(v); ok {
			return variableFromString(op, v)
		}
		return queryir.Str(v), nil
	}

	lit, ok, err := toLiteral(op, arg)
	if err != nil {
		return nil, err
	}
	if ok {
		return lit, nil
	}
	if elems, ok := sliceElems(arg); ok {
		out := make(queryir.DataList, len(elems))
		for i, e := range elems {
			d, err := toData(op, e)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	}
	return nil, errorf(ErrCodeInvalidArgument, op, "expected data, got %s", queryir.Describe(arg))
}

func sliceElems(arg any) ([]any, bool) {
	rv := reflect.ValueOf(arg)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toUint(op string, arg any) (uint64, *BuildError) {
	rv := reflect.ValueOf(arg)
	if rv.IsValid() {
		switch rv.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return rv.Uint(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.Int() >= 0 {
				return uint64(rv.Int()), nil
			}
		}
	}
	return 0, errorf(ErrCodeInvalidArgument, op, "expected a non-negative integer, got %s", queryir.Describe(arg))
}

func toGraph(op string, arg any) (queryir.GraphType, *BuildError) {
	var g queryir.GraphType
	switch v := arg.(type) {
	case queryir.GraphType:
		g = v
	case string:
		g = queryir.GraphType(v)
	default:
		return "", errorf(ErrCodeInvalidArgument, op, "expected a graph, got %s", queryir.Describe(arg))
	}
	if !g.Valid() {
		return "", errorf(ErrCodeInvalidArgument, op, "invalid graph %q, expected instance or schema", string(g))
	}
	return g, nil
}

func toPath(op string, arg any) (queryir.PathPattern, *BuildError) {
	switch v := arg.(type) {
	case queryir.PathPattern:
		return v, nil
	case string:
		p, err := queryir.ParsePathPattern(v)
		if err != nil {
			return nil, errorf(ErrCodeInvalidArgument, op, "%v", err)
		}
		return p, nil
	}
	return nil, errorf(ErrCodeInvalidArgument, op, "expected a path pattern, got %s", queryir.Describe(arg))
}

func toArith(op string, arg any) (queryir.ArithmeticExpression, *BuildError) {
	if e, ok := arg.(queryir.ArithmeticExpression); ok {
		return e, nil
	}
	d, err := toData(op, arg)
	if err != nil {
		return nil, err
	}
	return queryir.ArithmeticValue{Value: d}, nil
}

func toOrder(op string, arg any) (queryir.OrderTemplate, *BuildError) {
	if o, ok := arg.(queryir.OrderTemplate); ok {
		if o.Order != queryir.Asc && o.Order != queryir.Desc {
			return queryir.OrderTemplate{}, errorf(ErrCodeInvalidArgument, op, "invalid order %q", string(o.Order))
		}
		if _, err := toVariable(op, o.Variable); err != nil {
			return queryir.OrderTemplate{}, err
		}
		return o, nil
	}
	v, err := toVariable(op, arg)
	if err != nil {
		return queryir.OrderTemplate{}, err
	}
	return queryir.OrderTemplate{Variable: v, Order: queryir.Asc}, nil
}

// Asc orders by v ascending. v is a Variable or sigil string.
func Asc(v any) queryir.OrderTemplate { return order(v, queryir.Asc) }

// Desc orders by v descending.
func Desc(v any) queryir.OrderTemplate { return order(v, queryir.Desc) }

func order(v any, o queryir.Order) queryir.OrderTemplate {
	var name queryir.Variable
	switch x := v.(type) {
	case queryir.Variable:
		name = x
	case string:
		name = queryir.Var(x)
	}
	return queryir.OrderTemplate{Variable: name, Order: o}
}
