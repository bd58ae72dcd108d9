package queryir

import "reflect"

// Equal reports whether two queries are structurally equal.
//
// It behaves like reflect.DeepEqual except that a nil slice equals an empty
// one, so trees produced by the parsers, the decoder and the builder compare
// equal whatever their slice allocation.
func Equal(a, b Query) bool {
	return deepEqual(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

// EqualValues is Equal for values.
func EqualValues(a, b Value) bool {
	return deepEqual(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

func deepEqual(x, y reflect.Value) bool {
	if x.Type() != y.Type() {
		return false
	}
	switch x.Kind() {
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}
		ex, ey := x.Elem(), y.Elem()
		if ex.Type() != ey.Type() {
			return false
		}
		return deepEqual(ex, ey)
	case reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !deepEqual(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !deepEqual(x.Field(i), y.Field(i)) {
				return false
			}
		}
		return true
	case reflect.String:
		return x.String() == y.String()
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	default:
		return false
	}
}

// Children returns the direct sub-queries of q in field declaration order.
func Children(q Query) []Query {
	op := OperatorFor(q)
	if op == nil {
		return nil
	}
	var out []Query
	for i, f := range op.Fields {
		switch f.Kind {
		case FieldQuery:
			if sub, _ := op.Get(q, i).(Query); sub != nil {
				out = append(out, sub)
			}
		case FieldQueryList:
			for _, sub := range op.Get(q, i).([]Query) {
				if sub != nil {
					out = append(out, sub)
				}
			}
		}
	}
	return out
}

// Walk visits q and its sub-queries in pre-order, children in field
// declaration order. Returning false from fn skips the node's children.
func Walk(q Query, fn func(Query) bool) {
	if q == nil || !fn(q) {
		return
	}
	for _, child := range Children(q) {
		Walk(child, fn)
	}
}

// Depth returns the query nesting depth: 0 for nil, 1 for a leaf.
func Depth(q Query) int {
	if q == nil {
		return 0
	}
	deepest := 0
	for _, child := range Children(q) {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Variables returns every variable mentioned in q, in order of first
// appearance.
func Variables(q Query) []Variable {
	c := &varCollector{seen: map[Variable]bool{}}
	c.query(q)
	return c.vars
}

type varCollector struct {
	seen map[Variable]bool
	vars []Variable
}

func (c *varCollector) add(v Variable) {
	if !c.seen[v] {
		c.seen[v] = true
		c.vars = append(c.vars, v)
	}
}

func (c *varCollector) query(q Query) {
	op := OperatorFor(q)
	if op == nil {
		return
	}
	for i, f := range op.Fields {
		val := op.Get(q, i)
		switch f.Kind {
		case FieldQuery:
			if sub, _ := val.(Query); sub != nil {
				c.query(sub)
			}
		case FieldQueryList:
			for _, sub := range val.([]Query) {
				c.query(sub)
			}
		case FieldVariableList:
			for _, v := range val.([]Variable) {
				c.add(v)
			}
		case FieldOrderList:
			for _, o := range val.([]OrderTemplate) {
				c.add(o.Variable)
			}
		case FieldValueList:
			for _, v := range val.([]Value) {
				c.value(v)
			}
		case FieldArith:
			if e, _ := val.(ArithmeticExpression); e != nil {
				c.arith(e)
			}
		case FieldValue, FieldNodeValue, FieldDataValue, FieldDataList:
			c.value(val)
		}
	}
}

func (c *varCollector) value(v any) {
	switch val := v.(type) {
	case Variable:
		c.add(val)
	case ValueList:
		for _, e := range val {
			c.value(e)
		}
	case DataList:
		for _, e := range val {
			c.value(e)
		}
	case Dictionary:
		for _, p := range val {
			c.value(p.Value)
		}
	}
}

func (c *varCollector) arith(e ArithmeticExpression) {
	switch x := e.(type) {
	case ArithmeticValue:
		c.value(x.Value)
	case Floor:
		if x.Argument != nil {
			c.arith(x.Argument)
		}
	default:
		if _, l, r, ok := SplitArithmetic(e); ok {
			if l != nil {
				c.arith(l)
			}
			if r != nil {
				c.arith(r)
			}
		}
	}
}
