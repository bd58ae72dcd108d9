package syntax

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/xsd"
)

// Raise converts a query into a parse tree that lowers back to an equal
// query. It is the common half of both printers; each syntax then renders
// the tree with its own spelling.
//
// Raise validates q first and returns the validation error for malformed
// trees.
func Raise(q queryir.Query) (Node, error) {
	if err := queryir.Validate(q); err != nil {
		return nil, err
	}
	return raiseQuery(q), nil
}

func raiseQuery(q queryir.Query) *Call {
	op := queryir.OperatorFor(q)
	call := &Call{Name: op.Name()}
	for i, f := range op.Fields {
		if f.Optional && op.IsZero(q, i) {
			continue
		}
		val := op.Get(q, i)
		if f.Variadic {
			elems := raiseSlice(f, val)
			// A lone list argument would be spread over the variadic field
			// when parsed back, so wrap it.
			if len(elems) == 1 {
				if _, isList := elems[0].(*List); isList {
					elems = []Node{&List{Elems: elems}}
				}
			}
			call.Args = append(call.Args, elems...)
			continue
		}
		call.Args = append(call.Args, raiseField(f, val))
	}
	return call
}

func raiseSlice(f queryir.Field, val any) []Node {
	var out []Node
	switch f.Kind {
	case queryir.FieldQueryList:
		for _, q := range val.([]queryir.Query) {
			out = append(out, raiseQuery(q))
		}
	case queryir.FieldVariableList:
		for _, v := range val.([]queryir.Variable) {
			out = append(out, &Var{Name: string(v)})
		}
	case queryir.FieldValueList:
		for _, v := range val.([]queryir.Value) {
			out = append(out, raiseValue(v, posValue))
		}
	case queryir.FieldOrderList:
		for _, o := range val.([]queryir.OrderTemplate) {
			out = append(out, &Call{Name: string(o.Order), Args: []Node{&Var{Name: string(o.Variable)}}})
		}
	case queryir.FieldStringList:
		for _, s := range val.([]string) {
			out = append(out, &String{Value: s})
		}
	}
	return out
}

func raiseField(f queryir.Field, val any) Node {
	switch f.Kind {
	case queryir.FieldQuery:
		return raiseQuery(val.(queryir.Query))
	case queryir.FieldValue:
		return raiseValue(val, posValue)
	case queryir.FieldNodeValue:
		return raiseValue(val, posNode)
	case queryir.FieldDataValue, queryir.FieldDataList:
		return raiseValue(val, posData)
	case queryir.FieldString:
		return &String{Value: val.(string)}
	case queryir.FieldUint:
		return &Number{Text: strconv.FormatUint(val.(uint64), 10)}
	case queryir.FieldGraph:
		return &String{Value: string(val.(queryir.GraphType))}
	case queryir.FieldPath:
		return raisePath(val.(queryir.PathPattern))
	case queryir.FieldArith:
		return raiseArith(val.(queryir.ArithmeticExpression))
	}
	return &List{Elems: raiseSlice(f, val)}
}

func raiseValue(v any, pos position) Node {
	switch val := v.(type) {
	case queryir.Variable:
		return &Var{Name: string(val)}
	case queryir.NodeURI:
		if pos == posValue || pos == posNode {
			return &String{Value: string(val)}
		}
		return &Call{Name: "node", Args: []Node{&String{Value: string(val)}}}
	case queryir.Literal:
		return raiseLiteral(val.Data, pos)
	case queryir.ValueList:
		l := &List{}
		for _, e := range val {
			l.Elems = append(l.Elems, raiseValue(e, pos))
		}
		return l
	case queryir.DataList:
		l := &List{}
		for _, e := range val {
			l.Elems = append(l.Elems, raiseValue(e, posData))
		}
		return l
	case queryir.Dictionary:
		d := &Dict{}
		for _, p := range val {
			d.Entries = append(d.Entries, DictEntry{Key: p.Field, Value: raiseValue(p.Value, posDictValue)})
		}
		return d
	}
	panic(fmt.Sprintf("syntax: cannot raise %T", v))
}

func raiseLiteral(lit xsd.Literal, pos position) Node {
	switch l := lit.(type) {
	case xsd.String:
		if pos == posData || pos == posDictValue {
			return &String{Value: string(l)}
		}
	case xsd.Boolean:
		return &Bool{Value: bool(l)}
	case xsd.UnsignedInt, xsd.Decimal, xsd.Float:
		// Bare numbers are classified on the way back in; keep the bare form
		// only when that classification reproduces the literal.
		text := lit.String()
		if parsed, err := xsd.ParseNumber(text); err == nil && reflect.DeepEqual(parsed, lit) {
			return &Number{Text: text}
		}
	}
	return &Typed{Text: lit.String(), Type: lit.XSDType()}
}

func raisePath(p queryir.PathPattern) Node {
	text := queryir.FormatPathPattern(p)
	if parsed, err := queryir.ParsePathPattern(text); err == nil && reflect.DeepEqual(parsed, p) {
		return &String{Value: text}
	}
	return raisePathCall(p)
}

func raisePathCall(p queryir.PathPattern) Node {
	switch pat := p.(type) {
	case queryir.PathPredicate:
		if pat.Predicate == "" {
			return &Call{Name: "pred"}
		}
		return &Call{Name: "pred", Args: []Node{&String{Value: pat.Predicate}}}
	case queryir.InversePathPredicate:
		return &Call{Name: "inv", Args: []Node{&String{Value: pat.Predicate}}}
	case queryir.PathSequence:
		c := &Call{Name: "seq"}
		for _, sub := range pat {
			c.Args = append(c.Args, raisePathCall(sub))
		}
		return c
	case queryir.PathOr:
		c := &Call{Name: "or"}
		for _, sub := range pat {
			c.Args = append(c.Args, raisePathCall(sub))
		}
		return c
	case queryir.PathPlus:
		return &Call{Name: "plus", Args: []Node{raisePathCall(pat.Pattern)}}
	case queryir.PathStar:
		return &Call{Name: "star", Args: []Node{raisePathCall(pat.Pattern)}}
	case queryir.PathTimes:
		return &Call{Name: "times", Args: []Node{
			raisePathCall(pat.Pattern),
			&Number{Text: strconv.FormatUint(pat.From, 10)},
			&Number{Text: strconv.FormatUint(pat.To, 10)},
		}}
	}
	panic(fmt.Sprintf("syntax: cannot raise path %T", p))
}

func raiseArith(e queryir.ArithmeticExpression) Node {
	switch x := e.(type) {
	case queryir.ArithmeticValue:
		return raiseValue(x.Value, posData)
	case queryir.Floor:
		return &Call{Name: "floor", Args: []Node{raiseArith(x.Argument)}}
	}
	typ, l, r, _ := queryir.SplitArithmetic(e)
	op, _ := queryir.LookupArithmetic(typ)
	return &Call{Name: op.Name, Args: []Node{raiseArith(l), raiseArith(r)}}
}
