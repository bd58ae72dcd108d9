package syntax

import (
	"errors"
	"strconv"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/xsd"
)

// position decides how a bare string argument is read.
type position int

const (
	posValue     position = iota // strings are nodes
	posNode                      // strings are nodes; only nodes and variables allowed
	posData                      // strings are data; no dictionaries or nodes
	posDictValue                 // strings are data; otherwise as posValue
)

// Lower converts a parse tree rooted at a query call into the algebra.
//
// Arguments are interpreted by the kind of the operator field they bind to,
// which is how "name" becomes a node in triple($P, "name", $N) but a string
// in concatenate(["name", $X], $R).
func Lower(n Node) (queryir.Query, error) {
	return lowerQuery(n)
}

func lowerQuery(n Node) (queryir.Query, error) {
	switch x := n.(type) {
	case *Call:
		return lowerCall(x)
	case *Bool:
		if x.Value {
			return queryir.True{}, nil
		}
		return queryir.False{}, nil
	}
	return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "expected a query, got %s", Describe(n))
}

func lowerCall(c *Call) (queryir.Query, error) {
	op, ok := queryir.LookupName(c.Name)
	if !ok {
		return nil, Errorf(ErrCodeInvalidFunction, c.Offset, "unknown function %q", c.Name)
	}
	if !op.AcceptsArity(len(c.Args)) {
		return nil, NewArgumentCountError(c.Name, op.ExpectedArity(), len(c.Args), c.Offset)
	}

	groups := bindArgs(op, c.Args)
	values := make([]any, len(op.Fields))
	for i, f := range op.Fields {
		nodes := groups[i]
		var (
			v   any
			err error
		)
		switch {
		case f.Variadic:
			if len(nodes) == 1 {
				if l, ok := nodes[0].(*List); ok {
					nodes = l.Elems
				}
			}
			v, err = lowerSlice(op, f, nodes)
		case len(nodes) == 0:
			continue
		default:
			v, err = lowerField(op, f, nodes[0])
		}
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	q, err := op.Build(values)
	if err != nil {
		return nil, Errorf(ErrCodeInvalidArgument, c.Offset, "%v", err)
	}
	return q, nil
}

// bindArgs splits positional arguments over the operator's fields. Fields
// before a variadic field take one argument each, as do fields after it,
// counted from the end; the variadic field takes what is left.
func bindArgs(op *queryir.Operator, args []Node) [][]Node {
	groups := make([][]Node, len(op.Fields))
	vi := -1
	for i, f := range op.Fields {
		if f.Variadic {
			vi = i
		}
	}
	if vi < 0 {
		for i := range args {
			groups[i] = args[i : i+1]
		}
		return groups
	}

	after := len(op.Fields) - vi - 1
	for i := 0; i < vi; i++ {
		groups[i] = args[i : i+1]
	}
	groups[vi] = args[vi : len(args)-after]
	for k := 0; k < after; k++ {
		j := len(args) - after + k
		groups[vi+1+k] = args[j : j+1]
	}
	return groups
}

func lowerSlice(op *queryir.Operator, f queryir.Field, nodes []Node) (any, error) {
	switch f.Kind {
	case queryir.FieldQueryList:
		out := make([]queryir.Query, 0, len(nodes))
		for _, n := range nodes {
			q, err := lowerQuery(n)
			if err != nil {
				return nil, err
			}
			out = append(out, q)
		}
		return out, nil
	case queryir.FieldVariableList:
		out := make([]queryir.Variable, 0, len(nodes))
		for _, n := range nodes {
			v, ok := n.(*Var)
			if !ok {
				return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "non-variable %s argument: %s", op.Name(), Describe(n))
			}
			out = append(out, queryir.Variable(v.Name))
		}
		return out, nil
	case queryir.FieldValueList:
		out := make([]queryir.Value, 0, len(nodes))
		for _, n := range nodes {
			v, err := lowerValue(n, posValue)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case queryir.FieldOrderList:
		out := make([]queryir.OrderTemplate, 0, len(nodes))
		for _, n := range nodes {
			o, err := lowerOrder(n)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
		return out, nil
	case queryir.FieldStringList:
		out := make([]string, 0, len(nodes))
		for _, n := range nodes {
			switch x := n.(type) {
			case *String:
				out = append(out, x.Value)
			case *Var:
				out = append(out, x.Name)
			default:
				return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "%s expects names for %s, got %s", op.Name(), f.Name, Describe(n))
			}
		}
		return out, nil
	}
	return nil, Errorf(ErrCodeInvalidArgument, 0, "%s: field %s is not a list", op.Name(), f.Name)
}

func lowerField(op *queryir.Operator, f queryir.Field, n Node) (any, error) {
	switch f.Kind {
	case queryir.FieldQuery:
		return lowerQuery(n)
	case queryir.FieldValue:
		return lowerValue(n, posValue)
	case queryir.FieldNodeValue:
		return lowerNode(n)
	case queryir.FieldDataValue, queryir.FieldDataList:
		return lowerData(n)
	case queryir.FieldQueryList, queryir.FieldValueList, queryir.FieldVariableList,
		queryir.FieldOrderList, queryir.FieldStringList:
		if v, ok := n.(*Var); ok && f.Kind == queryir.FieldVariableList {
			return []queryir.Variable{queryir.Variable(v.Name)}, nil
		}
		l, ok := n.(*List)
		if !ok {
			return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "%s expects a list for %s, got %s", op.Name(), f.Name, Describe(n))
		}
		return lowerSlice(op, f, l.Elems)
	case queryir.FieldString:
		s, ok := n.(*String)
		if !ok {
			return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "%s expects a string for %s, got %s", op.Name(), f.Name, Describe(n))
		}
		return s.Value, nil
	case queryir.FieldUint:
		if num, ok := n.(*Number); ok {
			if lit, err := xsd.ParseNumber(num.Text); err == nil {
				if u, ok := lit.(xsd.UnsignedInt); ok {
					return uint64(u), nil
				}
			}
		}
		return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "%s expects a non-negative integer for %s, got %s", op.Name(), f.Name, Describe(n))
	case queryir.FieldGraph:
		if s, ok := n.(*String); ok {
			if g := queryir.GraphType(s.Value); g != "" && g.Valid() {
				return g, nil
			}
			return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "invalid graph %q, expected instance or schema", s.Value)
		}
		return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "%s expects a graph name, got %s", op.Name(), Describe(n))
	case queryir.FieldPath:
		return lowerPath(n)
	case queryir.FieldArith:
		return lowerArith(n)
	}
	return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "unsupported field kind %s", f.Kind)
}

func lowerValue(n Node, pos position) (queryir.Value, error) {
	switch x := n.(type) {
	case *Var:
		return queryir.Variable(x.Name), nil
	case *String:
		if pos == posDictValue {
			return queryir.Str(x.Value), nil
		}
		return queryir.NodeURI(x.Value), nil
	case *Number, *Bool, *Typed:
		return lowerLiteral(n)
	case *List:
		out := make(queryir.ValueList, 0, len(x.Elems))
		for _, e := range x.Elems {
			v, err := lowerValue(e, pos)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *Dict:
		out := make(queryir.Dictionary, 0, len(x.Entries))
		seen := map[string]bool{}
		for _, entry := range x.Entries {
			if seen[entry.Key] {
				return nil, Errorf(ErrCodeInvalidArgument, entry.Value.Pos(), "duplicate dictionary key %q", entry.Key)
			}
			seen[entry.Key] = true
			v, err := lowerValue(entry.Value, posDictValue)
			if err != nil {
				return nil, err
			}
			out = append(out, queryir.FieldValuePair{Field: entry.Key, Value: v})
		}
		return out, nil
	case *Call:
		switch x.Name {
		case "node":
			return lowerNodeCall(x)
		case "string", "literal":
			return lowerLiteralCall(x)
		case "data":
			if len(x.Args) != 1 {
				return nil, NewArgumentCountError(x.Name, "1", len(x.Args), x.Offset)
			}
			return lowerValue(x.Args[0], posDictValue)
		}
	}
	return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "expected a value, got %s", Describe(n))
}

func lowerNode(n Node) (queryir.NodeValue, error) {
	switch x := n.(type) {
	case *Var:
		return queryir.Variable(x.Name), nil
	case *String:
		return queryir.NodeURI(x.Value), nil
	case *Call:
		if x.Name == "node" {
			return lowerNodeCall(x)
		}
	}
	return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "expected a node or variable, got %s", Describe(n))
}

func lowerData(n Node) (queryir.DataValue, error) {
	switch x := n.(type) {
	case *Var:
		return queryir.Variable(x.Name), nil
	case *String:
		return queryir.Str(x.Value), nil
	case *Number, *Bool, *Typed:
		return lowerLiteral(n)
	case *List:
		out := make(queryir.DataList, 0, len(x.Elems))
		for _, e := range x.Elems {
			v, err := lowerData(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *Call:
		switch x.Name {
		case "string", "literal":
			return lowerLiteralCall(x)
		case "data":
			if len(x.Args) != 1 {
				return nil, NewArgumentCountError(x.Name, "1", len(x.Args), x.Offset)
			}
			return lowerData(x.Args[0])
		}
	}
	return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "expected data, got %s", Describe(n))
}

func lowerLiteral(n Node) (queryir.Literal, error) {
	switch x := n.(type) {
	case *Number:
		lit, err := xsd.ParseNumber(x.Text)
		if err != nil {
			return queryir.Literal{}, Errorf(ErrCodeInvalidLiteral, x.Offset, "%v", err)
		}
		return queryir.Lit(lit), nil
	case *Bool:
		return queryir.Bool(x.Value), nil
	case *Typed:
		lit, err := xsd.Parse(x.Type, x.Text)
		if err != nil {
			return queryir.Literal{}, Errorf(ErrCodeInvalidLiteral, x.Offset, "%v", err)
		}
		return queryir.Lit(lit), nil
	}
	return queryir.Literal{}, Errorf(ErrCodeInvalidLiteral, n.Pos(), "expected a literal, got %s", Describe(n))
}

func lowerNodeCall(c *Call) (queryir.NodeURI, error) {
	if len(c.Args) != 1 {
		return "", NewArgumentCountError(c.Name, "1", len(c.Args), c.Offset)
	}
	s, ok := c.Args[0].(*String)
	if !ok {
		return "", Errorf(ErrCodeInvalidArgument, c.Args[0].Pos(), "node expects a string, got %s", Describe(c.Args[0]))
	}
	return queryir.NodeURI(s.Value), nil
}

// lowerLiteralCall handles string(s) and literal(text, type).
func lowerLiteralCall(c *Call) (queryir.Literal, error) {
	want := 1
	if c.Name == "literal" {
		want = 2
	}
	if len(c.Args) != want {
		return queryir.Literal{}, NewArgumentCountError(c.Name, strconv.Itoa(want), len(c.Args), c.Offset)
	}
	text, ok := c.Args[0].(*String)
	if !ok {
		return queryir.Literal{}, Errorf(ErrCodeInvalidArgument, c.Args[0].Pos(), "%s expects a string, got %s", c.Name, Describe(c.Args[0]))
	}
	if c.Name == "string" {
		return queryir.Str(text.Value), nil
	}
	typ, ok := c.Args[1].(*String)
	if !ok {
		return queryir.Literal{}, Errorf(ErrCodeInvalidArgument, c.Args[1].Pos(), "literal expects a type name, got %s", Describe(c.Args[1]))
	}
	lit, err := xsd.Parse(typ.Value, text.Value)
	if err != nil {
		return queryir.Literal{}, Errorf(ErrCodeInvalidLiteral, c.Offset, "%v", err)
	}
	return queryir.Lit(lit), nil
}

func lowerOrder(n Node) (queryir.OrderTemplate, error) {
	switch x := n.(type) {
	case *Var:
		return queryir.OrderTemplate{Variable: queryir.Variable(x.Name), Order: queryir.Asc}, nil
	case *Call:
		if x.Name == "asc" || x.Name == "desc" {
			if len(x.Args) != 1 {
				return queryir.OrderTemplate{}, NewArgumentCountError(x.Name, "1", len(x.Args), x.Offset)
			}
			v, ok := x.Args[0].(*Var)
			if !ok {
				return queryir.OrderTemplate{}, Errorf(ErrCodeInvalidArgument, x.Args[0].Pos(), "%s expects a variable, got %s", x.Name, Describe(x.Args[0]))
			}
			return queryir.OrderTemplate{Variable: queryir.Variable(v.Name), Order: queryir.Order(x.Name)}, nil
		}
	case *List:
		if len(x.Elems) == 2 {
			v, vok := x.Elems[0].(*Var)
			dir, dok := x.Elems[1].(*String)
			if vok && dok && (dir.Value == "asc" || dir.Value == "desc") {
				return queryir.OrderTemplate{Variable: queryir.Variable(v.Name), Order: queryir.Order(dir.Value)}, nil
			}
		}
	}
	return queryir.OrderTemplate{}, Errorf(ErrCodeInvalidArgument, n.Pos(), "expected an ordering such as asc($X), got %s", Describe(n))
}

func lowerPath(n Node) (queryir.PathPattern, error) {
	switch x := n.(type) {
	case *String:
		p, err := queryir.ParsePathPattern(x.Value)
		if err != nil {
			var perr *queryir.PathError
			if errors.As(err, &perr) {
				return nil, Errorf(ErrCodeInvalidArgument, x.Offset, "invalid path pattern %q: %s at %d", x.Value, perr.Message, perr.Offset)
			}
			return nil, Errorf(ErrCodeInvalidArgument, x.Offset, "invalid path pattern %q: %v", x.Value, err)
		}
		return p, nil
	case *Call:
		return lowerPathCall(x)
	}
	return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "expected a path pattern, got %s", Describe(n))
}

func lowerPathCall(c *Call) (queryir.PathPattern, error) {
	argCount := func(expected string, ok bool) error {
		if ok {
			return nil
		}
		return NewArgumentCountError(c.Name, expected, len(c.Args), c.Offset)
	}
	predicate := func() (string, error) {
		s, ok := c.Args[0].(*String)
		if !ok {
			return "", Errorf(ErrCodeInvalidArgument, c.Args[0].Pos(), "%s expects a predicate string, got %s", c.Name, Describe(c.Args[0]))
		}
		return s.Value, nil
	}
	subPatterns := func() ([]queryir.PathPattern, error) {
		out := make([]queryir.PathPattern, 0, len(c.Args))
		for _, a := range c.Args {
			p, err := lowerPath(a)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}

	switch c.Name {
	case "pred":
		if err := argCount("0..1", len(c.Args) <= 1); err != nil {
			return nil, err
		}
		if len(c.Args) == 0 {
			return queryir.PathPredicate{}, nil
		}
		p, err := predicate()
		if err != nil {
			return nil, err
		}
		return queryir.PathPredicate{Predicate: p}, nil
	case "inv":
		if err := argCount("1", len(c.Args) == 1); err != nil {
			return nil, err
		}
		p, err := predicate()
		if err != nil {
			return nil, err
		}
		if p == "" {
			return nil, Errorf(ErrCodeInvalidArgument, c.Args[0].Pos(), "inv expects a non-empty predicate")
		}
		return queryir.InversePathPredicate{Predicate: p}, nil
	case "seq", "or":
		if err := argCount("at least 1", len(c.Args) >= 1); err != nil {
			return nil, err
		}
		subs, err := subPatterns()
		if err != nil {
			return nil, err
		}
		if c.Name == "seq" {
			return queryir.PathSequence(subs), nil
		}
		return queryir.PathOr(subs), nil
	case "plus", "star":
		if err := argCount("1", len(c.Args) == 1); err != nil {
			return nil, err
		}
		sub, err := lowerPath(c.Args[0])
		if err != nil {
			return nil, err
		}
		if c.Name == "plus" {
			return queryir.PathPlus{Pattern: sub}, nil
		}
		return queryir.PathStar{Pattern: sub}, nil
	case "times":
		if err := argCount("3", len(c.Args) == 3); err != nil {
			return nil, err
		}
		sub, err := lowerPath(c.Args[0])
		if err != nil {
			return nil, err
		}
		from, err := lowerCount(c, c.Args[1])
		if err != nil {
			return nil, err
		}
		to, err := lowerCount(c, c.Args[2])
		if err != nil {
			return nil, err
		}
		if from > to {
			return nil, Errorf(ErrCodeInvalidArgument, c.Offset, "times: lower bound %d exceeds upper bound %d", from, to)
		}
		return queryir.PathTimes{Pattern: sub, From: from, To: to}, nil
	}
	return nil, Errorf(ErrCodeInvalidArgument, c.Offset, "unexpected %s in path pattern", Describe(c))
}

func lowerCount(c *Call, n Node) (uint64, error) {
	if num, ok := n.(*Number); ok {
		if lit, err := xsd.ParseNumber(num.Text); err == nil {
			if u, ok := lit.(xsd.UnsignedInt); ok {
				return uint64(u), nil
			}
		}
	}
	return 0, Errorf(ErrCodeInvalidArgument, n.Pos(), "%s expects a non-negative integer, got %s", c.Name, Describe(n))
}

func lowerArith(n Node) (queryir.ArithmeticExpression, error) {
	if c, ok := n.(*Call); ok {
		if op, ok := queryir.LookupArithmetic(c.Name); ok && op.Name == c.Name {
			if len(c.Args) != 2 {
				return nil, NewArgumentCountError(c.Name, "2", len(c.Args), c.Offset)
			}
			left, err := lowerArith(c.Args[0])
			if err != nil {
				return nil, err
			}
			right, err := lowerArith(c.Args[1])
			if err != nil {
				return nil, err
			}
			return op.New(left, right), nil
		}
		if c.Name == "floor" {
			if len(c.Args) != 1 {
				return nil, NewArgumentCountError(c.Name, "1", len(c.Args), c.Offset)
			}
			arg, err := lowerArith(c.Args[0])
			if err != nil {
				return nil, err
			}
			return queryir.Floor{Argument: arg}, nil
		}
	}
	if _, ok := n.(*List); ok {
		return nil, Errorf(ErrCodeInvalidArgument, n.Pos(), "arithmetic operand cannot be a list")
	}
	v, err := lowerData(n)
	if err != nil {
		return nil, err
	}
	return queryir.ArithmeticValue{Value: v}, nil
}
