package builder

import (
	"fmt"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

// Builder accumulates a conjunction of queries.
//
// Builders are immutable values: every call returns a new Builder and the
// receiver is left unchanged, so a partial builder can be shared and
// extended in several directions. The zero value is an empty builder with
// the default depth limit.
//
// The first invalid call records a *BuildError. Every later call returns
// the builder unchanged, and Finalize reports the error.
type Builder struct {
	conj     []queryir.Query
	err      *BuildError
	maxDepth int
}

// New returns an empty builder.
func New() Builder {
	return Builder{maxDepth: syntax.DefaultMaxDepth}
}

// WithMaxDepth returns b with a different depth limit for Finalize.
func (b Builder) WithMaxDepth(n int) Builder {
	b.maxDepth = n
	return b
}

// Err returns the recorded failure, or nil.
func (b Builder) Err() error {
	if b.err == nil {
		return nil
	}
	return b.err
}

// Finalize returns the accumulated query: True when nothing was added, the
// single query when one was, otherwise their And.
func (b Builder) Finalize() (queryir.Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	q := b.current()

	limit := b.maxDepth
	if limit <= 0 {
		limit = syntax.DefaultMaxDepth
	}
	if d := queryir.Depth(q); d > limit {
		return nil, errorf(ErrCodeTooDeep, "", "query depth %d exceeds maximum %d", d, limit)
	}
	if err := queryir.Validate(q); err != nil {
		return nil, &BuildError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return q, nil
}

func (b Builder) current() queryir.Query {
	switch len(b.conj) {
	case 0:
		return queryir.True{}
	case 1:
		return b.conj[0]
	}
	return queryir.NewAnd(b.conj...)
}

// add appends a conjunct without touching the receiver's backing array.
func (b Builder) add(q queryir.Query) Builder {
	if b.err != nil {
		return b
	}
	conj := make([]queryir.Query, len(b.conj), len(b.conj)+1)
	copy(conj, b.conj)
	b.conj = append(conj, q)
	return b
}

func (b Builder) fail(err *BuildError) Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// wrap replaces the accumulated query with wrapper(query).
func (b Builder) wrap(wrapper func(queryir.Query) queryir.Query) Builder {
	if b.err != nil {
		return b
	}
	b.conj = []queryir.Query{wrapper(b.current())}
	return b
}

// sub finalizes nested builders, carrying the first failure over.
func (b Builder) sub(subs []Builder) ([]queryir.Query, *BuildError) {
	out := make([]queryir.Query, len(subs))
	for i, s := range subs {
		if s.err != nil {
			return nil, s.err
		}
		out[i] = s.current()
	}
	return out, nil
}

// op builds the operator with the given wire type from positional
// arguments, converting each by the kind of field it binds to. Trailing
// optional fields may be left out or passed as nil.
func (b Builder) op(wireType string, args ...any) Builder {
	if b.err != nil {
		return b
	}
	o, ok := queryir.Lookup(wireType)
	if !ok {
		panic("builder: unknown operator " + wireType)
	}
	name := o.Name()

	values := make([]any, len(o.Fields))
	for i, f := range o.Fields {
		if f.Variadic {
			v, err := convertVariadic(name, f, args[min(i, len(args)):])
			if err != nil {
				return b.fail(err)
			}
			values[i] = v
			break
		}
		if i >= len(args) || args[i] == nil {
			if !f.Optional {
				return b.fail(errorf(ErrCodeInvalidArgument, name, "missing %s", f.Name))
			}
			continue
		}
		v, err := convert(name, f, args[i])
		if err != nil {
			return b.fail(err)
		}
		values[i] = v
	}

	q, err := o.Build(values)
	if err != nil {
		return b.fail(&BuildError{Code: ErrCodeInvalidArgument, Op: name, Message: err.Error()})
	}
	return b.add(q)
}

func convert(op string, f queryir.Field, arg any) (any, *BuildError) {
	switch f.Kind {
	case queryir.FieldValue:
		return toValue(op, arg)
	case queryir.FieldNodeValue:
		return toNode(op, arg)
	case queryir.FieldDataValue, queryir.FieldDataList:
		return toData(op, arg)
	case queryir.FieldString:
		if s, ok := arg.(string); ok {
			return s, nil
		}
		return nil, errorf(ErrCodeInvalidArgument, op, "%s expects a string, got %s", f.Name, queryir.Describe(arg))
	case queryir.FieldUint:
		return toUint(op, arg)
	case queryir.FieldGraph:
		return toGraph(op, arg)
	case queryir.FieldPath:
		return toPath(op, arg)
	case queryir.FieldArith:
		return toArith(op, arg)
	}
	panic(fmt.Sprintf("builder: %s.%s: unsupported field kind %s", op, f.Name, f.Kind))
}

func convertVariadic(op string, f queryir.Field, args []any) (any, *BuildError) {
	switch f.Kind {
	case queryir.FieldValueList:
		out := make([]queryir.Value, len(args))
		for i, a := range args {
			v, err := toValue(op, a)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case queryir.FieldVariableList:
		return toVariables(op, args)
	}
	panic(fmt.Sprintf("builder: %s.%s: unsupported variadic kind %s", op, f.Name, f.Kind))
}

// graphArg folds the optional trailing graph of an edge call.
func graphArg(graph []queryir.GraphType) any {
	if len(graph) == 0 {
		return nil
	}
	return graph[0]
}
