package builder

import (
	"github.com/roach88/woql/internal/queryir"
)

// Composition

// And adds the conjunction of the given builders as one conjunct.
func (b Builder) And(subs ...Builder) Builder {
	qs, err := b.sub(subs)
	if err != nil {
		return b.fail(err)
	}
	return b.add(queryir.NewAnd(qs...))
}

// Or adds the disjunction of the given builders as one conjunct.
func (b Builder) Or(subs ...Builder) Builder {
	qs, err := b.sub(subs)
	if err != nil {
		return b.fail(err)
	}
	return b.add(queryir.NewOr(qs...))
}

// If adds a conditional.
func (b Builder) If(test, then, els Builder) Builder {
	qs, err := b.sub([]Builder{test, then, els})
	if err != nil {
		return b.fail(err)
	}
	return b.add(queryir.NewIf(qs[0], qs[1], qs[2]))
}

// Add appends other's accumulated query as a single conjunct.
func (b Builder) Add(other Builder) Builder {
	qs, err := b.sub([]Builder{other})
	if err != nil {
		return b.fail(err)
	}
	return b.add(qs[0])
}

// Query appends an already built query.
func (b Builder) Query(q queryir.Query) Builder {
	if q == nil {
		return b.fail(errorf(ErrCodeInvalidArgument, "query", "nil query"))
	}
	return b.add(q)
}

func (b Builder) True() Builder { return b.add(queryir.True{}) }
func (b Builder) False() Builder { return b.add(queryir.False{}) }

// Wrappers

// Select projects the accumulated query onto vars. Each argument must be a
// Variable or a "v:" or "$" sigil string.
func (b Builder) Select(vars ...any) Builder {
	vs, err := toVariables("select", vars)
	if err != nil {
		return b.fail(err)
	}
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewSelect(vs, q) })
}

// Distinct keeps one solution per binding of vars.
func (b Builder) Distinct(vars ...any) Builder {
	vs, err := toVariables("distinct", vars)
	if err != nil {
		return b.fail(err)
	}
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewDistinct(vs, q) })
}

func (b Builder) Limit(n uint64) Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewLimit(n, q) })
}

func (b Builder) Start(n uint64) Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewStart(n, q) })
}

func (b Builder) Not() Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewNot(q) })
}

func (b Builder) Optional() Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewOptional(q) })
}

func (b Builder) Once() Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewOnce(q) })
}

func (b Builder) Immediately() Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewImmediately(q) })
}

func (b Builder) Using(collection string) Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewUsing(collection, q) })
}

func (b Builder) From(graph string) Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewFrom(graph, q) })
}

func (b Builder) Into(graph string) Builder {
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewInto(graph, q) })
}

// OrderBy sorts solutions. Arguments are OrderTemplates (see Asc and Desc)
// or variables, which sort ascending.
func (b Builder) OrderBy(orders ...any) Builder {
	ts := make([]queryir.OrderTemplate, 0, len(orders))
	for _, o := range flatten(orders) {
		t, err := toOrder("order_by", o)
		if err != nil {
			return b.fail(err)
		}
		ts = append(ts, t)
	}
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewOrderBy(ts, q) })
}

// GroupBy collects template into grouped for each binding of groupBy.
func (b Builder) GroupBy(groupBy []any, template, grouped any) Builder {
	vs, err := toVariables("group_by", groupBy)
	if err != nil {
		return b.fail(err)
	}
	tmpl, err := toValue("group_by", template)
	if err != nil {
		return b.fail(err)
	}
	into, err := toValue("group_by", grouped)
	if err != nil {
		return b.fail(err)
	}
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewGroupBy(vs, tmpl, into, q) })
}

// Count binds count to the number of solutions of the accumulated query.
func (b Builder) Count(count any) Builder {
	c, err := toData("count", count)
	if err != nil {
		return b.fail(err)
	}
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewCount(q, c) })
}

// Named wraps the accumulated query as a stored parametric query.
// Parameters may carry a variable sigil.
func (b Builder) Named(name string, params ...string) Builder {
	ps := make([]string, len(params))
	for i, p := range params {
		v, err := toVariable("named_parametric_query", queryir.Var(p))
		if err != nil {
			return b.fail(err)
		}
		ps[i] = v.Name()
	}
	return b.wrap(func(q queryir.Query) queryir.Query { return queryir.NewNamedParametricQuery(name, ps, q) })
}

// Edges. The optional trailing graph is instance or schema.

func (b Builder) Triple(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("Triple", s, p, o, graph)
}

func (b Builder) AddTriple(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("AddTriple", s, p, o, graph)
}

func (b Builder) AddedTriple(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("AddedTriple", s, p, o, graph)
}

func (b Builder) DeleteTriple(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("DeleteTriple", s, p, o, graph)
}

func (b Builder) DeletedTriple(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("DeletedTriple", s, p, o, graph)
}

func (b Builder) Data(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("Data", s, p, o, graph)
}

func (b Builder) AddData(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("AddData", s, p, o, graph)
}

func (b Builder) AddedData(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("AddedData", s, p, o, graph)
}

func (b Builder) DeleteData(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("DeleteData", s, p, o, graph)
}

func (b Builder) DeletedData(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("DeletedData", s, p, o, graph)
}

func (b Builder) Link(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("Link", s, p, o, graph)
}

func (b Builder) AddLink(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("AddLink", s, p, o, graph)
}

func (b Builder) AddedLink(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("AddedLink", s, p, o, graph)
}

func (b Builder) DeleteLink(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("DeleteLink", s, p, o, graph)
}

func (b Builder) DeletedLink(s, p, o any, graph ...queryir.GraphType) Builder {
	return b.edge("DeletedLink", s, p, o, graph)
}

func (b Builder) edge(wireType string, s, p, o any, graph []queryir.GraphType) Builder {
	if len(graph) > 1 {
		return b.fail(errorf(ErrCodeInvalidArgument, wireType, "at most one graph, got %d", len(graph)))
	}
	return b.op(wireType, s, p, o, graphArg(graph))
}

// Documents

func (b Builder) ReadDocument(id, doc any) Builder {
	return b.op("ReadDocument", id, doc)
}

// InsertDocument inserts doc, binding or checking its identifier when id is
// not nil.
func (b Builder) InsertDocument(doc, id any) Builder {
	return b.op("InsertDocument", doc, id)
}

func (b Builder) UpdateDocument(doc, id any) Builder {
	return b.op("UpdateDocument", doc, id)
}

func (b Builder) DeleteDocument(id any) Builder {
	return b.op("DeleteDocument", id)
}

// Comparison and arithmetic

func (b Builder) Equals(left, right any) Builder { return b.op("Equals", left, right) }
func (b Builder) Greater(left, right any) Builder { return b.op("Greater", left, right) }
func (b Builder) Less(left, right any) Builder { return b.op("Less", left, right) }

// Eval binds result to expr. A non-expression expr is taken as a plain value.
func (b Builder) Eval(expr, result any) Builder { return b.op("Eval", expr, result) }

// Lists

func (b Builder) Sum(list, result any) Builder { return b.op("Sum", list, result) }
func (b Builder) Length(list, length any) Builder { return b.op("Length", list, length) }
func (b Builder) Member(member, list any) Builder { return b.op("Member", member, list) }
func (b Builder) Dot(doc, field, value any) Builder { return b.op("Dot", doc, field, value) }

// Strings

func (b Builder) Concatenate(list, result any) Builder {
	return b.op("Concatenate", list, result)
}

func (b Builder) Join(list, separator, result any) Builder {
	return b.op("Join", list, separator, result)
}

func (b Builder) Split(s, pattern, list any) Builder {
	return b.op("Split", s, pattern, list)
}

func (b Builder) Trim(untrimmed, trimmed any) Builder { return b.op("Trim", untrimmed, trimmed) }
func (b Builder) Upper(mixed, upper any) Builder { return b.op("Upper", mixed, upper) }
func (b Builder) Lower(mixed, lower any) Builder { return b.op("Lower", mixed, lower) }

func (b Builder) Pad(s, char, times, result any) Builder {
	return b.op("Pad", s, char, times, result)
}

func (b Builder) Like(left, right, similarity any) Builder {
	return b.op("Like", left, right, similarity)
}

// Regexp matches s against pattern; result may be nil.
func (b Builder) Regexp(pattern, s, result any) Builder {
	return b.op("Regexp", pattern, s, result)
}

func (b Builder) Substring(s, before, length, after, substring any) Builder {
	return b.op("Substring", s, before, length, after, substring)
}

// Paths, types and keys

// Path matches pattern, a PathPattern or path text such as "friend+",
// between subject and object. path may be nil.
func (b Builder) Path(subject, pattern, object, path any) Builder {
	return b.op("Path", subject, pattern, object, path)
}

func (b Builder) IsA(element, typ any) Builder { return b.op("IsA", element, typ) }
func (b Builder) TypeOf(value, typ any) Builder { return b.op("TypeOf", value, typ) }
func (b Builder) Subsumption(parent, child any) Builder {
	return b.op("Subsumption", parent, child)
}

func (b Builder) Typecast(value, typ, result any) Builder {
	return b.op("Typecast", value, typ, result)
}

func (b Builder) RandomKey(base, uri any) Builder { return b.op("RandomKey", base, uri) }

func (b Builder) LexicalKey(base, keys, uri any) Builder {
	return b.op("LexicalKey", base, keys, uri)
}

func (b Builder) HashKey(base, keys, uri any) Builder {
	return b.op("HashKey", base, keys, uri)
}

func (b Builder) TripleCount(resource string, count any) Builder {
	return b.op("TripleCount", resource, count)
}

func (b Builder) Size(resource string, size any) Builder {
	return b.op("Size", resource, size)
}

// Call invokes a named parametric query.
func (b Builder) Call(name string, args ...any) Builder {
	return b.op("Call", append([]any{name}, args...)...)
}
