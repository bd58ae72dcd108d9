package queryir

// Constructors, one per operator, taking fields in declaration order.
// Slices are copied so the result never aliases the caller's storage.

func NewAnd(queries ...Query) And { return And{And: cloneQueries(queries)} }
func NewOr(queries ...Query) Or { return Or{Or: cloneQueries(queries)} }
func NewNot(q Query) Not { return Not{Query: q} }

func NewSelect(vars []Variable, q Query) Select {
	return Select{Variables: cloneVars(vars), Query: q}
}

func NewDistinct(vars []Variable, q Query) Distinct {
	return Distinct{Variables: cloneVars(vars), Query: q}
}

func NewOptional(q Query) Optional { return Optional{Query: q} }
func NewIf(test, then, els Query) If { return If{Test: test, Then: then, Else: els} }
func NewOnce(q Query) Once { return Once{Query: q} }
func NewImmediately(q Query) Immediately { return Immediately{Query: q} }
func NewLimit(n uint64, q Query) Limit { return Limit{Limit: n, Query: q} }
func NewStart(n uint64, q Query) Start { return Start{Start: n, Query: q} }
func NewUsing(collection string, q Query) Using { return Using{Collection: collection, Query: q} }
func NewFrom(graph string, q Query) From { return From{Graph: graph, Query: q} }
func NewInto(graph string, q Query) Into { return Into{Graph: graph, Query: q} }

func NewOrderBy(ordering []OrderTemplate, q Query) OrderBy {
	return OrderBy{Ordering: append([]OrderTemplate(nil), ordering...), Query: q}
}

func NewGroupBy(groupBy []Variable, template, grouped Value, q Query) GroupBy {
	return GroupBy{GroupBy: cloneVars(groupBy), Template: template, Grouped: grouped, Query: q}
}

func NewCount(q Query, count DataValue) Count { return Count{Query: q, Count: count} }
func NewTrue() True { return True{} }
func NewFalse() False { return False{} }

func NewTriple(s, p NodeValue, o Value, g GraphType) Triple {
	return Triple{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewAddTriple(s, p NodeValue, o Value, g GraphType) AddTriple {
	return AddTriple{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewAddedTriple(s, p NodeValue, o Value, g GraphType) AddedTriple {
	return AddedTriple{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewDeleteTriple(s, p NodeValue, o Value, g GraphType) DeleteTriple {
	return DeleteTriple{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewDeletedTriple(s, p NodeValue, o Value, g GraphType) DeletedTriple {
	return DeletedTriple{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewData(s, p NodeValue, o DataValue, g GraphType) Data {
	return Data{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewAddData(s, p NodeValue, o DataValue, g GraphType) AddData {
	return AddData{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewAddedData(s, p NodeValue, o DataValue, g GraphType) AddedData {
	return AddedData{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewDeleteData(s, p NodeValue, o DataValue, g GraphType) DeleteData {
	return DeleteData{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewDeletedData(s, p NodeValue, o DataValue, g GraphType) DeletedData {
	return DeletedData{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewLink(s, p, o NodeValue, g GraphType) Link {
	return Link{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewAddLink(s, p, o NodeValue, g GraphType) AddLink {
	return AddLink{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewAddedLink(s, p, o NodeValue, g GraphType) AddedLink {
	return AddedLink{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewDeleteLink(s, p, o NodeValue, g GraphType) DeleteLink {
	return DeleteLink{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewDeletedLink(s, p, o NodeValue, g GraphType) DeletedLink {
	return DeletedLink{Subject: s, Predicate: p, Object: o, Graph: g}
}

func NewReadDocument(id NodeValue, doc Value) ReadDocument {
	return ReadDocument{Identifier: id, Document: doc}
}

// NewInsertDocument takes a nil id when the identifier is not wanted.
func NewInsertDocument(doc Value, id NodeValue) InsertDocument {
	return InsertDocument{Document: doc, Identifier: id}
}

func NewUpdateDocument(doc Value, id NodeValue) UpdateDocument {
	return UpdateDocument{Document: doc, Identifier: id}
}

func NewDeleteDocument(id NodeValue) DeleteDocument { return DeleteDocument{Identifier: id} }

func NewEquals(l, r DataValue) Equals { return Equals{Left: l, Right: r} }
func NewGreater(l, r DataValue) Greater { return Greater{Left: l, Right: r} }
func NewLess(l, r DataValue) Less { return Less{Left: l, Right: r} }

func NewEval(expr ArithmeticExpression, result DataValue) Eval {
	return Eval{Expression: expr, Result: result}
}

func NewSum(list, result DataValue) Sum { return Sum{List: list, Result: result} }
func NewLength(list, length DataValue) Length { return Length{List: list, Length: length} }
func NewMember(member, list DataValue) Member { return Member{Member: member, List: list} }
func NewDot(doc, field, value DataValue) Dot { return Dot{Document: doc, Field: field, Value: value} }

func NewConcatenate(list, result DataValue) Concatenate {
	return Concatenate{List: list, ResultString: result}
}

func NewJoin(list, sep, result DataValue) Join {
	return Join{List: list, Separator: sep, ResultString: result}
}

func NewSplit(s, pattern, list DataValue) Split {
	return Split{String: s, Pattern: pattern, List: list}
}

func NewTrim(untrimmed, trimmed DataValue) Trim { return Trim{Untrimmed: untrimmed, Trimmed: trimmed} }
func NewUpper(mixed, upper DataValue) Upper { return Upper{Mixed: mixed, Upper: upper} }
func NewLower(mixed, lower DataValue) Lower { return Lower{Mixed: mixed, Lower: lower} }

func NewPad(s, char, times, result DataValue) Pad {
	return Pad{String: s, Char: char, Times: times, ResultString: result}
}

func NewLike(l, r, similarity DataValue) Like {
	return Like{Left: l, Right: r, Similarity: similarity}
}

// NewRegexp takes a nil result when captures are not wanted.
func NewRegexp(pattern, s, result DataValue) Regexp {
	return Regexp{Pattern: pattern, String: s, Result: result}
}

func NewSubstring(s, before, length, after, sub DataValue) Substring {
	return Substring{String: s, Before: before, Length: length, After: after, Substring: sub}
}

// NewPath takes a nil path when the traversed edges are not wanted.
func NewPath(subject Value, pattern PathPattern, object, path Value) Path {
	return Path{Subject: subject, Pattern: pattern, Object: object, Path: path}
}

func NewIsA(element, typ NodeValue) IsA { return IsA{Element: element, Type: typ} }
func NewTypeOf(value Value, typ NodeValue) TypeOf { return TypeOf{Value: value, Type: typ} }

func NewTypeCast(value Value, typ NodeValue, result Value) TypeCast {
	return TypeCast{Value: value, Type: typ, Result: result}
}

func NewSubsumption(parent, child NodeValue) Subsumption {
	return Subsumption{Parent: parent, Child: child}
}

func NewRandomKey(base DataValue, uri NodeValue) RandomKey {
	return RandomKey{Base: base, URI: uri}
}

func NewLexicalKey(base, keys DataValue, uri NodeValue) LexicalKey {
	return LexicalKey{Base: base, KeyList: keys, URI: uri}
}

func NewHashKey(base, keys DataValue, uri NodeValue) HashKey {
	return HashKey{Base: base, KeyList: keys, URI: uri}
}

func NewTripleCount(resource string, count DataValue) TripleCount {
	return TripleCount{Resource: resource, Count: count}
}

func NewSize(resource string, size DataValue) Size { return Size{Resource: resource, Size: size} }

func NewNamedParametricQuery(name string, params []string, q Query) NamedParametricQuery {
	return NamedParametricQuery{Name: name, Parameters: append([]string(nil), params...), Query: q}
}

func NewCall(name string, args ...Value) Call {
	return Call{Name: name, Arguments: append([]Value(nil), args...)}
}

func cloneQueries(qs []Query) []Query {
	if qs == nil {
		return nil
	}
	return append(make([]Query, 0, len(qs)), qs...)
}

func cloneVars(vs []Variable) []Variable {
	if vs == nil {
		return nil
	}
	return append(make([]Variable, 0, len(vs)), vs...)
}
