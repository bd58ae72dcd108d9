// Package queryir defines the WOQL query algebra: the closed set of operator
// nodes a query is built from, and the values those nodes carry.
//
// ARCHITECTURE:
//
// Every production path ends in the same tree:
//
//	[DSL text]        → dsl.Parse        ┐
//	[alternate text]  → altsyntax.Parse  ├→ [queryir.Query] → codec.Encode → [wire document]
//	[builder calls]   → builder.Finalize ┤
//	[wire document]   → codec.Decode     ┘
//
// Equivalent input yields structurally equal trees (see Equal), which is what
// makes the cross-syntax and round-trip guarantees testable.
//
// OPERATOR TABLE:
//
// Operators are plain structs whose fields carry `woql` tags:
//
//	type Triple struct {
//	    Subject   NodeValue `woql:"subject,node"`
//	    Predicate NodeValue `woql:"predicate,node"`
//	    Object    Value     `woql:"object,value"`
//	    Graph     GraphType `woql:"graph,graph,optional"`
//	}
//
// The tag gives the wire field name, the FieldKind and the optional/variadic
// flags. At init every operator is registered once with its wire "@type" and
// text names; the resulting table (Operators, Lookup, LookupName) is the
// single source of truth for the codec, both parsers, the printers and the
// document schema.
//
// SEALED INTERFACES:
//
// Query, Value, NodeValue, DataValue, PathPattern and ArithmeticExpression
// are sealed with unexported marker methods. Only types in this package can
// implement them, which keeps type switches in the codec and printers
// exhaustive.
//
// Values carry an explicit closed tag (Kind) so code can switch on the
// variant without type assertions:
//
//	switch v.Kind() {
//	case KindVariable:
//	case KindNode:
//	case KindData:
//	case KindList:
//	case KindDictionary:
//	}
//
// IMMUTABILITY:
//
// Trees are never mutated after construction. Constructors copy slices, and
// the builder copies on every call, so a tree may be shared between
// goroutines freely.
package queryir
