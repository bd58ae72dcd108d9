// Package codec reads and writes the canonical JSON wire form of queries.
//
// Every node is an object whose first member is "@type", followed by the
// operator's fields in declaration order. Single values are tagged by the
// position they fill:
//
//	{"@type": "NodeValue", "variable": "Person"}
//	{"@type": "DataValue", "data": {"@type": "xsd:unsignedInt", "@value": 18}}
//
// List-typed fields (Concatenate.list, Member.list, Call.arguments, ...)
// holding a list encode it as a bare array whose members carry element tags
// Variable, Node, Data, List or Dictionary. Variables in projections,
// groupings and orderings are plain strings. Absent optional fields are
// omitted; null is never written and is read as absent.
//
// Decoding is strict: unknown types, unknown members and wrong shapes fail
// with a *DecodeError naming the JSON path of the problem.
package codec
