// Package schema describes the WOQL wire format in CUE.
//
// The schema is generated from the operator table in queryir, so it
// tracks the Go types without a hand-maintained copy. Each operator,
// path pattern and arithmetic expression gets a closed definition keyed
// by its "@type":
//
//	query: "Triple": close({"@type": "Triple", "subject": #Object, ...})
//	path:  PathPlus: close({"@type": "PathPlus", plus: #Object})
//
// Fields holding nested objects are constrained to #Object only. The
// Validator walks the document and checks every nested object against
// the definition for its position, which keeps the CUE free of
// recursive definitions.
//
// Validation is structural and stricter than codec.Decode: null members
// are rejected rather than read as absent, and literal lexical forms are
// not parsed.
package schema
