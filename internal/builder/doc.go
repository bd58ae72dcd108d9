// Package builder composes WOQL queries from Go code.
//
//	q, err := builder.New().
//		Triple("v:Person", "rdf:type", "@schema:Person").
//		Triple("v:Person", "name", "v:Name").
//		Select("v:Name").
//		Finalize()
//
// Arguments are converted by the position they fill. Strings carrying a
// "v:" or "$" sigil are variables; other strings are nodes in subject,
// predicate and object positions and xsd:string data in data positions.
// Go integers, floats, booleans, time.Time and []byte become typed
// literals. Values from package queryir pass through unchanged.
//
// Invalid arguments never panic and are never coerced. The first one is
// recorded as a *BuildError that Finalize returns.
package builder
