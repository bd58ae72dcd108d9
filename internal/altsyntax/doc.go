// Package altsyntax parses and prints the JavaScript-flavoured WOQL syntax:
//
//	WOQL.select("v:Name", WOQL.and(
//	  WOQL.triple("v:Person", "rdf:type", "Person"),
//	  WOQL.triple("v:Person", "name", "v:Name"),
//	))
//
// The WOQL. prefix is optional. Variables are strings starting with "v:".
// Objects may use bare or quoted keys, trailing commas are allowed and
// comments use // or /* */. Input that is valid JSON is read as a wire
// document by package codec instead.
//
// Programs lower through the same tree as the DSL, so equivalent programs
// in either syntax give structurally equal queries.
package altsyntax
