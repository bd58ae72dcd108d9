// Package dsl parses and prints the Prolog-style WOQL text syntax.
//
// A program is a single call. Arguments are calls, variables, literals,
// lists, dictionaries and atoms:
//
//	select($Name, $Age, and(
//	    triple($Person, rdf:type, "Person"),
//	    triple($Person, name, $Name),
//	    triple($Person, age, $Age),
//	    greater($Age, 18)))
//
// Variables are written $Name, or as a bare identifier starting with an
// upper case letter or underscore. Other bare identifiers are atoms and read
// as strings. Strings may use double or single quotes with JSON escapes, and
// "text"^^xsd:type gives a typed literal. Comments run from % to the end of
// the line, or between /* and */.
//
// How a string argument is read (node or data) depends on the operator field
// it binds to; see package syntax.
package dsl
