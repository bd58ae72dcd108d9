// Package harness runs conformance cases for the query syntaxes.
//
// # Case Format
//
// Cases are defined in YAML files with the following structure:
//
//	name: people
//	cases:
//	  - name: select_names
//	    description: "What this case covers"
//	    dsl: select($Name, triple($Person, name, $Name))
//	    alt: WOQL.select("v:Name", WOQL.triple("v:Person", "name", "v:Name"))
//	    document: |
//	      {"@type": "Select", ...}
//	  - name: unclosed
//	    dsl: and(true()
//	    error:
//	      code: UNEXPECTED_EOF
//	      offset: 3
//
// # Checks
//
// For every case the harness:
//
//   - parses each given syntax and checks they agree
//   - encodes the query and decodes it back
//   - validates the encoding against the CUE schema
//   - prints the query as DSL and alternate syntax and reparses both
//   - compares the encoding with document, if given
//
// Error cases instead require every given input to fail with the expected
// code, and optionally offset and message text.
//
// # Usage
//
//	suites, err := harness.LoadDir("testdata/cases")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, err := harness.New().RunAll(ctx, harness.Flatten(suites), 4)
//
// RunWithGolden additionally compares a case's renderings with a golden
// snapshot under testdata/golden.
package harness
