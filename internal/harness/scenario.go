package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Suite is a YAML file of cases.
type Suite struct {
	// Name identifies the suite. Defaults to the file name.
	Name string `yaml:"name,omitempty"`

	// Cases lists the cases in file order.
	Cases []Case `yaml:"cases"`
}

// Case is one query written in one or more syntaxes.
//
// A case with DSL and Alt asserts the two parse to the same tree. Document
// is the expected wire document; when neither text form is given it is the
// input instead. With Error set, every given input must fail with the
// expected error.
type Case struct {
	// Name uniquely identifies this case within its suite.
	Name string `yaml:"name"`

	// Description explains what this case covers.
	Description string `yaml:"description,omitempty"`

	// DSL is the query in DSL syntax.
	DSL string `yaml:"dsl,omitempty"`

	// Alt is the query in the alternate call syntax.
	Alt string `yaml:"alt,omitempty"`

	// Document is a JSON wire document.
	Document string `yaml:"document,omitempty"`

	// Error is the expected failure.
	Error *ExpectedError `yaml:"error,omitempty"`
}

// ExpectedError describes an expected parse or decode failure.
type ExpectedError struct {
	// Code is the error code, e.g. "UNEXPECTED_EOF" or "UNKNOWN_TYPE".
	Code string `yaml:"code"`

	// Offset is the expected byte offset of a parse error.
	Offset *int `yaml:"offset,omitempty"`

	// Contains is a substring the error message must contain.
	Contains string `yaml:"contains,omitempty"`
}

// LoadSuite reads and parses a case file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or has invalid cases.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if suite.Name == "" {
		base := filepath.Base(path)
		suite.Name = base[:len(base)-len(filepath.Ext(base))]
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}
	return &suite, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Suite, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	suites := make([]*Suite, 0, len(paths))
	for _, p := range paths {
		s, err := LoadSuite(p)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// Flatten returns the cases of every suite, names prefixed by suite name.
func Flatten(suites []*Suite) []Case {
	var cases []Case
	for _, s := range suites {
		for _, c := range s.Cases {
			c.Name = s.Name + "/" + c.Name
			cases = append(cases, c)
		}
	}
	return cases
}

func validateSuite(s *Suite) error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases: at least one case is required")
	}
	seen := map[string]bool{}
	for i := range s.Cases {
		c := &s.Cases[i]
		if err := validateCase(c); err != nil {
			return fmt.Errorf("cases[%d]: %w", i, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func validateCase(c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.DSL == "" && c.Alt == "" && c.Document == "" {
		return fmt.Errorf("%s: one of dsl, alt or document is required", c.Name)
	}
	if c.Error != nil && c.Error.Code == "" {
		return fmt.Errorf("%s: error.code is required", c.Name)
	}
	return nil
}
