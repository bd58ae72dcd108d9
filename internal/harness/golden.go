package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/woql/internal/altsyntax"
	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/dsl"
	"github.com/roach88/woql/internal/queryir"
)

// Snapshot captures every rendering of a case's query.
type Snapshot struct {
	Name     string
	QueryID  string
	DSL      string
	Alt      string
	Document map[string]any
}

// NewSnapshot renders q in every syntax.
func NewSnapshot(name string, q queryir.Query) (*Snapshot, error) {
	doc, err := codec.Document(q)
	if err != nil {
		return nil, err
	}
	id, err := canonical.QueryID(q)
	if err != nil {
		return nil, err
	}
	d, err := dsl.Format(q)
	if err != nil {
		return nil, err
	}
	a, err := altsyntax.Format(q)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Name: name, QueryID: id, DSL: d, Alt: a, Document: doc}, nil
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	return map[string]any{
		"name":     s.Name,
		"query_id": s.QueryID,
		"dsl":      s.DSL,
		"alt":      s.Alt,
		"document": s.Document,
	}
}

// Marshal returns the snapshot as canonical JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return canonical.Marshal(s.toCanonicalMap())
}

// RunWithGolden checks a case and compares its snapshot against a golden
// file stored in testdata/golden/{name}.golden, where name is the case
// name with "/" replaced by "_".
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the case fails; a golden mismatch fails t.
func RunWithGolden(t *testing.T, h *Harness, c Case) error {
	t.Helper()

	result := h.Run(c)
	if !result.Pass {
		return fmt.Errorf("case %s failed: %v", c.Name, result.Errors)
	}
	if c.Error != nil {
		return fmt.Errorf("case %s expects an error and has no snapshot", c.Name)
	}

	q, err := h.inputs(c)[0].parse()
	if err != nil {
		return err
	}
	snap, err := NewSnapshot(c.Name, q)
	if err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, goldenName(c.Name), data)
	return nil
}

func goldenName(name string) string {
	out := []byte(name)
	for i, b := range out {
		if b == '/' || b == ' ' {
			out[i] = '_'
		}
	}
	return string(out)
}
