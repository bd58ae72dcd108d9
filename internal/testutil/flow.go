package testutil

import (
	"fmt"
	"sync"
)

// RevisionSequence generates revision tokens "<prefix>-1", "<prefix>-2", ...
//
// The library store stamps each saved definition with a revision. With a
// RevisionSequence the same test produces byte-identical rows on every run.
//
// Thread-safety: Generate is safe for concurrent use.
type RevisionSequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewRevisionSequence creates a generator. If prefix is empty, "rev" is used.
func NewRevisionSequence(prefix string) *RevisionSequence {
	if prefix == "" {
		prefix = "rev"
	}
	return &RevisionSequence{prefix: prefix}
}

// Generate returns the next revision token.
func (g *RevisionSequence) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
