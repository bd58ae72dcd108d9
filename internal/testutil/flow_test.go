package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevisionSequence_Counts(t *testing.T) {
	gen := NewRevisionSequence("r")
	assert.Equal(t, "r-1", gen.Generate())
	assert.Equal(t, "r-2", gen.Generate())
	assert.Equal(t, "r-3", gen.Generate())
}

func TestRevisionSequence_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "rev-1", NewRevisionSequence("").Generate())
}

func TestRevisionSequence_ThreadSafe(t *testing.T) {
	gen := NewRevisionSequence("")

	var wg sync.WaitGroup
	tokens := make(chan string, 1000)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tokens <- gen.Generate()
			}
		}()
	}
	wg.Wait()
	close(tokens)

	seen := map[string]bool{}
	for tok := range tokens {
		assert.False(t, seen[tok], "duplicate %s", tok)
		seen[tok] = true
	}
	assert.Len(t, seen, 1000)
}
