package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/roach88/woql/internal/queryir"
)

func TestRunWithGolden(t *testing.T) {
	suite, err := LoadSuite("testdata/cases/basics.yaml")
	require.NoError(t, err)

	c := Flatten([]*Suite{suite})[0]
	require.Equal(t, "basics/triple", c.Name)
	require.NoError(t, RunWithGolden(t, New(), c))
}

func TestRunWithGolden_RejectsFailingCase(t *testing.T) {
	err := RunWithGolden(t, New(), Case{Name: "broken", DSL: "and("})
	assert.ErrorContains(t, err, "failed")

	err = RunWithGolden(t, New(), Case{Name: "err", DSL: "and(", Error: &ExpectedError{Code: "UNEXPECTED_EOF"}})
	assert.ErrorContains(t, err, "no snapshot")
}

func TestSnapshot_Marshal(t *testing.T) {
	snap, err := NewSnapshot("t", q.True{})
	require.NoError(t, err)
	assert.Equal(t, "true()", snap.DSL)
	assert.Equal(t, "WOQL.true()", snap.Alt)

	data, err := snap.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"document":{"@type":"True"}`)
	assert.Contains(t, string(data), `"name":"t"`)
}

func TestGoldenName(t *testing.T) {
	assert.Equal(t, "basics_triple", goldenName("basics/triple"))
	assert.Equal(t, "a_b", goldenName("a b"))
}
