package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptReader replays lines and then reports end of input.
type scriptReader struct {
	lines   []string
	prompts []string
	history []string
	closed  bool
}

func (r *scriptReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func (r *scriptReader) AppendHistory(item string) { r.history = append(r.history, item) }

func (r *scriptReader) Close() error {
	r.closed = true
	return nil
}

func runShell(t *testing.T, lines ...string) (string, *scriptReader) {
	t.Helper()
	in := &scriptReader{lines: lines}
	out := &bytes.Buffer{}
	sh := newShell(in, out, &RootOptions{})
	require.NoError(t, sh.Run(context.Background()))
	require.NoError(t, sh.Close())
	assert.True(t, in.closed)
	return out.String(), in
}

func TestShell_PrintsQueryAndID(t *testing.T) {
	out, in := runShell(t, tripleAlt)
	assert.Contains(t, out, "triple($S, \"name\", $X)\n")
	assert.Contains(t, out, "id: "+tripleID)
	assert.Equal(t, []string{tripleAlt}, in.history)
}

func TestShell_Continuation(t *testing.T) {
	out, in := runShell(t, "and(", "  triple($S, name, $X))")
	assert.Contains(t, out, "id: ")
	assert.Equal(t, []string{replPrompt, replContinue, replPrompt}, in.prompts)
	assert.Equal(t, []string{"and(   triple($S, name, $X))"}, in.history)
}

func TestShell_AbortDropsPending(t *testing.T) {
	out, in := runShell(t, "and(", "^C", "true()")
	assert.Equal(t, []string{replPrompt, replContinue, replPrompt, replPrompt}, in.prompts)
	assert.Equal(t, 1, strings.Count(out, "id: "))
}

func TestShell_Errors(t *testing.T) {
	out, _ := runShell(t, "frobnicate($X)", "true()")
	assert.Contains(t, out, "error: INVALID_FUNCTION")
	assert.Contains(t, out, "id: ")
}

func TestShell_Commands(t *testing.T) {
	out, _ := runShell(t,
		".help",
		".to alt",
		tripleDSL,
		".to",
		".syntax xml",
		".bogus",
		".exit",
		"true()",
	)
	assert.Contains(t, out, ".syntax [auto|dsl|alt|json]")
	assert.Contains(t, out, "to alt\n")
	assert.Contains(t, out, tripleAlt+"\n")
	assert.Contains(t, out, "\nalt\n")
	assert.Contains(t, out, "syntax must be one of auto, dsl, alt, json")
	assert.Contains(t, out, "unknown command .bogus")
	assert.Equal(t, 1, strings.Count(out, "id: "), "input after .exit is not read")
}

func TestShell_ForcedSyntax(t *testing.T) {
	out, _ := runShell(t, ".syntax json", tripleDSL)
	assert.Contains(t, out, "error: MALFORMED_JSON")
}

func TestCompleteOperator(t *testing.T) {
	got := completeOperator("and(tri")
	assert.Contains(t, got, "and(triple")
	assert.Contains(t, got, "and(triple_count")
	for _, c := range got {
		assert.True(t, strings.HasPrefix(c, "and(tri"), c)
	}

	assert.Contains(t, completeOperator("WOQL.addT"), "WOQL.addTriple")
	assert.Nil(t, completeOperator("and("))
	assert.Nil(t, completeOperator("triple($Tri"))
}
