package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/roach88/woql/internal/queryir"
)

func TestLibrary_Lifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lib.db")
	body := "and(triple($P, name, $Name), isa($P, Person))"

	resp, err := executeJSON(t, "", "library", "--db", db, "save", "person_by_name", "--params", "Name", "-e", body)
	require.NoError(t, err)
	saved := resp.Data.(map[string]any)
	assert.Equal(t, "person_by_name", saved["name"])
	assert.Equal(t, []any{"Name"}, saved["params"])
	assert.NotEmpty(t, saved["revision"])

	// Saving identical content keeps the revision.
	resp, err = executeJSON(t, "", "library", "--db", db, "save", "person_by_name", "--params", "Name", "-e", body)
	require.NoError(t, err)
	assert.Equal(t, saved["revision"], resp.Data.(map[string]any)["revision"])

	resp, err = executeJSON(t, "", "library", "--db", db, "get", "person_by_name", "--to", "alt")
	require.NoError(t, err)
	got := resp.Data.(map[string]any)
	assert.Equal(t, saved["query_id"], got["query_id"])
	assert.Contains(t, got["text"], "WOQL.")

	_, err = executeJSON(t, "", "library", "--db", db, "save", "everything", "-e", "triple($S, $P, $O)")
	require.NoError(t, err)

	resp, err = executeJSON(t, "", "library", "--db", db, "list")
	require.NoError(t, err)
	entries := resp.Data.([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "everything", entries[0].(map[string]any)["name"])
	assert.Equal(t, "person_by_name", entries[1].(map[string]any)["name"])

	out, err := execute(t, "", "library", "--db", db, "delete", "everything")
	require.NoError(t, err)
	assert.Equal(t, "deleted everything\n", out)

	resp, err = executeJSON(t, "", "library", "--db", db, "get", "everything")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestLibrary_ListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lib.db")
	out, err := execute(t, "", "library", "--db", db, "list")
	require.NoError(t, err)
	assert.Equal(t, "No saved queries.\n", out)
}

func TestLibrary_DeleteMissing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lib.db")
	resp, err := executeJSON(t, "", "library", "--db", db, "delete", "nothing")
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestLibrary_SaveRejectsBadParameter(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lib.db")
	_, err := executeJSON(t, "", "library", "--db", db, "save", "bad", "--params", "1x", "-e", "true()")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestLibrary_DBFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, "woql.yaml", "library:\n  path: "+filepath.Join(dir, "configured.db")+"\n")

	_, err := execute(t, "", "--config", cfg, "library", "save", "q", "-e", "true()")
	require.NoError(t, err)

	resp, err := executeJSON(t, "", "library", "--db", filepath.Join(dir, "configured.db"), "list")
	require.NoError(t, err)
	assert.Len(t, resp.Data.([]any), 1)
}

func TestDefinition(t *testing.T) {
	body := q.Triple{Subject: q.Var("S"), Predicate: q.Node("p"), Object: q.Var("O")}

	def := definition("plain", []string{"S"}, body)
	assert.Equal(t, q.NewNamedParametricQuery("plain", []string{"S"}, body), def)

	named := q.NewNamedParametricQuery("old", []string{"O"}, body)
	assert.Equal(t, q.NewNamedParametricQuery("new", []string{"O"}, body), definition("new", nil, named))
	assert.Equal(t, q.NewNamedParametricQuery("new", []string{"S"}, body), definition("new", []string{"S"}, named))
}
