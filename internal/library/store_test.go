package library

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/dsl"
	q "github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/testutil"
)

// createTestStore opens a store in a temp dir with deterministic clock and
// revisions.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.db")
	opts = append([]Option{
		WithClock(testutil.NewDeterministicClock().Now),
		WithRevisions(testutil.NewRevisionSequence("")),
	}, opts...)
	s, err := Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func personByName(t *testing.T) q.NamedParametricQuery {
	t.Helper()
	body, err := dsl.Parse(`and(triple($Person, name, $Name), isa($Person, Person))`)
	require.NoError(t, err)
	return q.NewNamedParametricQuery("person_by_name", []string{"Name"}, body)
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestSaveGet_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	def := personByName(t)

	saved, err := s.Save(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, "rev-1", saved.Revision)
	assert.Equal(t, testutil.Epoch, saved.UpdatedAt)
	assert.Equal(t, canonical.MustQueryID(def), saved.QueryID)

	got, err := s.Get(ctx, "person_by_name")
	require.NoError(t, err)
	assert.Equal(t, def, got.Definition)
	assert.Equal(t, "person_by_name", got.Name())
	assert.Equal(t, saved.QueryID, got.QueryID)
	assert.Equal(t, saved.LibraryID, got.LibraryID)
	assert.Equal(t, saved.Revision, got.Revision)
	assert.True(t, saved.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, saved.Document, got.Document)
}

func TestSave_UnchangedKeepsRevision(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, personByName(t))
	require.NoError(t, err)
	second, err := s.Save(ctx, personByName(t))
	require.NoError(t, err)

	assert.Equal(t, first.Revision, second.Revision)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
}

func TestSave_ChangedBumpsRevision(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, personByName(t))
	require.NoError(t, err)

	changed := q.NewNamedParametricQuery("person_by_name", []string{"Name"},
		q.Triple{Subject: q.Var("Person"), Predicate: q.Node("label"), Object: q.Var("Name")})
	second, err := s.Save(ctx, changed)
	require.NoError(t, err)

	assert.Equal(t, "rev-2", second.Revision)
	assert.NotEqual(t, first.QueryID, second.QueryID)
	assert.NotEqual(t, first.LibraryID, second.LibraryID)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	got, err := s.Get(ctx, "person_by_name")
	require.NoError(t, err)
	assert.Equal(t, changed, got.Definition)
}

func TestSave_Rejects(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, q.NewNamedParametricQuery("", nil, q.True{}))
	assert.Error(t, err)

	_, err = s.Save(ctx, q.NewNamedParametricQuery("bad", []string{"1x"}, q.True{}))
	assert.Error(t, err)

	_, err = s.Save(ctx, q.NewNamedParametricQuery("broken", []string{"X"}, q.Not{}))
	assert.Error(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_OrderedByName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"zeta", "Alpha", "beta"} {
		_, err := s.Save(ctx, q.NewNamedParametricQuery(name, []string{"X"},
			q.Triple{Subject: q.Var("X"), Predicate: q.Node(name), Object: q.Var("Y")}))
		require.NoError(t, err)
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names)
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, personByName(t))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "person_by_name"))
	_, err = s.Get(ctx, "person_by_name")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "person_by_name"), ErrNotFound)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	saved, err := s1.Save(ctx, personByName(t))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Get(ctx, "person_by_name")
	require.NoError(t, err)
	assert.Equal(t, saved.Revision, got.Revision)
}

func TestUUIDv7Revisions(t *testing.T) {
	rev := UUIDv7Revisions{}.Generate()
	id, err := uuid.Parse(rev)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, rev, UUIDv7Revisions{}.Generate())
}

func TestStore_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := createTestStore(t, WithLogger(logger))
	ctx := context.Background()

	_, err := s.Save(ctx, personByName(t))
	require.NoError(t, err)
	_, err = s.Save(ctx, personByName(t))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "library save")
	assert.Contains(t, out, "library save unchanged")
	assert.Contains(t, out, "name=person_by_name")
}
