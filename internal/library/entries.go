package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/queryir"
)

// Entry is a stored definition with its identity and revision.
type Entry struct {
	Definition queryir.NamedParametricQuery
	Document   []byte // compact wire document of Definition
	QueryID    string
	LibraryID  string
	Revision   string
	UpdatedAt  time.Time
}

// Name returns the definition's name.
func (e Entry) Name() string {
	return e.Definition.Name
}

// Save stores def under def.Name, replacing any previous definition.
//
// Saving content identical to what is stored (same QueryID) keeps the
// existing revision and timestamp, so repeated saves are idempotent.
func (s *Store) Save(ctx context.Context, def queryir.NamedParametricQuery) (Entry, error) {
	if def.Name == "" {
		return Entry{}, fmt.Errorf("save: definition has no name")
	}
	if err := queryir.Validate(def); err != nil {
		return Entry{}, fmt.Errorf("save %q: %w", def.Name, err)
	}
	doc, err := codec.Encode(def)
	if err != nil {
		return Entry{}, fmt.Errorf("save %q: %w", def.Name, err)
	}
	queryID, err := canonical.QueryID(def)
	if err != nil {
		return Entry{}, fmt.Errorf("save %q: %w", def.Name, err)
	}
	libraryID, err := canonical.LibraryID(def.Name, queryID)
	if err != nil {
		return Entry{}, fmt.Errorf("save %q: %w", def.Name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("save %q: begin: %w", def.Name, err)
	}
	defer tx.Rollback()

	existing, err := scanEntry(tx.QueryRowContext(ctx, selectEntry+` WHERE name = ?`, def.Name))
	switch {
	case err == nil && existing.QueryID == queryID:
		s.logger.Debug("library save unchanged", "name", def.Name, "revision", existing.Revision)
		return existing, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return Entry{}, fmt.Errorf("save %q: %w", def.Name, err)
	}

	entry := Entry{
		Definition: def,
		Document:   doc,
		QueryID:    queryID,
		LibraryID:  libraryID,
		Revision:   s.revisions.Generate(),
		UpdatedAt:  s.now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO queries (name, document, query_id, library_id, revision, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			query_id = excluded.query_id,
			library_id = excluded.library_id,
			revision = excluded.revision,
			updated_at = excluded.updated_at
	`,
		def.Name,
		string(doc),
		queryID,
		libraryID,
		entry.Revision,
		entry.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("save %q: %w", def.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("save %q: commit: %w", def.Name, err)
	}

	s.logger.Info("library save", "name", def.Name, "revision", entry.Revision, "query_id", queryID)
	return entry, nil
}

// Get returns the definition stored under name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectEntry+` WHERE name = ?`, name))
	if err != nil {
		return Entry{}, fmt.Errorf("get %q: %w", name, err)
	}
	return e, nil
}

// List returns every stored definition ordered by name.
//
// Returns an empty slice (not nil) if the library is empty.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+` ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: iterate: %w", err)
	}
	return entries, nil
}

// Delete removes the definition stored under name, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queries WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	s.logger.Info("library delete", "name", name)
	return nil
}

const selectEntry = `SELECT name, document, query_id, library_id, revision, updated_at FROM queries`

type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one row and decodes its document.
func scanEntry(row scanner) (Entry, error) {
	var (
		name, doc, updated string
		e                  Entry
	)
	err := row.Scan(&name, &doc, &e.QueryID, &e.LibraryID, &e.Revision, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("scan: %w", err)
	}

	q, err := codec.Decode([]byte(doc))
	if err != nil {
		return Entry{}, fmt.Errorf("stored document for %q: %w", name, err)
	}
	def, ok := q.(queryir.NamedParametricQuery)
	if !ok {
		return Entry{}, fmt.Errorf("stored document for %q is %T, not a named query", name, q)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Entry{}, fmt.Errorf("stored timestamp for %q: %w", name, err)
	}
	e.Definition = def
	e.Document = []byte(doc)
	return e, nil
}
