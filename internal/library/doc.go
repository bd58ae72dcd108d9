// Package library stores named parametric queries in SQLite.
//
// A definition is a queryir.NamedParametricQuery. The store keeps its wire
// document together with:
//   - query_id: canonical.QueryID of the definition
//   - library_id: canonical.LibraryID of name and query_id
//   - revision: a UUIDv7 minted when the content changes
//   - updated_at: RFC 3339 time of the last change
//
// Listing is ordered by name COLLATE BINARY so output is stable across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package library
