package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/queryir"
)

// Domain prefixes for content identity. The version suffix leaves room to
// change the algorithm without colliding with old IDs.
const (
	DomainQuery   = "woql/query/v1"
	DomainLibrary = "woql/library/v1"
)

// hashWithDomain returns hex SHA256(domain + 0x00 + data). The separator
// keeps the domain and data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// QueryID is the content ID of a query: the hash of its canonical wire
// document. Structurally equal queries have equal IDs whichever syntax
// they were written in.
func QueryID(q queryir.Query) (string, error) {
	doc, err := codec.Document(q)
	if err != nil {
		return "", fmt.Errorf("QueryID: %w", err)
	}
	data, err := Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("QueryID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, data), nil
}

// DocumentID is QueryID for a wire document given as JSON. Whitespace and
// key order do not affect the result. The document is not decoded, so
// callers that need validation should decode it first.
func DocumentID(data []byte) (string, error) {
	c, err := Canonicalize(data)
	if err != nil {
		return "", fmt.Errorf("DocumentID: %w", err)
	}
	return hashWithDomain(DomainQuery, c), nil
}

// LibraryID identifies a stored named query by name and content.
func LibraryID(name, queryID string) (string, error) {
	data, err := Marshal(map[string]any{"name": name, "query_id": queryID})
	if err != nil {
		return "", fmt.Errorf("LibraryID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainLibrary, data), nil
}

// MustQueryID is like QueryID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustQueryID(q queryir.Query) string {
	id, err := QueryID(q)
	if err != nil {
		panic(err)
	}
	return id
}
