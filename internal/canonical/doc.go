// Package canonical computes content IDs for WOQL queries.
//
// A query's ID is SHA-256 over its wire document serialized as RFC 8785
// canonical JSON, prefixed by a versioned domain string and a NUL byte:
//
//	QueryID(q) = hex(SHA256("woql/query/v1" + 0x00 + canonical(encode(q))))
//
// The codec's own output keeps operator fields in declaration order for
// readability; canonical JSON sorts keys, normalizes strings to NFC and
// strips whitespace so that any faithful re-serialization of a document
// hashes the same.
package canonical
