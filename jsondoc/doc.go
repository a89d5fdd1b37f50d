// Package jsondoc parses, validates and re-serializes JSON documents.
//
// Validation is strict (RFC 8259, no comments, no trailing commas) and yields
// exactly one diagnostic on failure. Formatting reproduces what a browser's
// JSON.parse followed by JSON.stringify(v, null, 2) prints: object key order
// is kept, a repeated key keeps its first position and its last value,
// numbers use the shortest round-trip form and strings are escaped minimally.
package jsondoc
