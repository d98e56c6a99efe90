// Package render formats decode results for people and programs.
//
// Three formats are supported: an indented text tree with byte offsets, JSON
// (one document per line) and CBOR (a deterministic encoding with integer
// map keys, suitable for appending to a capture log).
package render
