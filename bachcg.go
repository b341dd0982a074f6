/*
Package bachcg reads compiled grammars: packed deterministic pushdown automaton tables
in the "bach-cg1" binary format.

Consists of subpackages:
  - grammar: format constants and decoded data types (targets, capture flags, productions, descriptions);
  - source: raw or hex-encoded byte sources;
  - unpack: validates and decodes a compiled grammar, resolves terminal sets, iterates state productions;
  - pack: encodes a grammar description into the binary format;
  - langdef: reads and writes grammar descriptions as YAML, TOML, JSON, or CBOR;
  - cggen: generates Go source embedding a compiled grammar;
  - cmd/cgtool: console utility wrapping the packages above.

Typical usage is:

1. Describe the automaton in a definition file and pack it with cgtool, or obtain a compiled blob.

2. Embed the blob (cgtool gen) or load it at run time with unpack.Load.

3. Drive your own parser by querying productions of the current state.
*/
package bachcg

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	SourceErrors   = 1   // used by source
	UnpackErrors   = 101 // used by unpack
	PackErrors     = 201 // used by pack
	DefErrors      = 301 // used by langdef
	ValidateErrors = 401 // used by unpack validation
)

// Error is the error type used by bachcg subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including offset information if provided.
	Message string

	// Offset contains byte offset in the decoded buffer or -1.
	Offset int
}

// NewError creates new Error structure.
// offset will be added to error message if it is not negative.
func NewError(code, offset int, msg string) *Error {
	if offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", offset)
	}
	return &Error{code, msg, offset}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// FormatError creates Error structure with no offset information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, -1, msg)
}

// FormatErrorAt creates Error structure with offset information.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorAt(offset, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, offset, msg)
}

// Sentinel returns an Error usable as errors.Is target for the given code.
func Sentinel(code int, name string) *Error {
	return &Error{Code: code, Message: name, Offset: -1}
}
