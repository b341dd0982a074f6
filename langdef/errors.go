package langdef

import (
	"github.com/ava12/bachcg"
)

// Error codes used by langdef:
const (
	// SyntaxError indicates a definition that cannot be decoded or contains unknown keys.
	SyntaxError = bachcg.DefErrors + iota

	// FormatError indicates an unsupported format name or file extension.
	FormatError

	// DuplicateError indicates a name defined twice or a reserved set name redefined.
	DuplicateError

	// UnknownSetError indicates a reference to an undefined terminal set name.
	UnknownSetError

	// UnknownStateError indicates a reference to an undefined state name.
	UnknownStateError

	// ReferenceError indicates a reference that is neither a name nor a number.
	ReferenceError
)

var (
	ErrSyntax       = bachcg.Sentinel(SyntaxError, "syntax error")
	ErrFormat       = bachcg.Sentinel(FormatError, "unsupported format")
	ErrDuplicate    = bachcg.Sentinel(DuplicateError, "duplicate name")
	ErrUnknownSet   = bachcg.Sentinel(UnknownSetError, "unknown terminal set")
	ErrUnknownState = bachcg.Sentinel(UnknownStateError, "unknown state")
)

func syntaxError(format string, e error) *bachcg.Error {
	return bachcg.FormatError(SyntaxError, "malformed %s definition: %s", format, e.Error())
}

func formatError(name string) *bachcg.Error {
	return bachcg.FormatError(FormatError, "unsupported format %q", name)
}
