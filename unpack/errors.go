package unpack

import (
	"github.com/ava12/bachcg"
)

// Error codes used by unpack:
const (
	// FormatError indicates a missing or wrong format tag.
	FormatError = bachcg.UnpackErrors + iota

	// ChecksumError indicates that the trailing byte does not match the sum of preceding bytes.
	ChecksumError

	// LengthError indicates a production record of wrong size.
	LengthError

	// EncodingError indicates terminal string that is not valid UTF-8.
	EncodingError

	// OutOfRangeError indicates a query for nonexistent state or terminal set.
	OutOfRangeError

	// TruncatedError indicates a header field, rule table, or end state list running past the checksum byte.
	TruncatedError

	// RangeError indicates terminal set bounds or a state rule block outside their tables.
	RangeError
)

// Error codes used by validation:
const (
	// TargetError indicates a production target outside the state table.
	TargetError = bachcg.ValidateErrors + iota

	// SetError indicates a production referencing a nonexistent terminal set.
	SetError

	// AmbiguityError indicates two productions of a state accepting the same symbol.
	AmbiguityError

	// EndStateError indicates an end state outside the state table.
	EndStateError

	// UnreachableWarning indicates a state that no production leads to. It is never returned as error.
	UnreachableWarning
)

var (
	ErrFormat     = bachcg.Sentinel(FormatError, "wrong format")
	ErrChecksum   = bachcg.Sentinel(ChecksumError, "checksum mismatch")
	ErrLength     = bachcg.Sentinel(LengthError, "wrong record length")
	ErrEncoding   = bachcg.Sentinel(EncodingError, "wrong encoding")
	ErrOutOfRange = bachcg.Sentinel(OutOfRangeError, "out of range")
	ErrTruncated  = bachcg.Sentinel(TruncatedError, "truncated data")
	ErrRange      = bachcg.Sentinel(RangeError, "wrong range")
	ErrAmbiguity  = bachcg.Sentinel(AmbiguityError, "ambiguous productions")
)

func truncatedError(offset int, what string) *bachcg.Error {
	return bachcg.FormatErrorAt(offset, TruncatedError, "unexpected end of data reading %s", what)
}

func outOfRangeError(what string, index, size int) *bachcg.Error {
	return bachcg.FormatError(OutOfRangeError, "%s index %d out of range [0, %d)", what, index, size)
}
