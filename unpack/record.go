package unpack

import (
	"iter"
	"slices"

	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
)

// Invget splits a packed byte into its low 7 bits and the high "inverted" bit.
func Invget(b byte) (value int, inverted bool) {
	return int(b & grammar.ValueMask), b&grammar.InvertedMask != 0
}

func target(b byte) grammar.Target {
	state, inverted := Invget(b)
	return grammar.Target{State: state, Inverted: inverted}
}

// Capget extracts capture flags. Reserved bits are not checked.
func Capget(b byte) grammar.CaptureFlags {
	return grammar.CaptureFlags{
		Capture: b&grammar.CaptureMask != 0,
		Start:   b&grammar.CaptureStartMask != 0,
		End:     b&grammar.CaptureEndMask != 0,
		As:      int(b & grammar.CaptureAsMask),
	}
}

// TerminalSetIDs yields terminal set IDs in stored order, skipping grammar.AbsentSet slots.
func TerminalSetIDs(slots []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, b := range slots {
			if b == grammar.AbsentSet {
				continue
			}
			if !yield(int(b)) {
				return
			}
		}
	}
}

// Unpack decodes a single production record and passes its fields to factory.
//
// Record layout: target, three terminal set slots, capture action, capture flags.
func Unpack[P any](record []byte, factory grammar.Factory[P]) (P, error) {
	if len(record) != grammar.RuleBytes {
		var zero P
		return zero, bachcg.FormatError(LengthError, "production record must be %d bytes, got %d", grammar.RuleBytes, len(record))
	}
	return unpackRecord(record, factory), nil
}

func unpackRecord[P any](record []byte, factory grammar.Factory[P]) P {
	sets := slices.Collect(TerminalSetIDs(record[1 : 1+grammar.MaxSetsPerRule]))
	return factory(target(record[0]), target(record[4]), sets, Capget(record[5]))
}
