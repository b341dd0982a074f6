// Package pack encodes grammar descriptions into the compiled binary format.
package pack

import (
	"encoding/hex"
	"strings"

	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
)

// Error codes used by pack:
const (
	// LimitError indicates a value that does not fit its packed field.
	LimitError = bachcg.PackErrors + iota

	// BoundsError indicates terminal set bounds outside the terminal string.
	BoundsError

	// ReservedError indicates an attempt to define a non-reserved set by ID.
	ReservedError
)

var (
	ErrLimit    = bachcg.Sentinel(LimitError, "value out of limits")
	ErrBounds   = bachcg.Sentinel(BoundsError, "wrong bounds")
	ErrReserved = bachcg.Sentinel(ReservedError, "not a reserved set")
)

const maxByte = 255

func limitError(what string, value, limit int) *bachcg.Error {
	return bachcg.FormatError(LimitError, "%s %d exceeds limit %d", what, value, limit)
}

func checkLimit(what string, value, limit int) error {
	if value < 0 || value > limit {
		return limitError(what, value, limit)
	}
	return nil
}

type encoder struct {
	data []byte
}

func (enc *encoder) put(b ...byte) {
	enc.data = append(enc.data, b...)
}

// Encode converts description to the compiled binary format including checksum.
// States get consecutive rule blocks in state order.
func Encode(d *grammar.Description) ([]byte, error) {
	if e := check(d); e != nil {
		return nil, e
	}

	enc := &encoder{data: make([]byte, 0, 64+len(d.Terminals)+d.NumRules()*grammar.RuleBytes)}
	enc.put([]byte(grammar.Magic)...)
	enc.put(byte(len(d.States)), byte(len(d.Terminals)))
	enc.put([]byte(d.Terminals)...)

	enc.put(byte(len(d.Sets)))
	for _, b := range d.Sets {
		enc.put(byte(b.Start), byte(b.End))
	}

	index := 0
	for _, st := range d.States {
		enc.put(byte(index), byte(len(st.Productions)))
		index += len(st.Productions)
	}

	for _, st := range d.States {
		for _, p := range st.Productions {
			enc.put(Record(p)...)
		}
	}

	enc.put(byte(len(d.EndStates)))
	for _, s := range d.EndStates {
		enc.put(byte(s))
	}

	enc.put(checksum(enc.data))
	return enc.data, nil
}

// Record packs a single production. Values must be checked beforehand.
func Record(p grammar.Production) []byte {
	result := []byte{p.Target.Byte(), grammar.AbsentSet, grammar.AbsentSet, grammar.AbsentSet, p.Action.Byte(), p.Flags.Byte()}
	for i, id := range p.TerminalSets {
		result[1+i] = byte(id)
	}
	return result
}

func checksum(data []byte) byte {
	sum := 0
	for _, b := range data {
		sum += int(b)
	}
	return byte(sum % 255)
}

func check(d *grammar.Description) error {
	checks := []struct {
		what         string
		value, limit int
	}{
		{"state count", len(d.States), maxByte},
		{"terminal string length", len(d.Terminals), maxByte},
		{"terminal set count", len(d.Sets), maxByte},
		{"end state count", len(d.EndStates), maxByte},
	}
	for _, c := range checks {
		if e := checkLimit(c.what, c.value, c.limit); e != nil {
			return e
		}
	}

	for id, b := range d.Sets {
		if !b.Within(d.Terminals) {
			return bachcg.FormatError(BoundsError, "terminal set %d bounds [%d, %d) do not match characters of %d byte terminal string", id, b.Start, b.End, len(d.Terminals))
		}
	}

	index := 0
	for state, st := range d.States {
		if e := checkLimit("rule block start", index, maxByte); e != nil {
			return bachcg.FormatError(LimitError, "state %d: %s", state, e.Error())
		}
		if e := checkLimit("rule count", len(st.Productions), maxByte); e != nil {
			return bachcg.FormatError(LimitError, "state %d: %s", state, e.Error())
		}
		index += len(st.Productions)

		for i, p := range st.Productions {
			if e := checkProduction(p); e != nil {
				return bachcg.FormatError(LimitError, "state %d production #%d: %s", state, i, e.Error())
			}
		}
	}

	for _, s := range d.EndStates {
		if e := checkLimit("end state", s, maxByte); e != nil {
			return e
		}
	}
	return nil
}

func checkProduction(p grammar.Production) error {
	if e := checkLimit("target state", p.Target.State, grammar.MaxState); e != nil {
		return e
	}
	if e := checkLimit("action", p.Action.State, grammar.MaxState); e != nil {
		return e
	}
	if e := checkLimit("capture group", p.Flags.As, grammar.CaptureAsMask); e != nil {
		return e
	}
	if e := checkLimit("terminal set count", len(p.TerminalSets), grammar.MaxSetsPerRule); e != nil {
		return e
	}
	for _, id := range p.TerminalSets {
		if e := checkLimit("terminal set", id, grammar.AbsentSet-1); e != nil {
			return e
		}
	}
	return nil
}

// Hex returns the hex text form of data with width bytes per line.
// Non-positive width puts everything on a single line. Each line ends with a newline.
func Hex(data []byte, width int) string {
	if width <= 0 {
		width = len(data)
	}

	var sb strings.Builder
	sb.Grow(len(data)*2 + len(data)/max(width, 1) + 1)
	for len(data) > 0 {
		n := min(width, len(data))
		sb.WriteString(hex.EncodeToString(data[:n]))
		sb.WriteByte('\n')
		data = data[n:]
	}
	return sb.String()
}
