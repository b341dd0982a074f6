// Package grammar defines the compiled grammar format constants and the decoded data types.
package grammar

import "unicode/utf8"

// Magic is the format tag stored in the first bytes of every compiled grammar.
const Magic = "bach-cg1"

const (
	// RuleBytes is the size of one production record.
	RuleBytes = 6

	// MaxSetsPerRule is the number of terminal set slots in a production record.
	MaxSetsPerRule = 3

	// AbsentSet marks an unused terminal set slot.
	AbsentSet = 255

	// MaxState is the highest state index a production target can hold.
	MaxState = ValueMask
)

// Reserved terminal set IDs, other IDs are grammar-specific.
const (
	NoneSet                = 0 // empty set
	EofSet                 = 1
	ShorthandSet           = 2 // SS, replaced with caller-supplied separators
	DisallowedShorthandSet = 3 // DSS
	SpecialCharsSet        = 8 // SC, united with caller-supplied separators
)

// Bit masks of packed production bytes.
const (
	InvertedMask = 0x80
	ValueMask    = 0x7f

	CaptureMask      = 0x80
	CaptureStartMask = 0x40
	CaptureEndMask   = 0x20
	CaptureAsMask    = 0x1f
)

// Target is a state index with the "inverted" flag taken from the high bit.
// The meaning of the flag is defined by the parser driving the automaton.
type Target struct {
	State    int  `json:"state" yaml:"state" toml:"state"`
	Inverted bool `json:"inverted,omitempty" yaml:"inverted,omitempty" toml:"inverted,omitempty"`
}

// Byte packs the target back into a single byte.
// State is truncated to 7 bits.
func (t Target) Byte() byte {
	b := byte(t.State) & ValueMask
	if t.Inverted {
		b |= InvertedMask
	}
	return b
}

// CaptureFlags are the capture bits of a production.
type CaptureFlags struct {
	Capture bool `json:"capture,omitempty" yaml:"capture,omitempty" toml:"capture,omitempty"`
	Start   bool `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
	End     bool `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
	As      int  `json:"as,omitempty" yaml:"as,omitempty" toml:"as,omitempty"`
}

// Byte packs the flags back into a single byte.
// As is truncated to 5 bits.
func (f CaptureFlags) Byte() byte {
	b := byte(f.As) & CaptureAsMask
	if f.Capture {
		b |= CaptureMask
	}
	if f.Start {
		b |= CaptureStartMask
	}
	if f.End {
		b |= CaptureEndMask
	}
	return b
}

// Production is the default decoded form of a production record.
type Production struct {
	Target       Target       `json:"target" yaml:"target" toml:"target"`
	Action       Target       `json:"action" yaml:"action" toml:"action"`
	TerminalSets []int        `json:"sets,omitempty" yaml:"sets,omitempty" toml:"sets,omitempty"`
	Flags        CaptureFlags `json:"flags" yaml:"flags" toml:"flags"`
}

// Factory builds a caller-defined production value from decoded record fields.
type Factory[P any] func(target, action Target, sets []int, flags CaptureFlags) P

// NewProduction is the Factory for Production.
func NewProduction(target, action Target, sets []int, flags CaptureFlags) Production {
	return Production{target, action, sets, flags}
}

// Bounds is a [Start, End) byte range in the terminal string.
type Bounds struct {
	Start int `json:"start" yaml:"start" toml:"start"`
	End   int `json:"end" yaml:"end" toml:"end"`
}

// Within reports whether b is a valid range of terminals with both ends on character boundaries.
func (b Bounds) Within(terminals string) bool {
	if b.Start < 0 || b.Start > b.End || b.End > len(terminals) {
		return false
	}
	return onBoundary(terminals, b.Start) && onBoundary(terminals, b.End)
}

func onBoundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}

// State lists productions of a single automaton state in stored order.
type State struct {
	Productions []Production `json:"productions" yaml:"productions" toml:"productions"`
}

// Description is the complete structured content of a compiled grammar.
// It is the input of the encoder and the output of a decoded grammar dump.
type Description struct {
	Terminals string   `json:"terminals" yaml:"terminals" toml:"terminals"`
	Sets      []Bounds `json:"sets" yaml:"sets" toml:"sets"`
	States    []State  `json:"states" yaml:"states" toml:"states"`
	EndStates []int    `json:"endStates" yaml:"endStates" toml:"endStates"`
}

// SetChars returns the static characters of terminal set id or empty string if id is out of range.
func (d *Description) SetChars(id int) string {
	if id < 0 || id >= len(d.Sets) {
		return ""
	}
	b := d.Sets[id]
	if !b.Within(d.Terminals) {
		return ""
	}
	return d.Terminals[b.Start:b.End]
}

// NumRules returns the total number of productions.
func (d *Description) NumRules() int {
	result := 0
	for _, st := range d.States {
		result += len(st.Productions)
	}
	return result
}
