// Package unpack decodes compiled grammars and answers queries about their states,
// productions, and terminal sets.
//
// A loaded Grammar is immutable and safe for concurrent use.
package unpack

import (
	"bytes"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
	"github.com/ava12/bachcg/source"
)

// Grammar is a decoded compiled grammar.
// All structural offsets are computed once by Load, queries work directly on the buffer.
type Grammar struct {
	data          []byte
	terminals     string
	sets          []grammar.Bounds
	stateIndexes  []int
	stateNumRules []int
	rulesOffset   int
	numRules      int
	endStates     []int
}

// Option configures Load.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	validate  bool
	shorthand string
}

// WithLogger makes Load report decoded structure at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithValidation makes Load run Validate with given shorthand separators and fail on any error found.
func WithValidation(shorthand string) Option {
	return func(o *options) {
		o.validate = true
		o.shorthand = shorthand
	}
}

// Checksum returns the sum of all bytes modulo 255.
func Checksum(data []byte) byte {
	sum := 0
	for _, b := range data {
		sum += int(b)
	}
	return byte(sum % 255)
}

// ReadPascalString reads a length-prefixed string starting at index.
// Returns the index following the string and the string bytes (not copied).
func ReadPascalString(buf []byte, index int) (next int, s []byte, e error) {
	if index < 0 || index >= len(buf) {
		return index, nil, truncatedError(index, "string length")
	}

	next = index + 1 + int(buf[index])
	if next > len(buf) {
		return index, nil, truncatedError(index, "string content")
	}
	return next, buf[index+1 : next], nil
}

// header is a cursor over the header region; it never reads the checksum byte.
type header struct {
	buf []byte
	pos int
}

func (h *header) readByte(what string) (int, error) {
	if h.pos >= len(h.buf) {
		return 0, truncatedError(h.pos, what)
	}
	b := h.buf[h.pos]
	h.pos++
	return int(b), nil
}

func (h *header) readPair(what string) (int, int, error) {
	if h.pos+2 > len(h.buf) {
		return 0, 0, truncatedError(h.pos, what)
	}
	a, b := h.buf[h.pos], h.buf[h.pos+1]
	h.pos += 2
	return int(a), int(b), nil
}

// Load validates and decodes a compiled grammar. raw is copied.
// The format tag is checked first, then the checksum, then the structure.
func Load(raw []byte, opts ...Option) (*Grammar, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	magicLen := len(grammar.Magic)
	if len(raw) < magicLen || string(raw[:magicLen]) != grammar.Magic {
		return nil, bachcg.FormatErrorAt(0, FormatError, "format tag %q expected", grammar.Magic)
	}

	if len(raw) == magicLen {
		return nil, truncatedError(magicLen, "checksum")
	}

	last := len(raw) - 1
	if sum := Checksum(raw[:last]); sum != raw[last] {
		return nil, bachcg.FormatErrorAt(last, ChecksumError, "checksum mismatch: stored %d, computed %d", raw[last], sum)
	}

	g := &Grammar{data: bytes.Clone(raw)}
	if e := g.decode(); e != nil {
		return nil, e
	}

	o.logger.Debug("compiled grammar loaded",
		zap.Int("bytes", len(g.data)),
		zap.Int("states", len(g.stateIndexes)),
		zap.Int("terminalSets", len(g.sets)),
		zap.Int("rules", g.numRules),
		zap.Int("endStates", len(g.endStates)),
	)

	if o.validate {
		issues := g.Check(o.shorthand)
		for _, issue := range issues {
			if issue.Warning {
				o.logger.Debug("grammar warning", zap.Int("state", issue.State), zap.String("message", issue.Message))
			}
		}
		if e := issuesError(issues); e != nil {
			return nil, e
		}
	}

	return g, nil
}

func (g *Grammar) decode() error {
	h := &header{buf: g.data[:len(g.data)-1], pos: len(grammar.Magic)}

	numStates, e := h.readByte("state count")
	if e != nil {
		return e
	}

	termPos := h.pos
	next, terms, e := ReadPascalString(h.buf, h.pos)
	if e != nil {
		return e
	}
	if !utf8.Valid(terms) {
		return bachcg.FormatErrorAt(termPos+1, EncodingError, "terminal string is not valid UTF-8")
	}
	g.terminals = string(terms)
	h.pos = next

	numSets, e := h.readByte("terminal set count")
	if e != nil {
		return e
	}
	g.sets = make([]grammar.Bounds, numSets)
	for i := range g.sets {
		pos := h.pos
		start, end, e := h.readPair("terminal set bounds")
		if e != nil {
			return e
		}
		b := grammar.Bounds{Start: start, End: end}
		if !b.Within(g.terminals) {
			return bachcg.FormatErrorAt(pos, RangeError, "terminal set %d bounds [%d, %d) do not match characters of %d byte terminal string", i, start, end, len(g.terminals))
		}
		g.sets[i] = b
	}

	g.stateIndexes = make([]int, numStates)
	g.stateNumRules = make([]int, numStates)
	statePos := h.pos
	for i := 0; i < numStates; i++ {
		index, count, e := h.readPair("state rule block")
		if e != nil {
			return e
		}
		g.stateIndexes[i] = index
		g.stateNumRules[i] = count
		g.numRules += count
	}
	for i, index := range g.stateIndexes {
		if index+g.stateNumRules[i] > g.numRules {
			return bachcg.FormatErrorAt(statePos+i*2, RangeError, "state %d rule block [%d, %d) outside rule table of %d rules", i, index, index+g.stateNumRules[i], g.numRules)
		}
	}

	g.rulesOffset = h.pos
	h.pos += g.numRules * grammar.RuleBytes
	if h.pos > len(h.buf) {
		return truncatedError(g.rulesOffset, "rule table")
	}

	numEnd, e := h.readByte("end state count")
	if e != nil {
		return e
	}
	if h.pos+numEnd > len(h.buf) {
		return truncatedError(h.pos, "end states")
	}
	g.endStates = make([]int, numEnd)
	for i := range g.endStates {
		g.endStates[i] = int(h.buf[h.pos+i])
	}

	return nil
}

// LoadSource decodes raw or hex source content and loads it.
func LoadSource(s *source.Source, opts ...Option) (*Grammar, error) {
	data, e := s.Bytes()
	if e != nil {
		return nil, e
	}
	return Load(data, opts...)
}

// LoadHex loads a grammar from its hex text form; all whitespace is ignored.
func LoadHex(text string, opts ...Option) (*Grammar, error) {
	return LoadSource(source.FromHex("", text), opts...)
}

// MustLoadHex is like LoadHex but panics on error. It is intended for embedded grammars.
func MustLoadHex(text string, opts ...Option) *Grammar {
	g, e := LoadHex(text, opts...)
	if e != nil {
		panic("unpack: " + e.Error())
	}
	return g
}

// Bytes returns a copy of the compiled grammar including the checksum byte.
func (g *Grammar) Bytes() []byte {
	return bytes.Clone(g.data)
}

// Terminals returns the whole terminal string. It may contain duplicate characters
// and order differing from terminal sets; it is intended for fast membership tests.
func (g *Grammar) Terminals() string {
	return g.terminals
}

func (g *Grammar) NumStates() int {
	return len(g.stateIndexes)
}

func (g *Grammar) NumTerminalSets() int {
	return len(g.sets)
}

// EndStates returns accepting state indexes in stored order.
func (g *Grammar) EndStates() []int {
	result := make([]int, len(g.endStates))
	copy(result, g.endStates)
	return result
}

func (g *Grammar) IsEndState(state int) bool {
	for _, s := range g.endStates {
		if s == state {
			return true
		}
	}
	return false
}
