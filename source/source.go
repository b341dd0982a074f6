// Package source defines compiled grammar sources: raw binary blobs or their hex text form.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
)

// Error codes used by source:
const (
	// HexError indicates a non-hex character or an odd number of hex digits in hex text.
	HexError = bachcg.SourceErrors + iota

	// EmptyError indicates a source without any content.
	EmptyError
)

var (
	ErrHex   = bachcg.Sentinel(HexError, "hex error")
	ErrEmpty = bachcg.Sentinel(EmptyError, "empty source")
)

// hexMagic is the hex form of the first four bytes of grammar.Magic.
const hexMagic = "62616368"

// Source holds named content, either raw bytes or hex text.
// Line information is computed once and used to report hex text errors.
type Source struct {
	name          string
	content       []byte
	lineStarts    []int
	prevLineIndex int
}

// New creates a source. content is not copied.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content, prevLineIndex: -1}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// FromHex creates a source from hex text.
func FromHex(name, text string) *Source {
	return New(name, []byte(text))
}

// ReadFile creates a source containing file content. Source name is the file path.
func ReadFile(path string) (*Source, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, e)
	}
	return New(path, content), nil
}

// Read creates a source containing everything read from r.
func Read(name string, r io.Reader) (*Source, error) {
	content, e := io.ReadAll(r)
	if e != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, e)
	}
	return New(name, content), nil
}

func (s *Source) Name() string {
	return s.name
}

// IsRaw reports whether content is a binary blob rather than hex text.
// Content starting with the format tag is raw. Content starting (after whitespace) with the hex form
// of the tag or consisting of hex digits and whitespace only is hex text.
// Anything else is raw, so that the unpacker reports a wrong format tag.
func (s *Source) IsRaw() bool {
	if bytes.HasPrefix(s.content, []byte(grammar.Magic)) {
		return true
	}

	text := bytes.TrimLeft(s.content, " \t\r\n\v\f")
	if len(text) >= len(hexMagic) && bytes.EqualFold(text[:len(hexMagic)], []byte(hexMagic)) {
		return false
	}
	return !isHexText(text)
}

func isHexText(text []byte) bool {
	for _, c := range text {
		if !isSpace(c) && fromHexChar(c) < 0 {
			return false
		}
	}
	return true
}

// Bytes returns decoded content: raw content as is or hex text converted to bytes.
// All whitespace in hex text is ignored.
func (s *Source) Bytes() ([]byte, error) {
	if len(s.content) == 0 {
		return nil, bachcg.FormatError(EmptyError, "source %q is empty", s.name)
	}

	if s.IsRaw() {
		return s.content, nil
	}

	result, e := s.decodeHex()
	if e == nil && len(result) == 0 {
		e = bachcg.FormatError(EmptyError, "source %q is empty", s.name)
	}
	return result, e
}

func (s *Source) decodeHex() ([]byte, error) {
	result := make([]byte, 0, len(s.content)/2)
	high := -1
	highPos := 0
	for i, c := range s.content {
		if isSpace(c) {
			continue
		}

		n := fromHexChar(c)
		if n < 0 {
			r, _ := utf8.DecodeRune(s.content[i:])
			return nil, s.hexError(i, "wrong hex char %q", r)
		}

		if high < 0 {
			high = n
			highPos = i
		} else {
			result = append(result, byte(high<<4|n))
			high = -1
		}
	}

	if high >= 0 {
		return nil, s.hexError(highPos, "odd number of hex digits")
	}
	return result, nil
}

func (s *Source) hexError(pos int, msg string, params ...any) *bachcg.Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	line, col := s.LineCol(pos)
	if s.name != "" {
		msg += " in " + s.name
	}
	msg += fmt.Sprintf(" at line %d col %d", line, col)
	return &bachcg.Error{Code: HexError, Message: msg, Offset: pos}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

func fromHexChar(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// LineCol converts byte position to 1-based line and column (in runes).
func (s *Source) LineCol(pos int) (line, col int) {
	var lineIndex int
	if pos < 0 {
		pos = 0
		lineIndex = 0
	} else if pos >= len(s.content) {
		pos = len(s.content)
		lineIndex = len(s.lineStarts) - 1
	} else {
		lineIndex = s.findLineIndex(pos)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

func (s *Source) findLineIndex(pos int) int {
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		last := len(s.lineStarts) - 1
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	leftIndex := 0
	rightIndex := len(s.lineStarts) - 1
	index := 0
	if s.prevLineIndex >= 0 {
		rightIndex = s.prevLineIndex
	}
	for leftIndex < rightIndex {
		index = (leftIndex + rightIndex + 1) >> 1
		lineStart := s.lineStarts[index]
		if lineStart == pos {
			return index
		}

		if lineStart < pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
			index = rightIndex
		}
	}
	s.prevLineIndex = index
	return index
}
