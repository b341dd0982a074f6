package unpack

import (
	"slices"
	"testing"

	"github.com/ava12/bachcg/grammar"
	. "github.com/ava12/bachcg/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestInvget(t *testing.T) {
	samples := []struct {
		b        byte
		value    int
		inverted bool
	}{
		{0x85, 5, true},
		{0x05, 5, false},
		{0x00, 0, false},
		{0x80, 0, true},
		{0xff, 127, true},
		{0x7f, 127, false},
	}

	for _, s := range samples {
		value, inverted := Invget(s.b)
		ExpectInt(t, s.value, value)
		ExpectBool(t, s.inverted, inverted)
	}
}

func TestCapget(t *testing.T) {
	assert.Equal(t, grammar.CaptureFlags{Capture: true, Start: false, End: true, As: 3}, Capget(0b10100011))
	assert.Equal(t, grammar.CaptureFlags{}, Capget(0))
	assert.Equal(t, grammar.CaptureFlags{Capture: true, Start: true, End: true, As: 31}, Capget(0xff))
	assert.Equal(t, grammar.CaptureFlags{Start: true, As: 16}, Capget(0b01010000))

	for b := 0; b < 256; b++ {
		ExpectInt(t, b, int(Capget(byte(b)).Byte()))
	}
}

func TestTerminalSetIDs(t *testing.T) {
	samples := []struct {
		slots    []byte
		expected []int
	}{
		{[]byte{255, 255, 255}, nil},
		{[]byte{5, 255, 9}, []int{5, 9}},
		{[]byte{0, 1, 2}, []int{0, 1, 2}},
		{[]byte{255, 255, 7}, []int{7}},
		{[]byte{}, nil},
	}

	for _, s := range samples {
		assert.Equal(t, s.expected, slices.Collect(TerminalSetIDs(s.slots)), "slots %v", s.slots)
	}

	seq := TerminalSetIDs([]byte{1, 2, 3})
	for id := range seq {
		ExpectInt(t, 1, id)
		break
	}
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(seq))
}

type edge struct {
	to    int
	sets  int
	carry bool
}

func newEdge(target, action grammar.Target, sets []int, flags grammar.CaptureFlags) edge {
	return edge{target.State, len(sets), flags.Capture}
}

func TestUnpack(t *testing.T) {
	record := Rule{Target: 3, Inverted: true, Sets: []int{4, 6}, Action: 0x82, Flags: 0b11000001}.Record()
	p, e := Unpack(record, grammar.NewProduction)
	ExpectNoError(t, e)
	assert.Equal(t, grammar.Production{
		Target:       grammar.Target{State: 3, Inverted: true},
		Action:       grammar.Target{State: 2, Inverted: true},
		TerminalSets: []int{4, 6},
		Flags:        grammar.CaptureFlags{Capture: true, Start: true, As: 1},
	}, p)

	ed, e := Unpack(record, newEdge)
	ExpectNoError(t, e)
	assert.Equal(t, edge{3, 2, true}, ed)
}

func TestUnpackLength(t *testing.T) {
	for _, size := range []int{0, 5, 7, 12} {
		_, e := Unpack(make([]byte, size), grammar.NewProduction)
		ExpectErrorCode(t, LengthError, e)
		assert.ErrorIs(t, e, ErrLength)
	}
}
