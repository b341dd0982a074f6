package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetByte(t *testing.T) {
	assert.Equal(t, byte(0x85), Target{5, true}.Byte())
	assert.Equal(t, byte(0x05), Target{5, false}.Byte())
	assert.Equal(t, byte(0x7f), Target{0xff, false}.Byte())
}

func TestCaptureFlagsByte(t *testing.T) {
	assert.Equal(t, byte(0b10100011), CaptureFlags{Capture: true, End: true, As: 3}.Byte())
	assert.Equal(t, byte(0b01011111), CaptureFlags{Start: true, As: 0xff}.Byte())
	assert.Equal(t, byte(0), CaptureFlags{}.Byte())
}

func TestSetChars(t *testing.T) {
	d := &Description{
		Terminals: "abc",
		Sets:      []Bounds{{0, 0}, {0, 2}, {1, 3}, {2, 5}},
	}
	assert.Equal(t, "", d.SetChars(0))
	assert.Equal(t, "ab", d.SetChars(1))
	assert.Equal(t, "bc", d.SetChars(2))
	assert.Equal(t, "", d.SetChars(3))
	assert.Equal(t, "", d.SetChars(4))
	assert.Equal(t, "", d.SetChars(-1))
}

func TestBoundsWithin(t *testing.T) {
	terminals := "aéb"
	samples := []struct {
		b      Bounds
		within bool
	}{
		{Bounds{0, 0}, true},
		{Bounds{0, 4}, true},
		{Bounds{1, 3}, true},
		{Bounds{3, 4}, true},
		{Bounds{4, 4}, true},
		{Bounds{1, 2}, false},
		{Bounds{2, 4}, false},
		{Bounds{3, 1}, false},
		{Bounds{-1, 1}, false},
		{Bounds{0, 5}, false},
	}
	for _, s := range samples {
		assert.Equal(t, s.within, s.b.Within(terminals), "%v", s.b)
	}
}

func TestNumRules(t *testing.T) {
	d := &Description{States: []State{
		{Productions: make([]Production, 2)},
		{},
		{Productions: make([]Production, 3)},
	}}
	assert.Equal(t, 5, d.NumRules())
}
