// Package ints implements symbol sets used to compare terminal sets.
// A set is a bit set of runes allocated over the covered range only;
// negative items stand for pseudo-symbols such as end of input.
package ints

import (
	"math/bits"
	"slices"
)

const (
	chunkBits  = bits.UintSize
	chunkShift = 5 + (^uint(0) >> 32 & 1)
)

// Set is a sparse-range bit set of integers.
type Set struct {
	// low is the first item covered by chunks, a multiple of chunkBits
	low    int
	chunks []uint
}

func NewSet(items ...int) *Set {
	return (&Set{}).Add(items...)
}

// FromString creates a set containing every rune of s.
func FromString(s string) *Set {
	return NewSet().AddString(s)
}

func chunkBase(item int) int {
	return item &^ (chunkBits - 1)
}

func bitMask(item int) uint {
	return 1 << (uint(item) & (chunkBits - 1))
}

func (s *Set) high() int {
	return s.low + len(s.chunks)<<chunkShift
}

// cover extends the set so that items in [low, high] can be stored.
func (s *Set) cover(low, high int) {
	newLow := chunkBase(low)
	newHigh := chunkBase(high) + chunkBits
	if len(s.chunks) > 0 {
		if newLow >= s.low && newHigh <= s.high() {
			return
		}
		newLow = min(newLow, s.low)
		newHigh = max(newHigh, s.high())
	}

	chunks := make([]uint, (newHigh-newLow)>>chunkShift)
	if len(s.chunks) > 0 {
		copy(chunks[(s.low-newLow)>>chunkShift:], s.chunks)
	}
	s.low = newLow
	s.chunks = chunks
}

func (s *Set) Add(items ...int) *Set {
	if len(items) == 0 {
		return s
	}

	s.cover(slices.Min(items), slices.Max(items))
	for _, item := range items {
		s.chunks[(item-s.low)>>chunkShift] |= bitMask(item)
	}
	return s
}

// AddString adds every rune of str.
func (s *Set) AddString(str string) *Set {
	items := make([]int, 0, len(str))
	for _, r := range str {
		items = append(items, int(r))
	}
	return s.Add(items...)
}

func (s *Set) Contains(item int) bool {
	if item < s.low || item >= s.high() {
		return false
	}
	return s.chunks[(item-s.low)>>chunkShift]&bitMask(item) != 0
}

func (s *Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount(chunk)
	}
	return result
}

func (s *Set) IsEmpty() bool {
	for _, chunk := range s.chunks {
		if chunk != 0 {
			return false
		}
	}
	return true
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, chunk := range s.chunks {
		base := s.low + i<<chunkShift
		for chunk != 0 {
			result = append(result, base+bits.TrailingZeros(chunk))
			chunk &= chunk - 1
		}
	}
	return result
}

// Intersect returns a new set of items contained in both s and t.
func Intersect(s, t *Set) *Set {
	result := &Set{}
	low := max(s.low, t.low)
	high := min(s.high(), t.high())
	if low >= high {
		return result
	}

	result.low = low
	result.chunks = make([]uint, (high-low)>>chunkShift)
	sOffset := (low - s.low) >> chunkShift
	tOffset := (low - t.low) >> chunkShift
	for i := range result.chunks {
		result.chunks[i] = s.chunks[sOffset+i] & t.chunks[tOffset+i]
	}
	return result
}
