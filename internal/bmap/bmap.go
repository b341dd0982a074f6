// Package bmap implements a map keyed by character sets.
// The encoder uses it to find already stored terminal sets regardless of character order and repetition.
package bmap

import (
	"slices"
	"unicode/utf8"
	"unsafe"
)

// BMap maps character sets to values. Keys are UTF-8 strings as bytes,
// characters are sorted and deduplicated before lookup, so "ba", "ab", and "aab" are the same key.
// Keys cannot be deleted. Normalized keys are copied into a single internal byte slice.
// BMap reuses internal buffers on every call and is not safe for concurrent use.
type BMap[T any] struct {
	keys    []byte
	index   map[string]int
	values  []T
	runes   []rune
	scratch []byte
}

// New creates a map. size is a capacity hint.
func New[T any](size int) *BMap[T] {
	return &BMap[T]{
		index:  make(map[string]int, size),
		values: make([]T, 0, size),
	}
}

func stringKey(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	return unsafe.String(&key[0], len(key))
}

// normalize returns sorted distinct characters of key. The result is valid until the next call.
func (m *BMap[T]) normalize(key []byte) []byte {
	m.runes = m.runes[:0]
	for len(key) > 0 {
		r, size := utf8.DecodeRune(key)
		m.runes = append(m.runes, r)
		key = key[size:]
	}
	slices.Sort(m.runes)
	m.runes = slices.Compact(m.runes)

	m.scratch = m.scratch[:0]
	for _, r := range m.runes {
		m.scratch = utf8.AppendRune(m.scratch, r)
	}
	return m.scratch
}

// Get returns stored value by key and a flag telling whether this key is stored in the map.
// Returns zero value if the key is not present.
func (m *BMap[T]) Get(key []byte) (T, bool) {
	i, has := m.index[stringKey(m.normalize(key))]
	if !has {
		var zero T
		return zero, false
	}
	return m.values[i], true
}

// Set adds or rewrites value for given key.
func (m *BMap[T]) Set(key []byte, value T) {
	norm := m.normalize(key)
	if i, has := m.index[stringKey(norm)]; has {
		m.values[i] = value
		return
	}

	ofs := len(m.keys)
	m.keys = append(m.keys, norm...)
	m.index[stringKey(m.keys[ofs:])] = len(m.values)
	m.values = append(m.values, value)
}

// Len returns the number of stored keys.
func (m *BMap[T]) Len() int {
	return len(m.values)
}
