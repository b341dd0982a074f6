package pack

import (
	"bytes"

	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
	"github.com/ava12/bachcg/internal/bmap"
)

var reservedSets = []int{
	grammar.NoneSet,
	grammar.EofSet,
	grammar.ShorthandSet,
	grammar.DisallowedShorthandSet,
	grammar.SpecialCharsSet,
}

// IsReserved reports whether id is one of reserved terminal set IDs.
func IsReserved(id int) bool {
	for _, r := range reservedSets {
		if r == id {
			return true
		}
	}
	return false
}

// Builder constructs a grammar description incrementally.
// Reserved terminal sets always exist (empty unless defined with Reserve),
// other sets get IDs in order of definition skipping reserved ones.
// Sets with the same characters (in any order) share a single ID, set characters share the terminal string where possible.
type Builder struct {
	terminals []byte
	sets      []grammar.Bounds
	index     *bmap.BMap[int]
	nextSet   int
	states    []grammar.State
	ends      []int
}

func NewBuilder() *Builder {
	b := &Builder{
		sets:    make([]grammar.Bounds, grammar.SpecialCharsSet+1),
		index:   bmap.New[int](16),
		nextSet: grammar.DisallowedShorthandSet + 1,
	}
	b.index.Set(nil, grammar.NoneSet)
	return b
}

func (b *Builder) place(chars string) grammar.Bounds {
	if chars == "" {
		return grammar.Bounds{}
	}

	if i := bytes.Index(b.terminals, []byte(chars)); i >= 0 {
		return grammar.Bounds{Start: i, End: i + len(chars)}
	}

	overlap := min(len(chars)-1, len(b.terminals))
	for ; overlap > 0; overlap-- {
		if bytes.HasSuffix(b.terminals, []byte(chars[:overlap])) {
			break
		}
	}
	start := len(b.terminals) - overlap
	b.terminals = append(b.terminals, chars[overlap:]...)
	return grammar.Bounds{Start: start, End: len(b.terminals)}
}

// Reserve defines characters of a reserved terminal set.
// Reserved sets are never shared with sets returned by Set.
func (b *Builder) Reserve(id int, chars string) error {
	if !IsReserved(id) {
		return bachcg.FormatError(ReservedError, "terminal set %d is not reserved", id)
	}

	b.sets[id] = b.place(chars)
	return nil
}

// Set returns ID of a terminal set containing chars, defining a new set if needed.
// Empty chars give grammar.NoneSet.
func (b *Builder) Set(chars string) int {
	if id, has := b.index.Get([]byte(chars)); has {
		return id
	}

	id := b.nextSet
	b.nextSet++
	if id == grammar.SpecialCharsSet {
		id = b.nextSet
		b.nextSet++
	}
	for len(b.sets) <= id {
		b.sets = append(b.sets, grammar.Bounds{})
	}
	b.sets[id] = b.place(chars)
	b.index.Set([]byte(chars), id)
	return id
}

// State adds an empty state and returns its index.
func (b *Builder) State() int {
	b.states = append(b.states, grammar.State{})
	return len(b.states) - 1
}

// Rule appends a production to the state. The state must exist.
func (b *Builder) Rule(state int, p grammar.Production) {
	b.states[state].Productions = append(b.states[state].Productions, p)
}

// End marks states as accepting.
func (b *Builder) End(states ...int) {
	b.ends = append(b.ends, states...)
}

// Description returns the grammar built so far. Builder may be used further.
func (b *Builder) Description() *grammar.Description {
	d := &grammar.Description{
		Terminals: string(b.terminals),
		Sets:      make([]grammar.Bounds, len(b.sets)),
		States:    make([]grammar.State, len(b.states)),
		EndStates: append([]int{}, b.ends...),
	}
	copy(d.Sets, b.sets)
	for i, st := range b.states {
		d.States[i].Productions = append([]grammar.Production(nil), st.Productions...)
	}
	return d
}

// Bytes encodes the grammar built so far.
func (b *Builder) Bytes() ([]byte, error) {
	return Encode(b.Description())
}
