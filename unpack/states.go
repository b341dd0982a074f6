package unpack

import (
	"iter"
	"slices"

	"github.com/ava12/bachcg/grammar"
)

func (g *Grammar) record(index int) []byte {
	ofs := g.rulesOffset + index*grammar.RuleBytes
	return g.data[ofs : ofs+grammar.RuleBytes]
}

func stateProductions[P any](g *Grammar, state int, factory grammar.Factory[P]) iter.Seq[P] {
	return func(yield func(P) bool) {
		first := g.stateIndexes[state]
		for i := first; i < first+g.stateNumRules[state]; i++ {
			if !yield(unpackRecord(g.record(i), factory)) {
				return
			}
		}
	}
}

// Productions yields productions of a state in stored order, each one built by factory.
// Productions are decoded on each iteration.
func Productions[P any](g *Grammar, state int, factory grammar.Factory[P]) (iter.Seq[P], error) {
	if state < 0 || state >= len(g.stateIndexes) {
		return nil, outOfRangeError("state", state, len(g.stateIndexes))
	}
	return stateProductions(g, state, factory), nil
}

// AllProductions yields production sequences of all states ordered by state index.
func AllProductions[P any](g *Grammar, factory grammar.Factory[P]) iter.Seq[iter.Seq[P]] {
	return func(yield func(iter.Seq[P]) bool) {
		for state := range g.stateIndexes {
			if !yield(stateProductions(g, state, factory)) {
				return
			}
		}
	}
}

// StateProductions returns productions of a state as grammar.Production values.
func (g *Grammar) StateProductions(state int) ([]grammar.Production, error) {
	seq, e := Productions(g, state, grammar.NewProduction)
	if e != nil {
		return nil, e
	}
	return slices.Collect(seq), nil
}

// NumRules returns the number of productions of a state.
func (g *Grammar) NumRules(state int) (int, error) {
	if state < 0 || state >= len(g.stateNumRules) {
		return 0, outOfRangeError("state", state, len(g.stateNumRules))
	}
	return g.stateNumRules[state], nil
}

// Describe returns the complete structured content of the grammar.
// States sharing a rule block get their own copies of the productions.
func (g *Grammar) Describe() *grammar.Description {
	d := &grammar.Description{
		Terminals: g.terminals,
		Sets:      slices.Clone(g.sets),
		States:    make([]grammar.State, len(g.stateIndexes)),
		EndStates: g.EndStates(),
	}
	state := 0
	for seq := range AllProductions(g, grammar.NewProduction) {
		d.States[state].Productions = slices.Collect(seq)
		state++
	}
	return d
}
