package unpack

import (
	"iter"
	"strings"

	"github.com/ava12/bachcg/grammar"
)

// staticSet returns stored characters of set id, empty if the table has no such entry.
func (g *Grammar) staticSet(id int) string {
	if id >= len(g.sets) {
		return ""
	}
	b := g.sets[id]
	return g.terminals[b.Start:b.End]
}

func (g *Grammar) resolveSet(id int, shorthand string) string {
	switch id {
	case grammar.ShorthandSet:
		return shorthand
	case grammar.SpecialCharsSet:
		return unionChars(g.staticSet(id), shorthand)
	default:
		return g.staticSet(id)
	}
}

// isShorthandSet reports whether set id depends on the shorthand characters.
func isShorthandSet(id int) bool {
	return id == grammar.ShorthandSet || id == grammar.SpecialCharsSet
}

// unionChars returns every distinct character of a and b once.
// Characters of a come first.
func unionChars(a, b string) string {
	seen := make(map[rune]bool, len(a)+len(b))
	var sb strings.Builder
	for _, s := range [2]string{a, b} {
		for _, r := range s {
			if !seen[r] {
				seen[r] = true
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// TerminalSet returns characters of terminal set id.
// Set grammar.ShorthandSet is replaced with shorthand, set grammar.SpecialCharsSet is united with it,
// other sets are returned as stored. Both special sets resolve even if the set table is shorter.
func (g *Grammar) TerminalSet(id int, shorthand string) (string, error) {
	if isShorthandSet(id) {
		return g.resolveSet(id, shorthand), nil
	}
	if id < 0 || id >= len(g.sets) {
		return "", outOfRangeError("terminal set", id, len(g.sets))
	}
	return g.resolveSet(id, shorthand), nil
}

// TerminalSets yields all terminal sets in ID order, resolved as TerminalSet does.
// The sequence may be iterated any number of times.
func (g *Grammar) TerminalSets(shorthand string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for id := range g.sets {
			if !yield(g.resolveSet(id, shorthand)) {
				return
			}
		}
	}
}

// IsShorthandSymbolAllowed reports whether symbol is absent from grammar.DisallowedShorthandSet.
// Any symbol is allowed if the grammar has no such set.
func (g *Grammar) IsShorthandSymbolAllowed(symbol string) bool {
	return g.IsSymbolAllowedBy(symbol, grammar.DisallowedShorthandSet)
}

// IsSymbolAllowedBy reports whether symbol is absent from the stored characters of set id.
// Missing and negative ids hold no characters.
func (g *Grammar) IsSymbolAllowedBy(symbol string, id int) bool {
	if id < 0 {
		return true
	}
	return !strings.Contains(g.staticSet(id), symbol)
}
