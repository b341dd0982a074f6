package unpack

import (
	"slices"
	"testing"

	"github.com/ava12/bachcg/grammar"
	. "github.com/ava12/bachcg/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestShorthandSetIsVerbatim(t *testing.T) {
	g := sampleGrammar(t)
	for _, ss := range []string{"", "+", "+/", "abab", "é+"} {
		s, e := g.TerminalSet(grammar.ShorthandSet, ss)
		ExpectNoError(t, e)
		ExpectString(t, ss, s)
	}
}

func TestSpecialCharsUnion(t *testing.T) {
	g := sampleGrammar(t)
	samples := map[string]string{
		"":    "!.",
		"+":   "!+.",
		".+.": "!+.",
		"é!":  "!.é",
	}

	for ss, expected := range samples {
		first, e := g.TerminalSet(grammar.SpecialCharsSet, ss)
		ExpectNoError(t, e)
		second, _ := g.TerminalSet(grammar.SpecialCharsSet, ss)
		ExpectString(t, expected, sortedChars(first))
		ExpectString(t, sortedChars(first), sortedChars(second))
	}
}

func TestStaticSets(t *testing.T) {
	g := sampleGrammar(t)
	expected := map[int]string{
		grammar.NoneSet:                "",
		grammar.EofSet:                 "",
		grammar.DisallowedShorthandSet: "-!",
		4:                              "ab",
		5:                              "a",
		6:                              "b",
		7:                              ";",
	}
	for id, chars := range expected {
		s, e := g.TerminalSet(id, "+")
		ExpectNoError(t, e)
		ExpectString(t, chars, s)
	}
}

func TestTerminalSets(t *testing.T) {
	g := sampleGrammar(t)
	seq := g.TerminalSets("+")
	sets := slices.Collect(seq)
	ExpectInt(t, g.NumTerminalSets(), len(sets))
	ExpectString(t, "+", sets[grammar.ShorthandSet])
	ExpectString(t, "!+.", sortedChars(sets[grammar.SpecialCharsSet]))
	ExpectString(t, "ab", sets[4])

	assert.Equal(t, sets, slices.Collect(seq))

	other := slices.Collect(g.TerminalSets("/"))
	ExpectString(t, "/", other[grammar.ShorthandSet])
	ExpectString(t, "+", sets[grammar.ShorthandSet])
}

func TestShorthandSymbolAllowed(t *testing.T) {
	g := sampleGrammar(t)
	for _, symbol := range []string{"+", "/", "a", "."} {
		Assert(t, g.IsShorthandSymbolAllowed(symbol), "expecting %q to be allowed", symbol)
	}
	for _, symbol := range []string{"-", "!"} {
		Assert(t, !g.IsShorthandSymbolAllowed(symbol), "expecting %q to be disallowed", symbol)
	}

	small, e := Load(Blob(t, "ab", [][2]int{{0, 0}, {0, 0}}, nil, nil))
	ExpectNoError(t, e)
	Assert(t, small.IsShorthandSymbolAllowed("-"), "expecting any symbol allowed without DSS set")
}

func TestSymbolAllowedBy(t *testing.T) {
	g := sampleGrammar(t)
	Assert(t, !g.IsSymbolAllowedBy("a", 4), "expecting a to be disallowed by set 4")
	Assert(t, g.IsSymbolAllowedBy(";", 4), "expecting ; to be allowed by set 4")
	Assert(t, !g.IsSymbolAllowedBy("!", grammar.DisallowedShorthandSet), "expecting ! to be disallowed")
	Assert(t, g.IsSymbolAllowedBy("a", 200), "expecting any symbol allowed by missing set")
	Assert(t, g.IsSymbolAllowedBy("a", -1), "expecting any symbol allowed by negative set")
}

func TestShorthandSetsOfShortTable(t *testing.T) {
	g, e := Load(Blob(t, "ab", [][2]int{{0, 2}}, [][]Rule{{{Target: 0, Sets: []int{0}}}}, []int{0}))
	ExpectNoError(t, e)

	s, e := g.TerminalSet(grammar.ShorthandSet, "+")
	ExpectNoError(t, e)
	ExpectString(t, "+", s)

	s, e = g.TerminalSet(grammar.SpecialCharsSet, "+-+")
	ExpectNoError(t, e)
	ExpectString(t, "+-", s)

	_, e = g.TerminalSet(grammar.EofSet, "+")
	ExpectErrorCode(t, OutOfRangeError, e)
	_, e = g.TerminalSet(grammar.DisallowedShorthandSet, "+")
	ExpectErrorCode(t, OutOfRangeError, e)

	sc, e := Load(Blob(t, "ab", [][2]int{{0, 2}}, [][]Rule{{{Target: 0, Sets: []int{grammar.SpecialCharsSet}}}}, []int{0}))
	ExpectNoError(t, e)
	assert.Empty(t, sc.Check("+"))
}
