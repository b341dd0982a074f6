package unpack

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/ava12/bachcg/grammar"
	. "github.com/ava12/bachcg/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sampleTerminals = "ab;-!."

var sampleSets = [][2]int{
	{0, 0}, // none
	{0, 0}, // EOF
	{0, 0}, // SS
	{3, 5}, // DSS "-!"
	{0, 2}, // "ab"
	{0, 1}, // "a"
	{1, 2}, // "b"
	{2, 3}, // ";"
	{4, 6}, // SC "!."
}

var sampleStates = [][]Rule{
	{
		{Target: 1, Sets: []int{4}},
		{Target: 2, Sets: []int{7}, Flags: 0b11000000},
	},
	{
		{Target: 0, Inverted: true, Sets: []int{5, 6}, Action: 3},
		{Target: 2, Sets: []int{1}},
	},
	{},
}

func sampleBlob(t *testing.T) []byte {
	return Blob(t, sampleTerminals, sampleSets, sampleStates, []int{2})
}

func sampleGrammar(t *testing.T) *Grammar {
	g, e := Load(sampleBlob(t))
	require.NoError(t, e)
	return g
}

func TestMinimalGrammar(t *testing.T) {
	data := Blob(t, "ab", [][2]int{{0, 2}}, [][]Rule{{{Target: 0, Sets: []int{0}}}}, []int{0})
	g, e := Load(data)
	ExpectNoError(t, e)

	ExpectInt(t, 1, g.NumStates())
	ExpectInt(t, 1, g.NumTerminalSets())
	ExpectString(t, "ab", g.Terminals())
	assert.Equal(t, []int{0}, g.EndStates())

	prods, e := g.StateProductions(0)
	ExpectNoError(t, e)
	require.Len(t, prods, 1)
	assert.Equal(t, grammar.Target{State: 0, Inverted: false}, prods[0].Target)
	assert.Equal(t, []int{0}, prods[0].TerminalSets)
	assert.Equal(t, grammar.CaptureFlags{}, prods[0].Flags)
}

func TestMagicRejection(t *testing.T) {
	good := sampleBlob(t)
	samples := [][]byte{
		nil,
		[]byte("bach"),
		[]byte("bach-cg2"),
		append([]byte("BACH-cg1"), good[8:]...),
		append([]byte("bach-cg0"), 0),
	}
	for i := 0; i < len(grammar.Magic); i++ {
		broken := bytes.Clone(good)
		broken[i] ^= 0x20
		samples = append(samples, broken)
	}

	for _, data := range samples {
		_, e := Load(data)
		ExpectErrorCode(t, FormatError, e)
		assert.ErrorIs(t, e, ErrFormat)
	}
}

func TestChecksum(t *testing.T) {
	good := sampleBlob(t)
	ExpectInt(t, int(Checksum(good[:len(good)-1])), int(good[len(good)-1]))

	for i := len(grammar.Magic); i < len(good); i++ {
		broken := bytes.Clone(good)
		broken[i] ^= 0x01
		_, e := Load(broken)
		ExpectErrorCode(t, ChecksumError, e)
	}

	_, e := Load([]byte(grammar.Magic))
	ExpectErrorCode(t, TruncatedError, e)
}

func TestReadPascalString(t *testing.T) {
	buf := []byte{3, 'f', 'o', 'o', 0, 2, 'x'}

	next, s, e := ReadPascalString(buf, 0)
	ExpectNoError(t, e)
	ExpectInt(t, 4, next)
	ExpectString(t, "foo", string(s))

	next, s, e = ReadPascalString(buf, next)
	ExpectNoError(t, e)
	ExpectInt(t, 5, next)
	ExpectInt(t, 0, len(s))

	_, _, e = ReadPascalString(buf, next)
	ExpectErrorCode(t, TruncatedError, e)
	_, _, e = ReadPascalString(buf, len(buf))
	ExpectErrorCode(t, TruncatedError, e)
}

func TestEncodingError(t *testing.T) {
	data := Blob(t, "a\xffb", [][2]int{{0, 3}}, nil, nil)
	_, e := Load(data)
	ExpectErrorCode(t, EncodingError, e)
	assert.ErrorIs(t, e, ErrEncoding)
}

func TestTruncated(t *testing.T) {
	good := sampleBlob(t)
	body := good[:len(good)-1]
	for size := len(grammar.Magic); size < len(body); size++ {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			_, e := Load(Seal(bytes.Clone(body[:size])))
			ExpectErrorCode(t, TruncatedError, e)
		})
	}
}

func TestTrailingBytesAccepted(t *testing.T) {
	good := sampleBlob(t)
	data := Seal(append(bytes.Clone(good[:len(good)-1]), 0xaa, 0xbb))
	g, e := Load(data)
	ExpectNoError(t, e)
	assert.Equal(t, []int{2}, g.EndStates())
}

func TestRangeErrors(t *testing.T) {
	_, e := Load(Blob(t, "ab", [][2]int{{0, 3}}, nil, nil))
	ExpectErrorCode(t, RangeError, e)

	_, e = Load(Blob(t, "ab", [][2]int{{2, 1}}, nil, nil))
	ExpectErrorCode(t, RangeError, e)

	_, e = Load(Blob(t, "éa", [][2]int{{0, 0}, {1, 3}}, nil, nil))
	ExpectErrorCode(t, RangeError, e)

	_, e = Load(Blob(t, "aé", [][2]int{{0, 2}}, nil, nil))
	ExpectErrorCode(t, RangeError, e)

	g, e := Load(Blob(t, "éa", [][2]int{{0, 2}, {2, 3}}, nil, nil))
	ExpectNoError(t, e)
	s, _ := g.TerminalSet(0, "")
	ExpectString(t, "é", s)

	data := []byte(grammar.Magic)
	data = append(data, 1, 0, 0) // one state, empty terminals, no sets
	data = append(data, 1, 1)    // rules [1, 2) of a single rule table
	data = append(data, 0, 255, 255, 255, 0, 0)
	data = append(data, 0)
	_, e = Load(Seal(data))
	ExpectErrorCode(t, RangeError, e)
	assert.ErrorIs(t, e, ErrRange)
}

func TestRuleCounts(t *testing.T) {
	g := sampleGrammar(t)
	ExpectInt(t, len(sampleStates), g.NumStates())
	for state, rules := range sampleStates {
		n, e := g.NumRules(state)
		ExpectNoError(t, e)
		ExpectInt(t, len(rules), n)

		seq, e := Productions(g, state, grammar.NewProduction)
		ExpectNoError(t, e)
		ExpectInt(t, len(rules), len(slices.Collect(seq)))
	}
}

func TestProductions(t *testing.T) {
	g := sampleGrammar(t)
	prods, e := g.StateProductions(1)
	ExpectNoError(t, e)
	expected := []grammar.Production{
		{
			Target:       grammar.Target{State: 0, Inverted: true},
			Action:       grammar.Target{State: 3},
			TerminalSets: []int{5, 6},
		},
		{
			Target:       grammar.Target{State: 2},
			TerminalSets: []int{1},
		},
	}
	assert.Equal(t, expected, prods)

	prods, e = g.StateProductions(0)
	ExpectNoError(t, e)
	assert.Equal(t, grammar.CaptureFlags{Capture: true, Start: true}, prods[1].Flags)

	prods, e = g.StateProductions(2)
	ExpectNoError(t, e)
	ExpectInt(t, 0, len(prods))
}

func TestOutOfRange(t *testing.T) {
	g := sampleGrammar(t)
	for _, state := range []int{-1, g.NumStates(), 200} {
		_, e := Productions(g, state, grammar.NewProduction)
		ExpectErrorCode(t, OutOfRangeError, e)
		assert.ErrorIs(t, e, ErrOutOfRange)

		_, e = g.StateProductions(state)
		ExpectErrorCode(t, OutOfRangeError, e)

		_, e = g.NumRules(state)
		ExpectErrorCode(t, OutOfRangeError, e)
	}

	_, e := g.TerminalSet(g.NumTerminalSets(), "")
	ExpectErrorCode(t, OutOfRangeError, e)
}

func TestAllProductions(t *testing.T) {
	g := sampleGrammar(t)
	var targets [][]int
	for seq := range AllProductions(g, func(target, _ grammar.Target, _ []int, _ grammar.CaptureFlags) int {
		return target.State
	}) {
		targets = append(targets, slices.Collect(seq))
	}
	assert.Equal(t, [][]int{{1, 2}, {0, 2}, nil}, targets)

	count := 0
	for range AllProductions(g, grammar.NewProduction) {
		count++
		break
	}
	ExpectInt(t, 1, count)
}

func TestEndStates(t *testing.T) {
	g, e := Load(Blob(t, "", nil, [][]Rule{{}, {}, {}}, []int{2, 0, 2}))
	ExpectNoError(t, e)
	assert.Equal(t, []int{2, 0, 2}, g.EndStates())
	Assert(t, g.IsEndState(0), "expecting end state 0")
	Assert(t, !g.IsEndState(1), "unexpected end state 1")

	ends := g.EndStates()
	ends[0] = 1
	assert.Equal(t, []int{2, 0, 2}, g.EndStates())
}

func TestLoadCopiesInput(t *testing.T) {
	data := sampleBlob(t)
	g, e := Load(data)
	ExpectNoError(t, e)
	for i := range data {
		data[i] = 0
	}
	ExpectString(t, sampleTerminals, g.Terminals())
	prods, _ := g.StateProductions(0)
	ExpectInt(t, 1, prods[0].Target.State)
	assert.Equal(t, sampleBlob(t), g.Bytes())
}

func TestLoadHex(t *testing.T) {
	data := sampleBlob(t)
	var sb strings.Builder
	for i, b := range data {
		fmt.Fprintf(&sb, "%02X", b)
		if i%8 == 7 {
			sb.WriteString("\n")
		}
	}

	g, e := LoadHex(sb.String())
	ExpectNoError(t, e)
	ExpectInt(t, 3, g.NumStates())

	_, e = LoadHex("626163682d6367")
	ExpectErrorCode(t, FormatError, e)

	assert.Panics(t, func() { MustLoadHex("626163682d63673") })
	assert.NotPanics(t, func() { MustLoadHex(sb.String()) })
}

func TestLoadLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, e := Load(sampleBlob(t), WithLogger(zap.New(core)))
	ExpectNoError(t, e)

	entries := logs.FilterMessage("compiled grammar loaded").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 3, fields["states"])
	assert.EqualValues(t, 9, fields["terminalSets"])
	assert.EqualValues(t, 4, fields["rules"])
}

func TestDescribe(t *testing.T) {
	d := sampleGrammar(t).Describe()
	ExpectString(t, sampleTerminals, d.Terminals)
	ExpectInt(t, len(sampleSets), len(d.Sets))
	assert.Equal(t, grammar.Bounds{Start: 4, End: 6}, d.Sets[grammar.SpecialCharsSet])
	ExpectInt(t, 3, len(d.States))
	ExpectInt(t, 4, d.NumRules())
	assert.Equal(t, []int{2}, d.EndStates)
	ExpectString(t, "-!", d.SetChars(grammar.DisallowedShorthandSet))
}

func TestConcurrentReaders(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := sampleGrammar(t)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			shorthand := strings.Repeat("+", i%3)
			for j := 0; j < 100; j++ {
				for state := range g.NumStates() {
					prods, e := g.StateProductions(state)
					if e != nil {
						errs <- e
						return
					}
					if len(prods) != len(sampleStates[state]) {
						errs <- errors.New("wrong production count")
						return
					}
				}
				s, _ := g.TerminalSet(grammar.ShorthandSet, shorthand)
				if s != shorthand {
					errs <- errors.New("wrong shorthand set")
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func sortedChars(s string) string {
	r := []rune(s)
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return string(r)
}
