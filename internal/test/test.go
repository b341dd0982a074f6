// Package test contains assertion helpers shared by package tests.
package test

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
	"github.com/stretchr/testify/require"
)

func fatalf(t *testing.T, message string, params ...any) {
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func Assert(t *testing.T, cond bool, message string, params ...any) {
	if !cond {
		fatalf(t, message, params...)
	}
}

func Expect(t *testing.T, cond bool, expected, got any) {
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ExpectBool(t *testing.T, expected, got bool) {
	Expect(t, expected == got, expected, got)
}

func ExpectInt(t *testing.T, expected, got int) {
	Expect(t, expected == got, expected, got)
}

func ExpectString(t *testing.T, expected, got string) {
	Expect(t, expected == got, fmt.Sprintf("%q", expected), fmt.Sprintf("%q", got))
}

// ExpectErrorCode fails unless e is (or wraps) a *bachcg.Error with the expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	var ee *bachcg.Error
	if errors.As(e, &ee) && ee.Code == expected {
		return
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
}

// ExpectNoError fails with the error text if e is not nil.
func ExpectNoError(t *testing.T, e error) {
	if e != nil {
		fatalf(t, "unexpected error: %s", e)
	}
}

// Rule is a short form of a production record used by tests.
type Rule struct {
	Target   int
	Inverted bool
	Sets     []int
	Action   int
	Flags    byte
}

// Record packs r into a production record.
func (r Rule) Record() []byte {
	result := make([]byte, grammar.RuleBytes)
	result[0] = grammar.Target{State: r.Target, Inverted: r.Inverted}.Byte()
	for i := 0; i < grammar.MaxSetsPerRule; i++ {
		if i < len(r.Sets) {
			result[1+i] = byte(r.Sets[i])
		} else {
			result[1+i] = grammar.AbsentSet
		}
	}
	result[4] = byte(r.Action)
	result[5] = r.Flags
	return result
}

// Blob builds a compiled grammar byte by byte, without any checks, and appends the checksum.
// Each state gets a consecutive block of rules.
func Blob(t *testing.T, terminals string, sets [][2]int, states [][]Rule, endStates []int) []byte {
	require.Less(t, len(terminals), 256)
	data := []byte(grammar.Magic)
	data = append(data, byte(len(states)), byte(len(terminals)))
	data = append(data, terminals...)
	data = append(data, byte(len(sets)))
	for _, s := range sets {
		data = append(data, byte(s[0]), byte(s[1]))
	}
	index := 0
	for _, rules := range states {
		data = append(data, byte(index), byte(len(rules)))
		index += len(rules)
	}
	for _, rules := range states {
		for _, r := range rules {
			data = append(data, r.Record()...)
		}
	}
	data = append(data, byte(len(endStates)))
	for _, s := range endStates {
		data = append(data, byte(s))
	}
	return Seal(data)
}

// Seal appends the checksum byte to data.
func Seal(data []byte) []byte {
	sum := 0
	for _, b := range data {
		sum += int(b)
	}
	return append(data, byte(sum%255))
}
