package unpack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
	"github.com/ava12/bachcg/internal/ints"
	"github.com/ava12/bachcg/internal/queue"
)

// eofSymbol stands for end of input in character sets.
const eofSymbol = -1

// Issue is a problem found by Check.
type Issue struct {
	*bachcg.Error

	// State is the state index the issue belongs to or -1.
	State int

	// Warning issues do not make the grammar invalid.
	Warning bool
}

func newIssue(state, code int, msg string, params ...any) Issue {
	return Issue{bachcg.FormatError(code, msg, params...), state, code == UnreachableWarning}
}

// Check looks for structural problems that Load does not detect:
// production targets and end states outside the state table, references to missing terminal sets,
// non-inverted productions of the same state accepting the same symbol, and states unreachable from state 0.
// shorthand is used to resolve grammar.ShorthandSet and grammar.SpecialCharsSet.
//
// Productions with inverted target are not compared: the meaning of inversion belongs to the parser.
func (g *Grammar) Check(shorthand string) []Issue {
	var issues []Issue
	numStates := len(g.stateIndexes)

	for i, s := range g.endStates {
		if s >= numStates {
			issues = append(issues, newIssue(-1, EndStateError, "end state #%d: state %d does not exist", i, s))
		}
	}

	for state := range g.stateIndexes {
		var sets []*ints.Set
		var prods []grammar.Production
		for p := range stateProductions(g, state, grammar.NewProduction) {
			if p.Target.State >= numStates {
				issues = append(issues, newIssue(state, TargetError, "state %d: production #%d targets missing state %d", state, len(prods), p.Target.State))
			}

			valid := true
			for _, id := range p.TerminalSets {
				if id >= len(g.sets) && !isShorthandSet(id) {
					issues = append(issues, newIssue(state, SetError, "state %d: production #%d refers to missing terminal set %d", state, len(prods), id))
					valid = false
				}
			}

			var chars *ints.Set
			if valid && !p.Target.Inverted {
				chars = g.symbolSet(p.TerminalSets, shorthand)
			}
			sets = append(sets, chars)
			prods = append(prods, p)
		}

		for i := range sets {
			if sets[i] == nil {
				continue
			}
			for j := i + 1; j < len(sets); j++ {
				if sets[j] == nil {
					continue
				}
				common := ints.Intersect(sets[i], sets[j])
				if !common.IsEmpty() {
					issues = append(issues, newIssue(state, AmbiguityError, "state %d: productions #%d and #%d both accept %s", state, i, j, describeSymbols(common)))
				}
			}
		}
	}

	for _, state := range g.unreachable() {
		issues = append(issues, newIssue(state, UnreachableWarning, "state %d is unreachable", state))
	}

	return issues
}

// Validate returns all non-warning issues found by Check joined into a single error, or nil.
func (g *Grammar) Validate(shorthand string) error {
	return issuesError(g.Check(shorthand))
}

func issuesError(issues []Issue) error {
	var errs []error
	for _, issue := range issues {
		if !issue.Warning {
			errs = append(errs, issue.Error)
		}
	}
	return errors.Join(errs...)
}

func (g *Grammar) symbolSet(ids []int, shorthand string) *ints.Set {
	result := ints.NewSet()
	for _, id := range ids {
		if id == grammar.EofSet {
			result.Add(eofSymbol)
		}
		result.AddString(g.resolveSet(id, shorthand))
	}
	return result
}

func describeSymbols(s *ints.Set) string {
	items := s.ToSlice()
	names := make([]string, len(items))
	for i, item := range items {
		if item == eofSymbol {
			names[i] = "EOF"
		} else {
			names[i] = fmt.Sprintf("%q", rune(item))
		}
	}
	return strings.Join(names, ", ")
}

// unreachable returns states that cannot be reached from state 0 following production targets.
func (g *Grammar) unreachable() []int {
	numStates := len(g.stateIndexes)
	if numStates == 0 {
		return nil
	}

	q := queue.New(numStates, 0)
	for {
		state, ok := q.Pop()
		if !ok {
			break
		}

		for p := range stateProductions(g, state, grammar.NewProduction) {
			q.Push(p.Target.State)
		}
	}
	return q.Unseen()
}
