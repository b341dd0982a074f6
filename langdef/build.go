package langdef

import (
	"github.com/ava12/bachcg"
	"github.com/ava12/bachcg/grammar"
	"github.com/ava12/bachcg/pack"
)

var reservedNames = map[string]int{
	"none": grammar.NoneSet,
	"eof":  grammar.EofSet,
	"ss":   grammar.ShorthandSet,
	"dss":  grammar.DisallowedShorthandSet,
	"sc":   grammar.SpecialCharsSet,
}

type resolver struct {
	sets   map[string]int
	states map[string]int
}

// Build converts definition to grammar description.
// Numeric limits of the binary format are not checked here, pack.Encode does that.
func (d *Definition) Build() (*grammar.Description, error) {
	b := pack.NewBuilder()
	if e := b.Reserve(grammar.DisallowedShorthandSet, d.Disallowed); e != nil {
		return nil, e
	}
	if e := b.Reserve(grammar.SpecialCharsSet, d.Special); e != nil {
		return nil, e
	}

	r := &resolver{
		sets:   make(map[string]int, len(reservedNames)+len(d.Sets)),
		states: make(map[string]int, len(d.States)),
	}
	for name, id := range reservedNames {
		r.sets[name] = id
	}

	for _, sd := range d.Sets {
		if sd.Name == "" {
			return nil, bachcg.FormatError(SyntaxError, "terminal set %q has no name", sd.Chars)
		}
		if _, has := reservedNames[sd.Name]; has {
			return nil, bachcg.FormatError(DuplicateError, "terminal set name %q is reserved", sd.Name)
		}
		if _, has := r.sets[sd.Name]; has {
			return nil, bachcg.FormatError(DuplicateError, "terminal set %q already defined", sd.Name)
		}
		r.sets[sd.Name] = b.Set(sd.Chars)
	}

	for i, sd := range d.States {
		if sd.Name == "" {
			continue
		}
		if _, has := r.states[sd.Name]; has {
			return nil, bachcg.FormatError(DuplicateError, "state %q already defined", sd.Name)
		}
		r.states[sd.Name] = i
	}

	for _, sd := range d.States {
		state := b.State()
		for i, rd := range sd.Rules {
			p, e := r.production(rd)
			if e != nil {
				return nil, bachcg.FormatError(e.Code, "state %s, rule #%d: %s", stateName(sd, state), i, e.Message)
			}
			b.Rule(state, p)
		}
	}

	for _, ref := range d.End {
		state, e := r.state(ref)
		if e != nil {
			return nil, bachcg.FormatError(e.Code, "end states: %s", e.Message)
		}
		b.End(state)
	}

	return b.Description(), nil
}

func stateName(sd StateDef, index int) string {
	if sd.Name != "" {
		return sd.Name
	}
	return "#" + Index(index).String()
}

func (r *resolver) production(rd RuleDef) (grammar.Production, *bachcg.Error) {
	var p grammar.Production
	state, e := r.state(rd.To)
	if e != nil {
		return p, e
	}

	sets := make([]int, 0, len(rd.Sets))
	for _, ref := range rd.Sets {
		id, e := r.set(ref)
		if e != nil {
			return p, e
		}
		sets = append(sets, id)
	}

	p = grammar.Production{
		Target:       grammar.Target{State: state, Inverted: rd.Inverted},
		Action:       grammar.Target{State: rd.Action, Inverted: rd.ActionInverted},
		TerminalSets: sets,
		Flags: grammar.CaptureFlags{
			Capture: rd.Capture,
			Start:   rd.CaptureStart,
			End:     rd.CaptureEnd,
			As:      rd.CaptureAs,
		},
	}
	return p, nil
}

func (r *resolver) state(ref Ref) (int, *bachcg.Error) {
	if !ref.IsName() {
		return checkIndex(ref)
	}
	if state, has := r.states[ref.Name]; has {
		return state, nil
	}
	return 0, bachcg.FormatError(UnknownStateError, "unknown state %q", ref.Name)
}

func (r *resolver) set(ref Ref) (int, *bachcg.Error) {
	if !ref.IsName() {
		return checkIndex(ref)
	}
	if id, has := r.sets[ref.Name]; has {
		return id, nil
	}
	return 0, bachcg.FormatError(UnknownSetError, "unknown terminal set %q", ref.Name)
}

func checkIndex(ref Ref) (int, *bachcg.Error) {
	if ref.Index < 0 {
		return 0, bachcg.FormatError(ReferenceError, "negative reference %d", ref.Index)
	}
	return ref.Index, nil
}
