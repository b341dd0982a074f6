package langdef

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Definition is a human-editable grammar definition.
type Definition struct {
	Disallowed string     `yaml:"disallowed,omitempty" toml:"disallowed,omitempty" json:"disallowed,omitempty"`
	Special    string     `yaml:"special,omitempty" toml:"special,omitempty" json:"special,omitempty"`
	Sets       []SetDef   `yaml:"sets,omitempty" toml:"sets,omitempty" json:"sets,omitempty"`
	States     []StateDef `yaml:"states" toml:"states" json:"states"`
	End        []Ref      `yaml:"end,omitempty" toml:"end,omitempty" json:"end,omitempty"`
}

// SetDef defines a named terminal set.
type SetDef struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Chars string `yaml:"chars" toml:"chars" json:"chars"`
}

// StateDef defines a state and its productions in order of priority.
type StateDef struct {
	Name  string    `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Rules []RuleDef `yaml:"rules,omitempty" toml:"rules,omitempty" json:"rules,omitempty"`
}

// RuleDef defines a single production.
type RuleDef struct {
	Sets           []Ref `yaml:"sets,omitempty" toml:"sets,omitempty" json:"sets,omitempty"`
	To             Ref   `yaml:"to" toml:"to" json:"to"`
	Inverted       bool  `yaml:"inverted,omitempty" toml:"inverted,omitempty" json:"inverted,omitempty"`
	Action         int   `yaml:"action,omitempty" toml:"action,omitempty" json:"action,omitempty"`
	ActionInverted bool  `yaml:"action-inverted,omitempty" toml:"action-inverted,omitempty" json:"action-inverted,omitempty"`
	Capture        bool  `yaml:"capture,omitempty" toml:"capture,omitempty" json:"capture,omitempty"`
	CaptureStart   bool  `yaml:"capture-start,omitempty" toml:"capture-start,omitempty" json:"capture-start,omitempty"`
	CaptureEnd     bool  `yaml:"capture-end,omitempty" toml:"capture-end,omitempty" json:"capture-end,omitempty"`
	CaptureAs      int   `yaml:"capture-as,omitempty" toml:"capture-as,omitempty" json:"capture-as,omitempty"`
}

// Ref refers to a state or a terminal set either by name or by number.
type Ref struct {
	Name  string
	Index int
}

// Name creates a reference by name.
func Name(name string) Ref {
	return Ref{Name: name}
}

// Index creates a reference by number.
func Index(index int) Ref {
	return Ref{Index: index}
}

func (r Ref) IsName() bool {
	return r.Name != ""
}

func (r Ref) String() string {
	if r.IsName() {
		return r.Name
	}
	return strconv.Itoa(r.Index)
}

func (r *Ref) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: reference must be a name or a number", node.Line)
	}

	if node.Tag == "!!int" {
		*r = Ref{}
		return node.Decode(&r.Index)
	}

	*r = Ref{Name: node.Value}
	return nil
}

func (r Ref) MarshalYAML() (any, error) {
	if r.IsName() {
		return r.Name, nil
	}
	return r.Index, nil
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var index int
	if json.Unmarshal(data, &index) == nil {
		*r = Ref{Index: index}
		return nil
	}

	var name string
	if e := json.Unmarshal(data, &name); e != nil {
		return fmt.Errorf("reference must be a name or a number, got %s", data)
	}
	*r = Ref{Name: name}
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsName() {
		return json.Marshal(r.Name)
	}
	return json.Marshal(r.Index)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (r *Ref) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case int64:
		*r = Ref{Index: int(v)}
	case string:
		*r = Ref{Name: v}
	default:
		return fmt.Errorf("reference must be a name or a number, got %v", value)
	}
	return nil
}
