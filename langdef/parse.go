package langdef

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ava12/bachcg/grammar"
)

// Format names:
const (
	YAML = "yaml"
	TOML = "toml"
	JSON = "json"
	CBOR = "cbor"
)

// FormatOf returns format name for file name extension or empty string.
func FormatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	case ".json":
		return JSON
	case ".cbor":
		return CBOR
	default:
		return ""
	}
}

// Parse decodes a definition choosing the format by name extension and builds grammar description.
func Parse(name string, data []byte) (*grammar.Description, error) {
	switch FormatOf(name) {
	case YAML:
		return ParseYAML(data)
	case TOML:
		return ParseTOML(data)
	case JSON:
		return ParseJSON(data)
	default:
		return nil, formatError(filepath.Ext(name))
	}
}

// ParseYAML decodes a YAML definition and builds grammar description. Unknown keys are errors.
func ParseYAML(data []byte) (*grammar.Description, error) {
	d, e := DecodeYAML(data)
	if e != nil {
		return nil, e
	}
	return d.Build()
}

// ParseTOML decodes a TOML definition and builds grammar description. Unknown keys are errors.
func ParseTOML(data []byte) (*grammar.Description, error) {
	d, e := DecodeTOML(data)
	if e != nil {
		return nil, e
	}
	return d.Build()
}

// ParseJSON decodes a JSON definition and builds grammar description. Unknown keys are errors.
func ParseJSON(data []byte) (*grammar.Description, error) {
	d, e := DecodeJSON(data)
	if e != nil {
		return nil, e
	}
	return d.Build()
}

// DecodeYAML decodes a single YAML document into Definition.
func DecodeYAML(data []byte) (*Definition, error) {
	d := &Definition{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if e := dec.Decode(d); e != nil {
		if errors.Is(e, io.EOF) {
			return d, nil
		}
		return nil, syntaxError(YAML, e)
	}

	var extra any
	if e := dec.Decode(&extra); !errors.Is(e, io.EOF) {
		return nil, syntaxError(YAML, errors.New("multiple documents are not supported"))
	}
	return d, nil
}

// DecodeTOML decodes TOML text into Definition.
func DecodeTOML(data []byte) (*Definition, error) {
	d := &Definition{}
	md, e := toml.Decode(string(data), d)
	if e != nil {
		return nil, syntaxError(TOML, e)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, syntaxError(TOML, errors.New("unknown keys: "+strings.Join(keys, ", ")))
	}
	return d, nil
}

// DecodeJSON decodes JSON text into Definition.
func DecodeJSON(data []byte) (*Definition, error) {
	d := &Definition{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if e := dec.Decode(d); e != nil {
		return nil, syntaxError(JSON, e)
	}
	return d, nil
}
