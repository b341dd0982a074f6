package langdef

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/ava12/bachcg/grammar"
)

// cborEncMode produces canonical CBOR, equal descriptions give equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, e := cbor.CanonicalEncOptions().EncMode()
	if e != nil {
		panic(fmt.Sprintf("langdef: failed to create CBOR enc mode: %v", e))
	}
	cborEncMode = em
}

// Marshal serializes grammar description in given format: YAML, TOML, JSON (indented), or CBOR.
func Marshal(d *grammar.Description, format string) ([]byte, error) {
	switch format {
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if e := enc.Encode(d); e != nil {
			return nil, e
		}
		if e := enc.Close(); e != nil {
			return nil, e
		}
		return buf.Bytes(), nil

	case TOML:
		var buf bytes.Buffer
		if e := toml.NewEncoder(&buf).Encode(d); e != nil {
			return nil, e
		}
		return buf.Bytes(), nil

	case JSON:
		data, e := json.MarshalIndent(d, "", "  ")
		if e != nil {
			return nil, e
		}
		return append(data, '\n'), nil

	case CBOR:
		return cborEncMode.Marshal(d)

	default:
		return nil, formatError(format)
	}
}

// Unmarshal decodes grammar description serialized by Marshal.
func Unmarshal(data []byte, format string) (*grammar.Description, error) {
	d := &grammar.Description{}
	var e error
	switch format {
	case YAML:
		e = yaml.Unmarshal(data, d)
	case TOML:
		_, e = toml.Decode(string(data), d)
	case JSON:
		e = json.Unmarshal(data, d)
	case CBOR:
		e = cbor.Unmarshal(data, d)
	default:
		return nil, formatError(format)
	}

	if e != nil {
		return nil, syntaxError(format, e)
	}
	return d, nil
}
