package langdef

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/bachcg/internal/test"
)

func TestMarshalRoundTrip(t *testing.T) {
	for _, format := range []string{YAML, TOML, JSON, CBOR} {
		t.Run(format, func(t *testing.T) {
			d := expectedDescription()
			data, e := Marshal(d, format)
			require.NoError(t, e)

			got, e := Unmarshal(data, format)
			require.NoError(t, e)
			if diff := cmp.Diff(d, got, descOpts); diff != "" {
				t.Errorf("description mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCanonicalCBOR(t *testing.T) {
	first, e := Marshal(expectedDescription(), CBOR)
	require.NoError(t, e)
	second, e := Marshal(expectedDescription(), CBOR)
	require.NoError(t, e)
	assert.Equal(t, first, second)
}

func TestJSONKeys(t *testing.T) {
	data, e := Marshal(expectedDescription(), JSON)
	require.NoError(t, e)
	text := string(data)
	for _, key := range []string{`"terminals": "-!.ab;"`, `"endStates"`, `"productions"`, `"inverted": true`, `"as": 2`} {
		assert.Contains(t, text, key)
	}
}

func TestMarshalFormatErrors(t *testing.T) {
	_, e := Marshal(expectedDescription(), "xml")
	test.ExpectErrorCode(t, FormatError, e)
	_, e = Unmarshal(nil, "xml")
	test.ExpectErrorCode(t, FormatError, e)
	_, e = Unmarshal([]byte("{"), JSON)
	test.ExpectErrorCode(t, SyntaxError, e)
}
