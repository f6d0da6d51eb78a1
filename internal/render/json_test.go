package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "nested object",
			in:   `{"posts":{"twitter":"Hello world #t"}}`,
			want: "{\n  \"posts\": {\n    \"twitter\": \"Hello world #t\"\n  }\n}",
		},
		{
			name: "keys sorted",
			in:   `{"b":1,"a":2}`,
			want: "{\n  \"a\": 2,\n  \"b\": 1\n}",
		},
		{
			name: "numbers keep their literal",
			in:   `{"usage":3,"ratio":1.50,"big":12345678901234567890}`,
			want: "{\n  \"big\": 12345678901234567890,\n  \"ratio\": 1.50,\n  \"usage\": 3\n}",
		},
		{
			name: "html not escaped",
			in:   `{"detail":"<b>Free plan limit reached</b> & more"}`,
			want: "{\n  \"detail\": \"<b>Free plan limit reached</b> & more\"\n}",
		},
		{
			name: "array of variations",
			in:   `{"twitter":["v1","v2"]}`,
			want: "{\n  \"twitter\": [\n    \"v1\",\n    \"v2\"\n  ]\n}",
		},
		{
			name: "empty object",
			in:   `{}`,
			want: "{}",
		},
		{
			name: "scalar",
			in:   `"ok"`,
			want: `"ok"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrettyJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrettyJSON_StableAcrossKeyOrder(t *testing.T) {
	a, err := PrettyJSON([]byte(`{"x":{"k2":true,"k1":null},"y":[1,2]}`))
	require.NoError(t, err)
	b, err := PrettyJSON([]byte(`{"y":[1,2],"x":{"k1":null,"k2":true}}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPrettyJSON_Invalid(t *testing.T) {
	_, err := PrettyJSON([]byte("Internal Server Error"))
	require.Error(t, err)

	_, err = PrettyJSON([]byte(`{"a":1} {"b":2}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}

func TestPrettyJSON_TrailingDelimiter(t *testing.T) {
	for _, in := range []string{`{"a":1}]`, `{"a":1}}`, `[1]]`} {
		_, err := PrettyJSON([]byte(in))
		require.Error(t, err, in)
		assert.Contains(t, err.Error(), "trailing data", in)
	}

	out, err := PrettyJSON([]byte("{\"a\":1}\n  \t"))
	require.NoError(t, err, "trailing whitespace is fine")
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}
