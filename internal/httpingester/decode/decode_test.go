package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

func TestDecode_SingleObject(t *testing.T) {
	batch, err := Decode([]byte(`{"name": "alice", "score": 10}`), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), batch.NumRows())
	assert.Equal(t, model.Row{"name": "alice", "score": float64(10)}, batch.Rows[0])
}

func TestDecode_ObjectArray(t *testing.T) {
	batch, err := Decode([]byte(`[{"name": "alice"}, {"name": "bob"}, {"name": "carol"}]`), false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), batch.NumRows())
	assert.Equal(t, "alice", batch.Rows[0]["name"])
	assert.Equal(t, "bob", batch.Rows[1]["name"])
	assert.Equal(t, "carol", batch.Rows[2]["name"])
}

func TestDecode_SurroundingWhitespace(t *testing.T) {
	batch, err := Decode([]byte("  \n [{\"name\": \"alice\"}] \n"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), batch.NumRows())
}

func TestDecode_Lines(t *testing.T) {
	payload := "{\"name\": \"alice\"}\n\n{\"name\": \"bob\"}\n{\"name\": \"carol\"}\n"
	batch, err := Decode([]byte(payload), true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), batch.NumRows())
	assert.Equal(t, "bob", batch.Rows[1]["name"])
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]struct {
		payload string
		lines   bool
	}{
		"empty payload":            {payload: "", lines: false},
		"whitespace only":          {payload: "   \n", lines: false},
		"malformed object":         {payload: `{"name": `, lines: false},
		"malformed array":          {payload: `[{"name": "alice"},]`, lines: false},
		"array of scalars":         {payload: `[1, 2, 3]`, lines: false},
		"empty array":              {payload: `[]`, lines: false},
		"empty lines payload":      {payload: "\n\n", lines: true},
		"malformed line":           {payload: "{\"name\": \"alice\"}\nnot json\n", lines: true},
		"array in line mode":       {payload: "[{\"name\": \"alice\"}]\n", lines: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			batch, err := Decode([]byte(tc.payload), tc.lines)
			assert.Error(t, err)
			assert.Nil(t, batch)
		})
	}
}
