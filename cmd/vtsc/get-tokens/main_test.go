package get_tokens

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const src = "<script setup>\nconst a = 1\n</script>"

func run(t *testing.T, enc bool) []byte {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/App.vue", []byte(src), 0o644))
	var out bytes.Buffer
	me := &Handler{file: "/App.vue", encoded: enc, fs: fs, stdout: &out}
	require.NoError(t, me.Run(context.Background()))
	return out.Bytes()
}

func TestGetTokens(t *testing.T) {
	var got []token
	require.NoError(t, json.Unmarshal(run(t, false), &got))
	assert.Equal(t, []token{
		{Type: "variable", Modifiers: "declaration|readonly", Offset: 21, Text: "a"},
		{Type: "number", Modifiers: "none", Offset: 25, Text: "1"},
	}, got)
}

func TestGetTokensEncoded(t *testing.T) {
	var got encoded
	require.NoError(t, json.Unmarshal(run(t, true), &got))
	assert.Equal(t, []uint32{1, 6, 1, 0, 3, 0, 4, 1, 6, 0}, got.Data)
	assert.Contains(t, got.Legend.TokenTypes, "macro")
}
