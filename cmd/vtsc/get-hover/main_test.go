package get_hover

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const src = "<script setup>\nconst msg = 1\n</script>\n<template><p>{{ msg }}</p></template>"

func run(t *testing.T, cursor string) (string, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/App.vue", []byte(src), 0o644))
	var out bytes.Buffer
	me := &Handler{file: "/App.vue", cursor: cursor, fs: fs, stdout: &out}
	err := me.Run(context.Background())
	return out.String(), err
}

func TestGetHover(t *testing.T) {
	out, err := run(t, "4:17")
	require.NoError(t, err)

	var got response
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"### Setup Binding\n\n```ts\nconst msg\n```"}, got.Contents)
	assert.Equal(t, 3, got.Range.Start.Line)
	assert.Equal(t, 16, got.Range.Start.Character)
	assert.Equal(t, 19, got.Range.End.Character)
}

func TestGetHoverNothing(t *testing.T) {
	out, err := run(t, "0")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestGetHoverBadCursor(t *testing.T) {
	_, err := run(t, "9:1")
	require.Error(t, err)
}
