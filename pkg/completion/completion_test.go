package completion_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/completion"
)

const component = `<script setup>
import Foo from './Foo.vue'
const msg = 1
function go() {}
let count = 0
const p = def
</script>
<template><ul><li v-for="(row, i) in rows" @click="m">{{ r }}</li></ul></template>`

func labels(items []completion.CompletionItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestGetCompletions(t *testing.T) {
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", component)
	require.NoError(t, err)

	at := func(s string, skip int) int {
		idx := strings.Index(component, s)
		require.GreaterOrEqual(t, idx, 0)
		return idx + skip
	}

	tests := []struct {
		name   string
		offset int
		want   []completion.CompletionItem
	}{
		{
			name:   "handler with empty prefix",
			offset: at(`"m"`, 1),
			want: []completion.CompletionItem{
				{Label: "$event", Kind: "parameter", Detail: "template local"},
				{Label: "Foo", Kind: "module", Detail: "setup import"},
				{Label: "count", Kind: "variable", Detail: "setup let"},
				{Label: "go", Kind: "function", Detail: "setup function"},
				{Label: "i", Kind: "parameter", Detail: "template local"},
				{Label: "msg", Kind: "constant", Detail: "setup const"},
				{Label: "p", Kind: "constant", Detail: "setup const"},
				{Label: "row", Kind: "parameter", Detail: "template local"},
			},
		},
		{
			name:   "interpolation prefix",
			offset: at("{{ r", 4),
			want: []completion.CompletionItem{
				{Label: "row", Kind: "parameter", Detail: "template local"},
			},
		},
		{
			name:   "setup prefix",
			offset: at("count =", 2),
			want: []completion.CompletionItem{
				{Label: "count", Kind: "variable", Detail: "setup let"},
			},
		},
		{
			name:   "outside any block",
			offset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := completion.GetCompletions(ctx, res, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCompletionsMacros(t *testing.T) {
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", component)
	require.NoError(t, err)

	got, err := completion.GetCompletions(ctx, res, strings.Index(component, "def\n")+3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"defineEmits", "defineExpose", "defineModel", "defineOptions",
		"defineProps", "defineSlots",
	}, labels(got))
	assert.Equal(t, "compiler macro: Props", got[4].Detail)
}

func TestGetCompletionsAfterDot(t *testing.T) {
	src := "<template><p>{{ a.b }}</p></template>"
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", src)
	require.NoError(t, err)

	got, err := completion.GetCompletions(ctx, res, strings.Index(src, "b }}")+1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetCompletionsOutOfRange(t *testing.T) {
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", component)
	require.NoError(t, err)

	_, err = completion.GetCompletions(ctx, res, -1)
	require.Error(t, err)
}

func TestNewCompletionContext(t *testing.T) {
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", component)
	require.NoError(t, err)

	cc := completion.NewCompletionContext(res, strings.Index(component, "{{ r")+4)
	assert.Equal(t, "r", cc.Prefix)
	assert.False(t, cc.AfterDot)
	assert.True(t, cc.InTemplate())
	assert.False(t, cc.InSetup())

	cc = completion.NewCompletionContext(res, strings.Index(component, "msg")+1)
	assert.Equal(t, "m", cc.Prefix)
	assert.True(t, cc.InSetup())
}
