package hover_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/hover"
)

const component = `<script setup lang="ts">
import Foo from './Foo.vue'
const msg = defineProps<{ a: string }>()
</script>
<template><Foo v-focus :x="msg" v-for="item in list">{{ item }}</Foo></template>`

func TestBuildHoverResponse(t *testing.T) {
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", component)
	require.NoError(t, err)

	tests := []struct {
		name   string
		at     string
		skip   int
		want   string
		text   string
		isNone bool
	}{
		{
			name: "setup binding in template",
			at:   `"msg"`,
			skip: 1,
			want: "### Setup Binding\n\n```ts\nconst msg\n```",
			text: "msg",
		},
		{
			name: "declaration",
			at:   "msg =",
			want: "### Setup Binding\n\n```ts\nconst msg\n```",
			text: "msg",
		},
		{
			name: "imported declaration",
			at:   "Foo from",
			want: "### Setup Binding\n\n```ts\nimport Foo from \"./Foo.vue\"\n```",
			text: "Foo",
		},
		{
			name: "macro",
			at:   "defineProps",
			want: "### Compiler Macro\n\n`defineProps` declares the component's `Props` type.",
			text: "defineProps",
		},
		{
			name: "component",
			at:   "<Foo",
			skip: 1,
			want: "### Component\n\n`Foo` is imported from `./Foo.vue`.",
			text: "Foo",
		},
		{
			name: "custom directive",
			at:   "v-focus",
			want: "### Directive\n\n`v-focus` resolves to `vFocus` from the component context.",
			text: "v-focus",
		},
		{
			name: "built-in directive",
			at:   "v-for",
			want: "### Directive\n\n`v-for` is a built-in directive.",
			text: "v-for",
		},
		{
			name: "bind shorthand",
			at:   ":x",
			want: "### Directive\n\n`v-bind` is a built-in directive.",
			text: ":x",
		},
		{
			name: "loop alias",
			at:   "item }}",
			want: "### Local\n\n`item` is bound by an enclosing scope.",
			text: "item",
		},
		{
			name: "context binding",
			at:   "list",
			want: "### Component Context\n\n`list` resolves through the component context.",
			text: "list",
		},
		{
			name:   "whitespace",
			at:     "\n<template>",
			isNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := strings.Index(component, tt.at)
			require.GreaterOrEqual(t, idx, 0)
			info, err := hover.BuildHoverResponse(ctx, res, idx+tt.skip)
			require.NoError(t, err)
			if tt.isNone {
				assert.Nil(t, info)
				return
			}
			require.NotNil(t, info)
			assert.Equal(t, []string{tt.want}, info.Content)
			assert.Equal(t, tt.text, info.Position.Text)
		})
	}
}

func TestBuildHoverResponseOutOfRange(t *testing.T) {
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", component)
	require.NoError(t, err)

	_, err = hover.BuildHoverResponse(ctx, res, len(component)+1)
	require.Error(t, err)
}

func TestBuildHoverResponseSetupDirective(t *testing.T) {
	src := "<script setup>\nconst vFocus = {}\n</script>\n<template><input v-focus></template>"
	ctx := context.Background()
	res, err := compiler.Compile(ctx, "App.vue", src)
	require.NoError(t, err)

	info, err := hover.BuildHoverResponse(ctx, res, strings.Index(src, "v-focus"))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, []string{"### Directive\n\n`v-focus` resolves to `vFocus` from a setup binding."}, info.Content)
}
