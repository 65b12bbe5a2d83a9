package semtok_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/semtok"
)

func describe(tokens []semtok.Token) []string {
	var out []string
	for _, t := range tokens {
		out = append(out, fmt.Sprintf("%s/%s %s", t.Type, t.Modifier, t.Range))
	}
	return out
}

func TestGetTokensForText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:  "declarations_and_template_bindings",
			input: "<script setup>\nconst n = 1\n</script>\n<template><Comp v-if=\"n\" :title=\"n\" /></template>",
			expected: []string{
				"variable/declaration|readonly n@21",
				"number/none 1@25",
				"type/none Comp@48",
				"decorator/none v-if@53",
				"variable/none n@59",
				"decorator/none :@62",
				"property/none title@63",
				"variable/none n@70",
			},
		},
		{
			name:  "macro_call",
			input: "<script setup>\nconst p = defineProps()\n</script>",
			expected: []string{
				"variable/declaration|readonly p@21",
				"macro/static defineProps@25",
			},
		},
		{
			name:  "loop_alias_is_parameter",
			input: `<template><li v-for="x in xs">{{ x }}</li></template>`,
			expected: []string{
				"decorator/none v-for@14",
				"variable/none xs@26",
				"parameter/none x@33",
			},
		},
		{
			name:  "component_close_tag",
			input: `<template><Card>hi</Card></template>`,
			expected: []string{
				"type/none Card@11",
				"type/none Card@20",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := semtok.GetTokensForText(context.Background(), "App.vue", []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, describe(tokens))
		})
	}
}

func TestGetTokensForRange(t *testing.T) {
	src := "<script setup>\nconst a = 1, b = 2\n</script>"
	ranged := position.NewBasicPosition("b", 28)
	tokens, err := semtok.GetTokensForRange(context.Background(), "App.vue", []byte(src), &ranged)
	require.NoError(t, err)
	assert.Equal(t, []string{"variable/declaration|readonly b@28"}, describe(tokens))
}

func TestEncode(t *testing.T) {
	src := "<script setup>\nconst a = 1, b = 2\n</script>"
	tokens, err := semtok.GetTokensForText(context.Background(), "App.vue", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []uint32{
		1, 6, 1, 0, 3,
		0, 4, 1, 6, 0,
		0, 3, 1, 0, 3,
		0, 4, 1, 6, 0,
	}, semtok.Encode(src, tokens))
}

func TestLegend(t *testing.T) {
	types, modifiers := semtok.Legend()
	assert.Equal(t, "variable", types[semtok.TokenVariable])
	assert.Equal(t, "decorator", types[semtok.TokenDecorator])
	assert.Equal(t, []string{"declaration", "readonly", "static", "async"}, modifiers)
	assert.Equal(t, "declaration|static", (semtok.ModifierDeclaration | semtok.ModifierStatic).String())
}
