package sfc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/sfc"
)

const component = `<!-- <script>commented()</script> -->
<script setup lang="ts" generic="T extends Record<string, number>">
const x = 1
</script>

<template>
  <div>
    <template v-if="x">{{ x }}</template>
  </div>
</template>
<!-- trailing -->
<style scoped>
.a { color: red }
</style>
<i18n lang="json">{"en": {}}</i18n>
`

func TestParse(t *testing.T) {
	desc := sfc.Parse(context.Background(), "Comp.vue", component)
	require.Len(t, desc.Blocks, 4)

	script := desc.Blocks[0]
	assert.Equal(t, sfc.KindScript, script.Kind)
	assert.True(t, script.Setup)
	assert.Equal(t, "ts", script.Lang)
	assert.Equal(t, `<script setup lang="ts" generic="T extends Record<string, number>">`, script.Open.Text(component))
	assert.Equal(t, "\nconst x = 1\n", script.Text(component))
	assert.Equal(t, "</script>", script.Close.Text(component))

	generic, ok := script.Generic()
	require.True(t, ok)
	assert.Equal(t, "T extends Record<string, number>", generic.Value.Text(component))
	assert.Equal(t, "generic", generic.Key.Text(component))

	setup, ok := script.Attr("setup")
	require.True(t, ok)
	assert.True(t, setup.Bool)
	assert.Equal(t, "setup", setup.Key.Text(component))

	tpl := desc.Blocks[1]
	assert.Equal(t, sfc.KindTemplate, tpl.Kind)
	assert.Contains(t, tpl.Text(component), `<template v-if="x">{{ x }}</template>`)
	assert.Equal(t, "</template>", tpl.Close.Text(component))

	style := desc.Blocks[2]
	assert.Equal(t, sfc.KindStyle, style.Kind)
	assert.Equal(t, "<style scoped>", style.Open.Text(component))

	custom := desc.Blocks[3]
	assert.Equal(t, sfc.KindCustom, custom.Kind)
	assert.Equal(t, "json", custom.Lang)
}

func TestSpansAreOrdered(t *testing.T) {
	desc := sfc.Parse(context.Background(), "Comp.vue", component)
	prevEnd := 0
	for _, b := range desc.Blocks {
		assert.LessOrEqual(t, prevEnd, b.Open.Start)
		assert.Less(t, b.Open.Start, b.Open.End)
		assert.LessOrEqual(t, b.Open.End, b.Content.Start)
		assert.LessOrEqual(t, b.Content.End, b.Close.Start)
		assert.Less(t, b.Close.Start, b.Close.End)
		assert.False(t, b.Open.Overlaps(b.Content))
		assert.False(t, b.Content.Overlaps(b.Close))
		prevEnd = b.Close.End
	}
}

func TestSyntheticScript(t *testing.T) {
	src := "<template><div/></template>"
	desc := sfc.Parse(context.Background(), "Comp.vue", src)
	require.Len(t, desc.Blocks, 2)

	scripts := desc.Scripts()
	require.Len(t, scripts, 1)
	assert.True(t, scripts[0].Synthetic)
	assert.Equal(t, position.NewSpan(len(src), len(src)), scripts[0].Content)
	assert.Nil(t, desc.ScriptSetup())
}

func TestSegmentSkipsUnmatchedOpenTag(t *testing.T) {
	src := "<template>a</template>"
	raw := []sfc.RawBlock{
		{Tag: "template", Content: position.NewSpan(10, 11)},
		{Tag: "script", Content: position.NewSpan(22, 22)},
	}
	desc := sfc.Segment(context.Background(), "Comp.vue", src, raw)
	require.Len(t, desc.Blocks, 2)
	assert.Equal(t, sfc.KindTemplate, desc.Blocks[0].Kind)
	assert.True(t, desc.Blocks[1].Synthetic, "the unmatched script block is dropped")
}

func TestAttributesWithSameValue(t *testing.T) {
	src := `<script lang="ts" data-lang="ts" setup>a</script>`
	desc := sfc.Parse(context.Background(), "Comp.vue", src)
	require.Len(t, desc.Blocks, 1)
	b := desc.Blocks[0]

	lang, _ := b.Attr("lang")
	dataLang, _ := b.Attr("data-lang")
	assert.Equal(t, position.NewSpan(8, 12), lang.Key)
	assert.Equal(t, position.NewSpan(14, 16), lang.Value)
	assert.Equal(t, position.NewSpan(18, 27), dataLang.Key)
	assert.Equal(t, position.NewSpan(29, 31), dataLang.Value)
}

func TestUnquotedAttributes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		key   position.Span
		value position.Span
		setup position.Span
	}{
		{
			name:  "before a boolean attribute",
			src:   `<script lang=ts setup>a</script>`,
			key:   position.NewSpan(8, 12),
			value: position.NewSpan(13, 15),
			setup: position.NewSpan(16, 21),
		},
		{
			name:  "last in the tag",
			src:   `<script setup lang=ts>a</script>`,
			key:   position.NewSpan(14, 18),
			value: position.NewSpan(19, 21),
			setup: position.NewSpan(8, 13),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := sfc.Parse(context.Background(), "Comp.vue", tt.src)
			require.Len(t, desc.Blocks, 1)
			b := desc.Blocks[0]
			assert.Equal(t, "ts", b.Lang)
			assert.True(t, b.Setup)

			lang, ok := b.Attr("lang")
			require.True(t, ok)
			assert.Equal(t, tt.key, lang.Key)
			assert.Equal(t, tt.value, lang.Value)
			assert.Equal(t, "ts", lang.Value.Text(tt.src))

			setup, ok := b.Attr("setup")
			require.True(t, ok)
			assert.Equal(t, tt.setup, setup.Key)
		})
	}
}

func TestSplit(t *testing.T) {
	src := `<template><template #a>x</template></template><script src="./x.js"/><style></style>`
	raw := sfc.Split(src)
	require.Len(t, raw, 2)
	assert.Equal(t, "template", raw[0].Tag)
	assert.Equal(t, "<template #a>x</template>", raw[0].Content.Text(src))
	assert.Equal(t, "style", raw[1].Tag)
	assert.True(t, raw[1].Content.IsZero() || raw[1].Content.Len() == 0)
}
