package compiler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/diff"
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/sfc"
)

func compile(t *testing.T, src string) *compiler.Result {
	t.Helper()
	res, err := compiler.Compile(context.Background(), "App.vue", src)
	require.NoError(t, err)
	return res
}

func codes(res *compiler.Result) []string {
	var out []string
	for _, d := range res.Diagnostics.All() {
		out = append(out, d.Code)
	}
	return out
}

func regionOf(res *compiler.Result, kind sfc.Kind) []item.Item {
	var out []item.Item
	for _, r := range res.Regions {
		if r.Block.Kind == kind {
			out = append(out, r.Items...)
		}
	}
	return out
}

func TestCompileDeclarationReachesTemplate(t *testing.T) {
	res := compile(t, `<script setup>const x = 1</script><template>{{x}}</template>`)

	decls := item.Filter[*item.Declaration](regionOf(res, sfc.KindScript))
	require.Len(t, decls, 1)
	assert.Equal(t, "x", decls[0].Name)

	bindings := item.Filter[*item.Binding](regionOf(res, sfc.KindTemplate))
	require.Len(t, bindings, 1)
	assert.Equal(t, "x", bindings[0].Name)
	assert.False(t, bindings[0].Ignore)

	assert.Contains(t, res.Options.Text, "const x = 1\n")
	assert.Contains(t, res.Options.Text, "(x);\n")
	assert.NotContains(t, res.Options.Text, "__VTSC_ctx.x")
	assert.Empty(t, codes(res))
}

func TestCompileRegexLiteral(t *testing.T) {
	res := compile(t, "<script setup lang=\"ts\">\nconst re = /it's/g\nconst slug = (s: string) => s.replace(/[^a-z]+/g, '-')\n</script><template>{{ slug(title).replace(re, '') }}</template>")

	decls := item.Filter[*item.Declaration](regionOf(res, sfc.KindScript))
	require.Len(t, decls, 2)
	assert.Equal(t, "re", decls[0].Name)
	assert.Equal(t, "slug", decls[1].Name)
	assert.Empty(t, codes(res))
	assert.Contains(t, res.Options.Text, "const re = /it's/g\n")
}

func TestCompileUndeclaredBindingUsesContext(t *testing.T) {
	res := compile(t, `<script setup>const x = 1</script><template>{{ x + y }}</template>`)
	assert.Contains(t, res.Options.Text, "( x + __VTSC_ctx.y );\n")
}

func TestCompileConditionGuards(t *testing.T) {
	res := compile(t, `<script setup lang="ts">
const a = true, b = false
</script>
<template><p v-if="a">1</p><p v-else-if="b">2</p><p v-else>3</p></template>`)

	out := res.Options.Text
	assert.Contains(t, out, "if ((a)) {\n__VTSC_element(\"p\", { });\n}\n")
	assert.Contains(t, out, "if ((b) && !(a)) {\n__VTSC_element(\"p\", { });\n}\n")
	assert.Contains(t, out, "if (!(a) && !(b)) {\n__VTSC_element(\"p\", { });\n}\n")
	assert.Empty(t, codes(res))
}

func TestCompileSetupReturnInconsistency(t *testing.T) {
	options := compile(t, `<script>
export default {
	setup() {
		return {}
	},
}
</script>`)
	assert.NotContains(t, codes(options), item.CodeNoReturnInSetup)
	assert.Contains(t, options.Options.Text, "const __VTSC_internalComponent = {\n")
	assert.NotContains(t, options.Options.Text, "const __VTSC_internalComponent = {};")

	setup := compile(t, `<script setup>
const a = 1
return a
</script>`)
	assert.Equal(t, []string{item.CodeNoReturnInSetup}, codes(setup))
	require.Len(t, setup.Diagnostics.Errors, 1)
	assert.Equal(t, 2, setup.Diagnostics.Errors[0].Line)
}

func TestCompileWithDefaultsSingleContribution(t *testing.T) {
	res := compile(t, `<script setup lang="ts">
const props = withDefaults(defineProps<{ msg?: string }>(), { msg: "hi" })
</script>`)

	out := res.Options.Text
	assert.Equal(t, 1, strings.Count(out, "type __VTSC_Props = "))
	assert.Contains(t, out, "type __VTSC_Props = typeof __VTSC_props;\n")
	assert.Contains(t, out, "const __VTSC_props = withDefaults(defineProps<{ msg?: string }>(), { msg: \"hi\" });\nconst props = __VTSC_props\n")
	assert.Empty(t, codes(res))
}

func TestCompileMacroDiagnostics(t *testing.T) {
	res := compile(t, `<script setup lang="ts">
const a = defineProps<{ a: string }>()
const b = defineProps<{ b: string }>()
</script>`)
	assert.Equal(t, []string{item.CodeDuplicateMacro}, codes(res))
	assert.Equal(t, 1, strings.Count(res.Options.Text, "type __VTSC_Props = "))

	res = compile(t, `<script setup lang="ts">
const c = withDefaults(props, {})
</script>`)
	assert.Equal(t, []string{item.CodeWithDefaultsWithoutProp}, codes(res))
	assert.Contains(t, res.Options.Text, "type __VTSC_Props = Record<string, any>;\n")

	// a separate defineProps provides the type in either order
	for _, src := range []string{
		"const p = defineProps<{ a?: string }>()\nconst d = withDefaults(p, { a: 'x' })",
		"const d = withDefaults(p, { a: 'x' })\nconst p = defineProps<{ a?: string }>()",
	} {
		res = compile(t, "<script setup lang=\"ts\">\n"+src+"\n</script>")
		assert.Equal(t, []string{item.CodeWithDefaultsWithoutProp}, codes(res), src)
		assert.Equal(t, 1, strings.Count(res.Options.Text, "type __VTSC_Props = "), src)
		assert.Contains(t, res.Options.Text, "type __VTSC_Props = typeof __VTSC_props;\n", src)
	}

	res = compile(t, `<script setup lang="ts">
const a = defineProps<{ a: string }>()
const b = withDefaults(defineProps<{ b?: string }>(), {})
</script>`)
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, "defineProps is called more than once", res.Diagnostics.Errors[0].Message)
	assert.Equal(t, 1, strings.Count(res.Options.Text, "type __VTSC_Props = "))
}

func TestCompileDefaultContributions(t *testing.T) {
	res := compile(t, `<template><slot name="footer" :count="1"></slot></template>`)
	out := res.Options.Text
	for _, want := range []string{
		"type __VTSC_Props = {};\n",
		"type __VTSC_Emits = {};\n",
		"type __VTSC_Slots = __VTSC_TemplateSlots;\n",
		"type __VTSC_Expose = {};\n",
		"type __VTSC_Model = {};\n",
		"type __VTSC_Options = {};\n",
		"const __VTSC_internalComponent = {};\n",
		"var __VTSC_slot0 = { count: (1), };\n",
		"return { \"footer\": __VTSC_slot0 };\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestCompileDefineModel(t *testing.T) {
	res := compile(t, `<script setup lang="ts">
const model = defineModel<string>()
const title = defineModel<string>("title")
</script>`)
	out := res.Options.Text
	assert.Contains(t, out, `type __VTSC_Model = { modelValue?: (typeof __VTSC_model0)["value"]; "onUpdate:modelValue"?: (value: (typeof __VTSC_model0)["value"]) => void; title?: (typeof __VTSC_model1)["value"]; "onUpdate:title"?: (value: (typeof __VTSC_model1)["value"]) => void };`)
	assert.Contains(t, out, "const model = __VTSC_model0\n")
	assert.Empty(t, codes(res))
}

func TestCompileAsyncAndGeneric(t *testing.T) {
	res := compile(t, `<script setup lang="ts" generic="T extends string">
const data = await load()
</script>`)
	out := res.Options.Text
	assert.Contains(t, out, "export default async function __VTSC_setup<T extends string/*")
	assert.Contains(t, res.Bundle.Text, `import __VTSC_setup from "./App.vue.options";`)
	assert.Equal(t, "App.vue.options.ts", res.Options.Name)
	assert.Equal(t, "App.vue.ts", res.Bundle.Name)
}

func TestCompileImportsHoisted(t *testing.T) {
	res := compile(t, `<script setup lang="ts">
import Child from "./Child.vue"
const n = 1
</script>
<template><Child :n="n" /></template>`)
	out := res.Options.Text
	imp := strings.Index(out, "import Child from \"./Child.vue\";\n")
	setup := strings.Index(out, "function __VTSC_setup")
	require.GreaterOrEqual(t, imp, 0)
	assert.Less(t, imp, setup)
	assert.Contains(t, out, "const __VTSC_c0 = __VTSC_component(Child/*")
	assert.Contains(t, out, "n: (n), });\n")
}

func TestCompileLoop(t *testing.T) {
	res := compile(t, `<script setup>
const items = [1]
</script>
<template><li v-for="(item, i) in items" v-if="ok" :key="i">{{ item }}</li></template>`)
	out := res.Options.Text
	assert.Contains(t, out, "__VTSC_renderList(items, (item, i) => {\nif (!((__VTSC_ctx.ok))) return;\n__VTSC_element(\"li\", { key: (i), });\n( item );\n});\n")
}

func TestCompileRoundTripWithoutPlugins(t *testing.T) {
	src := `<script setup lang="ts">
import A from "./A.vue"
const props = defineProps<{ a: string }>()
</script>
<template><A v-if="props.a" @click="go()">{{ props.a }}</A></template>`

	res, err := compiler.New(compiler.Options{Disabled: compiler.PluginNames()}).Compile(context.Background(), "App.vue", src)
	require.NoError(t, err)
	for _, r := range res.Regions {
		assert.Equal(t, r.Block.Text(src), r.Buffer.String())
	}
}

func TestCompileUnknownPlugin(t *testing.T) {
	_, err := compiler.New(compiler.Options{Disabled: []string{"nope"}}).Compile(context.Background(), "App.vue", "")
	require.Error(t, err)
}

func TestCompileNeverFailsOnBrokenInput(t *testing.T) {
	res := compile(t, `<script setup>const = </script><template><div v-if="a +">{{ ) }}</div><p v-else-if="">`)
	assert.Contains(t, codes(res), item.CodeParserFallback)
	assert.NotContains(t, codes(res), item.CodeInternal)
	assert.NotEmpty(t, res.Options.Text)
}

func TestCompileBundle(t *testing.T) {
	res, err := compiler.New(compiler.Options{Prefix: "__X_"}).Compile(context.Background(), "src/Card.vue", `<template><div /></template>`)
	require.NoError(t, err)

	want := `import __X_setup from "./Card.vue.options";
export type __X_Component = Awaited<ReturnType<typeof __X_setup>>;
declare const __X_default: __X_Component;
export default __X_default;
`
	assert.Empty(t, diff.Text(want, res.Bundle.Text))
	assert.Equal(t, "src/Card.vue.ts", res.Bundle.Name)
	assert.Contains(t, res.Options.Text, "declare function __X_element")
	assert.NotContains(t, res.Options.Text, "__VTSC_")
}
