package walker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/scope"
	"github.com/walteh/vtsc/pkg/walker"
)

func walkSetup(t *testing.T, src string) *walker.Result {
	t.Helper()
	prog, err := jsast.ParseProgram(src, jsast.Options{TypeScript: true, Module: true})
	require.NoError(t, err)
	return walker.WalkProgram(prog, scope.Root(), walker.Options{Module: true, Setup: true})
}

func walkOptions(t *testing.T, src string) *walker.Result {
	t.Helper()
	prog, err := jsast.ParseProgram(src, jsast.Options{TypeScript: true, Module: true})
	require.NoError(t, err)
	return walker.WalkProgram(prog, scope.Root(), walker.Options{Module: true})
}

func declNames(items []item.Item) []string {
	var out []string
	for _, d := range item.Filter[*item.Declaration](items) {
		out = append(out, d.Name)
	}
	return out
}

func bindingsByName(items []item.Item) map[string][]*item.Binding {
	out := map[string][]*item.Binding{}
	for _, b := range item.Filter[*item.Binding](items) {
		out[b.Name] = append(out[b.Name], b)
	}
	return out
}

func errorCodes(items []item.Item) []string {
	var out []string
	for _, e := range item.Filter[*item.Error](items) {
		out = append(out, e.Code)
	}
	return out
}

func TestTopLevelDeclarations(t *testing.T) {
	res := walkSetup(t, `
import { ref } from 'vue'
import type { Foo } from './foo'
import Comp, * as ns from './comp'
const x = 1, { a, b: [c, ...d] } = obj
let y
function f(p) { const inner = p }
class K {}
enum E { A }
interface I {}
`)
	assert.Equal(t, []string{"ref", "Comp", "ns", "x", "a", "c", "d", "y", "f", "K", "E"}, declNames(res.Items))
	assert.False(t, res.IsAsync)
	assert.Empty(t, errorCodes(res.Items))
}

func TestNestedDeclarationsAreNotTracked(t *testing.T) {
	res := walkSetup(t, `
const top = 1
if (top) { const inIf = 2 }
for (let i = 0; i < 3; i++) { var inFor = i }
for (const k of list) {}
while (false) { let w }
do { let dw } while (false)
switch (top) { case 1: const inCase = 1 }
try { const inTry = 1 } catch (e) { const inCatch = e } finally { const inFinally = 1 }
{ const inBlock = 1 }
label: { const inLabel = 1 }
`)
	assert.Equal(t, []string{"top"}, declNames(res.Items))
}

func TestDeclarationLinksInitializer(t *testing.T) {
	res := walkSetup(t, `const props = defineProps<{ a: string }>()`)

	decls := item.Filter[*item.Declaration](res.Items)
	require.Len(t, decls, 1)
	call, ok := decls[0].Init.(*jsast.CallExpr)
	require.True(t, ok)

	calls := item.Filter[*item.FunctionCall](res.Items)
	require.Len(t, calls, 1)
	assert.Equal(t, "defineProps", calls[0].Name)
	assert.Same(t, call, calls[0].Call)
	require.NotNil(t, calls[0].Declarator)
	assert.True(t, calls[0].TopLevel)
}

func TestFunctionCallNames(t *testing.T) {
	res := walkSetup(t, `a.b.emit('x'); (go)(); withDefaults(defineProps(), {}); obj[key]()`)
	var got []string
	for _, c := range item.Filter[*item.FunctionCall](res.Items) {
		got = append(got, c.Name)
	}
	assert.Equal(t, []string{"emit", "go", "withDefaults", "defineProps", ""}, got)
}

func TestBindingIgnoreRules(t *testing.T) {
	res := walkSetup(t, `
const r = undefined ?? arguments
function f(p, { q }, ...rest) { return p + q + rest + outer }
const g = (m = dflt) => m
const o = { key: val, [computed]: 1, short }
obj.member.deep
`)
	by := bindingsByName(res.Items)

	require.Len(t, by["undefined"], 1)
	assert.True(t, by["undefined"][0].Ignore)
	assert.True(t, by["arguments"][0].Ignore)
	assert.NotContains(t, by, "key")
	assert.NotContains(t, by, "member")
	assert.NotContains(t, by, "deep")

	require.Len(t, by["p"], 1)
	assert.True(t, by["p"][0].Ignore)
	assert.True(t, by["q"][0].Ignore)
	assert.True(t, by["rest"][0].Ignore)
	assert.True(t, by["m"][0].Ignore)
	assert.False(t, by["outer"][0].Ignore)
	assert.False(t, by["dflt"][0].Ignore)
	assert.False(t, by["val"][0].Ignore)
	assert.False(t, by["computed"][0].Ignore)
	assert.False(t, by["obj"][0].Ignore)

	require.Len(t, by["short"], 1)
	assert.True(t, by["short"][0].Shorthand)
}

func TestArgumentsIsReserved(t *testing.T) {
	res := walkSetup(t, `f(arguments)`)
	by := bindingsByName(res.Items)
	require.Len(t, by["arguments"], 1)
	assert.True(t, by["arguments"][0].Ignore)
	assert.False(t, by["f"][0].Ignore)
}

func TestFunctionParamsDoNotLeak(t *testing.T) {
	res := walkSetup(t, `const a = (item) => item; item`)
	by := bindingsByName(res.Items)
	require.Len(t, by["item"], 2)
	assert.True(t, by["item"][0].Ignore)
	assert.False(t, by["item"][1].Ignore)

	fns := item.Filter[*item.Function](res.Items)
	require.Len(t, fns, 1)
	assert.Less(t, fns[0].Body.Start, fns[0].Body.End)
}

func TestAwaitMarksRegionAsync(t *testing.T) {
	res := walkSetup(t, `const data = await load()`)
	assert.True(t, res.IsAsync)
	assert.Len(t, item.Filter[*item.Async](res.Items), 1)

	res = walkSetup(t, `for await (const x of stream) {}`)
	assert.True(t, res.IsAsync)

	res = walkSetup(t, `const data = load()`)
	assert.False(t, res.IsAsync)
}

func TestSetupRestrictions(t *testing.T) {
	res := walkSetup(t, `
const a = 1
return a
`)
	assert.Equal(t, []string{item.CodeNoReturnInSetup}, errorCodes(res.Items))

	res = walkSetup(t, `export default { name: 'x' }`)
	assert.Equal(t, []string{item.CodeNoExportDefaultInSetup}, errorCodes(res.Items))

	res = walkSetup(t, `function f() { return 1 }; const g = () => { return 2 }`)
	assert.Empty(t, errorCodes(res.Items))
}

func TestOptionsRegionDoesNotReportReturn(t *testing.T) {
	res := walkOptions(t, `
export default {
	setup() {
		const count = 1
		return { count }
	},
}
`)
	assert.Empty(t, errorCodes(res.Items))
	assert.Empty(t, declNames(res.Items), "declaration tracking is off outside setup regions")

	exports := item.Filter[*item.Export](res.Items)
	require.Len(t, exports, 1)
	assert.True(t, exports[0].Default)
}

func TestExportSpecifiersAreNotBindings(t *testing.T) {
	res := walkOptions(t, `const local = 1; export { local as renamed }; export * from './x'`)
	by := bindingsByName(res.Items)
	assert.NotContains(t, by, "local")
	assert.NotContains(t, by, "renamed")
	assert.Len(t, item.Filter[*item.Export](res.Items), 2)
}

func TestWalkExpressionStatic(t *testing.T) {
	expr, err := jsast.ParseExpression(`1 + 2`, jsast.Options{Base: 10})
	require.NoError(t, err)

	res := walker.WalkExpression(expr, "1 + 2", scope.Root(), walker.Options{Template: true})
	bindings := item.Filter[*item.Binding](res.Items)
	require.Len(t, bindings, 1)
	assert.True(t, bindings[0].Static)
	assert.True(t, bindings[0].Ignore)
	assert.Equal(t, "1 + 2", bindings[0].Text)
	assert.Equal(t, 10, bindings[0].Span().Start)
}

func TestWalkExpressionTemplateGlobals(t *testing.T) {
	expr, err := jsast.ParseExpression(`Math.max(a, JSON.parse(b))`, jsast.Options{})
	require.NoError(t, err)

	res := walker.WalkExpression(expr, "", scope.Root("b"), walker.Options{Template: true})
	by := bindingsByName(res.Items)
	assert.True(t, by["Math"][0].Ignore)
	assert.True(t, by["JSON"][0].Ignore)
	assert.False(t, by["a"][0].Ignore)
	assert.True(t, by["b"][0].Ignore)
}

func TestDestructuringAssignmentReferences(t *testing.T) {
	res := walkSetup(t, `;({ a, b: c } = source); [d = e] = list`)
	by := bindingsByName(res.Items)
	for _, name := range []string{"a", "c", "d", "e", "source", "list"} {
		require.Contains(t, by, name)
		assert.False(t, by[name][0].Ignore, name)
	}
	assert.NotContains(t, by, "b")
}
