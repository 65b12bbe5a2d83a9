package jsast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/jsast"
)

var tsModule = jsast.Options{TypeScript: true, Module: true}

func identNames(n jsast.Node) []string {
	var names []string
	jsast.Inspect(n, func(c jsast.Node) bool {
		if id, ok := c.(*jsast.Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	return names
}

func TestTokenize(t *testing.T) {
	toks, err := jsast.Tokenize("a >>= `x${ {b: 1}.b }y`", 10)
	require.NoError(t, err)

	var texts []string
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"a", ">", ">", "=", "`", "x", "${", "{", "b", ":", "1", "}", ".", "b", "}", "y", "`", ""}, texts)
	assert.Equal(t, 10, toks[0].Start, "offsets are shifted by base")
	assert.Equal(t, jsast.TokEOF, toks[len(toks)-1].Kind)
}

func TestTokenizeRegex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		regex string
	}{
		{
			name:  "call_argument",
			input: `s.replace(/\s+/g, '-')`,
			want:  []string{"s", ".", "replace", "(", `/\s+/g`, ",", "'-'", ")", ""},
			regex: `/\s+/g`,
		},
		{
			name:  "quote_in_body",
			input: "x = /it's/g",
			want:  []string{"x", "=", "/it's/g", ""},
			regex: "/it's/g",
		},
		{
			name:  "slash_in_class",
			input: "return /[/]+/",
			want:  []string{"return", "/[/]+/", ""},
			regex: "/[/]+/",
		},
		{
			name:  "division",
			input: "a / b / 2",
			want:  []string{"a", "/", "b", "/", "2", ""},
		},
		{
			name:  "division_after_call",
			input: "f(x) / 2 /g",
			want:  []string{"f", "(", "x", ")", "/", "2", "/", "g", ""},
		},
		{
			name:  "inside_template_expression",
			input: "`a${ /}/.test(v) }b`",
			want:  []string{"`", "a", "${", "/}/", ".", "test", "(", "v", ")", "}", "b", "`", ""},
			regex: "/}/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := jsast.Tokenize(tt.input, 5)
			require.NoError(t, err)

			var texts []string
			var regex string
			for _, tok := range toks {
				texts = append(texts, tok.Text)
				assert.Equal(t, tok.Text, tt.input[tok.Start-5:tok.End-5], "token offsets")
				if tok.Kind == jsast.TokRegex {
					regex = tok.Text
				}
			}
			assert.Equal(t, tt.want, texts)
			assert.Equal(t, tt.regex, regex)
		})
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, n jsast.Node)
	}{
		{
			name:  "precedence",
			input: "a + b * c",
			check: func(t *testing.T, n jsast.Node) {
				bin := n.(*jsast.BinaryExpr)
				assert.Equal(t, "+", bin.Op)
				assert.Equal(t, "*", bin.Right.(*jsast.BinaryExpr).Op)
			},
		},
		{
			name:  "exponent_right_assoc",
			input: "a ** b ** c",
			check: func(t *testing.T, n jsast.Node) {
				bin := n.(*jsast.BinaryExpr)
				_, ok := bin.Right.(*jsast.BinaryExpr)
				assert.True(t, ok)
			},
		},
		{
			name:  "regex_literal",
			input: `s.replace(/[a-z']+/gi, fn)`,
			check: func(t *testing.T, n jsast.Node) {
				call := n.(*jsast.CallExpr)
				require.Len(t, call.Args, 2)
				lit := call.Args[0].(*jsast.Literal)
				assert.Equal(t, jsast.LitRegExp, lit.Kind)
				assert.Equal(t, "[a-z']+", lit.Value)
				assert.Equal(t, "gi", lit.Flags)
				assert.Equal(t, []string{"s", "replace", "fn"}, identNames(n))
			},
		},
		{
			name:  "division_chain",
			input: "a / b / c",
			check: func(t *testing.T, n jsast.Node) {
				bin := n.(*jsast.BinaryExpr)
				assert.Equal(t, "/", bin.Op)
				assert.Equal(t, "/", bin.Left.(*jsast.BinaryExpr).Op)
			},
		},
		{
			name:  "shift_glued",
			input: "a >>> 2 >= b",
			check: func(t *testing.T, n jsast.Node) {
				bin := n.(*jsast.BinaryExpr)
				assert.Equal(t, ">=", bin.Op)
				assert.Equal(t, ">>>", bin.Left.(*jsast.BinaryExpr).Op)
			},
		},
		{
			name:  "arrow_with_types",
			input: "(x: number, { y }: Foo<Bar<string>>): boolean => x > y",
			check: func(t *testing.T, n jsast.Node) {
				fn := n.(*jsast.Function)
				assert.Equal(t, jsast.FuncArrow, fn.Kind)
				assert.Len(t, fn.Params, 2)
				assert.NotNil(t, fn.ReturnType)
			},
		},
		{
			name:  "parenthesized_is_not_arrow",
			input: "(a, b)",
			check: func(t *testing.T, n jsast.Node) {
				paren := n.(*jsast.ParenExpr)
				assert.IsType(t, &jsast.SeqExpr{}, paren.Expr)
			},
		},
		{
			name:  "async_arrow",
			input: "async (e) => await e",
			check: func(t *testing.T, n jsast.Node) {
				fn := n.(*jsast.Function)
				assert.True(t, fn.Async)
				assert.True(t, jsast.ContainsAwait(fn))
			},
		},
		{
			name:  "generic_call",
			input: "ref<string>('x')",
			check: func(t *testing.T, n jsast.Node) {
				call := n.(*jsast.CallExpr)
				assert.NotNil(t, call.TypeArgs)
				assert.Equal(t, "ref", call.Callee.(*jsast.Ident).Name)
			},
		},
		{
			name:  "less_than_is_not_generic",
			input: "a < b && c > d",
			check: func(t *testing.T, n jsast.Node) {
				assert.Equal(t, "&&", n.(*jsast.BinaryExpr).Op)
			},
		},
		{
			name:  "non_null_and_as",
			input: "foo!.bar as string",
			check: func(t *testing.T, n jsast.Node) {
				ta := n.(*jsast.TypeAssertion)
				assert.Equal(t, "as", ta.Op)
				assert.Equal(t, []string{"foo", "bar"}, identNames(ta))
			},
		},
		{
			name:  "object_shorthand_and_methods",
			input: "{ a, b: c, [d]: e, f() { return g }, ...h }",
			check: func(t *testing.T, n jsast.Node) {
				obj := n.(*jsast.ObjectExpr)
				require.Len(t, obj.Props, 5)
				assert.True(t, obj.Props[0].(*jsast.Property).Shorthand)
				assert.Equal(t, jsast.PropMethod, obj.Props[3].(*jsast.Property).Kind)
				assert.IsType(t, &jsast.SpreadElement{}, obj.Props[4])
			},
		},
		{
			name:  "template_literal",
			input: "`a${b}c${d + 1}`",
			check: func(t *testing.T, n jsast.Node) {
				tpl := n.(*jsast.TemplateLiteral)
				assert.Equal(t, []string{"a", "c", ""}, tpl.Quasis)
				assert.Len(t, tpl.Exprs, 2)
			},
		},
		{
			name:  "destructuring_assignment",
			input: "[a, { b }] = list",
			check: func(t *testing.T, n jsast.Node) {
				as := n.(*jsast.AssignExpr)
				assert.IsType(t, &jsast.ArrayPattern{}, as.Left)
			},
		},
		{
			name:  "optional_chain",
			input: "a?.b?.[c]?.(d)",
			check: func(t *testing.T, n jsast.Node) {
				call := n.(*jsast.CallExpr)
				assert.True(t, call.Optional)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := jsast.ParseExpression(tt.input, tsModule)
			require.NoError(t, err)
			tt.check(t, n)
		})
	}
}

func TestParseExpressionOffsets(t *testing.T) {
	src := "foo.bar(baz)"
	n, err := jsast.ParseExpression(src, jsast.Options{Base: 100})
	require.NoError(t, err)

	assert.Equal(t, 100, n.Pos())
	assert.Equal(t, 100+len(src), n.End())
	call := n.(*jsast.CallExpr)
	arg := call.Args[0].(*jsast.Ident)
	assert.Equal(t, 108, arg.Start)
	assert.Equal(t, 111, arg.Stop)
}

func TestParseProgram(t *testing.T) {
	src := `import { ref, type Ref } from 'vue'
import Comp from './Comp.vue'

interface Props { msg: string }
type Maybe<T> = T | null

const count = ref<number>(0)
let { a, b: [c] } = useThing()
function inc(by = 1): void {
	count.value += by
}
class Store<T> extends Base implements Thing {
	private items: T[] = []
	static create() { return new Store() }
	get size() { return this.items.length }
}
for (const [k, v] of Object.entries(obj)) console.log(k, v)
export default { name: 'x' }
`
	prog, err := jsast.ParseProgram(src, tsModule)
	require.NoError(t, err)
	require.Len(t, prog.Body, 10)

	imp := prog.Body[0].(*jsast.ImportDecl)
	require.Len(t, imp.Specifiers, 2)
	assert.True(t, imp.Specifiers[1].TypeOnly)
	assert.Equal(t, "vue", imp.Source.Value)

	assert.Equal(t, "interface", prog.Body[2].(*jsast.TypeDecl).Kind)
	assert.Equal(t, "Maybe", prog.Body[3].(*jsast.TypeDecl).Name.Name)

	decl := prog.Body[5].(*jsast.VarDecl)
	assert.Equal(t, "let", decl.Kind)
	assert.IsType(t, &jsast.ObjectPattern{}, decl.Decls[0].ID)

	cls := prog.Body[7].(*jsast.Class)
	assert.Equal(t, "Store", cls.Name.Name)
	assert.Len(t, cls.Members, 3)

	forIn := prog.Body[8].(*jsast.ForInStmt)
	assert.True(t, forIn.Of)

	assert.IsType(t, &jsast.ExportDefault{}, prog.Body[9])
}

func TestParseProgramRegex(t *testing.T) {
	src := "const re = /it's/g\nconst half = total / 2 / n\nif (/^\\d+$/.test(v)) count++"
	prog, err := jsast.ParseProgram(src, tsModule)
	require.NoError(t, err)
	require.Len(t, prog.Body, 3)

	decl := prog.Body[0].(*jsast.VarDecl)
	lit := decl.Decls[0].Init.(*jsast.Literal)
	assert.Equal(t, jsast.LitRegExp, lit.Kind)
	assert.Equal(t, "/it's/g", lit.Raw)
	assert.Equal(t, "/it's/g", src[lit.Start:lit.Stop])

	half := prog.Body[1].(*jsast.VarDecl)
	assert.Equal(t, "/", half.Decls[0].Init.(*jsast.BinaryExpr).Op)
}

func TestParseProgramStrictFails(t *testing.T) {
	_, err := jsast.ParseProgram("const a = ;\nconst b = 2", tsModule)
	require.Error(t, err)

	var syn *jsast.SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 10, syn.Offset)
}

func TestParseProgramTolerant(t *testing.T) {
	prog := jsast.ParseProgramTolerant("const a = ;\nconst b = c + d\n", tsModule)
	require.Len(t, prog.Body, 2)

	bad, ok := prog.Body[0].(*jsast.BadNode)
	require.True(t, ok)
	assert.Equal(t, 0, bad.Start)

	decl, ok := prog.Body[1].(*jsast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c", "d"}, identNames(decl))
}

func TestParseExpressionTolerant(t *testing.T) {
	n := jsast.ParseExpressionTolerant("foo(bar.baz, ", jsast.Options{Base: 5})
	bad, ok := n.(*jsast.BadNode)
	require.True(t, ok)

	var names []string
	for _, id := range bad.Idents {
		names = append(names, id.Name)
	}
	assert.Equal(t, []string{"foo", "bar"}, names, "member names are not recovered")
	assert.Equal(t, 9, bad.Idents[1].Start)
}

func TestParseParams(t *testing.T) {
	params, err := jsast.ParseParams("{ id, name }, i", jsast.Options{Base: 20})
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, 20, params[0].Pos())
	assert.Equal(t, "i", params[1].(*jsast.Ident).Name)
	assert.Equal(t, 34, params[1].Pos())

	_, err = jsast.ParseParams("a +", jsast.Options{})
	require.Error(t, err)
}

func TestIsReserved(t *testing.T) {
	assert.True(t, jsast.IsReserved("this", false))
	assert.False(t, jsast.IsReserved("await", false))
	assert.True(t, jsast.IsReserved("await", true))
	assert.False(t, jsast.IsReserved("count", true))
}
