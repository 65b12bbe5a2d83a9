// Package item defines the flat, ordered records produced by the binding and
// template walkers and consumed by the pipeline plugins.
package item

import (
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/scope"
)

type Kind uint8

const (
	KindBinding Kind = iota
	KindDeclaration
	KindImport
	KindFunctionCall
	KindFunction
	KindAsync
	KindExport
	KindLiteral
	KindCondition
	KindLoop
	KindSlotDeclaration
	KindSlotRender
	KindProp
	KindDirective
	KindElement
	KindInterpolation
	KindWarning
	KindError
	kindCount
)

var kindNames = [...]string{
	KindBinding:         "binding",
	KindDeclaration:     "declaration",
	KindImport:          "import",
	KindFunctionCall:    "function-call",
	KindFunction:        "function",
	KindAsync:           "async",
	KindExport:          "export",
	KindLiteral:         "literal",
	KindCondition:       "condition",
	KindLoop:            "loop",
	KindSlotDeclaration: "slot-declaration",
	KindSlotRender:      "slot-render",
	KindProp:            "prop",
	KindDirective:       "directive",
	KindElement:         "element",
	KindInterpolation:   "interpolation",
	KindWarning:         "warning",
	KindError:           "error",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Item is one record. Start and End are absolute offsets into the source
// unit.
type Item interface {
	Kind() Kind
	Node() any
	Span() position.Span
	Scope() scope.Context
}

// Base carries the fields shared by every kind.
type Base struct {
	N   any
	Loc position.Span
	Ctx scope.Context
}

func (b Base) Node() any            { return b.N }
func (b Base) Span() position.Span  { return b.Loc }
func (b Base) Scope() scope.Context { return b.Ctx }
func NewBase(n any, loc position.Span, ctx scope.Context) Base {
	return Base{N: n, Loc: loc, Ctx: ctx}
}

// Binding is an identifier reference.
type Binding struct {
	Base
	Name   string
	Ignore bool
	// Shorthand is set for `{ name }` object properties.
	Shorthand bool
	// Static marks a whole expression without identifiers reported as raw
	// text.
	Static bool
	Text   string
	// Synthetic bindings have no source text of their own, such as the
	// value of a same-name `:prop` shorthand.
	Synthetic bool
}

// Declaration is a name introduced at the top level of a setup region.
type Declaration struct {
	Base
	Name string
	// DeclKind is const, let, var, function, class or import.
	DeclKind string
	Init     jsast.Node
}

type Import struct {
	Base
	Decl   *jsast.ImportDecl
	Locals []string
}

// FunctionCall is a call whose callee has a simple name.
type FunctionCall struct {
	Base
	Name string
	Call *jsast.CallExpr
	// Declarator is set when the call is the whole initializer of a top-level
	// variable declarator.
	Declarator *jsast.VarDeclarator
	// Statement is the top-level statement containing the call, when any.
	Statement jsast.Node
	TopLevel  bool
}

type Function struct {
	Base
	Fn   *jsast.Function
	Body position.Span
}

type Async struct {
	Base
}

type Export struct {
	Base
	Default bool
	// DeclLoc is the span of the exported declaration or expression.
	DeclLoc position.Span
}

type Literal struct {
	Base
	Lit *jsast.Literal
}

type Condition struct {
	Base
	Ref *scope.ConditionRef
}

type Loop struct {
	Base
	Element *markup.Element
	Dir     *markup.Directive
	Source  jsast.Node
	// SourceLoc and AliasLoc cover the iterable expression and the alias list
	// without parentheses.
	SourceLoc position.Span
	AliasLoc  position.Span
	Aliases   []jsast.Node
	Names     []string
}

type SlotDeclaration struct {
	Base
	Element *markup.Element
	Name    string
	// NameLoc covers the dynamic name expression when Dynamic is set.
	NameLoc position.Span
	Dynamic bool
}

type SlotRender struct {
	Base
	// Element carries the slot directive, or is the component itself for an
	// implicit default slot.
	Element   *markup.Element
	Component *markup.Element
	Dir       *markup.Directive
	Name      string
	NameLoc   position.Span
	Dynamic   bool
	ParamsLoc position.Span
	Params    []jsast.Node
	Names     []string
}

type HandlerForm uint8

const (
	HandlerNone HandlerForm = iota
	HandlerPath
	HandlerFunction
	HandlerExpression
	HandlerStatements
)

type Prop struct {
	Base
	Element *markup.Element
	Attr    *markup.Attribute
	// Dir is nil for static attributes.
	Dir     *markup.Directive
	Handler HandlerForm
	Expr    jsast.Node
	// ArgExpr is the parsed argument of a dynamic `:[arg]` or `@[arg]`.
	ArgExpr jsast.Node
}

type Directive struct {
	Base
	Element *markup.Element
	Dir     *markup.Directive
	Expr    jsast.Node
}

type Element struct {
	Base
	Element   *markup.Element
	Component bool
	Name      string
}

type Interpolation struct {
	Base
	Interp *markup.Interpolation
	Expr   jsast.Node
}

type Warning struct {
	Base
	Code    string
	Message string
}

type Error struct {
	Base
	Code    string
	Message string
}

func (*Binding) Kind() Kind         { return KindBinding }
func (*Declaration) Kind() Kind     { return KindDeclaration }
func (*Import) Kind() Kind          { return KindImport }
func (*FunctionCall) Kind() Kind    { return KindFunctionCall }
func (*Function) Kind() Kind        { return KindFunction }
func (*Async) Kind() Kind           { return KindAsync }
func (*Export) Kind() Kind          { return KindExport }
func (*Literal) Kind() Kind         { return KindLiteral }
func (*Condition) Kind() Kind       { return KindCondition }
func (*Loop) Kind() Kind            { return KindLoop }
func (*SlotDeclaration) Kind() Kind { return KindSlotDeclaration }
func (*SlotRender) Kind() Kind      { return KindSlotRender }
func (*Prop) Kind() Kind            { return KindProp }
func (*Directive) Kind() Kind       { return KindDirective }
func (*Element) Kind() Kind         { return KindElement }
func (*Interpolation) Kind() Kind   { return KindInterpolation }
func (*Warning) Kind() Kind         { return KindWarning }
func (*Error) Kind() Kind           { return KindError }

// Diagnostic codes carried by Warning and Error items.
const (
	CodeNoReturnInSetup         = "no-return-in-setup"
	CodeNoExportDefaultInSetup  = "no-export-default-in-setup"
	CodeInvalidExpression       = "invalid-directive-expression"
	CodeInvalidFor              = "invalid-v-for"
	CodeElseWithoutIf           = "v-else-without-if"
	CodeDuplicateMacro          = "duplicate-macro"
	CodeWithDefaultsWithoutProp = "with-defaults-without-props"
	CodeParserFallback          = "parser-fallback"
	CodeTemplateSyntax          = "template-syntax"
	CodeSlotOutsideComponent    = "slot-outside-component"
	CodeUnsupportedLang         = "unsupported-lang"
	CodeInternal                = "internal-error"
)

// Filter returns the items of kind k, keeping their order.
func Filter[T Item](items []Item) []T {
	var out []T
	for _, it := range items {
		if t, ok := it.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
