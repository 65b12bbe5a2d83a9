package walker

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/pipeline"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/scope"
)

// TemplateOptions configure a template walk.
type TemplateOptions struct {
	// TypeScript parses expressions with type syntax enabled.
	TypeScript bool
	// Module selects the module reserved-word set for template bindings.
	Module bool
}

var forAliasRE = regexp.MustCompile(`^\s*([\s\S]*?)\s+(?:in|of)\s+(\S[\s\S]*?)\s*$`)

type templateWalker struct {
	ctx   context.Context
	opts  TemplateOptions
	items []item.Item
}

// WalkTemplate flattens a parsed template into items. Every element yields
// its structural items first (condition, loop, element or slot declaration,
// then props and directives, then slot render), followed by its children.
func WalkTemplate(ctx context.Context, root *markup.Root, sc scope.Context, opts TemplateOptions) []item.Item {
	w := &templateWalker{ctx: ctx, opts: opts}
	for _, perr := range root.Errors {
		w.emit(&item.Error{
			Base:    item.NewBase(perr, perr.Loc, sc),
			Code:    item.CodeTemplateSyntax,
			Message: perr.Msg,
		})
	}
	w.walkChildren(root.Children, sc, nil)
	return w.items
}

func (w *templateWalker) emit(it item.Item) {
	w.items = append(w.items, it)
}

func (w *templateWalker) exprOptions(base int) jsast.Options {
	return jsast.Options{Base: base, TypeScript: w.opts.TypeScript, Module: w.opts.Module}
}

func (w *templateWalker) bindingOptions() Options {
	return Options{Module: w.opts.Module, Template: true}
}

// parse parses an expression with the tolerant fallback and reports a
// parser-fallback warning when the strict parse failed.
func (w *templateWalker) parse(text string, loc position.Span, sc scope.Context) jsast.Node {
	opts := w.exprOptions(loc.Start)
	res := pipeline.Fallback(
		func() (jsast.Node, error) { return jsast.ParseExpression(text, opts) },
		func() jsast.Node { return jsast.ParseExpressionTolerant(text, opts) },
	)
	if res.Degraded {
		w.fallback(res.Err, loc, sc)
	}
	return res.Node
}

func (w *templateWalker) fallback(err error, loc position.Span, sc scope.Context) {
	zerolog.Ctx(w.ctx).Debug().Err(err).Int("start", loc.Start).Msg("template expression fell back to tolerant parse")
	w.emit(&item.Warning{
		Base:    item.NewBase(nil, loc, sc),
		Code:    item.CodeParserFallback,
		Message: err.Error(),
	})
}

func (w *templateWalker) bindings(n jsast.Node, text string, sc scope.Context) {
	res := WalkExpression(n, text, sc, w.bindingOptions())
	w.items = append(w.items, res.Items...)
}

func (w *templateWalker) walkChildren(children []markup.Node, sc scope.Context, parent *markup.Element) {
	var chain []*scope.ConditionRef
	for _, child := range children {
		switch c := child.(type) {
		case *markup.Comment:
		case *markup.Text:
			if strings.TrimSpace(c.Value) != "" {
				chain = nil
			}
		case *markup.Interpolation:
			chain = nil
			w.interpolation(c, sc)
		case *markup.Element:
			chain = w.element(c, sc, chain, parent)
		}
	}
}

func (w *templateWalker) interpolation(in *markup.Interpolation, sc scope.Context) {
	if strings.TrimSpace(in.Expr) == "" {
		return
	}
	expr := w.parse(in.Expr, in.Content, sc)
	w.emit(&item.Interpolation{Base: item.NewBase(in, in.Content, sc), Interp: in, Expr: expr})
	w.bindings(expr, in.Expr, sc)
}

func (w *templateWalker) missingExpression(dir *markup.Directive, sc scope.Context) {
	w.emit(&item.Error{
		Base:    item.NewBase(dir, dir.Attr.Loc, sc),
		Code:    item.CodeInvalidExpression,
		Message: "v-" + dir.Name + " requires an expression",
	})
}

// condition handles v-if, v-else-if and v-else. It returns the chain the
// next sibling continues and the context for the element itself.
func (w *templateWalker) condition(el *markup.Element, sc scope.Context, chain []*scope.ConditionRef) ([]*scope.ConditionRef, scope.Context) {
	var dir *markup.Directive
	kind := scope.If
	for _, k := range []struct {
		name string
		kind scope.ConditionKind
	}{{"if", scope.If}, {"else-if", scope.ElseIf}, {"else", scope.Else}} {
		if d := el.Directive(k.name); d != nil {
			dir, kind = d, k.kind
			break
		}
	}
	if dir == nil {
		return nil, sc
	}
	if kind != scope.If && len(chain) == 0 {
		w.emit(&item.Error{
			Base:    item.NewBase(dir, dir.Attr.Loc, sc),
			Code:    item.CodeElseWithoutIf,
			Message: "v-" + dir.Name + " has no adjacent v-if or v-else-if",
		})
		if kind == scope.Else {
			return nil, sc
		}
		kind = scope.If
	}
	if kind != scope.Else && !dir.HasExp {
		w.missingExpression(dir, sc)
		return nil, sc
	}

	var expr jsast.Node
	if kind != scope.Else {
		expr = w.parse(dir.Exp, dir.ExpLoc, sc)
	}
	var prior []*scope.ConditionRef
	if kind != scope.If {
		prior = chain
	}
	ref := scope.NewConditionRef(kind, expr, dir.ExpLoc, el, prior)
	w.emit(&item.Condition{Base: item.NewBase(el, el.Span(), sc), Ref: ref})
	if expr != nil {
		w.bindings(expr, dir.Exp, sc)
	}

	next := append(prior[:len(prior):len(prior)], ref)
	if kind == scope.Else {
		next = nil
	}
	return next, sc.WithCondition(ref)
}

func (w *templateWalker) loop(el *markup.Element, sc scope.Context) scope.Context {
	dir := el.Directive("for")
	if dir == nil {
		return sc
	}
	if !dir.HasExp {
		w.missingExpression(dir, sc)
		return sc
	}
	m := forAliasRE.FindStringSubmatchIndex(dir.Exp)
	if m == nil {
		w.invalidFor(dir, sc, "expected `alias in source`")
		return sc
	}
	base := dir.ExpLoc.Start
	aliasStart, aliasEnd := m[2], m[3]
	alias := strings.TrimSpace(dir.Exp[aliasStart:aliasEnd])
	aliasStart += strings.Index(dir.Exp[aliasStart:aliasEnd], alias)
	aliasEnd = aliasStart + len(alias)
	if strings.HasPrefix(alias, "(") && strings.HasSuffix(alias, ")") {
		aliasStart++
		aliasEnd--
		alias = alias[1 : len(alias)-1]
	}
	aliasLoc := position.NewSpan(base+aliasStart, base+aliasEnd)
	sourceLoc := position.NewSpan(base+m[4], base+m[5])
	sourceText := dir.Exp[m[4]:m[5]]

	aliases, err := jsast.ParseParams(alias, w.exprOptions(aliasLoc.Start))
	if err != nil {
		w.invalidFor(dir, sc, err.Error())
		return sc
	}
	source := w.parse(sourceText, sourceLoc, sc)
	loopNames := PatternNames(aliases...)
	w.emit(&item.Loop{
		Base:      item.NewBase(el, el.Span(), sc),
		Element:   el,
		Dir:       dir,
		Source:    source,
		SourceLoc: sourceLoc,
		AliasLoc:  aliasLoc,
		Aliases:   aliases,
		Names:     loopNames,
	})
	w.bindings(source, sourceText, sc)

	inner := sc.WithIgnored(loopNames...).WithLoop()
	for _, a := range aliases {
		res := &bindingWalker{opts: w.bindingOptions()}
		res.walkPatternExprs(a, state{ctx: inner})
		w.items = append(w.items, res.items...)
	}
	return inner
}

func (w *templateWalker) invalidFor(dir *markup.Directive, sc scope.Context, msg string) {
	w.emit(&item.Error{
		Base:    item.NewBase(dir, dir.Attr.Loc, sc),
		Code:    item.CodeInvalidFor,
		Message: "invalid v-for expression: " + msg,
	})
}

func (w *templateWalker) element(el *markup.Element, sc scope.Context, chain []*scope.ConditionRef, parent *markup.Element) []*scope.ConditionRef {
	if el.Directive("pre") != nil {
		w.emit(&item.Element{Base: item.NewBase(el, el.Span(), sc), Element: el, Name: el.Tag})
		return nil
	}

	next, inner := w.condition(el, sc, chain)
	inner = w.loop(el, inner)

	switch el.Kind {
	case markup.KindTemplate:
	case markup.KindSlot:
		w.slotDeclaration(el, inner)
	default:
		name := el.Tag
		if el.Kind == markup.KindComponent {
			name = markup.ComponentName(el.Tag)
		}
		w.emit(&item.Element{
			Base:      item.NewBase(el, el.Span(), inner),
			Element:   el,
			Component: el.Kind == markup.KindComponent,
			Name:      name,
		})
	}

	for _, attr := range el.Attrs {
		w.attribute(el, attr, inner)
	}

	childScope := w.slotRender(el, parent, inner)
	w.walkChildren(el.Children, childScope, el)
	return next
}

func structural(name string) bool {
	switch name {
	case "if", "else-if", "else", "for", "slot", "pre":
		return true
	}
	return false
}

func (w *templateWalker) attribute(el *markup.Element, attr *markup.Attribute, sc scope.Context) {
	dir := attr.Dir
	if dir == nil {
		if el.Kind == markup.KindTemplate || (el.Kind == markup.KindSlot && attr.Name == "name") {
			return
		}
		w.emit(&item.Prop{Base: item.NewBase(attr, attr.Loc, sc), Element: el, Attr: attr})
		return
	}
	if structural(dir.Name) {
		return
	}
	if el.Kind == markup.KindSlot && dir.Name == "bind" && dir.Arg == "name" && !dir.Dynamic {
		return
	}

	switch dir.Name {
	case "bind", "on", "model":
		w.prop(el, attr, sc)
	default:
		d := &item.Directive{Base: item.NewBase(dir, attr.Loc, sc), Element: el, Dir: dir}
		if dir.HasExp {
			d.Expr = w.parse(dir.Exp, dir.ExpLoc, sc)
		}
		w.emit(d)
		w.dynamicArg(dir, sc)
		if d.Expr != nil {
			w.bindings(d.Expr, dir.Exp, sc)
		}
	}
}

func (w *templateWalker) dynamicArg(dir *markup.Directive, sc scope.Context) jsast.Node {
	if !dir.Dynamic {
		return nil
	}
	arg := w.parse(dir.Arg, dir.ArgLoc, sc)
	w.bindings(arg, dir.Arg, sc)
	return arg
}

func (w *templateWalker) prop(el *markup.Element, attr *markup.Attribute, sc scope.Context) {
	dir := attr.Dir
	p := &item.Prop{Base: item.NewBase(attr, attr.Loc, sc), Element: el, Attr: attr, Dir: dir}
	if dir.Name == "model" && !dir.HasExp {
		w.missingExpression(dir, sc)
		return
	}
	if dir.Name == "on" {
		sc = sc.WithIgnored("$event")
		p.Base = item.NewBase(attr, attr.Loc, sc)
	}
	w.emit(p)
	if dir.Dynamic {
		p.ArgExpr = w.dynamicArg(dir, sc)
	}

	switch {
	case !dir.HasExp && dir.Name == "bind" && dir.Arg != "" && !dir.Dynamic:
		// same-name shorthand: `:foo` binds `foo`
		name := markup.Camelize(dir.Arg)
		w.emit(&item.Binding{
			Base:      item.NewBase(dir, dir.ArgLoc, sc),
			Name:      name,
			Ignore:    jsast.IsReserved(name, w.opts.Module) || sc.Ignores(name) || templateGlobals[name],
			Synthetic: true,
		})
	case !dir.HasExp:
	case dir.Name == "on":
		w.handler(p, sc)
	default:
		p.Expr = w.parse(dir.Exp, dir.ExpLoc, sc)
		w.bindings(p.Expr, dir.Exp, sc)
	}
}

// handler classifies an event handler value: a callable path or function is
// used as is, anything else is wrapped in a `$event` arrow.
func (w *templateWalker) handler(p *item.Prop, sc scope.Context) {
	dir := p.Dir
	opts := w.exprOptions(dir.ExpLoc.Start)
	if expr, err := jsast.ParseExpression(dir.Exp, opts); err == nil {
		p.Expr = expr
		switch jsast.Unparen(expr).(type) {
		case *jsast.Function:
			p.Handler = item.HandlerFunction
		case *jsast.Ident, *jsast.MemberExpr:
			p.Handler = item.HandlerPath
		default:
			p.Handler = item.HandlerExpression
		}
		w.bindings(expr, dir.Exp, sc)
		return
	}
	if prog, err := jsast.ParseProgram(dir.Exp, opts); err == nil {
		p.Expr = prog
		p.Handler = item.HandlerStatements
		res := WalkProgram(prog, sc, w.bindingOptions())
		w.items = append(w.items, res.Items...)
		return
	}
	p.Expr = w.parse(dir.Exp, dir.ExpLoc, sc)
	p.Handler = item.HandlerExpression
	w.bindings(p.Expr, dir.Exp, sc)
}

func (w *templateWalker) slotDeclaration(el *markup.Element, sc scope.Context) {
	decl := &item.SlotDeclaration{Base: item.NewBase(el, el.Span(), sc), Element: el, Name: "default"}
	if a := el.Attr("name"); a != nil && a.HasValue {
		decl.Name = a.Value
		decl.NameLoc = a.ValueLoc
	}
	var nameExpr jsast.Node
	for _, a := range el.Attrs {
		if d := a.Dir; d != nil && d.Name == "bind" && d.Arg == "name" && !d.Dynamic && d.HasExp {
			decl.Name = d.Exp
			decl.NameLoc = d.ExpLoc
			decl.Dynamic = true
			nameExpr = w.parse(d.Exp, d.ExpLoc, sc)
		}
	}
	w.emit(decl)
	if nameExpr != nil {
		w.bindings(nameExpr, decl.Name, sc)
	}
}

// hasDefaultContent reports whether a component has children that belong to
// its implicit default slot.
func hasDefaultContent(el *markup.Element) bool {
	for _, c := range el.Children {
		switch c := c.(type) {
		case *markup.Text:
			if strings.TrimSpace(c.Value) != "" {
				return true
			}
		case *markup.Interpolation:
			return true
		case *markup.Element:
			if c.Kind == markup.KindTemplate && c.Directive("slot") != nil {
				continue
			}
			return true
		}
	}
	return false
}

func hasExplicitDefault(el *markup.Element) bool {
	for _, c := range el.Children {
		if t, ok := c.(*markup.Element); ok && t.Kind == markup.KindTemplate {
			if d := t.Directive("slot"); d != nil && (d.Arg == "" || d.Arg == "default") && !d.Dynamic {
				return true
			}
		}
	}
	return false
}

// slotRender emits the slot render item an element carries, if any, and
// returns the context for its children.
func (w *templateWalker) slotRender(el *markup.Element, parent *markup.Element, sc scope.Context) scope.Context {
	dir := el.Directive("slot")
	render := &item.SlotRender{Base: item.NewBase(el, el.Span(), sc), Element: el, Dir: dir, Name: "default"}

	switch {
	case dir != nil && el.Kind == markup.KindComponent:
		render.Component = el
	case dir != nil && el.Kind == markup.KindTemplate:
		if parent == nil || parent.Kind != markup.KindComponent {
			w.emit(&item.Error{
				Base:    item.NewBase(dir, dir.Attr.Loc, sc),
				Code:    item.CodeSlotOutsideComponent,
				Message: "<template v-slot> must be a direct child of a component",
			})
			return sc
		}
		render.Component = parent
	case dir != nil:
		w.emit(&item.Error{
			Base:    item.NewBase(dir, dir.Attr.Loc, sc),
			Code:    item.CodeSlotOutsideComponent,
			Message: "v-slot can only be used on components or <template>",
		})
		return sc
	case el.Kind == markup.KindComponent && hasDefaultContent(el) && !hasExplicitDefault(el):
		render.Component = el
	default:
		return sc
	}

	if dir != nil && dir.Arg != "" {
		render.Name = dir.Arg
		render.NameLoc = dir.ArgLoc
		render.Dynamic = dir.Dynamic
	}
	var argExpr jsast.Node
	if render.Dynamic {
		argExpr = w.parse(dir.Arg, dir.ArgLoc, sc)
	}
	if dir != nil && dir.HasExp {
		params, err := jsast.ParseParams(dir.Exp, w.exprOptions(dir.ExpLoc.Start))
		if err != nil {
			w.fallback(err, dir.ExpLoc, sc)
		} else {
			render.Params = params
			render.ParamsLoc = dir.ExpLoc
			render.Names = PatternNames(params...)
		}
	}
	w.emit(render)
	if argExpr != nil {
		w.bindings(argExpr, dir.Arg, sc)
	}
	inner := sc.WithIgnored(render.Names...).WithSlot()
	for _, p := range render.Params {
		res := &bindingWalker{opts: w.bindingOptions()}
		res.walkPatternExprs(p, state{ctx: inner})
		w.items = append(w.items, res.items...)
	}
	return inner
}
