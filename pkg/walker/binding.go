package walker

import (
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/scope"
)

// Options select how a script or expression is analyzed.
type Options struct {
	// Module selects the module grammar reserved-word set.
	Module bool
	// Setup turns on declaration tracking at the top level and reports the
	// statements a setup region may not contain.
	Setup bool
	// Template adds the template globals to the ignored names.
	Template bool
}

// Result is the outcome of one binding walk.
type Result struct {
	Items []item.Item
	// IsAsync is set when an await appears anywhere in the walked region.
	IsAsync bool
}

// templateGlobals are reachable from template expressions without going
// through the component context.
var templateGlobals = map[string]bool{
	"Infinity": true, "undefined": true, "NaN": true, "isFinite": true, "isNaN": true,
	"parseFloat": true, "parseInt": true, "decodeURI": true, "decodeURIComponent": true,
	"encodeURI": true, "encodeURIComponent": true, "Math": true, "Number": true,
	"Date": true, "Array": true, "Object": true, "Boolean": true, "String": true,
	"RegExp": true, "Map": true, "Set": true, "JSON": true, "Intl": true,
	"BigInt": true, "console": true, "Error": true, "Symbol": true,
}

// IsTemplateGlobal reports whether name is one of the globals template
// expressions may reference directly.
func IsTemplateGlobal(name string) bool {
	return templateGlobals[name]
}

type bindingWalker struct {
	opts  Options
	items []item.Item
	async bool
}

type state struct {
	ctx   scope.Context
	track bool
	// inFunc is set inside any function body.
	inFunc bool
	stmt   jsast.Node
	decl   *jsast.VarDeclarator
}

// WalkProgram walks a parsed script region.
func WalkProgram(prog *jsast.Program, ctx scope.Context, opts Options) *Result {
	w := &bindingWalker{opts: opts}
	for _, stmt := range prog.Body {
		w.walk(stmt, state{ctx: ctx, track: opts.Setup, stmt: stmt})
	}
	return &Result{Items: w.items, IsAsync: w.async}
}

// WalkExpression walks a single expression, such as a template directive
// value. An expression without any identifier is reported as one static
// Binding that carries the raw text.
func WalkExpression(n jsast.Node, text string, ctx scope.Context, opts Options) *Result {
	w := &bindingWalker{opts: opts}
	if !hasIdent(n) {
		loc := position.NewSpan(n.Pos(), n.End())
		w.items = append(w.items, &item.Binding{
			Base:   item.NewBase(n, loc, ctx),
			Ignore: true,
			Static: true,
			Text:   text,
		})
	}
	w.walk(n, state{ctx: ctx})
	return &Result{Items: w.items, IsAsync: w.async}
}

func hasIdent(n jsast.Node) bool {
	found := false
	jsast.Inspect(n, func(c jsast.Node) bool {
		switch c := c.(type) {
		case *jsast.Ident:
			found = true
		case *jsast.BadNode:
			found = found || len(c.Idents) > 0
		}
		return !found
	})
	return found
}

func span(n jsast.Node) position.Span {
	return position.NewSpan(n.Pos(), n.End())
}

func (w *bindingWalker) emit(it item.Item) {
	w.items = append(w.items, it)
}

func (w *bindingWalker) ignored(name string, ctx scope.Context) bool {
	if jsast.IsReserved(name, w.opts.Module) || ctx.Ignores(name) {
		return true
	}
	return w.opts.Template && templateGlobals[name]
}

func (w *bindingWalker) binding(id *jsast.Ident, st state, shorthand bool) {
	w.emit(&item.Binding{
		Base:      item.NewBase(id, span(id), st.ctx),
		Name:      id.Name,
		Ignore:    w.ignored(id.Name, st.ctx),
		Shorthand: shorthand,
	})
}

func (w *bindingWalker) declare(id *jsast.Ident, kind string, init jsast.Node, st state) {
	if !st.track {
		return
	}
	w.emit(&item.Declaration{
		Base:     item.NewBase(id, span(id), st.ctx),
		Name:     id.Name,
		DeclKind: kind,
		Init:     init,
	})
}

func (w *bindingWalker) nested(st state) state {
	st.track = false
	st.decl = nil
	return st
}

func (w *bindingWalker) walkAll(nodes []jsast.Node, st state) {
	for _, n := range nodes {
		w.walk(n, st)
	}
}

func (w *bindingWalker) walk(n jsast.Node, st state) {
	if jsast.IsNil(n) {
		return
	}
	switch n := n.(type) {
	case *jsast.Ident:
		w.binding(n, st, false)

	case *jsast.Literal:
		w.emit(&item.Literal{Base: item.NewBase(n, span(n), st.ctx), Lit: n})

	case *jsast.MemberExpr:
		w.walk(n.Object, w.nested(st))
		if n.Computed {
			w.walk(n.Property, w.nested(st))
		}

	case *jsast.Property:
		inner := w.nested(st)
		if n.Computed {
			w.walk(n.Key, inner)
		}
		if n.Shorthand {
			if id, ok := n.Value.(*jsast.Ident); ok {
				w.binding(id, inner, true)
				return
			}
		}
		w.walk(n.Value, inner)

	case *jsast.CallExpr:
		call := &item.FunctionCall{
			Base:      item.NewBase(n, span(n), st.ctx),
			Name:      calleeName(n.Callee),
			Call:      n,
			TopLevel:  !st.inFunc,
			Statement: st.stmt,
		}
		if st.decl != nil && jsast.Unparen(st.decl.Init) == jsast.Node(n) {
			call.Declarator = st.decl
		}
		w.emit(call)
		inner := w.nested(st)
		w.walk(n.Callee, inner)
		w.walkAll(n.Args, inner)

	case *jsast.AwaitExpr:
		w.async = true
		w.emit(&item.Async{Base: item.NewBase(n, span(n), st.ctx)})
		w.walk(n.Arg, st)

	case *jsast.ForInStmt:
		if n.Await {
			w.async = true
			w.emit(&item.Async{Base: item.NewBase(n, span(n), st.ctx)})
		}
		inner := w.nested(st)
		body := inner
		if vd, ok := n.Left.(*jsast.VarDecl); ok {
			body.ctx = body.ctx.WithIgnored(declaredNames(vd)...)
			w.walkDeclInits(vd, body)
		} else {
			w.walk(n.Left, inner)
		}
		w.walk(n.Right, inner)
		w.walk(n.Body, body)

	case *jsast.ForStmt:
		inner := w.nested(st)
		if vd, ok := n.Init.(*jsast.VarDecl); ok {
			inner.ctx = inner.ctx.WithIgnored(declaredNames(vd)...)
			w.walkDeclInits(vd, inner)
		} else {
			w.walk(n.Init, inner)
		}
		w.walk(n.Test, inner)
		w.walk(n.Update, inner)
		w.walk(n.Body, inner)

	case *jsast.VarDecl:
		for _, d := range n.Decls {
			for _, id := range patternIdents(d.ID) {
				w.declare(id, n.Kind, d.Init, st)
			}
			w.walkPatternExprs(d.ID, w.nested(st))
			inner := st
			inner.decl = d
			w.walk(d.Init, inner)
		}

	case *jsast.Function:
		w.walkFunction(n, st)

	case *jsast.Class:
		if n.Decl && n.Name != nil {
			w.declare(n.Name, "class", n, st)
		}
		inner := w.nested(st)
		inner.inFunc = true
		w.walk(n.Super, inner)
		for _, m := range n.Members {
			cm, ok := m.(*jsast.ClassMember)
			if !ok {
				continue
			}
			if cm.Computed {
				w.walk(cm.Key, inner)
			}
			w.walk(cm.Value, inner)
		}

	case *jsast.ImportDecl:
		imp := &item.Import{Base: item.NewBase(n, span(n), st.ctx), Decl: n}
		for _, s := range n.Specifiers {
			if s.Local != nil {
				imp.Locals = append(imp.Locals, s.Local.Name)
			}
		}
		w.emit(imp)
		if n.TypeOnly {
			return
		}
		for _, s := range n.Specifiers {
			if s.Local != nil && !s.TypeOnly {
				w.declare(s.Local, "import", n, st)
			}
		}

	case *jsast.ExportNamed:
		exp := &item.Export{Base: item.NewBase(n, span(n), st.ctx)}
		if !jsast.IsNil(n.Decl) {
			exp.DeclLoc = span(n.Decl)
		}
		w.emit(exp)
		// local names in specifiers are export bindings, not references
		w.walk(n.Decl, st)

	case *jsast.ExportDefault:
		exp := &item.Export{Base: item.NewBase(n, span(n), st.ctx), Default: true}
		if !jsast.IsNil(n.Decl) {
			exp.DeclLoc = span(n.Decl)
		}
		w.emit(exp)
		if w.opts.Setup && !st.inFunc {
			w.emit(&item.Error{
				Base:    item.NewBase(n, span(n), st.ctx),
				Code:    item.CodeNoExportDefaultInSetup,
				Message: "a setup script cannot contain an export default",
			})
		}
		w.walk(n.Decl, st)

	case *jsast.ExportAll:
		w.emit(&item.Export{Base: item.NewBase(n, span(n), st.ctx)})

	case *jsast.TypeDecl:
		if n.Kind == "enum" && n.Name != nil {
			w.declare(n.Name, "enum", n, st)
		}

	case *jsast.ReturnStmt:
		if w.opts.Setup && !st.inFunc {
			w.emit(&item.Error{
				Base:    item.NewBase(n, span(n), st.ctx),
				Code:    item.CodeNoReturnInSetup,
				Message: "a setup script cannot return",
			})
		}
		w.walk(n.Arg, w.nested(st))

	case *jsast.TryStmt:
		inner := w.nested(st)
		if n.Block != nil {
			w.walk(n.Block, inner)
		}
		if n.Handler != nil {
			handler := inner
			if !jsast.IsNil(n.Param) {
				handler.ctx = handler.ctx.WithIgnored(names(patternIdents(n.Param))...)
				w.walkPatternExprs(n.Param, inner)
			}
			w.walk(n.Handler, handler)
		}
		if n.Finalizer != nil {
			w.walk(n.Finalizer, inner)
		}

	case *jsast.LabeledStmt:
		w.walk(n.Body, w.nested(st))

	case *jsast.JumpStmt:
		// labels are not bindings

	case *jsast.ExprStmt:
		w.walk(n.Expr, w.nested(st))

	case *jsast.ObjectPattern, *jsast.ArrayPattern, *jsast.AssignPattern, *jsast.RestElement:
		// assignment targets: every identifier in them is a reference
		w.walkAssignTarget(n, w.nested(st))

	case *jsast.BadNode:
		for _, id := range n.Idents {
			w.binding(id, st, false)
		}

	default:
		inner := w.nested(st)
		for _, c := range jsast.Children(n) {
			w.walk(c, inner)
		}
	}
}

func (w *bindingWalker) walkFunction(fn *jsast.Function, st state) {
	w.emit(&item.Function{
		Base: item.NewBase(fn, span(fn), st.ctx),
		Fn:   fn,
		Body: span(fn.Body),
	})
	if fn.Kind == jsast.FuncDecl && fn.Name != nil {
		w.declare(fn.Name, "function", fn, st)
	}
	var params []string
	if fn.Kind != jsast.FuncDecl && fn.Name != nil {
		params = append(params, fn.Name.Name)
	}
	for _, p := range fn.Params {
		params = append(params, names(patternIdents(p))...)
	}
	inner := w.nested(st)
	inner.inFunc = true
	inner.ctx = inner.ctx.WithIgnored(params...)
	for _, p := range fn.Params {
		w.walkPatternExprs(p, inner)
	}
	w.walk(fn.Body, inner)
}

func (w *bindingWalker) walkDeclInits(vd *jsast.VarDecl, st state) {
	for _, d := range vd.Decls {
		w.walkPatternExprs(d.ID, st)
		w.walk(d.Init, st)
	}
}

// walkPatternExprs visits the expressions embedded in a binding pattern:
// default values and computed keys. The bound names themselves are skipped.
func (w *bindingWalker) walkPatternExprs(n jsast.Node, st state) {
	if jsast.IsNil(n) {
		return
	}
	switch n := n.(type) {
	case *jsast.Param:
		w.walkPatternExprs(n.Pattern, st)
	case *jsast.AssignPattern:
		w.walkPatternExprs(n.Left, st)
		w.walk(n.Right, st)
	case *jsast.ObjectPattern:
		for _, p := range n.Props {
			switch p := p.(type) {
			case *jsast.Property:
				if p.Computed {
					w.walk(p.Key, st)
				}
				w.walkPatternExprs(p.Value, st)
			case *jsast.RestElement:
				w.walkPatternExprs(p.Arg, st)
			}
		}
	case *jsast.ArrayPattern:
		for _, e := range n.Elements {
			w.walkPatternExprs(e, st)
		}
	case *jsast.RestElement:
		w.walkPatternExprs(n.Arg, st)
	}
}

// walkAssignTarget handles destructuring assignment where the pattern
// identifiers refer to existing bindings.
func (w *bindingWalker) walkAssignTarget(n jsast.Node, st state) {
	if jsast.IsNil(n) {
		return
	}
	switch n := n.(type) {
	case *jsast.AssignPattern:
		w.walkAssignTarget(n.Left, st)
		w.walk(n.Right, st)
	case *jsast.ObjectPattern:
		for _, p := range n.Props {
			switch p := p.(type) {
			case *jsast.Property:
				if p.Computed {
					w.walk(p.Key, st)
				}
				if id, ok := p.Value.(*jsast.Ident); ok && p.Shorthand {
					w.binding(id, st, true)
					continue
				}
				w.walkAssignTarget(p.Value, st)
			case *jsast.RestElement:
				w.walkAssignTarget(p.Arg, st)
			}
		}
	case *jsast.ArrayPattern:
		for _, e := range n.Elements {
			w.walkAssignTarget(e, st)
		}
	case *jsast.RestElement:
		w.walkAssignTarget(n.Arg, st)
	default:
		w.walk(n, st)
	}
}

// patternIdents returns the identifiers bound by a declaration pattern.
func patternIdents(n jsast.Node) []*jsast.Ident {
	var out []*jsast.Ident
	var visit func(jsast.Node)
	visit = func(n jsast.Node) {
		if jsast.IsNil(n) {
			return
		}
		switch n := n.(type) {
		case *jsast.Ident:
			out = append(out, n)
		case *jsast.Param:
			visit(n.Pattern)
		case *jsast.AssignPattern:
			visit(n.Left)
		case *jsast.ObjectPattern:
			for _, p := range n.Props {
				switch p := p.(type) {
				case *jsast.Property:
					visit(p.Value)
				case *jsast.RestElement:
					visit(p.Arg)
				}
			}
		case *jsast.ArrayPattern:
			for _, e := range n.Elements {
				visit(e)
			}
		case *jsast.RestElement:
			visit(n.Arg)
		}
	}
	visit(n)
	return out
}

// PatternNames returns the names bound by each pattern, in order.
func PatternNames(patterns ...jsast.Node) []string {
	var out []string
	for _, p := range patterns {
		out = append(out, names(patternIdents(p))...)
	}
	return out
}

func declaredNames(vd *jsast.VarDecl) []string {
	var out []string
	for _, d := range vd.Decls {
		out = append(out, names(patternIdents(d.ID))...)
	}
	return out
}

func names(ids []*jsast.Ident) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Name)
	}
	return out
}

// calleeName returns the simple name of a callee: `f` for `f()` and the
// property name for `a.b.f()`.
func calleeName(callee jsast.Node) string {
	switch c := jsast.Unparen(callee).(type) {
	case *jsast.Ident:
		return c.Name
	case *jsast.MemberExpr:
		if id, ok := c.Property.(*jsast.Ident); ok && !c.Computed {
			return id.Name
		}
	}
	return ""
}
