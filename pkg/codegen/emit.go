package codegen

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/pipeline"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/scope"
)

// emitter writes text and moved ranges at one insertion point of a buffer.
// Right emitters add to the inserts attached to the byte at the point, left
// emitters to the ones attached to the byte before it.
type emitter struct {
	pc   *pipeline.PassContext
	b    *pipeline.Buffer
	at   int
	left bool
}

func rightOf(pc *pipeline.PassContext, r *pipeline.Region, at int) emitter {
	return emitter{pc: pc, b: r.Buffer, at: at}
}

func leftOf(pc *pipeline.PassContext, r *pipeline.Region, at int) emitter {
	return emitter{pc: pc, b: r.Buffer, at: at, left: true}
}

func (e emitter) text(s string) {
	if e.left {
		e.b.AppendLeft(e.at, s)
	} else {
		e.b.AppendRight(e.at, s)
	}
}

// move relocates span to the insertion point and keeps it from being
// stripped.
func (e emitter) move(span position.Span) {
	if span.Len() == 0 {
		return
	}
	e.pc.Keep.Add(span)
	if e.left {
		e.b.MoveLeft(span.Start, span.End, e.at)
	} else {
		e.b.Move(span.Start, span.End, e.at)
	}
}

// bindingPrefix is the text inserted before a template binding so that it
// resolves against the component context.
func bindingPrefix(pc *pipeline.PassContext, b *item.Binding) string {
	if b.Ignore || b.Static || pc.Declared.Has(b.Name) {
		return ""
	}
	ctx := pc.Name("ctx") + "."
	if b.Shorthand {
		return b.Name + ": " + ctx
	}
	return ctx
}

// exprText renders a copy of span with the same binding prefixes the buffer
// receives.
func exprText(pc *pipeline.PassContext, r *pipeline.Region, span position.Span) string {
	var bindings []*item.Binding
	for _, it := range r.Items {
		b, ok := it.(*item.Binding)
		if !ok || b.Synthetic || !span.Contains(b.Span()) {
			continue
		}
		bindings = append(bindings, b)
	}
	sort.SliceStable(bindings, func(i, j int) bool {
		return bindings[i].Span().Start < bindings[j].Span().Start
	})

	var sb strings.Builder
	cur := span.Start
	for _, b := range bindings {
		p := bindingPrefix(pc, b)
		start := b.Span().Start
		if p == "" || start < cur {
			continue
		}
		sb.WriteString(pc.Source[cur:start])
		sb.WriteString(p)
		cur = start
	}
	sb.WriteString(pc.Source[cur:span.End])
	return sb.String()
}

func siblingGuards(pc *pipeline.PassContext, r *pipeline.Region, ref *scope.ConditionRef) []string {
	var out []string
	for _, s := range ref.Siblings {
		if s.Kind == scope.Else {
			continue
		}
		out = append(out, "!("+exprText(pc, r, s.ExprLoc)+")")
	}
	return out
}

// guardText renders the full guard of a branch: its own expression followed
// by the negation of every earlier branch.
func guardText(pc *pipeline.PassContext, r *pipeline.Region, ref *scope.ConditionRef) string {
	parts := siblingGuards(pc, r, ref)
	if ref.Kind != scope.Else {
		parts = append([]string{"(" + exprText(pc, r, ref.ExprLoc) + ")"}, parts...)
	}
	if len(parts) == 0 {
		return "true"
	}
	return strings.Join(parts, " && ")
}

// writeGuard emits the guard of a branch, moving its own expression.
func writeGuard(e emitter, r *pipeline.Region, ref *scope.ConditionRef) {
	siblings := siblingGuards(e.pc, r, ref)
	if ref.Kind == scope.Else {
		if len(siblings) == 0 {
			e.text("true")
			return
		}
		e.text(strings.Join(siblings, " && "))
		return
	}
	e.text("(")
	e.move(ref.ExprLoc)
	e.text(")")
	if len(siblings) > 0 {
		e.text(" && " + strings.Join(siblings, " && "))
	}
}

// reassert repeats the active conditions at the top of a callback, where the
// enclosing narrowing no longer applies.
func reassert(e emitter, r *pipeline.Region, conds []*scope.ConditionRef, skip *markup.Element) {
	for _, c := range conds {
		if skip != nil && c.Element == skip {
			continue
		}
		e.text("if (!(" + guardText(e.pc, r, c) + ")) return;\n")
	}
}

// reference resolves a name used by the template, such as a component or a
// custom directive, against the setup declarations.
func reference(pc *pipeline.PassContext, name string) string {
	root := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		root = name[:i]
	}
	if pc.Declared.Has(root) {
		return name
	}
	return pc.Name("ctx") + "." + name
}

func jsString(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(out)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// propKey renders an object literal key.
func propKey(s string) string {
	if isIdentifier(s) {
		return s
	}
	return jsString(s)
}

// stringArg returns the value of a string literal argument.
func stringArg(call *jsast.CallExpr, i int) (string, bool) {
	if i >= len(call.Args) {
		return "", false
	}
	lit, ok := jsast.Unparen(call.Args[i]).(*jsast.Literal)
	if !ok || lit.Kind != jsast.LitString {
		return "", false
	}
	return lit.Value, true
}

func spanOf(n jsast.Node) position.Span {
	return position.NewSpan(n.Pos(), n.End())
}
