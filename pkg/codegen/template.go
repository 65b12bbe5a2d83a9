package codegen

import (
	"sort"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/pipeline"
	"github.com/walteh/vtsc/pkg/position"
)

// condition wraps an element in an if block. When the element also opens a
// callback, the guard is handed to the callback instead, which then owns
// the narrowing.
func (g *Generator) condition(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	ref := it.(*item.Condition).Ref
	el := ref.Element
	ro := g.rolesOf(r)
	if ro.loops[el] || ro.slots[el] {
		pc.PendingWrap.Register(el, ref)
		return nil
	}
	if !pc.BlockWrapped.CheckAndSet(el) {
		return nil
	}
	e := rightOf(pc, r, el.Open.Start)
	e.text("if (")
	writeGuard(e, r, ref)
	e.text(") {\n")
	pc.Close(el.Span().End, "}\n")
	return nil
}

func loop(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	l := it.(*item.Loop)
	el := l.Element
	e := rightOf(pc, r, el.Open.Start)
	e.text(pc.Helper("renderList") + "(")
	e.move(l.SourceLoc)
	e.text(", (")
	e.move(l.AliasLoc)
	e.text(") => {\n")
	reassert(e, r, l.Scope().Conditions, el)
	if ref, ok := pc.PendingWrap.Claim(el); ok && pc.BlockWrapped.CheckAndSet(el) {
		e.text("if (!(")
		writeGuard(e, r, ref)
		e.text(")) return;\n")
	}
	pc.Close(el.Span().End, "});\n")
	return nil
}

func element(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	x := it.(*item.Element)
	el := x.Element
	e := rightOf(pc, r, el.Open.Start)
	if x.Component {
		id := pc.NextID("c")
		pc.Components[el] = id
		e.text("const " + id + " = " + pc.Helper("component") + "(" + reference(pc, x.Name) + el.TagName.Marker() + ", { ")
	} else {
		e.text(pc.Helper("element") + "(" + jsString(x.Name) + ", { ")
	}
	leftOf(pc, r, el.Open.End).text("});\n")
	return nil
}

func prop(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	p := it.(*item.Prop)
	el := p.Element
	e := rightOf(pc, r, el.Open.Start)
	d := p.Dir

	if el.Kind == markup.KindTemplate {
		// no props object to write into
		if d != nil && d.Dynamic {
			statement(e, d.ArgLoc)
		}
		if d != nil && d.HasExp {
			statement(e, d.ExpLoc)
		}
		return nil
	}

	if d == nil {
		value := "true"
		if p.Attr.HasValue {
			value = jsString(p.Attr.Value)
		}
		e.text(propKey(p.Attr.Name) + ": " + value + ", ")
		return nil
	}

	switch d.Name {
	case "bind":
		bindProp(e, r, p)
	case "on":
		onProp(e, p)
	case "model":
		modelProp(e, r, p)
	}
	return nil
}

func statement(e emitter, span position.Span) {
	if span.Len() == 0 {
		return
	}
	e.text("(")
	e.move(span)
	e.text(");\n")
}

func bindProp(e emitter, r *pipeline.Region, p *item.Prop) {
	d := p.Dir
	switch {
	case d.Arg == "":
		if d.HasExp {
			e.text("...(")
			e.move(d.ExpLoc)
			e.text("), ")
		}
		return
	case d.Dynamic:
		e.text("[")
		e.move(d.ArgLoc)
		e.text("]: ")
	default:
		key := d.Arg
		if d.HasModifier("camel") || p.Element.Kind == markup.KindComponent {
			key = markup.Camelize(key)
		}
		e.text(propKey(key) + ": ")
	}
	switch {
	case d.HasExp:
		e.text("(")
		e.move(d.ExpLoc)
		e.text(")")
	case d.Dynamic:
		e.text("undefined")
	default:
		e.text(shorthandValue(e.pc, r, d.ArgLoc, markup.Camelize(d.Arg)))
	}
	e.text(", ")
}

// shorthandValue renders the value of a same-name `:prop` shorthand, which
// has no source text to prefix.
func shorthandValue(pc *pipeline.PassContext, r *pipeline.Region, loc position.Span, name string) string {
	for _, it := range r.Items {
		if b, ok := it.(*item.Binding); ok && b.Synthetic && b.Span() == loc {
			return bindingPrefix(pc, b) + b.Name
		}
	}
	return name
}

func eventKey(arg string, mods []string) string {
	key := "on" + markup.Capitalize(markup.Camelize(arg))
	for _, m := range mods {
		switch m {
		case "capture", "once", "passive":
			key += markup.Capitalize(m)
		}
	}
	return propKey(key)
}

func onProp(e emitter, p *item.Prop) {
	d := p.Dir
	switch {
	case d.Arg == "":
		if d.HasExp {
			e.text("...(")
			e.move(d.ExpLoc)
			e.text("), ")
		}
		return
	case d.Dynamic:
		e.text("[\"on\" + (")
		e.move(d.ArgLoc)
		e.text(")]: ")
	default:
		e.text(eventKey(d.Arg, d.Modifiers) + ": ")
	}
	if !d.HasExp {
		e.text("() => {}, ")
		return
	}
	switch p.Handler {
	case item.HandlerStatements:
		e.text("($event: any) => {")
		e.move(d.ExpLoc)
		e.text("}")
	case item.HandlerExpression:
		e.text("($event: any) => (")
		e.move(d.ExpLoc)
		e.text(")")
	default:
		e.text("(")
		e.move(d.ExpLoc)
		e.text(")")
	}
	e.text(", ")
}

func modelProp(e emitter, r *pipeline.Region, p *item.Prop) {
	d := p.Dir
	el := p.Element
	value, event, target := "value", "onInput", "$event.target.value"
	switch {
	case el.Kind == markup.KindComponent:
		value = "modelValue"
		if d.Arg != "" {
			value = markup.Camelize(d.Arg)
		}
		event, target = "onUpdate:"+value, "$event"
	case el.Tag == "select":
		event = "onChange"
	case el.Tag == "input":
		if t := el.Attr("type"); t != nil && (t.Value == "checkbox" || t.Value == "radio") {
			value, event, target = "checked", "onChange", "$event.target.checked"
		}
	}
	e.text(propKey(value) + ": (")
	e.move(d.ExpLoc)
	e.text("), " + propKey(event) + ": ($event: any) => ((" + exprText(e.pc, r, d.ExpLoc) + ") = " + target + "), ")
}

func directive(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	x := it.(*item.Directive)
	d := x.Dir
	e := leftOf(pc, r, x.Element.Open.End)
	switch d.Name {
	case "once", "cloak", "is":
		return nil
	case "show", "html", "text", "memo":
		if d.HasExp {
			statement(e, d.ExpLoc)
		}
		return nil
	}

	e.text(pc.Helper("directive") + "(" + reference(pc, "v"+markup.Capitalize(markup.Camelize(d.Name))) + ", { ")
	if d.HasExp {
		e.text("value: (")
		e.move(d.ExpLoc)
		e.text("), ")
	}
	switch {
	case d.Dynamic:
		e.text("arg: (")
		e.move(d.ArgLoc)
		e.text("), ")
	case d.Arg != "":
		e.text("arg: " + jsString(d.Arg) + ", ")
	}
	e.text("modifiers: {")
	for _, m := range d.Modifiers {
		e.text(" " + propKey(m) + ": true,")
	}
	e.text(" } });\n")
	return nil
}

// slotDeclaration collects the props of a <slot> into a variable whose type
// becomes the slot's props type.
func slotDeclaration(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	s := it.(*item.SlotDeclaration)
	el := s.Element
	v := pc.NextID("slot")
	rightOf(pc, r, el.Open.Start).text("var " + v + " = { ")

	e := leftOf(pc, r, el.Open.End)
	e.text("};\n")
	_, typed := pc.Contribution(ContribSlots)
	slots := pc.Name("slots")
	switch {
	case s.Dynamic && typed:
		e.text(slots + "[(")
		e.move(s.NameLoc)
		e.text(")]?.(" + v + ");\n")
	case s.Dynamic:
		statement(e, s.NameLoc)
	case typed:
		e.text(slots + "[" + jsString(s.Name) + "]?.(" + v + ");\n")
	}

	info := pipeline.SlotInfo{Name: s.Name, Dynamic: s.Dynamic}
	if sc := s.Scope(); !sc.InLoop && !sc.InSlot {
		info.Var = v
	}
	pc.Slots = append(pc.Slots, info)
	return nil
}

func slotRender(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	s := it.(*item.SlotRender)
	el := s.Element
	comp, ok := pc.Components[s.Component]
	if !ok {
		return nil
	}
	self := el == s.Component
	e := rightOf(pc, r, el.Open.Start)
	if self {
		e = leftOf(pc, r, el.Open.End)
	}

	e.text(pc.Helper("renderSlot") + "(" + comp + ", ")
	if s.Dynamic {
		e.text("(")
		e.move(s.NameLoc)
		e.text("), ")
	} else {
		e.text(jsString(s.Name) + ", ")
	}

	ternary := false
	if !self {
		if ref, ok := pc.PendingWrap.Claim(el); ok && pc.BlockWrapped.CheckAndSet(el) {
			ternary = true
			writeGuard(e, r, ref)
			e.text(" ? ")
		}
	}
	e.text("(")
	e.move(s.ParamsLoc)
	e.text(") => {\n")

	var skip *markup.Element
	if ternary {
		skip = el
	}
	reassert(e, r, s.Scope().Conditions, skip)

	closer := "}"
	if ternary {
		closer += " : undefined"
	}
	pc.Close(el.Span().End, closer+");\n")
	return nil
}

func interpolation(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	c := it.(*item.Interpolation).Interp.Content
	pc.Keep.Add(c)
	r.Buffer.PrependRight(c.Start, "(")
	r.Buffer.AppendLeft(c.End, ");\n")
	return nil
}

func binding(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	b := it.(*item.Binding)
	if b.Synthetic {
		return nil
	}
	if p := bindingPrefix(pc, b); p != "" {
		r.Buffer.AppendRight(b.Span().Start, p)
	}
	return nil
}

func regionAt(p *pipeline.Pass, at int) *pipeline.Region {
	for _, r := range p.Regions {
		if at >= r.Buffer.Base() && at <= r.Buffer.End() {
			return r
		}
	}
	return nil
}

// flushClosers writes the queued closers innermost first.
func flushClosers(pc *pipeline.PassContext, p *pipeline.Pass) error {
	for i := len(pc.Closers) - 1; i >= 0; i-- {
		c := pc.Closers[i]
		if r := regionAt(p, c.At); r != nil {
			r.Buffer.AppendLeft(c.At, c.Text)
		}
	}
	pc.Closers = nil
	return nil
}

// strip removes every part of the template that no plugin kept: markup,
// static text and anything else that is not code.
func strip(pc *pipeline.PassContext, p *pipeline.Pass) error {
	for _, r := range p.Regions {
		base, end := r.Buffer.Base(), r.Buffer.End()
		var keep []position.Span
		for _, s := range pc.Keep.Spans() {
			if s.Start >= base && s.End <= end {
				keep = append(keep, s)
			}
		}
		sort.Slice(keep, func(i, j int) bool { return keep[i].Start < keep[j].Start })
		cur := base
		for _, s := range keep {
			if s.Start > cur {
				r.Buffer.Remove(cur, s.Start)
			}
			if s.End > cur {
				cur = s.End
			}
		}
		if cur < end {
			r.Buffer.Remove(cur, end)
		}
	}
	return nil
}
