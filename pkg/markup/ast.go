package markup

import (
	"github.com/walteh/vtsc/pkg/position"
)

type Node interface {
	Span() position.Span
}

type Root struct {
	Children []Node
	Errors   []*ParseError
	Loc      position.Span
}

func (r *Root) Span() position.Span { return r.Loc }

type ElementKind uint8

const (
	KindElement ElementKind = iota
	KindComponent
	KindSlot
	KindTemplate
)

func (k ElementKind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindSlot:
		return "slot"
	case KindTemplate:
		return "template"
	}
	return "element"
}

type Element struct {
	Tag     string
	Kind    ElementKind
	TagName position.Span
	// Open covers `<tag ...>` or `<tag ... />`.
	Open position.Span
	// Close covers `</tag>`; zero when the element is self-closing, void or
	// unterminated.
	Close       position.Span
	SelfClosing bool
	Attrs       []*Attribute
	Children    []Node
}

func (e *Element) Span() position.Span {
	if e.Close.IsZero() {
		if len(e.Children) > 0 {
			return position.NewSpan(e.Open.Start, e.Children[len(e.Children)-1].Span().End)
		}
		return e.Open
	}
	return position.NewSpan(e.Open.Start, e.Close.End)
}

// Directive returns the first directive attribute with the given name.
func (e *Element) Directive(name string) *Directive {
	for _, a := range e.Attrs {
		if a.Dir != nil && a.Dir.Name == name {
			return a.Dir
		}
	}
	return nil
}

// Attr returns the static attribute with the given name.
func (e *Element) Attr(name string) *Attribute {
	for _, a := range e.Attrs {
		if a.Dir == nil && a.Name == name {
			return a
		}
	}
	return nil
}

// Attribute is a static attribute or, when Dir is set, a directive.
type Attribute struct {
	Name     string
	NameLoc  position.Span
	Value    string
	ValueLoc position.Span
	HasValue bool
	Loc      position.Span
	Dir      *Directive
}

func (a *Attribute) Span() position.Span { return a.Loc }

type Directive struct {
	// Name is the directive name without the `v-` prefix, with shorthands
	// expanded (`:` bind, `@` on, `#` slot).
	Name      string
	Arg       string
	ArgLoc    position.Span
	Dynamic   bool
	Modifiers []string
	Exp       string
	ExpLoc    position.Span
	HasExp    bool
	Attr      *Attribute
}

func (d *Directive) HasModifier(m string) bool {
	for _, mod := range d.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

type Interpolation struct {
	Content position.Span
	Expr    string
	Loc     position.Span
}

func (i *Interpolation) Span() position.Span { return i.Loc }

type Text struct {
	Value string
	Loc   position.Span
}

func (t *Text) Span() position.Span { return t.Loc }

type Comment struct {
	Value string
	Loc   position.Span
}

func (c *Comment) Span() position.Span { return c.Loc }

type ParseError struct {
	Msg string
	Loc position.Span
}

func (e *ParseError) Error() string {
	return e.Msg
}
