// Package scope holds the immutable context threaded through binding and
// template walks.
package scope

import (
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/position"
)

type ConditionKind uint8

const (
	If ConditionKind = iota
	ElseIf
	Else
)

func (k ConditionKind) String() string {
	switch k {
	case ElseIf:
		return "else-if"
	case Else:
		return "else"
	}
	return "if"
}

// ConditionRef is one branch of an if / else-if / else chain.
type ConditionRef struct {
	Kind ConditionKind
	// Expr is nil for else branches.
	Expr    jsast.Node
	ExprLoc position.Span
	Element *markup.Element
	// Siblings are the earlier branches of the chain, in source order. The
	// slice is never modified after the ref is created.
	Siblings []*ConditionRef
}

// NewConditionRef freezes a copy of the prior siblings.
func NewConditionRef(kind ConditionKind, expr jsast.Node, exprLoc position.Span, el *markup.Element, prior []*ConditionRef) *ConditionRef {
	siblings := make([]*ConditionRef, len(prior))
	copy(siblings, prior)
	return &ConditionRef{Kind: kind, Expr: expr, ExprLoc: exprLoc, Element: el, Siblings: siblings}
}

// Context is passed by value. Every With method returns a new Context and
// never writes into storage shared with the receiver.
type Context struct {
	ignored []string
	InLoop  bool
	// InSlot is set inside the content of a slot passed to a component.
	InSlot     bool
	Conditions []*ConditionRef
}

// Root returns a context that ignores the given names.
func Root(ignored ...string) Context {
	return Context{}.WithIgnored(ignored...)
}

func (c Context) WithIgnored(names ...string) Context {
	if len(names) == 0 {
		return c
	}
	n := len(c.ignored)
	c.ignored = append(c.ignored[:n:n], names...)
	return c
}

func (c Context) WithLoop() Context {
	c.InLoop = true
	return c
}

func (c Context) WithSlot() Context {
	c.InSlot = true
	return c
}

func (c Context) WithCondition(ref *ConditionRef) Context {
	n := len(c.Conditions)
	c.Conditions = append(c.Conditions[:n:n], ref)
	return c
}

func (c Context) Ignores(name string) bool {
	for i := len(c.ignored) - 1; i >= 0; i-- {
		if c.ignored[i] == name {
			return true
		}
	}
	return false
}

// Ignored returns the ignored names in the order they were added.
func (c Context) Ignored() []string {
	out := make([]string, len(c.ignored))
	copy(out, c.ignored)
	return out
}
