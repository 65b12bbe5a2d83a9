package pipeline

import (
	"fmt"

	"github.com/walteh/vtsc/pkg/diagnostic"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/scope"
)

// DefaultPrefix starts every synthesized helper identifier.
const DefaultPrefix = "__VTSC_"

// OrderedSet keeps the first insertion order of its values.
type OrderedSet[T comparable] struct {
	order []T
	seen  map[T]struct{}
}

func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{seen: map[T]struct{}{}}
}

// Add records v and reports whether it was new.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *OrderedSet[T]) Has(v T) bool {
	_, ok := s.seen[v]
	return ok
}

func (s *OrderedSet[T]) Len() int { return len(s.order) }

func (s *OrderedSet[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

// Marks is a processed-marker registry keyed by node identity.
type Marks struct {
	seen map[any]struct{}
}

func NewMarks() *Marks {
	return &Marks{seen: map[any]struct{}{}}
}

// CheckAndSet marks key and reports whether it was unmarked before.
func (m *Marks) CheckAndSet(key any) bool {
	if _, ok := m.seen[key]; ok {
		return false
	}
	m.seen[key] = struct{}{}
	return true
}

func (m *Marks) Has(key any) bool {
	_, ok := m.seen[key]
	return ok
}

// Wraps holds conditions whose block wrap was deferred to another role of
// the same element.
type Wraps struct {
	pending map[any]*scope.ConditionRef
}

func NewWraps() *Wraps {
	return &Wraps{pending: map[any]*scope.ConditionRef{}}
}

func (w *Wraps) Register(key any, ref *scope.ConditionRef) {
	w.pending[key] = ref
}

// Claim removes and returns the pending condition for key.
func (w *Wraps) Claim(key any) (*scope.ConditionRef, bool) {
	ref, ok := w.pending[key]
	if ok {
		delete(w.pending, key)
	}
	return ref, ok
}

func (w *Wraps) Len() int { return len(w.pending) }

// Generic is the type parameter list declared on a setup script.
type Generic struct {
	Text string
	Loc  position.Span
}

// Contribution is one named piece of the instance type.
type Contribution struct {
	Name string
	Text string
	Loc  position.Span
}

// SlotInfo describes a slot the template declares.
type SlotInfo struct {
	Name    string
	Dynamic bool
	// Var holds the props object of the declaration. It is empty when the
	// declaration sits inside a callback and cannot be referenced from the
	// end of the template function.
	Var string
}

// Closer is text that closes a structure opened at an element start. Closers
// are flushed innermost first.
type Closer struct {
	At   int
	Text string
}

// PassContext is the state shared by every plugin during one run over one
// component source unit.
type PassContext struct {
	Filename string
	Source   string
	Prefix   string

	// Imports are hoisted import statements, in first-seen order.
	Imports     *OrderedSet[string]
	Diagnostics diagnostic.Diagnostics
	IsAsync     bool
	Generic     *Generic
	// Declared holds names declared at the top level of the setup script.
	Declared      *OrderedSet[string]
	Contributions []Contribution
	Slots         []SlotInfo
	// Keep holds the template spans that survive stripping.
	Keep *position.SpanSet
	// BlockWrapped marks nodes whose block wrap was emitted.
	BlockWrapped *Marks
	PendingWrap  *Wraps
	// Claimed marks macro calls consumed by an enclosing macro.
	Claimed    *Marks
	Helpers    *OrderedSet[string]
	Closers    []Closer
	Components map[*markup.Element]string

	ids int
}

func NewPassContext(filename, source string) *PassContext {
	return &PassContext{
		Filename:     filename,
		Source:       source,
		Prefix:       DefaultPrefix,
		Imports:      NewOrderedSet[string](),
		Declared:     NewOrderedSet[string](),
		Keep:         position.NewSpanSet(),
		BlockWrapped: NewMarks(),
		PendingWrap:  NewWraps(),
		Claimed:      NewMarks(),
		Helpers:      NewOrderedSet[string](),
		Components:   map[*markup.Element]string{},
	}
}

// Helper returns the prefixed helper name and records its use.
func (pc *PassContext) Helper(name string) string {
	pc.Helpers.Add(name)
	return pc.Prefix + name
}

// Name returns a prefixed identifier that is not a helper.
func (pc *PassContext) Name(name string) string {
	return pc.Prefix + name
}

// NextID returns a fresh prefixed identifier.
func (pc *PassContext) NextID(stem string) string {
	id := fmt.Sprintf("%s%s%d", pc.Prefix, stem, pc.ids)
	pc.ids++
	return id
}

// Contribute records the contribution for name unless one exists. It reports
// whether the contribution was recorded.
func (pc *PassContext) Contribute(c Contribution) bool {
	if _, ok := pc.Contribution(c.Name); ok {
		return false
	}
	pc.Contributions = append(pc.Contributions, c)
	return true
}

func (pc *PassContext) Contribution(name string) (Contribution, bool) {
	for _, c := range pc.Contributions {
		if c.Name == name {
			return c, true
		}
	}
	return Contribution{}, false
}

// Close queues a closer.
func (pc *PassContext) Close(at int, text string) {
	pc.Closers = append(pc.Closers, Closer{At: at, Text: text})
}

func (pc *PassContext) Warn(code, msg string, span position.Span) {
	pc.Diagnostics.Add(diagnostic.New(diagnostic.Warning, code, msg, span))
}

func (pc *PassContext) Error(code, msg string, span position.Span) {
	pc.Diagnostics.Add(diagnostic.New(diagnostic.Error, code, msg, span))
}
