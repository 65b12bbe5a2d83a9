package position

// SpanSet records spans in insertion order and answers membership queries.
type SpanSet struct {
	order []Span
	seen  map[Span]struct{}
}

func NewSpanSet() *SpanSet {
	return &SpanSet{
		seen: make(map[Span]struct{}),
	}
}

// Add records span and reports whether it was new.
func (me *SpanSet) Add(span Span) bool {
	if _, ok := me.seen[span]; ok {
		return false
	}
	me.seen[span] = struct{}{}
	me.order = append(me.order, span)
	return true
}

func (me *SpanSet) Has(span Span) bool {
	_, ok := me.seen[span]
	return ok
}

func (me *SpanSet) Len() int {
	return len(me.order)
}

// Spans returns the recorded spans in insertion order.
func (me *SpanSet) Spans() []Span {
	out := make([]Span, len(me.order))
	copy(out, me.order)
	return out
}
