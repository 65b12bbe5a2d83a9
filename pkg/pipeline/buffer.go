package pipeline

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Buffer is an edit buffer over one block's text. Every edit addresses
// absolute offsets of the original source; edits never shift each other.
//
// Each original byte i renders as: right inserts at i, the byte (unless
// removed), then left inserts at i+1. Left inserts at the start and right
// inserts at the end of the buffer render at the edges. A moved range takes
// its bytes and their attached inserts to the target.
type Buffer struct {
	src     string
	base    int
	left    map[int][]piece
	right   map[int][]piece
	removed []bool
	replace map[int]string
	movedBy []int
	moves   []move
	err     error
	edited  bool
}

type piece struct {
	text string
	move int
}

type move struct {
	start, end int
	// host is the byte rendered next to the move's target, -1 or len(src)
	// at the edges.
	host int
}

// NewBuffer returns a buffer over text, which starts at absolute offset base.
func NewBuffer(text string, base int) *Buffer {
	movedBy := make([]int, len(text))
	for i := range movedBy {
		movedBy[i] = -1
	}
	return &Buffer{
		src:     text,
		base:    base,
		left:    map[int][]piece{},
		right:   map[int][]piece{},
		removed: make([]bool, len(text)),
		replace: map[int]string{},
		movedBy: movedBy,
	}
}

func (b *Buffer) Original() string { return b.src }
func (b *Buffer) Base() int        { return b.base }
func (b *Buffer) End() int         { return b.base + len(b.src) }
func (b *Buffer) Edited() bool     { return b.edited }

// Err returns the first invalid edit. Invalid edits are otherwise ignored.
func (b *Buffer) Err() error { return b.err }

// Slice returns the original text between two absolute offsets.
func (b *Buffer) Slice(start, end int) string {
	s, e := start-b.base, end-b.base
	if s < 0 || e > len(b.src) || s > e {
		return ""
	}
	return b.src[s:e]
}

func (b *Buffer) fail(format string, args ...any) {
	if b.err == nil {
		b.err = errors.Errorf(format, args...)
	}
}

func (b *Buffer) index(at int) (int, bool) {
	i := at - b.base
	if i < 0 || i > len(b.src) {
		b.fail("offset %d outside buffer [%d,%d]", at, b.base, b.End())
		return 0, false
	}
	return i, true
}

func (b *Buffer) rng(start, end int) (int, int, bool) {
	s, ok := b.index(start)
	if !ok {
		return 0, 0, false
	}
	e, ok := b.index(end)
	if !ok {
		return 0, 0, false
	}
	if s > e {
		b.fail("inverted range [%d,%d]", start, end)
		return 0, 0, false
	}
	return s, e, true
}

func (b *Buffer) insert(list map[int][]piece, at int, text string, prepend bool) *Buffer {
	i, ok := b.index(at)
	if !ok || text == "" {
		return b
	}
	b.edited = true
	if prepend {
		list[i] = append([]piece{{text: text, move: -1}}, list[i]...)
	} else {
		list[i] = append(list[i], piece{text: text, move: -1})
	}
	return b
}

// AppendLeft inserts text at at, attached to the byte before it, after any
// earlier left inserts there.
func (b *Buffer) AppendLeft(at int, text string) *Buffer {
	return b.insert(b.left, at, text, false)
}

// PrependLeft inserts text at at, attached to the byte before it, before any
// earlier left inserts there.
func (b *Buffer) PrependLeft(at int, text string) *Buffer {
	return b.insert(b.left, at, text, true)
}

// AppendRight inserts text at at, attached to the byte at it, after any
// earlier right inserts there.
func (b *Buffer) AppendRight(at int, text string) *Buffer {
	return b.insert(b.right, at, text, false)
}

// PrependRight inserts text at at, attached to the byte at it, before any
// earlier right inserts there.
func (b *Buffer) PrependRight(at int, text string) *Buffer {
	return b.insert(b.right, at, text, true)
}

// Remove deletes the original bytes in [start,end). Inserts attached to them
// are kept, and so are the bytes' positions as move sources: a removed byte
// that is also moved renders as nothing at its target.
func (b *Buffer) Remove(start, end int) *Buffer {
	s, e, ok := b.rng(start, end)
	if !ok {
		return b
	}
	for i := s; i < e; i++ {
		if !b.removed[i] {
			b.removed[i] = true
			b.edited = true
		}
		delete(b.replace, i)
	}
	return b
}

// Overwrite replaces the original bytes in [start,end) with text.
func (b *Buffer) Overwrite(start, end int, text string) *Buffer {
	s, e, ok := b.rng(start, end)
	if !ok {
		return b
	}
	if s == e {
		b.fail("cannot overwrite empty range at %d", start)
		return b
	}
	b.Remove(start, end)
	b.replace[s] = text
	b.edited = true
	return b
}

// Move renders [start,end) at to, after the right inserts already attached
// there. The range keeps its own inserts: the right inserts at start and the
// left inserts at end travel with it.
func (b *Buffer) Move(start, end, to int) *Buffer {
	return b.move(start, end, to, false)
}

// MoveLeft is Move into the left inserts at to, so the range renders after
// the byte before to and after the left inserts already there.
func (b *Buffer) MoveLeft(start, end, to int) *Buffer {
	return b.move(start, end, to, true)
}

func (b *Buffer) move(start, end, to int, left bool) *Buffer {
	s, e, ok := b.rng(start, end)
	if !ok {
		return b
	}
	t, ok := b.index(to)
	if !ok {
		return b
	}
	if s == e {
		return b
	}
	// the byte whose rendering carries the target list
	host := t
	if left {
		host = t - 1
	}
	if host >= s && host < e {
		b.fail("cannot move [%d,%d] into itself at %d", start, end, to)
		return b
	}
	for i := s; i < e; i++ {
		if b.movedBy[i] >= 0 {
			b.fail("range [%d,%d] overlaps an earlier move", start, end)
			return b
		}
	}
	// following the chain of hosts must never lead back into the range
	for cur := host; cur >= 0 && cur < len(b.src) && b.movedBy[cur] >= 0; {
		m := b.moves[b.movedBy[cur]]
		if m.host >= s && m.host < e {
			b.fail("moving [%d,%d] to %d creates a cycle", start, end, to)
			return b
		}
		cur = m.host
	}
	id := len(b.moves)
	b.moves = append(b.moves, move{start: s, end: e, host: host})
	for i := s; i < e; i++ {
		b.movedBy[i] = id
	}
	if left {
		b.left[t] = append(b.left[t], piece{move: id})
	} else {
		b.right[t] = append(b.right[t], piece{move: id})
	}
	b.edited = true
	return b
}

// String renders the buffer.
func (b *Buffer) String() string {
	if !b.edited {
		return b.src
	}
	var sb strings.Builder
	sb.Grow(len(b.src))
	b.writePieces(&sb, b.left[0])
	for i := 0; i < len(b.src); i++ {
		if b.movedBy[i] >= 0 {
			continue
		}
		b.writeByte(&sb, i)
	}
	b.writePieces(&sb, b.right[len(b.src)])
	return sb.String()
}

func (b *Buffer) writeByte(sb *strings.Builder, i int) {
	b.writePieces(sb, b.right[i])
	if r, ok := b.replace[i]; ok {
		sb.WriteString(r)
	} else if !b.removed[i] {
		sb.WriteByte(b.src[i])
	}
	b.writePieces(sb, b.left[i+1])
}

func (b *Buffer) writePieces(sb *strings.Builder, ps []piece) {
	for _, p := range ps {
		if p.move < 0 {
			sb.WriteString(p.text)
			continue
		}
		m := b.moves[p.move]
		for i := m.start; i < m.end; i++ {
			b.writeByte(sb, i)
		}
	}
}
