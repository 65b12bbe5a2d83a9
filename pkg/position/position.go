package position

import (
	"fmt"
	"strings"
)

type Place struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Place `json:"start"`
	End   Place `json:"end"`
}

// Span is a half-open byte range [Start, End) into some original text.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Contains reports whether other lies completely inside s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Shift moves the span by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

func (s Span) Text(src string) string {
	if s.Start < 0 || s.End > len(src) || s.Start > s.End {
		return ""
	}
	return src[s.Start:s.End]
}

// Marker renders the traceability comment used in generated code to point back to
// the original offsets.
func (s Span) Marker() string {
	return fmt.Sprintf("/*%d,%d*/", s.Start, s.End)
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// RawPosition represents a position in the source text
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the actual text at this position
	Text string
}

// Length returns the length of the text at this position
func (p RawPosition) Length() int {
	return len(p.Text)
}

func (p RawPosition) Span() Span {
	return Span{Start: p.Offset, End: p.Offset + len(p.Text)}
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// NewSpanPosition slices the text for span out of src.
func NewSpanPosition(src string, span Span) RawPosition {
	return RawPosition{Text: span.Text(src), Offset: span.Start}
}

func NewRawPositionFromLineAndColumn(line, col int, text, fileText string) RawPosition {
	split := strings.Split(fileText, "\n")
	offset := 0
	for i := 0; i < line && i < len(split); i++ {
		offset += len(split[i]) + 1
	}
	offset += col
	return RawPosition{Text: text, Offset: offset}
}

func (p RawPosition) HasRangeOverlapWith(start RawPosition) bool {
	startOffset := start.Offset
	endOffset := startOffset + start.Length()

	posOffset := p.Offset
	posEndOffset := posOffset + p.Length()

	// a zero-length position overlaps if it falls within the other range
	if p.Length() == 0 {
		return posOffset >= startOffset && posOffset <= endOffset
	}
	if start.Length() == 0 {
		return startOffset >= posOffset && startOffset <= posEndOffset
	}

	return startOffset < posEndOffset && endOffset > posOffset
}

// GetLineAndColumn calculates the line and column number for a given position in the text
// Returns zero-based line and column numbers
func (p RawPosition) GetLineAndColumn(text string) (line, col int) {
	return GetLineAndColumn(text, p.Offset)
}

// GetLineAndColumn returns the zero-based line and byte column of offset in text.
func GetLineAndColumn(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return line, offset - lastNewline - 1
}

// GetRange calculates the zero-based line/column range for a RawPosition
func (p RawPosition) GetRange(fileText string) Range {
	return SpanRange(fileText, p.Span())
}

// SpanRange converts a byte span into a zero-based line/column range.
func SpanRange(fileText string, span Span) Range {
	startLine, startCol := GetLineAndColumn(fileText, span.Start)
	endLine, endCol := GetLineAndColumn(fileText, span.End)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}

func (p RawPosition) String() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}
