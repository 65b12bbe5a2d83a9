package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/vtsc/pkg/position"
)

func TestGetLineAndColumn(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{
			name:     "empty text",
			text:     "",
			offset:   0,
			wantLine: 0,
			wantCol:  0,
		},
		{
			name:     "single line, middle position",
			text:     "Hello, World!",
			offset:   7,
			wantLine: 0,
			wantCol:  7,
		},
		{
			name:     "multiple lines, second line",
			text:     "Hello\nWorld\nTest zzz",
			offset:   8,
			wantLine: 1,
			wantCol:  2,
		},
		{
			name:     "component file",
			text:     "<script setup>\nconst x = 1\n</script>",
			offset:   21,
			wantLine: 1,
			wantCol:  6,
		},
		{
			name:     "offset past the end is clamped",
			text:     "ab\nc",
			offset:   99,
			wantLine: 1,
			wantCol:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLine, gotCol := position.GetLineAndColumn(tt.text, tt.offset)
			assert.Equal(t, tt.wantLine, gotLine, "line")
			assert.Equal(t, tt.wantCol, gotCol, "column")
		})
	}
}

func TestSpan(t *testing.T) {
	s := position.NewSpan(4, 10)
	assert.Equal(t, 6, s.Len())
	assert.True(t, s.Contains(position.NewSpan(5, 10)))
	assert.False(t, s.Contains(position.NewSpan(3, 6)))
	assert.True(t, s.Overlaps(position.NewSpan(9, 12)))
	assert.False(t, s.Overlaps(position.NewSpan(10, 12)))
	assert.Equal(t, "/*4,10*/", s.Marker())
	assert.Equal(t, position.NewSpan(6, 12), s.Shift(2))
	assert.Equal(t, "cd", position.NewSpan(2, 4).Text("abcdef"))
	assert.Equal(t, "", position.NewSpan(2, 40).Text("abcdef"))
}

func TestSpanSet(t *testing.T) {
	set := position.NewSpanSet()
	require.True(t, set.Add(position.NewSpan(0, 10)))
	require.True(t, set.Add(position.NewSpan(2, 4)))
	require.False(t, set.Add(position.NewSpan(0, 10)))

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Has(position.NewSpan(2, 4)))
	assert.Equal(t, []position.Span{{Start: 0, End: 10}, {Start: 2, End: 4}}, set.Spans())
}

func TestSpanRange(t *testing.T) {
	text := "ab\ncdef\ng"
	rng := position.SpanRange(text, position.NewSpan(4, 8))
	assert.Equal(t, position.Range{
		Start: position.Place{Line: 1, Character: 1},
		End:   position.Place{Line: 2, Character: 0},
	}, rng)
}
