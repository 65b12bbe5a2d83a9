package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/pipeline"
)

func TestBufferRoundTrip(t *testing.T) {
	for _, src := range []string{"", "a", "const x = 1\n", "<div>{{ x }}</div>"} {
		b := pipeline.NewBuffer(src, 40)
		assert.Equal(t, src, b.String())
		assert.False(t, b.Edited())
		require.NoError(t, b.Err())
	}
}

func TestBufferEdits(t *testing.T) {
	tests := []struct {
		name string
		edit func(b *pipeline.Buffer)
		want string
	}{
		{
			name: "insert order at one offset",
			edit: func(b *pipeline.Buffer) {
				b.AppendRight(13, "R1").PrependRight(13, "R0").AppendLeft(13, "L1").PrependLeft(13, "L0").AppendRight(13, "R2")
			},
			want: "abcL0L1R0R1R2def",
		},
		{
			name: "remove keeps inserts",
			edit: func(b *pipeline.Buffer) {
				b.AppendRight(12, "<").AppendLeft(14, ">").Remove(12, 14)
			},
			want: "ab<>ef",
		},
		{
			name: "overwrite",
			edit: func(b *pipeline.Buffer) {
				b.Overwrite(11, 15, "XY")
			},
			want: "aXYf",
		},
		{
			name: "edges",
			edit: func(b *pipeline.Buffer) {
				b.AppendLeft(10, "[").AppendRight(16, "]")
			},
			want: "[abcdef]",
		},
		{
			name: "move carries attached inserts",
			edit: func(b *pipeline.Buffer) {
				b.AppendRight(14, "(").AppendLeft(16, ")").PrependLeft(14, "|")
				b.AppendRight(10, "pre ")
				b.Move(14, 16, 10)
				b.AppendRight(10, " post ")
			},
			want: "pre (ef) post abcd|",
		},
		{
			name: "move to end",
			edit: func(b *pipeline.Buffer) {
				b.Move(10, 12, 16)
			},
			want: "cdefab",
		},
		{
			name: "removed bytes stay removed when moved",
			edit: func(b *pipeline.Buffer) {
				b.Move(12, 14, 10).Remove(10, 16)
			},
			want: "",
		},
		{
			name: "move left",
			edit: func(b *pipeline.Buffer) {
				b.AppendLeft(12, "L").AppendRight(12, "R")
				b.MoveLeft(14, 16, 12)
				b.AppendLeft(12, "!")
			},
			want: "abLef!Rcd",
		},
		{
			name: "nested moves",
			edit: func(b *pipeline.Buffer) {
				b.Move(15, 16, 13)
				b.Move(12, 14, 10)
			},
			want: "cfdabe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pipeline.NewBuffer("abcdef", 10)
			tt.edit(b)
			require.NoError(t, b.Err())
			assert.Equal(t, tt.want, b.String())
			assert.Equal(t, "abcdef", b.Original())
		})
	}
}

func TestBufferInvalidEdits(t *testing.T) {
	tests := []struct {
		name string
		edit func(b *pipeline.Buffer)
	}{
		{"before start", func(b *pipeline.Buffer) { b.AppendLeft(9, "x") }},
		{"after end", func(b *pipeline.Buffer) { b.Remove(12, 17) }},
		{"inverted", func(b *pipeline.Buffer) { b.Remove(14, 12) }},
		{"empty overwrite", func(b *pipeline.Buffer) { b.Overwrite(12, 12, "x") }},
		{"move into itself", func(b *pipeline.Buffer) { b.Move(11, 14, 12) }},
		{"overlapping moves", func(b *pipeline.Buffer) { b.Move(11, 13, 16).Move(12, 14, 10) }},
		{"cycle", func(b *pipeline.Buffer) { b.Move(10, 12, 15).Move(14, 16, 11) }},
		{"move left into itself", func(b *pipeline.Buffer) { b.MoveLeft(11, 14, 12) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pipeline.NewBuffer("abcdef", 10)
			tt.edit(b)
			require.Error(t, b.Err())
			assert.NotPanics(t, func() { _ = b.String() })
		})
	}
}

func TestBufferSlice(t *testing.T) {
	b := pipeline.NewBuffer("abcdef", 10)
	assert.Equal(t, "bcd", b.Slice(11, 14))
	assert.Equal(t, "", b.Slice(4, 14))
	assert.Equal(t, 16, b.End())
}
