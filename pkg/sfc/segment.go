package sfc

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/walteh/vtsc/pkg/position"
)

var (
	commentPattern  = regexp.MustCompile(`<!--[\s\S]*?-->`)
	trailingComment = regexp.MustCompile(`^(?:\s*<!--[\s\S]*?-->)+`)
)

// maxRepeat is the largest counted repetition the regexp package accepts.
const maxRepeat = 1000

// Parse splits text and segments the result. Files without a script block get
// a synthetic empty one appended.
func Parse(ctx context.Context, filename, text string) *Descriptor {
	return Segment(ctx, filename, text, Split(text))
}

// Segment derives the exact open tag, close tag and attribute spans of each
// raw block. A block whose opening tag cannot be found in the text before its
// content is skipped.
func Segment(ctx context.Context, filename, text string, raw []RawBlock) *Descriptor {
	log := zerolog.Ctx(ctx)
	desc := &Descriptor{Filename: filename, Source: text}

	sorted := make([]RawBlock, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Content.Start < sorted[j].Content.Start })

	// regexps are cached for the duration of this call only
	cache := map[string]*regexp.Regexp{}
	compile := func(pattern string) *regexp.Regexp {
		if re, ok := cache[pattern]; ok {
			return re
		}
		re := regexp.MustCompile(pattern)
		cache[pattern] = re
		return re
	}

	cursor := 0
	for i, rb := range sorted {
		nextStart := len(text)
		if i+1 < len(sorted) {
			nextStart = sorted[i+1].Content.Start
		}
		if rb.Content.Start < cursor {
			log.Debug().Str("tag", rb.Tag).Int("offset", rb.Content.Start).Msg("block overlaps previous block, skipping")
			continue
		}

		gap := blankComments(text[cursor:rb.Content.Start])
		openRe := compile(`<\s*` + regexp.QuoteMeta(rb.Tag) + `\b(?:"[^"]*"|'[^']*'|[^>"'])*>`)
		matches := openRe.FindAllStringIndex(gap, -1)
		if len(matches) == 0 {
			log.Debug().Str("tag", rb.Tag).Int("offset", rb.Content.Start).Msg("opening tag not found, skipping block")
			continue
		}
		m := matches[len(matches)-1]
		open := position.NewSpan(cursor+m[0], cursor+m[1])

		block := &Block{
			Kind:    kindOf(rb.Tag),
			Tag:     rb.Tag,
			Open:    open,
			Content: rb.Content,
			Attrs:   locateAttrs(text[open.Start:open.End], open.Start, rb.Attrs, compile),
		}

		closeGap := blankComments(text[rb.Content.End:nextStart])
		closeRe := compile(`<\/\s*` + regexp.QuoteMeta(rb.Tag) + `\s*>`)
		consumed := rb.Content.End
		if cm := closeRe.FindStringIndex(closeGap); cm != nil {
			block.Close = position.NewSpan(rb.Content.End+cm[0], rb.Content.End+cm[1])
			consumed = block.Close.End
			if tm := trailingComment.FindStringIndex(text[consumed:nextStart]); tm != nil {
				consumed += tm[1]
			}
		} else {
			block.Close = position.NewSpan(rb.Content.End, rb.Content.End)
		}
		cursor = consumed

		applyWellKnownAttrs(block)
		desc.Blocks = append(desc.Blocks, block)
	}

	if len(desc.Scripts()) == 0 {
		end := len(text)
		desc.Blocks = append(desc.Blocks, &Block{
			Kind:      KindScript,
			Tag:       "script",
			Lang:      "js",
			Open:      position.NewSpan(end, end),
			Content:   position.NewSpan(end, end),
			Close:     position.NewSpan(end, end),
			Synthetic: true,
		})
	}
	return desc
}

func applyWellKnownAttrs(b *Block) {
	if lang, ok := b.Attr("lang"); ok && !lang.Bool {
		b.Lang = lang.Raw
	}
	if _, ok := b.Attr("setup"); ok {
		b.Setup = true
	}
	if b.Lang == "" {
		switch b.Kind {
		case KindScript:
			b.Lang = "js"
		case KindTemplate:
			b.Lang = "html"
		case KindStyle:
			b.Lang = "css"
		}
	}
}

// blankComments replaces every markup comment with spaces so offsets in the
// result match the input.
func blankComments(s string) string {
	if !strings.Contains(s, "<!--") {
		return s
	}
	return commentPattern.ReplaceAllStringFunc(s, func(c string) string {
		return strings.Repeat(" ", len(c))
	})
}

// locateAttrs finds the key and value spans of each known attribute in the
// opening tag text. Valued attributes are matched first by name and exact
// value length, or by exact text when unquoted; each match is blanked so that
// it cannot be matched twice.
// Boolean attributes are matched afterwards.
func locateAttrs(tag string, base int, attrs []RawAttr, compile func(string) *regexp.Regexp) []Attr {
	work := []byte(tag)
	out := make([]Attr, len(attrs))

	blank := func(from, to int) {
		for i := from; i < to; i++ {
			work[i] = ' '
		}
	}

	for i, a := range attrs {
		out[i] = Attr{Name: a.Name, Raw: a.Value, Bool: a.Bool}
		if a.Bool {
			continue
		}
		value := fmt.Sprintf(`(?s:.{%d})`, utf8.RuneCountInString(a.Value))
		if utf8.RuneCountInString(a.Value) > maxRepeat {
			value = regexp.QuoteMeta(a.Value)
		}
		unquoted := ""
		if a.Value != "" {
			unquoted = `|(` + regexp.QuoteMeta(a.Value) + `)(?:\s|/?>|$)`
		}
		re := compile(`(?:^|\s)(` + regexp.QuoteMeta(a.Name) + `)\s*=\s*(?:(["'])(` + value + `)["']` + unquoted + `)`)
		m := re.FindSubmatchIndex(work)
		if m == nil {
			continue
		}
		from, to, end := m[6], m[7], m[1]
		if from < 0 {
			from, to, end = m[8], m[9], m[9]
		}
		out[i].Key = position.NewSpan(base+m[2], base+m[3])
		out[i].Value = position.NewSpan(base+from, base+to)
		blank(m[2], end)
	}

	for i, a := range attrs {
		if !a.Bool {
			continue
		}
		re := compile(`(?:^|\s)(` + regexp.QuoteMeta(a.Name) + `)(?:\s|/?>|$)`)
		m := re.FindSubmatchIndex(work)
		if m == nil {
			continue
		}
		out[i].Key = position.NewSpan(base+m[2], base+m[3])
		blank(m[2], m[3])
	}
	return out
}
