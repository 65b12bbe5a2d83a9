// Package sfc splits a component source unit into its top-level blocks and
// recovers the exact spans of every block's tags and attributes.
package sfc

import (
	"regexp"
	"strings"

	"github.com/walteh/vtsc/pkg/position"
)

// RawBlock is what the splitter reports: the content span of a top-level
// block and its attributes, but not the spans of the surrounding tags.
type RawBlock struct {
	Tag     string
	Content position.Span
	Attrs   []RawAttr
}

type RawAttr struct {
	Name  string
	Value string
	Bool  bool
}

var (
	splitOpenTag = regexp.MustCompile(`^<([a-zA-Z][\w-]*)((?:\s+[^\s"'>/=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'=<>\x60]+))?)*)\s*(/?)>`)
	splitAttr    = regexp.MustCompile(`([^\s"'>/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>\x60]+)))?`)
	templateTags = regexp.MustCompile(`<(/?)template\b(?:"[^"]*"|'[^']*'|[^>"'])*?(/?)>`)
)

// Split finds the top-level blocks of text. Self-closing and unterminated
// blocks are not reported.
func Split(text string) []RawBlock {
	var out []RawBlock
	i := 0
	for i < len(text) {
		lt := strings.IndexByte(text[i:], '<')
		if lt < 0 {
			break
		}
		i += lt
		if strings.HasPrefix(text[i:], "<!--") {
			end := strings.Index(text[i+4:], "-->")
			if end < 0 {
				break
			}
			i += 4 + end + 3
			continue
		}
		m := splitOpenTag.FindStringSubmatchIndex(text[i:])
		if m == nil {
			i++
			continue
		}
		tag := text[i+m[2] : i+m[3]]
		openEnd := i + m[1]
		if m[6] != m[7] {
			i = openEnd
			continue
		}
		closeStart, closeEnd := findClose(text, openEnd, tag)
		if closeStart < 0 {
			break
		}
		out = append(out, RawBlock{
			Tag:     tag,
			Content: position.NewSpan(openEnd, closeStart),
			Attrs:   splitAttrs(text[i+m[4] : i+m[5]]),
		})
		i = closeEnd
	}
	return out
}

func findClose(text string, from int, tag string) (int, int) {
	if tag == "template" {
		depth := 1
		for _, m := range templateTags.FindAllStringSubmatchIndex(text[from:], -1) {
			closing := m[3] > m[2]
			selfClosing := m[5] > m[4]
			switch {
			case closing:
				depth--
				if depth == 0 {
					return from + m[0], from + m[1]
				}
			case !selfClosing:
				depth++
			}
		}
		return -1, -1
	}
	re := regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(tag) + `\s*>`)
	m := re.FindStringIndex(text[from:])
	if m == nil {
		return -1, -1
	}
	return from + m[0], from + m[1]
}

func splitAttrs(s string) []RawAttr {
	var out []RawAttr
	for _, m := range splitAttr.FindAllStringSubmatch(s, -1) {
		attr := RawAttr{Name: m[1], Bool: true}
		for _, v := range m[2:] {
			if v != "" {
				attr.Value = v
				attr.Bool = false
			}
		}
		// `name=""` is valued even though the group is empty
		if attr.Bool && strings.Contains(m[0], "=") {
			attr.Bool = false
		}
		out = append(out, attr)
	}
	return out
}
