package markup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/vtsc/pkg/position"
)

var attrPattern = regexp.MustCompile(`^([^\s"'>/=]+)(?:(\s*=\s*)(?:"([^"]*)"|'([^']*)'|(\S+)))?$`)

// Parse builds the template tree for text. Offsets are shifted by base. Parse
// never fails; malformed markup is recorded in Root.Errors and the tree is
// closed at the point the problem was found.
func Parse(text string, base int) *Root {
	root := &Root{Loc: position.NewSpan(base, base+len(text))}
	toks, err := tokenize(text, base)
	if err != nil {
		root.Errors = append(root.Errors, &ParseError{Msg: err.Error(), Loc: root.Loc})
		return root
	}

	p := &builder{root: root, toks: toks}
	p.run()
	return root
}

type builder struct {
	root  *Root
	toks  []token
	pos   int
	stack []*Element
}

func (b *builder) errorf(span position.Span, format string, args ...any) {
	b.root.Errors = append(b.root.Errors, &ParseError{Msg: fmt.Sprintf(format, args...), Loc: span})
}

func (b *builder) appendChild(n Node) {
	if len(b.stack) == 0 {
		b.root.Children = append(b.root.Children, n)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, n)
}

func (b *builder) run() {
	for b.pos < len(b.toks) {
		t := b.toks[b.pos]
		switch t.kind {
		case tokEOF:
			for i := len(b.stack) - 1; i >= 0; i-- {
				el := b.stack[i]
				b.errorf(el.Open, "element <%s> is missing end tag", el.Tag)
			}
			b.stack = nil
			return
		case tokComment:
			b.pos++
			value := strings.TrimSuffix(strings.TrimPrefix(t.text, "<!--"), "-->")
			b.appendChild(&Comment{Value: value, Loc: position.NewSpan(t.start, t.end())})
		case tokText:
			b.pos++
			b.appendText(t)
		case tokInterpStart:
			b.parseInterpolation()
		case tokTagOpen:
			b.parseElement()
		case tokCloseTag:
			b.pos++
			b.closeElement(t)
		default:
			b.pos++
			b.appendText(t)
		}
	}
}

// appendText merges adjacent text tokens into one node.
func (b *builder) appendText(t token) {
	var siblings []Node
	if len(b.stack) == 0 {
		siblings = b.root.Children
	} else {
		siblings = b.stack[len(b.stack)-1].Children
	}
	if n := len(siblings); n > 0 {
		if prev, ok := siblings[n-1].(*Text); ok && prev.Loc.End == t.start {
			prev.Value += t.text
			prev.Loc.End = t.end()
			return
		}
	}
	b.appendChild(&Text{Value: t.text, Loc: position.NewSpan(t.start, t.end())})
}

func (b *builder) parseInterpolation() {
	open := b.toks[b.pos]
	b.pos++
	var sb strings.Builder
	contentStart := open.end()
	for {
		t := b.toks[b.pos]
		switch t.kind {
		case tokInterpText:
			sb.WriteString(t.text)
			b.pos++
			continue
		case tokInterpEnd:
			b.pos++
			b.appendChild(&Interpolation{
				Content: position.NewSpan(contentStart, t.start),
				Expr:    sb.String(),
				Loc:     position.NewSpan(open.start, t.end()),
			})
			return
		}
		// unterminated: keep it as text so offsets stay accounted for
		end := contentStart + sb.Len()
		b.errorf(position.NewSpan(open.start, end), "interpolation is missing closing \"}}\"")
		b.appendText(token{kind: tokText, text: "{{" + sb.String(), start: open.start})
		return
	}
}

func (b *builder) parseElement() {
	open := b.toks[b.pos]
	b.pos++
	tag := open.text[1:]
	el := &Element{
		Tag:     tag,
		Kind:    classify(tag),
		TagName: position.NewSpan(open.start+1, open.end()),
	}
	end := open.end()
	closed := false
	for !closed {
		t := b.toks[b.pos]
		switch t.kind {
		case tokWhitespace, tokChar:
			b.pos++
		case tokAttr:
			b.pos++
			el.Attrs = append(el.Attrs, parseAttribute(t))
		case tokSelfClose:
			b.pos++
			el.SelfClosing = true
			end = t.end()
			closed = true
		case tokTagEnd:
			b.pos++
			end = t.end()
			closed = true
		default:
			b.errorf(position.NewSpan(open.start, t.start), "tag <%s> is not closed", tag)
			end = t.start
			closed = true
		}
	}
	el.Open = position.NewSpan(open.start, end)
	b.appendChild(el)
	if el.SelfClosing || isVoid(tag) {
		return
	}
	b.stack = append(b.stack, el)
}

func (b *builder) closeElement(t token) {
	name := strings.TrimSpace(strings.TrimSuffix(t.text[2:], ">"))
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].Tag != name {
			continue
		}
		for j := len(b.stack) - 1; j > i; j-- {
			b.errorf(b.stack[j].Open, "element <%s> is missing end tag", b.stack[j].Tag)
		}
		b.stack[i].Close = position.NewSpan(t.start, t.end())
		b.stack = b.stack[:i]
		return
	}
	b.errorf(position.NewSpan(t.start, t.end()), "invalid end tag </%s>", name)
}

func parseAttribute(t token) *Attribute {
	attr := &Attribute{Loc: position.NewSpan(t.start, t.end())}
	m := attrPattern.FindStringSubmatchIndex(t.text)
	if m == nil {
		attr.Name = t.text
		attr.NameLoc = attr.Loc
		return attr
	}
	attr.Name = t.text[m[2]:m[3]]
	attr.NameLoc = position.NewSpan(t.start+m[2], t.start+m[3])
	for g := 3; g <= 5; g++ {
		if m[2*g] < 0 {
			continue
		}
		attr.HasValue = true
		attr.Value = t.text[m[2*g]:m[2*g+1]]
		attr.ValueLoc = position.NewSpan(t.start+m[2*g], t.start+m[2*g+1])
	}
	attr.Dir = parseDirective(attr)
	return attr
}
