/*
Package semtok classifies the items of a compiled component into semantic
tokens for editors.

	source text
	     |
	  compile
	     |
	     v
	+----------+
	|  items   |  bindings, declarations, calls,
	+----------+  elements, directives, literals
	     |
	  classify
	     |
	     v
	+----------+
	|  tokens  |  sorted, one per span
	+----------+
*/
package semtok

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/codegen"
	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/position"
)

// GetTokensForText compiles content and returns its semantic tokens.
//
//	Example:
//	   tokens, err := GetTokensForText(ctx, "App.vue", []byte(src))
//	   if err != nil {
//	       return err
//	   }
func GetTokensForText(ctx context.Context, filename string, content []byte) ([]Token, error) {
	res, err := compiler.Compile(ctx, filename, string(content))
	if err != nil {
		return nil, errors.Errorf("compiling %s: %w", filename, err)
	}
	tokens := Classify(res.Source, res.Items())
	zerolog.Ctx(ctx).Debug().Int("tokens", len(tokens)).Str("file", filename).Msg("classified tokens")
	return tokens, nil
}

// GetTokensForRange returns the tokens overlapping ranged.
func GetTokensForRange(ctx context.Context, filename string, content []byte, ranged *position.RawPosition) ([]Token, error) {
	tokens, err := GetTokensForText(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	if ranged == nil {
		return tokens, nil
	}
	var out []Token
	for _, t := range tokens {
		if t.Range.HasRangeOverlapWith(*ranged) {
			out = append(out, t)
		}
	}
	return out, nil
}

type classifier struct {
	src    string
	tokens map[position.Span]Token
	rank   map[position.Span]int
}

// add records a token; a higher rank replaces a token on the same span.
func (c *classifier) add(span position.Span, typ TokenType, mod TokenModifier, rank int) {
	if span.Len() <= 0 || span.End > len(c.src) {
		return
	}
	if r, ok := c.rank[span]; ok && r >= rank {
		return
	}
	c.rank[span] = rank
	c.tokens[span] = Token{Type: typ, Modifier: mod, Range: position.NewSpanPosition(c.src, span)}
}

// Classify turns items into tokens sorted by offset. Overlapping items of
// the same span resolve to the most specific classification.
func Classify(src string, items []item.Item) []Token {
	c := &classifier{src: src, tokens: map[position.Span]Token{}, rank: map[position.Span]int{}}
	for _, it := range items {
		c.item(it)
	}
	out := make([]Token, 0, len(c.tokens))
	for _, t := range c.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.Offset != out[j].Range.Offset {
			return out[i].Range.Offset < out[j].Range.Offset
		}
		return out[i].Range.Length() < out[j].Range.Length()
	})
	return out
}

func (c *classifier) item(it item.Item) {
	switch x := it.(type) {
	case *item.Binding:
		if x.Synthetic || x.Static {
			return
		}
		switch {
		case x.Scope().Ignores(x.Name):
			c.add(x.Span(), TokenParameter, ModifierNone, 1)
		case x.Ignore:
			c.add(x.Span(), TokenVariable, ModifierStatic, 1)
		default:
			c.add(x.Span(), TokenVariable, ModifierNone, 1)
		}
	case *item.Declaration:
		switch x.DeclKind {
		case "function":
			c.add(x.Span(), TokenFunction, ModifierDeclaration, 3)
		case "class":
			c.add(x.Span(), TokenTypeName, ModifierDeclaration, 3)
		case "const", "import":
			c.add(x.Span(), TokenVariable, ModifierDeclaration|ModifierReadonly, 3)
		default:
			c.add(x.Span(), TokenVariable, ModifierDeclaration, 3)
		}
	case *item.FunctionCall:
		callee := jsast.Unparen(x.Call.Callee)
		span := position.NewSpan(callee.Pos(), callee.End())
		if codegen.IsMacro(x.Name) {
			c.add(span, TokenMacro, ModifierStatic, 2)
		} else {
			c.add(span, TokenFunction, ModifierNone, 2)
		}
	case *item.Literal:
		switch x.Lit.Kind {
		case jsast.LitString:
			c.add(x.Span(), TokenString, ModifierNone, 1)
		case jsast.LitNumber, jsast.LitBigInt:
			c.add(x.Span(), TokenNumber, ModifierNone, 1)
		case jsast.LitRegExp:
			c.add(x.Span(), TokenRegexp, ModifierNone, 1)
		default:
			c.add(x.Span(), TokenKeyword, ModifierNone, 1)
		}
	case *item.Async:
		span := x.Span()
		if i := strings.Index(span.Text(c.src), "await"); i >= 0 {
			c.add(position.NewSpan(span.Start+i, span.Start+i+len("await")), TokenKeyword, ModifierAsync, 2)
		}
	case *item.Element:
		if x.Component {
			c.tag(x.Element)
		}
	case *item.Condition:
		for _, name := range []string{"if", "else-if", "else"} {
			if d := x.Ref.Element.Directive(name); d != nil {
				c.directive(d)
			}
		}
	case *item.Loop:
		c.directive(x.Dir)
	case *item.Prop:
		if x.Dir != nil {
			c.directive(x.Dir)
		}
	case *item.Directive:
		c.directive(x.Dir)
	case *item.SlotRender:
		if x.Dir != nil {
			c.directive(x.Dir)
		}
	}
}

func (c *classifier) tag(el *markup.Element) {
	c.add(el.TagName, TokenTypeName, ModifierNone, 2)
	if el.Close.IsZero() {
		return
	}
	// `</Name>`
	start := el.Close.Start + 2
	c.add(position.NewSpan(start, start+len(el.Tag)), TokenTypeName, ModifierNone, 2)
}

// directive classifies the name of a directive attribute and its static
// argument.
func (c *classifier) directive(d *markup.Directive) {
	name := d.Attr.NameLoc
	end := name.End
	if d.Arg != "" && !d.ArgLoc.IsZero() {
		end = d.ArgLoc.Start
	}
	head := position.NewSpan(name.Start, end)
	text := head.Text(c.src)
	trimmed := strings.TrimRight(text, ":[")
	if trimmed == "" && text != "" {
		// shorthand marker
		trimmed = text[:1]
	}
	head.End = head.Start + len(trimmed)
	c.add(head, TokenDecorator, ModifierNone, 2)
	if d.Arg != "" && !d.Dynamic {
		c.add(d.ArgLoc, TokenProperty, ModifierNone, 2)
	}
}

// Encode converts tokens to the relative line/character form language
// clients consume: five integers per token. Tokens spanning lines are
// dropped.
func Encode(src string, tokens []Token) []uint32 {
	out := make([]uint32, 0, len(tokens)*5)
	prevLine, prevCol := 0, 0
	for _, t := range tokens {
		if strings.Contains(t.Range.Text, "\n") {
			continue
		}
		line, col := t.Range.GetLineAndColumn(src)
		deltaCol := col
		if line == prevLine {
			deltaCol = col - prevCol
		}
		out = append(out,
			uint32(line-prevLine),
			uint32(deltaCol),
			uint32(t.Range.Length()),
			uint32(t.Type),
			uint32(t.Modifier),
		)
		prevLine, prevCol = line, col
	}
	return out
}
