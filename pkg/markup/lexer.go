// Package markup parses component templates into an offset-annotated tree of
// elements, interpolations, text and comments, and decodes directive
// attributes.
package markup

import (
	"github.com/alecthomas/participle/v2/lexer"
	"gitlab.com/tozd/go/errors"
)

var (
	// LexerRules splits template text into tags, interpolations, comments and
	// text. An attribute, including its `=value` part, is a single token.
	LexerRules = lexer.Rules{
		"Root": {
			{Name: "Comment", Pattern: `<!--[\s\S]*?-->|<!--[\s\S]*`, Action: nil},
			{Name: "CloseTag", Pattern: `</[a-zA-Z][^\s/>]*\s*>`, Action: nil},
			{Name: "TagOpen", Pattern: `<[a-zA-Z][^\s/>]*`, Action: lexer.Push("Tag")},
			{Name: "InterpStart", Pattern: `\{\{`, Action: lexer.Push("Interp")},
			{Name: "Text", Pattern: `[^<{]+|\{|<`, Action: nil},
		},
		"Tag": {
			{Name: "Whitespace", Pattern: `\s+`, Action: nil},
			{Name: "SelfClose", Pattern: `/>`, Action: lexer.Pop()},
			{Name: "TagEnd", Pattern: `>`, Action: lexer.Pop()},
			{Name: "Attr", Pattern: `[^\s"'>/=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'=<>\x60]+))?`, Action: nil},
			{Name: "Char", Pattern: `[\s\S]`, Action: nil},
		},
		"Interp": {
			{Name: "InterpEnd", Pattern: `\}\}`, Action: lexer.Pop()},
			{Name: "InterpText", Pattern: `[^}]+|\}`, Action: nil},
		},
	}

	// TemplateLexer is the stateful lexer for component templates.
	TemplateLexer = lexer.MustStateful(LexerRules)
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokComment
	tokCloseTag
	tokTagOpen
	tokInterpStart
	tokText
	tokWhitespace
	tokSelfClose
	tokTagEnd
	tokAttr
	tokChar
	tokInterpEnd
	tokInterpText
)

type token struct {
	kind  tokenKind
	text  string
	start int
}

func (t token) end() int { return t.start + len(t.text) }

var kindByType = func() map[lexer.TokenType]tokenKind {
	symbols := TemplateLexer.Symbols()
	return map[lexer.TokenType]tokenKind{
		symbols["EOF"]:         tokEOF,
		symbols["Comment"]:     tokComment,
		symbols["CloseTag"]:    tokCloseTag,
		symbols["TagOpen"]:     tokTagOpen,
		symbols["InterpStart"]: tokInterpStart,
		symbols["Text"]:        tokText,
		symbols["Whitespace"]:  tokWhitespace,
		symbols["SelfClose"]:   tokSelfClose,
		symbols["TagEnd"]:      tokTagEnd,
		symbols["Attr"]:        tokAttr,
		symbols["Char"]:        tokChar,
		symbols["InterpEnd"]:   tokInterpEnd,
		symbols["InterpText"]:  tokInterpText,
	}
}()

func tokenize(text string, base int) ([]token, error) {
	lex, err := TemplateLexer.LexString("", text)
	if err != nil {
		return nil, errors.Errorf("starting template lexer: %w", err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Errorf("lexing template: %w", err)
	}
	out := make([]token, 0, len(raw))
	for _, tok := range raw {
		kind := kindByType[tok.Type]
		start := base + tok.Pos.Offset
		if kind == tokEOF {
			start = base + len(text)
		}
		out = append(out, token{kind: kind, text: tok.Value, start: start})
	}
	if len(out) == 0 || out[len(out)-1].kind != tokEOF {
		out = append(out, token{kind: tokEOF, start: base + len(text)})
	}
	return out, nil
}
