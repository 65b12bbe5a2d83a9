package jsast

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Options control a single parse.
type Options struct {
	// Base is added to every offset.
	Base int
	// TypeScript enables type annotations, type arguments and type declarations.
	TypeScript bool
	// Module enables module grammar: top-level await and import/export.
	Module bool
}

// SyntaxError is returned by the strict entry points.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// ParseProgram parses a statement list. It fails on the first syntax error.
func ParseProgram(text string, opts Options) (*Program, error) {
	p, err := newParser(text, opts, false)
	if err != nil {
		return nil, err
	}
	prog := p.parseProgram()
	if p.err != nil {
		return nil, errors.WithStack(p.err)
	}
	return prog, nil
}

// ParseExpression parses a single expression that must span the whole text
// (surrounding whitespace and comments are allowed).
func ParseExpression(text string, opts Options) (Node, error) {
	p, err := newParser(text, opts, false)
	if err != nil {
		return nil, err
	}
	expr := p.parseExpression()
	if p.err == nil && p.tok().Kind != TokEOF {
		p.fail("unexpected %q after expression", p.tok().Text)
	}
	if p.err != nil {
		return nil, errors.WithStack(p.err)
	}
	return expr, nil
}

// ParseProgramTolerant never fails. Statements that do not parse are replaced
// with BadNode entries that still carry the identifier references found in
// the skipped tokens.
func ParseProgramTolerant(text string, opts Options) *Program {
	p, err := newParser(text, opts, true)
	if err != nil {
		return &Program{
			Loc:    Loc{Start: opts.Base, Stop: opts.Base + len(text)},
			Module: opts.Module,
			Body:   []Node{&BadNode{Loc: Loc{Start: opts.Base, Stop: opts.Base + len(text)}}},
		}
	}
	return p.parseProgram()
}

// ParseExpressionTolerant never fails. When the text is not a valid
// expression the result is a BadNode with the recovered identifiers.
func ParseExpressionTolerant(text string, opts Options) Node {
	if expr, err := ParseExpression(text, opts); err == nil {
		return expr
	}
	toks, err := Tokenize(text, opts.Base)
	if err != nil {
		return &BadNode{Loc: Loc{Start: opts.Base, Stop: opts.Base + len(text)}}
	}
	return &BadNode{
		Loc:    Loc{Start: opts.Base, Stop: opts.Base + len(text)},
		Idents: recoverIdents(toks),
	}
}

// ParseParams parses a parenthesis-free parameter list such as the alias part
// of a loop expression: `item, index` or `{ id, name }, i`.
func ParseParams(text string, opts Options) ([]Node, error) {
	wrapped := "(" + text + ")=>0"
	inner := opts
	inner.Base = opts.Base - 1
	fn, err := ParseExpression(wrapped, inner)
	if err != nil {
		return nil, err
	}
	arrow, ok := fn.(*Function)
	if !ok || arrow.Kind != FuncArrow {
		return nil, errors.WithStack(&SyntaxError{Offset: opts.Base, Msg: "not a parameter list"})
	}
	return arrow.Params, nil
}

func recoverIdents(toks []Token) []*Ident {
	var out []*Ident
	for i, tok := range toks {
		if tok.Kind != TokIdent {
			continue
		}
		if i > 0 && toks[i-1].Kind == TokPunct && (toks[i-1].Text == "." || toks[i-1].Text == "?.") {
			continue
		}
		if i+1 < len(toks) && toks[i+1].Kind == TokPunct && toks[i+1].Text == ":" {
			// object key
			continue
		}
		out = append(out, &Ident{Loc: Loc{Start: tok.Start, Stop: tok.End}, Name: tok.Text})
	}
	return out
}
