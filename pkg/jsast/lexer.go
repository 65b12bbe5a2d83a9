package jsast

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"gitlab.com/tozd/go/errors"
)

var (
	// LexerRules tokenizes JavaScript and TypeScript. Template literals and
	// braces push states so `}` inside `${...}` is matched against the right
	// opener. `>` is always lexed alone; the parser glues `>=`, `>>` and `>>>`
	// back together so that nested type arguments close correctly.
	LexerRules = lexer.Rules{
		"Root": {
			{Name: "RBrace", Pattern: `\}`, Action: nil},
			lexer.Include("Common"),
		},
		"Brace": {
			{Name: "RBrace", Pattern: `\}`, Action: lexer.Pop()},
			lexer.Include("Common"),
		},
		"TemplateExpr": {
			{Name: "TemplateExprEnd", Pattern: `\}`, Action: lexer.Pop()},
			lexer.Include("Common"),
		},
		"Template": {
			{Name: "TemplateEnd", Pattern: `\x60`, Action: lexer.Pop()},
			{Name: "TemplateExprStart", Pattern: `\$\{`, Action: lexer.Push("TemplateExpr")},
			{Name: "TemplateChars", Pattern: `(?:\\[\s\S]|\$[^{\x60]|[^\x60\\$])+|\$`, Action: nil},
		},
		"Common": {
			{Name: "Whitespace", Pattern: `[\s\x{00a0}\x{feff}]+`, Action: nil},
			{Name: "LineComment", Pattern: `//[^\n]*`, Action: nil},
			{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`, Action: nil},
			{Name: "String", Pattern: `"(?:\\[\s\S]|[^"\\\n])*"|'(?:\\[\s\S]|[^'\\\n])*'`, Action: nil},
			{Name: "TemplateStart", Pattern: `\x60`, Action: lexer.Push("Template")},
			{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+n?|0[oO][0-7_]+n?|0[bB][01_]+n?|(?:\d[\d_]*(?:\.[\d_]*)?|\.\d[\d_]*)(?:[eE][+-]?\d+)?n?`, Action: nil},
			{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$\x{200c}\x{200d}]*`, Action: nil},
			{Name: "Private", Pattern: `#[\p{L}_$][\p{L}\p{N}_$]*`, Action: nil},
			{Name: "LBrace", Pattern: `\{`, Action: lexer.Push("Brace")},
			{Name: "Punct", Pattern: `\.\.\.|===|!==|\*\*=|<<=|&&=|\|\|=|\?\?=|=>|==|!=|<=|\+\+|--|\+=|-=|\*=|/=|%=|&=|\|=|\^=|&&|\|\||\?\?|\?\.|\*\*|<<|[-+*/%&|^!~?:;,.=<>()\[\]@]`, Action: nil},
			{Name: "Unknown", Pattern: `[\s\S]`, Action: nil},
		},
	}

	// ScriptLexer is the stateful lexer definition shared by every parse.
	ScriptLexer = lexer.MustStateful(LexerRules)
)

type TokenKind uint8

const (
	TokEOF TokenKind = iota
	TokIdent
	TokPrivate
	TokString
	TokNumber
	TokPunct
	TokLBrace
	TokRBrace
	TokTemplateStart
	TokTemplateChars
	TokTemplateExprStart
	TokTemplateExprEnd
	TokTemplateEnd
	TokUnknown
	// TokRegex is a regular expression literal, body and flags included
	TokRegex
)

// Token is a significant token; whitespace and comments are folded into the
// NewlineBefore flag.
type Token struct {
	Kind          TokenKind
	Text          string
	Start         int
	End           int
	NewlineBefore bool
}

var kindBySymbol = func() map[lexer.TokenType]TokenKind {
	symbols := ScriptLexer.Symbols()
	return map[lexer.TokenType]TokenKind{
		symbols["EOF"]:               TokEOF,
		symbols["Ident"]:             TokIdent,
		symbols["Private"]:           TokPrivate,
		symbols["String"]:            TokString,
		symbols["Number"]:            TokNumber,
		symbols["Punct"]:             TokPunct,
		symbols["LBrace"]:            TokLBrace,
		symbols["RBrace"]:            TokRBrace,
		symbols["TemplateStart"]:     TokTemplateStart,
		symbols["TemplateChars"]:     TokTemplateChars,
		symbols["TemplateExprStart"]: TokTemplateExprStart,
		symbols["TemplateExprEnd"]:   TokTemplateExprEnd,
		symbols["TemplateEnd"]:       TokTemplateEnd,
		symbols["Unknown"]:           TokUnknown,
	}
}()

var trivia = func() map[lexer.TokenType]bool {
	symbols := ScriptLexer.Symbols()
	return map[lexer.TokenType]bool{
		symbols["Whitespace"]:   true,
		symbols["LineComment"]:  true,
		symbols["BlockComment"]: true,
	}
}()

// Tokenize lexes text and returns significant tokens with offsets shifted by
// base. The final token is always TokEOF.
//
// A `/` where an operand is expected starts a regular expression literal. The
// rules above cannot see the previous token, so the literal is scanned by hand
// and lexing resumes after it with the open delimiters replayed.
func Tokenize(text string, base int) ([]Token, error) {
	var (
		tokens  []Token
		open    []string
		newline bool
		offset  int
	)
	for {
		prefix := strings.Join(open, "")
		raw, err := lexAll(prefix + text[offset:])
		if err != nil {
			return nil, err
		}
		shift := offset - len(prefix)
		resume := -1
		for _, tok := range raw {
			if tok.Pos.Offset < len(prefix) {
				continue
			}
			if trivia[tok.Type] {
				if containsNewline(tok.Value) {
					newline = true
				}
				continue
			}
			kind, ok := kindBySymbol[tok.Type]
			if !ok {
				kind = TokUnknown
			}
			start := shift + tok.Pos.Offset
			if kind == TokEOF {
				start = len(text)
			}
			if kind == TokPunct && (tok.Value == "/" || tok.Value == "/=") && regexAllowed(tokens) {
				if end, ok := scanRegex(text, start); ok {
					tokens = append(tokens, Token{Kind: TokRegex, Text: text[start:end], Start: base + start, End: base + end, NewlineBefore: newline})
					newline = false
					resume = end
					break
				}
			}
			open = track(open, kind)
			tokens = append(tokens, Token{
				Kind:          kind,
				Text:          tok.Value,
				Start:         base + start,
				End:           base + start + len(tok.Value),
				NewlineBefore: newline,
			})
			newline = false
		}
		if resume < 0 {
			break
		}
		offset = resume
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokEOF {
		tokens = append(tokens, Token{Kind: TokEOF, Start: base + len(text), End: base + len(text), NewlineBefore: newline})
	}
	return tokens, nil
}

func lexAll(text string) ([]lexer.Token, error) {
	lex, err := ScriptLexer.LexString("", text)
	if err != nil {
		return nil, errors.Errorf("starting lexer: %w", err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Errorf("lexing: %w", err)
	}
	return raw, nil
}

// track keeps the text that reopens every delimiter the lexer has pushed.
func track(open []string, kind TokenKind) []string {
	switch kind {
	case TokLBrace:
		return append(open, "{")
	case TokTemplateStart:
		return append(open, "`")
	case TokTemplateExprStart:
		return append(open, "${")
	case TokRBrace, TokTemplateExprEnd, TokTemplateEnd:
		if len(open) > 0 {
			return open[:len(open)-1]
		}
	}
	return open
}

var regexAfterWord = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// regexAllowed reports whether the token after tokens is in operand position.
func regexAllowed(tokens []Token) bool {
	if len(tokens) == 0 {
		return true
	}
	prev := tokens[len(tokens)-1]
	switch prev.Kind {
	case TokIdent:
		return regexAfterWord[prev.Text]
	case TokPunct:
		switch prev.Text {
		case ")", "]", "++", "--":
			return false
		}
		return true
	case TokLBrace, TokRBrace, TokTemplateExprStart:
		return true
	}
	return false
}

// scanRegex returns the end offset of the regular expression literal that
// starts with the `/` at text[start].
func scanRegex(text string, start int) (int, bool) {
	inClass := false
	i := start + 1
	for ; ; i++ {
		if i >= len(text) {
			return 0, false
		}
		switch text[i] {
		case '\n', '\r':
			return 0, false
		case '\\':
			i++
			continue
		case '[':
			inClass = true
			continue
		case ']':
			inClass = false
			continue
		case '/':
			if inClass {
				continue
			}
		default:
			continue
		}
		break
	}
	i++
	for i < len(text) && isFlag(text[i]) {
		i++
	}
	return i, true
}

func isFlag(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func containsNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n', '\r':
			return true
		}
	}
	return false
}
