package semtok

import (
	"github.com/walteh/vtsc/pkg/position"
)

// TokenType represents the semantic meaning of a token
type TokenType uint32

const (
	// TokenVariable is a name resolved by the script or the component context
	TokenVariable TokenType = iota
	// TokenParameter is a loop alias or slot parameter
	TokenParameter
	TokenFunction
	// TokenMacro is a compiler macro call such as defineProps
	TokenMacro
	TokenKeyword
	TokenString
	TokenNumber
	// TokenTypeName is a component tag or class
	TokenTypeName
	// TokenDecorator is a directive name or shorthand
	TokenDecorator
	TokenProperty
	TokenRegexp
)

// TokenModifier is a bit set of token characteristics
type TokenModifier uint32

const (
	ModifierNone        TokenModifier = 0
	ModifierDeclaration TokenModifier = 1 << (iota - 1)
	ModifierReadonly
	ModifierStatic
	ModifierAsync
)

// Token represents a semantic token in a component source unit
type Token struct {
	Type     TokenType
	Modifier TokenModifier
	Range    position.RawPosition
}

var typeNames = []string{
	TokenVariable:  "variable",
	TokenParameter: "parameter",
	TokenFunction:  "function",
	TokenMacro:     "macro",
	TokenKeyword:   "keyword",
	TokenString:    "string",
	TokenNumber:    "number",
	TokenTypeName:  "type",
	TokenDecorator: "decorator",
	TokenProperty:  "property",
	TokenRegexp:    "regexp",
}

var modifierNames = []string{"declaration", "readonly", "static", "async"}

func (t TokenType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

func (m TokenModifier) String() string {
	if m == ModifierNone {
		return "none"
	}
	out := ""
	for i, name := range modifierNames {
		if m&(1<<i) != 0 {
			if out != "" {
				out += "|"
			}
			out += name
		}
	}
	if out == "" {
		return "unknown"
	}
	return out
}

// Legend returns the token type and modifier names in the order their
// numeric values index, as a language client expects them.
func Legend() (types []string, modifiers []string) {
	return append([]string(nil), typeNames...), append([]string(nil), modifierNames...)
}
