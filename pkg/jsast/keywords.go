package jsast

var keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true,
	"null": true, "true": true, "false": true, "undefined": true,
	"arguments": true,
}

// strictKeywords are additionally reserved in module code.
var strictKeywords = map[string]bool{
	"await": true, "yield": true, "let": true, "static": true, "implements": true,
	"interface": true, "package": true, "private": true, "protected": true,
	"public": true, "enum": true,
}

func isReserved(word string) bool {
	return keywords[word]
}

// IsReserved reports whether word can never name a user binding under the
// given grammar. Such identifiers are skipped by binding analysis.
func IsReserved(word string, module bool) bool {
	if keywords[word] {
		return true
	}
	return module && strictKeywords[word]
}
