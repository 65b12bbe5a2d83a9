// Package diff renders readable mismatches for tests of generated code.
package diff

import (
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"
)

func annotate(d string) string {
	if d == "" {
		return ""
	}
	str := "\n\n"
	str += "to convert ACTUAL ⏩️ EXPECTED:\n\n"
	str += "add:    ➕\n"
	str += "remove: ➖\n"
	str += "\n"
	str += strings.ReplaceAll(strings.ReplaceAll("\n"+d, "\n-", "\n➖"), "\n+", "\n➕")
	return str
}

// Text compares two documents line by line. It returns "" when they are
// equal.
func Text(want, got string) string {
	if want == got {
		return ""
	}
	return annotate(diff.Diff(got, want))
}

// DiffExportedOnly pretty prints both values, ignoring unexported fields,
// and compares the printouts.
func DiffExportedOnly[T any](want T, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)
	return annotate(diff.Diff(printer.Sprint(got), printer.Sprint(want)))
}
