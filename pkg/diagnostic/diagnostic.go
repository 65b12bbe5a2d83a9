package diagnostic

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/position"
)

// Diagnostics represents diagnostic information that can be formatted in different ways
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Hints    []Diagnostic
}

// Diagnostic is one {kind, start, end} record. Start and End are byte offsets
// into the component source; Line and Column are filled by Locate.
type Diagnostic struct {
	Code     string
	Message  string
	Start    int
	End      int
	Line     int
	Column   int
	EndLine  int
	EndCol   int
	Severity DiagnosticSeverity
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Info    DiagnosticSeverity = "info"
	Hint    DiagnosticSeverity = "hint"
)

func New(sev DiagnosticSeverity, code, msg string, span position.Span) Diagnostic {
	return Diagnostic{Code: code, Message: msg, Start: span.Start, End: span.End, Severity: sev}
}

func (d Diagnostic) Span() position.Span {
	return position.NewSpan(d.Start, d.End)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s] %s (%d,%d)", d.Severity, d.Code, d.Message, d.Start, d.End)
}

// Add files d under its severity.
func (me *Diagnostics) Add(d Diagnostic) {
	switch d.Severity {
	case Error:
		me.Errors = append(me.Errors, d)
	case Warning:
		me.Warnings = append(me.Warnings, d)
	default:
		me.Hints = append(me.Hints, d)
	}
}

// FromItems converts the Error and Warning items of a walk.
func (me *Diagnostics) FromItems(items []item.Item) {
	for _, it := range items {
		switch it := it.(type) {
		case *item.Error:
			me.Add(New(Error, it.Code, it.Message, it.Span()))
		case *item.Warning:
			me.Add(New(Warning, it.Code, it.Message, it.Span()))
		}
	}
}

func (me *Diagnostics) Len() int {
	return len(me.Errors) + len(me.Warnings) + len(me.Hints)
}

// All returns every diagnostic ordered by start offset, errors first on ties.
func (me *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, me.Len())
	out = append(out, me.Errors...)
	out = append(out, me.Warnings...)
	out = append(out, me.Hints...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// Locate fills the zero-based line and column fields from the source text.
func (me *Diagnostics) Locate(src string) {
	for _, list := range [][]Diagnostic{me.Errors, me.Warnings, me.Hints} {
		for i := range list {
			r := position.SpanRange(src, list[i].Span())
			list[i].Line, list[i].Column = r.Start.Line, r.Start.Character
			list[i].EndLine, list[i].EndCol = r.End.Line, r.End.Character
		}
	}
}

// Formatter formats diagnostics into different output formats
type Formatter interface {
	// Format formats diagnostics into a specific output format
	Format(diagnostics *Diagnostics) ([]byte, error)
}

// VSCodeFormatter formats diagnostics into VSCode-compatible format
type VSCodeFormatter struct{}

// NewVSCodeFormatter creates a new VSCodeFormatter
func NewVSCodeFormatter() *VSCodeFormatter {
	return &VSCodeFormatter{}
}

type vscodePlace struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type vscodeRange struct {
	Start vscodePlace `json:"start"`
	End   vscodePlace `json:"end"`
}

type vscodeDiagnostic struct {
	Severity int         `json:"severity"`
	Code     string      `json:"code,omitempty"`
	Source   string      `json:"source"`
	Message  string      `json:"message"`
	Range    vscodeRange `json:"range"`
}

func vscodeSeverity(s DiagnosticSeverity) int {
	switch s {
	case Error:
		return 1
	case Warning:
		return 2
	case Info:
		return 3
	}
	return 4
}

// Format implements Formatter. Line and column fields must already be
// filled by Locate; they are zero-based, as VSCode expects.
func (f *VSCodeFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	result := make([]vscodeDiagnostic, 0, diagnostics.Len())
	for _, d := range diagnostics.All() {
		result = append(result, vscodeDiagnostic{
			Severity: vscodeSeverity(d.Severity),
			Code:     d.Code,
			Source:   "vtsc",
			Message:  d.Message,
			Range: vscodeRange{
				Start: vscodePlace{Line: d.Line, Character: d.Column},
				End:   vscodePlace{Line: d.EndLine, Character: d.EndCol},
			},
		})
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Errorf("marshalling diagnostics: %w", err)
	}
	return out, nil
}

// TextFormatter renders one line per diagnostic, colored by severity. When
// Source is set each line is followed by the offending source line and a
// caret underline.
type TextFormatter struct {
	Filename string
	NoColor  bool
	Source   string
}

func (f *TextFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}
	var lines []string
	if f.Source != "" {
		lines = strings.Split(f.Source, "\n")
	}
	var sb strings.Builder
	for _, d := range diagnostics.All() {
		sev := color.New(severityColor(d.Severity))
		if f.NoColor {
			sev.DisableColor()
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s [%s]\n",
			f.Filename, d.Line+1, d.Column+1, sev.Sprint(d.Severity), d.Message, d.Code)
		if d.Line < len(lines) {
			excerpt, err := underline(lines[d.Line], d)
			if err != nil {
				return nil, err
			}
			sb.WriteString(excerpt)
		}
	}
	return []byte(sb.String()), nil
}

// width counts user-perceived characters.
func width(s string) (int, error) {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return 0, errors.Errorf("segmenting %q: %w", s, err)
	}
	return n, nil
}

func underline(line string, d Diagnostic) (string, error) {
	line = strings.ReplaceAll(strings.TrimRight(line, "\r"), "\t", " ")
	col := min(d.Column, len(line))
	end := len(line)
	if d.EndLine == d.Line {
		end = min(max(d.EndCol, col), len(line))
	}
	pad, err := width(line[:col])
	if err != nil {
		return "", err
	}
	n, err := width(line[col:end])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("    %s\n    %s%s\n", line, strings.Repeat(" ", pad), strings.Repeat("^", max(n, 1))), nil
}

func severityColor(s DiagnosticSeverity) color.Attribute {
	switch s {
	case Error:
		return color.FgRed
	case Warning:
		return color.FgYellow
	case Info:
		return color.FgBlue
	}
	return color.FgHiBlack
}
