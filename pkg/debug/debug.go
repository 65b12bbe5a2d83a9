// Package debug builds the zerolog logger the command line tools run with.
package debug

import (
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

type LoggerOptions struct {
	Level zerolog.Level
	// Console writes human readable lines instead of JSON.
	Console bool
	Color   bool
	// Caller adds the package, file and line of the log call.
	Caller bool
	// TimeFormat overrides the millisecond UTC default.
	TimeFormat string
}

// NewLogger returns a logger tagged with a fresh run id so that the lines of
// one invocation can be told apart in a shared log.
func NewLogger(w io.Writer, opts LoggerOptions) zerolog.Logger {
	if opts.Console {
		w = zerolog.ConsoleWriter{
			Out:          w,
			NoColor:      !opts.Color,
			PartsExclude: []string{zerolog.TimestampFieldName},
		}
	}
	logger := zerolog.New(w).Level(opts.Level).
		Hook(CustomTimeHook{Format: opts.TimeFormat}).
		With().Str("run", xid.New().String()).Logger()
	if opts.Caller {
		logger = logger.Hook(CustomCallerHook{WithColor: opts.Color && opts.Console})
	}
	return logger
}

func callerSkipFrames(e *zerolog.Event) int {
	// zerolog keeps the skip count unexported
	field := reflect.ValueOf(e).Elem().FieldByName("skipFrame")
	if field.IsValid() {
		return int(field.Int())
	}
	return 0
}

type CustomTimeHook struct {
	Format string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		format = "2006-01-02T15:04:05.0000Z"
	}
	e.Str("time", time.Now().UTC().Format(format))
}

type CustomCallerHook struct {
	WithColor bool
}

func (c CustomCallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(callerSkipFrames(e) + 3)
	if !ok {
		return
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return
	}
	pkg, _ := GetPackageAndFuncFromFuncName(fn.Name())
	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

// GetPackageAndFuncFromFuncName splits a runtime function name such as
// `github.com/a/b.(*T).M` into `github.com/a/b` and `(*T).M`.
func GetPackageAndFuncFromFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}
	firstDot := strings.IndexByte(name[lastSlash:], '.')
	if firstDot < 0 {
		return name, ""
	}
	firstDot += lastSlash
	pkg, function = name[:firstDot], name[firstDot+1:]
	if before, after, ok := strings.Cut(pkg, ".("); ok {
		pkg = before
		function = "(" + after + "." + function
	}
	return pkg, function
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		file = path[i+1:]
	}
	if colorize {
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep,
			color.New(color.Bold).Sprint(file), sep,
			color.New(color.FgHiRed, color.Bold).Sprintf("%d", line))
	}
	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}
