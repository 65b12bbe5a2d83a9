package generate

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/config"
	"github.com/walteh/vtsc/pkg/diagnostic"
	"github.com/walteh/vtsc/pkg/finder"
)

type Handler struct {
	dir         string
	configPath  string
	outDir      string
	concurrency int
	check       bool
	noColor     bool

	fs     afero.Fs
	finder finder.ComponentFinder
	stdout io.Writer
	stderr io.Writer
}

func NewGenerateCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "write the options and bundle documents of every component below dir",
	}

	cmd.Flags().StringVar(&me.configPath, "config", "", "configuration file, found in dir when empty")
	cmd.Flags().StringVar(&me.outDir, "out-dir", "", "directory for the generated documents, relative to dir; overrides the configuration")
	cmd.Flags().IntVar(&me.concurrency, "concurrency", runtime.GOMAXPROCS(0), "number of components compiled at once")
	cmd.Flags().BoolVar(&me.check, "check", false, "fail when any component has error diagnostics")
	cmd.Flags().BoolVar(&me.noColor, "no-color", false, "disable colored diagnostics")
	cmd.Args = cobra.MaximumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.dir = "."
		if len(args) > 0 {
			me.dir = args[0]
		}
		me.stdout, me.stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
		return me.Run(cmd.Context())
	}

	return cmd
}

type fileResult struct {
	file   finder.FileInfo
	result *compiler.Result
	err    error
}

func (me *Handler) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	cfg, cfgPath, err := config.Resolve(me.fs, me.dir, me.configPath)
	if err != nil {
		return errors.Errorf("loading configuration: %w", err)
	}
	outDir := cfg.OutDir
	if me.outDir != "" {
		outDir = me.outDir
	}
	logger.Debug().Str("config", cfgPath).Str("out_dir", outDir).Msg("resolved configuration")

	find := me.finder
	if find == nil {
		find = finder.NewDefaultFinder(me.fs)
	}
	files, err := find.FindComponents(ctx, me.dir, cfg.Include, cfg.Exclude)
	if err != nil && len(files) == 0 {
		return errors.Errorf("finding components: %w", err)
	}
	readErr := err

	comp := compiler.New(cfg.CompilerOptions())
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if me.concurrency > 0 {
		g.SetLimit(me.concurrency)
	}
	for i, f := range files {
		g.Go(func() error {
			res, err := comp.Compile(gctx, f.Path, string(f.Content))
			if err != nil {
				// only a broken configuration fails a compile
				return errors.Errorf("compiling %s: %w", f.Path, err)
			}
			results[i] = fileResult{file: f, result: res, err: me.write(gctx, outDir, f, res)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var errs error
	counts := map[diagnostic.DiagnosticSeverity]int{}
	for _, r := range results {
		errs = multierr.Append(errs, r.err)
		if r.result.Diagnostics.Len() == 0 {
			continue
		}
		counts[diagnostic.Error] += len(r.result.Diagnostics.Errors)
		counts[diagnostic.Warning] += len(r.result.Diagnostics.Warnings)
		f := &diagnostic.TextFormatter{Filename: r.file.Path, NoColor: me.noColor, Source: r.result.Source}
		out, err := f.Format(&r.result.Diagnostics)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		_, _ = me.stderr.Write(out)
	}

	summary := color.New(color.FgGreen)
	if counts[diagnostic.Error] > 0 {
		summary = color.New(color.FgRed)
	}
	if me.noColor {
		summary.DisableColor()
	}
	fmt.Fprintln(me.stdout, summary.Sprintf("generated %d components, %d errors, %d warnings",
		len(files), counts[diagnostic.Error], counts[diagnostic.Warning]))

	errs = multierr.Append(errs, readErr)
	if errs != nil {
		return errors.Errorf("generating: %w", errs)
	}
	if me.check && counts[diagnostic.Error] > 0 {
		return errors.Errorf("%d error diagnostics", counts[diagnostic.Error])
	}
	return nil
}

// target returns where a document of f is written. Documents sit next to
// their source unless an output directory mirrors the tree.
func target(dir, outDir string, f finder.FileInfo, res *compiler.Result, doc compiler.Document) string {
	if outDir == "" {
		return doc.Name
	}
	suffix := strings.TrimPrefix(doc.Name, res.Filename)
	return filepath.Join(dir, outDir, filepath.FromSlash(f.Rel)) + suffix
}

func (me *Handler) write(ctx context.Context, outDir string, f finder.FileInfo, res *compiler.Result) error {
	var errs error
	for _, doc := range []compiler.Document{res.Options, res.Bundle} {
		path := target(me.dir, outDir, f, res, doc)
		text := doc.Text
		def, err := loadEditorConfig(me.fs, path)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("ignoring editorconfig")
		} else {
			text = applyEditorConfig(text, def)
		}
		if err := me.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			errs = multierr.Append(errs, errors.Errorf("creating directory for %s: %w", path, err))
			continue
		}
		if err := me.replace(path, []byte(text)); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(text)).Msg("wrote document")
	}
	return errs
}

// replace swaps in the new content through a temporary sibling so editors
// watching path never see a half written document.
func (me *Handler) replace(path string, content []byte) error {
	tmp := path + ".vtsc-" + uuid.NewString() + ".tmp"
	if err := afero.WriteFile(me.fs, tmp, content, 0o644); err != nil {
		return errors.Errorf("writing %s: %w", tmp, err)
	}
	if err := me.fs.Rename(tmp, path); err != nil {
		_ = me.fs.Remove(tmp)
		return errors.Errorf("renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}

func applyEditorConfig(text string, def *editorconfig.Definition) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if def.InsertFinalNewline != nil && !*def.InsertFinalNewline {
		text = strings.TrimRight(text, "\n")
	}
	switch def.EndOfLine {
	case editorconfig.EndOfLineCrLf:
		text = strings.ReplaceAll(text, "\n", "\r\n")
	case editorconfig.EndOfLineCr:
		text = strings.ReplaceAll(text, "\n", "\r")
	}
	return text
}
