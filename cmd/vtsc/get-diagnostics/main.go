package get_diagnostics

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/config"
	"github.com/walteh/vtsc/pkg/diagnostic"
)

type Handler struct {
	file       string
	configPath string
	format     string // vscode, text
	noColor    bool

	fs     afero.Fs
	stdout io.Writer
}

func NewGetDiagnosticsCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "get-diagnostics [file]",
		Short: "print the diagnostics of one component",
	}

	cmd.Flags().StringVar(&me.format, "format", "vscode", "the format of the diagnostics: vscode or text")
	cmd.Flags().StringVar(&me.configPath, "config", "", "configuration file")
	cmd.Flags().BoolVar(&me.noColor, "no-color", false, "disable colors in the text format")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		me.stdout = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) formatter() (diagnostic.Formatter, error) {
	switch me.format {
	case "vscode":
		return diagnostic.NewVSCodeFormatter(), nil
	case "text":
		return &diagnostic.TextFormatter{Filename: me.file, NoColor: me.noColor}, nil
	}
	return nil, errors.Errorf("unknown format %q", me.format)
}

func (me *Handler) Run(ctx context.Context) error {
	formatter, err := me.formatter()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if me.configPath != "" {
		if cfg, err = config.Load(me.fs, me.configPath); err != nil {
			return errors.Errorf("loading configuration: %w", err)
		}
	}

	content, err := afero.ReadFile(me.fs, me.file)
	if err != nil {
		return errors.Errorf("reading %s: %w", me.file, err)
	}

	res, err := compiler.New(cfg.CompilerOptions()).Compile(ctx, me.file, string(content))
	if err != nil {
		return errors.Errorf("compiling %s: %w", me.file, err)
	}

	if tf, ok := formatter.(*diagnostic.TextFormatter); ok {
		tf.Source = res.Source
	}

	out, err := formatter.Format(&res.Diagnostics)
	if err != nil {
		return errors.Errorf("formatting diagnostics: %w", err)
	}
	if _, err := me.stdout.Write(out); err != nil {
		return errors.Errorf("writing diagnostics: %w", err)
	}
	return nil
}
