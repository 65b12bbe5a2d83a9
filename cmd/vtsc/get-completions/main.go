package get_completions

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/completion"
	"github.com/walteh/vtsc/pkg/position"
)

type Handler struct {
	file   string
	cursor string

	fs     afero.Fs
	stdout io.Writer
}

func NewGetCompletionsCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "get-completions [file] [line:col|offset]",
		Short: "list the names available at a cursor",
	}

	cmd.Args = cobra.ExactArgs(2)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		me.cursor = args[1]
		me.stdout = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	content, err := afero.ReadFile(me.fs, me.file)
	if err != nil {
		return errors.Errorf("reading %s: %w", me.file, err)
	}

	offset, err := position.ParseCursor(me.cursor, string(content))
	if err != nil {
		return err
	}

	res, err := compiler.Compile(ctx, me.file, string(content))
	if err != nil {
		return errors.Errorf("compiling %s: %w", me.file, err)
	}

	items, err := completion.GetCompletions(ctx, res, offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []completion.CompletionItem{}
	}

	enc := json.NewEncoder(me.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return errors.Errorf("writing completions: %w", err)
	}
	return nil
}
