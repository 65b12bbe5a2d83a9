package get_hover

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/hover"
	"github.com/walteh/vtsc/pkg/position"
)

type Handler struct {
	file   string
	cursor string

	fs     afero.Fs
	stdout io.Writer
}

func NewGetHoverCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "get-hover [file] [line:col|offset]",
		Short: "describe the name under a cursor",
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

type response struct {
	Contents []string       `json:"contents"`
	Range    position.Range `json:"range"`
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

	info, err := hover.BuildHoverResponse(ctx, res, offset)
	if err != nil {
		return err
	}

	var v any
	if info != nil {
		v = response{Contents: info.Content, Range: info.Position.GetRange(res.Source)}
	}

	enc := json.NewEncoder(me.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Errorf("writing hover: %w", err)
	}
	return nil
}
