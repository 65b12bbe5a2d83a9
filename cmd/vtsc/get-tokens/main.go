package get_tokens

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/semtok"
)

type Handler struct {
	file    string
	encoded bool

	fs     afero.Fs
	stdout io.Writer
}

func NewGetTokensCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "get-tokens [file]",
		Short: "print the semantic tokens of one component",
	}

	cmd.Flags().BoolVar(&me.encoded, "encoded", false, "print the relative integer encoding with its legend")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		me.stdout = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

type token struct {
	Type      string `json:"type"`
	Modifiers string `json:"modifiers"`
	Offset    int    `json:"offset"`
	Text      string `json:"text"`
}

type encoded struct {
	Legend struct {
		TokenTypes     []string `json:"tokenTypes"`
		TokenModifiers []string `json:"tokenModifiers"`
	} `json:"legend"`
	Data []uint32 `json:"data"`
}

func (me *Handler) Run(ctx context.Context) error {
	content, err := afero.ReadFile(me.fs, me.file)
	if err != nil {
		return errors.Errorf("reading %s: %w", me.file, err)
	}

	tokens, err := semtok.GetTokensForText(ctx, me.file, content)
	if err != nil {
		return err
	}

	var v any
	if me.encoded {
		e := encoded{Data: semtok.Encode(string(content), tokens)}
		e.Legend.TokenTypes, e.Legend.TokenModifiers = semtok.Legend()
		v = e
	} else {
		list := make([]token, 0, len(tokens))
		for _, t := range tokens {
			list = append(list, token{
				Type:      t.Type.String(),
				Modifiers: t.Modifier.String(),
				Offset:    t.Range.Offset,
				Text:      t.Range.Text,
			})
		}
		v = list
	}

	enc := json.NewEncoder(me.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Errorf("writing tokens: %w", err)
	}
	return nil
}
