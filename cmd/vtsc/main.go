package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	generatecmd "github.com/walteh/vtsc/cmd/vtsc/generate"
	getcompletionscmd "github.com/walteh/vtsc/cmd/vtsc/get-completions"
	getdiagnosticscmd "github.com/walteh/vtsc/cmd/vtsc/get-diagnostics"
	gethovercmd "github.com/walteh/vtsc/cmd/vtsc/get-hover"
	gettokenscmd "github.com/walteh/vtsc/cmd/vtsc/get-tokens"
	vtscdebug "github.com/walteh/vtsc/pkg/debug"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var level string
	var caller bool

	rootCmd := &cobra.Command{
		Use:   "vtsc",
		Short: "Generate type-checkable TypeScript from single file components",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	rootCmd.PersistentFlags().StringVar(&level, "log-level", "warn", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&caller, "log-caller", false, "add the caller to every log line")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return err
		}
		tty := isatty.IsTerminal(os.Stderr.Fd())
		logger := vtscdebug.NewLogger(os.Stderr, vtscdebug.LoggerOptions{
			Level:   lvl,
			Console: tty,
			Color:   tty,
			Caller:  caller,
		})
		cmd.SetContext(logger.WithContext(cmd.Context()))
		return nil
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(generatecmd.NewGenerateCommand())
	rootCmd.AddCommand(getdiagnosticscmd.NewGetDiagnosticsCommand())
	rootCmd.AddCommand(gettokenscmd.NewGetTokensCommand())
	rootCmd.AddCommand(gethovercmd.NewGetHoverCommand())
	rootCmd.AddCommand(getcompletionscmd.NewGetCompletionsCommand())

	rootCmd.SilenceUsage = true

	return rootCmd.ExecuteContext(context.Background())
}
