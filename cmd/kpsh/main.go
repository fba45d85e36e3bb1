// Command kpsh runs the Kamand Prompt terminal in a local shell.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"kpterm/internal/platform"
	"kpterm/internal/session"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type options struct {
	command    string
	contentURL string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "kpsh",
		Short:         "Kamand Prompt terminal for your shell",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.command, "command", "c", "", "run one command and exit")
	cmd.Flags().StringVar(&opts.contentURL, "content-url", "", "override KP_CONTENT_BASE_URL")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func run(ctx context.Context, opts options) error {
	cfg, err := platform.LoadAppConfig()
	if err != nil {
		return err
	}
	level := cfg.Flags.LogLevel
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "kpsh", Level: log.Level(level)})
	slog.SetDefault(slog.New(logger))

	if opts.contentURL != "" {
		cfg.TerminalCfg.Content.BaseURL = opts.contentURL
	}
	d, _, err := platform.NewTerminalDispatcher(*cfg.TerminalCfg)
	if err != nil {
		return err
	}

	r := newREPL(d, session.NewMemoryStore(), os.Stdout)
	if opts.command != "" {
		_, err := r.Step(ctx, opts.command)
		return err
	}
	return r.Loop(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "kpsh:", err)
		os.Exit(1)
	}
}
