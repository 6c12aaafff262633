package leakscout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/leakscout/leakscout/internal/log"
	"github.com/leakscout/leakscout/internal/source/factory"
)

// version is overridden at build time with -ldflags "-X ...leakscout.version=v1.2.3".
var version = "0.1.0"

// newSource is replaced in tests with a fake.
var newSource = factory.New

type rootOptions struct {
	logLevel      string
	debug         bool
	noColor       bool
	noUpdateCheck bool
}

// exitCodeError ends the process with code without printing anything.
type exitCodeError struct{ code int }

func (e exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "leakscout",
		Short:         "Find secrets in remote repositories",
		Long:          "leakscout lists a remote repository's files, fetches them with bounded concurrency and reports lines that look like credentials.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "shorthand for --log-level debug")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colorized output")
	cmd.PersistentFlags().BoolVar(&opts.noUpdateCheck, "no-update-check", false, "disable update check")

	cmd.AddCommand(
		newScanCmd(opts),
		newPatternsCmd(),
		newConfigCmd(),
		newCompletionCmd(),
		newVersionCmd(opts),
		newUpdateCmd(),
	)
	return cmd
}

func (o *rootOptions) logger(w io.Writer, noColor bool) (zerolog.Logger, error) {
	level := o.logLevel
	if o.debug {
		level = "debug"
	}
	return log.New(w, level, noColor)
}

// Execute runs the leakscout CLI. It should be called by the main package.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	var ec exitCodeError
	if errors.As(err, &ec) {
		os.Exit(ec.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
