package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rickchristie/fncall"
	"github.com/rickchristie/fncall/catalog"
	"github.com/rickchristie/fncall/hooks"
	"github.com/rickchristie/fncall/validate"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	functions string
	repair    bool
	logLevel  string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fncall",
		Short:         "Validate and coerce LLM function calls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := hooks.LevelFromEnv()
			if opts.logLevel != "" {
				level = hooks.ParseLevel(opts.logLevel)
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.functions, "functions", "f", "", "function definitions file (.json, .yaml)")
	flags.BoolVar(&opts.repair, "repair", false, "repair malformed JSON before validating")
	flags.StringVar(&opts.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (default $"+hooks.EnvLogLevel+" or INFO)")

	cmd.AddCommand(
		newRunCmd(opts),
		newCheckCmd(opts),
		newReplCmd(opts),
		newTokenizeCmd(),
	)
	return cmd
}

// validator loads the function definitions and returns a validator for them.
func (o *rootOptions) validator() (*validate.Validator, error) {
	if o.functions == "" {
		return nil, errors.New("--functions is required")
	}
	cat, err := catalog.LoadFile(o.functions)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("function definitions loaded", "path", o.functions, "functions", cat.Len())
	return validate.New(cat).WithRepair(o.repair), nil
}

// exitCode prints err and maps it to a process exit code. Invalid function
// definitions abort with exitError; a printed rejection exits with
// exitRejected.
func exitCode(err error, stderr io.Writer) int {
	if errors.Is(err, errRejected) {
		return exitRejected
	}
	if errors.Is(err, fncall.ErrSchemaBuild) {
		fmt.Fprintf(stderr, "Error: invalid function definitions: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitError
}
