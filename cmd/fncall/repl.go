package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rickchristie/fncall/validate"
	"github.com/spf13/cobra"
)

const replPrompt = "fncall> "

// lineReader is the part of *readline.Instance the REPL uses.
type lineReader interface {
	Readline() (string, error)
}

func newReplCmd(root *rootOptions) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Paste model outputs and see how each one validates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := root.validator()
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          replPrompt,
				Stdin:           io.NopCloser(cmd.InOrStdin()),
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return fmt.Errorf("failed to create readline: %w", err)
			}
			defer rl.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Functions: %s\n", strings.Join(v.Catalog().Names(), ", "))
			fmt.Fprintln(cmd.OutOrStdout(), "Paste one model output per line, 'q' to quit.")
			return repl(rl, cmd.OutOrStdout(), v, showDiff)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "show what coercion changed in the arguments")
	return cmd
}

// repl validates one line at a time until EOF, an interrupt or "q".
func repl(rl lineReader, out io.Writer, v *validate.Validator, showDiff bool) error {
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "q", "Q", "quit", "exit":
			return nil
		}

		checkText(out, v, line, showDiff)
		fmt.Fprintln(out)
	}
}
