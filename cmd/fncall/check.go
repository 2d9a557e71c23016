package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rickchristie/fncall/extract"
	"github.com/rickchristie/fncall/report"
	"github.com/rickchristie/fncall/validate"
	"github.com/spf13/cobra"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Validate one model output read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := root.validator()
			if err != nil {
				return err
			}

			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !checkText(out, v, text, showDiff) {
				return errRejected
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "show what coercion changed in the arguments")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// checkText validates text and prints either the coerced call or the rejection
// as YAML. Reports whether the text was accepted.
func checkText(out io.Writer, v *validate.Validator, text string, showDiff bool) bool {
	result, err := v.ValidateText(text)
	if err != nil {
		printYAML(out, report.Reject(err))
		return false
	}

	printYAML(out, result)
	if showDiff {
		if candidate, err := parseCandidate(text); err == nil {
			fmt.Fprint(out, report.Diff(candidate, result))
		}
	}
	return true
}

func parseCandidate(text string) (any, error) {
	candidate, err := extract.Parse(text)
	if err != nil {
		// ValidateText accepted the text, so it needed repairing.
		return extract.ParseRepair(text)
	}
	return candidate, nil
}

func printYAML(out io.Writer, v any) {
	doc, err := report.YAML(v)
	if err != nil {
		fmt.Fprintf(out, "(failed to render: %v)\n", err)
		return
	}
	fmt.Fprint(out, doc)
}
