package main

import (
	"fmt"
	"os"

	"github.com/rickchristie/fncall/hooks"
	"github.com/rickchristie/fncall/models"
	"github.com/rickchristie/fncall/report"
	"github.com/rickchristie/fncall/runner"
	"github.com/rickchristie/fncall/tokenizer"
	"github.com/spf13/cobra"
)

type runOptions struct {
	input       string
	output      string
	attempts    int
	concurrency int
	noFeedback  bool
	maxTokens   int
	eventLog    string
	vocab       string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	defaults := runner.DefaultConfig()
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ask the model for a function call per prompt and write the accepted calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "prompts file (JSON array)")
	flags.StringVarP(&opts.output, "output", "o", "", "results file (JSON array)")
	flags.IntVar(&opts.attempts, "attempts", defaults.MaxAttempts, "model calls per prompt")
	flags.IntVar(&opts.concurrency, "concurrency", defaults.Concurrency, "prompts processed at once")
	flags.BoolVar(&opts.noFeedback, "no-feedback", false, "do not show rejection reasons to the model on retry")
	flags.IntVar(&opts.maxTokens, "max-tokens", 512, "maximum tokens per model answer")
	flags.StringVar(&opts.eventLog, "event-log", "", "write every attempt as YAML to this file")
	flags.StringVar(&opts.vocab, "vocab", "", "count output tokens with the BPE vocabulary in this directory")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runPipeline(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	v, err := root.validator()
	if err != nil {
		return err
	}

	prompts, err := runner.LoadPrompts(opts.input)
	if err != nil {
		return err
	}

	env := loadEnvConfig()
	llm, err := newModel(env)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	gen := models.NewGenerator(llm, v.Catalog()).
		WithModelName(env.Model).
		WithMaxTokens(opts.maxTokens)

	registry := hooks.NewRegistry().Register(hooks.NewLoggerHook(root.logger))
	if opts.eventLog != "" {
		f, err := os.Create(opts.eventLog)
		if err != nil {
			return fmt.Errorf("create event log: %w", err)
		}
		defer f.Close()
		registry.Register(hooks.NewYAMLHook(f))
	}

	r := runner.New(gen, v, runner.Config{
		MaxAttempts: opts.attempts,
		Feedback:    !opts.noFeedback,
		Concurrency: opts.concurrency,
	}).WithHooks(registry)

	if opts.vocab != "" {
		bpe, err := tokenizer.LoadBPE(opts.vocab)
		if err != nil {
			return err
		}
		r.WithTokenizer(bpe)
	}

	root.logger.Info("run started", "prompts", len(prompts), "model", env.Model)
	rep, runErr := r.Run(cmd.Context(), prompts)

	if err := runner.WriteResults(opts.output, rep.Results); err != nil {
		return err
	}
	summary, err := report.YAML(report.Summarize(rep))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), summary)
	return runErr
}
