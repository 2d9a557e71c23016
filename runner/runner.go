// Package runner drives the whole pipeline for a batch of prompts: ask the
// model, extract the JSON object, validate it, and retry with the rejection
// reasons until the candidate is accepted or the attempts run out.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rickchristie/fncall"
	"github.com/rickchristie/fncall/hooks"
	"github.com/rickchristie/fncall/models"
	"github.com/rickchristie/fncall/tokenizer"
	"github.com/rickchristie/fncall/validate"
	"golang.org/x/sync/errgroup"
)

// KindModel marks a failure where every model call failed, so no output was
// ever validated. When any output was rejected, the last rejection is recorded
// instead.
const KindModel fncall.Kind = "model_error"

// Generator produces raw model text for a request. *models.Generator
// implements it.
type Generator interface {
	Generate(ctx context.Context, req models.Request) (*models.Response, error)
}

// Config holds configuration options for the Runner.
type Config struct {
	// MaxAttempts is the number of model calls per prompt. Values below 1 mean 1.
	MaxAttempts int

	// Feedback sends the previous output and its rejection reasons back to the
	// model on retry. Without it every attempt sees only the prompt.
	Feedback bool

	// Concurrency bounds the number of prompts processed at once. Values below
	// 1 mean 1.
	Concurrency int
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Feedback:    true,
		Concurrency: 4,
	}
}

// Failure describes a prompt that never produced a valid call.
type Failure struct {
	Index    int         `json:"index" yaml:"index"`
	Prompt   string      `json:"prompt" yaml:"prompt"`
	Kind     fncall.Kind `json:"kind" yaml:"kind"`
	Reasons  []string    `json:"reasons" yaml:"reasons"`
	Attempts int         `json:"attempts" yaml:"attempts"`
}

// Report is the outcome of a run.
type Report struct {
	// Results holds the accepted calls in prompt order. Failed prompts are
	// skipped.
	Results []*fncall.CoercedFunctionCall

	// Failures holds the failed prompts ordered by index.
	Failures []Failure

	Stats *fncall.RunStats
}

// Runner processes prompts concurrently against one shared validator.
//
// Example:
//
//	r := runner.New(gen, validate.New(cat), runner.DefaultConfig()).
//	    WithHooks(hooks.NewRegistry().Register(hooks.NewLoggerHook(nil)))
//
//	report, err := r.Run(ctx, prompts)
type Runner struct {
	gen       Generator
	validator *validate.Validator
	config    Config
	hooks     *hooks.Registry
	tokenizer tokenizer.Tokenizer
}

// New creates a Runner.
func New(gen Generator, v *validate.Validator, config Config) *Runner {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Runner{
		gen:       gen,
		validator: v,
		config:    config,
		hooks:     hooks.NewRegistry(),
	}
}

// WithHooks replaces the runner's hook registry.
func (r *Runner) WithHooks(h *hooks.Registry) *Runner {
	r.hooks = h
	return r
}

// RegisterHook adds a hook to the runner's existing registry.
func (r *Runner) RegisterHook(hook any) *Runner {
	r.hooks.Register(hook)
	return r
}

// WithTokenizer counts output tokens with tok instead of trusting the usage
// reported by the model provider.
func (r *Runner) WithTokenizer(tok tokenizer.Tokenizer) *Runner {
	r.tokenizer = tok
	return r
}

// Config returns the effective configuration.
func (r *Runner) Config() Config {
	return r.config
}

// Run processes every prompt and returns the report.
//
// A rejected candidate never fails the run; it is retried and, once the
// attempts are exhausted, recorded in Report.Failures. Run only returns an
// error when ctx is canceled, together with the partial report.
func (r *Runner) Run(ctx context.Context, prompts []string) (*Report, error) {
	stats := fncall.NewRunStats()
	results := make([]*fncall.CoercedFunctionCall, len(prompts))

	var (
		mu       sync.Mutex
		failures []Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for i, prompt := range prompts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			result, failure, err := r.runPrompt(gctx, stats, i, prompt)
			if err != nil {
				return err
			}
			if result != nil {
				results[i] = result
				return nil
			}
			mu.Lock()
			failures = append(failures, *failure)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report := &Report{
		Results: make([]*fncall.CoercedFunctionCall, 0, len(prompts)),
		Stats:   stats,
	}
	for _, result := range results {
		if result != nil {
			report.Results = append(report.Results, result)
		}
	}
	sort.Slice(failures, func(a, b int) bool { return failures[a].Index < failures[b].Index })
	report.Failures = failures

	return report, err
}

// runPrompt returns either a result or a failure. The error is only set when
// the context was canceled.
func (r *Runner) runPrompt(
	ctx context.Context,
	stats *fncall.RunStats,
	index int,
	prompt string,
) (*fncall.CoercedFunctionCall, *Failure, error) {
	stats.IncrCounter(fncall.SCPrompts, 1)
	stats.IncrGauge(fncall.SGInFlight, 1)
	defer stats.IncrGauge(fncall.SGInFlight, -1)

	req := models.Request{Prompt: prompt}
	var lastErr error
	attempt := 0

	for attempt < r.config.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		attempt++

		r.hooks.FireBeforeAttempt(ctx, fncall.BeforeAttemptEvent{
			PromptIndex: index,
			Prompt:      prompt,
			Attempt:     attempt,
		})
		event := r.attempt(ctx, stats, req)
		event.PromptIndex, event.Prompt, event.Attempt = index, prompt, attempt
		r.hooks.FireAfterAttempt(ctx, event)

		if event.Error == nil {
			stats.IncrCounter(fncall.SCSuccesses, 1)
			r.hooks.FireAfterPrompt(ctx, fncall.AfterPromptEvent{
				PromptIndex: index,
				Prompt:      prompt,
				Attempts:    attempt,
				Result:      event.Result,
			})
			return event.Result, nil, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(event.Error, ctxErr) {
			return nil, nil, ctxErr
		}

		// A model error never replaces an earlier rejection.
		if _, rejected := fncall.KindOf(event.Error); rejected {
			lastErr = event.Error
			if r.config.Feedback {
				req.Previous = event.RawOutput
				req.Feedback = fncall.Reasons(event.Error)
			}
		} else if _, rejectedBefore := fncall.KindOf(lastErr); !rejectedBefore {
			lastErr = event.Error
		}
	}

	stats.IncrCounter(fncall.SCGaveUp, 1)
	r.hooks.FireAfterPrompt(ctx, fncall.AfterPromptEvent{
		PromptIndex: index,
		Prompt:      prompt,
		Attempts:    attempt,
		Error:       lastErr,
	})

	kind, ok := fncall.KindOf(lastErr)
	if !ok {
		kind = KindModel
	}
	return nil, &Failure{
		Index:    index,
		Prompt:   prompt,
		Kind:     kind,
		Reasons:  fncall.Reasons(lastErr),
		Attempts: attempt,
	}, nil
}

// attempt makes one model call and validates its output.
func (r *Runner) attempt(
	ctx context.Context,
	stats *fncall.RunStats,
	req models.Request,
) fncall.AfterAttemptEvent {
	stats.IncrCounter(fncall.SCAttempts, 1)
	start := time.Now()

	resp, err := r.gen.Generate(ctx, req)
	if err != nil {
		stats.IncrCounter(fncall.SCModelErrors, 1)
		return fncall.AfterAttemptEvent{
			Error:    fmt.Errorf("model call: %w", err),
			Duration: time.Since(start),
		}
	}

	event := fncall.AfterAttemptEvent{
		RawOutput:    resp.Text,
		OutputTokens: resp.OutputTokens,
	}
	if r.tokenizer != nil {
		event.OutputTokens = tokenizer.Count(r.tokenizer, resp.Text)
	}
	stats.IncrCounter(fncall.SCOutputTokens, int64(event.OutputTokens))

	event.Result, event.Error = r.validator.ValidateText(resp.Text)
	if event.Error != nil {
		kind, _ := fncall.KindOf(event.Error)
		stats.RecordFailure(kind)
	}
	event.Duration = time.Since(start)
	return event
}
