package fncall

import "context"

// -----------------------------------------------------------------------------
// Runner Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe the pipeline runner. To use hooks:
//
//  1. Implement the desired hook interface(s)
//  2. Register with hooks.Registry
//  3. Pass the registry to runner.Runner.WithHooks
//
// Example:
//
//	type FailureCounter struct{ n atomic.Int64 }
//
//	func (h *FailureCounter) OnAfterAttempt(ctx context.Context, e fncall.AfterAttemptEvent) {
//	    if e.Error != nil {
//	        h.n.Add(1)
//	    }
//	}
//
//	registry := hooks.NewRegistry().Register(&FailureCounter{})
//	r := runner.New(gen, validator, runner.DefaultConfig()).WithHooks(registry)
//
// Hooks are called in registration order. The runner processes prompts
// concurrently, so a hook may be called from several goroutines at once and
// must synchronize its own state. Hooks should not panic.
// -----------------------------------------------------------------------------

// BeforeAttemptHook is notified before each generate/validate attempt.
type BeforeAttemptHook interface {
	OnBeforeAttempt(ctx context.Context, event BeforeAttemptEvent)
}

// AfterAttemptHook is notified after each attempt with its outcome.
//
// This is where rejected candidates are reported: event.Error holds every reason
// the candidate was rejected.
type AfterAttemptHook interface {
	OnAfterAttempt(ctx context.Context, event AfterAttemptEvent)
}

// AfterPromptHook is notified once per prompt when it is finished.
type AfterPromptHook interface {
	OnAfterPrompt(ctx context.Context, event AfterPromptEvent)
}
