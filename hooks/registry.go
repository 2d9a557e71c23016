package hooks

import (
	"context"

	"github.com/rickchristie/fncall"
)

// Registry manages a collection of hooks and dispatches events to them.
//
// Hooks can implement any combination of hook interfaces; they only receive
// events for the interfaces they implement. Hooks are called in the order they
// are registered.
//
// # Thread Safety
//
// Registry is NOT safe for concurrent registration. Register all hooks before
// starting a run. The Fire methods only read the hook list and may be called
// from many goroutines.
type Registry struct {
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook to the registry.
func (r *Registry) Register(hook any) *Registry {
	r.hooks = append(r.hooks, hook)
	return r
}

// FireBeforeAttempt dispatches a BeforeAttemptEvent to all registered
// BeforeAttemptHook implementations.
func (r *Registry) FireBeforeAttempt(ctx context.Context, event fncall.BeforeAttemptEvent) {
	for _, h := range r.hooks {
		if hook, ok := h.(fncall.BeforeAttemptHook); ok {
			hook.OnBeforeAttempt(ctx, event)
		}
	}
}

// FireAfterAttempt dispatches an AfterAttemptEvent to all registered
// AfterAttemptHook implementations.
func (r *Registry) FireAfterAttempt(ctx context.Context, event fncall.AfterAttemptEvent) {
	for _, h := range r.hooks {
		if hook, ok := h.(fncall.AfterAttemptHook); ok {
			hook.OnAfterAttempt(ctx, event)
		}
	}
}

// FireAfterPrompt dispatches an AfterPromptEvent to all registered
// AfterPromptHook implementations.
func (r *Registry) FireAfterPrompt(ctx context.Context, event fncall.AfterPromptEvent) {
	for _, h := range r.hooks {
		if hook, ok := h.(fncall.AfterPromptHook); ok {
			hook.OnAfterPrompt(ctx, event)
		}
	}
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	return len(r.hooks)
}

// Clear removes all registered hooks.
func (r *Registry) Clear() {
	r.hooks = make([]any, 0)
}
