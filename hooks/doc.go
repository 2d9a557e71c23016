// Package hooks provides a registry for pipeline runner hooks plus two ready-made
// logging hooks.
//
// Each hook interface corresponds to a specific event type; implement only the
// interfaces you need:
//   - [fncall.BeforeAttemptHook] - Called before each model call
//   - [fncall.AfterAttemptHook] - Called after each attempt with its outcome
//   - [fncall.AfterPromptHook] - Called once per finished prompt
//
// # Registering Hooks
//
//	registry := hooks.NewRegistry().
//	    Register(hooks.NewLoggerHook(slog.Default())).
//	    Register(hooks.NewYAMLHook(os.Stderr))
//
//	r := runner.New(gen, validator, runner.DefaultConfig()).WithHooks(registry)
//
// # Logging Hooks
//
// [LoggerHook] writes one structured slog record per event. [YAMLHook] dumps
// every event as a YAML block with nothing truncated, which is the easiest way
// to read why a model output was rejected.
package hooks
