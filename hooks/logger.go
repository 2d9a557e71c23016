package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rickchristie/fncall"
)

// EnvLogLevel names the environment variable read by LevelFromEnv.
const EnvLogLevel = "FNCALL_LOG_LEVEL"

// LevelFromEnv returns the level configured in FNCALL_LOG_LEVEL, or INFO.
func LevelFromEnv() slog.Level {
	level := os.Getenv(EnvLogLevel)
	if level == "" {
		return slog.LevelInfo
	}
	return ParseLevel(level)
}

// ParseLevel parses DEBUG, INFO, WARN, WARNING or ERROR, case-insensitive.
// Unknown values fall back to INFO with a warning on stderr.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Warning: Unknown log level '%s', using INFO\n", level)
		return slog.LevelInfo
	}
}

// LoggerHook logs runner events through slog. Successful attempts are logged at
// DEBUG, rejected attempts at WARN with their reasons, and prompts that gave up
// at ERROR.
type LoggerHook struct {
	logger *slog.Logger
}

// NewLoggerHook creates a LoggerHook. A nil logger uses slog.Default().
func NewLoggerHook(logger *slog.Logger) *LoggerHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggerHook{logger: logger}
}

// OnBeforeAttempt implements fncall.BeforeAttemptHook.
func (h *LoggerHook) OnBeforeAttempt(ctx context.Context, event fncall.BeforeAttemptEvent) {
	h.logger.DebugContext(ctx, "attempt started",
		"prompt_index", event.PromptIndex,
		"attempt", event.Attempt,
	)
}

// OnAfterAttempt implements fncall.AfterAttemptHook.
func (h *LoggerHook) OnAfterAttempt(ctx context.Context, event fncall.AfterAttemptEvent) {
	attrs := []any{
		"prompt_index", event.PromptIndex,
		"attempt", event.Attempt,
		"output_tokens", event.OutputTokens,
		"duration", event.Duration,
	}
	if event.Error == nil {
		h.logger.DebugContext(ctx, "attempt accepted", append(attrs, "fn_name", event.Result.FnName)...)
		return
	}

	kind, _ := fncall.KindOf(event.Error)
	h.logger.WarnContext(ctx, "attempt rejected", append(attrs,
		"kind", string(kind),
		"reasons", fncall.Reasons(event.Error),
	)...)
}

// OnAfterPrompt implements fncall.AfterPromptHook.
func (h *LoggerHook) OnAfterPrompt(ctx context.Context, event fncall.AfterPromptEvent) {
	if event.Result != nil {
		h.logger.InfoContext(ctx, "prompt done",
			"prompt_index", event.PromptIndex,
			"attempts", event.Attempts,
			"fn_name", event.Result.FnName,
		)
		return
	}

	kind, _ := fncall.KindOf(event.Error)
	h.logger.ErrorContext(ctx, "prompt gave up",
		"prompt_index", event.PromptIndex,
		"attempts", event.Attempts,
		"kind", string(kind),
		"error", event.Error,
	)
}

var (
	_ fncall.BeforeAttemptHook = (*LoggerHook)(nil)
	_ fncall.AfterAttemptHook  = (*LoggerHook)(nil)
	_ fncall.AfterPromptHook   = (*LoggerHook)(nil)
)
