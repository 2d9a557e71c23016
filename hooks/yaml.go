package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rickchristie/fncall"
	"gopkg.in/yaml.v3"
)

// YAMLHook writes every attempt and prompt outcome as a YAML block. Nothing is
// truncated: the raw model output and every rejection reason are logged in full.
//
// Writes are serialized so blocks from concurrent prompts never interleave.
type YAMLHook struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewYAMLHook creates a YAMLHook writing to w. A nil writer uses stdout.
func NewYAMLHook(w io.Writer) *YAMLHook {
	if w == nil {
		w = os.Stdout
	}
	return &YAMLHook{out: w, now: time.Now}
}

type attemptRecord struct {
	PromptIndex  int                         `yaml:"prompt_index"`
	Prompt       string                      `yaml:"prompt"`
	Attempt      int                         `yaml:"attempt"`
	RawOutput    string                      `yaml:"raw_output,omitempty"`
	Result       *fncall.CoercedFunctionCall `yaml:"result,omitempty"`
	Kind         string                      `yaml:"kind,omitempty"`
	Reasons      []string                    `yaml:"reasons,omitempty"`
	OutputTokens int                         `yaml:"output_tokens"`
	Duration     string                      `yaml:"duration"`
}

type promptRecord struct {
	PromptIndex int                         `yaml:"prompt_index"`
	Prompt      string                      `yaml:"prompt"`
	Attempts    int                         `yaml:"attempts"`
	Result      *fncall.CoercedFunctionCall `yaml:"result,omitempty"`
	Kind        string                      `yaml:"kind,omitempty"`
	Reasons     []string                    `yaml:"reasons,omitempty"`
}

// OnAfterAttempt implements fncall.AfterAttemptHook.
func (h *YAMLHook) OnAfterAttempt(ctx context.Context, event fncall.AfterAttemptEvent) {
	record := attemptRecord{
		PromptIndex:  event.PromptIndex,
		Prompt:       event.Prompt,
		Attempt:      event.Attempt,
		RawOutput:    event.RawOutput,
		Result:       event.Result,
		OutputTokens: event.OutputTokens,
		Duration:     event.Duration.String(),
	}
	if event.Error != nil {
		kind, _ := fncall.KindOf(event.Error)
		record.Kind = string(kind)
		record.Reasons = fncall.Reasons(event.Error)
	}
	h.write("AfterAttempt", record)
}

// OnAfterPrompt implements fncall.AfterPromptHook.
func (h *YAMLHook) OnAfterPrompt(ctx context.Context, event fncall.AfterPromptEvent) {
	record := promptRecord{
		PromptIndex: event.PromptIndex,
		Prompt:      event.Prompt,
		Attempts:    event.Attempts,
		Result:      event.Result,
	}
	if event.Error != nil {
		kind, _ := fncall.KindOf(event.Error)
		record.Kind = string(kind)
		record.Reasons = fncall.Reasons(event.Error)
	}
	h.write("AfterPrompt", record)
}

func (h *YAMLHook) write(name string, v any) {
	data, err := yaml.Marshal(v)

	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "\n>>> [%s]: %s\n", name, h.now().Format("2006-01-02 15:04:05.000"))
	if err != nil {
		fmt.Fprintf(h.out, "(failed to marshal: %v)\n", err)
		return
	}
	_, _ = h.out.Write(data)
}

var (
	_ fncall.AfterAttemptHook = (*YAMLHook)(nil)
	_ fncall.AfterPromptHook  = (*YAMLHook)(nil)
)
