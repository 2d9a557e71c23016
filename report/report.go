// Package report renders human-readable diagnostics: what coercion changed in a
// candidate, and run summaries as YAML.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rickchristie/fncall"
	"github.com/rickchristie/fncall/extract"
	"github.com/rickchristie/fncall/runner"
	"gopkg.in/yaml.v3"
)

// Diff returns a unified diff between the arguments of the raw candidate and
// the coerced call, one "name: value" line per argument with values in compact
// JSON and floats always written with a decimal point. It is empty when
// coercion changed nothing.
func Diff(candidate any, result *fncall.CoercedFunctionCall) string {
	var before map[string]any
	if obj, ok := candidate.(map[string]any); ok {
		before, _ = obj[fncall.KeyArgs].(map[string]any)
	}
	var after map[string]any
	if result != nil {
		after = result.Args
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        argLines(before),
		B:        argLines(after),
		FromFile: "candidate",
		ToFile:   "coerced",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("(diff failed: %v)\n", err)
	}
	return diff
}

func argLines(args map[string]any) []string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		value := args[name]
		text := extract.Compact(value)
		if f, ok := value.(float64); ok {
			text = fncall.FormatFloat(f)
		}
		lines = append(lines, name+": "+text+"\n")
	}
	return lines
}

// YAML renders v as a YAML document.
func YAML(v any) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return sb.String(), nil
}

// Rejection is the YAML shape of a rejected candidate.
type Rejection struct {
	Kind    fncall.Kind `yaml:"kind"`
	Reasons []string    `yaml:"reasons"`
}

// Reject describes err as a Rejection. Errors without a kind keep an empty kind
// and their text as the only reason.
func Reject(err error) Rejection {
	kind, _ := fncall.KindOf(err)
	return Rejection{Kind: kind, Reasons: fncall.Reasons(err)}
}

// Summary is the YAML shape of a run report.
type Summary struct {
	Prompts      int64                 `yaml:"prompts"`
	Succeeded    int                   `yaml:"succeeded"`
	Failed       int                   `yaml:"failed"`
	Attempts     int64                 `yaml:"attempts"`
	OutputTokens int64                 `yaml:"output_tokens"`
	FailuresBy   map[fncall.Kind]int64 `yaml:"attempt_failures_by_kind,omitempty"`
	Failures     []runner.Failure      `yaml:"failures,omitempty"`
}

// Summarize condenses a run report.
func Summarize(r *runner.Report) Summary {
	s := Summary{
		Succeeded: len(r.Results),
		Failed:    len(r.Failures),
		Failures:  r.Failures,
	}
	if r.Stats != nil {
		s.Prompts = r.Stats.GetPrompts()
		s.Attempts = r.Stats.GetAttempts()
		s.OutputTokens = r.Stats.GetOutputTokens()
		if byKind := r.Stats.FailuresByKind(); len(byKind) > 0 {
			s.FailuresBy = byKind
		}
	}
	return s
}
