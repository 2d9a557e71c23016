package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rickchristie/fncall/catalog"
	"github.com/rickchristie/fncall/internal/tt"
	"github.com/rickchristie/fncall/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

const definitionsJSON = `[
  {"fn_name": "fn_add_numbers", "args_types": {"a": "float", "b": "float"}, "return_type": "float"},
  {"fn_name": "fn_greet", "args_types": {"name": "str"}, "return_type": "str"},
  {"fn_name": "fn_is_even", "args_types": {"n": "int"}, "return_type": "bool"}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	code := exitOK
	if err := root.Execute(); err != nil {
		code = exitCode(err, &stderr)
	}
	return stdout.String(), stderr.String(), code
}

func TestCheck(t *testing.T) {
	defs := writeFile(t, "defs.json", definitionsJSON)

	type expected struct {
		code     int
		contains []string
	}

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected expected
	}{
		{
			name:  "accepted",
			stdin: `Answer: {"prompt": "Add 2 and 3", "fn_name": "fn_add_numbers", "args": {"a": 2, "b": "3"}}`,
			expected: expected{
				code:     exitOK,
				contains: []string{"fn_name: fn_add_numbers", "a: 2.0", "b: 3.0"},
			},
		},
		{
			name:  "accepted with diff",
			stdin: `{"prompt": "Is 4 even?", "fn_name": "fn_is_even", "args": {"n": "4"}}`,
			args:  []string{"--diff"},
			expected: expected{
				code:     exitOK,
				contains: []string{"--- candidate", "+++ coerced", "-n: \"4\"", "+n: 4"},
			},
		},
		{
			name:  "rejected",
			stdin: `{"prompt": "Is 4 even?", "fn_name": "fn_is_even", "args": {"n": "four"}}`,
			expected: expected{
				code:     exitRejected,
				contains: []string{"kind: coercion_error", "cannot convert string 'four' to int"},
			},
		},
		{
			name:  "no JSON object",
			stdin: "I cannot help with that.",
			expected: expected{
				code:     exitRejected,
				contains: []string{"kind: extraction_failure"},
			},
		},
		{
			name:  "repair",
			stdin: `{'prompt': 'Greet Ann', 'fn_name': 'fn_greet', 'args': {'name': 'Ann'},}`,
			args:  []string{"--repair"},
			expected: expected{
				code:     exitOK,
				contains: []string{"name: Ann"},
			},
		},
		{
			name:  "no repair",
			stdin: `{'prompt': 'Greet Ann', 'fn_name': 'fn_greet', 'args': {'name': 'Ann'},}`,
			expected: expected{
				code:     exitRejected,
				contains: []string{"kind: parse_failure"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"check", "--functions", defs}, tc.args...)
			stdout, _, code := runCLI(t, tc.stdin, args...)

			assert.Equal(t, tc.expected.code, code)
			for _, s := range tc.expected.contains {
				assert.Contains(t, stdout, s)
			}
		})
	}
}

func TestCheck_FileArgument(t *testing.T) {
	defs := writeFile(t, "defs.yaml", `
- fn_name: fn_greet
  args_types: {name: str}
  return_type: str
`)
	input := writeFile(t, "output.txt", `{"prompt": "hi", "fn_name": "fn_greet", "args": {"name": true}}`)

	stdout, _, code := runCLI(t, "", "check", "-f", defs, input)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, `name: "true"`)
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     func(t *testing.T) []string
		expected string
	}{
		{
			name:     "missing functions flag",
			args:     func(t *testing.T) []string { return []string{"check"} },
			expected: "--functions is required",
		},
		{
			name: "malformed definitions",
			args: func(t *testing.T) []string {
				return []string{"check", "-f", writeFile(t, "bad.json", `[{"fn_name": 1}]`)}
			},
			expected: "invalid function definitions",
		},
		{
			name: "missing input file",
			args: func(t *testing.T) []string {
				return []string{"check", "-f", writeFile(t, "defs.json", definitionsJSON), "/nonexistent/output.txt"}
			},
			expected: "read input",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, stderr, code := runCLI(t, "", tc.args(t)...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, tc.expected)
		})
	}
}

func TestTokenize(t *testing.T) {
	stdout, _, code := runCLI(t, "", "tokenize", "add", "two", "add")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "tokens: 3\nids: [1 2 1]\ndecoded: add two add\n", stdout)
}

func TestRun(t *testing.T) {
	defs := writeFile(t, "defs.json", definitionsJSON)
	input := writeFile(t, "prompts.json", `[{"prompt": "Greet Ann"}, {"prompt": "Greet Bo"}, "Is 7 even?"]`)
	output := filepath.Join(t.TempDir(), "results.json")
	events := filepath.Join(t.TempDir(), "events.yaml")

	llm := tt.NewMockLLM().WithHandler(func(messages []llms.MessageContent) (string, error) {
		prompt := tt.FirstHumanText(messages)
		if strings.HasPrefix(prompt, "Greet ") {
			name := strings.TrimPrefix(prompt, "Greet ")
			return fmt.Sprintf(`{"prompt": %q, "fn_name": "fn_greet", "args": {"name": %q}}`, prompt, name), nil
		}
		return "I don't know.", nil
	})

	original := newModel
	newModel = func(envConfig) (llms.Model, error) { return llm, nil }
	t.Cleanup(func() { newModel = original })

	stdout, _, code := runCLI(t, "", "run", "-f", defs, "-i", input, "-o", output,
		"--attempts", "2", "--concurrency", "2", "--event-log", events, "--log-level", "error")
	require.Equal(t, exitOK, code)

	assert.Contains(t, stdout, "succeeded: 2")
	assert.Contains(t, stdout, "failed: 1")
	assert.Contains(t, stdout, "extraction_failure: 2")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Ann"`)
	assert.Contains(t, string(data), `"name": "Bo"`)

	log, err := os.ReadFile(events)
	require.NoError(t, err)
	assert.Contains(t, string(log), ">>> [AfterPrompt]")
}

func TestRun_ModelError(t *testing.T) {
	defs := writeFile(t, "defs.json", definitionsJSON)
	input := writeFile(t, "prompts.json", `["x"]`)

	original := newModel
	newModel = func(envConfig) (llms.Model, error) { return nil, errors.New("API token is required") }
	t.Cleanup(func() { newModel = original })

	_, stderr, code := runCLI(t, "", "run", "-f", defs, "-i", input, "-o", filepath.Join(t.TempDir(), "out.json"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "create model: API token is required")
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv(envAPIKey, "key")
	t.Setenv(envBaseURL, "")
	t.Setenv(envModel, "")

	assert.Equal(t, envConfig{APIKey: "key", Model: defaultModel}, loadEnvConfig())
}

type fakeReader struct {
	lines []string
	err   error
}

func (r *fakeReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", r.err
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestRepl(t *testing.T) {
	v := validate.New(catalog.MustNew(tt.Definitions()...))

	tests := []struct {
		name     string
		input    *fakeReader
		expected []string
		err      bool
	}{
		{
			name: "validates lines until quit",
			input: &fakeReader{lines: []string{
				`{"prompt": "p", "fn_name": "fn_greet", "args": {"name": "Ann"}}`,
				"",
				`{"prompt": "p", "fn_name": "fn_missing", "args": {}}`,
				"q",
				`{"never": "read"}`,
			}},
			expected: []string{"name: Ann", "kind: unknown_function"},
		},
		{
			name:     "stops at EOF",
			input:    &fakeReader{err: io.EOF},
			expected: nil,
		},
		{
			name:  "read error",
			input: &fakeReader{err: errors.New("tty gone")},
			err:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := repl(tc.input, &out, v, false)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, s := range tc.expected {
				assert.Contains(t, out.String(), s)
			}
			assert.NotContains(t, out.String(), "never")
		})
	}
}
