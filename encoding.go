package fncall

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatFloat renders f in its shortest round-trip form, always with a decimal
// point or exponent so it reads back as a float: 2 -> "2.0", 2.5 -> "2.5",
// 1e20 -> "1e+20".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}

type callFields struct {
	Prompt string         `json:"prompt" yaml:"prompt"`
	FnName string         `json:"fn_name" yaml:"fn_name"`
	Args   map[string]any `json:"args" yaml:"args"`
}

// MarshalJSON writes float arguments with a decimal point, so a float argument
// holding 2 is written as 2.0 and stays distinguishable from an int argument.
func (c CoercedFunctionCall) MarshalJSON() ([]byte, error) {
	args := make(map[string]any, len(c.Args))
	for name, value := range c.Args {
		if f, ok := value.(float64); ok {
			value = json.RawMessage(FormatFloat(f))
		}
		args[name] = value
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(callFields{Prompt: c.Prompt, FnName: c.FnName, Args: args}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalYAML writes float arguments as !!float scalars with a decimal point.
func (c CoercedFunctionCall) MarshalYAML() (any, error) {
	args := make(map[string]any, len(c.Args))
	for name, value := range c.Args {
		if f, ok := value.(float64); ok {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: FormatFloat(f)}
		}
		args[name] = value
	}
	return callFields{Prompt: c.Prompt, FnName: c.FnName, Args: args}, nil
}
