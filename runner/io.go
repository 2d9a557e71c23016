package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rickchristie/fncall"
)

// LoadPrompts reads prompts from a JSON file. See ReadPrompts for the format.
func LoadPrompts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}
	defer f.Close()
	return ReadPrompts(f)
}

// ReadPrompts reads a JSON array whose elements are either prompt strings or
// objects with a "prompt" string field.
func ReadPrompts(r io.Reader) ([]string, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}

	prompts := make([]string, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return nil, fmt.Errorf("prompts[%d]: %w", i, err)
			}
			prompts = append(prompts, s)
			continue
		}

		var obj struct {
			Prompt *string `json:"prompt"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, fmt.Errorf("prompts[%d]: expected string or object: %w", i, err)
		}
		if obj.Prompt == nil {
			return nil, fmt.Errorf("prompts[%d]: missing \"prompt\" field", i)
		}
		prompts = append(prompts, *obj.Prompt)
	}
	return prompts, nil
}

// WriteResults writes results to path as an indented JSON array, creating or
// truncating the file.
func WriteResults(path string, results []*fncall.CoercedFunctionCall) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results: %w", err)
	}
	if err := EncodeResults(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeResults writes results to w as an indented JSON array. A nil slice is
// written as [].
func EncodeResults(w io.Writer, results []*fncall.CoercedFunctionCall) error {
	if results == nil {
		results = []*fncall.CoercedFunctionCall{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
