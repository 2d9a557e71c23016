package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rickchristie/fncall"
)

// Object returns the first balanced {...} substring of text.
// Returns [fncall.ErrNoJSONObject] if text has no '{' or the depth never returns
// to zero before the text ends.
func Object(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", fncall.ErrNoJSONObject
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fncall.ErrNoJSONObject
}

// Parse extracts the first balanced object from text and decodes it.
//
// Returns [fncall.ErrNoJSONObject] when extraction fails and an error wrapping
// [fncall.ErrInvalidJSON] when the block is not valid JSON.
func Parse(text string) (any, error) {
	snippet, err := Object(text)
	if err != nil {
		return nil, err
	}
	return Decode(snippet)
}

// ParseRepair is like Parse but tries to repair a block that fails to decode,
// e.g. single quotes, unquoted keys or trailing commas. The repaired text must
// still be a JSON object.
func ParseRepair(text string) (any, error) {
	snippet, err := Object(text)
	if err != nil {
		return nil, err
	}

	value, err := Decode(snippet)
	if err == nil {
		return value, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(snippet)
	if repairErr != nil {
		return nil, fmt.Errorf("%w (repair failed: %v)", err, repairErr)
	}
	value, retryErr := Decode(repaired)
	if retryErr != nil {
		return nil, err
	}
	if _, ok := value.(map[string]any); !ok {
		return nil, err
	}
	return value, nil
}

// Decode strictly decodes a single JSON value. Numbers are kept as json.Number
// and trailing content after the value is rejected.
func Decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", fncall.ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected content after JSON value", fncall.ErrInvalidJSON)
	}
	return value, nil
}

// Compact renders a decoded JSON value as compact JSON text. It is used for
// messages and for stringifying non-string values.
func Compact(value any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return fmt.Sprintf("%v", value)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
