// Package fncall turns free-form language model output into verified function calls.
//
// # Overview
//
// A model is asked to answer a prompt with a JSON object naming a function and its
// arguments. Its output is untrusted text, so fncall runs it through two stages:
//
//	Model Output (text) -> extract.Parse -> candidate (any) -> validate.Validator -> CoercedFunctionCall
//
// The validator consults a [catalog.Catalog] of [FunctionDefinition] values and
// converts every argument to the declared type with the coerce package. A failure
// is reported as a [*ValidationError] that carries every reason found in one pass,
// so the caller can show a model developer everything wrong with an output at once.
//
// # Packages
//
//   - extract: first balanced JSON object in text, strict or repairing parse
//   - catalog: function definitions loaded from JSON or YAML records
//   - coerce: best-effort conversion of one JSON value to a declared type
//   - validate: structural gates plus aggregated argument coercion
//   - models: langchaingo driver that produces raw model text for a prompt
//   - runner: concurrent generate/extract/validate pipeline with retries
//   - hooks: hook registry plus slog and YAML logging hooks
//   - tokenizer: stub and BPE tokenizers used for token accounting
//   - report: YAML diagnostics and coercion diffs
package fncall

import "strings"

// Top-level keys every candidate must carry, no more and no less.
const (
	KeyPrompt = "prompt"
	KeyFnName = "fn_name"
	KeyArgs   = "args"
)

// TopLevelKeys returns the exact key set of a function call candidate.
func TopLevelKeys() []string {
	return []string{KeyArgs, KeyFnName, KeyPrompt}
}

// Type tags accepted in a FunctionDefinition's ArgsTypes.
const (
	TypeFloat = "float"
	TypeInt   = "int"
	TypeStr   = "str"
	TypeBool  = "bool"
)

// FunctionDefinition describes one callable function.
//
// ArgsTypes maps argument name to a type tag. Recognized tags are [TypeFloat],
// [TypeInt], [TypeStr] and [TypeBool]; "double" and "string" are accepted as
// synonyms of float and str. Unknown tags are not rejected when the catalog is
// built, they surface as coercion errors for the argument that uses them.
//
// ReturnType is descriptive only.
type FunctionDefinition struct {
	FnName     string            `json:"fn_name" yaml:"fn_name"`
	ArgsTypes  map[string]string `json:"args_types" yaml:"args_types"`
	ReturnType string            `json:"return_type" yaml:"return_type"`
}

// ArgNames returns the declared argument names in no particular order.
func (d *FunctionDefinition) ArgNames() []string {
	names := make([]string, 0, len(d.ArgsTypes))
	for name := range d.ArgsTypes {
		names = append(names, name)
	}
	return names
}

// FunctionCallCandidate is a raw candidate that passed the structural gate: it has
// exactly the top-level keys, string prompt and fn_name, and an object for args.
// Argument values are still untrusted JSON values.
type FunctionCallCandidate struct {
	Prompt string
	FnName string
	Args   map[string]any
}

// CoercedFunctionCall is a validated function call. Every value in Args has the
// Go type matching its declared tag: float64, int64, string or bool. When
// written as JSON or YAML, float arguments always carry a decimal point or
// exponent, so a float 2 is written as 2.0 and never reads back as an int.
type CoercedFunctionCall struct {
	Prompt string         `json:"prompt" yaml:"prompt"`
	FnName string         `json:"fn_name" yaml:"fn_name"`
	Args   map[string]any `json:"args" yaml:"args"`
}

// NormalizeType maps a declared type tag to one of the canonical tags. Matching
// is case-insensitive and ignores surrounding whitespace; "double" and "string"
// are synonyms of float and str. Returns false for an unrecognized tag.
func NormalizeType(tag string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case TypeFloat, "double":
		return TypeFloat, true
	case TypeInt:
		return TypeInt, true
	case TypeStr, "string":
		return TypeStr, true
	case TypeBool:
		return TypeBool, true
	default:
		return "", false
	}
}
