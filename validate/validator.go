// Package validate checks a function call candidate against a catalog and
// coerces its arguments.
//
// # Check Order
//
// Cheap structural gates fail fast, because later checks would be meaningless
// after them. Once argument coercion is reached every argument is checked, so a
// single round trip reports every fixable problem:
//
//  1. The candidate is a JSON object.
//  2. Its key set is exactly {prompt, fn_name, args}. Missing and extra keys are
//     reported together.
//  3. prompt and fn_name are strings and args is an object. All field type
//     errors are reported together.
//  4. fn_name is in the catalog.
//  5. The argument names equal the declared ones. Missing and extra names are
//     reported together.
//  6. Every argument is coerced to its declared type. All failures are collected.
//
// Steps 1-5 stop at the first failing step; step 6 never stops early. A failure
// in step 6 discards every partially coerced argument.
package validate

import (
	"errors"
	"sort"
	"strings"

	"github.com/rickchristie/fncall"
	"github.com/rickchristie/fncall/catalog"
	"github.com/rickchristie/fncall/coerce"
	"github.com/rickchristie/fncall/extract"
)

// Validator checks candidates against one catalog. It holds no mutable state
// and is safe for concurrent use.
type Validator struct {
	catalog *catalog.Catalog
	repair  bool
}

// New creates a Validator for the catalog.
func New(cat *catalog.Catalog) *Validator {
	return &Validator{catalog: cat}
}

// WithRepair makes ValidateText repair malformed JSON blocks before giving up.
// Returns the validator for chaining; call it before sharing the validator.
func (v *Validator) WithRepair(repair bool) *Validator {
	v.repair = repair
	return v
}

// Catalog returns the catalog the validator checks against.
func (v *Validator) Catalog() *catalog.Catalog {
	return v.catalog
}

// Validate checks a decoded JSON value (as returned by extract.Parse) and
// returns the coerced call. On failure the error is a [*fncall.ValidationError]
// whose Reasons hold every problem found.
func (v *Validator) Validate(candidate any) (*fncall.CoercedFunctionCall, error) {
	call, err := Structure(candidate)
	if err != nil {
		return nil, err
	}

	def, ok := v.catalog.Lookup(call.FnName)
	if !ok {
		return nil, fncall.NewValidationError(fncall.KindUnknownFunction,
			"fn_name '"+call.FnName+"' not found in function definitions")
	}

	if reasons := compareKeys(keysOf(call.Args), def.ArgNames(), "arguments"); len(reasons) > 0 {
		return nil, fncall.NewValidationError(fncall.KindArgumentSet, reasons...)
	}

	names := def.ArgNames()
	sort.Strings(names)

	var reasons []string
	coerced := make(map[string]any, len(names))
	for _, name := range names {
		value, err := coerce.Value(call.Args[name], def.ArgsTypes[name])
		if err != nil {
			reasons = append(reasons, "Argument '"+name+"': "+err.Error())
			continue
		}
		coerced[name] = value
	}
	if len(reasons) > 0 {
		return nil, fncall.NewValidationError(fncall.KindCoercion, reasons...)
	}

	return &fncall.CoercedFunctionCall{
		Prompt: call.Prompt,
		FnName: call.FnName,
		Args:   coerced,
	}, nil
}

// ValidateText extracts the first JSON object from raw model text and validates
// it. Extraction and parse failures are returned as ValidationErrors of kind
// [fncall.KindExtraction] and [fncall.KindParse].
func (v *Validator) ValidateText(text string) (*fncall.CoercedFunctionCall, error) {
	parse := extract.Parse
	if v.repair {
		parse = extract.ParseRepair
	}

	candidate, err := parse(text)
	if err != nil {
		kind := fncall.KindParse
		if errors.Is(err, fncall.ErrNoJSONObject) {
			kind = fncall.KindExtraction
		}
		return nil, fncall.NewValidationError(kind, err.Error())
	}
	return v.Validate(candidate)
}

// Structure runs the schema-independent checks (steps 1-3) and returns the typed
// candidate. It does not consult a catalog.
func Structure(candidate any) (*fncall.FunctionCallCandidate, error) {
	obj, ok := candidate.(map[string]any)
	if !ok || obj == nil {
		return nil, fncall.NewValidationError(fncall.KindStructural, "Output is not a JSON object")
	}

	if reasons := compareKeys(keysOf(obj), fncall.TopLevelKeys(), "top-level keys"); len(reasons) > 0 {
		return nil, fncall.NewValidationError(fncall.KindStructural, reasons...)
	}

	var reasons []string
	prompt, ok := obj[fncall.KeyPrompt].(string)
	if !ok {
		reasons = append(reasons, fieldTypeReason(fncall.KeyPrompt, "a string", obj[fncall.KeyPrompt]))
	}
	fnName, ok := obj[fncall.KeyFnName].(string)
	if !ok {
		reasons = append(reasons, fieldTypeReason(fncall.KeyFnName, "a string", obj[fncall.KeyFnName]))
	}
	args, ok := obj[fncall.KeyArgs].(map[string]any)
	if !ok || args == nil {
		reasons = append(reasons, fieldTypeReason(fncall.KeyArgs, "an object", obj[fncall.KeyArgs]))
	}
	if len(reasons) > 0 {
		return nil, fncall.NewValidationError(fncall.KindStructural, reasons...)
	}

	return &fncall.FunctionCallCandidate{Prompt: prompt, FnName: fnName, Args: args}, nil
}

func fieldTypeReason(field, want string, got any) string {
	return "Field '" + field + "' must be " + want + ", got " + coerce.Describe(got)
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// compareKeys reports missing and extra keys, each list sorted. Returns nil when
// the sets are equal.
func compareKeys(got, want []string, what string) []string {
	gotSet := make(map[string]bool, len(got))
	for _, k := range got {
		gotSet[k] = true
	}
	wantSet := make(map[string]bool, len(want))
	for _, k := range want {
		wantSet[k] = true
	}

	var missing, extra []string
	for k := range wantSet {
		if !gotSet[k] {
			missing = append(missing, k)
		}
	}
	for k := range gotSet {
		if !wantSet[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	var reasons []string
	if len(missing) > 0 {
		reasons = append(reasons, "Missing "+what+": "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		reasons = append(reasons, "Extra "+what+": "+strings.Join(extra, ", "))
	}
	return reasons
}
