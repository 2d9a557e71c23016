package fncall

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a model output could not become a CoercedFunctionCall.
type Kind string

const (
	// KindExtraction: no balanced {...} block in the text.
	KindExtraction Kind = "extraction_failure"
	// KindParse: a block was found but it is not valid JSON.
	KindParse Kind = "parse_failure"
	// KindStructural: wrong top-level shape, keys or field types.
	KindStructural Kind = "structural_error"
	// KindUnknownFunction: fn_name is not in the catalog.
	KindUnknownFunction Kind = "unknown_function"
	// KindArgumentSet: argument names differ from the declared ones.
	KindArgumentSet Kind = "argument_set_mismatch"
	// KindCoercion: one or more argument values could not be converted.
	KindCoercion Kind = "coercion_error"
	// KindSchemaBuild: a function definition record is malformed. Fatal.
	KindSchemaBuild Kind = "schema_build_error"
)

// Sentinel errors, one per Kind. Match with errors.Is.
var (
	ErrNoJSONObject    = errors.New("no balanced JSON object found in text")
	ErrInvalidJSON     = errors.New("invalid JSON in extracted object")
	ErrStructural      = errors.New("malformed function call")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArgumentSet     = errors.New("argument names do not match definition")
	ErrCoercion        = errors.New("argument coercion failed")
	ErrSchemaBuild     = errors.New("invalid function definition")
)

// Sentinel returns the sentinel error for the kind, or nil for an unknown kind.
func (k Kind) Sentinel() error {
	switch k {
	case KindExtraction:
		return ErrNoJSONObject
	case KindParse:
		return ErrInvalidJSON
	case KindStructural:
		return ErrStructural
	case KindUnknownFunction:
		return ErrUnknownFunction
	case KindArgumentSet:
		return ErrArgumentSet
	case KindCoercion:
		return ErrCoercion
	case KindSchemaBuild:
		return ErrSchemaBuild
	default:
		return nil
	}
}

// Fatal reports whether the kind aborts a whole run instead of a single candidate.
func (k Kind) Fatal() bool {
	return k == KindSchemaBuild
}

// ValidationError is returned when a candidate is rejected. Reasons holds every
// problem found in one validation pass, in a stable order; it is never empty.
type ValidationError struct {
	Kind    Kind
	Reasons []string
}

// NewValidationError creates a ValidationError of the given kind.
func NewValidationError(kind Kind, reasons ...string) *ValidationError {
	return &ValidationError{Kind: kind, Reasons: reasons}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Reasons, "; "))
}

// Is matches the sentinel of the error's kind.
func (e *ValidationError) Is(target error) bool {
	sentinel := e.Kind.Sentinel()
	return sentinel != nil && target == sentinel
}

// KindOf classifies any error produced by this module. Errors that carry no
// kind are reported as ("", false).
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	for _, kind := range []Kind{
		KindExtraction,
		KindParse,
		KindStructural,
		KindUnknownFunction,
		KindArgumentSet,
		KindCoercion,
		KindSchemaBuild,
	} {
		if errors.Is(err, kind.Sentinel()) {
			return kind, true
		}
	}
	return "", false
}

// Reasons returns the human-readable diagnostic for err: the full reason list of
// a ValidationError, or the error text otherwise.
func Reasons(err error) []string {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return append([]string(nil), verr.Reasons...)
	}
	return []string{err.Error()}
}
