package tt

import (
	"testing"

	"github.com/rickchristie/fncall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Diagnostic Assertions
// -----------------------------------------------------------------------------

// AssertRejected asserts that err is a ValidationError of the given kind. When
// reasons are given they must match the error's reasons exactly, in order.
func AssertRejected(t *testing.T, err error, kind fncall.Kind, reasons ...string) {
	t.Helper()

	var verr *fncall.ValidationError
	require.ErrorAs(t, err, &verr, "expected *fncall.ValidationError, got %T", err)
	assert.Equal(t, kind, verr.Kind)
	assert.NotEmpty(t, verr.Reasons, "a rejection must carry at least one reason")
	if len(reasons) > 0 {
		assert.Equal(t, reasons, verr.Reasons)
	}
}

// Definitions returns the function definitions used across package tests.
func Definitions() []fncall.FunctionDefinition {
	return []fncall.FunctionDefinition{
		{
			FnName:     "fn_add_numbers",
			ArgsTypes:  map[string]string{"a": "float", "b": "float"},
			ReturnType: "float",
		},
		{
			FnName:     "fn_greet",
			ArgsTypes:  map[string]string{"name": "str"},
			ReturnType: "str",
		},
		{
			FnName:     "fn_reverse_string",
			ArgsTypes:  map[string]string{"s": "str"},
			ReturnType: "str",
		},
		{
			FnName:     "fn_is_even",
			ArgsTypes:  map[string]string{"n": "int"},
			ReturnType: "bool",
		},
	}
}
