package coerce

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/rickchristie/fncall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type input struct {
	value    any
	declared string
}

type expected struct {
	value any
	err   string // substring; empty means success
}

func runCoercionTests(t *testing.T, tests []struct {
	name     string
	input    input
	expected expected
}) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Value(tt.input.value, tt.input.declared)

			if tt.expected.err != "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Contains(t, err.Error(), tt.expected.err)
				assert.ErrorIs(t, err, fncall.ErrCoercion)

				var cerr *Error
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, tt.input.declared, cerr.Declared)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.value, got)
		})
	}
}

func TestValue_Float(t *testing.T) {
	runCoercionTests(t, []struct {
		name     string
		input    input
		expected expected
	}{
		{name: "json integer", input: input{json.Number("3"), "float"}, expected: expected{value: 3.0}},
		{name: "json float", input: input{json.Number("2.5"), "float"}, expected: expected{value: 2.5}},
		{name: "json exponent", input: input{json.Number("1e3"), "float"}, expected: expected{value: 1000.0}},
		{name: "huge json integer", input: input{json.Number("99999999999999999999"), "float"}, expected: expected{value: 1e20}},
		{name: "native float64", input: input{2.25, "float"}, expected: expected{value: 2.25}},
		{name: "native int", input: input{7, "float"}, expected: expected{value: 7.0}},
		{name: "numeric string", input: input{"2", "float"}, expected: expected{value: 2.0}},
		{name: "string with whitespace", input: input{"  -0.5\n", "float"}, expected: expected{value: -0.5}},
		{name: "double synonym", input: input{"4.5", "double"}, expected: expected{value: 4.5}},
		{name: "tag case and spaces", input: input{json.Number("1"), " Float "}, expected: expected{value: 1.0}},
		{name: "non-numeric string", input: input{"two", "float"}, expected: expected{err: "cannot convert string 'two' to float"}},
		{name: "empty string", input: input{"", "float"}, expected: expected{err: "cannot convert string '' to float"}},
		{name: "nan string", input: input{"NaN", "float"}, expected: expected{err: "not a finite float"}},
		{name: "inf string", input: input{"inf", "float"}, expected: expected{err: "not a finite float"}},
		{name: "json overflow", input: input{json.Number("1e400"), "float"}, expected: expected{err: "out of range"}},
		{name: "boolean", input: input{true, "float"}, expected: expected{err: "cannot convert boolean to float"}},
		{name: "null", input: input{nil, "float"}, expected: expected{err: "cannot convert null to float"}},
		{name: "object", input: input{map[string]any{"v": 1}, "float"}, expected: expected{err: "cannot convert object to float"}},
		{name: "array", input: input{[]any{json.Number("1")}, "float"}, expected: expected{err: "cannot convert array to float"}},
	})
}

func TestValue_Int(t *testing.T) {
	runCoercionTests(t, []struct {
		name     string
		input    input
		expected expected
	}{
		{name: "json integer", input: input{json.Number("42"), "int"}, expected: expected{value: int64(42)}},
		{name: "negative json integer", input: input{json.Number("-7"), "int"}, expected: expected{value: int64(-7)}},
		{name: "integral json float", input: input{json.Number("3.0"), "int"}, expected: expected{value: int64(3)}},
		{name: "integral exponent", input: input{json.Number("2e2"), "int"}, expected: expected{value: int64(200)}},
		{name: "native int", input: input{5, "int"}, expected: expected{value: int64(5)}},
		{name: "native integral float", input: input{6.0, "int"}, expected: expected{value: int64(6)}},
		{name: "integer string", input: input{"3", "int"}, expected: expected{value: int64(3)}},
		{name: "integral float string", input: input{" 3.0 ", "int"}, expected: expected{value: int64(3)}},
		{name: "fractional json float", input: input{json.Number("2.5"), "int"}, expected: expected{err: "float 2.5 not integral for int target"}},
		{name: "fractional native float", input: input{0.1, "int"}, expected: expected{err: "not integral"}},
		{name: "fractional string", input: input{"2.5", "int"}, expected: expected{err: "string float '2.5' not integral for int target"}},
		{name: "string nan", input: input{"nan", "int"}, expected: expected{err: "not integral"}},
		{name: "non-numeric string", input: input{"three", "int"}, expected: expected{err: "cannot convert string 'three' to int"}},
		{name: "json integer overflow", input: input{json.Number("9223372036854775808"), "int"}, expected: expected{err: "out of range for int target"}},
		{name: "float beyond int64", input: input{json.Number("1e19"), "int"}, expected: expected{err: "float 1e19 is out of range for int target"}},
		{name: "boolean", input: input{false, "int"}, expected: expected{err: "cannot convert boolean to int"}},
		{name: "null", input: input{nil, "int"}, expected: expected{err: "cannot convert null to int"}},
	})
}

func TestValue_Str(t *testing.T) {
	runCoercionTests(t, []struct {
		name     string
		input    input
		expected expected
	}{
		{name: "string unchanged", input: input{"  hello  ", "str"}, expected: expected{value: "  hello  "}},
		{name: "string synonym", input: input{"x", "string"}, expected: expected{value: "x"}},
		{name: "json integer", input: input{json.Number("3"), "str"}, expected: expected{value: "3"}},
		{name: "json float canonical", input: input{json.Number("2.50"), "str"}, expected: expected{value: "2.5"}},
		{name: "json exponent canonical", input: input{json.Number("1e2"), "str"}, expected: expected{value: "100.0"}},
		{name: "json integral float", input: input{json.Number("100.0"), "str"}, expected: expected{value: "100.0"}},
		{name: "json integer out of int64 range", input: input{json.Number("99999999999999999999"), "str"}, expected: expected{value: "99999999999999999999"}},
		{name: "native float", input: input{2.5, "str"}, expected: expected{value: "2.5"}},
		{name: "native integral float", input: input{3.0, "str"}, expected: expected{value: "3.0"}},
		{name: "native int", input: input{12, "str"}, expected: expected{value: "12"}},
		{name: "boolean", input: input{true, "str"}, expected: expected{value: "true"}},
		{name: "null", input: input{nil, "str"}, expected: expected{value: "null"}},
		{name: "object", input: input{map[string]any{"k": "v"}, "str"}, expected: expected{value: `{"k":"v"}`}},
		{name: "array", input: input{[]any{json.Number("1"), "a"}, "str"}, expected: expected{value: `[1,"a"]`}},
	})
}

func TestValue_Bool(t *testing.T) {
	runCoercionTests(t, []struct {
		name     string
		input    input
		expected expected
	}{
		{name: "true", input: input{true, "bool"}, expected: expected{value: true}},
		{name: "false", input: input{false, "bool"}, expected: expected{value: false}},
		{name: "string true", input: input{"true", "bool"}, expected: expected{value: true}},
		{name: "string TRUE padded", input: input{" TRUE ", "bool"}, expected: expected{value: true}},
		{name: "string 1", input: input{"1", "bool"}, expected: expected{value: true}},
		{name: "string False", input: input{"False", "bool"}, expected: expected{value: false}},
		{name: "string 0", input: input{"0", "bool"}, expected: expected{value: false}},
		{name: "json 1", input: input{json.Number("1"), "bool"}, expected: expected{value: true}},
		{name: "json 0", input: input{json.Number("0"), "bool"}, expected: expected{value: false}},
		{name: "native int 1", input: input{1, "bool"}, expected: expected{value: true}},
		{name: "string yes", input: input{"yes", "bool"}, expected: expected{err: "cannot parse boolean from string 'yes'"}},
		{name: "json 2", input: input{json.Number("2"), "bool"}, expected: expected{err: "cannot convert integer 2 to bool"}},
		{name: "json -1", input: input{json.Number("-1"), "bool"}, expected: expected{err: "cannot convert integer -1 to bool"}},
		{name: "json float", input: input{json.Number("1.0"), "bool"}, expected: expected{err: "cannot convert float 1.0 to bool"}},
		{name: "null", input: input{nil, "bool"}, expected: expected{err: "cannot convert null to bool"}},
		{name: "object", input: input{map[string]any{}, "bool"}, expected: expected{err: "cannot convert object to bool"}},
	})
}

func TestValue_UnsupportedType(t *testing.T) {
	runCoercionTests(t, []struct {
		name     string
		input    input
		expected expected
	}{
		{name: "list", input: input{[]any{}, "list"}, expected: expected{err: "unsupported expected type 'list'"}},
		{name: "empty tag", input: input{"x", ""}, expected: expected{err: "unsupported expected type ''"}},
		{name: "integer spelled out", input: input{json.Number("1"), "integer"}, expected: expected{err: "unsupported expected type 'integer'"}},
	})
}

func TestValue_FloatRoundTrip(t *testing.T) {
	numbers := []any{
		json.Number("0"),
		json.Number("-12"),
		json.Number("3.14159"),
		json.Number("6.02e23"),
		json.Number("-1E-9"),
		int64(math.MaxInt32),
		-0.75,
		float32(1.5),
	}

	for _, n := range numbers {
		want, _, err := asNumber(n)
		require.NoError(t, err)

		got, err := Value(n, "float")
		require.NoError(t, err, "value %v", n)
		assert.Equal(t, want.f, got, "value %v", n)
	}
}

func TestValue_ResultTypesAreExact(t *testing.T) {
	tests := []struct {
		declared string
		value    any
		expected any
	}{
		{declared: "float", value: json.Number("1"), expected: float64(0)},
		{declared: "int", value: json.Number("1"), expected: int64(0)},
		{declared: "str", value: json.Number("1"), expected: ""},
		{declared: "bool", value: json.Number("1"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			got, err := Value(tt.value, tt.declared)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, got)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "integer", Describe(json.Number("1")))
	assert.Equal(t, "float", Describe(json.Number("1.5")))
	assert.Equal(t, "float", Describe(1.5))
	assert.Equal(t, "string", Describe(""))
	assert.Equal(t, "null", Describe(nil))
	assert.Equal(t, "object", Describe(map[string]any{}))
	assert.Equal(t, "array", Describe([]any{}))
	assert.Equal(t, "boolean", Describe(true))
}
