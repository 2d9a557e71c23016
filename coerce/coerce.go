// Package coerce converts raw JSON values to the type a function argument declares.
//
// Conversion is best-effort and deliberately lenient about representation: "2"
// is a fine float and 3.0 is a fine int. It is strict about meaning: 2.5 is
// never an int and "yes" is never a bool.
//
// Values are expected as produced by extract.Parse (json.Number for numbers),
// but native Go numbers are accepted as well.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rickchristie/fncall"
	"github.com/rickchristie/fncall/extract"
)

// Error describes why a value could not be converted. It matches
// [fncall.ErrCoercion] with errors.Is.
type Error struct {
	// Declared is the type tag as written in the function definition.
	Declared string
	Msg      string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Is(target error) bool {
	return target == fncall.ErrCoercion
}

func errorf(declared, format string, args ...any) *Error {
	return &Error{Declared: declared, Msg: fmt.Sprintf(format, args...)}
}

// Value converts value to the Go type of the declared tag:
//
//   - float -> float64: JSON numbers, and strings holding a float literal
//     (surrounding whitespace ignored). NaN and infinities are rejected.
//   - int -> int64: JSON integers, floats with no fractional part, and strings
//     that parse to an integral float.
//   - str -> string: strings unchanged; numbers in canonical form (2.50 -> "2.5",
//     1e2 -> "100.0", 7 -> "7"); any other value rendered as its JSON text
//     (true -> "true", null -> "null").
//   - bool -> bool: booleans; strings "true"/"1" and "false"/"0" (trimmed,
//     case-insensitive); integers 1 and 0.
//
// An unrecognized tag is an error. On failure the returned value is nil and the
// error is an [*Error]. Value has no side effects.
func Value(value any, declared string) (any, error) {
	tag, ok := fncall.NormalizeType(declared)
	if !ok {
		return nil, errorf(declared, "unsupported expected type '%s'", declared)
	}

	switch tag {
	case fncall.TypeFloat:
		return toFloat(value, declared)
	case fncall.TypeInt:
		return toInt(value, declared)
	case fncall.TypeStr:
		return toStr(value), nil
	default:
		return toBool(value, declared)
	}
}

// number is a JSON number split into integer and float literals.
type number struct {
	isInt bool
	i     int64
	f     float64
	text  string
}

// asNumber reports whether value is a JSON number and decodes it. Booleans are
// not numbers.
func asNumber(value any) (number, bool, error) {
	switch v := value.(type) {
	case json.Number:
		text := v.String()
		if isIntegerLiteral(text) {
			i, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return number{}, true, fmt.Errorf("integer %s is out of range", text)
			}
			return number{isInt: true, i: i, f: float64(i), text: text}, true, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return number{}, true, fmt.Errorf("number %s is out of range", text)
		}
		return number{f: f, text: text}, true, nil
	case float64:
		return number{f: v, text: strconv.FormatFloat(v, 'f', -1, 64)}, true, nil
	case float32:
		f := float64(v)
		return number{f: f, text: strconv.FormatFloat(f, 'f', -1, 32)}, true, nil
	case int:
		return intNumber(int64(v)), true, nil
	case int8:
		return intNumber(int64(v)), true, nil
	case int16:
		return intNumber(int64(v)), true, nil
	case int32:
		return intNumber(int64(v)), true, nil
	case int64:
		return intNumber(v), true, nil
	case uint8:
		return intNumber(int64(v)), true, nil
	case uint16:
		return intNumber(int64(v)), true, nil
	case uint32:
		return intNumber(int64(v)), true, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return number{}, true, fmt.Errorf("integer %d is out of range", v)
		}
		return intNumber(int64(v)), true, nil
	case uint64:
		if v > math.MaxInt64 {
			return number{}, true, fmt.Errorf("integer %d is out of range", v)
		}
		return intNumber(int64(v)), true, nil
	default:
		return number{}, false, nil
	}
}

func intNumber(i int64) number {
	return number{isInt: true, i: i, f: float64(i), text: strconv.FormatInt(i, 10)}
}

func isIntegerLiteral(text string) bool {
	return !strings.ContainsAny(text, ".eE")
}

func toFloat(value any, declared string) (any, error) {
	if v, ok := value.(json.Number); ok {
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return nil, errorf(declared, "number %s is out of range for float target", v)
		}
		return f, nil
	}
	if n, ok, err := asNumber(value); ok {
		if err != nil {
			return nil, errorf(declared, "%v for float target", err)
		}
		return n.f, nil
	}

	s, ok := value.(string)
	if !ok {
		return nil, errorf(declared, "cannot convert %s to float", Describe(value))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, errorf(declared, "cannot convert string '%s' to float", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errorf(declared, "string '%s' is not a finite float", s)
	}
	return f, nil
}

func toInt(value any, declared string) (any, error) {
	if n, ok, err := asNumber(value); ok {
		if err != nil {
			return nil, errorf(declared, "%v for int target", err)
		}
		if n.isInt {
			return n.i, nil
		}
		if !isIntegral(n.f) {
			return nil, errorf(declared, "float %s not integral for int target", n.text)
		}
		if !fitsInt64(n.f) {
			return nil, errorf(declared, "float %s is out of range for int target", n.text)
		}
		return int64(n.f), nil
	}

	s, ok := value.(string)
	if !ok {
		return nil, errorf(declared, "cannot convert %s to int", Describe(value))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, errorf(declared, "cannot convert string '%s' to int", s)
	}
	if !isIntegral(f) {
		return nil, errorf(declared, "string float '%s' not integral for int target", s)
	}
	if !fitsInt64(f) {
		return nil, errorf(declared, "string '%s' is out of range for int target", s)
	}
	return int64(f), nil
}

func isIntegral(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Floor(f)
}

func fitsInt64(f float64) bool {
	return f >= math.MinInt64 && f < math.MaxInt64
}

func toStr(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	if n, ok, err := asNumber(value); ok {
		switch {
		case err != nil:
			return extract.Compact(value)
		case n.isInt:
			return strconv.FormatInt(n.i, 10)
		default:
			return fncall.FormatFloat(n.f)
		}
	}
	return extract.Compact(value)
}

func toBool(value any, declared string) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, errorf(declared, "cannot parse boolean from string '%s'", v)
	}

	if n, ok, err := asNumber(value); ok {
		if err != nil {
			return nil, errorf(declared, "%v for bool target", err)
		}
		if !n.isInt {
			return nil, errorf(declared, "cannot convert float %s to bool", n.text)
		}
		switch n.i {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, errorf(declared, "cannot convert integer %d to bool", n.i)
	}
	return nil, errorf(declared, "cannot convert %s to bool", Describe(value))
}

// Describe names the JSON kind of value for error messages: null, boolean,
// string, integer, float, object or array.
func Describe(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if n, ok, _ := asNumber(value); ok {
		if n.isInt {
			return "integer"
		}
		return "float"
	}
	return fmt.Sprintf("%T", value)
}
