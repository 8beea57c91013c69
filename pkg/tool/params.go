package tool

import (
	"fmt"
	"strings"
)

// Parameter extraction helpers. These four functions are the only
// parameter-handling vocabulary adapters use, so the registry and protocol
// layers can reason about tool behavior without inspecting tool internals.

// Require extracts a required parameter of type T. It fails with
// MISSING_PARAMETER when the key is absent and INVALID_PARAMETER_TYPE when
// the value is not assignable to T.
func Require[T any](params map[string]any, key string) (T, error) {
	var zero T
	value, ok := params[key]
	if !ok || value == nil {
		return zero, NewError(CodeMissingParameter,
			fmt.Sprintf("required parameter %q is missing", key))
	}
	typed, ok := coerce[T](value)
	if !ok {
		return zero, NewError(CodeInvalidParameterType,
			fmt.Sprintf("parameter %q must be of type %T", key, zero))
	}
	return typed, nil
}

// Optional extracts an optional parameter of type T, returning def when the
// key is absent. A present value of the wrong type still fails.
func Optional[T any](params map[string]any, key string, def T) (T, error) {
	value, ok := params[key]
	if !ok || value == nil {
		return def, nil
	}
	typed, ok := coerce[T](value)
	if !ok {
		var zero T
		return def, NewError(CodeInvalidParameterType,
			fmt.Sprintf("parameter %q must be of type %T", key, zero))
	}
	return typed, nil
}

// RequireNonEmpty fails with EMPTY_PARAMETER when value is empty or
// all-whitespace.
func RequireNonEmpty(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return NewError(CodeEmptyParameter,
			fmt.Sprintf("parameter %q cannot be empty", name))
	}
	return nil
}

// coerce converts a decoded JSON value to T. JSON numbers always decode to
// float64, so integer parameters accept float64 values with an integral part.
func coerce[T any](value any) (T, bool) {
	if typed, ok := value.(T); ok {
		return typed, true
	}
	var zero T
	if f, ok := value.(float64); ok {
		switch any(zero).(type) {
		case int:
			if f == float64(int(f)) {
				return any(int(f)).(T), true
			}
		case int64:
			if f == float64(int64(f)) {
				return any(int64(f)).(T), true
			}
		}
	}
	return zero, false
}
