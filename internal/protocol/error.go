package protocol

import "fmt"

// Code is one of the identifiers from spec.md §7, plus the additive
// INTERNAL_ERROR safety-net code.
type Code string

const (
	CodeInvalidJSON       Code = "INVALID_JSON"
	CodeUnknownCommand    Code = "UNKNOWN_COMMAND"
	CodeNoDocument        Code = "NO_DOCUMENT"
	CodeInvalidDelta      Code = "INVALID_DELTA"
	CodeParseError        Code = "PARSE_ERROR"
	CodeVersionMismatch   Code = "VERSION_MISMATCH"
	CodeThemeNotFound     Code = "THEME_NOT_FOUND"
	CodeThemeAlreadyExist Code = "THEME_ALREADY_EXISTS"
	CodeInvalidThemeData  Code = "INVALID_THEME_DATA"
	CodeBuiltinReadOnly   Code = "BUILTIN_THEME_READONLY"
	CodeInvalidExportData Code = "INVALID_EXPORT_DATA"

	// CodeInternalError is outside the normative set from spec.md §7. It is
	// the result of a handler panic recovered at the dispatch boundary.
	CodeInternalError Code = "INTERNAL_ERROR"
)

// Error is a request-level failure. It carries a Code from spec.md §7 and
// wraps an underlying cause so errors.Is/errors.As work across the
// dispatch boundary.
type Error struct {
	Code Code
	Err  error
}

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the human-readable text for the response envelope's
// "error" field, distinct from Error() which also embeds the code.
func (e *Error) Message() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return e.Err.Error()
}
