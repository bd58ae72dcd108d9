package codec

import (
	"errors"
	"fmt"
)

// DecodeError reports a wire document that is not a valid query.
type DecodeError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Path locates the offending element, e.g. "$.query.and[1].subject".
	Path string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes decode errors.
type ErrorCode string

const (
	// ErrCodeUnknownType indicates an "@type" that names no operator or value form.
	ErrCodeUnknownType ErrorCode = "UNKNOWN_TYPE"

	// ErrCodeShapeMismatch indicates a JSON value of the wrong shape for its field.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"

	// ErrCodeMissingField indicates a required field is absent or null.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// ErrCodeUnexpectedField indicates a key the operator does not declare.
	ErrCodeUnexpectedField ErrorCode = "UNEXPECTED_FIELD"

	// ErrCodeInvalidLiteral indicates a literal whose value does not parse as its type.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"

	// ErrCodeTooDeep indicates nesting beyond the configured limit.
	ErrCodeTooDeep ErrorCode = "TOO_DEEP"

	// ErrCodeMalformedJSON indicates input that is not JSON at all.
	ErrCodeMalformedJSON ErrorCode = "MALFORMED_JSON"
)

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

func errorf(code ErrorCode, path, format string, args ...any) *DecodeError {
	return &DecodeError{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err is a DecodeError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsDecodeError returns true if err is a DecodeError of any code.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsTooDeep returns true if err reports excessive nesting.
func IsTooDeep(err error) bool {
	return HasCode(err, ErrCodeTooDeep)
}
