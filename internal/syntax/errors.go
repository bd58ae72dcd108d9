package syntax

import (
	"errors"
	"fmt"
)

// ParseError is returned by both text parsers.
//
// Offset is the byte offset into the input of the token that caused the
// failure. For unbalanced delimiters it points at the first delimiter that
// was never matched. Parsing is atomic: no partial tree is ever returned
// alongside a ParseError.
type ParseError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Offset is the byte offset of the offending token.
	Offset int

	// Message is a human-readable description.
	Message string

	// Function names the operator for argument errors.
	Function string

	// Expected and Got describe an argument count mismatch. Expected is a
	// rendering such as "2", "3..4" or "at least 1".
	Expected string
	Got      int
}

// ErrorCode categorizes parse errors.
type ErrorCode string

const (
	// ErrCodeSyntax indicates an unexpected token.
	ErrCodeSyntax ErrorCode = "SYNTAX"

	// ErrCodeUnexpectedEOF indicates input ended inside a construct.
	ErrCodeUnexpectedEOF ErrorCode = "UNEXPECTED_EOF"

	// ErrCodeInvalidVariable indicates a malformed variable name.
	ErrCodeInvalidVariable ErrorCode = "INVALID_VARIABLE"

	// ErrCodeInvalidFunction indicates a call to an unknown operator.
	ErrCodeInvalidFunction ErrorCode = "INVALID_FUNCTION"

	// ErrCodeInvalidArgumentCount indicates a call with the wrong arity.
	ErrCodeInvalidArgumentCount ErrorCode = "INVALID_ARGUMENT_COUNT"

	// ErrCodeInvalidLiteral indicates a literal that does not parse as its type.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"

	// ErrCodeInvalidArgument indicates an argument of the wrong kind for its
	// position, e.g. a non-variable select argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeTooDeep indicates nesting beyond the configured limit.
	ErrCodeTooDeep ErrorCode = "TOO_DEEP"
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Code, e.Offset, e.Message)
}

// Errorf creates a ParseError with a formatted message.
func Errorf(code ErrorCode, offset int, format string, args ...any) *ParseError {
	return &ParseError{Code: code, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// NewArgumentCountError creates a ParseError for a call with the wrong arity.
func NewArgumentCountError(function, expected string, got, offset int) *ParseError {
	return &ParseError{
		Code:     ErrCodeInvalidArgumentCount,
		Offset:   offset,
		Message:  fmt.Sprintf("%s expects %s arguments, got %d", function, expected, got),
		Function: function,
		Expected: expected,
		Got:      got,
	}
}

// NewTooDeepError creates a ParseError for nesting beyond max.
func NewTooDeepError(offset, max int) *ParseError {
	return Errorf(ErrCodeTooDeep, offset, "nesting exceeds maximum depth %d", max)
}

// HasCode reports whether err is a ParseError with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsSyntaxError returns true for unexpected tokens and truncated input.
func IsSyntaxError(err error) bool {
	return HasCode(err, ErrCodeSyntax) || HasCode(err, ErrCodeUnexpectedEOF)
}

// IsArgumentCountError returns true if err reports a call with the wrong arity.
func IsArgumentCountError(err error) bool {
	return HasCode(err, ErrCodeInvalidArgumentCount)
}

// IsTooDeep returns true if err reports excessive nesting.
func IsTooDeep(err error) bool {
	return HasCode(err, ErrCodeTooDeep)
}
