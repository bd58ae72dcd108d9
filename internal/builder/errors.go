package builder

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a builder failure.
type ErrorCode string

const (
	// ErrCodeNonVariable indicates a non-variable where only a variable is allowed.
	ErrCodeNonVariable ErrorCode = "NON_VARIABLE"

	// ErrCodeInvalidVariable indicates a sigil string whose name is not a valid identifier.
	ErrCodeInvalidVariable ErrorCode = "INVALID_VARIABLE"

	// ErrCodeInvalidArgument indicates an argument of the wrong kind for its position.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeInvalidLiteral indicates a Go value with no literal form, such as NaN.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"

	// ErrCodeTooDeep indicates the finished query exceeds the depth limit.
	ErrCodeTooDeep ErrorCode = "TOO_DEEP"
)

// BuildError is the first failure recorded by a Builder.
type BuildError struct {
	Code    ErrorCode
	Op      string // builder call that failed, e.g. "select"
	Message string
}

func (e *BuildError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func errorf(code ErrorCode, op, format string, args ...any) *BuildError {
	return &BuildError{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err is a BuildError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Code == code
}

// IsBuildError reports whether err is a BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// IsNonVariable reports whether err is a non-variable projection failure.
func IsNonVariable(err error) bool {
	return HasCode(err, ErrCodeNonVariable)
}
