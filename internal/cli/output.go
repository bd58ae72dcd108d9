package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/woql/internal/builder"
	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/library"
	"github.com/roach88/woql/internal/schema"
	"github.com/roach88/woql/internal/syntax"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Input rejected (parse, decode or schema error, failing cases)
	ExitCommandError = 2 // Command error (missing file, bad flag, database error)
)

// Error codes for failures that carry no code of their own.
const (
	ErrCodeGeneric  = "ERROR"
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeInput    = "INPUT"
	ErrCodeSchema   = "SCHEMA"
	ErrCodeLibrary  = "LIBRARY"
	ErrCodeFailed   = "CASES_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
	Silent  bool   // Already reported through an OutputFormatter
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // e.g. "UNEXPECTED_EOF", "UNKNOWN_TYPE"
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format. text is
// what the text format prints.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, text)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(err error) error {
	code, details := describeError(err)
	if outErr := f.Error(code, err.Error(), details); outErr != nil {
		return outErr
	}
	exit := ExitFailure
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		exit = exitErr.Code
	}
	return &ExitError{Code: exit, Message: code, Err: err, Silent: true}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// describeError maps a typed error to its code and structured details.
func describeError(err error) (string, any) {
	var (
		pe   *syntax.ParseError
		de   *codec.DecodeError
		be   *builder.BuildError
		ve   *schema.ValidationError
		exit *ExitError
	)
	switch {
	case errors.As(err, &pe):
		details := map[string]any{"offset": pe.Offset}
		if pe.Function != "" {
			details["function"] = pe.Function
			details["expected"] = pe.Expected
			details["got"] = pe.Got
		}
		return string(pe.Code), details
	case errors.As(err, &de):
		return string(de.Code), map[string]any{"path": de.Path}
	case errors.As(err, &be):
		return string(be.Code), nil
	case errors.As(err, &ve):
		return ErrCodeSchema, map[string]any{"path": ve.Path}
	case errors.Is(err, library.ErrNotFound):
		return ErrCodeNotFound, nil
	case errors.As(err, &exit) && exit.Code == ExitCommandError:
		return ErrCodeInput, nil
	}
	return ErrCodeGeneric, nil
}

// newFormatter builds the formatter for a command.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut, // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
