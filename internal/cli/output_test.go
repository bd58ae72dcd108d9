package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/dsl"
	"github.com/roach88/woql/internal/library"
	"github.com/roach88/woql/internal/schema"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data, "ignored")
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.NotContains(t, buf.String(), "ignored")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("SYNTAX", "unexpected token", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SYNTAX", resp.Error.Code)
	assert.Equal(t, "unexpected token", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success(nil, "triple($S, \"p\", $O)")
	require.NoError(t, err)
	assert.Equal(t, "triple($S, \"p\", $O)\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("UNEXPECTED_EOF", "unclosed \"(\"", map[string]int{"offset": 3})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNEXPECTED_EOF]")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error("SYNTAX", "unexpected token", map[string]int{"offset": 3})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("parsing %s", "query.woql")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "parsing query.woql")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	_, parseErr := dsl.Parse("triple(")
	require.Error(t, parseErr)

	err := formatter.Fail(parseErr)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Silent)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "UNEXPECTED_EOF", resp.Error.Code)
	assert.Equal(t, map[string]any{"offset": float64(6)}, resp.Error.Details)
}

func TestOutputFormatter_FailKeepsCommandExitCode(t *testing.T) {
	formatter := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}}
	err := formatter.Fail(NewExitError(ExitCommandError, "file not found: x"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDescribeError(t *testing.T) {
	_, decodeErr := codec.Decode([]byte(`{"@type":"Nope"}`))
	require.Error(t, decodeErr)

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"decode", decodeErr, "UNKNOWN_TYPE"},
		{"schema", &schema.ValidationError{Path: "$.query", Message: "bad"}, ErrCodeSchema},
		{"not found", fmt.Errorf("get %q: %w", "x", library.ErrNotFound), ErrCodeNotFound},
		{"command", NewExitError(ExitCommandError, "bad flag"), ErrCodeInput},
		{"other", errors.New("boom"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := describeError(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "x"))))
}

func TestExitError_Message(t *testing.T) {
	err := WrapExitError(ExitCommandError, "failed to read q.woql", errors.New("permission denied"))
	assert.Equal(t, "failed to read q.woql: permission denied", err.Error())
	assert.Equal(t, "permission denied", errors.Unwrap(err).Error())
}
