package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool           `json:"valid"`
	Syntax      string         `json:"syntax"`
	QueryID     string         `json:"query_id"`
	HasMutation bool           `json:"has_mutation"`
	Operators   map[string]int `json:"operators"`
	Variables   []string       `json:"variables"`
	Warnings    []string       `json:"warnings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a query against the document schema",
		Long: `Parse a query, check its tree, encode it and validate the document
against the CUE schema. Also reports whether the query mutates data, the
variables it uses and constructs that are legal but probably unintended.

Exit codes:
  0 - Valid
  1 - Parse, decode or schema error
  2 - Command error`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, in, args, cmd)
		},
	}
	in.register(cmd)

	return cmd
}

func runValidate(opts *RootOptions, in *InputOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	q, syn, err := opts.load(cmd, in, args)
	if err != nil {
		return formatter.Fail(err)
	}
	if err := queryir.Validate(q); err != nil {
		return formatter.Fail(err)
	}
	data, err := codec.Encode(q)
	if err != nil {
		return formatter.Fail(err)
	}
	if err := schema.Validate(data); err != nil {
		return formatter.Fail(err)
	}
	id, err := canonical.QueryID(q)
	if err != nil {
		return formatter.Fail(err)
	}

	a := queryir.Analyze(q)
	result := ValidationResult{
		Valid:       true,
		Syntax:      string(syn),
		QueryID:     id,
		HasMutation: a.HasMutation,
		Operators:   a.Operators,
		Variables:   make([]string, len(a.Variables)),
		Warnings:    a.Warnings,
	}
	for i, v := range a.Variables {
		result.Variables[i] = string(v)
	}
	for _, w := range a.Warnings {
		opts.logger().Warn("query warning", "warning", w)
	}
	return formatter.Success(result, validateText(result))
}

func validateText(r ValidationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ valid %s query %s\n", r.Syntax, r.QueryID)
	mode := "read-only"
	if r.HasMutation {
		mode = "mutating"
	}
	fmt.Fprintf(&b, "  %s\n", mode)

	types := make([]string, 0, len(r.Operators))
	for t := range r.Operators {
		types = append(types, t)
	}
	sort.Strings(types)
	ops := make([]string, len(types))
	for i, t := range types {
		ops[i] = fmt.Sprintf("%s×%d", t, r.Operators[t])
	}
	fmt.Fprintf(&b, "  operators: %s\n", strings.Join(ops, ", "))
	if len(r.Variables) > 0 {
		fmt.Fprintf(&b, "  variables: %s\n", strings.Join(r.Variables, ", "))
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return strings.TrimRight(b.String(), "\n")
}
