package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Workers int    // worker pool size, 0 uses the configured value
	Filter  string // case filter (glob pattern on suite/case)
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Cases []*harness.Result `json:"cases"`
	harness.Summary
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <cases-dir>",
		Short: "Run conformance cases",
		Long: `Run the YAML conformance cases in a directory.

Each case gives a query in one or more syntaxes and optionally the
expected JSON document or the expected error. Every case is parsed,
round-tripped through the codec and both printers, and validated
against the schema.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid paths, malformed case files)

Examples:
  woql check ./cases
  woql check ./cases --filter "errors/*"
  woql check ./cases --workers 8 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "number of parallel workers (default from config)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern on suite/case")

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	cfg := opts.config()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return formatter.Fail(NewExitError(ExitCommandError, fmt.Sprintf("cases directory not found: %s", dir)))
	}
	suites, err := harness.LoadDir(dir)
	if err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, "failed to load cases", err))
	}
	cases, err := filterCases(harness.Flatten(suites), opts.Filter)
	if err != nil {
		return formatter.Fail(err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Harness.Workers
	}
	formatter.VerboseLog("running %d cases from %d suites on %d workers", len(cases), len(suites), workers)

	h := harness.New(harness.WithMaxDepth(cfg.MaxDepth), harness.WithLogger(opts.logger()))
	results, err := h.RunAll(cmd.Context(), cases, workers)
	if err != nil {
		return formatter.Fail(err)
	}

	result := CheckResult{Cases: results, Summary: harness.Summarize(results)}
	if err := formatter.Success(result, checkText(result)); err != nil {
		return err
	}
	if result.Failed > 0 {
		return &ExitError{Code: ExitFailure, Message: ErrCodeFailed, Silent: true}
	}
	return nil
}

// filterCases keeps the cases whose full name matches pattern.
func filterCases(cases []harness.Case, pattern string) ([]harness.Case, error) {
	if pattern == "" {
		return cases, nil
	}
	var out []harness.Case
	for _, c := range cases {
		matched, err := filepath.Match(pattern, c.Name)
		if err != nil {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid filter pattern: %v", err))
		}
		if matched {
			out = append(out, c)
		}
	}
	return out, nil
}

func checkText(r CheckResult) string {
	if r.Total == 0 {
		return "No cases found."
	}
	var b strings.Builder
	for _, c := range r.Cases {
		if c.Pass {
			fmt.Fprintf(&b, "✓ %s\n", c.Name)
			continue
		}
		fmt.Fprintf(&b, "✗ %s\n", c.Name)
		for _, e := range c.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total", r.Passed, r.Failed, r.Total)
	return b.String()
}
