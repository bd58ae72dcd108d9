package cli

import (
	"github.com/spf13/cobra"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	InputOptions
	To      string // dsl, alt or json
	Compact bool
}

// FmtResult is the JSON payload of the fmt and decode commands.
type FmtResult struct {
	Syntax string `json:"syntax"`
	Text   string `json:"text"`
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reprint a query in canonical form",
		Long: `Parse a query and print it in canonical form in the syntax given by
--to. Printing the output again yields the same text.

Examples:
  woql fmt -e 'and(t($S,p,$O), true)'
  woql fmt --to alt query.woql
  woql fmt --to json --compact query.woql`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(rootOpts, opts, args, cmd)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.To, "to", "dsl", "output syntax (dsl|alt|json)")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "print on one line")

	return cmd
}

func runFmt(opts *RootOptions, fo *FmtOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	q, _, err := opts.load(cmd, &fo.InputOptions, args)
	if err != nil {
		return formatter.Fail(err)
	}
	text, err := formatQuery(q, fo.To, opts.config().Indent, fo.Compact)
	if err != nil {
		return formatter.Fail(err)
	}
	return formatter.Success(FmtResult{Syntax: fo.To, Text: text}, text)
}
