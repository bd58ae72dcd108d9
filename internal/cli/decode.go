package cli

import (
	"github.com/spf13/cobra"
)

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{}

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a JSON document into query text",
		Long: `Decode a WOQL JSON document and print it as DSL or WOQL.* call text.

Unlike fmt, the input must be JSON.

Examples:
  woql decode query.json
  woql decode --to alt query.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Syntax = "json"
			return runFmt(rootOpts, opts, args, cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "JSON document (instead of a file)")
	cmd.Flags().StringVar(&opts.To, "to", "dsl", "output syntax (dsl|alt)")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "print on one line")

	return cmd
}
