package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/schema"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "schema",
		Short:         "Print the CUE schema of the JSON document format",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := schema.Source()
			return newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()).
				Success(map[string]string{"schema": src}, src)
		},
	}
}
