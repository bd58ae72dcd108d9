package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/canonical"
)

// HashResult is the JSON payload of the hash command.
type HashResult struct {
	QueryID string `json:"query_id"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "hash [file]",
		Short: "Print the content identifier of a query",
		Long: `Print the SHA-256 content identifier of a query. Queries that parse to
the same tree have the same identifier whatever syntax they are written in.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			q, _, err := rootOpts.load(cmd, in, args)
			if err != nil {
				return formatter.Fail(err)
			}
			id, err := canonical.QueryID(q)
			if err != nil {
				return formatter.Fail(err)
			}
			return formatter.Success(HashResult{QueryID: id}, id)
		},
	}
	in.register(cmd)

	return cmd
}
