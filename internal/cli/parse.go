package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/codec"
)

// ParseResult is the JSON payload of the parse command.
type ParseResult struct {
	Syntax   string          `json:"syntax"`
	QueryID  string          `json:"query_id"`
	Document json.RawMessage `json:"document"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a query and print its JSON document",
		Long: `Parse a query written in the DSL, the WOQL.* call syntax or JSON and
print the wire document.

The input syntax is detected unless --syntax is given. With no file
argument, or "-", the query is read from stdin.

Examples:
  woql parse -e 'triple($S, rdf:type, Person)'
  woql parse query.woql
  echo 'WOQL.triple("v:S", "p", "v:O")' | woql parse --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, in, args, cmd)
		},
	}
	in.register(cmd)

	return cmd
}

func runParse(opts *RootOptions, in *InputOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	q, syn, err := opts.load(cmd, in, args)
	if err != nil {
		return formatter.Fail(err)
	}
	doc, err := codec.Encode(q)
	if err != nil {
		return formatter.Fail(err)
	}
	id, err := canonical.QueryID(q)
	if err != nil {
		return formatter.Fail(err)
	}
	pretty, err := codec.EncodeIndent(q, opts.config().Indent)
	if err != nil {
		return formatter.Fail(err)
	}

	formatter.VerboseLog("syntax: %s", syn)
	formatter.VerboseLog("query id: %s", id)
	return formatter.Success(ParseResult{
		Syntax:   string(syn),
		QueryID:  id,
		Document: doc,
	}, string(pretty))
}
