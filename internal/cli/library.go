package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/library"
	"github.com/roach88/woql/internal/queryir"
)

// LibraryOptions holds flags shared by the library subcommands.
type LibraryOptions struct {
	*RootOptions
	DBPath string
}

// EntryResult describes a stored query in JSON output.
type EntryResult struct {
	Name      string   `json:"name"`
	Params    []string `json:"params"`
	QueryID   string   `json:"query_id"`
	LibraryID string   `json:"library_id"`
	Revision  string   `json:"revision"`
	UpdatedAt string   `json:"updated_at"`
	Text      string   `json:"text,omitempty"`
}

// NewLibraryCommand creates the library command and its subcommands.
func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage a library of named queries",
		Long: `Store named parametric queries in a SQLite database and read them back.

Saving a definition whose content is unchanged keeps its revision.`,
	}
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "library database (default from config)")

	cmd.AddCommand(newLibrarySaveCommand(opts))
	cmd.AddCommand(newLibraryGetCommand(opts))
	cmd.AddCommand(newLibraryListCommand(opts))
	cmd.AddCommand(newLibraryDeleteCommand(opts))

	return cmd
}

// open opens the configured library.
func (o *LibraryOptions) open() (*library.Store, error) {
	path := o.DBPath
	if path == "" {
		path = o.config().Library.Path
	}
	s, err := library.Open(path, library.WithLogger(o.logger()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open library", err)
	}
	return s, nil
}

func newLibrarySaveCommand(opts *LibraryOptions) *cobra.Command {
	in := &InputOptions{}
	var params []string

	cmd := &cobra.Command{
		Use:   "save <name> [file]",
		Short: "Save a query under a name",
		Long: `Save a query as a named parametric query. --params lists the variables
callers bind. A named query definition given as input keeps its
parameters unless --params is set.

Examples:
  woql library save person_by_name --params Name -e 'and(t($P, name, $Name), isa($P, Person))'
  woql library save everything query.woql`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

			q, _, err := opts.load(cmd, in, args[1:])
			if err != nil {
				return formatter.Fail(err)
			}
			def := definition(args[0], params, q)

			s, err := opts.open()
			if err != nil {
				return formatter.Fail(err)
			}
			defer s.Close()

			entry, err := s.Save(cmd.Context(), def)
			if err != nil {
				return formatter.Fail(err)
			}
			return formatter.Success(entryResult(entry, ""),
				fmt.Sprintf("saved %s revision %s", entry.Name(), entry.Revision))
		},
	}
	in.register(cmd)
	cmd.Flags().StringSliceVar(&params, "params", nil, "parameter variable names")

	return cmd
}

// definition wraps q as a named query. An already named query is renamed.
func definition(name string, params []string, q queryir.Query) queryir.NamedParametricQuery {
	if named, ok := q.(queryir.NamedParametricQuery); ok {
		if params == nil {
			params = named.Parameters
		}
		q = named.Query
	}
	return queryir.NewNamedParametricQuery(name, params, q)
}

func newLibraryGetCommand(opts *LibraryOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:           "get <name>",
		Short:         "Print a saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

			s, err := opts.open()
			if err != nil {
				return formatter.Fail(err)
			}
			defer s.Close()

			entry, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return formatter.Fail(err)
			}
			text, err := formatQuery(entry.Definition, to, opts.config().Indent, false)
			if err != nil {
				return formatter.Fail(err)
			}
			return formatter.Success(entryResult(entry, text), text)
		},
	}
	cmd.Flags().StringVar(&to, "to", "dsl", "output syntax (dsl|alt|json)")

	return cmd
}

func newLibraryListCommand(opts *LibraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved queries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

			s, err := opts.open()
			if err != nil {
				return formatter.Fail(err)
			}
			defer s.Close()

			entries, err := s.List(cmd.Context())
			if err != nil {
				return formatter.Fail(err)
			}
			results := make([]EntryResult, len(entries))
			lines := make([]string, len(entries))
			for i, e := range entries {
				results[i] = entryResult(e, "")
				lines[i] = fmt.Sprintf("%s(%s)\t%s\t%s", e.Name(),
					strings.Join(e.Definition.Parameters, ", "), e.Revision, e.QueryID[:12])
			}
			text := strings.Join(lines, "\n")
			if len(entries) == 0 {
				text = "No saved queries."
			}
			return formatter.Success(results, text)
		},
	}
}

func newLibraryDeleteCommand(opts *LibraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

			s, err := opts.open()
			if err != nil {
				return formatter.Fail(err)
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return formatter.Fail(err)
			}
			return formatter.Success(map[string]string{"deleted": args[0]}, "deleted "+args[0])
		},
	}
}

func entryResult(e library.Entry, text string) EntryResult {
	params := e.Definition.Parameters
	if params == nil {
		params = []string{}
	}
	return EntryResult{
		Name:      e.Name(),
		Params:    params,
		QueryID:   e.QueryID,
		LibraryID: e.LibraryID,
		Revision:  e.Revision,
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
		Text:      text,
	}
}
