package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/altsyntax"
	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/dsl"
	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

// InputOptions are the flags shared by commands that read a query.
type InputOptions struct {
	Expr   string // inline query text
	Syntax string // auto, dsl, alt or json; empty means the configured syntax
}

func (in *InputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.Expr, "expr", "e", "", "query text (instead of a file)")
	cmd.Flags().StringVar(&in.Syntax, "syntax", "", "input syntax (auto|dsl|alt|json)")
}

// Source is a query read from the command line, a file or stdin.
type Source struct {
	Name string // file name, "-" for stdin, "<expr>" for -e
	Text string
}

// readSource returns the query text from -e, a file argument, or stdin
// when the argument is "-" or absent.
func readSource(cmd *cobra.Command, in *InputOptions, args []string) (*Source, error) {
	if in.Expr != "" {
		if len(args) > 0 {
			return nil, NewExitError(ExitCommandError, "give either --expr or a file, not both")
		}
		return &Source{Name: "<expr>", Text: in.Expr}, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
		return &Source{Name: "-", Text: string(data)}, nil
	}

	data, err := os.ReadFile(args[0])
	if os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("file not found: %s", args[0]))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", args[0]), err)
	}
	return &Source{Name: args[0], Text: string(data)}, nil
}

// parseQuery parses text written in syn. "auto" sniffs the syntax.
func parseQuery(text, syn string, maxDepth int) (queryir.Query, altsyntax.Syntax, error) {
	detected := altsyntax.Syntax(syn)
	if syn == "" || syn == "auto" {
		detected = altsyntax.Sniff(text)
	}

	limits := syntax.Limits{MaxDepth: maxDepth}
	var (
		q   queryir.Query
		err error
	)
	switch detected {
	case altsyntax.JSON:
		q, err = (&codec.Decoder{MaxDepth: maxDepth}).Decode([]byte(strings.TrimSpace(text)))
	case altsyntax.Alt:
		q, err = altsyntax.ParseWithLimits(text, limits)
	case altsyntax.DSL:
		q, err = dsl.ParseWithLimits(text, limits)
	default:
		return nil, "", NewExitError(ExitCommandError, fmt.Sprintf("unknown syntax %q: must be auto, dsl, alt or json", syn))
	}
	return q, detected, err
}

// load reads and parses the command's query input.
func (o *RootOptions) load(cmd *cobra.Command, in *InputOptions, args []string) (queryir.Query, altsyntax.Syntax, error) {
	src, err := readSource(cmd, in, args)
	if err != nil {
		return nil, "", err
	}
	syn := in.Syntax
	if syn == "" {
		syn = o.config().Syntax
	}
	q, detected, err := parseQuery(src.Text, syn, o.config().MaxDepth)
	if err != nil {
		return nil, detected, err
	}
	o.logger().Debug("parsed query", "source", src.Name, "syntax", string(detected), "depth", queryir.Depth(q))
	return q, detected, nil
}

// formatQuery prints q in the named syntax.
func formatQuery(q queryir.Query, to, indent string, compact bool) (string, error) {
	switch to {
	case "", "dsl":
		if compact {
			return dsl.FormatCompact(q)
		}
		return dsl.Format(q)
	case "alt":
		return altsyntax.Format(q)
	case "json":
		var (
			data []byte
			err  error
		)
		if compact {
			data, err = codec.Encode(q)
		} else {
			data, err = codec.EncodeIndent(q, indent)
		}
		return string(data), err
	}
	return "", NewExitError(ExitCommandError, fmt.Sprintf("unknown output syntax %q: must be dsl, alt or json", to))
}
