package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

const (
	replPrompt   = "woql> "
	replContinue = "  ... "
)

const replHelp = `Enter a query to see it printed in canonical form with its id.
Unclosed brackets continue the query on the next line.

  .syntax [auto|dsl|alt|json]  show or set the input syntax
  .to [dsl|alt|json]           show or set the output syntax
  .help                        show this help
  .exit                        leave the shell`

// lineReader is the part of liner.State the shell uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// Shell is an interactive read-print loop over queries.
type Shell struct {
	in       lineReader
	out      io.Writer
	opts     *RootOptions
	syntax   string
	to       string
	finished bool
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:           "repl",
		Short:         "Interactive query shell",
		Long:          "Read queries interactively and print each one in canonical form with its id.\n\n" + replHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := liner.NewLiner()
			state.SetCtrlCAborts(true)
			state.SetCompleter(completeOperator)

			sh := newShell(state, cmd.OutOrStdout(), rootOpts)
			sh.to = to
			defer sh.Close()
			return sh.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&to, "to", "dsl", "output syntax (dsl|alt|json)")

	return cmd
}

func newShell(in lineReader, out io.Writer, opts *RootOptions) *Shell {
	return &Shell{
		in:     in,
		out:    out,
		opts:   opts,
		syntax: opts.config().Syntax,
		to:     "dsl",
	}
}

// Close releases the terminal.
func (s *Shell) Close() error {
	return s.in.Close()
}

// Run reads until end of input, .exit or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, `WOQL shell. Type ".help" for commands.`)

	var pending strings.Builder
	for !s.finished {
		if err := ctx.Err(); err != nil {
			return err
		}

		prompt := replPrompt
		if pending.Len() > 0 {
			prompt = replContinue
		}
		line, err := s.in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ".") {
				s.in.AppendHistory(trimmed)
				s.command(trimmed)
				continue
			}
		} else {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)

		if s.eval(pending.String()) {
			s.in.AppendHistory(strings.ReplaceAll(pending.String(), "\n", " "))
			pending.Reset()
		}
	}
	return nil
}

// eval parses and prints text. It returns false when text ends inside an
// unclosed bracket and more input is needed.
func (s *Shell) eval(text string) bool {
	cfg := s.opts.config()
	q, _, err := parseQuery(text, s.syntax, cfg.MaxDepth)
	var pe *syntax.ParseError
	if errors.As(err, &pe) && pe.Code == syntax.ErrCodeUnexpectedEOF {
		return false
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return true
	}

	out, err := formatQuery(q, s.to, cfg.Indent, false)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return true
	}
	id, err := canonical.QueryID(q)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return true
	}
	fmt.Fprintln(s.out, out)
	fmt.Fprintf(s.out, "id: %s\n", id)
	s.opts.logger().Debug("repl query", "query_id", id, "depth", queryir.Depth(q))
	return true
}

func (s *Shell) command(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".help":
		fmt.Fprintln(s.out, replHelp)
	case ".exit", ".quit":
		s.finished = true
	case ".syntax":
		s.setting(fields, &s.syntax, "auto", "dsl", "alt", "json")
	case ".to":
		s.setting(fields, &s.to, "dsl", "alt", "json")
	default:
		fmt.Fprintf(s.out, "unknown command %s (try .help)\n", fields[0])
	}
}

func (s *Shell) setting(fields []string, target *string, allowed ...string) {
	if len(fields) == 1 {
		fmt.Fprintln(s.out, *target)
		return
	}
	for _, a := range allowed {
		if fields[1] == a {
			*target = a
			fmt.Fprintf(s.out, "%s %s\n", fields[0][1:], a)
			return
		}
	}
	fmt.Fprintf(s.out, "%s must be one of %s\n", fields[0][1:], strings.Join(allowed, ", "))
}

// completeOperator completes the operator name being typed at the end of
// line.
func completeOperator(line string) []string {
	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	}) + 1
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	// Variables are not operators.
	if start > 0 && line[start-1] == '$' {
		return nil
	}

	var out []string
	for _, name := range queryir.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, line[:start]+name)
		}
	}
	return out
}
