package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/roach88/woql/internal/altsyntax"
	"github.com/roach88/woql/internal/canonical"
	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/dsl"
	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/schema"
	"github.com/roach88/woql/internal/syntax"
)

// Harness checks cases. It is safe for concurrent use.
type Harness struct {
	maxDepth   int
	logger     *slog.Logger
	validators sync.Pool
}

// Option configures a Harness.
type Option func(*Harness)

// WithMaxDepth sets the nesting limit for parsing and decoding.
func WithMaxDepth(n int) Option {
	return func(h *Harness) { h.maxDepth = n }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		maxDepth: syntax.DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run checks a single case with a default Harness.
func Run(c Case) *Result {
	return New().Run(c)
}

// input is one source form of a case.
type input struct {
	syntax string
	parse  func() (queryir.Query, error)
}

func (h *Harness) inputs(c Case) []input {
	limits := syntax.Limits{MaxDepth: h.maxDepth}
	var in []input
	if c.DSL != "" {
		in = append(in, input{"dsl", func() (queryir.Query, error) { return dsl.ParseWithLimits(c.DSL, limits) }})
	}
	if c.Alt != "" {
		in = append(in, input{"alt", func() (queryir.Query, error) { return altsyntax.ParseWithLimits(c.Alt, limits) }})
	}
	// Document is an input only when no text form is given or an error is
	// expected from it.
	if c.Document != "" && (len(in) == 0 || c.Error != nil) {
		dec := &codec.Decoder{MaxDepth: h.maxDepth}
		in = append(in, input{"json", func() (queryir.Query, error) { return dec.Decode([]byte(c.Document)) }})
	}
	return in
}

// Run checks a case.
//
// Execution flow:
// 1. Parse every input, or expect each to fail with c.Error
// 2. Check the parsed trees are equal
// 3. Round-trip the tree through the codec and both printers
// 4. Validate the encoded document against the schema
// 5. Compare with the expected document, if any
func (h *Harness) Run(c Case) *Result {
	result := NewResult(c.Name)
	inputs := h.inputs(c)

	if c.Error != nil {
		for _, in := range inputs {
			result.AddCheck("error " + in.syntax)
			_, err := in.parse()
			if msg := matchError(err, c.Error); msg != "" {
				result.AddError(fmt.Sprintf("%s: %s", in.syntax, msg))
			}
		}
		h.log(result)
		return result
	}

	var first queryir.Query
	for _, in := range inputs {
		result.AddCheck("parse " + in.syntax)
		q, err := in.parse()
		if err != nil {
			result.AddError(fmt.Sprintf("%s: %v", in.syntax, err))
			continue
		}
		if first == nil {
			first = q
			continue
		}
		result.AddCheck("equivalent " + in.syntax)
		if !queryir.Equal(first, q) {
			result.AddError(fmt.Sprintf("%s: parses to a different query than %s", in.syntax, inputs[0].syntax))
		}
	}
	if first == nil {
		h.log(result)
		return result
	}

	h.roundTrip(first, result)

	id, err := canonical.QueryID(first)
	if err != nil {
		result.AddError(fmt.Sprintf("query id: %v", err))
	}
	result.QueryID = id

	if c.Document != "" {
		result.AddCheck("document")
		want, err := canonical.DocumentID([]byte(c.Document))
		switch {
		case err != nil:
			result.AddError(fmt.Sprintf("document: %v", err))
		case want != id:
			got, _ := codec.Encode(first)
			result.AddError(fmt.Sprintf("document: encoding differs from expected\n  got: %s", got))
		}
	}

	h.log(result)
	return result
}

func (h *Harness) roundTrip(q queryir.Query, result *Result) {
	result.AddCheck("round trip json")
	data, err := codec.Encode(q)
	if err != nil {
		result.AddError(fmt.Sprintf("encode: %v", err))
		return
	}
	back, err := (&codec.Decoder{MaxDepth: h.maxDepth}).Decode(data)
	switch {
	case err != nil:
		result.AddError(fmt.Sprintf("decode: %v", err))
	case !queryir.Equal(q, back):
		result.AddError("round trip json: decoded query differs")
	}

	result.AddCheck("schema")
	if err := h.validate(data); err != nil {
		result.AddError(err.Error())
	}

	limits := syntax.Limits{MaxDepth: h.maxDepth}
	printers := []struct {
		name   string
		format func(queryir.Query) (string, error)
		parse  func(string) (queryir.Query, error)
	}{
		{"dsl", dsl.Format, func(s string) (queryir.Query, error) { return dsl.ParseWithLimits(s, limits) }},
		{"alt", altsyntax.Format, func(s string) (queryir.Query, error) { return altsyntax.ParseWithLimits(s, limits) }},
	}
	for _, p := range printers {
		result.AddCheck("round trip " + p.name)
		text, err := p.format(q)
		if err != nil {
			result.AddError(fmt.Sprintf("format %s: %v", p.name, err))
			continue
		}
		back, err := p.parse(text)
		switch {
		case err != nil:
			result.AddError(fmt.Sprintf("round trip %s: %v\n%s", p.name, err, text))
		case !queryir.Equal(q, back):
			result.AddError(fmt.Sprintf("round trip %s: reparsed query differs\n%s", p.name, text))
		}
	}
}

// validate borrows a schema validator from the pool; validators share a
// CUE context and must not be used concurrently.
func (h *Harness) validate(data []byte) error {
	v, _ := h.validators.Get().(*schema.Validator)
	if v == nil {
		var err error
		if v, err = schema.New(); err != nil {
			return err
		}
	}
	defer h.validators.Put(v)
	return v.Validate(data)
}

func (h *Harness) log(r *Result) {
	if r.Pass {
		h.logger.Debug("case passed", "case", r.Name, "checks", len(r.Checks))
		return
	}
	h.logger.Info("case failed", "case", r.Name, "errors", len(r.Errors))
}

// matchError returns a description of how err differs from want, or "".
func matchError(err error, want *ExpectedError) string {
	if err == nil {
		return fmt.Sprintf("expected %s error, got success", want.Code)
	}

	var (
		code   string
		offset = -1
	)
	var pe *syntax.ParseError
	var de *codec.DecodeError
	switch {
	case errors.As(err, &pe):
		code, offset = string(pe.Code), pe.Offset
	case errors.As(err, &de):
		code = string(de.Code)
	default:
		return fmt.Sprintf("expected %s error, got %v", want.Code, err)
	}

	if code != want.Code {
		return fmt.Sprintf("expected %s error, got %v", want.Code, err)
	}
	if want.Offset != nil && offset != *want.Offset {
		return fmt.Sprintf("expected offset %d, got %v", *want.Offset, err)
	}
	if want.Contains != "" && !strings.Contains(err.Error(), want.Contains) {
		return fmt.Sprintf("expected message containing %q, got %v", want.Contains, err)
	}
	return ""
}

// RunAll checks cases on a pool of workers. Results are returned in the
// order of cases. workers <= 0 means one worker per case.
func (h *Harness) RunAll(ctx context.Context, cases []Case, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = max(len(cases), 1)
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v any) {
		h.logger.Error("harness worker panic", "panic", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]*Result, len(cases))
	var wg sync.WaitGroup
	for i := range cases {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if results[i] == nil {
					results[i] = NewResult(cases[i].Name)
					results[i].AddError("case panicked")
				}
			}()
			results[i] = h.Run(cases[i])
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit %s: %w", cases[i].Name, err)
		}
	}
	wg.Wait()

	s := Summarize(results)
	h.logger.Info("harness run complete", "total", s.Total, "passed", s.Passed, "failed", s.Failed)
	return results, nil
}
