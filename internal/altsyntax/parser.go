package altsyntax

import (
	"encoding/json"
	"strings"

	"github.com/roach88/woql/internal/codec"
	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

// callPrefix may precede any call, as in WOQL.triple(...).
const callPrefix = "WOQL"

// Parse reads a query with the default limits.
func Parse(text string) (queryir.Query, error) {
	return ParseWithLimits(text, syntax.DefaultLimits())
}

// ParseWithLimits reads a query. Valid JSON is handed to the codec and its
// failures are *codec.DecodeError; anything else is parsed as alternate
// syntax and fails with *syntax.ParseError.
func ParseWithLimits(text string, limits syntax.Limits) (queryir.Query, error) {
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = syntax.DefaultMaxDepth
	}
	if json.Valid([]byte(text)) {
		return (&codec.Decoder{MaxDepth: limits.MaxDepth}).Decode([]byte(text))
	}
	tree, err := ParseTree(text, limits)
	if err != nil {
		return nil, err
	}
	return syntax.Lower(tree)
}

// ParseTree parses alternate syntax into the shared parse tree.
func ParseTree(text string, limits syntax.Limits) (syntax.Node, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	var delims []syntax.Delim
	for _, t := range toks {
		if t.typ == tokPunct && strings.IndexByte("()[]{}", t.value[0]) >= 0 {
			delims = append(delims, syntax.Delim{Char: t.value[0], Offset: t.offset})
		}
	}
	if err := syntax.CheckBalance(delims); err != nil {
		return nil, err
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = syntax.DefaultMaxDepth
	}

	p := &parser{toks: toks, limits: limits}
	n, err := p.arg()
	if err != nil {
		return nil, err
	}
	if p.peek().is(";") {
		p.next()
	}
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, unexpected(tok)
	}
	return n, nil
}

type parser struct {
	toks   []token
	pos    int
	depth  int
	limits syntax.Limits
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.typ != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(punct string) error {
	if tok := p.next(); !tok.is(punct) {
		return unexpected(tok)
	}
	return nil
}

func unexpected(tok token) error {
	if tok.typ == tokEOF {
		return syntax.Errorf(syntax.ErrCodeUnexpectedEOF, tok.offset, "unexpected end of input")
	}
	return syntax.Errorf(syntax.ErrCodeSyntax, tok.offset, "unexpected %s %q", tok.typ, tok.value)
}

func (p *parser) enter(offset int) error {
	p.depth++
	if p.depth > p.limits.MaxDepth {
		return syntax.NewTooDeepError(offset, p.limits.MaxDepth)
	}
	return nil
}

func (p *parser) arg() (syntax.Node, error) {
	tok := p.next()
	switch tok.typ {
	case tokIdent:
		name := tok
		if tok.value == callPrefix && p.peek().is(".") {
			p.next()
			name = p.next()
			if name.typ != tokIdent {
				return nil, unexpected(name)
			}
		}
		if p.peek().is("(") {
			return p.call(tok.offset, name.value)
		}
		switch name.value {
		case "true", "false":
			return &syntax.Bool{Offset: tok.offset, Value: name.value == "true"}, nil
		}
		return nil, syntax.Errorf(syntax.ErrCodeSyntax, tok.offset, "unexpected identifier %q", name.value)
	case tokString:
		if strings.HasPrefix(tok.value, queryir.VariablePrefix) {
			name := strings.TrimPrefix(tok.value, queryir.VariablePrefix)
			if !queryir.ValidVariableName(name) {
				return nil, syntax.Errorf(syntax.ErrCodeInvalidVariable, tok.offset, "invalid variable name %q", tok.value)
			}
			return &syntax.Var{Offset: tok.offset, Name: name}, nil
		}
		return &syntax.String{Offset: tok.offset, Value: tok.value}, nil
	case tokNumber:
		return &syntax.Number{Offset: tok.offset, Text: tok.value}, nil
	case tokPunct:
		switch tok.value {
		case "[":
			return p.list(tok.offset)
		case "{":
			return p.object(tok.offset)
		}
	}
	return nil, unexpected(tok)
}

func (p *parser) call(offset int, name string) (syntax.Node, error) {
	if err := p.enter(offset); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	p.next() // (
	args, err := p.args(")")
	if err != nil {
		return nil, err
	}
	return &syntax.Call{Offset: offset, Name: name, Args: args}, nil
}

func (p *parser) list(offset int) (syntax.Node, error) {
	if err := p.enter(offset); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	elems, err := p.args("]")
	if err != nil {
		return nil, err
	}
	return &syntax.List{Offset: offset, Elems: elems}, nil
}

// args reads a comma separated sequence, allowing a trailing comma, up to
// and including end.
func (p *parser) args(end string) ([]syntax.Node, error) {
	var out []syntax.Node
	for {
		if p.peek().is(end) {
			p.next()
			return out, nil
		}
		arg, err := p.arg()
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
		if p.peek().is(",") {
			p.next()
			continue
		}
		if err := p.expect(end); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (p *parser) object(offset int) (syntax.Node, error) {
	if err := p.enter(offset); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	d := &syntax.Dict{Offset: offset}
	for {
		tok := p.next()
		if tok.is("}") {
			return d, nil
		}
		if tok.typ != tokIdent && tok.typ != tokString {
			return nil, unexpected(tok)
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		val, err := p.arg()
		if err != nil {
			return nil, err
		}
		d.Entries = append(d.Entries, syntax.DictEntry{Key: tok.value, Value: val})

		if p.peek().is(",") {
			p.next()
			continue
		}
		if err := p.expect("}"); err != nil {
			return nil, err
		}
		return d, nil
	}
}
