package dsl

import (
	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

// Parse parses DSL text into a query with the default limits.
func Parse(text string) (queryir.Query, error) {
	return ParseWithLimits(text, syntax.DefaultLimits())
}

// ParseWithLimits parses DSL text into a query. All errors are
// *syntax.ParseError.
func ParseWithLimits(text string, limits syntax.Limits) (queryir.Query, error) {
	tree, err := ParseTree(text, limits)
	if err != nil {
		return nil, err
	}
	return syntax.Lower(tree)
}

// ParseTree parses DSL text into the shared parse tree without lowering it.
func ParseTree(text string, limits syntax.Limits) (syntax.Node, error) {
	toks, err := NewLexer(text).Tokenize()
	if err != nil {
		return nil, err
	}
	if err := syntax.CheckBalance(delims(toks)); err != nil {
		return nil, err
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = syntax.DefaultMaxDepth
	}

	p := &parser{toks: toks, limits: limits}
	n, err := p.parseArg()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != EOF {
		return nil, p.unexpected(tok)
	}
	return n, nil
}

func delims(toks []Token) []syntax.Delim {
	var out []syntax.Delim
	for _, t := range toks {
		if t.Type.opens() || t.Type.closes() {
			out = append(out, syntax.Delim{Char: t.Value[0], Offset: t.Offset})
		}
	}
	return out
}

type parser struct {
	toks   []Token
	pos    int
	depth  int
	limits syntax.Limits
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != t {
		return tok, p.unexpected(tok)
	}
	return tok, nil
}

func (p *parser) unexpected(tok Token) error {
	if tok.Type == EOF {
		return syntax.Errorf(syntax.ErrCodeUnexpectedEOF, tok.Offset, "unexpected end of input")
	}
	return syntax.Errorf(syntax.ErrCodeSyntax, tok.Offset, "unexpected %s %q", tok.Type, tok.Value)
}

func (p *parser) enter(offset int) error {
	p.depth++
	if p.depth > p.limits.MaxDepth {
		return syntax.NewTooDeepError(offset, p.limits.MaxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseArg() (syntax.Node, error) {
	tok := p.next()
	switch tok.Type {
	case IDENT:
		if p.peek().Type == LPAREN {
			return p.parseCall(tok)
		}
		switch {
		case tok.Value == "true" || tok.Value == "false":
			return &syntax.Bool{Offset: tok.Offset, Value: tok.Value == "true"}, nil
		case syntax.IsVariableIdent(tok.Value):
			if !queryir.ValidVariableName(tok.Value) {
				return nil, syntax.Errorf(syntax.ErrCodeInvalidVariable, tok.Offset, "invalid variable name %q", tok.Value)
			}
			return &syntax.Var{Offset: tok.Offset, Name: tok.Value}, nil
		}
		return &syntax.String{Offset: tok.Offset, Value: tok.Value}, nil
	case VARIABLE:
		return &syntax.Var{Offset: tok.Offset, Name: tok.Value}, nil
	case STRING:
		if p.peek().Type == CARETS {
			p.next()
			typ, err := p.expect(IDENT)
			if err != nil {
				return nil, err
			}
			return &syntax.Typed{Offset: tok.Offset, Text: tok.Value, Type: typ.Value}, nil
		}
		return &syntax.String{Offset: tok.Offset, Value: tok.Value}, nil
	case NUMBER:
		return &syntax.Number{Offset: tok.Offset, Text: tok.Value}, nil
	case LBRACK:
		return p.parseList(tok)
	case LBRACE:
		return p.parseDict(tok)
	}
	return nil, p.unexpected(tok)
}

func (p *parser) parseCall(name Token) (syntax.Node, error) {
	if err := p.enter(name.Offset); err != nil {
		return nil, err
	}
	defer p.leave()

	p.next() // (
	args, err := p.parseArgs(RPAREN)
	if err != nil {
		return nil, err
	}
	return &syntax.Call{Offset: name.Offset, Name: name.Value, Args: args}, nil
}

func (p *parser) parseList(open Token) (syntax.Node, error) {
	if err := p.enter(open.Offset); err != nil {
		return nil, err
	}
	defer p.leave()

	elems, err := p.parseArgs(RBRACK)
	if err != nil {
		return nil, err
	}
	return &syntax.List{Offset: open.Offset, Elems: elems}, nil
}

// parseArgs reads a comma separated sequence up to and including end.
func (p *parser) parseArgs(end TokenType) ([]syntax.Node, error) {
	var args []syntax.Node
	if p.peek().Type == end {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.next()
		switch tok.Type {
		case COMMA:
			continue
		case end:
			return args, nil
		}
		return nil, p.unexpected(tok)
	}
}

func (p *parser) parseDict(open Token) (syntax.Node, error) {
	if err := p.enter(open.Offset); err != nil {
		return nil, err
	}
	defer p.leave()

	d := &syntax.Dict{Offset: open.Offset}
	if p.peek().Type == RBRACE {
		p.next()
		return d, nil
	}
	for {
		key, err := p.expect(STRING)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		val, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		d.Entries = append(d.Entries, syntax.DictEntry{Key: key.Value, Value: val})

		tok := p.next()
		switch tok.Type {
		case COMMA:
			continue
		case RBRACE:
			return d, nil
		}
		return nil, p.unexpected(tok)
	}
}
