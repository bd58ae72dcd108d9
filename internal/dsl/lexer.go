package dsl

import (
	"strings"
	"unicode/utf8"

	"github.com/roach88/woql/internal/queryir"
	"github.com/roach88/woql/internal/syntax"
)

// Lexer splits DSL text into tokens.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize lexes the whole input. The last token is always EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Offset: start}, nil
	}

	c := l.input[l.pos]
	switch c {
	case '(':
		return l.single(LPAREN), nil
	case ')':
		return l.single(RPAREN), nil
	case '[':
		return l.single(LBRACK), nil
	case ']':
		return l.single(RBRACK), nil
	case '{':
		return l.single(LBRACE), nil
	case '}':
		return l.single(RBRACE), nil
	case ',':
		return l.single(COMMA), nil
	case ':':
		return l.single(COLON), nil
	case '^':
		if strings.HasPrefix(l.input[l.pos:], "^^") {
			l.pos += 2
			return Token{Type: CARETS, Value: "^^", Offset: start}, nil
		}
	case '"', '\'':
		s, end, err := syntax.ScanString(l.input, start)
		if err != nil {
			return Token{}, err
		}
		l.pos = end
		return Token{Type: STRING, Value: s, Offset: start}, nil
	case '$':
		l.pos++
		name := l.ident()
		if !queryir.ValidVariableName(name) {
			return Token{}, syntax.Errorf(syntax.ErrCodeInvalidVariable, start, "invalid variable name %q", "$"+name)
		}
		return Token{Type: VARIABLE, Value: name, Offset: start}, nil
	}

	if c == '-' || (c >= '0' && c <= '9') {
		if end, ok := syntax.ScanNumber(l.input, start); ok {
			l.pos = end
			return Token{Type: NUMBER, Value: l.input[start:end], Offset: start}, nil
		}
	}
	if syntax.IsIdentStart(c) {
		return Token{Type: IDENT, Value: l.ident(), Offset: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return Token{}, syntax.Errorf(syntax.ErrCodeSyntax, start, "unexpected character %q", r)
}

func (l *Lexer) single(t TokenType) Token {
	tok := Token{Type: t, Value: l.input[l.pos : l.pos+1], Offset: l.pos}
	l.pos++
	return tok
}

func (l *Lexer) ident() string {
	start := l.pos
	for l.pos < len(l.input) && syntax.IsIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *Lexer) skipSpaceAndComments() error {
	for l.pos < len(l.input) {
		switch c := l.input[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '%':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return syntax.Errorf(syntax.ErrCodeUnexpectedEOF, l.pos, "unterminated comment")
			}
			l.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}
