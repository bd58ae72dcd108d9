package altsyntax

import (
	"strings"
	"unicode/utf8"

	"github.com/roach88/woql/internal/syntax"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	}
	return "punctuation"
}

type token struct {
	typ    tokenType
	value  string
	offset int
}

func (t token) is(punct string) bool { return t.typ == tokPunct && t.value == punct }

// lex splits alternate syntax text into tokens ending with tokEOF.
func lex(input string) ([]token, error) {
	var toks []token
	pos := 0
	for {
		var err error
		if pos, err = skipSpace(input, pos); err != nil {
			return nil, err
		}
		if pos >= len(input) {
			return append(toks, token{typ: tokEOF, offset: pos}), nil
		}

		start := pos
		c := input[pos]
		switch {
		case strings.IndexByte("()[]{},:.;", c) >= 0:
			toks = append(toks, token{typ: tokPunct, value: input[pos : pos+1], offset: start})
			pos++
		case c == '"' || c == '\'':
			s, end, err := syntax.ScanString(input, start)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{typ: tokString, value: s, offset: start})
			pos = end
		case c == '-' || (c >= '0' && c <= '9'):
			end, ok := syntax.ScanNumber(input, start)
			if !ok {
				return nil, syntax.Errorf(syntax.ErrCodeSyntax, start, "unexpected character %q", rune(c))
			}
			toks = append(toks, token{typ: tokNumber, value: input[start:end], offset: start})
			pos = end
		case c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			pos++
			for pos < len(input) && isJSIdentPart(input[pos]) {
				pos++
			}
			toks = append(toks, token{typ: tokIdent, value: input[start:pos], offset: start})
		default:
			r, _ := utf8.DecodeRuneInString(input[pos:])
			return nil, syntax.Errorf(syntax.ErrCodeSyntax, start, "unexpected character %q", r)
		}
	}
}

func isJSIdentPart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipSpace(input string, pos int) (int, error) {
	for pos < len(input) {
		switch {
		case input[pos] == ' ' || input[pos] == '\t' || input[pos] == '\n' || input[pos] == '\r':
			pos++
		case strings.HasPrefix(input[pos:], "//"):
			for pos < len(input) && input[pos] != '\n' {
				pos++
			}
		case strings.HasPrefix(input[pos:], "/*"):
			end := strings.Index(input[pos+2:], "*/")
			if end < 0 {
				return 0, syntax.Errorf(syntax.ErrCodeUnexpectedEOF, pos, "unterminated comment")
			}
			pos += 2 + end + 2
		default:
			return pos, nil
		}
	}
	return pos, nil
}
