package dsl

import "fmt"

// TokenType classifies a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	IDENT
	VARIABLE
	STRING
	NUMBER
	LPAREN
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	COMMA
	COLON
	CARETS
)

var tokenNames = map[TokenType]string{
	EOF:      "end of input",
	IDENT:    "identifier",
	VARIABLE: "variable",
	STRING:   "string",
	NUMBER:   "number",
	LPAREN:   "'('",
	RPAREN:   "')'",
	LBRACK:   "'['",
	RBRACK:   "']'",
	LBRACE:   "'{'",
	RBRACE:   "'}'",
	COMMA:    "','",
	COLON:    "':'",
	CARETS:   "'^^'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexeme with its byte offset. For STRING the value is unescaped;
// for VARIABLE it carries no sigil.
type Token struct {
	Type   TokenType
	Value  string
	Offset int
}

// closer returns the delimiter that closes an opening delimiter.
func (t TokenType) closer() TokenType {
	switch t {
	case LPAREN:
		return RPAREN
	case LBRACK:
		return RBRACK
	case LBRACE:
		return RBRACE
	}
	return EOF
}

func (t TokenType) opens() bool { return t == LPAREN || t == LBRACK || t == LBRACE }

func (t TokenType) closes() bool { return t == RPAREN || t == RBRACK || t == RBRACE }
