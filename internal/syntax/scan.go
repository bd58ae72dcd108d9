package syntax

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ScanString reads a quoted string starting at input[start], which must be
// a double or single quote. Escapes follow JSON, with \' added for single
// quoted strings. It returns the unescaped value and the offset just past
// the closing quote.
func ScanString(input string, start int) (string, int, error) {
	quote := input[start]
	var b strings.Builder
	i := start + 1
	for {
		if i >= len(input) {
			return "", 0, Errorf(ErrCodeUnexpectedEOF, start, "unterminated string")
		}
		c := input[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\':
			if i+1 >= len(input) {
				return "", 0, Errorf(ErrCodeUnexpectedEOF, start, "unterminated string")
			}
			esc := input[i+1]
			i += 2
			switch esc {
			case '"', '\\', '/', '\'':
				b.WriteByte(esc)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				r, next, err := scanUnicodeEscape(input, i-2)
				if err != nil {
					return "", 0, err
				}
				b.WriteRune(r)
				i = next
			default:
				return "", 0, Errorf(ErrCodeSyntax, i-2, "invalid escape \\%c", esc)
			}
		case c < 0x20:
			return "", 0, Errorf(ErrCodeSyntax, i, "control character in string")
		default:
			r, size := utf8.DecodeRuneInString(input[i:])
			if r == utf8.RuneError && size == 1 {
				return "", 0, Errorf(ErrCodeSyntax, i, "invalid UTF-8 in string")
			}
			b.WriteString(input[i : i+size])
			i += size
		}
	}
}

// scanUnicodeEscape decodes \uXXXX at input[at], joining a following low
// surrogate escape when the first is a high surrogate.
func scanUnicodeEscape(input string, at int) (rune, int, error) {
	r, ok := hex4(input, at+2)
	if !ok {
		return 0, 0, Errorf(ErrCodeSyntax, at, "invalid unicode escape")
	}
	next := at + 6
	if utf16.IsSurrogate(r) {
		if strings.HasPrefix(input[next:], `\u`) {
			if lo, ok := hex4(input, next+2); ok {
				if dec := utf16.DecodeRune(r, lo); dec != utf8.RuneError {
					return dec, next + 6, nil
				}
			}
		}
		return utf8.RuneError, next, nil
	}
	return r, next, nil
}

func hex4(input string, at int) (rune, bool) {
	if at+4 > len(input) {
		return 0, false
	}
	var r rune
	for _, c := range []byte(input[at : at+4]) {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

// ScanNumber returns the end offset of a number -?digits(.digits)?([eE][+-]?digits)?
// starting at input[start], or ok=false if none is there.
func ScanNumber(input string, start int) (end int, ok bool) {
	i := start
	if i < len(input) && input[i] == '-' {
		i++
	}
	digits := func() bool {
		from := i
		for i < len(input) && input[i] >= '0' && input[i] <= '9' {
			i++
		}
		return i > from
	}
	if !digits() {
		return start, false
	}
	if i+1 < len(input) && input[i] == '.' && input[i+1] >= '0' && input[i+1] <= '9' {
		i++
		digits()
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		save := i
		i++
		if i < len(input) && (input[i] == '+' || input[i] == '-') {
			i++
		}
		if !digits() {
			i = save
		}
	}
	return i, true
}

// Quote renders s as a double-quoted string that ScanString reads back
// unchanged.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f || r == 0x2028 || r == 0x2029 {
				b.WriteString(`\u`)
				const hexDigits = "0123456789abcdef"
				for shift := 12; shift >= 0; shift -= 4 {
					b.WriteByte(hexDigits[(r>>uint(shift))&0xf])
				}
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// IsIdentStart reports whether c may begin a bare identifier.
func IsIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsIdentPart reports whether c may continue a bare identifier. Colons are
// included so prefixed names such as rdf:type need no quotes.
func IsIdentPart(c byte) bool {
	return IsIdentStart(c) || (c >= '0' && c <= '9') || c == ':'
}

// IsVariableIdent reports whether a bare identifier reads as a variable:
// it starts with an upper case letter or an underscore.
func IsVariableIdent(s string) bool {
	return s != "" && (s[0] == '_' || (s[0] >= 'A' && s[0] <= 'Z'))
}
