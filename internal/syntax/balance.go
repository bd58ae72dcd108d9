package syntax

// Delim is a bracket token seen by a lexer: one of ( ) [ ] { }.
type Delim struct {
	Char   byte
	Offset int
}

var closers = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// CheckBalance matches brackets and reports the earliest delimiter that has
// no partner.
//
// A closer matches the innermost open delimiter of its kind; any openers
// nested inside that one are left unmatched. A closer with no open partner
// is unmatched itself. The error is UNEXPECTED_EOF only when every closer
// found its partner and input simply ended with openers still open. Any
// mismatch makes it SYNTAX, reported at the earliest unmatched delimiter.
func CheckBalance(delims []Delim) error {
	var (
		stack     []Delim
		unmatched *Delim
	)
	mark := func(d Delim) {
		if unmatched == nil || d.Offset < unmatched.Offset {
			unmatched = &d
		}
	}

	for _, d := range delims {
		if _, open := closers[d.Char]; open {
			stack = append(stack, d)
			continue
		}
		k := len(stack) - 1
		for k >= 0 && closers[stack[k].Char] != d.Char {
			k--
		}
		if k < 0 {
			mark(d)
			continue
		}
		for _, skipped := range stack[k+1:] {
			mark(skipped)
		}
		stack = stack[:k]
	}

	if len(stack) > 0 {
		if unmatched == nil {
			return Errorf(ErrCodeUnexpectedEOF, stack[0].Offset, "unclosed %q", string(stack[0].Char))
		}
		mark(stack[0])
	}
	if unmatched != nil {
		if _, open := closers[unmatched.Char]; open {
			return Errorf(ErrCodeSyntax, unmatched.Offset, "unclosed %q", string(unmatched.Char))
		}
		return Errorf(ErrCodeSyntax, unmatched.Offset, "unmatched %q", string(unmatched.Char))
	}
	return nil
}
