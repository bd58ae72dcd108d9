package queryir

import (
	"fmt"
	"strconv"
	"strings"
)

// PathPattern is a sealed union describing a regular-expression-like graph
// traversal.
type PathPattern interface {
	pathNode() // Sealed
}

// PathPredicate follows one edge forward. An empty Predicate matches any edge.
type PathPredicate struct {
	Predicate string
}

func (PathPredicate) pathNode() {}

// InversePathPredicate follows one edge backwards.
type InversePathPredicate struct {
	Predicate string
}

func (InversePathPredicate) pathNode() {}

// PathSequence matches its patterns one after another.
type PathSequence []PathPattern

func (PathSequence) pathNode() {}

// PathOr matches any one of its patterns.
type PathOr []PathPattern

func (PathOr) pathNode() {}

// PathPlus matches one or more repetitions.
type PathPlus struct {
	Pattern PathPattern
}

func (PathPlus) pathNode() {}

// PathStar matches zero or more repetitions.
type PathStar struct {
	Pattern PathPattern
}

func (PathStar) pathNode() {}

// PathTimes matches between From and To repetitions (inclusive).
type PathTimes struct {
	Pattern PathPattern
	From    uint64
	To      uint64
}

func (PathTimes) pathNode() {}

// PathError reports a malformed path pattern string.
type PathError struct {
	Offset  int
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path pattern at offset %d: %s", e.Offset, e.Message)
}

// ParsePathPattern compiles the textual path syntax:
//
//	pattern := alt
//	alt     := seq ("|" seq)*
//	seq     := postfix ("," postfix)*
//	postfix := primary ("+" | "*" | "{" n "," m "}")*
//	primary := "(" pattern ")" | "<" pred | "." | pred
//
// "." matches any predicate; "<p" follows p backwards.
func ParsePathPattern(text string) (PathPattern, error) {
	p := &pathParser{src: text}
	p.skipSpace()
	pattern, err := p.parseAlt(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, &PathError{Offset: p.pos, Message: fmt.Sprintf("unexpected %q", p.src[p.pos])}
	}
	return pattern, nil
}

const maxPathDepth = 128

type pathParser struct {
	src string
	pos int
}

func (p *pathParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *pathParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *pathParser) parseAlt(depth int) (PathPattern, error) {
	if depth > maxPathDepth {
		return nil, &PathError{Offset: p.pos, Message: "pattern nested too deeply"}
	}
	first, err := p.parseSeq(depth)
	if err != nil {
		return nil, err
	}
	alts := []PathPattern{first}
	for {
		p.skipSpace()
		if p.peek() != '|' {
			break
		}
		p.pos++
		next, err := p.parseSeq(depth)
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return PathOr(alts), nil
}

func (p *pathParser) parseSeq(depth int) (PathPattern, error) {
	first, err := p.parsePostfix(depth)
	if err != nil {
		return nil, err
	}
	seq := []PathPattern{first}
	for {
		p.skipSpace()
		if p.peek() != ',' {
			break
		}
		p.pos++
		next, err := p.parsePostfix(depth)
		if err != nil {
			return nil, err
		}
		seq = append(seq, next)
	}
	if len(seq) == 1 {
		return first, nil
	}
	return PathSequence(seq), nil
}

func (p *pathParser) parsePostfix(depth int) (PathPattern, error) {
	pattern, err := p.parsePrimary(depth)
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			pattern = PathPlus{Pattern: pattern}
		case '*':
			p.pos++
			pattern = PathStar{Pattern: pattern}
		case '{':
			from, to, err := p.parseRange()
			if err != nil {
				return nil, err
			}
			pattern = PathTimes{Pattern: pattern, From: from, To: to}
		default:
			return pattern, nil
		}
	}
}

func (p *pathParser) parseRange() (uint64, uint64, error) {
	start := p.pos
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		return 0, 0, &PathError{Offset: start, Message: "unclosed '{'"}
	}
	body := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1

	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return 0, 0, &PathError{Offset: start, Message: fmt.Sprintf("expected {n,m}, got {%s}", body)}
	}
	from, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, &PathError{Offset: start, Message: fmt.Sprintf("invalid lower bound %q", parts[0])}
	}
	to, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, &PathError{Offset: start, Message: fmt.Sprintf("invalid upper bound %q", parts[1])}
	}
	if from > to {
		return 0, 0, &PathError{Offset: start, Message: fmt.Sprintf("lower bound %d exceeds upper bound %d", from, to)}
	}
	return from, to, nil
}

func (p *pathParser) parsePrimary(depth int) (PathPattern, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return nil, &PathError{Offset: p.pos, Message: "unexpected end of pattern"}
	case c == '(':
		open := p.pos
		p.pos++
		inner, err := p.parseAlt(depth + 1)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, &PathError{Offset: open, Message: "unclosed '('"}
		}
		p.pos++
		return inner, nil
	case c == '.':
		p.pos++
		return PathPredicate{}, nil
	case c == '<':
		p.pos++
		name := p.scanPredicate()
		if name == "" {
			return nil, &PathError{Offset: p.pos, Message: "expected predicate after '<'"}
		}
		return InversePathPredicate{Predicate: name}, nil
	default:
		name := p.scanPredicate()
		if name == "" {
			return nil, &PathError{Offset: p.pos, Message: fmt.Sprintf("unexpected %q", c)}
		}
		return PathPredicate{Predicate: name}, nil
	}
}

func (p *pathParser) scanPredicate() string {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("|,+*{}()< \t\n", rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// FormatPathPattern renders a pattern in the textual path syntax accepted by
// ParsePathPattern.
func FormatPathPattern(pattern PathPattern) string {
	var b strings.Builder
	formatPath(&b, pattern, 0)
	return b.String()
}

// Precedence levels: alternation binds loosest, postfix operators tightest.
const (
	precAlt = iota
	precSeq
	precPostfix
)

func formatPath(b *strings.Builder, pattern PathPattern, outer int) {
	switch pat := pattern.(type) {
	case PathPredicate:
		if pat.Predicate == "" {
			b.WriteByte('.')
		} else {
			b.WriteString(pat.Predicate)
		}
	case InversePathPredicate:
		b.WriteByte('<')
		b.WriteString(pat.Predicate)
	case PathSequence:
		writeJoined(b, []PathPattern(pat), ",", precSeq, outer)
	case PathOr:
		writeJoined(b, []PathPattern(pat), "|", precAlt, outer)
	case PathPlus:
		formatPath(b, pat.Pattern, precPostfix)
		b.WriteByte('+')
	case PathStar:
		formatPath(b, pat.Pattern, precPostfix)
		b.WriteByte('*')
	case PathTimes:
		formatPath(b, pat.Pattern, precPostfix)
		fmt.Fprintf(b, "{%d,%d}", pat.From, pat.To)
	}
}

func writeJoined(b *strings.Builder, parts []PathPattern, sep string, prec, outer int) {
	paren := outer > prec
	if paren {
		b.WriteByte('(')
	}
	for i, part := range parts {
		if i > 0 {
			b.WriteString(sep)
		}
		formatPath(b, part, prec+1)
	}
	if paren {
		b.WriteByte(')')
	}
}
