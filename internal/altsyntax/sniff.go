package altsyntax

import (
	"encoding/json"
	"strings"
)

// Syntax names one of the three accepted input forms.
type Syntax string

const (
	JSON Syntax = "json"
	Alt  Syntax = "alt"
	DSL  Syntax = "dsl"
)

// Sniff guesses which syntax text is written in. Valid JSON, or input
// opening with a brace, is JSON. Input using the WOQL. prefix, "v:"
// variables or // comments is alternate syntax. Everything else is DSL.
func Sniff(text string) Syntax {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || json.Valid([]byte(trimmed)) {
		return JSON
	}
	if strings.HasPrefix(trimmed, callPrefix+".") {
		return Alt
	}

	// Look outside string literals for // comments and inside them for
	// variable sigils.
	for i := 0; i < len(trimmed); i++ {
		switch c := trimmed[i]; {
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(trimmed) && trimmed[j] != c {
				if trimmed[j] == '\\' {
					j++
				}
				j++
			}
			if strings.HasPrefix(trimmed[i+1:], "v:") {
				return Alt
			}
			i = j
		case c == '%' || c == '$':
			return DSL
		case c == '/' && strings.HasPrefix(trimmed[i:], "//"):
			return Alt
		}
	}
	return DSL
}
