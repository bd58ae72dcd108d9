package codec

import (
	"bytes"
	"encoding/json"
	"strings"
)

// object is a JSON object that keeps its members in insertion order.
type object []member

type member struct {
	key   string
	value any // string, json.Number, bool, []any or object
}

func (o object) with(key string, value any) object {
	return append(o, member{key: key, value: value})
}

func tagged(typ string) object {
	return object{{key: "@type", value: typ}}
}

// writeJSON renders v. With an empty indent the output is compact.
func writeJSON(buf *bytes.Buffer, v any, indent string, level int) {
	newline := func(l int) {
		if indent == "" {
			return
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(indent, l))
	}

	switch x := v.(type) {
	case string:
		writeString(buf, x)
	case json.Number:
		buf.WriteString(x.String())
	case bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []any:
		if len(x) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(level + 1)
			writeJSON(buf, e, indent, level+1)
		}
		newline(level)
		buf.WriteByte(']')
	case object:
		buf.WriteByte('{')
		for i, m := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(level + 1)
			writeString(buf, m.key)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			writeJSON(buf, m.value, indent, level+1)
		}
		newline(level)
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// jsonDepth returns the deepest array or object nesting in data, ignoring
// brackets inside strings. It runs before unmarshalling so that absurdly
// nested input is rejected without building it.
func jsonDepth(data []byte) int {
	depth, deepest := 0, 0
	inString, escaped := false, false
	for _, c := range data {
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '[' || c == '{':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case c == ']' || c == '}':
			depth--
		}
	}
	return deepest
}
