package xsd

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// aliases maps accepted alternative type names onto the canonical ones.
var aliases = map[string]string{
	"xsd:float":              TypeFloat,
	"xsd:nonNegativeInteger": TypeUnsignedInt,
	"xsd:unsignedLong":       TypeUnsignedInt,
	"xsd:integer":            TypeDecimal,
}

// CanonicalType resolves aliases and reports whether typ names a known
// literal type.
func CanonicalType(typ string) (string, bool) {
	if canonical, ok := aliases[typ]; ok {
		return canonical, true
	}
	switch typ {
	case TypeString, TypeDecimal, TypeFloat, TypeBoolean, TypeHexBinary,
		TypeURI, TypeDate, TypeUnsignedInt, TypeDateTime, TypeTime:
		return typ, true
	}
	return "", false
}

// Parse parses the canonical textual rendering of a literal of the given
// type. It is the inverse of Literal.String for every type.
func Parse(typ, text string) (Literal, error) {
	canonical, ok := CanonicalType(typ)
	if !ok {
		return nil, fmt.Errorf("unknown literal type %q", typ)
	}

	switch canonical {
	case TypeString:
		return String(text), nil
	case TypeDecimal:
		return NewDecimal(text)
	case TypeFloat:
		return parseFloat(text)
	case TypeBoolean:
		switch text {
		case "true", "1":
			return Boolean(true), nil
		case "false", "0":
			return Boolean(false), nil
		}
		return nil, fmt.Errorf("invalid boolean %q", text)
	case TypeHexBinary:
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("invalid hexBinary %q: %w", text, err)
		}
		return HexBinary(b), nil
	case TypeURI:
		return URI(text), nil
	case TypeDate:
		t, err := time.Parse("2006-01-02", text)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", text, err)
		}
		return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	case TypeUnsignedInt:
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unsignedInt %q: %w", text, err)
		}
		return UnsignedInt(n), nil
	case TypeDateTime:
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, fmt.Errorf("invalid dateTime %q: %w", text, err)
		}
		return NewDateTime(t), nil
	case TypeTime:
		t, err := time.Parse("15:04:05.999999999", text)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", text, err)
		}
		return Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}, nil
	}

	return nil, fmt.Errorf("unknown literal type %q", typ)
}

// ParseNumber classifies an unquoted numeric token:
//   - digits only: UnsignedInt (Decimal when it overflows uint64)
//   - sign or fraction without exponent: Decimal
//   - exponent: Float
func ParseNumber(text string) (Literal, error) {
	if text == "" {
		return nil, fmt.Errorf("empty number")
	}
	if !isNumber(text) {
		return nil, fmt.Errorf("invalid number %q", text)
	}

	if strings.ContainsAny(text, "eE") {
		return parseFloat(text)
	}
	if !strings.ContainsAny(text, "-+.") {
		if n, err := strconv.ParseUint(text, 10, 64); err == nil {
			return UnsignedInt(n), nil
		}
	}
	return NewDecimal(text)
}

func parseFloat(text string) (Literal, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid double %q: %w", text, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("invalid double %q: not finite", text)
	}
	return Float(f), nil
}

// isNumber reports whether text matches -?digits(.digits)?([eE][+-]?digits)?
func isNumber(text string) bool {
	i := 0
	if i < len(text) && text[i] == '-' {
		i++
	}
	start := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i == start {
		return false
	}
	if i < len(text) && text[i] == '.' {
		i++
		fracStart := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == fracStart {
			return false
		}
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		expStart := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == expStart {
			return false
		}
	}
	return i == len(text)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsFinite reports whether a literal can be rendered on the wire. Only Float
// can hold a non-finite value.
func IsFinite(l Literal) bool {
	if f, ok := l.(Float); ok {
		return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
	}
	return true
}

// Check reports why a literal has no lexical form that Parse accepts back,
// or nil when it round-trips.
func Check(l Literal) error {
	switch v := l.(type) {
	case Float:
		if !IsFinite(v) {
			return fmt.Errorf("non-finite number %s", v)
		}
	case String:
		if !utf8.ValidString(string(v)) {
			return fmt.Errorf("string is not valid UTF-8")
		}
	case URI:
		if !utf8.ValidString(string(v)) {
			return fmt.Errorf("uri is not valid UTF-8")
		}
	case Date:
		if v.Year < 0 || v.Year > 9999 {
			return fmt.Errorf("date year %d out of range", v.Year)
		}
		t := time.Date(v.Year, v.Month, v.Day, 0, 0, 0, 0, time.UTC)
		if t.Year() != v.Year || t.Month() != v.Month || t.Day() != v.Day {
			return fmt.Errorf("date %04d-%02d-%02d does not exist", v.Year, int(v.Month), v.Day)
		}
	case Time:
		if v.Hour < 0 || v.Hour > 23 || v.Minute < 0 || v.Minute > 59 ||
			v.Second < 0 || v.Second > 59 || v.Nanosecond < 0 || v.Nanosecond > 999999999 {
			return fmt.Errorf("time %s out of range", v)
		}
	case DateTime:
		if y := v.Time().Year(); y < 0 || y > 9999 {
			return fmt.Errorf("dateTime year %d out of range", y)
		}
	}
	return nil
}
