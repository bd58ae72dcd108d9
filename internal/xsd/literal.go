package xsd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// XSD type names as they appear in the "@type" of a wire literal.
const (
	TypeString      = "xsd:string"
	TypeDecimal     = "xsd:decimal"
	TypeFloat       = "xsd:double"
	TypeBoolean     = "xsd:boolean"
	TypeHexBinary   = "xsd:hexBinary"
	TypeURI         = "xsd:anyURI"
	TypeDate        = "xsd:date"
	TypeUnsignedInt = "xsd:unsignedInt"
	TypeDateTime    = "xsd:dateTime"
	TypeTime        = "xsd:time"
)

// Literal is a sealed interface over the primitive literal types.
// Only the types in this package implement it.
//
// Every implementation is comparable with reflect.DeepEqual, so two literals
// carrying the same value are structurally equal regardless of how they
// were produced (parser, builder or decoder).
type Literal interface {
	// XSDType returns the wire type name, e.g. "xsd:string".
	XSDType() string

	// String returns the canonical textual rendering.
	String() string

	literal() // Sealed
}

// String is an xsd:string literal.
type String string

func (String) literal() {}
func (String) XSDType() string { return TypeString }
func (s String) String() string { return string(s) }

// Decimal is an xsd:decimal literal. The text is normalized through apd so
// that equal decimals written the same way compare equal; "1.50" and "1.5"
// remain distinct values, as they are distinct lexical forms on the wire.
type Decimal struct {
	text string
}

func (Decimal) literal() {}
func (Decimal) XSDType() string { return TypeDecimal }

func (d Decimal) String() string {
	if d.text == "" {
		return "0"
	}
	return d.text
}

// Apd returns the value as an arbitrary-precision decimal.
func (d Decimal) Apd() *apd.Decimal {
	v, _, err := apd.NewFromString(d.String())
	if err != nil {
		// Unreachable: text was produced by apd itself.
		return apd.New(0, 0)
	}
	return v
}

// NewDecimal parses a finite decimal number.
func NewDecimal(text string) (Decimal, error) {
	v, _, err := apd.NewFromString(text)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", text, err)
	}
	if v.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("invalid decimal %q: not finite", text)
	}
	return Decimal{text: v.String()}, nil
}

// MustDecimal is like NewDecimal but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDecimal(text string) Decimal {
	d, err := NewDecimal(text)
	if err != nil {
		panic(err)
	}
	return d
}

// Float is an xsd:double literal.
type Float float64

func (Float) literal() {}
func (Float) XSDType() string { return TypeFloat }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Boolean is an xsd:boolean literal.
type Boolean bool

func (Boolean) literal() {}
func (Boolean) XSDType() string { return TypeBoolean }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// HexBinary is an xsd:hexBinary literal. The underlying string holds the raw
// bytes; String renders them as lowercase hex.
type HexBinary string

func (HexBinary) literal() {}
func (HexBinary) XSDType() string { return TypeHexBinary }
func (h HexBinary) String() string { return hex.EncodeToString([]byte(h)) }

// Bytes returns a copy of the raw bytes.
func (h HexBinary) Bytes() []byte { return []byte(h) }

// URI is an xsd:anyURI literal.
type URI string

func (URI) literal() {}
func (URI) XSDType() string { return TypeURI }
func (u URI) String() string { return string(u) }

// Date is an xsd:date literal without timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (Date) literal() {}
func (Date) XSDType() string { return TypeDate }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// UnsignedInt is an xsd:unsignedInt literal.
type UnsignedInt uint64

func (UnsignedInt) literal() {}
func (UnsignedInt) XSDType() string { return TypeUnsignedInt }
func (u UnsignedInt) String() string { return strconv.FormatUint(uint64(u), 10) }

// DateTime is an xsd:dateTime literal. It keeps the instant and the UTC
// offset it was written with instead of a *time.Location, so values compare
// structurally.
type DateTime struct {
	sec    int64
	nsec   int32
	offset int32 // seconds east of UTC
}

func (DateTime) literal() {}
func (DateTime) XSDType() string { return TypeDateTime }

// NewDateTime captures t's instant and UTC offset. The offset is rounded to
// whole minutes since the lexical form has no seconds field for it.
func NewDateTime(t time.Time) DateTime {
	_, off := t.Zone()
	rounded := (time.Duration(off) * time.Second).Round(time.Minute)
	return DateTime{sec: t.Unix(), nsec: int32(t.Nanosecond()), offset: int32(rounded / time.Second)}
}

// Time returns the instant in a fixed zone carrying the original offset.
func (d DateTime) Time() time.Time {
	t := time.Unix(d.sec, int64(d.nsec))
	if d.offset == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone("", int(d.offset)))
}

func (d DateTime) String() string { return d.Time().Format(time.RFC3339Nano) }

// Time is an xsd:time literal.
type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func (Time) literal() {}
func (Time) XSDType() string { return TypeTime }

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond == 0 {
		return s
	}
	frac := fmt.Sprintf("%09d", t.Nanosecond)
	for len(frac) > 0 && frac[len(frac)-1] == '0' {
		frac = frac[:len(frac)-1]
	}
	return s + "." + frac
}
