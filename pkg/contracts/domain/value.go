package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	KindMissing Kind = iota
	KindInteger
	KindFloat
	KindText
)

// String returns the lowercase kind name used in reports
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText implements encoding.TextMarshaler so kinds can be map keys in JSON
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the names produced by MarshalText
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "missing":
		*k = KindMissing
	case "integer":
		*k = KindInteger
	case "float":
		*k = KindFloat
	case "text":
		*k = KindText
	default:
		return fmt.Errorf("unknown value kind %q", string(text))
	}
	return nil
}

// Class groups kinds for type-consistency checks
type Class string

const (
	ClassNone    Class = ""
	ClassNumeric Class = "numeric"
	ClassText    Class = "text"
)

// Class returns the comparison class of the kind. Missing has no class.
func (k Kind) Class() Class {
	switch k {
	case KindInteger, KindFloat:
		return ClassNumeric
	case KindText:
		return ClassText
	default:
		return ClassNone
	}
}

// ParseClass converts a declared type name into a Class
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "integer", "int", "float":
		return ClassNumeric, nil
	case "text", "string":
		return ClassText, nil
	default:
		return ClassNone, fmt.Errorf("unknown column type %q", s)
	}
}

// Value is a single cell: missing, integer, float or text.
// The zero Value is Missing. Values are comparable with ==.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Equal reports whether both values have the same kind and payload
func (v Value) Equal(o Value) bool { return v == o }

// Missing returns the distinguished absence marker
func Missing() Value { return Value{} }

// Int returns an integer value
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float returns a float value. Negative zero is stored as zero so that
// == and TupleKey agree on it.
func Float(v float64) Value {
	if v == 0 {
		v = 0
	}
	return Value{kind: KindFloat, f: v}
}

// Text returns a text value. The empty string is a valid text value, not missing.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Number returns the numeric value for integers and floats
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Str returns the text held by v
func (v Value) Str() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// String renders the value for display
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	default:
		return "<missing>"
	}
}

// key is an unambiguous encoding used to group tuples of values
func (v Value) key(b *strings.Builder) {
	switch v.kind {
	case KindInteger:
		b.WriteString("i")
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		b.WriteString("f")
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindText:
		b.WriteString("t")
		b.WriteString(strconv.Itoa(len(v.s)))
		b.WriteByte(':')
		b.WriteString(v.s)
	default:
		b.WriteString("m")
	}
	b.WriteByte('|')
}

// TupleKey returns a string that is equal for two tuples exactly when every
// element is equal
func TupleKey(values []Value) string {
	var b strings.Builder
	for _, v := range values {
		v.key(&b)
	}
	return b.String()
}

// MarshalJSON encodes missing as null, numbers as numbers and text as strings
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInteger:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		return json.Marshal(v.f)
	case KindText:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes null, numbers and strings. Integral literals without a
// fraction or exponent become integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Missing()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '{', '[', 't', 'f':
		return fmt.Errorf("unsupported cell value %s", string(data))
	}

	lit := string(data)
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			*v = Int(i)
			return nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric cell value %s: %w", lit, err)
	}
	*v = Float(f)
	return nil
}
