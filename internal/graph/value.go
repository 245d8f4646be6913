package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindNull is the zero Kind; a zero Value is null.
	KindNull Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindNumber holds a float64.
	KindNumber
	// KindString holds a string.
	KindString
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a scalar task attribute. The engine treats values as opaque except
// for the "status" key, which must be a string to take part in pruning.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean and whether v is a KindBool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether v is a KindNumber.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string and whether v is a KindString.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Text returns the form used in rendered labels: "null", "true"/"false",
// the shortest decimal representation of a number, or the raw string.
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		return "null"
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	default:
		return true
	}
}

// Native returns the Go scalar for v: nil, bool, float64 or string.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	default:
		return nil
	}
}

// FromNative converts a decoded scalar into a Value. Lists, maps and other
// composite values are rejected with ErrSchemaViolation.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		return numberValue(t)
	case float32:
		return numberValue(float64(t))
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return Value{}, schemaErrorf("", "invalid number %q", t.String())
		}
		return numberValue(f)
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	default:
		return Value{}, schemaErrorf("", "unsupported attribute value of type %T; only null, bool, number and string are allowed", x)
	}
}

func numberValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, schemaErrorf("", "attribute number %v is not finite", f)
	}
	return Number(f), nil
}

// MarshalJSON emits the native scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON accepts any JSON scalar.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromNative(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML emits the native scalar.
func (v Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}

// CloneAttributes returns a shallow copy of attrs. A nil map yields an empty
// map so callers never have to nil-check.
func CloneAttributes(attrs map[string]Value) map[string]Value {
	out := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
