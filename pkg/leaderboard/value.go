package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a single field of a record as it appeared in the document. The
// zero Value means the field was absent.
type Value struct {
	v   any
	set bool
}

// NewString returns a present string Value.
func NewString(s string) Value {
	return Value{v: s, set: true}
}

// NewNumber returns a present numeric Value.
func NewNumber(f float64) Value {
	return fromFloat(f)
}

// Present reports whether the field appeared in the document with a non-null
// value.
func (v Value) Present() bool {
	return v.set && v.v != nil
}

// Raw returns the decoded value: nil, bool, json.Number, string, or a
// composite ([]any / map[string]any).
func (v Value) Raw() any {
	return v.v
}

// Text returns the cell text for the value. Falsy values (absent, null,
// false, 0, NaN, "") collapse to the empty string. Composites follow the
// browser's string conversion: arrays join their elements with commas and
// objects become "[object Object]".
func (v Value) Text() string {
	switch val := v.v.(type) {
	case nil:
		return ""
	case bool:
		if !val {
			return ""
		}
		return "true"
	case string:
		return val
	case json.Number:
		return numberText(val)
	default:
		return stringify(val)
	}
}

// stringify converts a value nested inside a composite. Unlike Text it does
// not collapse falsy scalars: [0,false] renders as "0,false".
func stringify(in any) string {
	switch val := in.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case json.Number:
		return jsNumber(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		if math.IsNaN(val) {
			return "NaN"
		}
		if val == 0 {
			return "0"
		}
		return formatFloat(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(val)
	}
}

// Truthy reports whether Text would produce a non-empty cell.
func (v Value) Truthy() bool {
	return v.Text() != ""
}

// MarshalJSON emits the original value, or null when absent.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON keeps numbers as json.Number so integer text survives intact.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return err
	}
	*v = Value{v: out, set: true}
	return nil
}

func numberText(n json.Number) string {
	text := jsNumber(n)
	if text == "0" || text == "NaN" {
		return ""
	}
	return text
}

func jsNumber(n json.Number) string {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		return ""
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		return "0"
	}
	return formatFloat(f)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) {
		if f > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return trimExponent(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent drops the zero padding strconv adds to exponents, so "1e-07"
// becomes "1e-7" and "1e+21" is left alone.
func trimExponent(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 || idx+2 > len(s) {
		return s
	}
	mantissa, sign, digits := s[:idx], s[idx+1:idx+2], strings.TrimLeft(s[idx+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// fromYAML normalises yaml.v3 scalars onto the JSON value space.
func fromYAML(in any) Value {
	switch val := in.(type) {
	case nil:
		return Value{set: true}
	case int:
		return Value{v: json.Number(strconv.Itoa(val)), set: true}
	case int64:
		return Value{v: json.Number(strconv.FormatInt(val, 10)), set: true}
	case uint64:
		return Value{v: json.Number(strconv.FormatUint(val, 10)), set: true}
	case float64:
		return fromFloat(val)
	default:
		return Value{v: val, set: true}
	}
}

// fromFloat keeps NaN and infinities out of json.Number, which cannot encode
// them.
func fromFloat(f float64) Value {
	switch {
	case math.IsNaN(f):
		return Value{set: true}
	case math.IsInf(f, 0):
		return Value{v: formatFloat(f), set: true}
	default:
		return Value{v: json.Number(formatFloat(f)), set: true}
	}
}
