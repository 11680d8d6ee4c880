// Package coerce converts loosely typed source fields into Go values.
package coerce

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ToBool interprets v as a flag. Accepted encodings are bool, numeric 1/0
// and the strings "true"/"false" (any case, surrounding blanks ignored);
// anything else reports ok=false.
func ToBool(v any) (value bool, ok bool) {
	switch t := v.(type) {
	case nil:
		return false, false
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
		return false, false
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return false, false
	}
	switch n {
	case 1:
		return true, true
	case 0:
		return false, true
	}
	return false, false
}

// Truthy is ToBool with unrecognized values treated as false.
func Truthy(v any) bool {
	b, _ := ToBool(v)
	return b
}

// ToNumber converts numbers and numeric strings to float64. Decimal commas
// are accepted for strings without a dot.
func ToNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		n, err := cast.ToFloat64E(s)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ToInt converts v with ToNumber. Only whole numbers convert: "9.0" is 9,
// "9.7" is not an integer.
func ToInt(v any) (int, bool) {
	n, ok := ToNumber(v)
	if !ok || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

// ToString renders scalars as text; nil becomes "".
func ToString(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}
