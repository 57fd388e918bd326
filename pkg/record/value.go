// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package record

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Type names for record values.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeNull    = "null"
	TypeObject  = "object"
	TypeArray   = "array"
)

// TypeOf returns the type name of a record value.
func TypeOf(v any) string {
	switch v.(type) {
	case string:
		return TypeString
	case float64, int, int64:
		return TypeNumber
	case bool:
		return TypeBoolean
	case nil:
		return TypeNull
	case *Record:
		return TypeObject
	case []any:
		return TypeArray
	default:
		return TypeObject
	}
}

// ObjectString is the string form of a nested record.
const ObjectString = "[object Object]"

// String converts a value to the string used for grouping, matching and classification.
//
// Strings are unchanged, numbers use the shortest decimal form, null is "null",
// nested records are [ObjectString] and lists are their comma-separated elements.
func String(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "null"
	case float64:
		return formatNumber(v)
	case *Record:
		return ObjectString
	case []any:
		s := make([]string, len(v))
		for i, x := range v {
			if x != nil {
				s[i] = String(x)
			}
		}
		return strings.Join(s, ",")
	default:
		return cast.ToString(v)
	}
}

// formatNumber writes f the way JSON encoders do: shortest form, with an exponent
// only for magnitudes below 1e-6 or from 1e21 up.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Trim a leading zero from the exponent: 1e-07 becomes 1e-7.
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Time interprets a value as a point in time.
//
// Strings are parsed using common date/time layouts, zone-less values are UTC.
// Numbers are milliseconds since the Unix epoch.
// Returns false for anything else, or a string that is not a date.
func Time(v any) (time.Time, bool) {
	switch v := v.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, false
		}
		t, err := cast.ToTimeE(v)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	default:
		return time.Time{}, false
	}
}

// TimeAt resolves path in r and interprets it with [Time].
func TimeAt(r *Record, path string) (time.Time, bool) {
	v, ok := Resolve(r, path)
	if !ok {
		return time.Time{}, false
	}
	return Time(v)
}

// HasValue is true for a present value that is not null or false.
// Zero and the empty string are values.
func HasValue(v any, present bool) bool {
	return present && v != nil && v != false
}
