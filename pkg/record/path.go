// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package record

import (
	"strconv"
	"strings"
)

// Resolve a dot-separated field path in a record.
//
// Returns (value, true) if the path is present, even if the value is null, false, 0 or "".
// Returns (nil, false) as soon as a segment is missing or the current value cannot be indexed.
// A segment that is a non-negative integer indexes into a list.
func Resolve(r *Record, path string) (any, bool) {
	var v any = r
	for key := range strings.SplitSeq(path, ".") {
		var ok bool
		if v, ok = step(v, key); !ok {
			return nil, false
		}
	}
	return v, true
}

func step(v any, key string) (any, bool) {
	switch v := v.(type) {
	case *Record:
		return v.Get(key)
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(v) {
			return nil, false
		}
		return v[i], true
	default:
		return nil, false
	}
}

// Set returns a copy of r with the value at path set to v.
// Intermediate records are created, or replace non-record values, as needed.
// Records along the path are copied, r itself is not modified.
func Set(r *Record, path string, v any) *Record {
	keys := strings.Split(path, ".")
	return set(r, keys, v)
}

func set(r *Record, keys []string, v any) *Record {
	c := &Record{}
	if r != nil {
		c = r.Clone()
	}
	if len(keys) == 1 {
		c.put(keys[0], v)
		return c
	}
	next, _ := c.Get(keys[0])
	nested, _ := next.(*Record)
	c.put(keys[0], set(nested, keys[1:], v))
	return c
}
