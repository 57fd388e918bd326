// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package record parses JSONL lines into ordered records and resolves dotted field paths.
//
// A [Record] keeps fields in the order they appear in the source line.
// Values are plain Go values:
//
//	string, float64, bool, nil, *Record, []any
//
// Records are read-only once parsed, functions that modify a record return a copy.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"iter"
	"strings"

	"github.com/valyala/fastjson"
)

// ErrNotObject is returned by [Parse] for valid JSON that is not an object.
var ErrNotObject = errors.New("not a JSON object")

// Field is a named value in a record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered mapping of field names to values.
// The zero value is an empty record.
type Record struct {
	fields []Field
	index  map[string]int
}

// New creates a record from fields, in order.
// A repeated name replaces the value of the earlier field and keeps its position.
func New(fields ...Field) *Record {
	r := &Record{}
	for _, f := range fields {
		r.put(f.Name, f.Value)
	}
	return r
}

func (r *Record) put(name string, v any) {
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	if r.index == nil {
		r.index = map[string]int{}
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Get the value of a top level field.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Len is the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// All iterates over fields in order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if r == nil {
			return
		}
		for _, f := range r.fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

// Names returns field names in order.
func (r *Record) Names() []string {
	names := make([]string, 0, r.Len())
	for name := range r.All() {
		names = append(names, name)
	}
	return names
}

// Clone returns a shallow copy, nested records are shared.
func (r *Record) Clone() *Record {
	c := &Record{}
	for name, v := range r.All() {
		c.put(name, v)
	}
	return c
}

// MarshalJSON writes fields in record order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	b := &bytes.Buffer{}
	b.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(f.Name)
		b.Write(k)
		b.WriteByte(':')
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON parses a JSON object, keeping field order.
func (r *Record) UnmarshalJSON(b []byte) error {
	p := parsers.Get()
	defer parsers.Put(p)
	v, err := p.ParseBytes(b)
	if err != nil {
		return err
	}
	o, err := v.Object()
	if err != nil {
		return ErrNotObject
	}
	*r = *fromObject(o)
	return nil
}

// String returns the JSON form of the record.
func (r *Record) String() string {
	b, _ := r.MarshalJSON()
	return string(b)
}

var parsers fastjson.ParserPool

// Parse a single line of JSON text into a record.
// Returns an error if the line is not valid JSON, or is valid JSON but not an object.
func Parse(line string) (*Record, error) {
	p := parsers.Get()
	defer parsers.Put(p)
	v, err := p.Parse(strings.TrimSpace(line))
	if err != nil {
		return nil, err
	}
	o, err := v.Object()
	if err != nil {
		return nil, ErrNotObject
	}
	return fromObject(o), nil
}

// fromObject copies a fastjson object, the parser may be re-used after it returns.
func fromObject(o *fastjson.Object) *Record {
	r := &Record{}
	o.Visit(func(key []byte, v *fastjson.Value) { r.put(string(key), fromValue(v)) })
	return r
}

func fromValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		return fromObject(o)
	case fastjson.TypeArray:
		a, _ := v.Array()
		list := make([]any, len(a))
		for i, x := range a {
			list[i] = fromValue(x)
		}
		return list
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
