// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package schema

import (
	"strings"

	"github.com/korrel8r/logsleuth/pkg/record"
)

// Classifier decides if a field plays some role, based on its name and one observed value.
type Classifier interface {
	Classify(name string, value any) bool
}

// NameContains matches field names containing any of the words, ignoring case.
type NameContains []string

func (words NameContains) Classify(name string, _ any) bool {
	name = strings.ToLower(name)
	for _, w := range words {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// NameIs matches field names equal to any of the words, ignoring case.
type NameIs []string

func (words NameIs) Classify(name string, _ any) bool {
	for _, w := range words {
		if strings.EqualFold(name, w) {
			return true
		}
	}
	return false
}

// ValueIs matches values accepted by the function, ignoring the name.
type ValueIs func(v any) bool

func (f ValueIs) Classify(_ string, v any) bool { return f(v) }

// AllOf matches if every classifier matches.
type AllOf []Classifier

func (all AllOf) Classify(name string, v any) bool {
	for _, c := range all {
		if !c.Classify(name, v) {
			return false
		}
	}
	return true
}

// IsDateString is true for string values that parse as a date/time.
func IsDateString(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = record.Time(s)
	return ok
}

// IsLongString returns a function that is true for strings longer than n characters.
func IsLongString(n int) ValueIs {
	return func(v any) bool {
		s, ok := v.(string)
		return ok && len([]rune(s)) > n
	}
}

// IsStructured is true for nested records and lists.
func IsStructured(v any) bool {
	switch v.(type) {
	case *record.Record, []any:
		return true
	default:
		return false
	}
}

// Flag names a classification flag of a [Field].
type Flag int

const (
	Timestamp Flag = iota
	Level
	Message
	Event
	CorrelationID
	APIResponse
	Error
)

// Rule sets Flag on a field when Classifier matches any observed value.
type Rule struct {
	Flag       Flag
	Classifier Classifier
}

// DefaultRules are the built-in heuristics. Each rule is evaluated independently.
var DefaultRules = []Rule{
	{Timestamp, AllOf{NameContains{"time", "date"}, ValueIs(IsDateString)}},
	{Level, NameIs{"level", "severity"}},
	{Message, NameContains{"message", "msg"}},
	{Event, NameIs{"event", "type", "action"}},
	{CorrelationID, AllOf{NameContains{"id"}, IsLongString(10)}},
	{APIResponse, AllOf{ValueIs(IsStructured), NameContains{"response", "data", "result"}}},
	{Error, NameContains{"error", "exception", "stack"}},
}
