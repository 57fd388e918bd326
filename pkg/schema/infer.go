// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package schema infers the roles of fields in records with an unknown schema.
//
// Each top-level field seen in a sample of records is classified by a list of [Rule]s.
// A flag is set if its rule matches any sampled value of the field, flags are never cleared.
// The suggested schema binds each singular role to the first flagged field in
// first-observed order, and each set role to all flagged fields.
package schema

import (
	"fmt"
	"strings"

	"github.com/korrel8r/logsleuth/pkg/config"
	"github.com/korrel8r/logsleuth/pkg/record"
	"github.com/korrel8r/logsleuth/pkg/unique"
)

// MaxExamples is the number of example values kept per field.
const MaxExamples = 3

// Field is the analysis of one top-level field name.
type Field struct {
	Name string `json:"name"`
	// Type of the first observed value.
	Type string `json:"type"`
	// Examples are the first distinct values observed.
	Examples []any `json:"examples"`
	// Frequency is the number of records containing the field.
	Frequency int `json:"frequency"`

	IsLikelyTimestamp     bool `json:"isLikelyTimestamp"`
	IsLikelyLevel         bool `json:"isLikelyLevel"`
	IsLikelyMessage       bool `json:"isLikelyMessage"`
	IsLikelyEvent         bool `json:"isLikelyEvent"`
	IsLikelyCorrelationID bool `json:"isLikelyCorrelationId"`
	IsLikelyAPIResponse   bool `json:"isLikelyApiResponse"`
	IsLikelyError         bool `json:"isLikelyError"`

	examples unique.Set[string]
}

// Has returns the value of a flag.
func (f *Field) Has(flag Flag) bool { return *f.flag(flag) }

func (f *Field) flag(flag Flag) *bool {
	switch flag {
	case Timestamp:
		return &f.IsLikelyTimestamp
	case Level:
		return &f.IsLikelyLevel
	case Message:
		return &f.IsLikelyMessage
	case Event:
		return &f.IsLikelyEvent
	case CorrelationID:
		return &f.IsLikelyCorrelationID
	case APIResponse:
		return &f.IsLikelyAPIResponse
	case Error:
		return &f.IsLikelyError
	default:
		panic(fmt.Errorf("invalid flag: %v", int(flag)))
	}
}

func (f *Field) observe(v any, rules []Rule) {
	f.Frequency++
	if len(f.Examples) < MaxExamples {
		key := record.TypeOf(v) + ":" + record.String(v)
		if !f.examples.Has(key) {
			f.examples.Add(key)
			f.Examples = append(f.Examples, v)
		}
	}
	for _, r := range rules {
		if p := f.flag(r.Flag); !*p {
			*p = r.Classifier.Classify(f.Name, v)
		}
	}
}

// Result of schema inference.
type Result struct {
	// TotalLines is the number of sampled lines attempted.
	TotalLines int `json:"totalLines"`
	// ValidLogs is the number of sampled lines that parsed as records.
	ValidLogs int `json:"validLogs"`
	// Confidence is ValidLogs/TotalLines, or 0 if no lines were attempted.
	Confidence float64 `json:"confidence"`
	// Fields in first-observed order.
	Fields []*Field `json:"fieldAnalysis"`
	// Schema is the suggested schema configuration.
	Schema config.Schema `json:"suggestedSchema"`
	// Suggestions explain the suggested schema.
	Suggestions []string `json:"suggestions"`
}

// Field returns the analysis for a field name, or nil.
func (r *Result) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Infer parses the first sampleSize non-blank lines and infers a schema using [DefaultRules].
// If sampleSize <= 0, [config.DefaultSampleSize] is used.
func Infer(lines []string, sampleSize int) *Result {
	if sampleSize <= 0 {
		sampleSize = config.DefaultSampleSize
	}
	return InferRecords(record.ParseLines(record.Limit(lines, sampleSize)), DefaultRules)
}

// InferRecords infers a schema from already parsed records.
func InferRecords(rs record.Records, rules []Rule) *Result {
	r := &Result{
		TotalLines:  rs.Total,
		ValidLogs:   rs.Valid(),
		Fields:      []*Field{},
		Suggestions: []string{},
	}
	if rs.Total > 0 {
		r.Confidence = float64(rs.Valid()) / float64(rs.Total)
	}
	byName := map[string]*Field{}
	for _, line := range rs.Lines {
		for name, v := range line.Record.All() {
			f := byName[name]
			if f == nil {
				f = &Field{Name: name, Type: record.TypeOf(v), Examples: []any{}, examples: unique.Set[string]{}}
				byName[name] = f
				r.Fields = append(r.Fields, f)
			}
			f.observe(v, rules)
		}
	}
	r.suggest()
	return r
}

func (r *Result) suggest() {
	s := &r.Schema
	for _, x := range []struct {
		flag Flag
		role string
		to   *string
	}{
		{Timestamp, "timestampField", &s.TimestampField},
		{Level, "levelField", &s.LevelField},
		{Message, "messageField", &s.MessageField},
		{Event, "eventField", &s.EventField},
	} {
		for _, f := range r.Fields {
			if f.Has(x.flag) {
				*x.to = f.Name
				r.Suggestions = append(r.Suggestions, fmt.Sprintf("Use %q as %v", f.Name, x.role))
				break
			}
		}
	}
	for _, x := range []struct {
		flag Flag
		role string
		to   *[]string
	}{
		{CorrelationID, "correlationFields", &s.CorrelationFields},
		{APIResponse, "apiResponseFields", &s.APIResponseFields},
		{Error, "errorFields", &s.ErrorFields},
	} {
		for _, f := range r.Fields {
			if f.Has(x.flag) {
				*x.to = append(*x.to, f.Name)
			}
		}
		if len(*x.to) > 0 {
			r.Suggestions = append(r.Suggestions, fmt.Sprintf("Use %v as %v", quoteAll(*x.to), x.role))
		}
	}
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(q, ", ") + "]"
}
