// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package pattern summarizes records: counts grouped by field value, an hourly timeline and error statistics.
package pattern

import (
	"fmt"
	"strings"
	"time"

	"github.com/korrel8r/logsleuth/pkg/record"
	"github.com/korrel8r/logsleuth/pkg/unique"
)

// Undefined is the group key for records where the group field is absent.
const Undefined = "undefined"

// MaxSamples is the number of sample values kept per field in the field summary.
const MaxSamples = 5

// MaxErrorTypeLength is the maximum length of an error type taken from a non-string error value.
const MaxErrorTypeLength = 50

// BucketLayout formats timeline bucket labels, always in UTC.
// Labels sort lexicographically in chronological order.
const BucketLayout = "2006-01-02T15:00:00Z"

// Options for [Analyze].
type Options struct {
	// GroupBy is the field path to group by, no grouping if empty.
	GroupBy string
	// Timeline enables hourly timelines.
	Timeline bool
	// Errors enables error analysis.
	Errors bool
	// ErrorFields are tested in order, the first with a value is the record's error.
	ErrorFields []string
	// TimestampField is the field path of record timestamps.
	TimestampField string
	// CorrelationFields and APIResponseFields are only used to annotate the field summary.
	CorrelationFields []string
	APIResponseFields []string
}

// Analysis is the result of [Analyze].
type Analysis struct {
	TotalLogs   int `json:"total_logs"`
	ValidLogs   int `json:"valid_logs"`
	InvalidLogs int `json:"invalid_logs"`
	// Fields summarizes every top level field, in first-observed order.
	Fields   []*FieldSummary `json:"field_summary"`
	Groups   *Groups         `json:"grouping,omitempty"`
	Timeline []Bucket        `json:"timeline,omitempty"`
	Errors   *Errors         `json:"error_analysis,omitempty"`
}

// FieldSummary describes the values observed for a field.
type FieldSummary struct {
	Name string `json:"name"`
	// Types are the distinct value types observed, in first-observed order.
	Types []string `json:"types"`
	// Samples are the first distinct values observed.
	Samples []any `json:"samples"`

	IsCorrelationField bool `json:"is_correlation_field"`
	IsAPIResponseField bool `json:"is_api_response_field"`
	IsErrorField       bool `json:"is_error_field"`

	types   unique.List[string]
	samples unique.Set[string]
}

// Groups counts records by the string value of a field.
type Groups struct {
	Field        string         `json:"field"`
	Counts       map[string]int `json:"groups"`
	UniqueValues int            `json:"unique_values"`
}

// Bucket is a timeline entry.
type Bucket struct {
	Label string `json:"time"`
	Count int    `json:"count"`
}

// Errors summarizes error occurrences.
type Errors struct {
	Total int            `json:"total_errors"`
	Types map[string]int `json:"error_types"`
	// Percentage of valid records with an error, formatted with two decimals, or "0%".
	Percentage string   `json:"error_percentage"`
	Timeline   []Bucket `json:"error_timeline,omitempty"`
}

// Analyze records according to opts.
func Analyze(rs record.Records, opts Options) *Analysis {
	a := &Analysis{
		TotalLogs:   rs.Total,
		ValidLogs:   rs.Valid(),
		InvalidLogs: rs.Invalid(),
		Fields:      summarize(rs, opts),
	}
	if opts.GroupBy != "" {
		var c unique.Counter[string]
		for _, line := range rs.Lines {
			if v, ok := record.Resolve(line.Record, opts.GroupBy); ok {
				c.Inc(record.String(v))
			} else {
				c.Inc(Undefined)
			}
		}
		a.Groups = &Groups{Field: opts.GroupBy, Counts: c.Map(), UniqueValues: c.Len()}
	}
	if opts.Timeline {
		var c unique.Counter[string]
		for _, line := range rs.Lines {
			if label, ok := bucket(line.Record, opts.TimestampField); ok {
				c.Inc(label)
			}
		}
		a.Timeline = buckets(&c)
	}
	if opts.Errors {
		a.Errors = analyzeErrors(rs, opts)
	}
	return a
}

func analyzeErrors(rs record.Records, opts Options) *Errors {
	var types, timeline unique.Counter[string]
	e := &Errors{}
	for _, line := range rs.Lines {
		v, ok := firstError(line.Record, opts.ErrorFields)
		if !ok {
			continue
		}
		e.Total++
		types.Inc(ErrorType(v))
		if opts.Timeline {
			if label, ok := bucket(line.Record, opts.TimestampField); ok {
				timeline.Inc(label)
			}
		}
	}
	e.Types = types.Map()
	e.Percentage = percentage(e.Total, rs.Valid())
	if opts.Timeline {
		e.Timeline = buckets(&timeline)
	}
	return e
}

// firstError returns the value of the first error field that is present, not null and not false.
// Only one error is counted per record, even if several error fields are set.
func firstError(r *record.Record, fields []string) (any, bool) {
	for _, path := range fields {
		if v, ok := record.Resolve(r, path); record.HasValue(v, ok) {
			return v, true
		}
	}
	return nil, false
}

// ErrorType classifies an error value.
// For strings it is the text before the first ':', otherwise the first
// [MaxErrorTypeLength] characters of the value's string form.
func ErrorType(v any) string {
	if s, ok := v.(string); ok {
		before, _, _ := strings.Cut(s, ":")
		return before
	}
	s := []rune(record.String(v))
	return string(s[:min(len(s), MaxErrorTypeLength)])
}

func percentage(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(n)/float64(total)*100)
}

// BucketLabel returns the hourly timeline label for t.
func BucketLabel(t time.Time) string { return t.UTC().Truncate(time.Hour).Format(BucketLayout) }

func bucket(r *record.Record, path string) (string, bool) {
	t, ok := record.TimeAt(r, path)
	if !ok {
		return "", false
	}
	return BucketLabel(t), true
}

func buckets(c *unique.Counter[string]) []Bucket {
	b := []Bucket{}
	for _, label := range c.Sorted() {
		b = append(b, Bucket{Label: label, Count: c.Count(label)})
	}
	return b
}

func summarize(rs record.Records, opts Options) []*FieldSummary {
	correlation := unique.NewSet(opts.CorrelationFields...)
	api := unique.NewSet(opts.APIResponseFields...)
	errs := unique.NewSet(opts.ErrorFields...)
	byName := map[string]*FieldSummary{}
	fields := []*FieldSummary{}
	for _, line := range rs.Lines {
		for name, v := range line.Record.All() {
			f := byName[name]
			if f == nil {
				f = &FieldSummary{
					Name:               name,
					Samples:            []any{},
					IsCorrelationField: correlation.Has(name),
					IsAPIResponseField: api.Has(name),
					IsErrorField:       errs.Has(name),
					samples:            unique.Set[string]{},
				}
				byName[name] = f
				fields = append(fields, f)
			}
			typ := record.TypeOf(v)
			if f.types.Add(typ) {
				f.Types = f.types.List
			}
			if len(f.Samples) < MaxSamples {
				if key := typ + ":" + record.String(v); !f.samples.Has(key) {
					f.samples.Add(key)
					f.Samples = append(f.Samples, v)
				}
			}
		}
	}
	return fields
}
