// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package correlate finds records related to an identifier.
//
// Related records are found in three passes, each pass skips positions claimed by an earlier pass:
//
//  1. Direct match: a correlation field contains the identifier.
//  2. Context: the record is within ContextWindow positions of a direct match.
//  3. Time related: the record's timestamp is within TimeWindow of a direct match's timestamp.
//
// Positions count parsed records only, lines that failed to parse are not part of any window.
package correlate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/korrel8r/logsleuth/pkg/record"
	"github.com/korrel8r/logsleuth/pkg/unique"
)

// Relation describes how a record is related to the identifier.
type Relation string

const (
	DirectMatch Relation = "direct_match"
	Context     Relation = "context"
	TimeRelated Relation = "time_related"
)

// Options for [FindRelated].
type Options struct {
	// ID is the identifier to look for, matched as a case-sensitive substring.
	ID string
	// CorrelationFields are field paths that may contain the identifier.
	CorrelationFields []string
	// ContextWindow is the number of positions before and after a direct match to include.
	ContextWindow int
	// TimeWindow is the maximum time between a direct match and a time related record.
	TimeWindow time.Duration
	// TimestampField is the field path of record timestamps.
	TimestampField string
	// MaxResults limits the number of entries returned, 0 means no limit.
	MaxResults int
}

// Entry is a related record.
type Entry struct {
	// Line is the 1-based line number of the record in its source.
	Line     int            `json:"line_number"`
	Record   *record.Record `json:"log"`
	Relation Relation       `json:"relation_type"`
	// MatchedFields are the correlation fields that matched, only for DirectMatch.
	MatchedFields []string `json:"matched_fields,omitempty"`
}

// Result of [FindRelated].
type Result struct {
	Entries []Entry `json:"related_logs"`
	// Counts of entries by relation, before MaxResults is applied.
	Counts map[Relation]int `json:"summary"`
	// Total number of related entries found, before MaxResults is applied.
	Total int `json:"total_found"`
}

// FindRelated returns entries related to opts.ID in ascending line order.
// Each record appears at most once, with precedence DirectMatch > Context > TimeRelated.
func FindRelated(rs record.Records, opts Options) *Result {
	lines := rs.Lines
	f := finder{lines: lines, claimed: unique.Set[int]{}, entries: []Entry{}}
	var direct []int

	// Pass 1: direct matches.
	for i, line := range lines {
		var matched []string
		for _, path := range opts.CorrelationFields {
			if v, ok := record.Resolve(line.Record, path); ok && strings.Contains(record.String(v), opts.ID) {
				matched = append(matched, path)
			}
		}
		if len(matched) > 0 {
			f.claim(i, DirectMatch, matched)
			direct = append(direct, i)
		}
	}

	// Pass 2: context around direct matches.
	window := max(opts.ContextWindow, 0)
	for _, p := range direct {
		for i := max(p-window, 0); i <= min(p+window, len(lines)-1); i++ {
			f.claim(i, Context, nil)
		}
	}

	// Pass 3: time window around direct matches.
	if len(direct) > 0 {
		timeWindow := max(opts.TimeWindow, 0)
		times := timestamps(lines, opts.TimestampField)
		for _, p := range direct {
			t, ok := times[p]
			if !ok {
				continue
			}
			for i := range lines {
				if ti, ok := times[i]; ok && within(ti, t, timeWindow) {
					f.claim(i, TimeRelated, nil)
				}
			}
		}
	}

	result := &Result{Entries: f.entries, Counts: map[Relation]int{}}
	for _, e := range result.Entries {
		result.Counts[e.Relation]++
	}
	slices.SortFunc(result.Entries, func(a, b Entry) int { return cmp.Compare(a.Line, b.Line) })
	result.Total = len(result.Entries)
	if opts.MaxResults > 0 && len(result.Entries) > opts.MaxResults {
		result.Entries = result.Entries[:opts.MaxResults]
	}
	return result
}

// finder accumulates entries, claiming each position at most once.
type finder struct {
	lines   []record.Line
	claimed unique.Set[int]
	entries []Entry
}

// claim position i for rel unless it was claimed by an earlier pass.
func (f *finder) claim(i int, rel Relation, matched []string) {
	if f.claimed.Has(i) {
		return
	}
	f.claimed.Add(i)
	f.entries = append(f.entries, Entry{Line: f.lines[i].Number, Record: f.lines[i].Record, Relation: rel, MatchedFields: matched})
}

// timestamps resolves the timestamp of each record, by position. Missing or invalid timestamps are absent.
func timestamps(lines []record.Line, path string) map[int]time.Time {
	times := map[int]time.Time{}
	for i, line := range lines {
		if t, ok := record.TimeAt(line.Record, path); ok {
			times[i] = t
		}
	}
	return times
}

// within is true if t is no further than w from center.
// Compares instants, since Time.Sub saturates for times centuries apart.
func within(t, center time.Time, w time.Duration) bool {
	return !t.Before(center.Add(-w)) && !t.After(center.Add(w))
}

// Positions returns the line numbers of entries, a convenience for callers and tests.
func (r *Result) Positions() []int {
	lines := make([]int, len(r.Entries))
	for i, e := range r.Entries {
		lines[i] = e.Line
	}
	return lines
}

// Lines returns the set of line numbers with a given relation.
func (r *Result) Lines(rel Relation) unique.Set[int] {
	s := unique.Set[int]{}
	for _, e := range r.Entries {
		if e.Relation == rel {
			s.Add(e.Line)
		}
	}
	return s
}
