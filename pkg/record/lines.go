// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package record

import "strings"

// Line is a record with its 1-based line number in the source.
type Line struct {
	Number int
	Record *Record
}

// Records is the result of parsing a sequence of lines.
type Records struct {
	// Lines are the records that parsed, in source order.
	Lines []Line
	// Total is the number of non-blank lines attempted, including failures.
	Total int
}

// Valid is the number of lines that parsed as records.
func (rs Records) Valid() int { return len(rs.Lines) }

// Invalid is the number of lines that failed to parse.
func (rs Records) Invalid() int { return rs.Total - len(rs.Lines) }

// ParseLines parses each line into a record.
// Blank lines are skipped without being counted, but still advance the line number.
// Lines that fail to parse are counted in Total and otherwise ignored.
func ParseLines(lines []string) Records {
	rs := Records{}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rs.Total++
		if r, err := Parse(line); err == nil {
			rs.Lines = append(rs.Lines, Line{Number: i + 1, Record: r})
		}
	}
	return rs
}

// Limit returns the first n non-blank lines of lines, or all lines if there are fewer.
// Blank lines are kept so line numbers are unchanged.
func Limit(lines []string, n int) []string {
	count := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if count == n {
			return lines[:i]
		}
		count++
	}
	return lines
}
