// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package analyzer

import (
	"github.com/korrel8r/logsleuth/pkg/source"
)

// Request and result types are shared by the REST API and the MCP server.
// Optional fields that are not set use values from the configuration.

// SourcesRequest lists source files.
type SourcesRequest struct {
	Pattern string `json:"pattern,omitempty" form:"pattern" jsonschema:"File name pattern, for example *.jsonl or **/*.jsonl. Uses the configured pattern if empty."`
}

// SourcesResult is a list of source files.
type SourcesResult struct {
	Sources []source.Info `json:"sources"`
}

// SchemaRequest infers the schema of a source.
type SchemaRequest struct {
	Source     string `json:"source" binding:"required" jsonschema:"Name of the JSONL source file"`
	SampleSize int    `json:"sampleSize,omitempty" jsonschema:"Number of lines to sample. Uses the configured sample size if 0."`
}

// RelatedRequest finds records related to an identifier.
type RelatedRequest struct {
	Source            string   `json:"source" binding:"required" jsonschema:"Name of the JSONL source file"`
	ID                string   `json:"id" binding:"required" jsonschema:"Identifier to search for in correlation fields"`
	CorrelationFields []string `json:"correlationFields,omitempty" jsonschema:"Field paths that may contain the identifier"`
	ContextWindow     *int     `json:"contextWindow,omitempty" jsonschema:"Number of records before and after each match to include"`
	TimeWindowMinutes *float64 `json:"timeWindowMinutes,omitempty" jsonschema:"Include records with timestamps within this many minutes of a match"`
	TimestampField    string   `json:"timestampField,omitempty" jsonschema:"Field path of record timestamps"`
	MaxResults        int      `json:"maxResults,omitempty" jsonschema:"Maximum number of records to return. 0 means no limit."`
	Fields            []string `json:"fields,omitempty" jsonschema:"Only include these field paths in returned records"`
}

// PatternRequest summarizes a source.
type PatternRequest struct {
	Source          string   `json:"source" binding:"required" jsonschema:"Name of the JSONL source file"`
	GroupBy         string   `json:"groupBy,omitempty" jsonschema:"Field path to group records by"`
	IncludeTimeline bool     `json:"includeTimeline,omitempty" jsonschema:"Include an hourly timeline"`
	AnalyzeErrors   bool     `json:"analyzeErrors,omitempty" jsonschema:"Include error statistics"`
	ErrorFields     []string `json:"errorFields,omitempty" jsonschema:"Field paths holding errors, tested in order"`
	TimestampField  string   `json:"timestampField,omitempty" jsonschema:"Field path of record timestamps"`
}

// FieldRequest resolves a field path in one record.
type FieldRequest struct {
	Source string `json:"source" binding:"required" jsonschema:"Name of the JSONL source file"`
	Line   int    `json:"line" binding:"required,min=1" jsonschema:"1-based line number of the record"`
	Path   string `json:"path" binding:"required" jsonschema:"Dot-separated field path, or a configured role: @timestamp, @level, @message or @event"`
}

// FieldResult is the value of a field path in a record.
type FieldResult struct {
	Line int    `json:"line"`
	Path string `json:"path"`
	// Field is the field path that was resolved, differs from Path if Path names a role.
	Field   string `json:"field"`
	Present bool   `json:"present"`
	Value   any    `json:"value"`
}

// StatsRequest computes statistics for all matching sources.
type StatsRequest struct {
	Pattern string `json:"pattern,omitempty" form:"pattern" jsonschema:"File name pattern. Uses the configured pattern if empty."`
}

// SourceStats are statistics for one source.
type SourceStats struct {
	Name        string `json:"name"`
	TotalLogs   int    `json:"total_logs"`
	ValidLogs   int    `json:"valid_logs"`
	InvalidLogs int    `json:"invalid_logs"`
	// First and last timestamps, in the order they appear in the source.
	FirstTimestamp string `json:"first_timestamp,omitempty"`
	LastTimestamp  string `json:"last_timestamp,omitempty"`
	Error          string `json:"error,omitempty"`
}

// StatsResult holds statistics for each source.
type StatsResult struct {
	Sources []SourceStats `json:"sources"`
}
