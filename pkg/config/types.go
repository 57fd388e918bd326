// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package config

// Config defines the configuration for an instance of logsleuth.
// Configuration files may be JSON or YAML.
type Config struct {
	// Schema maps semantic roles to field paths in the records being analyzed.
	Schema Schema `json:"schema,omitzero"`

	// Analysis holds thresholds and defaults for the analysis operations.
	Analysis Analysis `json:"analysis,omitzero"`

	// Sources locates JSONL files.
	Sources Sources `json:"sources,omitzero"`

	// Include lists additional configuration files or URLs to include.
	// Settings in the including file override settings in included files.
	Include []string `json:"include,omitempty"`
}

// Schema binds semantic roles to dotted field paths.
type Schema struct {
	TimestampField string `json:"timestampField,omitempty"`
	LevelField     string `json:"levelField,omitempty"`
	MessageField   string `json:"messageField,omitempty"`
	EventField     string `json:"eventField,omitempty"`

	// CorrelationFields may carry identifiers that link related records.
	CorrelationFields []string `json:"correlationFields,omitempty"`
	// APIResponseFields hold nested API response payloads.
	APIResponseFields []string `json:"apiResponseFields,omitempty"`
	// ErrorFields hold error values, in order of preference.
	ErrorFields []string `json:"errorFields,omitempty"`
}

// Analysis thresholds. Nil pointers mean "not set".
type Analysis struct {
	// SampleSize is the number of lines examined by schema inference.
	SampleSize int `json:"sampleSize,omitempty"`
	// ContextWindow is the number of records before and after a match to include.
	ContextWindow *int `json:"contextWindow,omitempty"`
	// TimeWindow is the maximum time between a match and a time-related record.
	// A plain number is a count of minutes.
	TimeWindow *Duration `json:"timeWindow,omitempty"`
	// MaxResults limits the number of related records returned, 0 means no limit.
	MaxResults int `json:"maxResults,omitempty"`
}

// Sources locates JSONL source files.
type Sources struct {
	// Root directory containing source files.
	Root string `json:"root,omitempty"`
	// Pattern is the default file name pattern for listing sources.
	Pattern string `json:"pattern,omitempty"`
}
