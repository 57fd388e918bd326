// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package analyzer reads sources and runs the analysis engines with settings from a configuration.
//
// Each operation reads its source once, then calls the engine for that operation.
// Request fields that are not set fall back to the configuration.
package analyzer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/korrel8r/logsleuth/internal/pkg/logging"
	"github.com/korrel8r/logsleuth/pkg/config"
	"github.com/korrel8r/logsleuth/pkg/correlate"
	"github.com/korrel8r/logsleuth/pkg/pattern"
	"github.com/korrel8r/logsleuth/pkg/record"
	"github.com/korrel8r/logsleuth/pkg/schema"
	"github.com/korrel8r/logsleuth/pkg/source"
	"github.com/korrel8r/logsleuth/pkg/unique"
	"golang.org/x/sync/errgroup"
)

var log = logging.Log()

// ErrInvalid is wrapped by errors for requests that can never succeed.
var ErrInvalid = errors.New("invalid request")

// Analyzer runs analysis operations on the sources in a directory.
type Analyzer struct {
	Config *config.Config
	Dir    source.Dir
}

// New returns an analyzer for the sources under the configured root.
func New(c *config.Config) *Analyzer {
	return &Analyzer{Config: c, Dir: source.Dir{Root: c.Sources.Root}}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %v", ErrInvalid, fmt.Sprintf(format, args...))
}

func (a *Analyzer) lines(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.Dir.Lines(name)
}

func (a *Analyzer) records(ctx context.Context, name string) (record.Records, error) {
	lines, err := a.lines(ctx, name)
	if err != nil {
		return record.Records{}, err
	}
	return record.ParseLines(lines), nil
}

// Sources lists sources matching the request pattern.
func (a *Analyzer) Sources(ctx context.Context, req SourcesRequest) (*SourcesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pattern := cmp.Or(req.Pattern, a.Config.Sources.Pattern, config.DefaultPattern)
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, invalid("bad pattern %q: %v", pattern, err)
	}
	infos, err := a.Dir.List(pattern)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []source.Info{}
	}
	return &SourcesResult{Sources: infos}, nil
}

// InferSchema infers a schema from a sample of a source.
func (a *Analyzer) InferSchema(ctx context.Context, req SchemaRequest) (*schema.Result, error) {
	if req.SampleSize < 0 {
		return nil, invalid("sampleSize must not be negative: %v", req.SampleSize)
	}
	lines, err := a.lines(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	n := req.SampleSize
	if n == 0 {
		n = a.Config.Analysis.GetSampleSize()
	}
	result := schema.Infer(lines, n)
	log.V(2).Info("inferred schema", "source", req.Source, "sample", n, "fields", len(result.Fields), "confidence", result.Confidence)
	return result, nil
}

// FindRelated finds records related to an identifier.
func (a *Analyzer) FindRelated(ctx context.Context, req RelatedRequest) (*correlate.Result, error) {
	if req.ID == "" {
		return nil, invalid("id must not be empty")
	}
	if req.MaxResults < 0 {
		return nil, invalid("maxResults must not be negative: %v", req.MaxResults)
	}
	rs, err := a.records(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	opts := a.relatedOptions(req)
	result := correlate.FindRelated(rs, opts)
	if len(req.Fields) > 0 {
		for i := range result.Entries {
			result.Entries[i].Record = project(result.Entries[i].Record, req.Fields)
		}
	}
	log.V(2).Info("found related", "source", req.Source, "id", req.ID, "found", result.Total, "summary", result.Counts)
	return result, nil
}

func (a *Analyzer) relatedOptions(req RelatedRequest) correlate.Options {
	c := a.Config
	opts := correlate.Options{
		ID:                req.ID,
		CorrelationFields: req.CorrelationFields,
		ContextWindow:     c.Analysis.GetContextWindow(),
		TimeWindow:        c.Analysis.GetTimeWindow(),
		TimestampField:    cmp.Or(req.TimestampField, c.Schema.TimestampField),
		MaxResults:        cmp.Or(req.MaxResults, c.Analysis.MaxResults),
	}
	if len(opts.CorrelationFields) == 0 {
		opts.CorrelationFields = c.Schema.CorrelationFields
	}
	if req.ContextWindow != nil {
		opts.ContextWindow = *req.ContextWindow
	}
	if req.TimeWindowMinutes != nil {
		opts.TimeWindow = config.Minutes(*req.TimeWindowMinutes).Duration
	}
	return opts
}

// project returns a record containing only the fields at paths that are present in r.
func project(r *record.Record, paths []string) *record.Record {
	p := record.New()
	for _, field := range paths {
		if v, ok := record.Resolve(r, field); ok {
			p = record.Set(p, field, v)
		}
	}
	return p
}

// AnalyzePatterns summarizes the records in a source.
func (a *Analyzer) AnalyzePatterns(ctx context.Context, req PatternRequest) (*pattern.Analysis, error) {
	rs, err := a.records(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	s := a.Config.Schema
	opts := pattern.Options{
		GroupBy:           req.GroupBy,
		Timeline:          req.IncludeTimeline,
		Errors:            req.AnalyzeErrors,
		ErrorFields:       req.ErrorFields,
		TimestampField:    cmp.Or(req.TimestampField, s.TimestampField),
		CorrelationFields: s.CorrelationFields,
		APIResponseFields: s.APIResponseFields,
	}
	if len(opts.ErrorFields) == 0 {
		opts.ErrorFields = s.ErrorFields
	}
	result := pattern.Analyze(rs, opts)
	log.V(2).Info("analyzed patterns", "source", req.Source, "total", result.TotalLogs, "valid", result.ValidLogs, "groupBy", req.GroupBy)
	return result, nil
}

// Roles can be used in place of a field path to name a configured field.
const (
	RoleTimestamp = "@timestamp"
	RoleLevel     = "@level"
	RoleMessage   = "@message"
	RoleEvent     = "@event"
)

// FieldPath returns the configured field path if path names a role, otherwise path itself.
func (a *Analyzer) FieldPath(path string) (string, error) {
	if !strings.HasPrefix(path, "@") {
		return path, nil
	}
	s := a.Config.Schema
	var field string
	switch path {
	case RoleTimestamp:
		field = s.TimestampField
	case RoleLevel:
		field = s.LevelField
	case RoleMessage:
		field = s.MessageField
	case RoleEvent:
		field = s.EventField
	default:
		return "", invalid("unknown role %q", path)
	}
	if field == "" {
		return "", invalid("no field configured for role %q", path)
	}
	return field, nil
}

// ResolveField resolves a field path in the record on one line of a source.
// An absent field is not an error, the result has Present false.
func (a *Analyzer) ResolveField(ctx context.Context, req FieldRequest) (*FieldResult, error) {
	if req.Line < 1 {
		return nil, invalid("line must be 1 or more: %v", req.Line)
	}
	if req.Path == "" {
		return nil, invalid("path must not be empty")
	}
	field, err := a.FieldPath(req.Path)
	if err != nil {
		return nil, err
	}
	lines, err := a.lines(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	if req.Line > len(lines) {
		return nil, invalid("line %v out of range, %v has %v lines", req.Line, req.Source, len(lines))
	}
	r, err := record.Parse(lines[req.Line-1])
	if err != nil {
		return nil, invalid("line %v is not a valid record: %v", req.Line, err)
	}
	v, ok := record.Resolve(r, field)
	log.V(2).Info("resolved field", "source", req.Source, "line", req.Line, "field", field, "present", ok)
	return &FieldResult{Line: req.Line, Path: req.Path, Field: field, Present: ok, Value: v}, nil
}

// Stats reads all matching sources concurrently and counts their records.
//
// A source that cannot be read has its Error set. Results for all sources are
// returned, with an error joining the distinct read failures.
func (a *Analyzer) Stats(ctx context.Context, req StatsRequest) (*StatsResult, error) {
	sources, err := a.Sources(ctx, SourcesRequest{Pattern: req.Pattern})
	if err != nil {
		return nil, err
	}
	stats := make([]SourceStats, len(sources.Sources))
	errs := make([]error, len(sources.Sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, info := range sources.Sources {
		g.Go(func() error {
			stats[i], errs[i] = a.stat(ctx, info.Name)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var failed unique.Errors
	for _, err := range errs {
		failed.Add(err)
	}
	log.V(2).Info("computed stats", "pattern", req.Pattern, "sources", len(stats))
	return &StatsResult{Sources: stats}, failed.Err()
}

func (a *Analyzer) stat(ctx context.Context, name string) (SourceStats, error) {
	s := SourceStats{Name: name}
	rs, err := a.records(ctx, name)
	if err != nil {
		s.Error = err.Error()
		return s, err
	}
	s.TotalLogs, s.ValidLogs, s.InvalidLogs = rs.Total, rs.Valid(), rs.Invalid()
	for _, line := range rs.Lines {
		if t, ok := record.TimeAt(line.Record, a.Config.Schema.TimestampField); ok {
			if s.FirstTimestamp == "" {
				s.FirstTimestamp = t.Format(time.RFC3339Nano)
			}
			s.LastTimestamp = t.Format(time.RFC3339Nano)
		}
	}
	return s, nil
}
