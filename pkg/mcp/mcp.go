// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// package mcp Provides an MCP server exposing the analysis operations as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/korrel8r/logsleuth/internal/pkg/build"
	"github.com/korrel8r/logsleuth/internal/pkg/logging"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var log = logging.Log()

const StreamablePath = "/mcp"

// Tool names.
const (
	ListSources     = "list_sources"
	InferSchema     = "infer_schema"
	FindRelated     = "find_related"
	AnalyzePatterns = "analyze_patterns"
	ResolveField    = "resolve_field"
	SourceStats     = "source_stats"
)

const instructions = `
Tools to analyze JSONL log files with an unknown schema.
Start with list_sources to find log files, then infer_schema to learn which fields hold
timestamps, levels, messages and correlation identifiers.
Use find_related to follow a request or trace identifier through a log,
and analyze_patterns to count events and errors over time.
`

type Server struct {
	*mcp.Server
	Analyzer *analyzer.Analyzer
}

func NewServer(a *analyzer.Analyzer) *Server {
	s := mcp.NewServer(
		&mcp.Implementation{Name: "logsleuth", Title: "Logsleuth MCP Server", Version: build.Version},
		&mcp.ServerOptions{Instructions: instructions})
	addTools(a, s)
	return &Server{Server: s, Analyzer: a}
}

func addTools(a *analyzer.Analyzer, s *mcp.Server) {
	addTool(s, ListSources, `
Returns the JSONL log files available for analysis, with their sizes.
Compressed files ending in .gz or .zst are included.`,
		a.Sources)

	addTool(s, InferSchema, `
Returns the fields observed in a sample of a log file, with their types, example values and likely roles.
Also returns a suggested schema naming the timestamp, level, message, event, correlation, API response and error fields.
Confidence is the fraction of sampled lines that are valid JSON objects.`,
		a.InferSchema)

	addTool(s, FindRelated, `
Returns log records related to an identifier such as a request ID or trace ID.
Records whose correlation fields contain the identifier are direct matches.
Records near a direct match in the file are context, records with timestamps close to a direct match are time related.
Each record is returned once, in file order, with its line number and relation.`,
		a.FindRelated)

	addTool(s, AnalyzePatterns, `
Returns a summary of a log file: valid and invalid line counts, the types and sample values of each field,
optionally counts grouped by the value of a field, an hourly timeline and error statistics.`,
		a.AnalyzePatterns)

	addTool(s, ResolveField, `
Returns the value of a field in the record on a given line of a log file.
Nested fields use dot-separated paths, for example http.status or items.0.id.`,
		a.ResolveField)

	addTool(s, SourceStats, `
Returns line counts and the first and last timestamps of every matching log file.
A file that cannot be read has an error message instead of counts.`,
		func(ctx context.Context, req analyzer.StatsRequest) (*analyzer.StatsResult, error) {
			r, err := a.Stats(ctx, req)
			if r != nil { // Read failures are reported per source.
				return r, nil
			}
			return nil, err
		})
}

// addTool adds a tool that calls f and returns its result as JSON.
// Errors from f are returned as tool errors, not protocol errors.
func addTool[In, Out any](s *mcp.Server, name, description string, f func(context.Context, In) (Out, error)) {
	mcp.AddTool(s, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			log.V(2).Info("tool call", "tool", name, "arguments", logging.JSON(in))
			out, err := f(ctx, in)
			if err != nil {
				log.V(1).Info("tool error", "tool", name, "error", err)
				return errorResult(err), nil, nil
			}
			return jsonResult(out), nil, nil
		})
}

// ServeStdio runs an MCP server, it returns when the client disconnects or the context is canceled.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler  a handler for the Streaming MCP protocol.
func (s *Server) HTTPHandler() http.Handler {
	// Use the same server for all requests. Server and Analyzer are concurrent-safe.
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.Server }, nil)
}

func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(b)}},
		StructuredContent: json.RawMessage(b),
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
		IsError: true,
	}
}
