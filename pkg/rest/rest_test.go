// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/korrel8r/logsleuth/internal/pkg/test"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/korrel8r/logsleuth/pkg/config"
	"github.com/korrel8r/logsleuth/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appLines = []string{
	`{"timestamp":"2025-01-01T10:00:00Z","level":"info","traceId":"trace-00001","event":"checkout"}`,
	`{"timestamp":"2025-01-01T10:00:30Z","level":"info","traceId":"trace-00002","event":"browse"}`,
	`{"timestamp":"2025-01-01T10:01:00Z","level":"error","traceId":"trace-00001","event":"checkout","error":"PaymentError: declined"}`,
	`{"broken`,
}

func TestAPI_Sources(t *testing.T) {
	a := newTestAPI(t)
	assertDo(t, a, "GET", "/api/v1/sources", nil, 200, analyzer.SourcesResult{
		Sources: []source.Info{{Name: "app.jsonl", Size: size(appLines)}},
	})
	assertDo(t, a, "GET", "/api/v1/sources?pattern=*.nothing", nil, 200, analyzer.SourcesResult{Sources: []source.Info{}})
	w := do(t, a, "GET", "/api/v1/sources?pattern=[bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestAPI_Stats(t *testing.T) {
	a := newTestAPI(t)
	assertDo(t, a, "GET", "/api/v1/stats", nil, 200, analyzer.StatsResult{
		Sources: []analyzer.SourceStats{{
			Name: "app.jsonl", TotalLogs: 4, ValidLogs: 3, InvalidLogs: 1,
			FirstTimestamp: "2025-01-01T10:00:00Z", LastTimestamp: "2025-01-01T10:01:00Z",
		}},
	})
}

func TestAPI_Schema(t *testing.T) {
	a := newTestAPI(t)
	w := do(t, a, "POST", "/api/v1/schema", analyzer.SchemaRequest{Source: "app.jsonl"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		TotalLines int           `json:"totalLines"`
		Confidence float64       `json:"confidence"`
		Schema     config.Schema `json:"suggestedSchema"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 0.75, got.Confidence)
	assert.Equal(t, "timestamp", got.Schema.TimestampField)
	assert.Equal(t, []string{"traceId"}, got.Schema.CorrelationFields)
}

func TestAPI_Related(t *testing.T) {
	a := newTestAPI(t)
	zero := 0
	w := do(t, a, "POST", "/api/v1/related", analyzer.RelatedRequest{Source: "app.jsonl", ID: "trace-00001", ContextWindow: &zero})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3.0, got["total_found"])
	assert.Equal(t, map[string]any{"direct_match": 2.0, "time_related": 1.0}, got["summary"])
	related := got["related_logs"].([]any)
	require.Len(t, related, 3)
	assert.Equal(t, map[string]any{
		"line_number": 1.0, "relation_type": "direct_match", "matched_fields": []any{"traceId"},
		"log": map[string]any{"timestamp": "2025-01-01T10:00:00Z", "level": "info", "traceId": "trace-00001", "event": "checkout"},
	}, related[0])
}

func TestAPI_Patterns(t *testing.T) {
	a := newTestAPI(t)
	w := do(t, a, "POST", "/api/v1/patterns", analyzer.PatternRequest{Source: "app.jsonl", GroupBy: "level", IncludeTimeline: true, AnalyzeErrors: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 4.0, got["total_logs"])
	assert.Equal(t, 1.0, got["invalid_logs"])
	assert.Equal(t, map[string]any{"info": 2.0, "error": 1.0}, got["grouping"].(map[string]any)["groups"])
	assert.Equal(t, []any{map[string]any{"time": "2025-01-01T10:00:00Z", "count": 3.0}}, got["timeline"])
	assert.Equal(t, map[string]any{
		"total_errors":     1.0,
		"error_types":      map[string]any{"PaymentError": 1.0},
		"error_percentage": "33.33%",
		"error_timeline":   []any{map[string]any{"time": "2025-01-01T10:00:00Z", "count": 1.0}},
	}, got["error_analysis"])
}

func TestAPI_Field(t *testing.T) {
	a := newTestAPI(t)
	assertDo(t, a, "POST", "/api/v1/field", analyzer.FieldRequest{Source: "app.jsonl", Line: 3, Path: "error"}, 200,
		analyzer.FieldResult{Line: 3, Path: "error", Field: "error", Present: true, Value: "PaymentError: declined"})
	assertDo(t, a, "POST", "/api/v1/field", analyzer.FieldRequest{Source: "app.jsonl", Line: 1, Path: "@level"}, 200,
		analyzer.FieldResult{Line: 1, Path: "@level", Field: "level", Present: true, Value: "info"})
	assertDo(t, a, "POST", "/api/v1/field", analyzer.FieldRequest{Source: "app.jsonl", Line: 1, Path: "nope"}, 200,
		analyzer.FieldResult{Line: 1, Path: "nope", Field: "nope"})
}

func TestAPI_Errors(t *testing.T) {
	a := newTestAPI(t)
	for _, x := range []struct {
		url  string
		body any
		code int
	}{
		{"/api/v1/schema", analyzer.SchemaRequest{Source: "missing.jsonl"}, http.StatusNotFound},
		{"/api/v1/schema", analyzer.SchemaRequest{Source: "../etc/passwd"}, http.StatusBadRequest},
		{"/api/v1/schema", map[string]any{}, http.StatusBadRequest},
		{"/api/v1/schema", "not an object", http.StatusBadRequest},
		{"/api/v1/related", analyzer.RelatedRequest{Source: "app.jsonl"}, http.StatusBadRequest},
		{"/api/v1/field", analyzer.FieldRequest{Source: "app.jsonl", Line: 4, Path: "x"}, http.StatusBadRequest},
		{"/api/v1/field", analyzer.FieldRequest{Source: "app.jsonl", Path: "x"}, http.StatusBadRequest},
	} {
		t.Run(fmt.Sprintf("%v %v", x.url, test.JSONString(x.body)), func(t *testing.T) {
			w := do(t, a, "POST", x.url, x.body)
			assert.Equal(t, x.code, w.Code, w.Body.String())
			var got map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
			assert.NotEmpty(t, got["error"])
		})
	}
}

func TestAPI_Metrics(t *testing.T) {
	a := newTestAPI(t)
	do(t, a, "GET", "/api/v1/sources", nil)
	do(t, a, "GET", "/api/v1/sources", nil)
	do(t, a, "POST", "/api/v1/schema", analyzer.SchemaRequest{Source: "missing.jsonl"})
	do(t, a, "GET", "/no/such/path", nil)
	w := do(t, a, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `logsleuth_http_requests_total{code="200",method="GET",path="/api/v1/sources"} 2`)
	assert.Contains(t, body, `logsleuth_http_requests_total{code="404",method="POST",path="/api/v1/schema"} 1`)
	assert.Contains(t, body, `logsleuth_http_requests_total{code="404",method="GET",path="unmatched"} 1`)
	assert.Contains(t, body, `logsleuth_http_request_duration_seconds_count{method="GET",path="/api/v1/sources"} 2`)
}

func TestAPI_Version(t *testing.T) {
	w := do(t, newTestAPI(t), "GET", "/version", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version"`)
}

func TestAPI_Options(t *testing.T) {
	r := ginEngine()
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "mcp here") })
	_, err := New(newAnalyzer(t), r, Options{MCP: mcp, MCPPath: "/mcp", Profile: true})
	require.NoError(t, err)
	a := &testAPI{Router: r}
	w := do(t, a, "POST", "/mcp", nil)
	assert.Equal(t, "mcp here", w.Body.String())
	w = do(t, a, "GET", "/debug/pprof/cmdline", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err = New(newAnalyzer(t), ginEngine(), Options{MCP: mcp})
	assert.Error(t, err)
}

func size(lines []string) int64 { return int64(len(strings.Join(lines, "\n")) + 1) }

func ginEngine() *gin.Engine {
	if os.Getenv(gin.EnvGinMode) == "" { // Don't override an explicit env setting.
		gin.SetMode(gin.TestMode)
	}
	r := gin.New()
	return r
}

type testAPI struct {
	*API
	Router *gin.Engine
}

func newAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	c := config.Default()
	c.Sources.Root = test.TempSources(t, map[string][]string{"app.jsonl": appLines})
	return analyzer.New(c)
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	r := ginEngine()
	a, err := New(newAnalyzer(t), r, Options{})
	require.NoError(t, err)
	return &testAPI{API: a, Router: r}
}

func do(t *testing.T, a *testAPI, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var r io.Reader
	if body != nil {
		r = strings.NewReader(test.JSONString(body))
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	a.Router.ServeHTTP(w, req)
	return w
}

func assertDo[T any](t *testing.T, a *testAPI, method, url string, req any, code int, want T) {
	t.Helper()
	w := do(t, a, method, url, req)
	if assert.Equal(t, code, w.Code, w.Body.String()) {
		var got T
		if assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), "body: %v", w.Body.String()) {
			if assert.JSONEq(t, test.JSONPretty(want), test.JSONPretty(got)) {
				return
			}
		}
	}
	t.Logf("request: %v", test.JSONString(req)) // Log the request body on error.
}
