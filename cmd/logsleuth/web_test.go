// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/korrel8r/logsleuth/internal/pkg/test"
	"github.com/korrel8r/logsleuth/pkg/rest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Functional tests for the logsleuth REST API.

func startServer(t *testing.T, args ...string) *url.URL {
	t.Helper()
	port, err := test.ListenPort()
	require.NoError(t, err)
	addr := net.JoinHostPort("localhost", strconv.Itoa(port))
	cmd := command(t, append([]string{"web", "--http", addr}, args...)...)
	require.NoError(t, cmd.Start())
	// Wait till server is available.
	require.Eventually(t, func() bool {
		_, err = http.Get(fmt.Sprintf("http://%v", addr))
		return err == nil
	}, 10*time.Second, time.Second/10, "timeout error: %v", err)
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
	})
	return &url.URL{Scheme: "http", Host: addr}
}

func request(t *testing.T, method, url, body string) (string, error) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return "", err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode/100 != 2 {
		return "", fmt.Errorf("%v: %v", res.Status, string(b))
	}
	return string(b), nil
}

func assertDo(t *testing.T, want, method, url, body string) {
	t.Helper()
	got, err := request(t, method, url, body)
	require.NoError(t, err)
	assert.JSONEq(t, want, got)
}

func TestMain_server(t *testing.T) {
	u := startServer(t)
	api := u.String() + rest.BasePath
	assertDo(t, `{"sources":[{"name":"app.jsonl","size":491}]}`, "GET", api+"/sources", "")
	assertDo(t, `{"sources":[{"name":"archive/old.jsonl","size":86}]}`, "GET", api+"/sources?pattern=archive/*", "")
	assertDo(t, `{"line":5,"path":"@message","field":"msg","present":true,"value":"login failed"}`,
		"POST", api+"/field", `{"source":"app.jsonl","line":5,"path":"@message"}`)
	assertDo(t, `{
  "related_logs":[
    {"line_number":1,"relation_type":"direct_match","matched_fields":["req.id"],"log":{"msg":"user alice logged in"}},
    {"line_number":5,"relation_type":"direct_match","matched_fields":["req.id"],"log":{"msg":"login failed"}}
  ],
  "summary":{"direct_match":2},
  "total_found":2
}`, "POST", api+"/related", `{"source":"app.jsonl","id":"req-1","fields":["msg"]}`)

	_, err := request(t, "POST", api+"/related", `{"source":"app.jsonl"}`)
	assert.ErrorContains(t, err, "400 Bad Request")

	metrics, err := request(t, "GET", u.String()+rest.MetricsPath, "")
	require.NoError(t, err)
	assert.Contains(t, metrics, `logsleuth_http_requests_total{code="200",method="GET",path="/api/v1/sources"} 2`)
}

func TestMain_server_mcp(t *testing.T) {
	u := startServer(t)
	ctx := context.Background()
	c := mcp.NewClient(&mcp.Implementation{Name: "test"}, nil)
	cs, err := c.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: u.String() + "/mcp"}, nil)
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()
	r, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "resolve_field", Arguments: map[string]any{"source": "app.jsonl", "line": 5, "path": "err"}})
	require.NoError(t, err)
	require.False(t, r.IsError)
	assert.JSONEq(t, `{"line":5,"path":"err","field":"err","present":true,"value":"AuthError: bad password"}`,
		r.Content[0].(*mcp.TextContent).Text)
}

func TestMain_server_no_mcp(t *testing.T) {
	u := startServer(t, "--mcp=false")
	_, err := request(t, "POST", u.String()+"/mcp", "{}")
	assert.ErrorContains(t, err, "404")
}
