// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package rest implements a REST API for logsleuth.
//
// Request and response bodies are JSON, using the request and result types of package analyzer.
// Errors are returned as a JSON object with an "error" field.
package rest

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/korrel8r/logsleuth/internal/pkg/build"
	"github.com/korrel8r/logsleuth/internal/pkg/logging"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/korrel8r/logsleuth/pkg/source"
)

var log = logging.Log()

// BasePath is the versioned base path for the current version of the REST API.
const BasePath = "/api/v1"

// MetricsPath serves prometheus metrics.
const MetricsPath = "/metrics"

// Options for optional endpoints.
type Options struct {
	// MCP is served at MCPPath if not nil.
	MCP     http.Handler
	MCPPath string
	// Profile enables pprof endpoints under /debug/pprof.
	Profile bool
}

type API struct {
	Analyzer *analyzer.Analyzer
	metrics  *metrics
}

// New API instance, registers handlers with a gin Engine.
func New(a *analyzer.Analyzer, r *gin.Engine, opts Options) (*API, error) {
	api := &API{Analyzer: a, metrics: newMetrics()}
	r.Use(api.logger, api.metrics.observe)
	r.GET(MetricsPath, api.metrics.handler())
	r.GET("/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": build.Version}) })
	v := r.Group(BasePath)
	v.GET("/sources", api.Sources)
	v.GET("/stats", api.Stats)
	v.POST("/schema", api.Schema)
	v.POST("/related", api.Related)
	v.POST("/patterns", api.Patterns)
	v.POST("/field", api.Field)
	if opts.MCP != nil {
		if opts.MCPPath == "" {
			return nil, errors.New("MCP handler requires a path")
		}
		r.Any(opts.MCPPath, gin.WrapH(opts.MCP))
	}
	if opts.Profile {
		pprof.Register(r)
	}
	return api, nil
}

// Sources handler, lists source files matching the "pattern" query parameter.
func (a *API) Sources(c *gin.Context) {
	req := analyzer.SourcesRequest{}
	if !check(c, http.StatusBadRequest, c.ShouldBindQuery(&req)) {
		return
	}
	r, err := a.Analyzer.Sources(c.Request.Context(), req)
	if !check(c, status(err), err) {
		return
	}
	c.JSON(http.StatusOK, r)
}

// Stats handler, computes statistics for source files matching the "pattern" query parameter.
// Sources that cannot be read are reported in the result, not as a request failure.
func (a *API) Stats(c *gin.Context) {
	req := analyzer.StatsRequest{}
	if !check(c, http.StatusBadRequest, c.ShouldBindQuery(&req)) {
		return
	}
	r, err := a.Analyzer.Stats(c.Request.Context(), req)
	if r == nil && !check(c, status(err), err) {
		return
	}
	c.JSON(http.StatusOK, r)
}

// Schema handler, infers the schema of a source.
func (a *API) Schema(c *gin.Context) {
	req := analyzer.SchemaRequest{}
	if !check(c, http.StatusBadRequest, c.ShouldBindJSON(&req)) {
		return
	}
	r, err := a.Analyzer.InferSchema(c.Request.Context(), req)
	if !check(c, status(err), err, "source %v", req.Source) {
		return
	}
	c.JSON(http.StatusOK, r)
}

// Related handler, finds records related to an identifier.
func (a *API) Related(c *gin.Context) {
	req := analyzer.RelatedRequest{}
	if !check(c, http.StatusBadRequest, c.ShouldBindJSON(&req)) {
		return
	}
	r, err := a.Analyzer.FindRelated(c.Request.Context(), req)
	if !check(c, status(err), err, "source %v", req.Source) {
		return
	}
	c.JSON(http.StatusOK, r)
}

// Patterns handler, summarizes a source.
func (a *API) Patterns(c *gin.Context) {
	req := analyzer.PatternRequest{}
	if !check(c, http.StatusBadRequest, c.ShouldBindJSON(&req)) {
		return
	}
	r, err := a.Analyzer.AnalyzePatterns(c.Request.Context(), req)
	if !check(c, status(err), err, "source %v", req.Source) {
		return
	}
	c.JSON(http.StatusOK, r)
}

// Field handler, resolves a field path on one line of a source.
func (a *API) Field(c *gin.Context) {
	req := analyzer.FieldRequest{}
	if !check(c, http.StatusBadRequest, c.ShouldBindJSON(&req)) {
		return
	}
	r, err := a.Analyzer.ResolveField(c.Request.Context(), req)
	if !check(c, status(err), err, "source %v", req.Source) {
		return
	}
	c.JSON(http.StatusOK, r)
}

// status returns the HTTP status code for an analyzer error.
func status(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, analyzer.ErrInvalid), errors.Is(err, source.ErrSource):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func check(c *gin.Context, code int, err error, format ...any) (ok bool) {
	if err != nil && !c.IsAborted() {
		if len(format) > 0 {
			err = fmt.Errorf("%v: %w", fmt.Sprintf(format[0].(string), format[1:]...), err)
		}
		c.AbortWithStatusJSON(code, c.Error(err).JSON())
		log.V(1).Info("abort request", "url", c.Request.URL, "code", code, "error", err)
	}
	return err == nil && !c.IsAborted()
}

// logger is a Gin handler to log requests.
func (a *API) logger(c *gin.Context) {
	start := time.Now()
	defer func() {
		log := log.WithValues(
			"method", c.Request.Method,
			"url", c.Request.URL,
			"from", c.Request.RemoteAddr,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
		if len(c.Errors) > 0 {
			log = log.WithValues("errors", c.Errors.Errors())
		}
		if c.Writer.Status() >= 500 {
			log.Info("request failed")
		} else {
			log.V(2).Info("request OK")
		}
	}()
	c.Next()
}
