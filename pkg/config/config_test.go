// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package config

import (
	"bytes"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestLoad_Include(t *testing.T) {
	c, err := Load("testdata/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, Schema{
		TimestampField:    "@timestamp",
		LevelField:        "severity",
		MessageField:      "message",
		EventField:        "event",
		CorrelationFields: []string{"migrationId", "request.id"},
		APIResponseFields: []string{"response", "data"},
		ErrorFields:       []string{"err", "failure.reason"},
	}, c.Schema)
	assert.Equal(t, 50, c.Analysis.GetSampleSize())
	assert.Equal(t, 0, c.Analysis.GetContextWindow())
	assert.Equal(t, 2*time.Minute, c.Analysis.GetTimeWindow())
	assert.Equal(t, filepath.Join("testdata", "more", "logs"), c.Sources.Root)
	assert.Equal(t, "*.log", c.Sources.Pattern)
}

func TestLoad_Errors(t *testing.T) {
	for _, x := range []struct{ file, want string }{
		{"testdata/cycle.yaml", "include cycle"},
		{"testdata/bad.yaml", "contextWindow must not be negative"},
		{"testdata/unknown.yaml", "noSuchField"},
		{"testdata/missing.yaml", "no such file"},
	} {
		t.Run(x.file, func(t *testing.T) {
			_, err := Load(x.file)
			assert.ErrorContains(t, err, x.want)
		})
	}
}

func TestLoad_URL(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/main.yaml":
			_, _ = w.Write([]byte("include: [other.yaml]\nschema: {messageField: msg}\n"))
		case "/other.yaml":
			_, _ = w.Write([]byte("schema: {eventField: action}\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer s.Close()
	c, err := Load(s.URL + "/main.yaml")
	require.NoError(t, err)
	assert.Equal(t, "msg", c.Schema.MessageField)
	assert.Equal(t, "action", c.Schema.EventField)

	_, err = Load(s.URL + "/nope.yaml")
	assert.ErrorContains(t, err, "404")
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultSampleSize, c.Analysis.GetSampleSize())
	assert.Equal(t, DefaultContextWindow, c.Analysis.GetContextWindow())
	assert.Equal(t, DefaultTimeWindow, c.Analysis.GetTimeWindow())

	var unset Analysis
	assert.Equal(t, DefaultContextWindow, unset.GetContextWindow())
	assert.Equal(t, DefaultTimeWindow, unset.GetTimeWindow())
	assert.Equal(t, DefaultSampleSize, unset.GetSampleSize())
}

func TestMerge_DoesNotAlias(t *testing.T) {
	other := &Config{Schema: Schema{ErrorFields: []string{"a"}}}
	c := Default()
	c.Merge(other)
	other.Schema.ErrorFields[0] = "changed"
	assert.Equal(t, []string{"a"}, c.Schema.ErrorFields)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Analysis.SampleSize = -1
	c.Analysis.TimeWindow = &Duration{-time.Second}
	c.Analysis.MaxResults = -2
	c.Sources.Pattern = "[x"
	err := c.Validate()
	for _, want := range []string{"sampleSize", "timeWindow", "maxResults", "pattern"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestValidate_Pattern(t *testing.T) {
	// Source patterns are slash-separated, the same syntax used to list sources.
	for _, p := range []string{"*.jsonl", "**/*.jsonl", "archive/*.jsonl.gz", "app-[0-9].jsonl"} {
		c := Default()
		c.Sources.Pattern = p
		assert.NoError(t, c.Validate(), p)
	}
	for _, p := range []string{"[x", `app\`, "logs/[a-"} {
		c := Default()
		c.Sources.Pattern = p
		assert.ErrorContains(t, c.Validate(), "invalid source pattern", p)
	}
}

func TestSave(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Default().Save(&b))
	got := &Config{}
	require.NoError(t, yaml.Unmarshal(b.Bytes(), got))
	assert.Equal(t, Default(), got)
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`1.5`)))
	assert.Equal(t, 90*time.Second, d.Duration)
	require.NoError(t, d.UnmarshalJSON([]byte(`"10s"`)))
	assert.Equal(t, 10*time.Second, d.Duration)
	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`"nonsense"`)))
	b, err := Duration{time.Minute}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m0s"`, string(b))
	assert.Equal(t, 3*time.Minute, Minutes(3).Duration)
	assert.Equal(t, time.Duration(math.MaxInt64), Minutes(1e12).Duration)
	assert.Equal(t, time.Duration(math.MinInt64), Minutes(-1e12).Duration)
	require.NoError(t, d.UnmarshalJSON([]byte(`1e300`)))
	assert.Equal(t, time.Duration(math.MaxInt64), d.Duration)
}
