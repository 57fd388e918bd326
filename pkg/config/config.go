// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package config contains configuration types for logsleuth.
//
// A configuration is loaded once by the caller and passed explicitly to each operation,
// nothing in this module holds global configuration state.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/korrel8r/logsleuth/internal/pkg/logging"
	"sigs.k8s.io/yaml"
)

var log = logging.Log()

// Default values.
const (
	DefaultSampleSize    = 100
	DefaultContextWindow = 5
	DefaultTimeWindow    = 5 * time.Minute
	DefaultPattern       = "*.jsonl"
)

// Default returns the built-in configuration.
func Default() *Config {
	cw := DefaultContextWindow
	return &Config{
		Schema: Schema{
			TimestampField:    "timestamp",
			LevelField:        "level",
			MessageField:      "message",
			EventField:        "event",
			CorrelationFields: []string{"requestId", "traceId", "correlationId"},
			APIResponseFields: []string{"response", "data"},
			ErrorFields:       []string{"error", "exception"},
		},
		Analysis: Analysis{
			SampleSize:    DefaultSampleSize,
			ContextWindow: &cw,
			TimeWindow:    &Duration{DefaultTimeWindow},
		},
		Sources: Sources{Root: ".", Pattern: DefaultPattern},
	}
}

// Load the default configuration, overridden by a configuration file or URL.
//
// If the file has an Include section, included configurations are loaded first.
// Relative paths in Include are relative to the location of the file containing them.
func Load(fileOrURL string) (*Config, error) {
	c := Default()
	if err := load(fileOrURL, c, map[string]bool{}); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func load(source string, into *Config, loading map[string]bool) error {
	if loading[source] {
		return fmt.Errorf("%v: include cycle", source)
	}
	loading[source] = true
	defer delete(loading, source)

	b, err := readFileOrURL(source)
	if err != nil {
		return fmt.Errorf("%v: %w", source, err)
	}
	c := &Config{}
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return fmt.Errorf("%v: %w", source, err)
	}
	for _, s := range c.Include {
		if err := load(resolve(source, s), into, loading); err != nil {
			return err
		}
	}
	into.Merge(c)
	if c.Sources.Root != "" {
		into.Sources.Root = resolve(source, c.Sources.Root)
	}
	log.V(2).Info("loaded configuration", "source", source)
	return nil
}

// Merge settings from other that are set, replacing settings in c.
// A non-empty field set in other replaces the whole set.
func (c *Config) Merge(other *Config) {
	s, o := &c.Schema, &other.Schema
	for _, x := range []struct{ to, from *string }{
		{&s.TimestampField, &o.TimestampField},
		{&s.LevelField, &o.LevelField},
		{&s.MessageField, &o.MessageField},
		{&s.EventField, &o.EventField},
		{&c.Sources.Root, &other.Sources.Root},
		{&c.Sources.Pattern, &other.Sources.Pattern},
	} {
		if *x.from != "" {
			*x.to = *x.from
		}
	}
	for _, x := range []struct{ to, from *[]string }{
		{&s.CorrelationFields, &o.CorrelationFields},
		{&s.APIResponseFields, &o.APIResponseFields},
		{&s.ErrorFields, &o.ErrorFields},
	} {
		if len(*x.from) > 0 {
			*x.to = slices.Clone(*x.from)
		}
	}
	a, oa := &c.Analysis, &other.Analysis
	if oa.SampleSize != 0 {
		a.SampleSize = oa.SampleSize
	}
	if oa.ContextWindow != nil {
		cw := *oa.ContextWindow
		a.ContextWindow = &cw
	}
	if oa.TimeWindow != nil {
		tw := *oa.TimeWindow
		a.TimeWindow = &tw
	}
	if oa.MaxResults != 0 {
		a.MaxResults = oa.MaxResults
	}
}

// Validate returns an error describing all invalid settings, or nil.
func (c *Config) Validate() error {
	var errs []error
	a := c.Analysis
	if a.SampleSize < 0 {
		errs = append(errs, fmt.Errorf("sampleSize must not be negative: %v", a.SampleSize))
	}
	if a.ContextWindow != nil && *a.ContextWindow < 0 {
		errs = append(errs, fmt.Errorf("contextWindow must not be negative: %v", *a.ContextWindow))
	}
	if a.TimeWindow != nil && a.TimeWindow.Duration < 0 {
		errs = append(errs, fmt.Errorf("timeWindow must not be negative: %v", a.TimeWindow))
	}
	if a.MaxResults < 0 {
		errs = append(errs, fmt.Errorf("maxResults must not be negative: %v", a.MaxResults))
	}
	if c.Sources.Pattern != "" {
		if _, err := path.Match(c.Sources.Pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("invalid source pattern %q: %w", c.Sources.Pattern, err))
		}
	}
	return errors.Join(errs...)
}

// GetContextWindow returns the configured context window or the default.
func (a Analysis) GetContextWindow() int {
	if a.ContextWindow == nil {
		return DefaultContextWindow
	}
	return *a.ContextWindow
}

// GetTimeWindow returns the configured time window or the default.
func (a Analysis) GetTimeWindow() time.Duration {
	if a.TimeWindow == nil {
		return DefaultTimeWindow
	}
	return a.TimeWindow.Duration
}

// GetSampleSize returns the configured sample size or the default.
func (a Analysis) GetSampleSize() int {
	if a.SampleSize <= 0 {
		return DefaultSampleSize
	}
	return a.SampleSize
}

// Save writes the configuration as YAML.
func (c *Config) Save(w io.Writer) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func readFileOrURL(source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() && u.Scheme != "file" {
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%v", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(u.Path)
}

func resolve(base, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	if r, err := url.Parse(ref); err == nil {
		if r.IsAbs() {
			return ref
		}
		if b, err := url.Parse(base); err == nil && b.IsAbs() && b.Scheme != "file" {
			return b.ResolveReference(r).String()
		}
	}
	return filepath.Join(filepath.Dir(base), ref)
}
