// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// package test contains helpers for writing tests
package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// ListenPort returns a free ephemeral port for listening.
func ListenPort() (int, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// ExecError extracts stderr if err is an exec.ExitError
func ExecError(err error) error {
	if ex, ok := err.(*exec.ExitError); ok {
		return fmt.Errorf("%v: %v", err, string(ex.Stderr))
	}
	return err
}

// PanicErr panics if err is not nil
func PanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Must panics if err is not nil, else returns v.
func Must[T any](v T, err error) T { PanicErr(err); return v }

// JSONString returns the JSON marshaled string from v, or the error message if marshal fails
func JSONString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return err.Error()
	}
	return string(b)
}

// JSONPretty returns an indented JSON string, or error message if marshal fails.
func JSONPretty(v any) string {
	w := &bytes.Buffer{}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(v); err != nil {
		return err.Error()
	}
	return w.String()
}

// WriteSource writes lines to a source file under dir, creating directories as needed.
// Names ending in ".gz" or ".zst" are compressed.
func WriteSource(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	f, err := os.Create(p)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	var w io.WriteCloser
	switch path.Ext(name) {
	case ".gz":
		w = gzip.NewWriter(f)
	case ".zst":
		w, err = zstd.NewWriter(f)
		require.NoError(t, err)
	default:
		w = nopCloser{f}
	}
	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return p
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// TempSources creates a temporary directory containing source files, keyed by name.
func TempSources(t testing.TB, sources map[string][]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, lines := range sources {
		WriteSource(t, dir, name, lines...)
	}
	return dir
}
