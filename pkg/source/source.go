// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// Package source lists JSONL source files in a directory and reads them as lines.
//
// Files ending in ".gz" are gzip compressed, files ending in ".zst" are zstd compressed.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/korrel8r/logsleuth/internal/pkg/logging"
)

var log = logging.Log()

// ErrSource is wrapped by errors for sources that cannot be read at all.
var ErrSource = errors.New("invalid source")

// MaxLineSize is the longest line that can be read.
const MaxLineSize = 16 * 1024 * 1024

// Info describes a source file.
type Info struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Dir is a directory of source files.
// Source names are slash-separated paths relative to Root, and may not escape it.
type Dir struct {
	Root string
}

// List sources with names matching pattern, sorted by name.
// The pattern syntax is [path.Match], matched against the full relative name,
// so "*.jsonl" matches only files at the top level and "app/*.jsonl" matches files in "app".
// A pattern starting with "**/" matches the rest of the pattern against base names at any depth.
func (d Dir) List(pattern string) ([]Info, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	recursive := strings.HasPrefix(pattern, "**/")
	basePattern := strings.TrimPrefix(pattern, "**/")
	var infos []Info
	err := filepath.WalkDir(d.Root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || !e.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(d.Root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		var match bool
		if recursive {
			match, _ = path.Match(basePattern, path.Base(name))
		} else {
			match, _ = path.Match(pattern, name)
		}
		if !match {
			return nil
		}
		fi, err := e.Info()
		if err != nil {
			return err
		}
		infos = append(infos, Info{Name: name, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrSource, d.Root, err)
	}
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.Name, b.Name) })
	log.V(3).Info("listed sources", "root", d.Root, "pattern", pattern, "count", len(infos))
	return infos, nil
}

// Path returns the file path for a source name.
func (d Dir) Path(name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))[1:]
	if name == "" || clean == "" || clean != filepath.ToSlash(name) || !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: bad name %q", ErrSource, name)
	}
	return filepath.Join(d.Root, filepath.FromSlash(clean)), nil
}

// Lines reads all lines from a named source.
func (d Dir) Lines(name string) ([]string, error) {
	p, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}
	defer f.Close()
	lines, err := ReadLines(name, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrSource, name, err)
	}
	log.V(3).Info("read source", "name", name, "lines", len(lines))
	return lines, nil
}

// ReadLines reads lines from r, decompressing according to the extension of name.
// Line endings "\n" and "\r\n" are removed.
func ReadLines(name string, r io.Reader) ([]string, error) {
	switch path.Ext(name) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}
