// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus walks TEI sources (plain files or tar archives) and
// parses each one into a tei.Document.
//
// Sources are read one at a time. An Entry's Body is only valid until the
// consumer returns from the iteration step that yielded it.
package corpus

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// Entry is one named XML source.
type Entry struct {
	// Name is the file path or archive member name.
	Name string

	// Body streams the source bytes.
	Body io.Reader
}

// IsArchive reports whether path names a tar archive, optionally gzipped.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".tar", ".tar.gz", ".tgz"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isGzip(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".gz") || strings.HasSuffix(lower, ".tgz")
}

// Files yields one Entry per path. Each file is opened when reached and
// closed before the next one is opened.
func Files(paths []string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for _, p := range paths {
			if !yieldFile(p, yield) {
				return
			}
		}
	}
}

func yieldFile(path string, yield func(Entry, error) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return yield(Entry{Name: path}, fmt.Errorf("opening %s: %w", path, err))
	}
	defer f.Close()
	return yield(Entry{Name: path, Body: f}, nil)
}

// Archive yields an Entry for every regular .xml member of the tar stream
// r. name identifies the archive in error messages.
func Archive(name string, r io.Reader) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		tr := tar.NewReader(r)
		for {
			hdr, err := tr.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Entry{Name: name}, fmt.Errorf("reading archive %s: %w", name, err))
				return
			}
			if hdr.Typeflag != tar.TypeReg || !strings.HasSuffix(strings.ToLower(hdr.Name), ".xml") {
				continue
			}
			if !yield(Entry{Name: hdr.Name, Body: tr}, nil) {
				return
			}
		}
	}
}

// Sources yields entries for paths, expanding tar archives (.tar, .tar.gz,
// .tgz) into their XML members and passing other paths through as files.
func Sources(paths []string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for _, p := range paths {
			if !IsArchive(p) {
				if !yieldFile(p, yield) {
					return
				}
				continue
			}
			if !yieldArchive(p, yield) {
				return
			}
		}
	}
}

func yieldArchive(path string, yield func(Entry, error) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return yield(Entry{Name: path}, fmt.Errorf("opening %s: %w", path, err))
	}
	defer f.Close()

	var r io.Reader = f
	if isGzip(path) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return yield(Entry{Name: path}, fmt.Errorf("decompressing %s: %w", path, err))
		}
		defer gz.Close()
		r = gz
	}

	for e, err := range Archive(path, r) {
		if !yield(e, err) {
			return false
		}
	}
	return true
}
