package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SourceKind tags the variant held by a Source.
type SourceKind int

const (
	SourceByteStream SourceKind = iota + 1
	SourceFilePath
)

func (k SourceKind) String() string {
	switch k {
	case SourceByteStream:
		return "stream"
	case SourceFilePath:
		return "path"
	default:
		return "unknown"
	}
}

// Source is where the bytes of an upload come from: either a stream already
// opened by the caller or a path on the local disk.
type Source struct {
	kind   SourceKind
	name   string
	stream io.Reader
	path   string
	owned  bool
}

// FromStream wraps uploaded content. filename is only used to derive the
// document name; the format always comes from the content.
func FromStream(filename string, r io.Reader) Source {
	return Source{kind: SourceByteStream, name: baseName(filename), stream: r}
}

// FromPath references a file on the local disk. The caller keeps ownership.
func FromPath(path string) Source {
	return Source{kind: SourceFilePath, name: baseName(path), path: path}
}

// FromTempFile references a temporary file whose ownership moves to the
// consumer: Release deletes it.
func FromTempFile(path, name string) Source {
	return Source{kind: SourceFilePath, name: name, path: path, owned: true}
}

func (s Source) Kind() SourceKind { return s.kind }

// Name is the display identifier of the document loaded from this source.
func (s Source) Name() string { return s.name }

func (s Source) Path() string { return s.path }

// Open returns a reader over the source content. Closing it never deletes a
// temporary file, see Release.
func (s Source) Open() (io.ReadCloser, error) {
	switch s.kind {
	case SourceByteStream:
		if s.stream == nil {
			return nil, errors.New("empty byte stream")
		}
		if rc, ok := s.stream.(io.ReadCloser); ok {
			return rc, nil
		}
		return io.NopCloser(s.stream), nil
	case SourceFilePath:
		f, err := os.Open(s.path)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", s.path, err)
		}
		return f, nil
	default:
		return nil, errors.New("uninitialised source")
	}
}

// Release frees storage owned by the source. It is a no-op for sources the
// caller still owns and safe to call more than once.
func (s Source) Release() error {
	if !s.owned || s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
