// Package attach models the file attachments uploaded alongside a
// deposit. A file's content comes from a filesystem path or from an
// in-memory payload; both open to a reader the publish workflow
// consumes once.
package attach

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a (filename, content source) pair. Exactly one of Path or
// Content is set.
type File struct {
	Filename string
	Path     string
	Content  []byte
}

// FromPath returns a File backed by a filesystem path. The filename
// defaults to the path's base name.
func FromPath(path string) File {
	return File{Filename: filepath.Base(path), Path: path}
}

// FromBytes returns a File backed by an in-memory payload.
func FromBytes(filename string, content []byte) File {
	return File{Filename: filename, Content: content}
}

// Open returns a reader over the file's content. Path-backed files open
// lazily, so a missing file surfaces here rather than at construction.
func (f File) Open() (io.ReadCloser, error) {
	if f.Path != "" {
		r, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("opening attachment %s: %w", f.Filename, err)
		}
		return r, nil
	}
	if f.Content != nil {
		return io.NopCloser(bytes.NewReader(f.Content)), nil
	}
	return nil, fmt.Errorf("attachment %s has no content source", f.Filename)
}
