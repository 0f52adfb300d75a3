package db

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// jsonFile holds one JSON document on disk. Every read-modify-write runs under
// the file's mutex and is written to a temp file that is renamed into place, so
// readers never observe a partial write and concurrent updates never interleave.
type jsonFile[T any] struct {
	mu    sync.Mutex
	path  string
	empty func() T
}

func newJSONFile[T any](path string, empty func() T) (*jsonFile[T], error) {
	f := &jsonFile[T]{path: path, empty: empty}
	if err := f.init(); err != nil {
		return nil, err
	}
	return f, nil
}

// init writes the empty document when the file does not exist yet.
func (f *jsonFile[T]) init() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	return f.write(f.empty())
}

// view decodes the current document and hands it to fn.
func (f *jsonFile[T]) view(fn func(doc T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	return fn(doc)
}

// update decodes the document, lets fn change it, and persists the result when
// fn reports a change.
func (f *jsonFile[T]) update(fn func(doc T) (T, bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	next, changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}
	return f.write(next)
}

func (f *jsonFile[T]) read() (T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(bytes.TrimSpace(data)) == 0) {
		return f.empty(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	doc := f.empty()
	if err := json.Unmarshal(data, &doc); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *jsonFile[T]) write(doc T) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
