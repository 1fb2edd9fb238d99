package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// errSkipWrite lets an update callback report "nothing changed".
var errSkipWrite = errors.New("filestore: skip write")

// collection is one JSON array on disk. The lock is owned by the Store and
// shared by every handle to the same file; read-modify-write happens under
// the write lock, reads only hold the read lock while decoding.
type collection[T any] struct {
	name string
	path string
	mu   *sync.RWMutex
}

func newCollection[T any](s *Store, name string) *collection[T] {
	return &collection[T]{
		name: name,
		path: filepath.Join(s.dir, name+".json"),
		mu:   s.lockFor(name),
	}
}

// load decodes the file. Caller must hold mu.
func (c *collection[T]) load() ([]T, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.name, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// write replaces the file atomically. Caller must hold mu for writing.
func (c *collection[T]) write(rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := writeFileAtomic(c.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}

func (c *collection[T]) snapshot() ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load()
}

func (c *collection[T]) update(fn func(rows []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, err := c.load()
	if err != nil {
		return err
	}
	out, err := fn(rows)
	if errors.Is(err, errSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.write(out)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		tmp = nil
		return fmt.Errorf("rename temp file: %w", err)
	}
	tmp = nil
	return nil
}
