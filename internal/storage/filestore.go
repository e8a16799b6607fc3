package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists all keys to a single JSON file, rewritten on every write.
// It stands in for the browser's local storage: one small document per device.
type FileStore struct {
	path string
	mu   sync.RWMutex
	// Values are kept as raw bytes and encoded as base64 strings on disk,
	// so Get returns exactly what Put stored, like the other backends.
	data map[string][]byte
}

// NewFileStore opens or creates a JSON-file-backed store at path.
//
// Postcondition: Returns a Store with any existing file contents loaded,
// or a non-nil error if the file exists but cannot be parsed.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		data: make(map[string][]byte),
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fresh store; file is created on first write.
	case err != nil:
		return nil, fmt.Errorf("reading store file %q: %w", path, err)
	default:
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &fs.data); err != nil {
				return nil, fmt.Errorf("parsing store file %q: %w", path, err)
			}
		}
	}
	return fs, nil
}

// Get returns the value stored under key.
func (fs *FileStore) Get(key string) ([]byte, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	v, ok := fs.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// Put stores value under key and rewrites the backing file.
//
// Postcondition: on error the in-memory map retains the new value; the next
// successful Put flushes it. The in-memory view stays authoritative for the
// session even when the disk write fails.
func (fs *FileStore) Put(key string, value []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	fs.data[key] = cp
	return fs.flushLocked()
}

// Delete removes key and rewrites the backing file.
func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.data[key]; !ok {
		return nil
	}
	delete(fs.data, key)
	return fs.flushLocked()
}

// Close flushes the store one final time.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.flushLocked()
}

// flushLocked writes the full map atomically via a temp-file rename.
// Caller must hold fs.mu.
func (fs *FileStore) flushLocked() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing store file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("replacing store file %q: %w", fs.path, err)
	}
	return nil
}

// EnsureDir creates the parent directory for a store path if needed.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
