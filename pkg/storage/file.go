package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// FileStorage implements KV on top of a single JSON document. Every mutation
// rewrites the document through a temporary file and an atomic rename, so a
// crash never leaves a partially written record behind. Values must be JSON.
type FileStorage struct {
	filePath string
	entries  map[string]json.RawMessage
	mu       sync.RWMutex
}

type fileDocument struct {
	Entries   map[string]json.RawMessage `json:"entries"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// NewFileStorage creates a new file storage instance, loading any existing
// document at filePath.
func NewFileStorage(filePath string) (*FileStorage, error) {
	fs := &FileStorage{
		filePath: filePath,
		entries:  make(map[string]json.RawMessage),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := fs.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load existing entries: %w", err)
	}

	return fs, nil
}

// Get returns the value stored under key
func (fs *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	value, exists := fs.entries[key]
	if !exists {
		return nil, ErrNotFound
	}
	return slices.Clone([]byte(value)), nil
}

// Put stores value under key and syncs to file
func (fs *FileStorage) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("file storage only accepts JSON values (key %s)", key)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	previous, existed := fs.entries[key]
	fs.entries[key] = json.RawMessage(slices.Clone(value))
	if err := fs.syncToFile(); err != nil {
		if existed {
			fs.entries[key] = previous
		} else {
			delete(fs.entries, key)
		}
		return err
	}
	return nil
}

// Delete removes key and syncs to file
func (fs *FileStorage) Delete(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	previous, existed := fs.entries[key]
	if !existed {
		return nil
	}
	delete(fs.entries, key)
	if err := fs.syncToFile(); err != nil {
		fs.entries[key] = previous
		return err
	}
	return nil
}

// List yields a sorted snapshot of the keys under prefix
func (fs *FileStorage) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		fs.mu.RLock()
		keys := make([]string, 0, len(fs.entries))
		for key := range fs.entries {
			if strings.HasPrefix(key, prefix) {
				keys = append(keys, key)
			}
		}
		fs.mu.RUnlock()
		slices.Sort(keys)

		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(key, nil) {
				return
			}
		}
	}
}

// Close has nothing to flush; every mutation is already on disk.
func (fs *FileStorage) Close() error {
	return nil
}

// syncToFile writes the document to disk. Callers hold the write lock.
func (fs *FileStorage) syncToFile() error {
	tempFile := fs.filePath + ".tmp"
	file, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	doc := fileDocument{
		Entries:   fs.entries,
		UpdatedAt: time.Now().UTC(),
	}
	if err := encoder.Encode(&doc); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, fs.filePath); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// loadFromFile reads the document from disk
func (fs *FileStorage) loadFromFile() error {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", fs.filePath, err)
	}
	if doc.Entries != nil {
		fs.entries = doc.Entries
	}
	return nil
}

var _ KV = (*FileStorage)(nil)
