// Package jsonfile implements storage contracts on a single JSON file for
// installations that cannot use SQLite.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/colonyops/jobcheck/internal/core/kv"
)

// entry is one stored key in the file. Entries keep first-write order.
type entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// KVFileData is the root JSON structure stored on disk.
type KVFileData struct {
	Entries []entry `json:"entries"`
}

// KVFile implements kv.KV using a JSON file for persistence. Every call
// reads the file so that several processes see each other's writes.
type KVFile struct {
	path string
	mu   sync.RWMutex
}

var _ kv.KV = (*KVFile)(nil)

// NewKVFile creates a JSON file store at the given path.
func NewKVFile(path string) *KVFile {
	return &KVFile{path: path}
}

// Path returns the backing file.
func (s *KVFile) Path() string {
	return s.path
}

func (s *KVFile) Get(ctx context.Context, key string, dest any) error {
	e, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(e.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

func (s *KVFile) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	now := time.Now()
	if i := file.index(key); i >= 0 {
		file.Entries[i].Value = data
		file.Entries[i].UpdatedAt = now
	} else {
		file.Entries = append(file.Entries, entry{Key: key, Value: data, CreatedAt: now, UpdatedAt: now})
	}

	return s.save(file)
}

func (s *KVFile) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	i := file.index(key)
	if i < 0 {
		return nil
	}
	file.Entries = slices.Delete(file.Entries, i, i+1)
	return s.save(file)
}

func (s *KVFile) Has(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return false, err
	}
	return file.index(key) >= 0, nil
}

func (s *KVFile) ListKeys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(file.Entries))
	for i, e := range file.Entries {
		keys[i] = e.Key
	}
	return keys, nil
}

func (s *KVFile) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return kv.Entry{}, err
	}

	i := file.index(key)
	if i < 0 {
		return kv.Entry{}, fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	e := file.Entries[i]
	return kv.Entry{Key: e.Key, Value: e.Value, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}, nil
}

func (f KVFileData) index(key string) int {
	return slices.IndexFunc(f.Entries, func(e entry) bool { return e.Key == key })
}

// load reads the file from disk. A missing or empty file is an empty store.
func (s *KVFile) load() (KVFileData, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return KVFileData{}, nil
		}
		return KVFileData{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return KVFileData{}, nil
	}

	var file KVFileData
	if err := json.Unmarshal(data, &file); err != nil {
		return KVFileData{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	return file, nil
}

// save writes the file to disk atomically.
func (s *KVFile) save(file KVFileData) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
