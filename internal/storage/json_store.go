package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const fileExt = ".json"

type Options struct {
	Name       string
	Dir        string
	Defaults   map[string]any
	Compressor Compressor
	// OnWrite receives the duration of every successful file write.
	OnWrite func(name string, d time.Duration)
}

// JSONStore is a durable JSON document keyed by strings. Every mutation is
// written through to disk before it becomes visible to readers.
type JSONStore struct {
	mu         sync.RWMutex
	name       string
	path       string
	data       map[string]any
	defaults   map[string]any
	compressor Compressor
	onWrite    func(name string, d time.Duration)
}

func NewJSONStore(opts Options) (*JSONStore, error) {
	defaults, err := normalizeMap(opts.Defaults)
	if err != nil {
		return nil, fmt.Errorf("invalid defaults for %s: %w", opts.Name, err)
	}
	compressor := opts.Compressor
	if compressor == nil {
		compressor = PlainCompression{}
	}
	return &JSONStore{
		name:       opts.Name,
		path:       filepath.Join(opts.Dir, opts.Name+fileExt),
		data:       cloneMap(defaults),
		defaults:   defaults,
		compressor: compressor,
		onWrite:    opts.OnWrite,
	}, nil
}

func (s *JSONStore) Path() string {
	return s.path
}

// Open loads the file. A missing file is created from the defaults; keys
// missing from an existing file are taken from the defaults.
func (s *JSONStore) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read %s: %w", s.path, err)
		}
		s.data = cloneMap(s.defaults)
		return s.write(s.data)
	}

	loaded, err := s.decode(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	for k, v := range s.defaults {
		if _, ok := loaded[k]; !ok {
			loaded[k] = cloneValue(v)
		}
	}
	s.data = loaded
	return nil
}

func (s *JSONStore) decode(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return make(map[string]any), nil
	}
	// Plain JSON is accepted even when a compressor is configured, so toggling
	// compression keeps existing files readable.
	if trimmed[0] != '{' {
		decompressed, err := s.compressor.Decompress(raw)
		if err != nil {
			return nil, err
		}
		trimmed = decompressed
	}
	var loaded map[string]any
	if err := json.Unmarshal(trimmed, &loaded); err != nil {
		return nil, err
	}
	if loaded == nil {
		loaded = make(map[string]any)
	}
	return loaded, nil
}

// Get returns a copy of the value at key, or def when the key is absent.
func (s *JSONStore) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := lookup(s.data, key)
	if !ok {
		return def
	}
	return cloneValue(v)
}

// GetInto decodes the value at key into dst. It reports whether the key
// was present; dst is left untouched when it was not.
func (s *JSONStore) GetInto(key string, dst any) (bool, error) {
	s.mu.RLock()
	v, ok := lookup(s.data, key)
	if !ok {
		s.mu.RUnlock()
		return false, nil
	}
	raw, err := json.Marshal(v)
	s.mu.RUnlock()
	if err != nil {
		return true, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s.%s: %w", s.name, key, err)
	}
	return true, nil
}

func (s *JSONStore) Set(key string, value any) error {
	return s.SetMany(map[string]any{key: value})
}

// SetMany applies all assignments in a single write.
func (s *JSONStore) SetMany(values map[string]any) error {
	normalized := make(map[string]any, len(values))
	for k, v := range values {
		nv, err := normalize(v)
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", s.name, k, err)
		}
		normalized[k] = nv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneMap(s.data)
	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	// Shorter keys first so "a" never clobbers an earlier "a.b".
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) < len(keys[j]) })
	for _, k := range keys {
		if err := assign(next, k, normalized[k]); err != nil {
			return fmt.Errorf("set %s.%s: %w", s.name, k, err)
		}
	}
	return s.commit(next)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *JSONStore) Delete(key string) error {
	return s.DeleteMany(key)
}

// DeleteMany removes all keys in a single write. The file is left untouched
// when none of them exist.
func (s *JSONStore) DeleteMany(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneMap(s.data)
	changed := false
	for _, key := range keys {
		if remove(next, key) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.commit(next)
}

func (s *JSONStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := lookup(s.data, key)
	return ok
}

// Clear resets the store to its defaults.
func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(cloneMap(s.defaults))
}

// Size returns the number of top-level keys.
func (s *JSONStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *JSONStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a deep copy of the whole document.
func (s *JSONStore) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.data)
}

// Bytes returns the compact serialized document.
func (s *JSONStore) Bytes() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.data)
}

// Flush rewrites the file from memory.
func (s *JSONStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.data)
}

func (s *JSONStore) Close() error {
	err := s.Flush()
	s.compressor.Close()
	return err
}

func (s *JSONStore) commit(next map[string]any) error {
	if err := s.write(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *JSONStore) write(data map[string]any) error {
	start := time.Now()

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	payload, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(payload)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, s.path); err != nil {
		return err
	}
	if s.onWrite != nil {
		s.onWrite(s.name, time.Since(start))
	}
	return nil
}

// normalize converts v into JSON-native values (maps, slices, float64,
// string, bool, nil) through an encode/decode round trip.
func normalize(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool, float64:
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return make(map[string]any), nil
	}
	v, err := normalize(m)
	if err != nil {
		return nil, err
	}
	out, ok := v.(map[string]any)
	if !ok {
		return make(map[string]any), nil
	}
	return out, nil
}
