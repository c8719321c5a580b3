package storage

import (
	"archivist/internal/structures"
	"archivist/internal/testutil"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dir string, defaults map[string]any) *JSONStore {
	t.Helper()
	s, err := NewJSONStore(Options{Name: "data", Dir: dir, Defaults: defaults})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	return s
}

func TestJSONStore_OpenCreatesFileFromDefaults(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir, map[string]any{"prompts": []any{}, "settings": map[string]any{"theme": "dark"}})

	raw, err := os.ReadFile(filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"settings\"")
	assert.Equal(t, "dark", s.Get("settings.theme", nil))
}

func TestJSONStore_OpenMergesMissingDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"prompts":[{"id":1}]}`), 0644))

	s := newTestStore(t, dir, map[string]any{"prompts": []any{}, "stats": map[string]any{"sessionCount": 0}})

	prompts := s.Get("prompts", nil).([]any)
	assert.Len(t, prompts, 1)
	assert.Equal(t, float64(0), s.Get("stats.sessionCount", nil))
}

func TestJSONStore_OpenCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte("{not json"), 0644))

	s, err := NewJSONStore(Options{Name: "data", Dir: dir})
	require.NoError(t, err)
	assert.Error(t, s.Open())
}

func TestJSONStore_GetDefault(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)
	assert.Equal(t, "fallback", s.Get("missing", "fallback"))
	assert.Nil(t, s.Get("missing.deep", nil))
}

func TestJSONStore_SetDottedKeyCreatesObjects(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)

	require.NoError(t, s.Set("window.bounds.width", 1200))
	assert.Equal(t, float64(1200), s.Get("window.bounds.width", nil))
	assert.True(t, s.Has("window.bounds"))
	assert.Equal(t, 1, s.Size())
}

func TestJSONStore_GetReturnsCopy(t *testing.T) {
	s := newTestStore(t, t.TempDir(), map[string]any{"settings": map[string]any{"theme": "dark"}})

	settings := s.Get("settings", nil).(map[string]any)
	settings["theme"] = "light"

	assert.Equal(t, "dark", s.Get("settings.theme", nil))
}

func TestJSONStore_SetStruct(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)

	type item struct {
		ID   int      `json:"id"`
		Tags []string `json:"tags"`
	}
	require.NoError(t, s.Set("items", []item{{ID: 3, Tags: []string{"a"}}}))

	var out []item
	ok, err := s.GetInto("items", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []item{{ID: 3, Tags: []string{"a"}}}, out)
}

func TestJSONStore_GetIntoMissing(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)
	out := map[string]any{"keep": true}
	ok, err := s.GetInto("missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, true, out["keep"])
}

func TestJSONStore_SetManyOrdersParentFirst(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)
	require.NoError(t, s.SetMany(map[string]any{
		"a.b": 2,
		"a":   map[string]any{"c": 1},
	}))
	assert.Equal(t, float64(1), s.Get("a.c", nil))
	assert.Equal(t, float64(2), s.Get("a.b", nil))
}

func TestJSONStore_DeleteIsTolerant(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)
	require.NoError(t, s.Set("k", "v"))

	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("nested.missing"))
	assert.False(t, s.Has("k"))
}

func TestJSONStore_ClearRestoresDefaults(t *testing.T) {
	s := newTestStore(t, t.TempDir(), map[string]any{"prompts": []any{}})
	require.NoError(t, s.Set("prompts", []any{map[string]any{"id": 1}}))
	require.NoError(t, s.Set("extra", true))

	require.NoError(t, s.Clear())

	assert.Equal(t, []string{"prompts"}, s.Keys())
	assert.Empty(t, s.Get("prompts", nil))
}

func TestJSONStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir, nil)
	require.NoError(t, s.Set("settings.maxBackups", 3))
	require.NoError(t, s.Close())

	reopened := newTestStore(t, dir, nil)
	assert.Equal(t, float64(3), reopened.Get("settings.maxBackups", nil))

	_, err := os.Stat(filepath.Join(dir, "data.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestJSONStore_WriteFailureKeepsPreviousState(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(Options{Name: "data", Dir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	require.NoError(t, s.Set("k", "old"))

	s.compressor = &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("disk full") },
	}
	err = s.Set("k", "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "old", s.Get("k", nil))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"old"`)
}

func TestJSONStore_OpenDecompressFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backups.json"), []byte{0x28, 0xb5, 0x2f, 0xfd}, 0644))

	s, err := NewJSONStore(Options{
		Name: "backups",
		Dir:  dir,
		Compressor: &testutil.MockCompressor{
			DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("bad frame") },
		},
	})
	require.NoError(t, err)
	err = s.Open()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad frame")
}

func TestJSONStore_CompressorSeesIndentedDocument(t *testing.T) {
	var seen []byte
	s, err := NewJSONStore(Options{
		Name: "data",
		Dir:  t.TempDir(),
		Compressor: &testutil.MockCompressor{
			CompressFn: func(val []byte) ([]byte, error) {
				seen = append([]byte(nil), val...)
				return val, nil
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	require.NoError(t, s.Set("k", "v"))
	assert.Equal(t, "{\n  \"k\": \"v\"\n}", string(seen))
}

func TestJSONStore_CompressedRoundtrip(t *testing.T) {
	dir := t.TempDir()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	s, err := NewJSONStore(Options{Name: "backups", Dir: dir, Compressor: comp})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	require.NoError(t, s.Set("backup-1", map[string]any{"size": 10}))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), raw[0])

	comp2, err := NewZstdCompressor()
	require.NoError(t, err)
	reopened, err := NewJSONStore(Options{Name: "backups", Dir: dir, Compressor: comp2})
	require.NoError(t, err)
	require.NoError(t, reopened.Open())
	assert.Equal(t, float64(10), reopened.Get("backup-1.size", nil))
}

func TestJSONStore_CompressorReadsPlainFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backups.json"), []byte(`{"a":1}`), 0644))

	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	s, err := NewJSONStore(Options{Name: "backups", Dir: dir, Compressor: comp})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	assert.Equal(t, float64(1), s.Get("a", nil))
}

func TestJSONStore_BytesIsCompact(t *testing.T) {
	s := newTestStore(t, t.TempDir(), map[string]any{"a": 1})
	raw, err := s.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(raw))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
}

func TestJSONStore_OnWriteObserved(t *testing.T) {
	var calls int
	s, err := NewJSONStore(Options{
		Name: "data",
		Dir:  t.TempDir(),
		OnWrite: func(name string, d time.Duration) {
			assert.Equal(t, "data", name)
			calls++
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	require.NoError(t, s.Set("k", 1))
	assert.Equal(t, 2, calls)
}

func TestJSONStore_DeleteMany(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)
	require.NoError(t, s.SetMany(map[string]any{"a": 1, "b": 2, "c": 3}))

	require.NoError(t, s.DeleteMany("a", "c", "missing"))
	assert.Equal(t, []string{"b"}, s.Keys())
}

func TestNewBackupCompressor(t *testing.T) {
	conf := &structures.Config{}
	c, err := NewBackupCompressor(conf)
	require.NoError(t, err)
	assert.IsType(t, PlainCompression{}, c)

	conf.Storage.CompressBackups = true
	c, err = NewBackupCompressor(conf)
	require.NoError(t, err)
	assert.IsType(t, &ZstdCompression{}, c)
}

func TestJSONStore_GetIndexesArrays(t *testing.T) {
	s := newTestStore(t, t.TempDir(), map[string]any{"prompts": []any{map[string]any{"title": "a"}}})

	assert.Equal(t, "a", s.Get("prompts.0.title", nil))
	assert.True(t, s.Has("prompts.0"))
	assert.False(t, s.Has("prompts.1"))
	assert.False(t, s.Has("prompts.-1"))
	assert.Nil(t, s.Get("prompts.x", nil))
}

func TestJSONStore_SetThroughArrayIndex(t *testing.T) {
	s := newTestStore(t, t.TempDir(), map[string]any{"prompts": []any{
		map[string]any{"id": 1, "title": "a"},
		map[string]any{"id": 2, "title": "b"},
	}})

	require.NoError(t, s.Set("prompts.0.title", "renamed"))
	assert.Equal(t, "renamed", s.Get("prompts.0.title", nil))
	assert.Equal(t, float64(1), s.Get("prompts.0.id", nil))
	assert.Equal(t, "b", s.Get("prompts.1.title", nil))

	require.NoError(t, s.Set("prompts.2", map[string]any{"id": 3}))
	assert.Len(t, s.Get("prompts", nil), 3)

	err := s.Set("prompts.7.title", "x")
	assert.True(t, errors.Is(err, ErrInvalidPath), err)
	err = s.Set("prompts.x", "x")
	assert.True(t, errors.Is(err, ErrInvalidPath), err)
	assert.Len(t, s.Get("prompts", nil), 3)
}

func TestJSONStore_DeleteThroughArrayIndex(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir, map[string]any{"prompts": []any{
		map[string]any{"id": 1, "tags": []any{"x"}},
		map[string]any{"id": 2},
	}})

	require.NoError(t, s.Delete("prompts.0.tags"))
	assert.False(t, s.Has("prompts.0.tags"))

	require.NoError(t, s.Delete("prompts.0"))
	assert.Equal(t, []any{map[string]any{"id": float64(2)}}, s.Get("prompts", nil))

	require.NoError(t, s.Delete("prompts.5"))

	reopened := newTestStore(t, dir, nil)
	assert.Equal(t, float64(2), reopened.Get("prompts.0.id", nil))
}
