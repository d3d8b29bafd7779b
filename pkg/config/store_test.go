package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		store, err := NewFileStore(path)
		require.NoError(t, err)

		assert.Equal(t, path, store.Path())
		assert.False(t, store.IsModified())
		all, err := store.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("default path", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		store, err := NewFileStore("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".webscout", "config.json"), store.Path())
	})

	t.Run("loads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		raw, err := json.Marshal(map[string]interface{}{
			"version":  "1.0",
			"sections": map[string]interface{}{"browser": map[string]interface{}{"web_browser": "firefox"}},
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, raw, 0600))

		store, err := NewFileStore(path)
		require.NoError(t, err)
		section, err := store.GetSection("browser")
		require.NoError(t, err)
		assert.Equal(t, "firefox", section["web_browser"])
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := NewFileStore(path)
		assert.Error(t, err)
	})
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("llm", map[string]interface{}{"model": "gpt-4o"}))
	assert.True(t, store.IsModified())
	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())
	assert.NoFileExists(t, path+".tmp")

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	section, err := reloaded.GetSection("llm")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", section["model"])
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	input := map[string]interface{}{"k": "v"}
	require.NoError(t, store.SetSection("s", input))
	input["k"] = "changed"

	got, err := store.GetSection("s")
	require.NoError(t, err)
	assert.Equal(t, "v", got["k"])

	got["k"] = "mutated"
	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "v", all["s"]["k"])

	require.NoError(t, store.SetAll(map[string]map[string]interface{}{"t": {"x": 1}}))
	all, err = store.GetAll()
	require.NoError(t, err)
	assert.NotContains(t, all, "s")
	assert.Equal(t, 1, all["t"]["x"])
}
