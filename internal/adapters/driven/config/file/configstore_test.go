package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "conf")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://example.org/api"))

	val, ok := store.Get("api.base_url")
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/api", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("name", "value"))
	require.NoError(t, store.Set("count", 3))
	require.NoError(t, store.Set("rate", 2.5))

	assert.Equal(t, "value", store.GetString("name"))
	assert.Equal(t, "", store.GetString("count"))
	assert.Equal(t, 3, store.GetInt("count"))
	assert.Equal(t, 0, store.GetInt("name"))
	assert.Equal(t, 2.5, store.GetFloat("rate"))
	assert.Equal(t, 3.0, store.GetFloat("count"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("api.base_url", "https://example.org/api"))
	require.NoError(t, store.Set("api.rate_limit", 4))
	require.NoError(t, store.Set("oidc.client_id", "confadmin"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[api]")
	assert.Contains(t, string(data), "[oidc]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/api", reopened.GetString("api.base_url"))
	assert.Equal(t, 4, reopened.GetInt("api.rate_limit"))
	assert.Equal(t, "confadmin", reopened.GetString("oidc.client_id"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_ApplyEnv(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("api.base_url", "http://file/api"))

	env := map[string]string{
		EnvAPIURL:       "http://env/api",
		EnvOIDCClientID: "  ",
	}
	applied := store.ApplyEnv(EnvBindings, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, []string{"api.base_url"}, applied)
	assert.Equal(t, "http://env/api", store.GetString("api.base_url"))
	assert.Equal(t, "", store.GetString("oidc.client_id"))

	// Overrides are not written to disk.
	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "http://file/api", reopened.GetString("api.base_url"))
}

func TestConfigStore_SetReplacesOverride(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	store.ApplyEnv(map[string]string{"X": "api.base_url"}, func(string) (string, bool) {
		return "http://env/api", true
	})

	require.NoError(t, store.Set("api.base_url", "http://new/api"))

	assert.Equal(t, "http://new/api", store.GetString("api.base_url"))
}

func TestFlattenAndUnflatten(t *testing.T) {
	nested := map[string]any{
		"api":  map[string]any{"base_url": "u", "rate_limit": int64(2)},
		"root": "r",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"api.base_url": "u", "api.rate_limit": int64(2), "root": "r"}, flat)
	assert.Equal(t, nested, unflattenMap(flat))
}

func TestUnflatten_TableWinsOverScalar(t *testing.T) {
	got := unflattenMap(map[string]any{"a": 1, "a.b": 2})

	assert.Equal(t, map[string]any{"a": map[string]any{"b": 2}}, got)
}
