package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONFADMIN_TEST_DOTENV=from-file\n"), 0600))
	t.Setenv("CONFADMIN_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CONFADMIN_TEST_DOTENV"))

	loaded, err := LoadDotEnv("", filepath.Join(dir, "missing.env"), path)

	require.NoError(t, err)
	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "from-file", os.Getenv("CONFADMIN_TEST_DOTENV"))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONFADMIN_TEST_KEEP=from-file\n"), 0600))
	t.Setenv("CONFADMIN_TEST_KEEP", "from-shell")

	_, err := LoadDotEnv(path)

	require.NoError(t, err)
	assert.Equal(t, "from-shell", os.Getenv("CONFADMIN_TEST_KEEP"))
}

func TestLoadDotEnv_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEY='unterminated\n"), 0600))

	_, err := LoadDotEnv(path)

	assert.Error(t, err)
}
