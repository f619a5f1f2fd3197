package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	f, err := Open(path)
	require.NoError(t, err)
	_, ok := f.Get("newsapi_key")
	require.False(t, ok)

	require.NoError(t, f.Set("newsapi_key", "abc123"))
	require.NoError(t, f.Set("tianapi_key", "xyz"))

	again, err := Open(path)
	require.NoError(t, err)
	v, ok := again.Get("newsapi_key")
	require.True(t, ok)
	require.Equal(t, "abc123", v)
	require.Equal(t, []string{"newsapi_key", "tianapi_key"}, again.Keys())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("juhe_key", "k"))
	require.NoError(t, f.Unset("juhe_key"))
	require.NoError(t, f.Unset("never-set"))

	again, err := Open(path)
	require.NoError(t, err)
	_, ok := again.Get("juhe_key")
	require.False(t, ok)
}

func TestSetRejectsEmptyKey(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	require.Error(t, f.Set("  ", "v"))
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))
	_, err := Open(path)
	require.Error(t, err)
}
