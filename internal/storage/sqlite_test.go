package storage

import (
	"path/filepath"
	"testing"

	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.db")
	store, err := NewSQLiteStore(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	saved := testServices()
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Insertion order is preserved through the position column.
	assert.Equal(t, "svc-1", loaded[0].ID)
	assert.Equal(t, "svc-2", loaded[1].ID)
	assert.Equal(t, pkg.TypeHomeAssistant, loaded[0].Type)
	assert.Equal(t, pkg.TypePing, loaded[1].Type)
	assert.Equal(t, 30, loaded[1].CheckInterval)
}

func TestSQLiteStore_Save_ReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.db")
	store, err := NewSQLiteStore(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Save(testServices()))
	require.NoError(t, store.Save(nil))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestNewStore_UnsupportedType(t *testing.T) {
	_, err := NewStore(configWithType("etcd"), testLogger())
	assert.Error(t, err)
}

func TestNewStore_DefaultsToFile(t *testing.T) {
	cfg := configWithType("")
	cfg.Path = filepath.Join(t.TempDir(), "services.json")

	store, err := NewStore(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, ok := store.(*FileStore)
	assert.True(t, ok)
}
