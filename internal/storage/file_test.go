package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gyengus/uptime-monitor/internal"
	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func configWithType(storageType string) internal.StorageConfig {
	return internal.StorageConfig{Type: storageType}
}

func testServices() []pkg.Service {
	return []pkg.Service{
		{
			ID:               "svc-1",
			Name:             "Home Assistant",
			Type:             pkg.TypeHomeAssistant,
			Host:             "192.168.1.10",
			Port:             8123,
			Path:             "/",
			ExpectedResponse: "*",
			CheckInterval:    60,
		},
		{
			ID:               "svc-2",
			Name:             "router",
			Type:             pkg.TypePing,
			Host:             "10.0.0.1",
			Port:             80,
			Path:             "/",
			ExpectedResponse: "*",
			CheckInterval:    30,
		},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	store := NewFileStore(path, testLogger())

	saved := testServices()
	// Runtime state must not survive the round trip.
	saved[0].IsUp = true
	saved[0].LastError = "HTTP 500"

	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for i, svc := range loaded {
		assert.Equal(t, saved[i].ID, svc.ID)
		assert.Equal(t, saved[i].Name, svc.Name)
		assert.Equal(t, saved[i].Type, svc.Type)
		assert.Equal(t, saved[i].Host, svc.Host)
		assert.Equal(t, saved[i].Port, svc.Port)
		assert.Equal(t, saved[i].Path, svc.Path)
		assert.Equal(t, saved[i].ExpectedResponse, svc.ExpectedResponse)
		assert.Equal(t, saved[i].CheckInterval, svc.CheckInterval)

		assert.False(t, svc.IsUp)
		assert.True(t, svc.LastCheckAt.IsZero())
		assert.Empty(t, svc.LastError)
	}
}

func TestFileStore_Load_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	store := NewFileStore(path, testLogger())

	services, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestFileStore_Load_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path, testLogger())
	services, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestFileStore_Load_CorruptDiscriminant(t *testing.T) {
	doc := serviceDocument{
		Services: []serviceRecord{
			{ID: "good", Name: "ok", Type: int(pkg.TypeJellyfin), Host: "localhost", Port: 8096, Path: "/", ExpectedResponse: "*", CheckInterval: 60},
			{ID: "bad", Name: "corrupt", Type: 99, Host: "localhost", Port: 80, Path: "/", ExpectedResponse: "*", CheckInterval: 60},
		},
	}
	data, err := json.Marshal(&doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "services.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := NewFileStore(path, testLogger())
	services, err := store.Load()
	require.NoError(t, err)

	// Only the corrupt entry is dropped.
	require.Len(t, services, 1)
	assert.Equal(t, "good", services[0].ID)
	assert.Equal(t, pkg.TypeJellyfin, services[0].Type)
}

func TestFileStore_Save_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	store := NewFileStore(path, testLogger())

	require.NoError(t, store.Save(testServices()))
	require.NoError(t, store.Save(testServices()[:1]))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "svc-1", loaded[0].ID)
}
