package registry

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps the snapshot in memory and records save calls.
type memStore struct {
	services  []pkg.Service
	saveCalls int
	failSave  bool
}

func (s *memStore) Save(services []pkg.Service) error {
	s.saveCalls++
	if s.failSave {
		return errors.New("disk full")
	}
	s.services = make([]pkg.Service, len(services))
	copy(s.services, services)
	return nil
}

func (s *memStore) Load() ([]pkg.Service, error) {
	services := make([]pkg.Service, len(s.services))
	copy(services, s.services)
	return services, nil
}

func setupRegistryTest(t *testing.T) (*Registry, *memStore) {
	t.Helper()
	store := &memStore{}
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewRegistry(store, logger), store
}

func TestRegistry_Create(t *testing.T) {
	reg, store := setupRegistryTest(t)

	svc, err := reg.Create(&pkg.CreateServiceRequest{
		Name: "router",
		Type: "ping",
		Host: "10.0.0.1",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)

	assert.NotEmpty(t, svc.ID)
	assert.Equal(t, "router", svc.Name)
	assert.Equal(t, pkg.TypePing, svc.Type)
	assert.Equal(t, 80, svc.Port)
	assert.Equal(t, "/", svc.Path)
	assert.Equal(t, "*", svc.ExpectedResponse)
	assert.Equal(t, 60, svc.CheckInterval)

	assert.False(t, svc.IsUp)
	assert.True(t, svc.LastCheckAt.IsZero())
	assert.Empty(t, svc.LastError)

	assert.Equal(t, 1, reg.Count())
	assert.Equal(t, 1, store.saveCalls)
}

func TestRegistry_Create_UniqueIDs(t *testing.T) {
	reg, _ := setupRegistryTest(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		svc, err := reg.Create(&pkg.CreateServiceRequest{
			Name: fmt.Sprintf("svc-%d", i),
			Type: "http_get",
			Host: "localhost",
		})
		require.NoError(t, err)
		assert.False(t, seen[svc.ID], "duplicate id %s", svc.ID)
		seen[svc.ID] = true
	}

	assert.Equal(t, 10, reg.Count())
}

func TestRegistry_Create_InvalidType(t *testing.T) {
	reg, store := setupRegistryTest(t)

	svc, err := reg.Create(&pkg.CreateServiceRequest{
		Name: "mystery",
		Type: "gopher",
		Host: "localhost",
	})
	assert.Nil(t, svc)
	require.Error(t, err)

	appErr := err.(*pkg.AppError)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, 0, reg.Count())
	assert.Equal(t, 0, store.saveCalls)
}

func TestRegistry_Create_NegativeInterval(t *testing.T) {
	reg, _ := setupRegistryTest(t)

	_, err := reg.Create(&pkg.CreateServiceRequest{
		Name:          "bad",
		Type:          "ping",
		Host:          "localhost",
		CheckInterval: -5,
	})
	require.Error(t, err)
	assert.Equal(t, 400, err.(*pkg.AppError).Code)
}

func TestRegistry_Create_Capacity(t *testing.T) {
	reg, _ := setupRegistryTest(t)

	for i := 0; i < pkg.MaxServices; i++ {
		_, err := reg.Create(&pkg.CreateServiceRequest{
			Name: fmt.Sprintf("svc-%d", i),
			Type: "ping",
			Host: "localhost",
		})
		require.NoError(t, err)
	}

	svc, err := reg.Create(&pkg.CreateServiceRequest{
		Name: "one-too-many",
		Type: "ping",
		Host: "localhost",
	})
	assert.Nil(t, svc)
	require.Error(t, err)
	assert.Equal(t, pkg.ErrMaxServices, err)
	assert.Equal(t, pkg.MaxServices, reg.Count())
}

func TestRegistry_Create_SaveFailureNotPropagated(t *testing.T) {
	reg, store := setupRegistryTest(t)
	store.failSave = true

	svc, err := reg.Create(&pkg.CreateServiceRequest{
		Name: "router",
		Type: "ping",
		Host: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.Equal(t, 1, reg.Count())
}

func TestRegistry_List_InsertionOrder(t *testing.T) {
	reg, _ := setupRegistryTest(t)

	names := []string{"alpha", "bravo", "charlie"}
	for _, name := range names {
		_, err := reg.Create(&pkg.CreateServiceRequest{Name: name, Type: "ping", Host: "localhost"})
		require.NoError(t, err)
	}

	services := reg.List()
	require.Len(t, services, 3)
	for i, name := range names {
		assert.Equal(t, name, services[i].Name)
	}
}

func TestRegistry_Delete_PreservesOrder(t *testing.T) {
	reg, _ := setupRegistryTest(t)

	var ids []string
	for _, name := range []string{"a", "b", "c", "d"} {
		svc, err := reg.Create(&pkg.CreateServiceRequest{Name: name, Type: "ping", Host: "localhost"})
		require.NoError(t, err)
		ids = append(ids, svc.ID)
	}

	require.NoError(t, reg.Delete(ids[1]))

	services := reg.List()
	require.Len(t, services, 3)
	assert.Equal(t, "a", services[0].Name)
	assert.Equal(t, "c", services[1].Name)
	assert.Equal(t, "d", services[2].Name)

	// Deleting the same id again fails.
	err := reg.Delete(ids[1])
	require.Error(t, err)
	assert.Equal(t, pkg.ErrServiceNotFound, err)
	assert.Equal(t, 3, reg.Count())
}

func TestRegistry_Get(t *testing.T) {
	reg, _ := setupRegistryTest(t)

	created, err := reg.Create(&pkg.CreateServiceRequest{Name: "web", Type: "http_get", Host: "localhost"})
	require.NoError(t, err)

	svc, err := reg.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "web", svc.Name)

	_, err = reg.Get("no-such-id")
	assert.Equal(t, pkg.ErrServiceNotFound, err)
}

func TestRegistry_CheckResult_NoPersistence(t *testing.T) {
	reg, store := setupRegistryTest(t)

	svc, err := reg.Create(&pkg.CreateServiceRequest{Name: "web", Type: "http_get", Host: "localhost"})
	require.NoError(t, err)
	savesAfterCreate := store.saveCalls

	now := time.Now()
	require.NoError(t, reg.MarkCheckStarted(svc.ID, now))

	wasUp, err := reg.ApplyCheckResult(svc.ID, true, "", now)
	require.NoError(t, err)
	assert.False(t, wasUp)

	got, err := reg.Get(svc.ID)
	require.NoError(t, err)
	assert.True(t, got.IsUp)
	assert.Equal(t, now, got.LastCheckAt)
	assert.Equal(t, now, got.LastUptimeAt)
	assert.Empty(t, got.LastError)

	// Runtime updates never hit the store.
	assert.Equal(t, savesAfterCreate, store.saveCalls)
}

func TestRegistry_CheckResult_Failure(t *testing.T) {
	reg, _ := setupRegistryTest(t)

	svc, err := reg.Create(&pkg.CreateServiceRequest{Name: "web", Type: "http_get", Host: "localhost"})
	require.NoError(t, err)

	now := time.Now()
	_, err = reg.ApplyCheckResult(svc.ID, true, "", now)
	require.NoError(t, err)

	later := now.Add(time.Minute)
	wasUp, err := reg.ApplyCheckResult(svc.ID, false, "HTTP 500", later)
	require.NoError(t, err)
	assert.True(t, wasUp)

	got, err := reg.Get(svc.ID)
	require.NoError(t, err)
	assert.False(t, got.IsUp)
	assert.Equal(t, "HTTP 500", got.LastError)
	assert.Equal(t, now, got.LastUptimeAt)
}

func TestRegistry_Restore_CapacityTrim(t *testing.T) {
	store := &memStore{}
	for i := 0; i < pkg.MaxServices+5; i++ {
		store.services = append(store.services, pkg.Service{
			ID:   fmt.Sprintf("svc-%d", i),
			Name: fmt.Sprintf("svc-%d", i),
			Type: pkg.TypePing,
			Host: "localhost",
		})
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	reg := NewRegistry(store, logger)

	require.NoError(t, reg.Restore())
	assert.Equal(t, pkg.MaxServices, reg.Count())

	services := reg.List()
	assert.Equal(t, "svc-0", services[0].ID)
	assert.Equal(t, fmt.Sprintf("svc-%d", pkg.MaxServices-1), services[pkg.MaxServices-1].ID)
}
