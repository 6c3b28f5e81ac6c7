package registry

import (
	"sync"

	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
)

// Store is the durable snapshot interface the registry writes through
// to on every configuration mutation.
type Store interface {
	Save(services []pkg.Service) error
	Load() ([]pkg.Service, error)
}

// Registry owns all service instances exclusively. It is an ordered,
// bounded collection; API handlers and the check scheduler both go
// through it, serialized by a single lock.
type Registry struct {
	store  Store
	logger *logrus.Logger

	mu       sync.Mutex
	services []pkg.Service
}

func NewRegistry(store Store, logger *logrus.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
	}
}

// Restore populates the registry from the durable store. Entries beyond
// the capacity limit are dropped, matching the capacity policy applied
// on create. A failed load is not fatal; the agent starts empty.
func (r *Registry) Restore() error {
	services, err := r.store.Load()
	if err != nil {
		r.logger.WithError(err).Warn("Failed to load services, starting fresh")
		return nil
	}

	if len(services) > pkg.MaxServices {
		r.logger.WithFields(logrus.Fields{
			"loaded": len(services),
			"limit":  pkg.MaxServices,
		}).Warn("Service snapshot exceeds capacity, dropping extra entries")
		services = services[:pkg.MaxServices]
	}

	r.mu.Lock()
	r.services = services
	r.mu.Unlock()

	r.logger.WithField("count", len(services)).Info("Services loaded")
	return nil
}

// persist writes the current service list through to the store. The
// caller must hold r.mu. Persistence failures are logged, never
// propagated to API callers.
func (r *Registry) persist() {
	snapshot := make([]pkg.Service, len(r.services))
	copy(snapshot, r.services)

	if err := r.store.Save(snapshot); err != nil {
		r.logger.WithError(err).Error("Failed to save services")
	}
}

// Count returns the number of registered services.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.services)
}
