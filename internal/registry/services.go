package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
)

// Create validates and registers a new service. The id is generated
// here and never reused after deletion. Runtime state starts zeroed: a
// new service is down until its first check.
func (r *Registry) Create(req *pkg.CreateServiceRequest) (*pkg.Service, error) {
	typ, err := pkg.ParseServiceType(req.Type)
	if err != nil {
		return nil, pkg.BadRequestError("Invalid service type")
	}

	if req.CheckInterval < 0 {
		return nil, pkg.BadRequestError("Invalid check interval")
	}

	service := pkg.Service{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Type:             typ,
		Host:             req.Host,
		Port:             req.Port,
		Path:             req.Path,
		ExpectedResponse: req.ExpectedResponse,
		CheckInterval:    req.CheckInterval,
	}

	if service.Port == 0 {
		service.Port = 80
	}
	if service.Path == "" {
		service.Path = "/"
	}
	if service.ExpectedResponse == "" {
		service.ExpectedResponse = "*"
	}
	if service.CheckInterval == 0 {
		service.CheckInterval = 60
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.services) >= pkg.MaxServices {
		return nil, pkg.ErrMaxServices
	}

	r.services = append(r.services, service)
	r.persist()

	r.logger.WithFields(logrus.Fields{
		"service_id":   service.ID,
		"service_name": service.Name,
		"type":         service.Type.String(),
		"host":         service.Host,
		"port":         service.Port,
	}).Info("Service added")

	return &service, nil
}

// List returns a copy of all services in insertion order.
func (r *Registry) List() []pkg.Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	services := make([]pkg.Service, len(r.services))
	copy(services, r.services)
	return services
}

// Get returns a copy of the service with the given id.
func (r *Registry) Get(id string) (*pkg.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, pkg.ErrServiceNotFound
	}

	service := r.services[i]
	return &service, nil
}

// Delete removes the service with the given id, preserving the relative
// order of the remainder. Deleting an absent id yields NotFound.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return pkg.ErrServiceNotFound
	}

	name := r.services[i].Name
	r.services = append(r.services[:i], r.services[i+1:]...)
	r.persist()

	r.logger.WithFields(logrus.Fields{
		"service_id":   id,
		"service_name": name,
	}).Info("Service removed")

	return nil
}

// MarkCheckStarted stamps LastCheckAt before the probe runs, so a hung
// probe is not immediately re-invoked on the next tick.
func (r *Registry) MarkCheckStarted(id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return pkg.ErrServiceNotFound
	}

	r.services[i].LastCheckAt = now
	return nil
}

// ApplyCheckResult records a probe outcome and returns the previous
// up/down value so the scheduler can log status transitions. Runtime
// state is deliberately not persisted.
func (r *Registry) ApplyCheckResult(id string, up bool, errMsg string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, pkg.ErrServiceNotFound
	}

	wasUp := r.services[i].IsUp
	r.services[i].IsUp = up

	if up {
		r.services[i].LastUptimeAt = now
		r.services[i].LastError = ""
	} else {
		r.services[i].LastError = errMsg
	}

	return wasUp, nil
}

// indexOf locates a service by id. The caller must hold r.mu.
func (r *Registry) indexOf(id string) int {
	for i := range r.services {
		if r.services[i].ID == id {
			return i
		}
	}
	return -1
}
