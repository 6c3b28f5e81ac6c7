package storage

import (
	"fmt"

	"github.com/gyengus/uptime-monitor/internal"
	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
)

// Store persists service configuration. Only configuration fields are
// durable; runtime state (status, timestamps, last error) never reaches
// the store, which keeps write volume down on flash-backed devices.
type Store interface {
	// Save overwrites the durable snapshot with the given services,
	// in order.
	Save(services []pkg.Service) error

	// Load returns the persisted services in insertion order. A missing
	// or malformed snapshot yields an empty slice, not an error.
	Load() ([]pkg.Service, error)

	Close() error
}

// serviceRecord is the serialized form of a service's configuration.
// The type discriminant is stored as its raw integer.
type serviceRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             int    `json:"type"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Path             string `json:"path"`
	ExpectedResponse string `json:"expectedResponse"`
	CheckInterval    int    `json:"checkInterval"`
}

func newServiceRecord(s *pkg.Service) serviceRecord {
	return serviceRecord{
		ID:               s.ID,
		Name:             s.Name,
		Type:             int(s.Type),
		Host:             s.Host,
		Port:             s.Port,
		Path:             s.Path,
		ExpectedResponse: s.ExpectedResponse,
		CheckInterval:    s.CheckInterval,
	}
}

// toService materializes a record with runtime state at defaults. An
// out-of-range discriminant is treated as data corruption and rejected.
func (r serviceRecord) toService() (pkg.Service, error) {
	typ := pkg.ServiceType(r.Type)
	if !typ.Valid() {
		return pkg.Service{}, fmt.Errorf("invalid service type discriminant %d for service %q", r.Type, r.ID)
	}

	return pkg.Service{
		ID:               r.ID,
		Name:             r.Name,
		Type:             typ,
		Host:             r.Host,
		Port:             r.Port,
		Path:             r.Path,
		ExpectedResponse: r.ExpectedResponse,
		CheckInterval:    r.CheckInterval,
	}, nil
}

// NewStore creates a store based on configuration.
func NewStore(cfg internal.StorageConfig, logger *logrus.Logger) (Store, error) {
	switch cfg.Type {
	case "file", "":
		return NewFileStore(cfg.Path, logger), nil
	case "sqlite", "sqlite3":
		return NewSQLiteStore(cfg.Path, logger)
	case "postgres", "postgresql":
		conn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Name)
		return NewPostgresStore(conn, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: file, sqlite, postgres)", cfg.Type)
	}
}
