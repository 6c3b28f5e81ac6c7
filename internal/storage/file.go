package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
)

// FileStore keeps the service list as a single JSON document. Writes go
// to a temp file in the same directory followed by a rename, so a
// partial write cannot corrupt the existing snapshot.
type FileStore struct {
	path   string
	logger *logrus.Logger
	mu     sync.Mutex
}

type serviceDocument struct {
	Services []serviceRecord `json:"services"`
}

func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

func (fs *FileStore) Save(services []pkg.Service) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc := serviceDocument{Services: make([]serviceRecord, 0, len(services))}
	for i := range services {
		doc.Services = append(doc.Services, newServiceRecord(&services[i]))
	}

	data, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode services: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".services-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write services: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	fs.logger.WithField("count", len(services)).Debug("Services saved")
	return nil
}

func (fs *FileStore) Load() ([]pkg.Service, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			fs.logger.WithField("path", fs.path).Info("No service snapshot found, starting fresh")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc serviceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		fs.logger.WithError(err).WithField("path", fs.path).Warn("Failed to parse service snapshot, starting fresh")
		return nil, nil
	}

	services := make([]pkg.Service, 0, len(doc.Services))
	for _, rec := range doc.Services {
		svc, err := rec.toService()
		if err != nil {
			fs.logger.WithError(err).Warn("Dropping corrupt service entry")
			continue
		}
		services = append(services, svc)
	}

	return services, nil
}

func (fs *FileStore) Close() error {
	return nil
}
