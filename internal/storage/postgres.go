package storage

import (
	"database/sql"
	"fmt"

	"github.com/gyengus/uptime-monitor/pkg"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PostgresStore keeps the service list in PostgreSQL, for deployments
// where the agent runs next to an existing database instead of local
// flash.
type PostgresStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPostgresStore(connection string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &PostgresStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type INTEGER NOT NULL,
		host TEXT NOT NULL,
		port INTEGER NOT NULL,
		path TEXT NOT NULL,
		expected_response TEXT NOT NULL,
		check_interval INTEGER NOT NULL,
		position INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *PostgresStore) Save(services []pkg.Service) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM services"); err != nil {
		return fmt.Errorf("failed to clear services: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO services
		(id, name, type, host, port, path, expected_response, check_interval, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range services {
		rec := newServiceRecord(&services[i])
		if _, err := stmt.Exec(rec.ID, rec.Name, rec.Type, rec.Host, rec.Port,
			rec.Path, rec.ExpectedResponse, rec.CheckInterval, i); err != nil {
			return fmt.Errorf("failed to insert service %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Load() ([]pkg.Service, error) {
	rows, err := s.db.Query(`SELECT id, name, type, host, port, path, expected_response, check_interval
		FROM services ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []pkg.Service
	for rows.Next() {
		var rec serviceRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Type, &rec.Host, &rec.Port,
			&rec.Path, &rec.ExpectedResponse, &rec.CheckInterval); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}

		svc, err := rec.toService()
		if err != nil {
			s.logger.WithError(err).Warn("Dropping corrupt service entry")
			continue
		}
		services = append(services, svc)
	}

	return services, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
