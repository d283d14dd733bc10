// Package store provides durable, concurrent-safe persistence for events
// and alerts over a SQLite file, with typed filtered queries and a
// derived Stats aggregate. Every exported method acquires Store's mutex
// before touching the underlying *sql.DB, giving the whole-operation
// atomicity the rest of the pipeline assumes; the driver itself also
// pools and serializes underneath that.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/hostwatch/seclogd/internal/logging"
)

// Store wraps a SQLite database holding the events and alerts tables.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// Open opens (creating if absent) the SQLite file at path in WAL mode
// and ensures the schema and required indexes exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	s := &Store{
		db:     db,
		logger: logging.WithComponent(logging.Default(), "store"),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME NOT NULL,
			event_time DATETIME NOT NULL,
			host TEXT,
			process TEXT,
			pid INTEGER,
			event_type TEXT NOT NULL,
			severity TEXT,
			"user" TEXT,
			src_ip TEXT,
			dst_ip TEXT,
			log_source TEXT,
			platform TEXT,
			raw_message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type_time ON events(event_type, event_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_time ON events("user", event_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ip_time ON events(src_ip, event_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_severity ON events(severity)`,
		`CREATE INDEX IF NOT EXISTS idx_events_log_source ON events(log_source)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME NOT NULL,
			alert_type TEXT NOT NULL,
			severity TEXT NOT NULL,
			description TEXT NOT NULL,
			related_event_ids TEXT,
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_severity_status ON alerts(severity, status)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_type_time ON alerts(alert_type, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
