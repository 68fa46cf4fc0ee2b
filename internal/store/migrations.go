package store

import (
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Aggregated flight tables",
		SQL: `
CREATE TABLE IF NOT EXISTS state_metrics (
    state_code TEXT PRIMARY KEY,
    state_name TEXT NOT NULL,
    flight_count INTEGER NOT NULL,
    avg_dep_delay REAL NOT NULL,
    cancellation_rate REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_airline_metrics (
    day INTEGER NOT NULL,
    airline TEXT NOT NULL,
    flight_count INTEGER NOT NULL,
    avg_dep_delay REAL NOT NULL,
    on_time_rate REAL NOT NULL,
    cancellation_rate REAL NOT NULL,
    PRIMARY KEY (day, airline)
);

CREATE TABLE IF NOT EXISTS hierarchy_data (
    state TEXT NOT NULL,
    city TEXT NOT NULL,
    airport TEXT NOT NULL,
    airline TEXT NOT NULL,
    flight_count INTEGER NOT NULL,
    avg_delay REAL NOT NULL,
    PRIMARY KEY (state, city, airport, airline)
);

CREATE TABLE IF NOT EXISTS airline_metrics (
    airline TEXT PRIMARY KEY,
    flight_count INTEGER NOT NULL,
    avg_dep_delay REAL NOT NULL,
    on_time_rate REAL NOT NULL,
    cancellation_rate REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS summary_stats (
    total_flights INTEGER NOT NULL,
    total_cancelled INTEGER NOT NULL,
    avg_departure_delay REAL NOT NULL,
    cancellation_rate REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_daily_day ON daily_airline_metrics(day);
CREATE INDEX IF NOT EXISTS idx_hierarchy_state ON hierarchy_data(state);
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
