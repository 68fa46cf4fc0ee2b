// Package store holds the aggregated flight tables in SQLite. The database is
// populated exactly once at startup from the CSV loader and is read-only from
// then on, so queries need no coordination with writers.
package store

import (
	"database/sql"

	"github.com/lox/flightdeck/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetStateMetrics returns every state row ordered by state code.
func (s *Store) GetStateMetrics() ([]models.StateMetric, error) {
	rows, err := s.db.Query(`
		SELECT state_code, state_name, flight_count, avg_dep_delay, cancellation_rate
		FROM state_metrics
		ORDER BY state_code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StateMetric
	for rows.Next() {
		var m models.StateMetric
		if err := rows.Scan(&m.StateCode, &m.StateName, &m.FlightCount, &m.AvgDepDelay, &m.CancellationRate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetDailyAirlineMetrics returns every daily row ordered by day then airline,
// which is the animation order for the timeline.
func (s *Store) GetDailyAirlineMetrics() ([]models.DailyAirlineMetric, error) {
	rows, err := s.db.Query(`
		SELECT day, airline, flight_count, avg_dep_delay, on_time_rate, cancellation_rate
		FROM daily_airline_metrics
		ORDER BY day, airline
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DailyAirlineMetric
	for rows.Next() {
		var m models.DailyAirlineMetric
		if err := rows.Scan(&m.Day, &m.Airline, &m.FlightCount, &m.AvgDepDelay, &m.OnTimeRate, &m.CancellationRate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetHierarchyRows returns every hierarchy leaf ordered by full path.
func (s *Store) GetHierarchyRows() ([]models.HierarchyRow, error) {
	rows, err := s.db.Query(`
		SELECT state, city, airport, airline, flight_count, avg_delay
		FROM hierarchy_data
		ORDER BY state, city, airport, airline
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HierarchyRow
	for rows.Next() {
		var m models.HierarchyRow
		if err := rows.Scan(&m.State, &m.City, &m.Airport, &m.Airline, &m.FlightCount, &m.AvgDelay); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetAirlineMetrics returns month-level airline aggregates ordered by airline.
func (s *Store) GetAirlineMetrics() ([]models.AirlineMetric, error) {
	rows, err := s.db.Query(`
		SELECT airline, flight_count, avg_dep_delay, on_time_rate, cancellation_rate
		FROM airline_metrics
		ORDER BY airline
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AirlineMetric
	for rows.Next() {
		var m models.AirlineMetric
		if err := rows.Scan(&m.Airline, &m.FlightCount, &m.AvgDepDelay, &m.OnTimeRate, &m.CancellationRate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetSummaryStats returns the single KPI row, or nil if the summary table was
// never populated.
func (s *Store) GetSummaryStats() (*models.SummaryStats, error) {
	row := s.db.QueryRow(`
		SELECT total_flights, total_cancelled, avg_departure_delay, cancellation_rate
		FROM summary_stats
		LIMIT 1
	`)
	var m models.SummaryStats
	if err := row.Scan(&m.TotalFlights, &m.TotalCancelled, &m.AvgDepartureDelay, &m.CancellationRate); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListStates returns the distinct states present in the hierarchy table,
// sorted, for the sunburst filter control.
func (s *Store) ListStates() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT state FROM hierarchy_data ORDER BY state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ListAirlines returns the distinct airlines present in the daily table,
// sorted, for the timeline multi-select control.
func (s *Store) ListAirlines() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT airline FROM daily_airline_metrics ORDER BY airline`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
