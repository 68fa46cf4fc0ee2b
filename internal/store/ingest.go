package store

import (
	"fmt"

	"github.com/lox/flightdeck/internal/dataset"
	"github.com/lox/flightdeck/internal/metrics"
)

// InsertTable writes a parsed table into its SQLite counterpart in one
// transaction. Called once per table during startup.
func (s *Store) InsertTable(tbl *dataset.Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	var count int
	switch tbl.Name {
	case dataset.StateMetrics:
		for _, m := range tbl.States {
			if _, err = tx.Exec(`
				INSERT INTO state_metrics (state_code, state_name, flight_count, avg_dep_delay, cancellation_rate)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(state_code) DO NOTHING
			`, m.StateCode, m.StateName, m.FlightCount, m.AvgDepDelay, m.CancellationRate); err != nil {
				break
			}
			count++
		}
	case dataset.DailyAirlineMetrics:
		for _, m := range tbl.Daily {
			if _, err = tx.Exec(`
				INSERT INTO daily_airline_metrics (day, airline, flight_count, avg_dep_delay, on_time_rate, cancellation_rate)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(day, airline) DO NOTHING
			`, m.Day, m.Airline, m.FlightCount, m.AvgDepDelay, m.OnTimeRate, m.CancellationRate); err != nil {
				break
			}
			count++
		}
	case dataset.HierarchyData:
		for _, m := range tbl.Hierarchy {
			if _, err = tx.Exec(`
				INSERT INTO hierarchy_data (state, city, airport, airline, flight_count, avg_delay)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(state, city, airport, airline) DO NOTHING
			`, m.State, m.City, m.Airport, m.Airline, m.FlightCount, m.AvgDelay); err != nil {
				break
			}
			count++
		}
	case dataset.AirlineMetrics:
		for _, m := range tbl.Airlines {
			if _, err = tx.Exec(`
				INSERT INTO airline_metrics (airline, flight_count, avg_dep_delay, on_time_rate, cancellation_rate)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(airline) DO NOTHING
			`, m.Airline, m.FlightCount, m.AvgDepDelay, m.OnTimeRate, m.CancellationRate); err != nil {
				break
			}
			count++
		}
	case dataset.SummaryStats:
		if tbl.Summary != nil {
			_, err = tx.Exec(`
				INSERT INTO summary_stats (total_flights, total_cancelled, avg_departure_delay, cancellation_rate)
				VALUES (?, ?, ?, ?)
			`, tbl.Summary.TotalFlights, tbl.Summary.TotalCancelled, tbl.Summary.AvgDepartureDelay, tbl.Summary.CancellationRate)
			count = 1
		}
	default:
		tx.Rollback()
		return fmt.Errorf("unknown table %q", tbl.Name)
	}

	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert %s: %w", tbl.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", tbl.Name, err)
	}

	metrics.RowsIngested.WithLabelValues(tbl.Name).Add(float64(count))
	return nil
}
