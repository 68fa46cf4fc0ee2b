package models

// StateMetric is one row of the state_metrics table: aggregated January
// totals for a single US state or territory.
type StateMetric struct {
	StateCode        string
	StateName        string
	FlightCount      int64
	AvgDepDelay      float64
	CancellationRate float64
}

// DailyAirlineMetric is one row of the daily_airline_metrics table, keyed by
// (day, airline). Combinations where an airline flew no flights that day are
// simply absent.
type DailyAirlineMetric struct {
	Day              int // day of month, 1-31
	Airline          string
	FlightCount      int64
	AvgDepDelay      float64
	OnTimeRate       float64
	CancellationRate float64
}

// HierarchyRow is one leaf of the hierarchy_data table, keyed by the full
// State/City/Airport/Airline path.
type HierarchyRow struct {
	State       string
	City        string
	Airport     string
	Airline     string
	FlightCount int64
	AvgDelay    float64
}

// AirlineMetric is one row of the airline_metrics table: month-level
// aggregates for a single airline.
type AirlineMetric struct {
	Airline          string
	FlightCount      int64
	AvgDepDelay      float64
	OnTimeRate       float64
	CancellationRate float64
}

// SummaryStats is the single KPI row of the summary_stats table.
type SummaryStats struct {
	TotalFlights      int64
	TotalCancelled    int64
	AvgDepartureDelay float64
	CancellationRate  float64
}
