// Package dataset reads the pre-aggregated CSV files the dashboard is built
// from. Tables are parsed once per process and served from an in-memory cache
// afterwards; the underlying files are static, so there is no invalidation.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lox/flightdeck/internal/models"
)

// Logical table names. Each maps to <name>.csv in the data directory.
const (
	StateMetrics        = "state_metrics"
	DailyAirlineMetrics = "daily_airline_metrics"
	HierarchyData       = "hierarchy_data"
	AirlineMetrics      = "airline_metrics"
	SummaryStats        = "summary_stats"
)

// TableNames lists every table the dashboard requires, in ingest order.
var TableNames = []string{
	StateMetrics,
	DailyAirlineMetrics,
	HierarchyData,
	AirlineMetrics,
	SummaryStats,
}

var (
	// ErrNotFound indicates the CSV file for a table is absent. This is
	// fatal at startup: the dashboard cannot render without its data.
	ErrNotFound = errors.New("dataset: file not found")

	// ErrFormat indicates a required column is missing or a cell failed to
	// parse. Only the charts fed by that table are affected.
	ErrFormat = errors.New("dataset: bad format")
)

// Table holds the parsed rows of one aggregated CSV file. Exactly one of the
// row fields is populated, matching Name. Tables are never mutated after load.
type Table struct {
	Name      string
	States    []models.StateMetric
	Daily     []models.DailyAirlineMetric
	Hierarchy []models.HierarchyRow
	Airlines  []models.AirlineMetric
	Summary   *models.SummaryStats
}

// Loader is a read-through cache over the data directory. Load is called for
// every table during startup, before the HTTP server accepts traffic, so the
// cache is effectively write-once and needs no locking.
type Loader struct {
	dir   string
	cache map[string]*Table
}

func New(dir string) *Loader {
	return &Loader{dir: dir, cache: make(map[string]*Table)}
}

// Load parses the named table from disk on first call and returns the cached
// result on every call after that.
func (l *Loader) Load(name string) (*Table, error) {
	if tbl, ok := l.cache[name]; ok {
		return tbl, nil
	}

	f, err := l.read(name)
	if err != nil {
		return nil, err
	}

	tbl := &Table{Name: name}
	switch name {
	case StateMetrics:
		tbl.States, err = parseStateMetrics(f)
	case DailyAirlineMetrics:
		tbl.Daily, err = parseDailyAirlineMetrics(f)
	case HierarchyData:
		tbl.Hierarchy, err = parseHierarchyData(f)
	case AirlineMetrics:
		tbl.Airlines, err = parseAirlineMetrics(f)
	case SummaryStats:
		tbl.Summary, err = parseSummaryStats(f)
	default:
		return nil, fmt.Errorf("%w: unknown table %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	l.cache[name] = tbl
	return tbl, nil
}

// csvFile is a parsed CSV with a header index for column lookup.
type csvFile struct {
	name   string
	header map[string]int
	rows   [][]string
}

func (l *Loader) read(name string) (*csvFile, error) {
	path := filepath.Join(l.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header row", ErrFormat, name)
	}

	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[col] = i
	}
	return &csvFile{name: name, header: header, rows: records[1:]}, nil
}

func (f *csvFile) col(name string) (int, error) {
	i, ok := f.header[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing column %q", ErrFormat, name)
	}
	return i, nil
}

func (f *csvFile) cols(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		var err error
		if idx[i], err = f.col(n); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func parseFloat(f *csvFile, row int, cell string) (float64, error) {
	if cell == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s row %d: %q is not a number", ErrFormat, f.name, row+1, cell)
	}
	return v, nil
}

func parseInt(f *csvFile, row int, cell string) (int64, error) {
	if cell == "" {
		return 0, nil
	}
	// Some aggregation pipelines emit counts as floats ("1234.0").
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		fv, ferr := strconv.ParseFloat(cell, 64)
		if ferr != nil {
			return 0, fmt.Errorf("%w: %s row %d: %q is not an integer", ErrFormat, f.name, row+1, cell)
		}
		v = int64(fv)
	}
	return v, nil
}

func parseStateMetrics(f *csvFile) ([]models.StateMetric, error) {
	idx, err := f.cols("StateCode", "StateName", "FlightCount", "AvgDepDelay", "CancellationRate")
	if err != nil {
		return nil, err
	}

	out := make([]models.StateMetric, 0, len(f.rows))
	for i, row := range f.rows {
		m := models.StateMetric{
			StateCode: row[idx[0]],
			StateName: row[idx[1]],
		}
		if m.FlightCount, err = parseInt(f, i, row[idx[2]]); err != nil {
			return nil, err
		}
		if m.AvgDepDelay, err = parseFloat(f, i, row[idx[3]]); err != nil {
			return nil, err
		}
		if m.CancellationRate, err = parseFloat(f, i, row[idx[4]]); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseDailyAirlineMetrics(f *csvFile) ([]models.DailyAirlineMetric, error) {
	idx, err := f.cols("Day", "Airline", "FlightCount", "AvgDepDelay", "OnTimeRate", "CancellationRate")
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyAirlineMetric, 0, len(f.rows))
	for i, row := range f.rows {
		m := models.DailyAirlineMetric{Airline: row[idx[1]]}
		day, err := parseInt(f, i, row[idx[0]])
		if err != nil {
			return nil, err
		}
		m.Day = int(day)
		if m.FlightCount, err = parseInt(f, i, row[idx[2]]); err != nil {
			return nil, err
		}
		if m.AvgDepDelay, err = parseFloat(f, i, row[idx[3]]); err != nil {
			return nil, err
		}
		if m.OnTimeRate, err = parseFloat(f, i, row[idx[4]]); err != nil {
			return nil, err
		}
		if m.CancellationRate, err = parseFloat(f, i, row[idx[5]]); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseHierarchyData(f *csvFile) ([]models.HierarchyRow, error) {
	idx, err := f.cols("State", "City", "Airport", "Airline", "FlightCount", "AvgDelay")
	if err != nil {
		return nil, err
	}

	out := make([]models.HierarchyRow, 0, len(f.rows))
	for i, row := range f.rows {
		m := models.HierarchyRow{
			State:   row[idx[0]],
			City:    row[idx[1]],
			Airport: row[idx[2]],
			Airline: row[idx[3]],
		}
		if m.FlightCount, err = parseInt(f, i, row[idx[4]]); err != nil {
			return nil, err
		}
		if m.AvgDelay, err = parseFloat(f, i, row[idx[5]]); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseAirlineMetrics(f *csvFile) ([]models.AirlineMetric, error) {
	idx, err := f.cols("Airline", "FlightCount", "AvgDepDelay", "OnTimeRate", "CancellationRate")
	if err != nil {
		return nil, err
	}

	out := make([]models.AirlineMetric, 0, len(f.rows))
	for i, row := range f.rows {
		m := models.AirlineMetric{Airline: row[idx[0]]}
		if m.FlightCount, err = parseInt(f, i, row[idx[1]]); err != nil {
			return nil, err
		}
		if m.AvgDepDelay, err = parseFloat(f, i, row[idx[2]]); err != nil {
			return nil, err
		}
		if m.OnTimeRate, err = parseFloat(f, i, row[idx[3]]); err != nil {
			return nil, err
		}
		if m.CancellationRate, err = parseFloat(f, i, row[idx[4]]); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseSummaryStats(f *csvFile) (*models.SummaryStats, error) {
	idx, err := f.cols("TotalFlights", "TotalCancelled", "AvgDepartureDelay", "CancellationRate")
	if err != nil {
		return nil, err
	}
	if len(f.rows) == 0 {
		return nil, fmt.Errorf("%w: expected a single summary row", ErrFormat)
	}

	row := f.rows[0]
	s := &models.SummaryStats{}
	if s.TotalFlights, err = parseInt(f, 0, row[idx[0]]); err != nil {
		return nil, err
	}
	if s.TotalCancelled, err = parseInt(f, 0, row[idx[1]]); err != nil {
		return nil, err
	}
	if s.AvgDepartureDelay, err = parseFloat(f, 0, row[idx[2]]); err != nil {
		return nil, err
	}
	if s.CancellationRate, err = parseFloat(f, 0, row[idx[3]]); err != nil {
		return nil, err
	}
	return s, nil
}
