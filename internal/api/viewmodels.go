package api

import (
	"github.com/lox/flightdeck/internal/charts"
	"github.com/lox/flightdeck/internal/metric"
	"github.com/lox/flightdeck/internal/models"
)

// Selection captures one render cycle's sidebar state. It lives only for the
// duration of a single request and is never persisted.
type Selection struct {
	Metric   string
	Airlines []string // empty = all airlines
	State    string   // empty = unfiltered
}

// IndexData contains everything the dashboard page needs: KPI values plus the
// option lists that populate the sidebar controls.
type IndexData struct {
	Summary         *models.SummaryStats
	OperatedFlights int64
	Airlines        []models.AirlineMetric
	States          []string
	MapMetrics      []metric.Descriptor
	TimelineMetrics []metric.Descriptor
	Palette         charts.Palette
	TableErrors     map[string]string
}

func (s *Server) getIndexData() (*IndexData, error) {
	data := &IndexData{
		MapMetrics:      metric.MapMetrics(),
		TimelineMetrics: metric.TimelineMetrics(),
		Palette:         charts.DefaultPalette,
		TableErrors:     make(map[string]string),
	}
	for name, err := range s.tables {
		data.TableErrors[name] = err.Error()
	}

	summary, err := s.store.GetSummaryStats()
	if err != nil {
		return nil, err
	}
	data.Summary = summary
	if summary != nil {
		data.OperatedFlights = summary.TotalFlights - summary.TotalCancelled
	}

	if data.Airlines, err = s.store.GetAirlineMetrics(); err != nil {
		return nil, err
	}
	if data.States, err = s.store.ListStates(); err != nil {
		return nil, err
	}
	return data, nil
}
