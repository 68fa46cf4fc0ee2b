package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lox/flightdeck/internal/charts"
	"github.com/lox/flightdeck/internal/dataset"
	"github.com/lox/flightdeck/internal/metric"
	"github.com/lox/flightdeck/internal/metrics"
)

// parseSelection extracts the transient sidebar state from query parameters.
func parseSelection(r *http.Request, defaultMetric string) Selection {
	q := r.URL.Query()
	sel := Selection{
		Metric: q.Get("metric"),
		State:  q.Get("state"),
	}
	if sel.Metric == "" {
		sel.Metric = defaultMetric
	}
	if raw := q.Get("airlines"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				sel.Airlines = append(sel.Airlines, a)
			}
		}
	}
	return sel
}

func (s *Server) handleAPIMap(w http.ResponseWriter, r *http.Request) {
	sel := parseSelection(r, "AvgDepDelay")
	fig, err := s.mapFigure(sel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, fig)
}

func (s *Server) mapFigure(sel Selection) (charts.Figure, error) {
	timer := prometheus.NewTimer(metrics.ChartRenderSeconds.WithLabelValues("map"))
	defer timer.ObserveDuration()

	if err := s.tables[dataset.StateMetrics]; err != nil {
		metrics.ChartRendersTotal.WithLabelValues("map", "unavailable").Inc()
		return charts.Placeholder("Flight Metrics by State", "State data unavailable"), nil
	}

	desc, err := metric.Resolve(sel.Metric)
	if err != nil {
		metrics.ChartRendersTotal.WithLabelValues("map", "bad_selection").Inc()
		return charts.Placeholder("Flight Metrics by State", "Unknown metric: "+sel.Metric), nil
	}

	rows, err := s.store.GetStateMetrics()
	if err != nil {
		metrics.ChartRendersTotal.WithLabelValues("map", "error").Inc()
		return charts.Figure{}, err
	}

	metrics.ChartRendersTotal.WithLabelValues("map", "ok").Inc()
	return charts.RenderChoropleth(charts.PrepareMap(rows, desc)), nil
}

func (s *Server) handleAPITimeline(w http.ResponseWriter, r *http.Request) {
	sel := parseSelection(r, "FlightCount")
	fig, err := s.timelineFigure(sel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, fig)
}

func (s *Server) timelineFigure(sel Selection) (charts.Figure, error) {
	timer := prometheus.NewTimer(metrics.ChartRenderSeconds.WithLabelValues("timeline"))
	defer timer.ObserveDuration()

	const title = "Daily Airline Performance"
	if err := s.tables[dataset.DailyAirlineMetrics]; err != nil {
		metrics.ChartRendersTotal.WithLabelValues("timeline", "unavailable").Inc()
		return charts.Placeholder(title, "Daily airline data unavailable"), nil
	}

	desc, err := metric.Resolve(sel.Metric)
	if err != nil {
		metrics.ChartRendersTotal.WithLabelValues("timeline", "bad_selection").Inc()
		return charts.Placeholder(title, "Unknown metric: "+sel.Metric), nil
	}

	rows, err := s.store.GetDailyAirlineMetrics()
	if err != nil {
		metrics.ChartRendersTotal.WithLabelValues("timeline", "error").Inc()
		return charts.Figure{}, err
	}

	frames, err := charts.BuildTimeline(rows, desc, sel.Airlines)
	if err != nil {
		if errors.Is(err, charts.ErrEmptyFilter) {
			metrics.ChartRendersTotal.WithLabelValues("timeline", "bad_selection").Inc()
			return charts.Placeholder(title, "No data for the selected airlines"), nil
		}
		metrics.ChartRendersTotal.WithLabelValues("timeline", "error").Inc()
		return charts.Figure{}, err
	}

	metrics.ChartRendersTotal.WithLabelValues("timeline", "ok").Inc()
	return charts.RenderTimeline(frames, desc), nil
}

func (s *Server) handleAPISunburst(w http.ResponseWriter, r *http.Request) {
	sel := parseSelection(r, "")
	fig, err := s.sunburstFigure(sel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, fig)
}

func (s *Server) sunburstFigure(sel Selection) (charts.Figure, error) {
	timer := prometheus.NewTimer(metrics.ChartRenderSeconds.WithLabelValues("sunburst"))
	defer timer.ObserveDuration()

	if err := s.tables[dataset.HierarchyData]; err != nil {
		metrics.ChartRendersTotal.WithLabelValues("sunburst", "unavailable").Inc()
		return charts.Placeholder("Flight Volume Hierarchy", "Hierarchy data unavailable"), nil
	}

	rows, err := s.store.GetHierarchyRows()
	if err != nil {
		metrics.ChartRendersTotal.WithLabelValues("sunburst", "error").Inc()
		return charts.Figure{}, err
	}

	var states []string
	if sel.State != "" {
		states = []string{sel.State}
	}

	metrics.ChartRendersTotal.WithLabelValues("sunburst", "ok").Inc()
	return charts.RenderSunburst(charts.BuildHierarchy(rows, states), sel.State), nil
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.GetSummaryStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}

func (s *Server) handleAPIAirlines(w http.ResponseWriter, r *http.Request) {
	airlines, err := s.store.GetAirlineMetrics()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, airlines)
}

func (s *Server) handleAPIStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.store.ListStates()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, states)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	tables := make(map[string]string, len(dataset.TableNames))
	for _, name := range dataset.TableNames {
		if err := s.tables[name]; err != nil {
			tables[name] = err.Error()
			status["status"] = "degraded"
		} else {
			tables[name] = "ok"
		}
	}
	status["tables"] = tables
	writeJSON(w, status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
