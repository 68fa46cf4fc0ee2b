package api_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/lox/flightdeck/internal/api"
	"github.com/lox/flightdeck/internal/charts"
	"github.com/lox/flightdeck/internal/dataset"
	"github.com/lox/flightdeck/internal/models"
	"github.com/lox/flightdeck/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

func seed(t *testing.T, s *store.Store) {
	t.Helper()
	tables := []*dataset.Table{
		{
			Name: dataset.StateMetrics,
			States: []models.StateMetric{
				{StateCode: "CA", StateName: "California", FlightCount: 65000, AvgDepDelay: 11.2, CancellationRate: 1.85},
				{StateCode: "TX", StateName: "Texas", FlightCount: 52000, AvgDepDelay: 9.8, CancellationRate: 2.1},
			},
		},
		{
			Name: dataset.DailyAirlineMetrics,
			Daily: []models.DailyAirlineMetric{
				{Day: 1, Airline: "AA", FlightCount: 850, AvgDepDelay: 12.5, OnTimeRate: 78.2, CancellationRate: 1.9},
				{Day: 1, Airline: "DL", FlightCount: 790, AvgDepDelay: 8.1, OnTimeRate: 84.6, CancellationRate: 1.1},
				{Day: 2, Airline: "AA", FlightCount: 845, AvgDepDelay: 14.0, OnTimeRate: 75.3, CancellationRate: 2.2},
				{Day: 2, Airline: "DL", FlightCount: 800, AvgDepDelay: 7.9, OnTimeRate: 85.0, CancellationRate: 1.0},
			},
		},
		{
			Name: dataset.HierarchyData,
			Hierarchy: []models.HierarchyRow{
				{State: "CA", City: "Los Angeles", Airport: "LAX", Airline: "AA", FlightCount: 8000, AvgDelay: 9},
				{State: "TX", City: "Dallas", Airport: "DFW", Airline: "AA", FlightCount: 9500, AvgDelay: 10},
			},
		},
		{
			Name: dataset.AirlineMetrics,
			Airlines: []models.AirlineMetric{
				{Airline: "AA", FlightCount: 18250, AvgDepDelay: 12.1, OnTimeRate: 77.9, CancellationRate: 2.0},
				{Airline: "DL", FlightCount: 17400, AvgDepDelay: 8.0, OnTimeRate: 84.8, CancellationRate: 1.05},
			},
		},
		{
			Name:    dataset.SummaryStats,
			Summary: &models.SummaryStats{TotalFlights: 570118, TotalCancelled: 16067, AvgDepartureDelay: 10.7, CancellationRate: 2.82},
		},
	}
	for _, tbl := range tables {
		if err := s.InsertTable(tbl); err != nil {
			t.Fatalf("seed %s: %v", tbl.Name, err)
		}
	}
}

func getFigure(t *testing.T, srv *api.Server, url string) charts.Figure {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("GET %s: status %d: %s", url, w.Code, w.Body.String())
	}
	var fig charts.Figure
	if err := json.Unmarshal(w.Body.Bytes(), &fig); err != nil {
		t.Fatalf("GET %s: decode: %v", url, err)
	}
	return fig
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("expected ok status, got %s", body)
	}
}

func TestHealthDegraded(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	srv := api.NewServer(s, "", "8080", map[string]error{
		dataset.HierarchyData: errors.New("missing column"),
	})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"status":"degraded"`) {
		t.Errorf("expected degraded status, got %s", w.Body.String())
	}
}

func TestAPIMap(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	fig := getFigure(t, srv, "/api/map?metric=FlightCount")
	if len(fig.Data) != 1 || fig.Data[0].Type != "choropleth" {
		t.Fatalf("unexpected figure: %+v", fig.Data)
	}
	if len(fig.Data[0].Locations) != 2 {
		t.Errorf("locations = %v", fig.Data[0].Locations)
	}
}

func TestAPIMapUnknownMetric(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	// A bad selection degrades to a placeholder chart, not an error.
	fig := getFigure(t, srv, "/api/map?metric=Altitude")
	if len(fig.Data) != 0 {
		t.Errorf("expected placeholder, got traces: %+v", fig.Data)
	}
	if len(fig.Layout.Annotations) != 1 || !strings.Contains(fig.Layout.Annotations[0].Text, "Altitude") {
		t.Errorf("expected inline message naming the metric, got %+v", fig.Layout.Annotations)
	}
}

func TestAPITimelineFilter(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	fig := getFigure(t, srv, "/api/timeline?metric=FlightCount&airlines=AA")
	if len(fig.Frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(fig.Frames))
	}
	for _, f := range fig.Frames {
		for _, tr := range f.Data {
			for _, a := range tr.Y {
				if a != "AA" {
					t.Errorf("frame %s contains airline %q outside filter", f.Name, a)
				}
			}
		}
	}
}

func TestAPITimelineEmptyFilter(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	fig := getFigure(t, srv, "/api/timeline?airlines=ZZ")
	if len(fig.Data) != 0 || len(fig.Layout.Annotations) != 1 {
		t.Error("expected placeholder for an airline filter matching nothing")
	}
}

func TestAPISunburstStateFilter(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	fig := getFigure(t, srv, "/api/sunburst?state=CA")
	if len(fig.Data) != 1 || fig.Data[0].Type != "sunburst" {
		t.Fatalf("unexpected figure: %+v", fig.Data)
	}
	for _, id := range fig.Data[0].IDs {
		if !strings.HasPrefix(id, "CA") {
			t.Errorf("node %q outside the CA filter", id)
		}
	}
}

func TestAPIChartUnavailableTable(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", map[string]error{
		dataset.StateMetrics: errors.New("missing column"),
	})

	// The map degrades while its siblings still render.
	fig := getFigure(t, srv, "/api/map")
	if len(fig.Data) != 0 {
		t.Error("expected placeholder for unavailable table")
	}
	fig = getFigure(t, srv, "/api/timeline")
	if len(fig.Data) != 1 {
		t.Error("sibling chart should still render")
	}
}

func TestIndexPage(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"570,118", "Average Departure Delay", `value="DL"`, `value="TX"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestAPISummary(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seed(t, s)
	srv := api.NewServer(s, "", "8080", nil)

	req := httptest.NewRequest("GET", "/api/summary", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var summary models.SummaryStats
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.TotalFlights != 570118 {
		t.Errorf("TotalFlights = %d", summary.TotalFlights)
	}
}
