package api

import (
	"context"
	"embed"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/flightdeck/internal/metrics"
	"github.com/lox/flightdeck/internal/store"
)

//go:embed templates/*
var templateFS embed.FS

type Server struct {
	store *store.Store
	host  string
	port  string
	tmpl  *template.Template
	// tables records per-table load failures from startup. A chart whose
	// table is listed here degrades to a placeholder; siblings render.
	tables map[string]error
}

func NewServer(store *store.Store, host, port string, tables map[string]error) *Server {
	funcs := template.FuncMap{
		"comma": func(n int64) string { return humanize.Comma(n) },
		"fixed": func(decimals int, v float64) string {
			return strconv.FormatFloat(v, 'f', decimals, 64)
		},
	}
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

	if tables == nil {
		tables = make(map[string]error)
	}
	return &Server{
		store:  store,
		host:   host,
		port:   port,
		tmpl:   tmpl,
		tables: tables,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/map", s.handleAPIMap)
	mux.HandleFunc("/api/timeline", s.handleAPITimeline)
	mux.HandleFunc("/api/sunburst", s.handleAPISunburst)
	mux.HandleFunc("/api/summary", s.handleAPISummary)
	mux.HandleFunc("/api/airlines", s.handleAPIAirlines)
	mux.HandleFunc("/api/states", s.handleAPIStates)
	mux.Handle("/metrics", promhttp.Handler())
	return countRequests(mux)
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    net.JoinHostPort(s.host, s.port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// countRequests records per-path request counts with the response status.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
