package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/flightdeck/internal/api"
	"github.com/lox/flightdeck/internal/dataset"
	"github.com/lox/flightdeck/internal/store"
)

var cli struct {
	Host    string `env:"HOST" help:"Interface to bind the HTTP server to. Empty binds all interfaces."`
	Port    string `env:"PORT" default:"8080" help:"HTTP server port."`
	DataDir string `env:"DATA_DIR" name:"data-dir" default:"data/aggregated" help:"Directory containing the aggregated CSV files."`
	DB      string `env:"DB_PATH" default:":memory:" help:"SQLite database path. The default keeps the tables in memory."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("flightdeck"),
		kong.Description("US flight analytics dashboard for January 2018."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Ingest the five aggregated tables once. A missing file is fatal; a
	// malformed table only degrades its own chart.
	loader := dataset.New(cli.DataDir)
	tableErrs := make(map[string]error)
	for _, name := range dataset.TableNames {
		tbl, err := loader.Load(name)
		if err != nil {
			if errors.Is(err, dataset.ErrNotFound) {
				log.Fatalf("load %s: %v", name, err)
			}
			log.Printf("table %s unavailable: %v", name, err)
			tableErrs[name] = err
			continue
		}
		if err := st.InsertTable(tbl); err != nil {
			log.Fatalf("ingest %s: %v", name, err)
		}
	}
	log.Printf("tables ingested from %s", cli.DataDir)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := api.NewServer(st, cli.Host, cli.Port, tableErrs)
	log.Printf("starting server on %s:%s", cli.Host, cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
