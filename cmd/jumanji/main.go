package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/leengari/jumanji/internal/config"
	"github.com/leengari/jumanji/internal/logging"
	"github.com/leengari/jumanji/internal/repl"
	"github.com/leengari/jumanji/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	dbFile := flag.String("db", "", "Database file (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	if *dbFile != "" {
		cfg.Database.File = *dbFile
	}

	logger, closeFn := logging.SetupLogger(cfg.Logging.SeqURL)
	defer closeFn()
	slog.SetDefault(logger)

	st := store.New(cfg.Database.File)
	db, err := st.LoadOrCreate(cfg.Database.Name)
	if err != nil {
		slog.Error("failed to load database", "file", st.Path(), "error", err)
		closeFn()
		os.Exit(1)
	}

	// Trace every mutation into the logs
	db.AddObserver(logging.NewEventObserver(logger))

	slog.Info("Application ready!", "database", cfg.Database.Name, "file", st.Path())

	r := repl.New(db, st, cfg.Repl.HistoryFile)
	if err := r.Run(); err != nil {
		slog.Error("repl exited with error", "error", err)
		closeFn()
		os.Exit(1)
	}
}
