package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/leengari/jumanji/internal/config"
	"github.com/leengari/jumanji/internal/logging"
	"github.com/leengari/jumanji/internal/store"
	"github.com/leengari/jumanji/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
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

	db.AddObserver(logging.NewEventObserver(logger))

	srv := web.NewServer(db, st, cfg, logger)
	if err := srv.Initialize(); err != nil {
		slog.Error("failed to seed database", "error", err)
		closeFn()
		os.Exit(1)
	}

	slog.Info("Starting HTTP server", "addr", cfg.Server.Addr, "database", cfg.Database.Name)
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Handler()); err != nil {
		slog.Error("server stopped", "error", err)
		closeFn()
		os.Exit(1)
	}
}
