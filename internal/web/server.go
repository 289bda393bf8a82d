package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/jumanji/internal/config"
	"github.com/leengari/jumanji/internal/engine"
	"github.com/leengari/jumanji/internal/store"
)

// Server is a JSON API over one database. It owns its mux, so tests can
// drive it through Handler without binding a port.
type Server struct {
	db     *engine.Database
	store  *store.Store
	cfg    *config.Config
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer wires the API routes. st may be nil, which disables
// persistence after mutations. A nil logger falls back to slog.Default.
func NewServer(db *engine.Database, st *store.Store, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		db:     db,
		store:  st,
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/users", s.handleListUsers)
	s.mux.HandleFunc("POST /api/users", s.handleCreateUser)
	s.mux.HandleFunc("DELETE /api/users/{id}", s.handleDeleteUser)
	s.mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	s.mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	s.mux.HandleFunc("POST /api/transactions/{id}/flag", s.handleFlagTransaction)

	return s
}

// Handler returns the routed handler for use with an http.Server. Every
// request gets its own ID in the logs.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("http request",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// statusRecorder captures the status code a handler writes.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// persist writes the database to disk when save-on-mutate is configured.
func (s *Server) persist() error {
	if s.store == nil || !s.cfg.Database.SaveOnMutate {
		return nil
	}
	return s.store.Save(s.db)
}

// nextID returns max(id)+1 for a table. Concurrent inserts can race to the
// same id; the primary key check turns the loser into a 409.
func (s *Server) nextID(table string) (int64, error) {
	rows, err := s.db.SelectAll(table)
	if err != nil {
		return 0, err
	}

	var max int64
	for _, row := range rows {
		if id := row["id"]; id.Type == engine.ColumnTypeInt && id.Int > max {
			max = id.Int
		}
	}
	return max + 1, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto HTTP statuses: missing rows or tables
// are 404, constraint violations 409, type and column problems 400.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		rowNotFound   *engine.RowNotFoundError
		tableNotFound *engine.TableNotFoundError
		constraint    *engine.ConstraintError
		typeMismatch  *engine.TypeMismatchError
		colNotFound   *engine.ColumnNotFoundError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &rowNotFound), errors.As(err, &tableNotFound):
		status = http.StatusNotFound
	case errors.As(err, &constraint):
		status = http.StatusConflict
	case errors.As(err, &typeMismatch), errors.As(err, &colNotFound):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.Any("error", err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
