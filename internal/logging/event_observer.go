package logging

import (
	"log/slog"

	"github.com/leengari/jumanji/internal/engine"
)

// EventObserver bridges database events into structured logging. The engine
// itself never logs; a process that wants an operation log subscribes one of
// these to its database.
type EventObserver struct {
	logger *slog.Logger
}

// NewEventObserver creates an observer logging through logger, or the
// default logger when nil.
func NewEventObserver(logger *slog.Logger) *EventObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventObserver{logger: logger}
}

// OnEvent implements the engine.Observer interface
// It logs each event with structured fields for easy filtering and analysis
func (o *EventObserver) OnEvent(event engine.Event) {
	o.logger.Info("database_event",
		"event", event.Type,
		"op_id", event.OpID,
		"table", event.Table,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
