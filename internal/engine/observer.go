package engine

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the mutation and lifecycle notifications a Database
// emits
type EventType string

const (
	EventTableCreated EventType = "table_created"
	EventTableDropped EventType = "table_dropped"
	EventRowInserted  EventType = "row_inserted"
	EventRowsUpdated  EventType = "rows_updated"
	EventRowsDeleted  EventType = "rows_deleted"
	EventSnapshot     EventType = "snapshot"
)

// Event describes one completed operation
type Event struct {
	Type      EventType   // Type of event
	OpID      string      // Operation ID for tracing
	Table     string      // Affected table (empty for database-wide events)
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Event-specific data (e.g., row count, schema)
}

// Observer interface for event subscribers
// Observers receive an event after each successful mutation
type Observer interface {
	OnEvent(event Event)
}

// newEvent stamps an event with a fresh operation ID and the current time.
func newEvent(eventType EventType, table string, data interface{}) Event {
	return Event{
		Type:      eventType,
		OpID:      uuid.New().String(),
		Table:     table,
		Timestamp: time.Now(),
		Data:      data,
	}
}
