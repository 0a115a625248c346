package rpgtoolkit

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/rpg-toolkit/core"
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
)

// CreateAndEmitEvent creates an event, emits it, and returns the event so
// handlers' context changes can be read back
func CreateAndEmitEvent(ctx context.Context, bus *rpgevents.Bus, eventType string, record *character.Record, contextData map[string]any) (rpgevents.Event, error) {
	if bus == nil {
		return nil, nil
	}

	var source core.Entity
	if record != nil {
		source = WrapRecord(record)
	}

	event := rpgevents.NewGameEvent(eventType, source, nil)
	for k, v := range contextData {
		event.Context().Set(k, v)
	}

	err := bus.Publish(ctx, event)
	return event, err
}

// LogEventError logs event emission errors
func LogEventError(eventType string, err error) {
	if err != nil {
		log.Printf("[EVENTS] Failed to emit %s event: %v", eventType, err)
	}
}
