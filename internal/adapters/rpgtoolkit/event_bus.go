package rpgtoolkit

import (
	"context"

	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
)

// Publisher emits progression events about a character onto an rpg-toolkit bus
type Publisher struct {
	bus *rpgevents.Bus
}

// NewPublisher wraps bus, creating one when nil
func NewPublisher(bus *rpgevents.Bus) *Publisher {
	if bus == nil {
		bus = rpgevents.NewBus()
	}
	return &Publisher{bus: bus}
}

// Bus returns the underlying rpg-toolkit event bus for direct subscription
func (p *Publisher) Bus() *rpgevents.Bus {
	return p.bus
}

// Subscribe registers handler for eventType and returns the subscription id
func (p *Publisher) Subscribe(eventType string, priority int, handler rpgevents.HandlerFunc) string {
	return p.bus.SubscribeFunc(eventType, priority, handler)
}

// Unsubscribe removes a subscription by id
func (p *Publisher) Unsubscribe(id string) error {
	return p.bus.Unsubscribe(id)
}

// Publish emits eventType with record as the source entity
func (p *Publisher) Publish(ctx context.Context, eventType string, record *character.Record, data map[string]any) error {
	_, err := CreateAndEmitEvent(ctx, p.bus, eventType, record, data)
	return err
}
