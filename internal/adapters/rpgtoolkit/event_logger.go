package rpgtoolkit

import (
	"context"
	"fmt"
	"strings"

	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
)

// ProgressionEvents lists every event type the progression service publishes
var ProgressionEvents = []string{
	EventCharacterCreated,
	EventCharacterDeleted,
	EventLevelUp,
	EventASIResolved,
	EventSubclassSelected,
	EventExperienceAwarded,
	EventSpellSlotExpended,
	EventResourceExpended,
	EventTakeDamage,
	EventShortRest,
	EventLongRest,
}

// loggedKeys is the order context values appear in a log line
var loggedKeys = []string{
	ContextLevel,
	ContextClass,
	ContextClassLevel,
	ContextSubclass,
	ContextHitPointsGained,
	ContextASILevel,
	ContextFeat,
	ContextExperience,
	ContextLevelsAvailable,
	ContextSpellLevel,
	ContextPact,
	ContextResource,
	ContextAmount,
	ContextDamage,
	ContextHealed,
	ContextHitPoints,
}

// EventLogger writes one [EVENTS] line for every progression event
type EventLogger struct {
	publisher *Publisher
	logf      func(format string, args ...any)
	ids       []string
}

// SubscribeLogger subscribes logf to every progression event on p
func SubscribeLogger(p *Publisher, logf func(format string, args ...any)) *EventLogger {
	l := &EventLogger{publisher: p, logf: logf}
	for _, eventType := range ProgressionEvents {
		id := p.Subscribe(eventType, 0, func(_ context.Context, event rpgevents.Event) error {
			l.logf("[EVENTS] %s", DescribeEvent(event))
			return nil
		})
		l.ids = append(l.ids, id)
	}
	return l
}

// Close removes the logger's subscriptions
func (l *EventLogger) Close() error {
	var firstErr error
	for _, id := range l.ids {
		if err := l.publisher.Unsubscribe(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.ids = nil
	return firstErr
}

// DescribeEvent renders an event as "<type> character=<id> key=value ..."
func DescribeEvent(event rpgevents.Event) string {
	var b strings.Builder
	b.WriteString(event.Type())

	if record, ok := ExtractRecord(event.Source()); ok {
		fmt.Fprintf(&b, " character=%s", record.ID)
	}

	for _, key := range loggedKeys {
		if v, ok := GetStringContext(event, key); ok {
			fmt.Fprintf(&b, " %s=%s", key, v)
			continue
		}
		if v, ok := GetIntContext(event, key); ok {
			fmt.Fprintf(&b, " %s=%d", key, v)
			continue
		}
		if v, ok := GetBoolContext(event, key); ok {
			fmt.Fprintf(&b, " %s=%t", key, v)
		}
	}
	return b.String()
}
