package rpgtoolkit

import (
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
)

// Progression events not covered by the toolkit's own event names
const (
	EventLevelUp           = "progression.level_up"
	EventASIResolved       = "progression.asi_resolved"
	EventSubclassSelected  = "progression.subclass_selected"
	EventExperienceAwarded = "progression.experience_awarded"
	EventSpellSlotExpended = "progression.spell_slot_expended"
	EventResourceExpended  = "progression.resource_expended"
	EventCharacterCreated  = "progression.character_created"
	EventCharacterDeleted  = "progression.character_deleted"

	EventShortRest  = rpgevents.EventOnShortRest
	EventLongRest   = rpgevents.EventOnLongRest
	EventTakeDamage = rpgevents.EventOnTakeDamage
)

// Common event context keys
const (
	ContextClass           = "class"
	ContextClassLevel      = "class_level"
	ContextLevel           = "level"
	ContextHitPointsGained = "hit_points_gained"
	ContextFeatures        = "features"
	ContextASILevel        = "asi_level"
	ContextFeat            = "feat"
	ContextSubclass        = "subclass"
	ContextExperience      = "experience"
	ContextLevelsAvailable = "levels_available"
	ContextSpellLevel      = "spell_level"
	ContextPact            = "pact"
	ContextResource        = "resource"
	ContextAmount          = "amount"
	ContextDamage          = "damage"
	ContextHitPoints       = "hit_points"
	ContextHealed          = "healed"
	ContextOwnerID         = "owner_id"
)

// GetIntContext safely extracts an int from event context
func GetIntContext(event rpgevents.Event, key string) (int, bool) {
	if val, ok := event.Context().Get(key); ok {
		if intVal, ok := val.(int); ok {
			return intVal, true
		}
	}
	return 0, false
}

// GetStringContext safely extracts a string from event context
func GetStringContext(event rpgevents.Event, key string) (string, bool) {
	if val, ok := event.Context().Get(key); ok {
		if strVal, ok := val.(string); ok {
			return strVal, true
		}
	}
	return "", false
}

// GetBoolContext safely extracts a bool from event context
func GetBoolContext(event rpgevents.Event, key string) (value, exists bool) {
	if val, ok := event.Context().Get(key); ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal, true
		}
	}
	return false, false
}
