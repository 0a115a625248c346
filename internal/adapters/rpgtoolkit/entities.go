package rpgtoolkit

import (
	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// CharacterEntity adapts a character record to rpg-toolkit's Entity interface
type CharacterEntity struct {
	Record *character.Record
}

var _ core.Entity = (*CharacterEntity)(nil)

// GetID returns the record's ID
func (c *CharacterEntity) GetID() string {
	if c.Record == nil {
		return ""
	}
	return c.Record.ID
}

// GetType returns the entity type
func (c *CharacterEntity) GetType() string {
	return "character"
}

// WrapRecord creates a CharacterEntity from a record
func WrapRecord(record *character.Record) core.Entity {
	if record == nil {
		return nil
	}
	return &CharacterEntity{Record: record}
}

// ExtractRecord gets the record from an entity if it's a CharacterEntity
func ExtractRecord(entity core.Entity) (*character.Record, bool) {
	if entity == nil {
		return nil, false
	}
	if ce, ok := entity.(*CharacterEntity); ok && ce.Record != nil {
		return ce.Record, true
	}
	return nil, false
}
