package dnd5e

import (
	"fmt"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	apiEntities "github.com/fadedpez/dnd5e-api/entities"
)

func referenceItemKeys(items []*apiEntities.ReferenceItem) []string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil || item.Key == "" {
			continue
		}
		keys = append(keys, item.Key)
	}
	return keys
}

// apiRaceToRace renders bonuses as "<ABBR> <signed int>" so they go
// through the same parser as the bundled races. Unknown abilities are
// passed along unchanged and reported by that parser.
func apiRaceToRace(input *apiEntities.Race) *rulebook.Race {
	if input == nil {
		return nil
	}

	bonuses := make([]string, 0, len(input.AbilityBonuses))
	for _, ab := range input.AbilityBonuses {
		if ab == nil || ab.AbilityScore == nil {
			continue
		}
		bonuses = append(bonuses, fmt.Sprintf("%s %+d", abilityKey(ab.AbilityScore.Key), ab.Bonus))
	}

	return &rulebook.Race{
		Key:            input.Key,
		Name:           input.Name,
		Speed:          input.Speed,
		AbilityBonuses: bonuses,
	}
}

func abilityKey(key string) string {
	attr, ok := shared.ParseAttribute(key)
	if !ok {
		return key
	}
	return attr.Short()
}
