package dnd5e

import (
	"testing"

	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	apiEntities "github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiRaceToRace(t *testing.T) {
	input := &apiEntities.Race{
		Key:   "half-elf",
		Name:  "Half-Elf",
		Speed: 30,
		AbilityBonuses: []*apiEntities.AbilityBonus{
			{AbilityScore: &apiEntities.ReferenceItem{Key: "cha", Name: "CHA"}, Bonus: 2},
			{AbilityScore: &apiEntities.ReferenceItem{Key: "dex", Name: "DEX"}, Bonus: 1},
			nil,
			{AbilityScore: nil, Bonus: 1},
		},
	}

	race := apiRaceToRace(input)
	require.NotNil(t, race)
	assert.Equal(t, "half-elf", race.Key)
	assert.Equal(t, "Half-Elf", race.Name)
	assert.Equal(t, 30, race.Speed)
	assert.Equal(t, []string{"CHA +2", "DEX +1"}, race.AbilityBonuses)

	bonuses, skipped := progression.ParseRacialBonuses(race.AbilityBonuses)
	assert.Empty(t, skipped)
	require.Len(t, bonuses, 2)
	assert.Equal(t, shared.AttributeCharisma, bonuses[0].Attribute)
	assert.Equal(t, 2, bonuses[0].Bonus)
}

func TestApiRaceToRace_UnknownAbilityPassesThrough(t *testing.T) {
	race := apiRaceToRace(&apiEntities.Race{
		Key: "odd",
		AbilityBonuses: []*apiEntities.AbilityBonus{
			{AbilityScore: &apiEntities.ReferenceItem{Key: "luck"}, Bonus: -1},
		},
	})

	assert.Equal(t, []string{"luck -1"}, race.AbilityBonuses)

	_, skipped := progression.ParseRacialBonuses(race.AbilityBonuses)
	assert.Equal(t, []string{"luck -1"}, skipped)
}

func TestApiRaceToRace_Nil(t *testing.T) {
	assert.Nil(t, apiRaceToRace(nil))
}

func TestReferenceItemKeys(t *testing.T) {
	keys := referenceItemKeys([]*apiEntities.ReferenceItem{
		{Key: "dwarf", Name: "Dwarf"},
		nil,
		{Key: "", Name: "Blank"},
		{Key: "elf", Name: "Elf"},
	})

	assert.Equal(t, []string{"dwarf", "elf"}, keys)
}
