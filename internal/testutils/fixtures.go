package testutils

import (
	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
)

// CreateTestAbilities returns a standard array spread suited to a fighter
func CreateTestAbilities() shared.AbilityScores {
	return shared.AbilityScores{
		Strength:     15,
		Dexterity:    13,
		Constitution: 14,
		Intelligence: 8,
		Wisdom:       12,
		Charisma:     10,
	}
}

// CreateTestState creates a level 1 fighter state with max hit points at first level
func CreateTestState() *progression.State {
	abilities := CreateTestAbilities()
	return &progression.State{
		Level:         1,
		Classes:       []*progression.ClassLevel{{Class: rulebook.ClassFighter, Level: 1}},
		Abilities:     abilities,
		Proficiencies: []string{"light-armor", "medium-armor", "heavy-armor", "shields"},
		HitDieResults: []int{10},
		MaxHitPoints:  10 + shared.Modifier(abilities.Constitution),
	}
}

// CreateTestResources creates a full resource pool for CreateTestState
func CreateTestResources() *progression.ResourcePool {
	state := CreateTestState()
	return &progression.ResourcePool{
		HitPoints: shared.HPResource{Current: state.MaxHitPoints, Max: state.MaxHitPoints},
		SpellSlots: progression.SlotPool{
			Max:      map[int]int{},
			Expended: map[int]int{},
		},
		HitDice: progression.HitDicePool{
			Max:       map[int]int{10: 1},
			Remaining: map[int]int{10: 1},
		},
		Resources: map[string]*progression.ClassResource{
			"second-wind": {
				Key: "second-wind", Name: "Second Wind", Class: rulebook.ClassFighter,
				Max: 1, Current: 1, Recovery: rulebook.RestShort,
			},
		},
	}
}

// CreateTestRecord creates a character record wrapping the test state and pool
func CreateTestRecord(id, ownerID, name string) *character.Record {
	return &character.Record{
		ID:               id,
		OwnerID:          ownerID,
		Name:             name,
		Race:             "human",
		AllocationMethod: progression.MethodStandardArray,
		BaseAbilities:    CreateTestAbilities(),
		State:            CreateTestState(),
		Resources:        CreateTestResources(),
	}
}
