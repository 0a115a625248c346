package progression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

func TestComputeProgression_WizardFive(t *testing.T) {
	summary, err := newFixedEngine().ComputeProgression([]*progression.ClassLevel{
		{Class: rulebook.ClassWizard, Level: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalLevel)
	assert.Equal(t, 5, summary.CasterLevel)
	assert.Equal(t, map[int]int{6: 5}, summary.HitDice)
	assert.Equal(t, 3, summary.ProficiencyBonus)
	assert.Equal(t, map[int]int{1: 4, 2: 3, 3: 2}, progression.ComputeSpellSlots(summary.CasterLevel))
	assert.Equal(t, progression.PactMagic{}, progression.ComputePactMagic(summary.PactLevel))
}

func TestComputeProgression_PaladinWarlock(t *testing.T) {
	summary, err := newFixedEngine().ComputeProgression([]*progression.ClassLevel{
		{Class: rulebook.ClassPaladin, Level: 6},
		{Class: rulebook.ClassWarlock, Level: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, summary.TotalLevel)
	assert.Equal(t, rulebook.ClassPaladin, summary.PrimaryClass)
	assert.Equal(t, 3, summary.CasterLevel)
	assert.Equal(t, 2, summary.PactLevel)
	assert.Equal(t, map[int]int{10: 6, 8: 2}, summary.HitDice)
	assert.Equal(t, 2, summary.LevelIn("Warlock"))
	assert.Equal(t, 0, summary.LevelIn("wizard"))

	assert.Equal(t, map[int]int{1: 4, 2: 2}, progression.ComputeSpellSlots(summary.CasterLevel))
	assert.Equal(t, progression.PactMagic{Slots: 2, SlotLevel: 1}, progression.ComputePactMagic(summary.PactLevel))
}

func TestComputeProgression_SubclassCasterOverride(t *testing.T) {
	engine := newFixedEngine()

	plain, err := engine.ComputeProgression([]*progression.ClassLevel{{Class: rulebook.ClassFighter, Level: 6}})
	require.NoError(t, err)
	assert.Zero(t, plain.CasterLevel)

	knight, err := engine.ComputeProgression([]*progression.ClassLevel{
		{Class: rulebook.ClassFighter, Level: 6, Subclass: "eldritch-knight"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, knight.CasterLevel)
}

func TestComputeProgression_PrimaryTieGoesToFirst(t *testing.T) {
	summary, err := newFixedEngine().ComputeProgression([]*progression.ClassLevel{
		{Class: rulebook.ClassRogue, Level: 3},
		{Class: rulebook.ClassFighter, Level: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, rulebook.ClassRogue, summary.PrimaryClass)
}

func TestComputeProgression_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		classes []*progression.ClassLevel
	}{
		{name: "empty", classes: nil},
		{name: "nil entry", classes: []*progression.ClassLevel{nil}},
		{name: "zero level", classes: []*progression.ClassLevel{{Class: rulebook.ClassBard, Level: 0}}},
		{name: "duplicate class", classes: []*progression.ClassLevel{
			{Class: rulebook.ClassBard, Level: 1}, {Class: rulebook.ClassBard, Level: 2},
		}},
		{name: "unknown class", classes: []*progression.ClassLevel{{Class: "artificer", Level: 1}}},
		{name: "over the cap", classes: []*progression.ClassLevel{
			{Class: rulebook.ClassBard, Level: 15}, {Class: rulebook.ClassCleric, Level: 6},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newFixedEngine().ComputeProgression(tc.classes)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestComputeSpellSlots_Boundaries(t *testing.T) {
	assert.Empty(t, progression.ComputeSpellSlots(0))
	assert.Equal(t, map[int]int{1: 2}, progression.ComputeSpellSlots(1))
	assert.Equal(t, map[int]int{1: 4, 2: 2}, progression.ComputeSpellSlots(3))
	assert.Equal(t, progression.ComputeSpellSlots(20), progression.ComputeSpellSlots(25))
	assert.Equal(t,
		map[int]int{1: 4, 2: 3, 3: 3, 4: 3, 5: 2, 6: 1, 7: 1, 8: 1, 9: 1},
		progression.ComputeSpellSlots(17))
}
