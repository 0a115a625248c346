package dnd5e_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-progression/internal/clients/dnd5e"
	mockdnd5e "github.com/KirkDiggler/dnd-progression/internal/clients/dnd5e/mock"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
)

func TestLoadRaces_ExplicitKeysKeepOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)

	client.EXPECT().GetRace("elf").Return(&rulebook.Race{Key: "elf", AbilityBonuses: []string{"DEX +2"}}, nil)
	client.EXPECT().GetRace("dwarf").Return(&rulebook.Race{Key: "dwarf", AbilityBonuses: []string{"CON +2"}}, nil)
	client.EXPECT().GetRace("human").Return(&rulebook.Race{Key: "human"}, nil)

	races, err := dnd5e.LoadRaces(context.Background(), client, "elf", "dwarf", "human")
	require.NoError(t, err)
	require.Len(t, races, 3)
	assert.Equal(t, "elf", races[0].Key)
	assert.Equal(t, "dwarf", races[1].Key)
	assert.Equal(t, "human", races[2].Key)
}

func TestLoadRaces_ListsWhenNoKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)

	client.EXPECT().ListRaceKeys().Return([]string{"gnome", "tiefling"}, nil)
	client.EXPECT().GetRace("gnome").Return(&rulebook.Race{Key: "gnome"}, nil)
	client.EXPECT().GetRace("tiefling").Return(&rulebook.Race{Key: "tiefling"}, nil)

	races, err := dnd5e.LoadRaces(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, "gnome", races[0].Key)
	assert.Equal(t, "tiefling", races[1].Key)
}

func TestLoadRaces_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)

	client.EXPECT().ListRaceKeys().Return(nil, errors.New("api down"))

	races, err := dnd5e.LoadRaces(context.Background(), client)
	assert.Error(t, err)
	assert.Nil(t, races)
}

func TestLoadRaces_FetchErrorFailsAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)

	client.EXPECT().GetRace("elf").Return(&rulebook.Race{Key: "elf"}, nil).AnyTimes()
	client.EXPECT().GetRace("broken").Return(nil, errors.New("boom")).AnyTimes()

	races, err := dnd5e.LoadRaces(context.Background(), client, "elf", "broken")
	assert.EqualError(t, err, "boom")
	assert.Nil(t, races)
}

func TestLoadRaces_NilClient(t *testing.T) {
	_, err := dnd5e.LoadRaces(context.Background(), nil)
	assert.Error(t, err)
}

func standardHitDice(rules *rulebook.Rules) map[string]int {
	dice := map[string]int{}
	for _, class := range rules.Classes() {
		dice[string(class.Key)] = class.HitDie
	}
	return dice
}

func TestCheckHitDice_ReportsMismatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)
	rules := rulebook.Standard()

	apiDice := standardHitDice(rules)
	apiDice["wizard"] = 8
	apiDice["barbarian"] = 0

	client.EXPECT().GetClassHitDie(gomock.Any()).DoAndReturn(func(key string) (int, error) {
		if key == "barbarian" {
			return 0, errors.New("timeout")
		}
		return apiDice[key], nil
	}).Times(len(rules.Classes()))

	mismatches, err := dnd5e.CheckHitDice(context.Background(), client, rules)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, rulebook.ClassWizard, mismatches[0].Class)
	assert.Equal(t, 6, mismatches[0].Rulebook)
	assert.Equal(t, 8, mismatches[0].API)
}

func TestCheckHitDice_RequiresArguments(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)

	_, err := dnd5e.CheckHitDice(context.Background(), nil, rulebook.Standard())
	assert.Error(t, err)

	_, err = dnd5e.CheckHitDice(context.Background(), client, nil)
	assert.Error(t, err)
}

func TestLoadRules_AddsAPIRaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)
	base := rulebook.Standard()
	apiDice := standardHitDice(base)

	client.EXPECT().ListRaceKeys().Return([]string{"elf", "aarakocra"}, nil)
	client.EXPECT().GetRace("elf").Return(&rulebook.Race{Key: "elf", Name: "Elf", AbilityBonuses: []string{"DEX +2"}}, nil)
	client.EXPECT().GetRace("aarakocra").Return(&rulebook.Race{Key: "aarakocra", Name: "Aarakocra", AbilityBonuses: []string{"DEX +2", "WIS +1"}}, nil)
	client.EXPECT().GetClassHitDie(gomock.Any()).DoAndReturn(func(key string) (int, error) {
		return apiDice[key], nil
	}).Times(len(base.Classes()))

	rules, err := dnd5e.LoadRules(context.Background(), client, base)
	require.NoError(t, err)

	race, err := rules.Race("Aarakocra")
	require.NoError(t, err)
	assert.Equal(t, []string{"DEX +2", "WIS +1"}, race.AbilityBonuses)

	_, err = base.Race("aarakocra")
	assert.Error(t, err, "base catalog must not change")

	_, err = rules.Race("tiefling")
	assert.NoError(t, err, "bundled races stay available")
}

func TestLoadRules_RaceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)

	client.EXPECT().ListRaceKeys().Return(nil, errors.New("api down"))

	rules, err := dnd5e.LoadRules(context.Background(), client, nil)
	assert.Error(t, err)
	assert.Nil(t, rules)
}
