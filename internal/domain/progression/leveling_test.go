package progression_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	mockdice "github.com/KirkDiggler/dnd-progression/internal/dice/mock"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

type LevelingTestSuite struct {
	suite.Suite
	engine *progression.Engine
}

func (s *LevelingTestSuite) SetupTest() {
	s.engine = newFixedEngine()
}

func TestLevelingTestSuite(t *testing.T) {
	suite.Run(t, new(LevelingTestSuite))
}

func (s *LevelingTestSuite) levelTo(state *progression.State, class string, times int) *progression.State {
	for i := 0; i < times; i++ {
		out, err := s.engine.LevelUp(state, class)
		s.Require().NoError(err)
		state = out.State
	}
	return state
}

func (s *LevelingTestSuite) hasFeature(features []*progression.GrantedFeature, kind progression.FeatureKind, key string) bool {
	for _, f := range features {
		if f.Kind == kind && f.Key == key {
			return true
		}
	}
	return false
}

func (s *LevelingTestSuite) TestLevelUp_FixedHitPoints() {
	state := stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores())

	out, err := s.engine.LevelUp(state, "Fighter")
	s.Require().NoError(err)

	s.Equal(2, out.State.Level)
	s.Equal(2, out.ClassLevel)
	s.Equal(6, out.HitDieResult)
	s.Equal(8, out.HitPointsGained)
	s.Equal(20, out.State.MaxHitPoints)
	s.Equal([]int{10, 6}, out.State.HitDieResults)
	s.True(s.hasFeature(out.Features, progression.FeatureClass, "action-surge"))
	s.True(s.hasFeature(out.Features, progression.FeatureResource, "action-surge"))

	s.Equal(1, state.Level, "input state must not change")
}

func (s *LevelingTestSuite) TestLevelUp_RolledHitPoints() {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{7})
	engine := newRolledEngine(roller)
	state := stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores())

	out, err := engine.LevelUp(state, "fighter")
	s.Require().NoError(err)
	s.Equal(7, out.HitDieResult)
	s.Equal(21, out.State.MaxHitPoints)
	s.Zero(roller.Remaining())
}

func (s *LevelingTestSuite) TestLevelUp_RollerFailureChangesNothing() {
	engine := newRolledEngine(mockdice.NewManualMockRoller())
	state := stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores())
	before := state.Clone()

	_, err := engine.LevelUp(state, "fighter")
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
	s.Equal(before, state)
}

func (s *LevelingTestSuite) TestLevelUp_ASIPendingAtClassLevel() {
	state := stateAt(s.T(), rulebook.ClassFighter, 3, fighterScores())

	out, err := s.engine.LevelUp(state, "fighter")
	s.Require().NoError(err)
	s.Equal([]int{4}, out.State.PendingASILevels)
	s.True(s.hasFeature(out.Features, progression.FeatureASIChoice, "asi-4"))

	// fighters get an extra improvement at 6
	next := s.levelTo(out.State, "fighter", 2)
	s.Equal([]int{4, 6}, next.PendingASILevels)
}

func (s *LevelingTestSuite) TestLevelUp_SubclassChoice() {
	state := stateAt(s.T(), rulebook.ClassFighter, 2, fighterScores())

	out, err := s.engine.LevelUp(state, "fighter")
	s.Require().NoError(err)
	s.True(out.State.PendingSubclassSelection)
	s.True(s.hasFeature(out.Features, progression.FeatureSubclassChoice, "fighter-subclass"))
}

func (s *LevelingTestSuite) TestLevelUp_ProficiencyAndSlots() {
	state := stateAt(s.T(), rulebook.ClassWizard, 4, scoresWith(map[shared.Attribute]int{shared.AttributeIntelligence: 16}))

	out, err := s.engine.LevelUp(state, "wizard")
	s.Require().NoError(err)
	s.True(s.hasFeature(out.Features, progression.FeatureProficiencyBonus, "proficiency-bonus"))
	s.True(s.hasFeature(out.Features, progression.FeatureSpellSlots, "spell-slots"))
	s.Equal(map[int]int{1: 4, 2: 3, 3: 2}, out.SpellSlots)
}

func (s *LevelingTestSuite) TestLevelUp_Multiclass() {
	state := stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores())

	out, err := s.engine.LevelUp(state, "rogue")
	s.Require().NoError(err)
	s.Len(out.State.Classes, 2)
	s.Equal(rulebook.ClassRogue, out.State.Classes[1].Class)
	s.Equal(1, out.ClassLevel)
	s.Equal(7, out.HitPointsGained)
}

func (s *LevelingTestSuite) TestLevelUp_MulticlassPrerequisiteUnmet() {
	state := stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores())
	before := state.Clone()

	_, err := s.engine.LevelUp(state, "wizard")
	s.Require().Error(err)
	s.True(errors.IsRuleViolation(err))
	meta := errors.GetMeta(err)
	s.Equal("intelligence", meta["ability"])
	s.Equal(13, meta["required"])
	s.Equal(8, meta["actual"])
	s.Equal(before, state)
}

func (s *LevelingTestSuite) TestLevelUp_LevelCap() {
	state := stateAt(s.T(), rulebook.ClassFighter, 20, fighterScores())

	_, err := s.engine.LevelUp(state, "fighter")
	s.True(errors.IsRuleViolation(err))
}

func (s *LevelingTestSuite) TestLevelUp_ExperienceGate() {
	engine := progression.NewEngine(&progression.EngineConfig{
		Rules:             rulebook.Standard(),
		RequireExperience: true,
	})
	state := stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores())

	_, err := engine.LevelUp(state, "fighter")
	s.Require().Error(err)
	s.True(errors.IsRuleViolation(err))
	s.Equal(300, errors.GetMeta(err)["required"])

	state.Experience = 300
	out, err := engine.LevelUp(state, "fighter")
	s.Require().NoError(err)
	s.Equal(2, out.State.Level)
}

func (s *LevelingTestSuite) TestLevelUp_MalformedState() {
	state := stateAt(s.T(), rulebook.ClassFighter, 3, fighterScores())
	state.Level = 4

	_, err := s.engine.LevelUp(state, "fighter")
	s.True(errors.IsInvalidArgument(err))

	_, err = s.engine.LevelUp(nil, "fighter")
	s.True(errors.IsInvalidArgument(err))

	_, err = s.engine.LevelUp(stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores()), "artificer")
	s.True(errors.IsInvalidArgument(err))
}

func (s *LevelingTestSuite) pendingFighter(level int, scores shared.AbilityScores) *progression.State {
	state := stateAt(s.T(), rulebook.ClassFighter, level, scores)
	state.PendingASILevels = []int{level}
	return state
}

func (s *LevelingTestSuite) TestResolveASI_ClampsAtTwenty() {
	scores := fighterScores()
	scores.Strength = 19
	state := s.pendingFighter(4, scores)

	next, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{
		Increases: map[shared.Attribute]int{shared.AttributeStrength: 2},
	})
	s.Require().NoError(err)
	s.Equal(20, next.Abilities.Strength)
	s.Empty(next.PendingASILevels)

	next.Level, next.Classes[0].Level = 8, 8
	next.HitDieResults = append(next.HitDieResults, 6, 6, 6, 6)
	next.PendingASILevels = []int{8}

	again, err := s.engine.ResolveASI(next, 8, &progression.ASIChoice{
		Increases: map[shared.Attribute]int{shared.AttributeStrength: 1, shared.AttributeDexterity: 1},
	})
	s.Require().NoError(err)
	s.Equal(20, again.Abilities.Strength)
	s.Equal(14, again.Abilities.Dexterity)
}

func (s *LevelingTestSuite) TestResolveASI_LevelNeverReappears() {
	state := s.pendingFighter(4, fighterScores())

	next, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{
		Increases: map[shared.Attribute]int{shared.AttributeConstitution: 2},
	})
	s.Require().NoError(err)
	s.False(next.IsASIPending(4))
	s.Equal([]int{4}, state.PendingASILevels, "input state must not change")

	_, err = s.engine.ResolveASI(next, 4, &progression.ASIChoice{
		Increases: map[shared.Attribute]int{shared.AttributeConstitution: 2},
	})
	s.True(errors.IsRuleViolation(err))

	after := s.levelTo(next, "fighter", 1)
	s.False(after.IsASIPending(4))
	s.Empty(after.PendingASILevels)
}

func (s *LevelingTestSuite) TestResolveASI_ConstitutionIsRetroactive() {
	state := s.pendingFighter(4, fighterScores())
	s.Equal(36, state.MaxHitPoints)

	next, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{
		Increases: map[shared.Attribute]int{shared.AttributeConstitution: 2},
	})
	s.Require().NoError(err)
	s.Equal(40, next.MaxHitPoints)
}

func (s *LevelingTestSuite) TestResolveASI_InvalidChoices() {
	state := s.pendingFighter(4, fighterScores())

	testCases := []struct {
		name   string
		choice *progression.ASIChoice
	}{
		{name: "nil choice", choice: nil},
		{name: "empty choice", choice: &progression.ASIChoice{}},
		{name: "both increase and feat", choice: &progression.ASIChoice{
			Increases: map[shared.Attribute]int{shared.AttributeStrength: 2}, Feat: "alert",
		}},
		{name: "total three", choice: &progression.ASIChoice{
			Increases: map[shared.Attribute]int{shared.AttributeStrength: 2, shared.AttributeDexterity: 1},
		}},
		{name: "single plus one", choice: &progression.ASIChoice{
			Increases: map[shared.Attribute]int{shared.AttributeStrength: 1},
		}},
		{name: "unknown ability", choice: &progression.ASIChoice{
			Increases: map[shared.Attribute]int{"luck": 2},
		}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.engine.ResolveASI(state, 4, tc.choice)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
	s.Equal([]int{4}, state.PendingASILevels)
}

func (s *LevelingTestSuite) TestResolveASI_Feats() {
	state := s.pendingFighter(4, fighterScores())

	tough, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{Feat: "Tough"})
	s.Require().NoError(err)
	s.Equal([]string{"tough"}, tough.Feats)
	s.Equal(44, tough.MaxHitPoints)

	actor, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{Feat: "actor"})
	s.Require().NoError(err)
	s.Equal(11, actor.Abilities.Charisma)

	observant, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{
		Feat: "observant", FeatAbility: shared.AttributeWisdom,
	})
	s.Require().NoError(err)
	s.Equal(13, observant.Abilities.Wisdom)
}

func (s *LevelingTestSuite) TestResolveASI_FeatRejections() {
	state := s.pendingFighter(4, fighterScores())

	_, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{Feat: "inspiring-leader"})
	s.True(errors.IsRuleViolation(err))
	s.Equal("charisma", errors.GetMeta(err)["ability"])

	_, err = s.engine.ResolveASI(state, 4, &progression.ASIChoice{Feat: "war-caster"})
	s.True(errors.IsRuleViolation(err))

	_, err = s.engine.ResolveASI(state, 4, &progression.ASIChoice{Feat: "resilient"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.engine.ResolveASI(state, 4, &progression.ASIChoice{
		Feat: "observant", FeatAbility: shared.AttributeStrength,
	})
	s.True(errors.IsInvalidArgument(err))

	taken := state.Clone()
	taken.Feats = []string{"alert"}
	_, err = s.engine.ResolveASI(taken, 4, &progression.ASIChoice{Feat: "alert"})
	s.True(errors.IsRuleViolation(err))
}

func (s *LevelingTestSuite) TestResolveASI_SpellcastingFeat() {
	state := s.pendingFighter(4, fighterScores())
	state.Classes[0].Subclass = "eldritch-knight"

	next, err := s.engine.ResolveASI(state, 4, &progression.ASIChoice{Feat: "war-caster"})
	s.Require().NoError(err)
	s.True(next.HasFeat("war-caster"))
}

func (s *LevelingTestSuite) TestResolveSubclass() {
	state := stateAt(s.T(), rulebook.ClassFighter, 3, fighterScores())
	state.PendingSubclassSelection = true

	next, err := s.engine.ResolveSubclass(state, "Fighter", "Eldritch Knight")
	s.Require().NoError(err)
	s.Equal("eldritch-knight", next.Classes[0].Subclass)
	s.False(next.PendingSubclassSelection)
	s.Empty(state.Classes[0].Subclass)

	_, err = s.engine.ResolveSubclass(next, "fighter", "champion")
	s.True(errors.IsRuleViolation(err))
}

func (s *LevelingTestSuite) TestResolveSubclass_Rejections() {
	state := stateAt(s.T(), rulebook.ClassFighter, 3, fighterScores())
	state.PendingSubclassSelection = true

	_, err := s.engine.ResolveSubclass(state, "fighter", "samurai")
	s.Require().Error(err)
	s.True(errors.IsRuleViolation(err))
	s.Contains(err.Error(), "battle-master")

	_, err = s.engine.ResolveSubclass(state, "wizard", "evocation")
	s.True(errors.IsRuleViolation(err))

	early := stateAt(s.T(), rulebook.ClassFighter, 2, fighterScores())
	_, err = s.engine.ResolveSubclass(early, "fighter", "champion")
	s.True(errors.IsRuleViolation(err))

	_, err = s.engine.ResolveSubclass(state, "bogus", "champion")
	s.True(errors.IsInvalidArgument(err))
}

func (s *LevelingTestSuite) TestAwardExperience() {
	state := stateAt(s.T(), rulebook.ClassFighter, 1, fighterScores())

	out, err := s.engine.AwardExperience(state, 1000)
	s.Require().NoError(err)
	s.Equal(1000, out.State.Experience)
	s.Equal(2, out.LevelsAvailable)
	s.Equal(300, out.NextLevelAt)
	s.Zero(state.Experience)

	_, err = s.engine.AwardExperience(state, -5)
	s.True(errors.IsInvalidArgument(err))
}
