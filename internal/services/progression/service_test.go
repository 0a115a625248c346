package progression_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	mockdnd5e "github.com/KirkDiggler/dnd-progression/internal/clients/dnd5e/mock"
	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
	mockcharacters "github.com/KirkDiggler/dnd-progression/internal/repositories/characters/mock"
	progressionService "github.com/KirkDiggler/dnd-progression/internal/services/progression"
	mockprogression "github.com/KirkDiggler/dnd-progression/internal/services/progression/mock"
	"github.com/KirkDiggler/dnd-progression/internal/testutils"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockRepo      *mockcharacters.MockRepository
	mockPublisher *mockprogression.MockEventPublisher
	mockDND       *mockdnd5e.MockClient
	engine        *progression.Engine
	svc           progressionService.Service
	ctx           context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = mockcharacters.NewMockRepository(s.ctrl)
	s.mockPublisher = mockprogression.NewMockEventPublisher(s.ctrl)
	s.mockDND = mockdnd5e.NewMockClient(s.ctrl)
	s.engine = progression.NewEngine(&progression.EngineConfig{Rules: rulebook.Standard()})
	s.svc = progressionService.NewService(&progressionService.ServiceConfig{
		Engine:     s.engine,
		Repository: s.mockRepo,
		Publisher:  s.mockPublisher,
		DNDClient:  s.mockDND,
	})
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func standardArray() map[string]int {
	return map[string]int{"str": 15, "dex": 13, "con": 14, "int": 8, "wis": 12, "cha": 10}
}

func (s *ServiceTestSuite) expectStored(record *character.Record) {
	s.mockRepo.EXPECT().Get(s.ctx, record.ID).Return(record, nil)
}

func (s *ServiceTestSuite) expectUpdate() *gomock.Call {
	return s.mockRepo.EXPECT().Update(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, record *character.Record) error {
			record.Version++
			return nil
		})
}

func (s *ServiceTestSuite) expectEvent(eventType string) {
	s.mockPublisher.EXPECT().Publish(s.ctx, eventType, gomock.Any(), gomock.Any()).Return(nil)
}

func (s *ServiceTestSuite) TestNewService_PanicsWithoutDependencies() {
	s.Panics(func() { progressionService.NewService(nil) })
	s.Panics(func() {
		progressionService.NewService(&progressionService.ServiceConfig{Repository: s.mockRepo})
	})
	s.Panics(func() {
		progressionService.NewService(&progressionService.ServiceConfig{Engine: s.engine})
	})
}

func (s *ServiceTestSuite) TestCreateCharacter_AppliesRacialBonuses() {
	s.mockRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, record *character.Record) error {
			record.ID = "char-1"
			record.Version = 1
			return nil
		})
	s.mockPublisher.EXPECT().Publish(s.ctx, rpgtoolkit.EventCharacterCreated, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, record *character.Record, data map[string]any) error {
			s.Equal("char-1", record.ID)
			s.Equal("fighter", data[rpgtoolkit.ContextClass])
			s.Equal(1, data[rpgtoolkit.ContextLevel])
			return nil
		})

	out, err := s.svc.CreateCharacter(s.ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Name:    " Thorin ",
		Race:    "Hill Dwarf",
		Class:   "Fighter",
		Method:  progression.MethodStandardArray,
		Scores:  standardArray(),
	})
	s.Require().NoError(err)

	record := out.Record
	s.Equal("Thorin", record.Name)
	s.Equal("hill-dwarf", record.Race)
	s.Equal(14, record.BaseAbilities.Constitution)
	s.Equal(16, record.State.Abilities.Constitution)
	s.Equal(13, record.State.Abilities.Wisdom)
	s.Len(record.RacialBonuses, 2)

	// d10 max plus CON 16
	s.Equal(13, record.State.MaxHitPoints)
	s.Equal(13, record.Resources.HitPoints.Current)
	s.Equal(map[int]int{10: 1}, record.Resources.HitDice.Remaining)
	s.Contains(record.Resources.Resources, "second-wind")
	s.Empty(out.SkippedBonuses)
}

func (s *ServiceTestSuite) TestCreateCharacter_MissingFields() {
	_, err := s.svc.CreateCharacter(s.ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Method:  progression.MethodStandardArray,
		Scores:  standardArray(),
	})

	s.Require().Error(err)
	s.True(dnderr.IsInvalidArgument(err))
	s.Equal([]string{"class", "name", "race"}, dnderr.GetMeta(err)["fields"])
}

func (s *ServiceTestSuite) TestCreateCharacter_NilInput() {
	_, err := s.svc.CreateCharacter(s.ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestCreateCharacter_PointBuyOverBudget() {
	_, err := s.svc.CreateCharacter(s.ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Name:    "Greedy",
		Race:    "human",
		Class:   "wizard",
		Method:  progression.MethodPointBuy,
		Scores:  map[string]int{"str": 15, "dex": 15, "con": 15, "int": 15, "wis": 8, "cha": 8},
	})

	s.Require().Error(err)
	s.True(dnderr.IsRuleViolation(err))
}

func (s *ServiceTestSuite) TestCreateCharacter_RaceFromAPI() {
	s.mockDND.EXPECT().GetRace("star-elf").Return(&rulebook.Race{
		Key:            "star-elf",
		Name:           "Star Elf",
		AbilityBonuses: []string{"DEX +2", "luck +1"},
	}, nil)
	s.mockRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)
	s.expectEvent(rpgtoolkit.EventCharacterCreated)

	out, err := s.svc.CreateCharacter(s.ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Name:    "Nym",
		Race:    "Star Elf",
		Class:   "rogue",
		Method:  progression.MethodStandardArray,
		Scores:  standardArray(),
	})
	s.Require().NoError(err)

	s.Equal("star-elf", out.Record.Race)
	s.Equal(15, out.Record.State.Abilities.Dexterity)
	s.Equal([]string{"luck +1"}, out.SkippedBonuses)
}

func (s *ServiceTestSuite) TestCreateCharacter_UnknownRaceKeepsCatalogError() {
	s.mockDND.EXPECT().GetRace("moon-troll").Return(nil, errors.New("404"))

	_, err := s.svc.CreateCharacter(s.ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Name:    "Grub",
		Race:    "moon troll",
		Class:   "barbarian",
		Method:  progression.MethodStandardArray,
		Scores:  standardArray(),
	})

	s.Require().Error(err)
	s.True(dnderr.IsInvalidArgument(err))
	s.Equal("moon troll", dnderr.GetMeta(err)["race"])
}

func (s *ServiceTestSuite) TestCreateCharacter_RepositoryError() {
	s.mockRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(dnderr.Internal("redis down"))

	_, err := s.svc.CreateCharacter(s.ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Name:    "Thorin",
		Race:    "dwarf",
		Class:   "fighter",
		Method:  progression.MethodStandardArray,
		Scores:  standardArray(),
	})

	s.Require().Error(err)
	s.True(dnderr.IsInternal(err))
}

func (s *ServiceTestSuite) TestLevelUp_PersistsStateAndPool() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	record.Version = 3
	s.expectStored(record)
	s.expectUpdate()
	s.mockPublisher.EXPECT().Publish(s.ctx, rpgtoolkit.EventLevelUp, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ *character.Record, data map[string]any) error {
			s.Equal("fighter", data[rpgtoolkit.ContextClass])
			s.Equal(2, data[rpgtoolkit.ContextClassLevel])
			s.Equal(8, data[rpgtoolkit.ContextHitPointsGained])
			s.Equal(2, data[rpgtoolkit.ContextLevel])
			return nil
		})

	out, err := s.svc.LevelUp(s.ctx, &progressionService.LevelUpInput{CharacterID: "char-1", Class: "fighter"})
	s.Require().NoError(err)

	s.Equal(int64(4), out.Record.Version)
	s.Equal(2, out.Record.State.Level)
	s.Equal(20, out.Record.State.MaxHitPoints)
	s.Equal(shared.HPResource{Current: 20, Max: 20}, out.Record.Resources.HitPoints)
	s.Equal(map[int]int{10: 2}, out.Record.Resources.HitDice.Remaining)
	s.Require().Contains(out.Record.Resources.Resources, "action-surge")
	s.Equal(1, out.Record.Resources.Resources["action-surge"].Current)
	s.Equal(rulebook.ClassFighter, out.Result.Class)
}

func (s *ServiceTestSuite) TestLevelUp_RuleViolationSkipsWrite() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	record.State.Abilities.Intelligence = 8
	s.expectStored(record)

	_, err := s.svc.LevelUp(s.ctx, &progressionService.LevelUpInput{CharacterID: "char-1", Class: "wizard"})

	s.Require().Error(err)
	s.True(dnderr.IsRuleViolation(err))
}

func (s *ServiceTestSuite) TestLevelUp_NotFound() {
	s.mockRepo.EXPECT().Get(s.ctx, "missing").Return(nil, dnderr.NotFound("character not found"))

	_, err := s.svc.LevelUp(s.ctx, &progressionService.LevelUpInput{CharacterID: "missing", Class: "fighter"})

	s.True(dnderr.IsNotFound(err))
}

func (s *ServiceTestSuite) TestLevelUp_ConcurrentWriteAborted() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)
	s.mockRepo.EXPECT().Update(s.ctx, gomock.Any()).Return(dnderr.Abortedf("character char-1 was modified concurrently"))

	_, err := s.svc.LevelUp(s.ctx, &progressionService.LevelUpInput{CharacterID: "char-1", Class: "fighter"})

	s.True(dnderr.IsAborted(err))
}

func (s *ServiceTestSuite) TestLevelUp_PublishFailureDoesNotFail() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)
	s.expectUpdate()
	s.mockPublisher.EXPECT().Publish(s.ctx, rpgtoolkit.EventLevelUp, gomock.Any(), gomock.Any()).
		Return(errors.New("listener failed"))

	out, err := s.svc.LevelUp(s.ctx, &progressionService.LevelUpInput{CharacterID: "char-1", Class: "fighter"})

	s.Require().NoError(err)
	s.Equal(2, out.Record.Level())
}

func (s *ServiceTestSuite) TestLevelUp_EmptyID() {
	_, err := s.svc.LevelUp(s.ctx, &progressionService.LevelUpInput{Class: "fighter"})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestResolveASI_ConstitutionRaisesHitPoints() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	record.State.PendingASILevels = []int{4}
	record.State.Level = 4
	record.State.Classes[0].Level = 4
	record.State.HitDieResults = []int{10, 6, 6, 6}
	record.State.MaxHitPoints = 36
	record.State.Abilities.Constitution = 15
	record.Resources.HitPoints = shared.HPResource{Current: 30, Max: 36}
	record.Resources.HitDice = progression.HitDicePool{Max: map[int]int{10: 4}, Remaining: map[int]int{10: 4}}

	s.expectStored(record)
	s.expectUpdate()
	s.expectEvent(rpgtoolkit.EventASIResolved)

	out, err := s.svc.ResolveASI(s.ctx, &progressionService.ResolveASIInput{
		CharacterID: "char-1",
		Level:       4,
		Choice: &progression.ASIChoice{
			Increases: map[shared.Attribute]int{shared.AttributeConstitution: 1, shared.AttributeStrength: 1},
		},
	})
	s.Require().NoError(err)

	s.Equal(16, out.State.Abilities.Constitution)
	s.Empty(out.State.PendingASILevels)
	s.Equal(40, out.State.MaxHitPoints)
	s.Equal(34, out.Resources.HitPoints.Current)
	s.Equal(40, out.Resources.HitPoints.Max)
}

func (s *ServiceTestSuite) TestResolveASI_NotPending() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)

	_, err := s.svc.ResolveASI(s.ctx, &progressionService.ResolveASIInput{
		CharacterID: "char-1",
		Level:       4,
		Choice:      &progression.ASIChoice{Feat: "alert"},
	})

	s.True(dnderr.IsRuleViolation(err))
}

func (s *ServiceTestSuite) TestResolveSubclass() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	record.State.Level = 3
	record.State.Classes[0].Level = 3
	record.State.HitDieResults = []int{10, 6, 6}
	record.State.MaxHitPoints = 28
	record.State.PendingSubclassSelection = true
	record.Resources.HitPoints = shared.HPResource{Current: 28, Max: 28}
	record.Resources.HitDice = progression.HitDicePool{Max: map[int]int{10: 3}, Remaining: map[int]int{10: 3}}

	s.expectStored(record)
	s.expectUpdate()
	s.mockPublisher.EXPECT().Publish(s.ctx, rpgtoolkit.EventSubclassSelected, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ *character.Record, data map[string]any) error {
			s.Equal("Eldritch Knight", data[rpgtoolkit.ContextSubclass])
			return nil
		})

	out, err := s.svc.ResolveSubclass(s.ctx, &progressionService.ResolveSubclassInput{
		CharacterID: "char-1",
		Class:       "fighter",
		Subclass:    "Eldritch Knight",
	})
	s.Require().NoError(err)

	s.False(out.State.PendingSubclassSelection)
	// fighter 3 as a third caster has caster level 1
	s.Equal(map[int]int{1: 2}, out.Resources.SpellSlots.Max)
}

func (s *ServiceTestSuite) TestAwardExperience() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)
	s.expectUpdate()
	s.expectEvent(rpgtoolkit.EventExperienceAwarded)

	out, err := s.svc.AwardExperience(s.ctx, &progressionService.AwardExperienceInput{CharacterID: "char-1", Amount: 1000})
	s.Require().NoError(err)

	s.Equal(1000, out.Record.State.Experience)
	s.Equal(2, out.LevelsAvailable)
	s.Equal(300, out.NextLevelAt)
}

func (s *ServiceTestSuite) TestAwardExperience_Negative() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)

	_, err := s.svc.AwardExperience(s.ctx, &progressionService.AwardExperienceInput{CharacterID: "char-1", Amount: -5})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestExpendResource_EmptyPoolRejected() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	record.Resources.Resources["second-wind"].Current = 0
	s.expectStored(record)

	_, err := s.svc.ExpendResource(s.ctx, &progressionService.ExpendResourceInput{
		CharacterID: "char-1",
		Resource:    "Second Wind",
		Amount:      1,
	})

	s.True(dnderr.IsRuleViolation(err))
}

func (s *ServiceTestSuite) TestExpendResource() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)
	s.expectUpdate()
	s.expectEvent(rpgtoolkit.EventResourceExpended)

	out, err := s.svc.ExpendResource(s.ctx, &progressionService.ExpendResourceInput{
		CharacterID: "char-1",
		Resource:    "second-wind",
		Amount:      1,
	})
	s.Require().NoError(err)
	s.Equal(0, out.Resources.Resources["second-wind"].Current)
}

func (s *ServiceTestSuite) TestExpendSpellSlot_NoSlots() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)

	_, err := s.svc.ExpendSpellSlot(s.ctx, &progressionService.ExpendSpellSlotInput{CharacterID: "char-1", SpellLevel: 1})
	s.True(dnderr.IsRuleViolation(err))
}

func (s *ServiceTestSuite) TestTakeDamageThenShortRest() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)
	s.expectUpdate()
	s.expectEvent(rpgtoolkit.EventTakeDamage)

	damaged, err := s.svc.TakeDamage(s.ctx, &progressionService.TakeDamageInput{CharacterID: "char-1", Amount: 10})
	s.Require().NoError(err)
	s.Equal(2, damaged.Resources.HitPoints.Current)

	s.expectStored(damaged)
	s.expectUpdate()
	s.expectEvent(rpgtoolkit.EventShortRest)

	out, err := s.svc.ShortRest(s.ctx, &progressionService.ShortRestInput{
		CharacterID: "char-1",
		HitDice:     map[int]int{10: 1},
	})
	s.Require().NoError(err)

	// fixed d10 is 6, plus CON 14
	s.Equal([]int{6}, out.HitDieResults)
	s.Equal(8, out.HitPointsRestored)
	s.Equal(10, out.Record.Resources.HitPoints.Current)
	s.Equal(0, out.Record.Resources.HitDice.Remaining[10])
}

func (s *ServiceTestSuite) TestShortRest_NotEnoughHitDice() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)

	_, err := s.svc.ShortRest(s.ctx, &progressionService.ShortRestInput{
		CharacterID: "char-1",
		HitDice:     map[int]int{10: 2},
	})

	s.True(dnderr.IsRuleViolation(err))
}

func (s *ServiceTestSuite) TestLongRest() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	record.Resources.HitPoints.Current = 1
	record.Resources.HitDice.Remaining[10] = 0
	record.Resources.Resources["second-wind"].Current = 0
	s.expectStored(record)
	s.expectUpdate()
	s.expectEvent(rpgtoolkit.EventLongRest)

	out, err := s.svc.LongRest(s.ctx, "char-1")
	s.Require().NoError(err)

	s.Equal(12, out.Resources.HitPoints.Current)
	s.Equal(1, out.Resources.HitDice.Remaining[10])
	s.Equal(1, out.Resources.Resources["second-wind"].Current)
}

func (s *ServiceTestSuite) TestSpellSlots() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	record.Resources.SpellSlots = progression.SlotPool{
		Max:      map[int]int{1: 2},
		Expended: map[int]int{1: 1},
	}
	s.expectStored(record)

	out, err := s.svc.SpellSlots(s.ctx, "char-1")
	s.Require().NoError(err)

	s.Equal(1, out.Summary.TotalLevel)
	s.Equal(map[int]int{1: 2}, out.Max)
	s.Equal(map[int]int{1: 1}, out.Remaining)
}

func (s *ServiceTestSuite) TestDeleteCharacter() {
	record := testutils.CreateTestRecord("char-1", "owner-1", "Brienne")
	s.expectStored(record)
	s.mockRepo.EXPECT().Delete(s.ctx, "char-1").Return(nil)
	s.expectEvent(rpgtoolkit.EventCharacterDeleted)

	s.NoError(s.svc.DeleteCharacter(s.ctx, "char-1"))
}

func (s *ServiceTestSuite) TestListCharacters() {
	records := []*character.Record{testutils.CreateTestRecord("char-1", "owner-1", "Brienne")}
	s.mockRepo.EXPECT().GetByOwner(s.ctx, "owner-1").Return(records, nil)

	out, err := s.svc.ListCharacters(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Len(out, 1)

	_, err = s.svc.ListCharacters(s.ctx, "")
	s.True(dnderr.IsInvalidArgument(err))
}
