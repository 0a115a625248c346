package progression_test

import (
	"context"
	"sync"
	"testing"

	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
	"github.com/KirkDiggler/dnd-progression/internal/repositories/characters"
	progressionService "github.com/KirkDiggler/dnd-progression/internal/services/progression"
	"github.com/KirkDiggler/dnd-progression/internal/testutils"
	"github.com/KirkDiggler/dnd-progression/internal/uuid"
)

func newRedisService(t *testing.T) (progressionService.Service, *rpgtoolkit.Publisher) {
	t.Helper()

	client, _ := testutils.NewMiniRedisClient(t)
	repo := characters.NewRedisRepository(&characters.RedisRepoConfig{
		Client:        client,
		UUIDGenerator: uuid.NewSequenceGenerator("char"),
	})
	publisher := rpgtoolkit.NewPublisher(nil)

	svc := progressionService.NewService(&progressionService.ServiceConfig{
		Engine:     progression.NewEngine(&progression.EngineConfig{Rules: rulebook.Standard()}),
		Repository: repo,
		Publisher:  publisher,
	})
	return svc, publisher
}

func TestService_FighterToFiveOnRedis(t *testing.T) {
	ctx := context.Background()
	svc, publisher := newRedisService(t)

	var (
		mu     sync.Mutex
		events []string
	)
	record := func(ctx context.Context, event rpgevents.Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event.Type())
		return nil
	}
	for _, eventType := range []string{
		rpgtoolkit.EventCharacterCreated,
		rpgtoolkit.EventLevelUp,
		rpgtoolkit.EventASIResolved,
		rpgtoolkit.EventSubclassSelected,
		rpgtoolkit.EventShortRest,
		rpgtoolkit.EventLongRest,
	} {
		publisher.Subscribe(eventType, 100, record)
	}

	created, err := svc.CreateCharacter(ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Name:    "Brienne",
		Race:    "human",
		Class:   "fighter",
		Method:  progression.MethodStandardArray,
		Scores:  map[string]int{"str": 15, "dex": 13, "con": 14, "int": 8, "wis": 12, "cha": 10},
	})
	require.NoError(t, err)
	id := created.Record.ID
	assert.Equal(t, "char-1", id)
	assert.Equal(t, int64(1), created.Record.Version)

	for i := 0; i < 4; i++ {
		_, err := svc.LevelUp(ctx, &progressionService.LevelUpInput{CharacterID: id, Class: "fighter"})
		require.NoError(t, err)
		if i == 1 {
			_, err = svc.ResolveSubclass(ctx, &progressionService.ResolveSubclassInput{
				CharacterID: id, Class: "fighter", Subclass: "champion",
			})
			require.NoError(t, err)
		}
	}

	_, err = svc.ResolveASI(ctx, &progressionService.ResolveASIInput{
		CharacterID: id,
		Level:       4,
		Choice:      &progression.ASIChoice{Increases: map[shared.Attribute]int{shared.AttributeStrength: 2}},
	})
	require.NoError(t, err)

	stored, err := svc.GetCharacter(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Level())
	assert.Equal(t, int64(7), stored.Version)
	assert.Empty(t, stored.State.PendingASILevels)
	assert.False(t, stored.State.PendingSubclassSelection)
	assert.Equal(t, "champion", stored.State.Classes[0].Subclass)
	assert.Equal(t, stored.State.MaxHitPoints, stored.Resources.HitPoints.Max)
	assert.Equal(t, map[int]int{10: 5}, stored.Resources.HitDice.Max)

	_, err = svc.TakeDamage(ctx, &progressionService.TakeDamageInput{CharacterID: id, Amount: 20})
	require.NoError(t, err)
	_, err = svc.ShortRest(ctx, &progressionService.ShortRestInput{CharacterID: id, HitDice: map[int]int{10: 2}})
	require.NoError(t, err)
	rested, err := svc.LongRest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rested.Resources.HitPoints.Max, rested.Resources.HitPoints.Current)
	assert.Equal(t, 5, rested.Resources.HitDice.Remaining[10])

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		rpgtoolkit.EventCharacterCreated,
		rpgtoolkit.EventLevelUp,
		rpgtoolkit.EventLevelUp,
		rpgtoolkit.EventSubclassSelected,
		rpgtoolkit.EventLevelUp,
		rpgtoolkit.EventLevelUp,
		rpgtoolkit.EventASIResolved,
		rpgtoolkit.EventShortRest,
		rpgtoolkit.EventLongRest,
	}, events)
}

func TestService_RejectedTransitionLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRedisService(t)

	created, err := svc.CreateCharacter(ctx, &progressionService.CreateCharacterInput{
		OwnerID: "owner-1",
		Name:    "Merry",
		Race:    "halfling",
		Class:   "rogue",
		Method:  progression.MethodStandardArray,
		Scores:  map[string]int{"str": 8, "dex": 15, "con": 14, "int": 12, "wis": 13, "cha": 10},
	})
	require.NoError(t, err)

	_, err = svc.LevelUp(ctx, &progressionService.LevelUpInput{CharacterID: created.Record.ID, Class: "paladin"})
	require.Error(t, err)
	assert.True(t, dnderr.IsRuleViolation(err))

	stored, err := svc.GetCharacter(ctx, created.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, 1, stored.Level())
}
