package progression

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
)

// LevelUp gains one level in a class and grows the resource pool to match
func (s *service) LevelUp(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	var result *progression.LevelUpOutput
	record, err := s.mutate(ctx, "LevelUp", input.CharacterID, func(record *character.Record) error {
		out, err := s.engine.LevelUp(record.State, input.Class)
		if err != nil {
			return err
		}

		pool, err := s.engine.SyncResourcePool(record.Resources, out.State)
		if err != nil {
			return err
		}

		result = out
		record.State = out.State
		record.Resources = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PROGRESSION] %s reached level %d (%s %d, +%d HP, %d features)",
		record.ID, record.State.Level, result.Class, result.ClassLevel, result.HitPointsGained, len(result.Features))
	s.publish(ctx, rpgtoolkit.EventLevelUp, record, map[string]any{
		rpgtoolkit.ContextClass:           string(result.Class),
		rpgtoolkit.ContextClassLevel:      result.ClassLevel,
		rpgtoolkit.ContextHitPointsGained: result.HitPointsGained,
		rpgtoolkit.ContextFeatures:        featureKeys(result.Features),
	})

	return &LevelUpOutput{Record: record, Result: result}, nil
}

func featureKeys(features []*progression.GrantedFeature) []string {
	keys := make([]string, 0, len(features))
	for _, f := range features {
		keys = append(keys, f.Key)
	}
	return keys
}

// ResolveASI spends a pending ability score improvement on increases or a feat
func (s *service) ResolveASI(ctx context.Context, input *ResolveASIInput) (*character.Record, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	record, err := s.mutate(ctx, "ResolveASI", input.CharacterID, func(record *character.Record) error {
		state, err := s.engine.ResolveASI(record.State, input.Level, input.Choice)
		if err != nil {
			return err
		}

		// Constitution or Tough can change max HP
		pool, err := s.engine.SyncResourcePool(record.Resources, state)
		if err != nil {
			return err
		}

		record.State = state
		record.Resources = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	data := map[string]any{rpgtoolkit.ContextASILevel: input.Level}
	if input.Choice != nil && input.Choice.Feat != "" {
		data[rpgtoolkit.ContextFeat] = input.Choice.Feat
	}

	log.Printf("[PROGRESSION] %s resolved ASI at level %d, abilities %s", record.ID, input.Level, record.State.Abilities)
	s.publish(ctx, rpgtoolkit.EventASIResolved, record, data)

	return record, nil
}

// ResolveSubclass records a subclass choice for a class that unlocked one
func (s *service) ResolveSubclass(ctx context.Context, input *ResolveSubclassInput) (*character.Record, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	record, err := s.mutate(ctx, "ResolveSubclass", input.CharacterID, func(record *character.Record) error {
		state, err := s.engine.ResolveSubclass(record.State, input.Class, input.Subclass)
		if err != nil {
			return err
		}

		// Third casters gain slots with their subclass
		pool, err := s.engine.SyncResourcePool(record.Resources, state)
		if err != nil {
			return err
		}

		record.State = state
		record.Resources = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PROGRESSION] %s chose %s for %s", record.ID, input.Subclass, input.Class)
	s.publish(ctx, rpgtoolkit.EventSubclassSelected, record, map[string]any{
		rpgtoolkit.ContextClass:    input.Class,
		rpgtoolkit.ContextSubclass: input.Subclass,
	})

	return record, nil
}

// AwardExperience adds XP and reports how many levels it unlocks
func (s *service) AwardExperience(ctx context.Context, input *AwardExperienceInput) (*AwardExperienceOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	var result *progression.ExperienceOutput
	record, err := s.mutate(ctx, "AwardExperience", input.CharacterID, func(record *character.Record) error {
		out, err := s.engine.AwardExperience(record.State, input.Amount)
		if err != nil {
			return err
		}

		result = out
		record.State = out.State
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PROGRESSION] %s gained %d XP (total %d, %d levels available)",
		record.ID, input.Amount, record.State.Experience, result.LevelsAvailable)
	s.publish(ctx, rpgtoolkit.EventExperienceAwarded, record, map[string]any{
		rpgtoolkit.ContextExperience:      record.State.Experience,
		rpgtoolkit.ContextAmount:          input.Amount,
		rpgtoolkit.ContextLevelsAvailable: result.LevelsAvailable,
	})

	return &AwardExperienceOutput{
		Record:          record,
		LevelsAvailable: result.LevelsAvailable,
		NextLevelAt:     result.NextLevelAt,
	}, nil
}
