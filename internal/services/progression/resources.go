package progression

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
)

// ExpendSpellSlot spends one standard or pact slot
func (s *service) ExpendSpellSlot(ctx context.Context, input *ExpendSpellSlotInput) (*character.Record, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	record, err := s.mutate(ctx, "ExpendSpellSlot", input.CharacterID, func(record *character.Record) error {
		pool, err := progression.ExpendSpellSlot(record.Resources, input.SpellLevel, input.Pact)
		if err != nil {
			return err
		}
		record.Resources = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rpgtoolkit.EventSpellSlotExpended, record, map[string]any{
		rpgtoolkit.ContextSpellLevel: input.SpellLevel,
		rpgtoolkit.ContextPact:       input.Pact,
	})
	return record, nil
}

// ExpendResource spends from a class resource such as rage or ki
func (s *service) ExpendResource(ctx context.Context, input *ExpendResourceInput) (*character.Record, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	record, err := s.mutate(ctx, "ExpendResource", input.CharacterID, func(record *character.Record) error {
		pool, err := progression.ExpendResource(record.Resources, input.Resource, input.Amount)
		if err != nil {
			return err
		}
		record.Resources = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rpgtoolkit.EventResourceExpended, record, map[string]any{
		rpgtoolkit.ContextResource: input.Resource,
		rpgtoolkit.ContextAmount:   input.Amount,
	})
	return record, nil
}

// TakeDamage reduces current hit points
func (s *service) TakeDamage(ctx context.Context, input *TakeDamageInput) (*character.Record, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	record, err := s.mutate(ctx, "TakeDamage", input.CharacterID, func(record *character.Record) error {
		pool, err := progression.TakeDamage(record.Resources, input.Amount)
		if err != nil {
			return err
		}
		record.Resources = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rpgtoolkit.EventTakeDamage, record, map[string]any{
		rpgtoolkit.ContextDamage:    input.Amount,
		rpgtoolkit.ContextHitPoints: record.Resources.HitPoints.Current,
	})
	return record, nil
}

// ShortRest spends hit dice for healing and restores short rest resources
func (s *service) ShortRest(ctx context.Context, input *ShortRestInput) (*ShortRestOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	var result *progression.ShortRestOutput
	record, err := s.mutate(ctx, "ShortRest", input.CharacterID, func(record *character.Record) error {
		out, err := s.engine.ShortRest(record.Resources, &progression.ShortRestInput{
			State:   record.State,
			HitDice: input.HitDice,
		})
		if err != nil {
			return err
		}

		result = out
		record.Resources = out.Pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PROGRESSION] %s took a short rest, healed %d", record.ID, result.HitPointsRestored)
	s.publish(ctx, rpgtoolkit.EventShortRest, record, map[string]any{
		rpgtoolkit.ContextHealed:    result.HitPointsRestored,
		rpgtoolkit.ContextHitPoints: record.Resources.HitPoints.Current,
	})

	return &ShortRestOutput{
		Record:            record,
		HitDieResults:     result.HitDieResults,
		HitPointsRestored: result.HitPointsRestored,
	}, nil
}

// LongRest restores every resource
func (s *service) LongRest(ctx context.Context, characterID string) (*character.Record, error) {
	record, err := s.mutate(ctx, "LongRest", characterID, func(record *character.Record) error {
		record.Resources = progression.LongRest(record.Resources)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PROGRESSION] %s took a long rest", record.ID)
	s.publish(ctx, rpgtoolkit.EventLongRest, record, map[string]any{
		rpgtoolkit.ContextHitPoints: record.Resources.HitPoints.Current,
	})
	return record, nil
}

// SpellSlots reports slot maxima and what is left without changing anything
func (s *service) SpellSlots(ctx context.Context, characterID string) (*SpellSlotsOutput, error) {
	record, err := s.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if record.State == nil || record.Resources == nil {
		return nil, dnderr.Internalf("character %s has no progression state", characterID)
	}

	summary, err := s.engine.ComputeProgression(record.State.Classes)
	if err != nil {
		return nil, err
	}

	return &SpellSlotsOutput{
		Summary:   summary,
		Max:       copySlots(record.Resources.SpellSlots.Max),
		Remaining: record.Resources.SpellSlots.RemainingAll(),
		Pact:      record.Resources.PactSlots,
	}, nil
}

func copySlots(in map[int]int) map[int]int {
	out := make(map[int]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
