package progression

import (
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// ShortRestInput describes a short rest
type ShortRestInput struct {
	// State supplies the Constitution modifier for hit dice healing
	State *State
	// HitDice maps die size to how many of that size to spend
	HitDice map[int]int
}

// ShortRestOutput is the pool after a short rest plus what happened
type ShortRestOutput struct {
	Pool              *ResourcePool `json:"pool"`
	HitDiceSpent      map[int]int   `json:"hit_dice_spent,omitempty"`
	HitDieResults     []int         `json:"hit_die_results,omitempty"`
	HitPointsRestored int           `json:"hit_points_restored"`
}

// ShortRest refills pact slots and short rest resources and converts spent
// hit dice into healing. Standard spell slots are left exactly as they were.
func (e *Engine) ShortRest(pool *ResourcePool, input *ShortRestInput) (*ShortRestOutput, error) {
	if pool == nil {
		return nil, errors.InvalidArgument("resource pool is required")
	}
	if input == nil {
		input = &ShortRestInput{}
	}

	conMod := 0
	if input.State != nil {
		conMod = input.State.Abilities.Modifier(shared.AttributeConstitution)
	} else if spendsDice(input.HitDice) {
		return nil, errors.InvalidArgument("state is required to spend hit dice")
	}

	for size, count := range input.HitDice {
		if count < 0 {
			return nil, errors.InvalidArgumentf("cannot spend %d d%d hit dice", count, size)
		}
		if count == 0 {
			continue
		}
		if pool.HitDice.Max[size] == 0 {
			return nil, errors.RuleViolationf("character has no d%d hit dice", size).
				WithMeta("die", size)
		}
		if remaining := pool.HitDice.Remaining[size]; remaining < count {
			return nil, errors.RuleViolationf("only %d d%d hit dice remaining, cannot spend %d", remaining, size, count).
				WithMeta("die", size).
				WithMeta("required", count).
				WithMeta("actual", remaining)
		}
	}

	// roll before touching anything so a roller failure leaves no trace
	var results []int
	healing := 0
	spent := map[int]int{}
	for _, size := range pool.HitDice.Sizes() {
		count := input.HitDice[size]
		for i := 0; i < count; i++ {
			value, err := e.hitDieValue(size)
			if err != nil {
				return nil, err
			}
			results = append(results, value)
			if heal := value + conMod; heal > 0 {
				healing += heal
			}
		}
		if count > 0 {
			spent[size] = count
		}
	}

	next := pool.Clone()
	for size, count := range spent {
		next.HitDice.Remaining[size] -= count
	}
	restored := next.HitPoints.Heal(healing)

	next.PactSlots.Expended = 0
	for _, res := range next.Resources {
		if res.Recovery == rulebook.RestShort {
			res.Current = res.Max
		}
	}

	return &ShortRestOutput{
		Pool:              next,
		HitDiceSpent:      spent,
		HitDieResults:     results,
		HitPointsRestored: restored,
	}, nil
}

func spendsDice(hitDice map[int]int) bool {
	for _, count := range hitDice {
		if count != 0 {
			return true
		}
	}
	return false
}

// LongRest restores hit points, every hit die, both slot pools and all
// class resources. Applying it twice is the same as applying it once.
func LongRest(pool *ResourcePool) *ResourcePool {
	if pool == nil {
		return nil
	}

	next := pool.Clone()
	next.HitPoints.Restore()
	next.SpellSlots.Expended = map[int]int{}
	next.PactSlots.Expended = 0
	next.HitDice.Remaining = copyIntMap(next.HitDice.Max)
	for _, res := range next.Resources {
		res.Current = res.Max
	}
	return next
}
