package dice

import (
	"fmt"

	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"
)

// randomRoller implements Roller on top of the rpg-toolkit dice roller
type randomRoller struct {
	source toolkitdice.Roller
}

// NewRandomRoller creates a roller backed by the toolkit's crypto random source
func NewRandomRoller() Roller {
	return newRollerFrom(toolkitdice.DefaultRoller)
}

// newRollerFrom wraps any toolkit roller
func newRollerFrom(source toolkitdice.Roller) Roller {
	return &randomRoller{source: source}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid dice count %d", count)
	}
	if sides < 1 {
		return nil, fmt.Errorf("invalid dice size %d", sides)
	}

	rolls, err := r.source.RollN(count, sides)
	if err != nil {
		return nil, fmt.Errorf("rolling %dd%d: %w", count, sides, err)
	}

	raw := 0
	for _, v := range rolls {
		raw += v
	}

	return &RollResult{
		Total:    raw + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: raw,
	}, nil
}
