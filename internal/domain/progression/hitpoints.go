package progression

import "github.com/KirkDiggler/dnd-progression/internal/domain/shared"

// hitPointsForDie is one level's contribution: die result plus Constitution
// modifier, never less than 1
func hitPointsForDie(result, conMod int) int {
	hp := result + conMod
	if hp < 1 {
		return 1
	}
	return hp
}

// recomputeHitPoints derives MaxHitPoints from the recorded die results,
// the current Constitution modifier and per-level feat bonuses
func (e *Engine) recomputeHitPoints(state *State) {
	conMod := state.Abilities.Modifier(shared.AttributeConstitution)

	total := 0
	for _, result := range state.HitDieResults {
		total += hitPointsForDie(result, conMod)
	}
	total += e.featHitPointsPerLevel(state) * state.Level

	state.MaxHitPoints = total
}

func (e *Engine) featHitPointsPerLevel(state *State) int {
	perLevel := 0
	for _, key := range state.Feats {
		feat, err := e.rules.Feat(key)
		if err != nil {
			continue
		}
		perLevel += feat.HitPointsPerLevel
	}
	return perLevel
}
