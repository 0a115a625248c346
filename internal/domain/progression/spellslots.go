package progression

import "github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"

// PactMagic is the warlock's separate slot pool
type PactMagic = rulebook.PactSlots

// ComputeSpellSlots maps an effective caster level to spell level -> slots.
// Levels above 20 are capped and 0 yields an empty map.
func ComputeSpellSlots(casterLevel int) map[int]int {
	return rulebook.SpellSlotsForCasterLevel(casterLevel)
}

// ComputePactMagic returns the pact slot count and slot level for a warlock
// level. It is never merged with ComputeSpellSlots.
func ComputePactMagic(warlockLevel int) PactMagic {
	return rulebook.PactMagicForLevel(warlockLevel)
}
