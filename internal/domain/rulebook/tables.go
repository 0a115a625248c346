package rulebook

// MaxLevel is the character level cap
const MaxLevel = 20

// multiclassSlots is indexed by effective caster level; entry i holds slot
// counts for spell levels 1..len. Levels 17 through 20 share one row.
var multiclassSlots = [MaxLevel + 1][]int{
	0:  nil,
	1:  {2},
	2:  {3},
	3:  {4, 2},
	4:  {4, 3},
	5:  {4, 3, 2},
	6:  {4, 3, 3},
	7:  {4, 3, 3, 1},
	8:  {4, 3, 3, 2},
	9:  {4, 3, 3, 3, 1},
	10: {4, 3, 3, 3, 2},
	11: {4, 3, 3, 3, 2, 1},
	12: {4, 3, 3, 3, 2, 1},
	13: {4, 3, 3, 3, 2, 1, 1},
	14: {4, 3, 3, 3, 2, 1, 1},
	15: {4, 3, 3, 3, 2, 1, 1, 1},
	16: {4, 3, 3, 3, 2, 1, 1, 1},
	17: {4, 3, 3, 3, 2, 1, 1, 1, 1},
	18: {4, 3, 3, 3, 2, 1, 1, 1, 1},
	19: {4, 3, 3, 3, 2, 1, 1, 1, 1},
	20: {4, 3, 3, 3, 2, 1, 1, 1, 1},
}

// PactSlots is the pact magic allotment for a warlock level
type PactSlots struct {
	Slots     int `json:"slots"`
	SlotLevel int `json:"slot_level"`
}

var pactMagic = [MaxLevel + 1]PactSlots{
	1: {1, 1}, 2: {2, 1},
	3: {2, 2}, 4: {2, 2},
	5: {2, 3}, 6: {2, 3},
	7: {2, 4}, 8: {2, 4},
	9: {2, 5}, 10: {2, 5},
	11: {3, 5}, 12: {3, 5}, 13: {3, 5}, 14: {3, 5}, 15: {3, 5}, 16: {3, 5},
	17: {4, 5}, 18: {4, 5}, 19: {4, 5}, 20: {4, 5},
}

// experienceThresholds[l] is the total XP needed to reach level l
var experienceThresholds = [MaxLevel + 1]int{
	0, 0, 300, 900, 2700, 6500, 14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000, 195000, 225000, 265000, 305000, 355000,
}

// SpellSlotsForCasterLevel returns spell level -> slot count for an
// effective caster level. Levels above 20 are capped; 0 or less yields an
// empty map. The returned map is owned by the caller.
func SpellSlotsForCasterLevel(casterLevel int) map[int]int {
	if casterLevel > MaxLevel {
		casterLevel = MaxLevel
	}
	out := make(map[int]int)
	if casterLevel <= 0 {
		return out
	}
	for i, count := range multiclassSlots[casterLevel] {
		out[i+1] = count
	}
	return out
}

// PactMagicForLevel returns the pact slots for a warlock class level
func PactMagicForLevel(warlockLevel int) PactSlots {
	if warlockLevel <= 0 {
		return PactSlots{}
	}
	if warlockLevel > MaxLevel {
		warlockLevel = MaxLevel
	}
	return pactMagic[warlockLevel]
}

// ExperienceForLevel returns the XP threshold for level, 0 outside 1..20
func ExperienceForLevel(level int) int {
	if level < 1 || level > MaxLevel {
		return 0
	}
	return experienceThresholds[level]
}

// LevelForExperience returns the highest level whose threshold xp meets
func LevelForExperience(xp int) int {
	level := 1
	for l := 2; l <= MaxLevel; l++ {
		if xp >= experienceThresholds[l] {
			level = l
		}
	}
	return level
}

// ProficiencyBonus returns +2 at levels 1-4 rising by one every four levels
func ProficiencyBonus(level int) int {
	if level < 1 {
		return 2
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return 2 + (level-1)/4
}
