package rulebook

// Race is static rule data for a playable race. AbilityBonuses uses the
// "<ability> <signed int>" form, e.g. "dex +2" or "Constitution+1".
type Race struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	Speed          int      `json:"speed"`
	AbilityBonuses []string `json:"ability_bonuses"`
}

func standardRaces() []*Race {
	return []*Race{
		{Key: "dragonborn", Name: "Dragonborn", Speed: 30, AbilityBonuses: []string{"str +2", "cha +1"}},
		{Key: "dwarf", Name: "Dwarf", Speed: 25, AbilityBonuses: []string{"con +2"}},
		{Key: "hill-dwarf", Name: "Hill Dwarf", Speed: 25, AbilityBonuses: []string{"con +2", "wis +1"}},
		{Key: "mountain-dwarf", Name: "Mountain Dwarf", Speed: 25, AbilityBonuses: []string{"con +2", "str +2"}},
		{Key: "elf", Name: "Elf", Speed: 30, AbilityBonuses: []string{"dex +2"}},
		{Key: "high-elf", Name: "High Elf", Speed: 30, AbilityBonuses: []string{"dex +2", "int +1"}},
		{Key: "wood-elf", Name: "Wood Elf", Speed: 35, AbilityBonuses: []string{"dex +2", "wis +1"}},
		{Key: "gnome", Name: "Gnome", Speed: 25, AbilityBonuses: []string{"int +2"}},
		{Key: "half-elf", Name: "Half-Elf", Speed: 30, AbilityBonuses: []string{"cha +2"}},
		{Key: "half-orc", Name: "Half-Orc", Speed: 30, AbilityBonuses: []string{"str +2", "con +1"}},
		{Key: "halfling", Name: "Halfling", Speed: 25, AbilityBonuses: []string{"dex +2"}},
		{Key: "lightfoot-halfling", Name: "Lightfoot Halfling", Speed: 25, AbilityBonuses: []string{"dex +2", "cha +1"}},
		{Key: "human", Name: "Human", Speed: 30, AbilityBonuses: []string{
			"str +1", "dex +1", "con +1", "int +1", "wis +1", "cha +1",
		}},
		{Key: "tiefling", Name: "Tiefling", Speed: 30, AbilityBonuses: []string{"cha +2", "int +1"}},
	}
}
