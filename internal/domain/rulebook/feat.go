package rulebook

import (
	"strings"

	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
)

// FeatAbilityIncrease is a fixed score bump granted by a feat. When more
// than one option is listed the player picks one.
type FeatAbilityIncrease struct {
	Options []shared.Attribute `json:"options"`
	Amount  int                `json:"amount"`
}

// Feat is static rule data for a feat and its prerequisites
type Feat struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// MinLevel is the minimum total character level, 0 for none
	MinLevel int `json:"min_level,omitempty"`
	// MinScores holds a minimum per ability; a zero field is no requirement
	MinScores shared.AbilityScores `json:"min_scores"`
	// Proficiencies is a comma separated list the character must already know
	Proficiencies string `json:"proficiencies,omitempty"`
	// RequiresSpellcasting gates the feat on having any spellcasting class
	RequiresSpellcasting bool `json:"requires_spellcasting,omitempty"`

	Repeatable        bool                 `json:"repeatable,omitempty"`
	AbilityIncrease   *FeatAbilityIncrease `json:"ability_increase,omitempty"`
	HitPointsPerLevel int                  `json:"hit_points_per_level,omitempty"`
}

// RequiredProficiencies splits Proficiencies into normalized names
func (f *Feat) RequiredProficiencies() []string {
	if strings.TrimSpace(f.Proficiencies) == "" {
		return nil
	}

	var out []string
	for _, p := range strings.Split(f.Proficiencies, ",") {
		if key := NormalizeKey(p); key != "" {
			out = append(out, key)
		}
	}
	return out
}

func increase(amount int, options ...shared.Attribute) *FeatAbilityIncrease {
	return &FeatAbilityIncrease{Options: options, Amount: amount}
}

func standardFeats() []*Feat {
	return []*Feat{
		{
			Key: "actor", Name: "Actor",
			Description:     "Skilled at mimicry and dramatics.",
			AbilityIncrease: increase(1, shared.AttributeCharisma),
		},
		{
			Key: "alert", Name: "Alert",
			Description: "+5 to initiative and cannot be surprised while conscious.",
		},
		{
			Key: "boon-of-fortitude", Name: "Boon of Fortitude",
			Description:     "An epic boon for characters nearing the level cap.",
			MinLevel:        19,
			AbilityIncrease: increase(1, shared.Attributes...),
		},
		{
			Key: "defensive-duelist", Name: "Defensive Duelist",
			Description: "Use a reaction to add proficiency bonus to AC against a melee attack.",
			MinScores:   shared.AbilityScores{Dexterity: 13},
		},
		{
			Key: "elemental-adept", Name: "Elemental Adept",
			Description:          "Spells ignore resistance to a chosen damage type. May be taken again for a new type.",
			RequiresSpellcasting: true,
			Repeatable:           true,
		},
		{
			Key: "grappler", Name: "Grappler",
			Description: "Advantage on attacks against creatures you are grappling.",
			MinScores:   shared.AbilityScores{Strength: 13},
		},
		{
			Key: "heavy-armor-master", Name: "Heavy Armor Master",
			Description:     "Reduce nonmagical bludgeoning, piercing and slashing damage by 3 in heavy armor.",
			Proficiencies:   "heavy armor",
			AbilityIncrease: increase(1, shared.AttributeStrength),
		},
		{
			Key: "inspiring-leader", Name: "Inspiring Leader",
			Description: "Grant temporary hit points to allies after a short speech.",
			MinScores:   shared.AbilityScores{Charisma: 13},
		},
		{
			Key: "lucky", Name: "Lucky",
			Description: "Three luck points per long rest to reroll a d20.",
		},
		{
			Key: "medium-armor-master", Name: "Medium Armor Master",
			Description:   "No stealth disadvantage in medium armor and a higher dexterity cap.",
			Proficiencies: "medium armor",
		},
		{
			Key: "moderately-armored", Name: "Moderately Armored",
			Description:     "Gain proficiency with medium armor and shields.",
			Proficiencies:   "light armor",
			AbilityIncrease: increase(1, shared.AttributeStrength, shared.AttributeDexterity),
		},
		{
			Key: "observant", Name: "Observant",
			Description:     "+5 to passive perception and investigation.",
			AbilityIncrease: increase(1, shared.AttributeIntelligence, shared.AttributeWisdom),
		},
		{
			Key: "resilient", Name: "Resilient",
			Description:     "Gain proficiency in saving throws of the chosen ability.",
			AbilityIncrease: increase(1, shared.Attributes...),
		},
		{
			Key: "skilled", Name: "Skilled",
			Description: "Gain proficiency in any three skills or tools.",
		},
		{
			Key: "skill-expert", Name: "Skill Expert",
			Description:     "Gain a skill proficiency and expertise in one skill.",
			AbilityIncrease: increase(1, shared.Attributes...),
		},
		{
			Key: "skulker", Name: "Skulker",
			Description: "Hide when lightly obscured; missed ranged attacks do not reveal you.",
			MinScores:   shared.AbilityScores{Dexterity: 13},
		},
		{
			Key: "tough", Name: "Tough",
			Description:       "Hit point maximum increases by 2 for every level.",
			HitPointsPerLevel: 2,
		},
		{
			Key: "war-caster", Name: "War Caster",
			Description:          "Advantage on concentration saves and spells as opportunity attacks.",
			RequiresSpellcasting: true,
		},
	}
}
