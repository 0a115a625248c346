package rulebook

import "strings"

// LevelFeature is a named class feature gained at a class level
type LevelFeature struct {
	Class ClassKey `json:"class"`
	Level int      `json:"level"`
	Key   string   `json:"key"`
	Name  string   `json:"name"`
}

var featureKeyCleaner = strings.NewReplacer("(", "", ")", "", "'", "")

func feature(class ClassKey, level int, name string) *LevelFeature {
	return &LevelFeature{
		Class: class,
		Level: level,
		Key:   NormalizeKey(featureKeyCleaner.Replace(name)),
		Name:  name,
	}
}

func standardFeatures() []*LevelFeature {
	return []*LevelFeature{
		feature(ClassBarbarian, 1, "Rage"),
		feature(ClassBarbarian, 1, "Unarmored Defense"),
		feature(ClassBarbarian, 2, "Reckless Attack"),
		feature(ClassBarbarian, 2, "Danger Sense"),
		feature(ClassBarbarian, 5, "Extra Attack"),
		feature(ClassBarbarian, 5, "Fast Movement"),
		feature(ClassBarbarian, 7, "Feral Instinct"),
		feature(ClassBarbarian, 9, "Brutal Critical"),
		feature(ClassBarbarian, 11, "Relentless Rage"),
		feature(ClassBarbarian, 20, "Primal Champion"),

		feature(ClassBard, 1, "Spellcasting"),
		feature(ClassBard, 1, "Bardic Inspiration"),
		feature(ClassBard, 2, "Jack of All Trades"),
		feature(ClassBard, 2, "Song of Rest"),
		feature(ClassBard, 3, "Expertise"),
		feature(ClassBard, 5, "Font of Inspiration"),
		feature(ClassBard, 6, "Countercharm"),
		feature(ClassBard, 10, "Magical Secrets"),
		feature(ClassBard, 20, "Superior Inspiration"),

		feature(ClassCleric, 1, "Spellcasting"),
		feature(ClassCleric, 2, "Channel Divinity"),
		feature(ClassCleric, 5, "Destroy Undead"),
		feature(ClassCleric, 10, "Divine Intervention"),

		feature(ClassDruid, 1, "Druidic"),
		feature(ClassDruid, 1, "Spellcasting"),
		feature(ClassDruid, 2, "Wild Shape"),
		feature(ClassDruid, 18, "Timeless Body"),
		feature(ClassDruid, 20, "Archdruid"),

		feature(ClassFighter, 1, "Fighting Style"),
		feature(ClassFighter, 1, "Second Wind"),
		feature(ClassFighter, 2, "Action Surge"),
		feature(ClassFighter, 5, "Extra Attack"),
		feature(ClassFighter, 9, "Indomitable"),
		feature(ClassFighter, 11, "Extra Attack (2)"),
		feature(ClassFighter, 20, "Extra Attack (3)"),

		feature(ClassMonk, 1, "Unarmored Defense"),
		feature(ClassMonk, 1, "Martial Arts"),
		feature(ClassMonk, 2, "Ki"),
		feature(ClassMonk, 2, "Unarmored Movement"),
		feature(ClassMonk, 3, "Deflect Missiles"),
		feature(ClassMonk, 4, "Slow Fall"),
		feature(ClassMonk, 5, "Extra Attack"),
		feature(ClassMonk, 5, "Stunning Strike"),
		feature(ClassMonk, 7, "Evasion"),
		feature(ClassMonk, 14, "Diamond Soul"),
		feature(ClassMonk, 20, "Perfect Self"),

		feature(ClassPaladin, 1, "Divine Sense"),
		feature(ClassPaladin, 1, "Lay on Hands"),
		feature(ClassPaladin, 2, "Fighting Style"),
		feature(ClassPaladin, 2, "Spellcasting"),
		feature(ClassPaladin, 2, "Divine Smite"),
		feature(ClassPaladin, 5, "Extra Attack"),
		feature(ClassPaladin, 6, "Aura of Protection"),
		feature(ClassPaladin, 10, "Aura of Courage"),

		feature(ClassRanger, 1, "Favored Enemy"),
		feature(ClassRanger, 1, "Natural Explorer"),
		feature(ClassRanger, 2, "Fighting Style"),
		feature(ClassRanger, 2, "Spellcasting"),
		feature(ClassRanger, 5, "Extra Attack"),
		feature(ClassRanger, 20, "Foe Slayer"),

		feature(ClassRogue, 1, "Expertise"),
		feature(ClassRogue, 1, "Sneak Attack"),
		feature(ClassRogue, 1, "Thieves' Cant"),
		feature(ClassRogue, 2, "Cunning Action"),
		feature(ClassRogue, 5, "Uncanny Dodge"),
		feature(ClassRogue, 7, "Evasion"),
		feature(ClassRogue, 11, "Reliable Talent"),
		feature(ClassRogue, 20, "Stroke of Luck"),

		feature(ClassSorcerer, 1, "Spellcasting"),
		feature(ClassSorcerer, 2, "Font of Magic"),
		feature(ClassSorcerer, 3, "Metamagic"),
		feature(ClassSorcerer, 20, "Sorcerous Restoration"),

		feature(ClassWarlock, 1, "Pact Magic"),
		feature(ClassWarlock, 2, "Eldritch Invocations"),
		feature(ClassWarlock, 3, "Pact Boon"),
		feature(ClassWarlock, 11, "Mystic Arcanum"),
		feature(ClassWarlock, 20, "Eldritch Master"),

		feature(ClassWizard, 1, "Spellcasting"),
		feature(ClassWizard, 1, "Arcane Recovery"),
		feature(ClassWizard, 18, "Spell Mastery"),
		feature(ClassWizard, 20, "Signature Spells"),
	}
}
