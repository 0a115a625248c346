package rulebook

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
)

// ClassKey identifies one of the twelve base classes
type ClassKey string

const (
	ClassBarbarian ClassKey = "barbarian"
	ClassBard      ClassKey = "bard"
	ClassCleric    ClassKey = "cleric"
	ClassDruid     ClassKey = "druid"
	ClassFighter   ClassKey = "fighter"
	ClassMonk      ClassKey = "monk"
	ClassPaladin   ClassKey = "paladin"
	ClassRanger    ClassKey = "ranger"
	ClassRogue     ClassKey = "rogue"
	ClassSorcerer  ClassKey = "sorcerer"
	ClassWarlock   ClassKey = "warlock"
	ClassWizard    ClassKey = "wizard"
)

// ClassKeys lists the base classes alphabetically
var ClassKeys = []ClassKey{
	ClassBarbarian, ClassBard, ClassCleric, ClassDruid,
	ClassFighter, ClassMonk, ClassPaladin, ClassRanger,
	ClassRogue, ClassSorcerer, ClassWarlock, ClassWizard,
}

var (
	keyFolder = cases.Fold()
	titler    = cases.Title(language.English)
)

// NormalizeKey folds case and trims a user supplied name so "Fighter",
// " FIGHTER" and "fighter" compare equal. Spaces become dashes.
func NormalizeKey(name string) string {
	folded := keyFolder.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(folded), "-")
}

// DisplayName turns a key like "arcane-trickster" into "Arcane Trickster"
func DisplayName(key string) string {
	return titler.String(strings.ReplaceAll(key, "-", " "))
}

// ParseClassKey resolves a class name regardless of case
func ParseClassKey(name string) (ClassKey, bool) {
	key := ClassKey(NormalizeKey(name))
	for _, k := range ClassKeys {
		if k == key {
			return k, true
		}
	}
	return "", false
}

// CasterType classifies how a class contributes to multiclass spellcasting
type CasterType string

const (
	CasterNone  CasterType = "none"
	CasterFull  CasterType = "full"
	CasterHalf  CasterType = "half"
	CasterThird CasterType = "third"
	CasterPact  CasterType = "pact"
)

// CasterLevel converts a class level into its share of the effective caster
// level. Pact and non casters contribute nothing.
func (c CasterType) CasterLevel(classLevel int) int {
	switch c {
	case CasterFull:
		return classLevel
	case CasterHalf:
		return classLevel / 2
	case CasterThird:
		return classLevel / 3
	default:
		return 0
	}
}

// AbilityMinimum is a single "score >= minimum" requirement
type AbilityMinimum struct {
	Attribute shared.Attribute `json:"attribute"`
	Minimum   int              `json:"minimum"`
}

// MulticlassRequirement describes the ability gate for taking a first level
// in a class. Exactly one of AnyOf or AllOf is populated.
type MulticlassRequirement struct {
	AnyOf []AbilityMinimum `json:"any_of,omitempty"`
	AllOf []AbilityMinimum `json:"all_of,omitempty"`
}

// Subclass is a specialization chosen at the class's SubclassLevel
type Subclass struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	// CasterType overrides the class classification when set
	// (Eldritch Knight and Arcane Trickster are third casters).
	CasterType CasterType `json:"caster_type,omitempty"`
}

// Class is static rule data for a base class
type Class struct {
	Key            ClassKey              `json:"key"`
	Name           string                `json:"name"`
	HitDie         int                   `json:"hit_die"`
	PrimaryAbility shared.Attribute      `json:"primary_ability"`
	SavingThrows   []shared.Attribute    `json:"saving_throws"`
	CasterType     CasterType            `json:"caster_type"`
	Multiclass     MulticlassRequirement `json:"multiclass"`
	SubclassLevel  int                   `json:"subclass_level"`
	ASILevels      []int                 `json:"asi_levels"`
	Subclasses     []*Subclass           `json:"subclasses"`
}

// IsASILevel reports whether reaching classLevel grants an ability score improvement
func (c *Class) IsASILevel(classLevel int) bool {
	for _, l := range c.ASILevels {
		if l == classLevel {
			return true
		}
	}
	return false
}

// Subclass finds a subclass by key or display name, ignoring case
func (c *Class) Subclass(name string) (*Subclass, bool) {
	key := NormalizeKey(name)
	for _, sc := range c.Subclasses {
		if sc.Key == key || NormalizeKey(sc.Name) == key {
			return sc, true
		}
	}
	return nil, false
}

// CasterTypeFor returns the effective caster type given an optional subclass key
func (c *Class) CasterTypeFor(subclassKey string) CasterType {
	if subclassKey != "" {
		if sc, ok := c.Subclass(subclassKey); ok && sc.CasterType != "" {
			return sc.CasterType
		}
	}
	return c.CasterType
}

var standardASILevels = []int{4, 8, 12, 16, 19}

func single(attr shared.Attribute) MulticlassRequirement {
	return MulticlassRequirement{AllOf: []AbilityMinimum{{Attribute: attr, Minimum: 13}}}
}

func both(a, b shared.Attribute) MulticlassRequirement {
	return MulticlassRequirement{AllOf: []AbilityMinimum{{Attribute: a, Minimum: 13}, {Attribute: b, Minimum: 13}}}
}

func subclasses(overrides map[string]CasterType, keys ...string) []*Subclass {
	out := make([]*Subclass, 0, len(keys))
	for _, k := range keys {
		sc := &Subclass{Key: k, Name: DisplayName(k)}
		if ct, ok := overrides[k]; ok {
			sc.CasterType = ct
		}
		out = append(out, sc)
	}
	return out
}

func standardClasses() []*Class {
	return []*Class{
		{
			Key: ClassBarbarian, Name: "Barbarian", HitDie: 12,
			PrimaryAbility: shared.AttributeStrength,
			SavingThrows:   []shared.Attribute{shared.AttributeStrength, shared.AttributeConstitution},
			CasterType:     CasterNone,
			Multiclass:     single(shared.AttributeStrength),
			SubclassLevel:  3,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "berserker", "totem-warrior"),
		},
		{
			Key: ClassBard, Name: "Bard", HitDie: 8,
			PrimaryAbility: shared.AttributeCharisma,
			SavingThrows:   []shared.Attribute{shared.AttributeDexterity, shared.AttributeCharisma},
			CasterType:     CasterFull,
			Multiclass:     single(shared.AttributeCharisma),
			SubclassLevel:  3,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "lore", "valor"),
		},
		{
			Key: ClassCleric, Name: "Cleric", HitDie: 8,
			PrimaryAbility: shared.AttributeWisdom,
			SavingThrows:   []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
			CasterType:     CasterFull,
			Multiclass:     single(shared.AttributeWisdom),
			SubclassLevel:  1,
			ASILevels:      standardASILevels,
			Subclasses: subclasses(nil,
				"knowledge", "life", "light", "nature", "tempest", "trickery", "war"),
		},
		{
			Key: ClassDruid, Name: "Druid", HitDie: 8,
			PrimaryAbility: shared.AttributeWisdom,
			SavingThrows:   []shared.Attribute{shared.AttributeIntelligence, shared.AttributeWisdom},
			CasterType:     CasterFull,
			Multiclass:     single(shared.AttributeWisdom),
			SubclassLevel:  2,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "land", "moon"),
		},
		{
			Key: ClassFighter, Name: "Fighter", HitDie: 10,
			PrimaryAbility: shared.AttributeStrength,
			SavingThrows:   []shared.Attribute{shared.AttributeStrength, shared.AttributeConstitution},
			CasterType:     CasterNone,
			Multiclass: MulticlassRequirement{AnyOf: []AbilityMinimum{
				{Attribute: shared.AttributeStrength, Minimum: 13},
				{Attribute: shared.AttributeDexterity, Minimum: 13},
			}},
			SubclassLevel: 3,
			ASILevels:     []int{4, 6, 8, 12, 14, 16, 19},
			Subclasses: subclasses(map[string]CasterType{"eldritch-knight": CasterThird},
				"champion", "battle-master", "eldritch-knight"),
		},
		{
			Key: ClassMonk, Name: "Monk", HitDie: 8,
			PrimaryAbility: shared.AttributeDexterity,
			SavingThrows:   []shared.Attribute{shared.AttributeStrength, shared.AttributeDexterity},
			CasterType:     CasterNone,
			Multiclass:     both(shared.AttributeDexterity, shared.AttributeWisdom),
			SubclassLevel:  3,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "open-hand", "shadow", "four-elements"),
		},
		{
			Key: ClassPaladin, Name: "Paladin", HitDie: 10,
			PrimaryAbility: shared.AttributeStrength,
			SavingThrows:   []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
			CasterType:     CasterHalf,
			Multiclass:     both(shared.AttributeStrength, shared.AttributeCharisma),
			SubclassLevel:  3,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "devotion", "ancients", "vengeance"),
		},
		{
			Key: ClassRanger, Name: "Ranger", HitDie: 10,
			PrimaryAbility: shared.AttributeDexterity,
			SavingThrows:   []shared.Attribute{shared.AttributeStrength, shared.AttributeDexterity},
			CasterType:     CasterHalf,
			Multiclass:     both(shared.AttributeDexterity, shared.AttributeWisdom),
			SubclassLevel:  3,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "hunter", "beast-master"),
		},
		{
			Key: ClassRogue, Name: "Rogue", HitDie: 8,
			PrimaryAbility: shared.AttributeDexterity,
			SavingThrows:   []shared.Attribute{shared.AttributeDexterity, shared.AttributeIntelligence},
			CasterType:     CasterNone,
			Multiclass:     single(shared.AttributeDexterity),
			SubclassLevel:  3,
			ASILevels:      []int{4, 8, 10, 12, 16, 19},
			Subclasses: subclasses(map[string]CasterType{"arcane-trickster": CasterThird},
				"thief", "assassin", "arcane-trickster"),
		},
		{
			Key: ClassSorcerer, Name: "Sorcerer", HitDie: 6,
			PrimaryAbility: shared.AttributeCharisma,
			SavingThrows:   []shared.Attribute{shared.AttributeConstitution, shared.AttributeCharisma},
			CasterType:     CasterFull,
			Multiclass:     single(shared.AttributeCharisma),
			SubclassLevel:  1,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "draconic-bloodline", "wild-magic"),
		},
		{
			Key: ClassWarlock, Name: "Warlock", HitDie: 8,
			PrimaryAbility: shared.AttributeCharisma,
			SavingThrows:   []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
			CasterType:     CasterPact,
			Multiclass:     single(shared.AttributeCharisma),
			SubclassLevel:  1,
			ASILevels:      standardASILevels,
			Subclasses:     subclasses(nil, "archfey", "fiend", "great-old-one"),
		},
		{
			Key: ClassWizard, Name: "Wizard", HitDie: 6,
			PrimaryAbility: shared.AttributeIntelligence,
			SavingThrows:   []shared.Attribute{shared.AttributeIntelligence, shared.AttributeWisdom},
			CasterType:     CasterFull,
			Multiclass:     single(shared.AttributeIntelligence),
			SubclassLevel:  2,
			ASILevels:      standardASILevels,
			Subclasses: subclasses(nil,
				"abjuration", "conjuration", "divination", "enchantment",
				"evocation", "illusion", "necromancy", "transmutation"),
		},
	}
}
