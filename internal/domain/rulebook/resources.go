package rulebook

import "github.com/KirkDiggler/dnd-progression/internal/domain/shared"

// RestType is the rest that refills a resource
type RestType string

const (
	RestShort RestType = "short_rest"
	RestLong  RestType = "long_rest"
)

// Unlimited marks a resource with no cap (20th level rage)
const Unlimited = -1

// ResourceDefinition describes a class resource pool. Max and Recovery are
// evaluated against the owning class level.
type ResourceDefinition struct {
	Key      string
	Name     string
	Class    ClassKey
	MinLevel int
	Max      func(classLevel int, scores shared.AbilityScores) int
	Recovery func(classLevel int) RestType
}

func recovers(rest RestType) func(int) RestType {
	return func(int) RestType { return rest }
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func standardResources() []*ResourceDefinition {
	return []*ResourceDefinition{
		{
			Key: "rage", Name: "Rage", Class: ClassBarbarian, MinLevel: 1,
			Max: func(level int, _ shared.AbilityScores) int {
				switch {
				case level >= 20:
					return Unlimited
				case level >= 17:
					return 6
				case level >= 12:
					return 5
				case level >= 6:
					return 4
				case level >= 3:
					return 3
				default:
					return 2
				}
			},
			Recovery: recovers(RestLong),
		},
		{
			Key: "bardic-inspiration", Name: "Bardic Inspiration", Class: ClassBard, MinLevel: 1,
			Max: func(_ int, scores shared.AbilityScores) int {
				return atLeastOne(scores.Modifier(shared.AttributeCharisma))
			},
			// Font of Inspiration
			Recovery: func(level int) RestType {
				if level >= 5 {
					return RestShort
				}
				return RestLong
			},
		},
		{
			Key: "channel-divinity", Name: "Channel Divinity", Class: ClassCleric, MinLevel: 2,
			Max: func(level int, _ shared.AbilityScores) int {
				switch {
				case level >= 18:
					return 3
				case level >= 6:
					return 2
				default:
					return 1
				}
			},
			Recovery: recovers(RestShort),
		},
		{
			Key: "wild-shape", Name: "Wild Shape", Class: ClassDruid, MinLevel: 2,
			Max: func(level int, _ shared.AbilityScores) int {
				if level >= 20 {
					return Unlimited
				}
				return 2
			},
			Recovery: recovers(RestShort),
		},
		{
			Key: "second-wind", Name: "Second Wind", Class: ClassFighter, MinLevel: 1,
			Max:      func(int, shared.AbilityScores) int { return 1 },
			Recovery: recovers(RestShort),
		},
		{
			Key: "action-surge", Name: "Action Surge", Class: ClassFighter, MinLevel: 2,
			Max: func(level int, _ shared.AbilityScores) int {
				if level >= 17 {
					return 2
				}
				return 1
			},
			Recovery: recovers(RestShort),
		},
		{
			Key: "indomitable", Name: "Indomitable", Class: ClassFighter, MinLevel: 9,
			Max: func(level int, _ shared.AbilityScores) int {
				switch {
				case level >= 17:
					return 3
				case level >= 13:
					return 2
				default:
					return 1
				}
			},
			Recovery: recovers(RestLong),
		},
		{
			Key: "ki", Name: "Ki", Class: ClassMonk, MinLevel: 2,
			Max:      func(level int, _ shared.AbilityScores) int { return level },
			Recovery: recovers(RestShort),
		},
		{
			Key: "lay-on-hands", Name: "Lay on Hands", Class: ClassPaladin, MinLevel: 1,
			Max:      func(level int, _ shared.AbilityScores) int { return 5 * level },
			Recovery: recovers(RestLong),
		},
		{
			Key: "divine-sense", Name: "Divine Sense", Class: ClassPaladin, MinLevel: 1,
			Max: func(_ int, scores shared.AbilityScores) int {
				return atLeastOne(1 + scores.Modifier(shared.AttributeCharisma))
			},
			Recovery: recovers(RestLong),
		},
		{
			Key: "sorcery-points", Name: "Sorcery Points", Class: ClassSorcerer, MinLevel: 2,
			Max:      func(level int, _ shared.AbilityScores) int { return level },
			Recovery: recovers(RestLong),
		},
		{
			Key: "arcane-recovery", Name: "Arcane Recovery", Class: ClassWizard, MinLevel: 1,
			Max:      func(int, shared.AbilityScores) int { return 1 },
			Recovery: recovers(RestLong),
		},
	}
}
