package progression

import (
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// Summary aggregates a character's class levels
type Summary struct {
	TotalLevel   int                       `json:"total_level"`
	ClassLevels  map[rulebook.ClassKey]int `json:"class_levels"`
	PrimaryClass rulebook.ClassKey         `json:"primary_class"`

	// HitDice maps die size to the number of dice of that size
	HitDice map[int]int `json:"hit_dice"`

	// CasterLevel indexes the multiclass spell slot table; pact casters
	// never contribute
	CasterLevel int `json:"caster_level"`
	// PactLevel is the class level of the pact caster, 0 for none
	PactLevel int `json:"pact_level"`

	ProficiencyBonus int `json:"proficiency_bonus"`
}

// LevelIn returns the level in a class by name, ignoring case. Unknown
// classes report 0.
func (s *Summary) LevelIn(name string) int {
	key, ok := rulebook.ParseClassKey(name)
	if !ok {
		return 0
	}
	return s.ClassLevels[key]
}

// ComputeProgression validates a set of class entries and aggregates them.
// Entries must name distinct known classes with levels 1-20 totalling at
// most 20. The primary class is the highest level entry, ties going to the
// earlier entry.
func (e *Engine) ComputeProgression(classes []*ClassLevel) (*Summary, error) {
	if len(classes) == 0 {
		return nil, errors.InvalidArgument("at least one class level is required")
	}

	summary := &Summary{
		ClassLevels: make(map[rulebook.ClassKey]int, len(classes)),
		HitDice:     make(map[int]int, len(classes)),
	}

	primaryLevel := 0
	for i, entry := range classes {
		if entry == nil {
			return nil, errors.InvalidArgumentf("class entry %d is nil", i)
		}
		if entry.Level < 1 || entry.Level > rulebook.MaxLevel {
			return nil, errors.InvalidArgumentf("%s level %d is outside 1-%d", entry.Class, entry.Level, rulebook.MaxLevel).
				WithMeta("class", string(entry.Class))
		}
		if _, dup := summary.ClassLevels[entry.Class]; dup {
			return nil, errors.InvalidArgumentf("class %s appears more than once", entry.Class).
				WithMeta("class", string(entry.Class))
		}

		class, err := e.rules.ClassByKey(entry.Class)
		if err != nil {
			return nil, err
		}

		summary.ClassLevels[class.Key] = entry.Level
		summary.TotalLevel += entry.Level
		summary.HitDice[class.HitDie] += entry.Level

		casterType := class.CasterTypeFor(entry.Subclass)
		summary.CasterLevel += casterType.CasterLevel(entry.Level)
		if casterType == rulebook.CasterPact {
			summary.PactLevel += entry.Level
		}

		if entry.Level > primaryLevel {
			primaryLevel = entry.Level
			summary.PrimaryClass = class.Key
		}
	}

	if summary.TotalLevel > rulebook.MaxLevel {
		return nil, errors.InvalidArgumentf("total level %d exceeds %d", summary.TotalLevel, rulebook.MaxLevel)
	}

	summary.ProficiencyBonus = rulebook.ProficiencyBonus(summary.TotalLevel)
	return summary, nil
}
