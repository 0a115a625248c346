package progression

import (
	"sort"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// ClassLevel is one class a character has levels in. Entries keep the order
// they were created in; the first entry is the starting class.
type ClassLevel struct {
	Class    rulebook.ClassKey `json:"class"`
	Level    int               `json:"level"`
	Subclass string            `json:"subclass,omitempty"`
}

// State is the serializable progression state of one character
type State struct {
	Level   int           `json:"level"`
	Classes []*ClassLevel `json:"classes"`

	Abilities     shared.AbilityScores `json:"abilities"`
	Proficiencies []string             `json:"proficiencies,omitempty"`
	Feats         []string             `json:"feats,omitempty"`
	Experience    int                  `json:"experience"`

	// HitDieResults holds the die value gained at each character level,
	// before the Constitution modifier, so max HP can be recomputed when
	// Constitution changes
	HitDieResults []int `json:"hit_die_results"`
	MaxHitPoints  int   `json:"max_hit_points"`

	// PendingASILevels are character levels whose ability score
	// improvement or feat has not been chosen yet, ascending
	PendingASILevels         []int `json:"pending_asi_levels,omitempty"`
	PendingSubclassSelection bool  `json:"pending_subclass_selection"`
}

// Clone deep copies the state
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := *s
	out.Classes = make([]*ClassLevel, len(s.Classes))
	for i, c := range s.Classes {
		cp := *c
		out.Classes[i] = &cp
	}
	out.Proficiencies = append([]string(nil), s.Proficiencies...)
	out.Feats = append([]string(nil), s.Feats...)
	out.HitDieResults = append([]int(nil), s.HitDieResults...)
	out.PendingASILevels = append([]int(nil), s.PendingASILevels...)
	return &out
}

// ClassEntry returns the entry for a class, nil when the character has no levels in it
func (s *State) ClassEntry(class rulebook.ClassKey) *ClassLevel {
	for _, c := range s.Classes {
		if c.Class == class {
			return c
		}
	}
	return nil
}

// HasFeat reports whether the feat key has been taken at least once
func (s *State) HasFeat(key string) bool {
	for _, f := range s.Feats {
		if f == key {
			return true
		}
	}
	return false
}

// IsASIPending reports whether level is owed an ASI or feat choice
func (s *State) IsASIPending(level int) bool {
	for _, l := range s.PendingASILevels {
		if l == level {
			return true
		}
	}
	return false
}

func (s *State) addPendingASI(level int) {
	if s.IsASIPending(level) {
		return
	}
	s.PendingASILevels = append(s.PendingASILevels, level)
	sort.Ints(s.PendingASILevels)
}

func (s *State) removePendingASI(level int) {
	out := s.PendingASILevels[:0]
	for _, l := range s.PendingASILevels {
		if l != level {
			out = append(out, l)
		}
	}
	s.PendingASILevels = out
}

// NewStateInput describes a character at its first level
type NewStateInput struct {
	Class         string
	Abilities     shared.AbilityScores
	Proficiencies []string
	Experience    int
}

// NewState creates the level 1 progression state. The first hit die is
// always taken at its maximum.
func (e *Engine) NewState(input *NewStateInput) (*State, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Experience < 0 {
		return nil, errors.InvalidArgumentf("experience cannot be negative, got %d", input.Experience)
	}
	if err := validateScoreRange(input.Abilities); err != nil {
		return nil, err
	}

	class, err := e.rules.Class(input.Class)
	if err != nil {
		return nil, err
	}

	state := &State{
		Level:         1,
		Classes:       []*ClassLevel{{Class: class.Key, Level: 1}},
		Abilities:     input.Abilities,
		Proficiencies: normalizeProficiencies(input.Proficiencies),
		Experience:    input.Experience,
		HitDieResults: []int{class.HitDie},
	}
	e.recomputeHitPoints(state)
	e.recomputePendingSubclass(state)

	return state, nil
}

// validateState checks the structural invariants of a state handed in by a caller
func (e *Engine) validateState(state *State) error {
	if state == nil {
		return errors.InvalidArgument("state is required")
	}

	summary, err := e.ComputeProgression(state.Classes)
	if err != nil {
		return err
	}
	if summary.TotalLevel != state.Level {
		return errors.InvalidArgumentf("state level %d does not match class levels totalling %d",
			state.Level, summary.TotalLevel)
	}
	if len(state.HitDieResults) != state.Level {
		return errors.InvalidArgumentf("state has %d hit die results for level %d",
			len(state.HitDieResults), state.Level)
	}
	return nil
}

func validateScoreRange(scores shared.AbilityScores) error {
	for _, attr := range shared.Attributes {
		if v := scores.Get(attr); v < 1 || v > 30 {
			return errors.InvalidArgumentf("%s score %d is outside 1-30", attr, v).
				WithMeta("ability", string(attr))
		}
	}
	return nil
}

func normalizeProficiencies(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, p := range in {
		key := rulebook.NormalizeKey(p)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// recomputePendingSubclass sets the flag when any class has reached its
// unlock level without a chosen subclass
func (e *Engine) recomputePendingSubclass(state *State) {
	state.PendingSubclassSelection = false
	for _, entry := range state.Classes {
		class, err := e.rules.ClassByKey(entry.Class)
		if err != nil {
			continue
		}
		if entry.Subclass == "" && entry.Level >= class.SubclassLevel {
			state.PendingSubclassSelection = true
			return
		}
	}
}
