package progression

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// FeatureKind classifies something gained on level-up
type FeatureKind string

const (
	FeatureClass            FeatureKind = "class_feature"
	FeatureASIChoice        FeatureKind = "asi_choice"
	FeatureSubclassChoice   FeatureKind = "subclass_choice"
	FeatureProficiencyBonus FeatureKind = "proficiency_bonus"
	FeatureSpellSlots       FeatureKind = "spell_slots"
	FeaturePactMagic        FeatureKind = "pact_magic"
	FeatureResource         FeatureKind = "resource"
)

// GrantedFeature is one thing a level-up granted
type GrantedFeature struct {
	Kind        FeatureKind `json:"kind"`
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
}

// LevelUpOutput is the result of a successful level-up
type LevelUpOutput struct {
	State           *State            `json:"state"`
	Class           rulebook.ClassKey `json:"class"`
	ClassLevel      int               `json:"class_level"`
	HitDieResult    int               `json:"hit_die_result"`
	HitPointsGained int               `json:"hit_points_gained"`
	Features        []*GrantedFeature `json:"features"`
	SpellSlots      map[int]int       `json:"spell_slots"`
	PactMagic       PactMagic         `json:"pact_magic"`
}

// LevelUp adds one level in className. A class the character has no levels
// in must pass its multiclass prerequisites first. The input state is not
// modified; on error nothing has changed.
func (e *Engine) LevelUp(state *State, className string) (*LevelUpOutput, error) {
	if err := e.validateState(state); err != nil {
		return nil, err
	}

	class, err := e.rules.Class(className)
	if err != nil {
		return nil, err
	}

	if state.Level >= rulebook.MaxLevel {
		return nil, errors.RuleViolationf("character is already level %d", rulebook.MaxLevel).
			WithMeta("level", state.Level)
	}

	if e.requireXP {
		needed := rulebook.ExperienceForLevel(state.Level + 1)
		if state.Experience < needed {
			return nil, errors.RuleViolationf("level %d requires %d experience, have %d (%d short)",
				state.Level+1, needed, state.Experience, needed-state.Experience).
				WithMeta("level", state.Level+1).
				WithMeta("required", needed).
				WithMeta("actual", state.Experience)
		}
	}

	if state.ClassEntry(class.Key) == nil {
		if result := checkMulticlass(class, state.Abilities); !result.Met {
			return nil, result.Err(fmt.Sprintf("cannot multiclass into %s", class.Name))
		}
	}

	before, err := e.ComputeProgression(state.Classes)
	if err != nil {
		return nil, err
	}

	dieResult, err := e.hitDieValue(class.HitDie)
	if err != nil {
		return nil, err
	}

	next := state.Clone()
	entry := next.ClassEntry(class.Key)
	if entry == nil {
		entry = &ClassLevel{Class: class.Key}
		next.Classes = append(next.Classes, entry)
	}
	entry.Level++
	next.Level++
	next.HitDieResults = append(next.HitDieResults, dieResult)

	e.recomputeHitPoints(next)

	var features []*GrantedFeature
	if class.IsASILevel(entry.Level) {
		next.addPendingASI(next.Level)
		features = append(features, &GrantedFeature{
			Kind: FeatureASIChoice,
			Key:  fmt.Sprintf("asi-%d", next.Level),
			Name: "Ability Score Improvement",
			Description: fmt.Sprintf("Increase one ability by 2 or two abilities by 1, or take a feat (%s level %d)",
				class.Name, entry.Level),
		})
	}

	e.recomputePendingSubclass(next)
	if entry.Level == class.SubclassLevel && entry.Subclass == "" {
		features = append(features, &GrantedFeature{
			Kind:        FeatureSubclassChoice,
			Key:         string(class.Key) + "-subclass",
			Name:        "Subclass",
			Description: fmt.Sprintf("Choose a %s subclass", class.Name),
		})
	}

	after, err := e.ComputeProgression(next.Classes)
	if err != nil {
		return nil, err
	}

	features = append(features, e.classFeatures(class, entry.Level)...)
	features = append(features, e.progressionChanges(class, entry.Level, before, after, next.Abilities)...)

	return &LevelUpOutput{
		State:           next,
		Class:           class.Key,
		ClassLevel:      entry.Level,
		HitDieResult:    dieResult,
		HitPointsGained: next.MaxHitPoints - state.MaxHitPoints,
		Features:        features,
		SpellSlots:      ComputeSpellSlots(after.CasterLevel),
		PactMagic:       ComputePactMagic(after.PactLevel),
	}, nil
}

func (e *Engine) classFeatures(class *rulebook.Class, classLevel int) []*GrantedFeature {
	var out []*GrantedFeature
	for _, f := range e.rules.FeaturesAt(class.Key, classLevel) {
		out = append(out, &GrantedFeature{Kind: FeatureClass, Key: f.Key, Name: f.Name})
	}
	return out
}

// progressionChanges describes the derived values that moved between two summaries
func (e *Engine) progressionChanges(class *rulebook.Class, classLevel int, before, after *Summary, scores shared.AbilityScores) []*GrantedFeature {
	var out []*GrantedFeature

	if after.ProficiencyBonus > before.ProficiencyBonus {
		out = append(out, &GrantedFeature{
			Kind:        FeatureProficiencyBonus,
			Key:         "proficiency-bonus",
			Name:        "Proficiency Bonus",
			Description: fmt.Sprintf("Proficiency bonus is now +%d", after.ProficiencyBonus),
		})
	}

	oldSlots := ComputeSpellSlots(before.CasterLevel)
	newSlots := ComputeSpellSlots(after.CasterLevel)
	var gained []string
	for spellLevel := 1; spellLevel <= 9; spellLevel++ {
		if d := newSlots[spellLevel] - oldSlots[spellLevel]; d > 0 {
			gained = append(gained, fmt.Sprintf("+%d level %d", d, spellLevel))
		}
	}
	if len(gained) > 0 {
		out = append(out, &GrantedFeature{
			Kind:        FeatureSpellSlots,
			Key:         "spell-slots",
			Name:        "Spell Slots",
			Description: strings.Join(gained, ", "),
		})
	}

	oldPact := ComputePactMagic(before.PactLevel)
	newPact := ComputePactMagic(after.PactLevel)
	if newPact != oldPact {
		out = append(out, &GrantedFeature{
			Kind:        FeaturePactMagic,
			Key:         "pact-magic",
			Name:        "Pact Magic",
			Description: fmt.Sprintf("%d pact slots of level %d", newPact.Slots, newPact.SlotLevel),
		})
	}

	for _, def := range e.rules.Resources(class.Key) {
		if classLevel < def.MinLevel {
			continue
		}
		newMax := def.Max(classLevel, scores)
		if classLevel > def.MinLevel && def.Max(classLevel-1, scores) == newMax {
			continue
		}
		out = append(out, &GrantedFeature{
			Kind:        FeatureResource,
			Key:         def.Key,
			Name:        def.Name,
			Description: describeResourceMax(newMax, def.Recovery(classLevel)),
		})
	}

	return out
}

func describeResourceMax(n int, rest rulebook.RestType) string {
	if n == rulebook.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d per %s", n, strings.ReplaceAll(string(rest), "_", " "))
}

// ASIChoice resolves a pending ability score improvement. Set either
// Increases (+2 to one ability or +1 to two) or Feat.
type ASIChoice struct {
	Increases map[shared.Attribute]int `json:"increases,omitempty"`

	Feat string `json:"feat,omitempty"`
	// FeatAbility picks the ability for feats that offer a choice of +1
	FeatAbility shared.Attribute `json:"feat_ability,omitempty"`
}

// ResolveASI spends the choice owed at level. Ability increases are clamped
// at 20 rather than rejected.
func (e *Engine) ResolveASI(state *State, level int, choice *ASIChoice) (*State, error) {
	if err := e.validateState(state); err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, errors.InvalidArgument("choice is required")
	}

	hasIncreases := len(choice.Increases) > 0
	hasFeat := strings.TrimSpace(choice.Feat) != ""
	if hasIncreases == hasFeat {
		return nil, errors.InvalidArgument("choose either ability increases or a feat")
	}

	if !state.IsASIPending(level) {
		return nil, errors.RuleViolationf("no ability score improvement is pending at level %d", level).
			WithMeta("level", level).
			WithMeta("pending", append([]int(nil), state.PendingASILevels...))
	}

	next := state.Clone()
	if hasIncreases {
		if err := validateIncreases(choice.Increases); err != nil {
			return nil, err
		}
		for _, attr := range sortedAttributes(choice.Increases) {
			next.Abilities = next.Abilities.Increase(attr, choice.Increases[attr])
		}
	} else {
		if err := e.applyFeat(next, choice); err != nil {
			return nil, err
		}
	}

	next.removePendingASI(level)
	e.recomputeHitPoints(next)
	return next, nil
}

func validateIncreases(increases map[shared.Attribute]int) error {
	total := 0
	for attr, amount := range increases {
		if !attr.Valid() {
			return errors.InvalidArgumentf("unknown ability %q", attr)
		}
		if amount < 1 || amount > 2 {
			return errors.InvalidArgumentf("%s increase must be 1 or 2, got %d", attr, amount).
				WithMeta("ability", string(attr))
		}
		total += amount
	}
	if total != 2 {
		return errors.InvalidArgumentf("ability increases must total 2, got %d", total).
			WithMeta("actual", total)
	}
	return nil
}

func sortedAttributes(m map[shared.Attribute]int) []shared.Attribute {
	var out []shared.Attribute
	for _, attr := range shared.Attributes {
		if _, ok := m[attr]; ok {
			out = append(out, attr)
		}
	}
	return out
}

func (e *Engine) applyFeat(state *State, choice *ASIChoice) error {
	feat, err := e.rules.Feat(choice.Feat)
	if err != nil {
		return err
	}

	if state.HasFeat(feat.Key) && !feat.Repeatable {
		return errors.RuleViolationf("%s has already been taken", feat.Name).
			WithMeta("feat", feat.Key)
	}

	if result := checkFeat(feat, state.Level, state.Abilities, state.Proficiencies); !result.Met {
		return result.Err(fmt.Sprintf("cannot take %s", feat.Name))
	}

	if feat.RequiresSpellcasting && !e.canCastSpells(state) {
		return errors.RuleViolationf("%s requires the ability to cast at least one spell", feat.Name).
			WithMeta("feat", feat.Key)
	}

	if inc := feat.AbilityIncrease; inc != nil {
		attr, err := pickFeatAbility(feat, choice.FeatAbility)
		if err != nil {
			return err
		}
		state.Abilities = state.Abilities.Increase(attr, inc.Amount)
	}

	state.Feats = append(state.Feats, feat.Key)
	return nil
}

func pickFeatAbility(feat *rulebook.Feat, picked shared.Attribute) (shared.Attribute, error) {
	options := feat.AbilityIncrease.Options
	if len(options) == 1 && (picked == "" || picked == options[0]) {
		return options[0], nil
	}
	if picked == "" {
		return "", errors.InvalidArgumentf("%s requires choosing an ability to increase", feat.Name).
			WithMeta("feat", feat.Key)
	}
	for _, o := range options {
		if o == picked {
			return o, nil
		}
	}

	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.Short()
	}
	return "", errors.InvalidArgumentf("%s can increase %s, not %s", feat.Name, strings.Join(names, "/"), picked).
		WithMeta("feat", feat.Key).
		WithMeta("ability", string(picked))
}

// canCastSpells is true when any class grants spell slots or pact magic at
// its current level
func (e *Engine) canCastSpells(state *State) bool {
	summary, err := e.ComputeProgression(state.Classes)
	if err != nil {
		return false
	}
	return len(ComputeSpellSlots(summary.CasterLevel)) > 0 || summary.PactLevel > 0
}

// ResolveSubclass records the subclass for a class that has reached its
// unlock level without one
func (e *Engine) ResolveSubclass(state *State, className, subclassName string) (*State, error) {
	if err := e.validateState(state); err != nil {
		return nil, err
	}

	class, err := e.rules.Class(className)
	if err != nil {
		return nil, err
	}

	if !state.PendingSubclassSelection {
		return nil, errors.RuleViolation("no subclass selection is pending")
	}

	entry := state.ClassEntry(class.Key)
	if entry == nil {
		return nil, errors.RuleViolationf("character has no %s levels", class.Name).
			WithMeta("class", string(class.Key))
	}
	if entry.Subclass != "" {
		return nil, errors.RuleViolationf("%s subclass is already %s", class.Name, rulebook.DisplayName(entry.Subclass)).
			WithMeta("class", string(class.Key))
	}
	if entry.Level < class.SubclassLevel {
		return nil, errors.RuleViolationf("%s subclass unlocks at level %d (have %d)", class.Name, class.SubclassLevel, entry.Level).
			WithMeta("class", string(class.Key)).
			WithMeta("required", class.SubclassLevel).
			WithMeta("actual", entry.Level)
	}

	subclass, ok := class.Subclass(subclassName)
	if !ok {
		valid := make([]string, len(class.Subclasses))
		for i, sc := range class.Subclasses {
			valid[i] = sc.Key
		}
		sort.Strings(valid)
		return nil, errors.RuleViolationf("%q is not a %s subclass (choose from %s)", subclassName, class.Name, strings.Join(valid, ", ")).
			WithMeta("class", string(class.Key)).
			WithMeta("subclass", subclassName)
	}

	next := state.Clone()
	next.ClassEntry(class.Key).Subclass = subclass.Key
	e.recomputePendingSubclass(next)
	return next, nil
}

// ExperienceOutput reports the effect of an XP award
type ExperienceOutput struct {
	State *State `json:"state"`
	// LevelsAvailable is how many level-ups the new total allows
	LevelsAvailable int `json:"levels_available"`
	// NextLevelAt is the XP total for the next level, 0 at the cap
	NextLevelAt int `json:"next_level_at"`
}

// AwardExperience adds a non-negative amount of XP
func (e *Engine) AwardExperience(state *State, amount int) (*ExperienceOutput, error) {
	if err := e.validateState(state); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, errors.InvalidArgumentf("experience award cannot be negative, got %d", amount)
	}

	next := state.Clone()
	next.Experience += amount

	available := rulebook.LevelForExperience(next.Experience) - next.Level
	if available < 0 {
		available = 0
	}

	return &ExperienceOutput{
		State:           next,
		LevelsAvailable: available,
		NextLevelAt:     rulebook.ExperienceForLevel(next.Level + 1),
	}, nil
}
