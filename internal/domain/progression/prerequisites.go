package progression

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// UnmetRequirement is one failed prerequisite
type UnmetRequirement struct {
	Attribute   shared.Attribute `json:"attribute,omitempty"`
	Proficiency string           `json:"proficiency,omitempty"`
	Required    int              `json:"required,omitempty"`
	Actual      int              `json:"actual,omitempty"`
	Message     string           `json:"message"`
}

// PrerequisiteResult reports whether prerequisites hold and, if not, why
type PrerequisiteResult struct {
	Met   bool                `json:"met"`
	Unmet []*UnmetRequirement `json:"unmet,omitempty"`
}

// Reason joins the unmet messages
func (r *PrerequisiteResult) Reason() string {
	msgs := make([]string, len(r.Unmet))
	for i, u := range r.Unmet {
		msgs[i] = u.Message
	}
	return strings.Join(msgs, "; ")
}

// Err converts an unmet result into a rule violation, nil when met
func (r *PrerequisiteResult) Err(subject string) error {
	if r.Met {
		return nil
	}

	err := errors.RuleViolationf("%s: %s", subject, r.Reason())
	if len(r.Unmet) > 0 {
		first := r.Unmet[0]
		if first.Attribute != "" {
			err = err.WithMeta("ability", string(first.Attribute))
		}
		if first.Proficiency != "" {
			err = err.WithMeta("proficiency", first.Proficiency)
		}
		err = err.WithMeta("required", first.Required).WithMeta("actual", first.Actual)
	}
	return err
}

func scoreRequirement(attr shared.Attribute, required, actual int) *UnmetRequirement {
	return &UnmetRequirement{
		Attribute: attr,
		Required:  required,
		Actual:    actual,
		Message:   fmt.Sprintf("requires %s %d (have %d)", attr.Short(), required, actual),
	}
}

// CanMulticlass checks the ability minimums for taking a first level in a
// class. Fighter needs STR or DEX; Monk, Paladin and Ranger need both of
// their abilities; the rest need one. Whether the character already has
// levels in the class is the caller's concern (LevelUp skips the check).
func (e *Engine) CanMulticlass(className string, scores shared.AbilityScores) (*PrerequisiteResult, error) {
	class, err := e.rules.Class(className)
	if err != nil {
		return nil, err
	}
	return checkMulticlass(class, scores), nil
}

func checkMulticlass(class *rulebook.Class, scores shared.AbilityScores) *PrerequisiteResult {
	req := class.Multiclass
	result := &PrerequisiteResult{Met: true}

	if len(req.AnyOf) > 0 {
		var alternatives []string
		for _, m := range req.AnyOf {
			if scores.Get(m.Attribute) >= m.Minimum {
				return result
			}
			alternatives = append(alternatives, fmt.Sprintf("%s %d", m.Attribute.Short(), m.Minimum))
		}

		first := req.AnyOf[0]
		unmet := scoreRequirement(first.Attribute, first.Minimum, scores.Get(first.Attribute))
		unmet.Message = fmt.Sprintf("%s requires %s (have %s)", class.Name,
			strings.Join(alternatives, " or "), describeScores(scores, req.AnyOf))
		return &PrerequisiteResult{Unmet: []*UnmetRequirement{unmet}}
	}

	for _, m := range req.AllOf {
		actual := scores.Get(m.Attribute)
		if actual < m.Minimum {
			unmet := scoreRequirement(m.Attribute, m.Minimum, actual)
			unmet.Message = fmt.Sprintf("%s %s", class.Name, unmet.Message)
			result.Unmet = append(result.Unmet, unmet)
		}
	}
	result.Met = len(result.Unmet) == 0
	return result
}

func describeScores(scores shared.AbilityScores, mins []rulebook.AbilityMinimum) string {
	parts := make([]string, len(mins))
	for i, m := range mins {
		parts[i] = fmt.Sprintf("%s %d", m.Attribute.Short(), scores.Get(m.Attribute))
	}
	return strings.Join(parts, ", ")
}

// CheckFeatPrerequisites evaluates a feat's level, ability and proficiency
// requirements in that order and stops at the first unmet one.
// Proficiency names compare case-insensitively.
func (e *Engine) CheckFeatPrerequisites(featName string, level int, scores shared.AbilityScores, proficiencies []string) (*PrerequisiteResult, error) {
	feat, err := e.rules.Feat(featName)
	if err != nil {
		return nil, err
	}
	return checkFeat(feat, level, scores, proficiencies), nil
}

func checkFeat(feat *rulebook.Feat, level int, scores shared.AbilityScores, proficiencies []string) *PrerequisiteResult {
	if feat.MinLevel > 0 && level < feat.MinLevel {
		return &PrerequisiteResult{Unmet: []*UnmetRequirement{{
			Required: feat.MinLevel,
			Actual:   level,
			Message:  fmt.Sprintf("%s requires character level %d (have %d)", feat.Name, feat.MinLevel, level),
		}}}
	}

	for _, attr := range shared.Attributes {
		required := feat.MinScores.Get(attr)
		if required == 0 {
			continue
		}
		if actual := scores.Get(attr); actual < required {
			unmet := scoreRequirement(attr, required, actual)
			unmet.Message = fmt.Sprintf("%s %s", feat.Name, unmet.Message)
			return &PrerequisiteResult{Unmet: []*UnmetRequirement{unmet}}
		}
	}

	known := make(map[string]bool, len(proficiencies))
	for _, p := range proficiencies {
		known[rulebook.NormalizeKey(p)] = true
	}
	for _, p := range feat.RequiredProficiencies() {
		if !known[p] {
			return &PrerequisiteResult{Unmet: []*UnmetRequirement{{
				Proficiency: p,
				Message:     fmt.Sprintf("%s requires proficiency with %s", feat.Name, rulebook.DisplayName(p)),
			}}}
		}
	}

	return &PrerequisiteResult{Met: true}
}
