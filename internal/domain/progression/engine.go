// Package progression is the rules engine for character advancement: score
// allocation, multiclass aggregation, spell slots, the leveling state machine
// and rest recovery. Every operation takes its inputs by value or clones them
// before mutating, so a rejected call leaves the caller's data untouched.
package progression

import (
	"github.com/KirkDiggler/dnd-progression/internal/dice"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// HitPointMethod selects how hit dice are resolved on level-up and short rest
type HitPointMethod string

const (
	// HitPointsFixed uses the rounded-up die average
	HitPointsFixed HitPointMethod = "fixed"
	// HitPointsRolled rolls the die
	HitPointsRolled HitPointMethod = "rolled"
)

// ParseHitPointMethod accepts "fixed" or "rolled"; empty means fixed
func ParseHitPointMethod(s string) (HitPointMethod, error) {
	switch HitPointMethod(rulebook.NormalizeKey(s)) {
	case "", HitPointsFixed:
		return HitPointsFixed, nil
	case HitPointsRolled:
		return HitPointsRolled, nil
	}
	return "", errors.InvalidArgumentf("unknown hit point method %q", s)
}

// Engine applies the rules in a rulebook.Rules. It holds no per-character
// state and is safe for concurrent use when its Roller is.
type Engine struct {
	rules          *rulebook.Rules
	roller         dice.Roller
	hitPointMethod HitPointMethod
	requireXP      bool
}

// EngineConfig configures an Engine
type EngineConfig struct {
	Rules  *rulebook.Rules
	Roller dice.Roller

	// HitPointMethod defaults to HitPointsFixed
	HitPointMethod HitPointMethod

	// RequireExperience gates level-up on the XP table instead of milestones
	RequireExperience bool
}

// NewEngine creates an engine. Rules are required; a nil Roller falls back
// to the random roller.
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg == nil {
		panic("engine config is required")
	}
	if cfg.Rules == nil {
		panic("rules are required")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	method := cfg.HitPointMethod
	if method == "" {
		method = HitPointsFixed
	}

	return &Engine{
		rules:          cfg.Rules,
		roller:         roller,
		hitPointMethod: method,
		requireXP:      cfg.RequireExperience,
	}
}

// Rules exposes the rule set the engine was built with
func (e *Engine) Rules() *rulebook.Rules {
	return e.rules
}

// hitDieValue resolves one hit die by the configured method
func (e *Engine) hitDieValue(sides int) (int, error) {
	if e.hitPointMethod != HitPointsRolled {
		return dice.Average(sides), nil
	}

	result, err := e.roller.Roll(1, sides, 0)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeInternal, "failed to roll hit die")
	}
	return result.RawTotal, nil
}
