package progression

import (
	"sort"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// SlotPool tracks standard spell slots as maximum and expended per spell
// level. Remaining is always derived.
type SlotPool struct {
	Max      map[int]int `json:"max"`
	Expended map[int]int `json:"expended"`
}

// Remaining returns unexpended slots at a spell level
func (p *SlotPool) Remaining(spellLevel int) int {
	return p.Max[spellLevel] - p.Expended[spellLevel]
}

// RemainingAll returns spell level -> remaining for every level with slots
func (p *SlotPool) RemainingAll() map[int]int {
	out := make(map[int]int, len(p.Max))
	for level := range p.Max {
		out[level] = p.Remaining(level)
	}
	return out
}

// PactPool tracks pact magic slots, which all share one slot level
type PactPool struct {
	SlotLevel int `json:"slot_level"`
	Max       int `json:"max"`
	Expended  int `json:"expended"`
}

// Remaining returns unexpended pact slots
func (p *PactPool) Remaining() int {
	return p.Max - p.Expended
}

// HitDicePool maps die size to maximum and remaining dice
type HitDicePool struct {
	Max       map[int]int `json:"max"`
	Remaining map[int]int `json:"remaining"`
}

// Sizes returns the die sizes in the pool, largest first
func (p *HitDicePool) Sizes() []int {
	sizes := make([]int, 0, len(p.Max))
	for size := range p.Max {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// ClassResource is a per-class counter such as ki or rage
type ClassResource struct {
	Key      string            `json:"key"`
	Name     string            `json:"name"`
	Class    rulebook.ClassKey `json:"class"`
	Max      int               `json:"max"`
	Current  int               `json:"current"`
	Recovery rulebook.RestType `json:"recovery"`
}

// Unlimited reports whether the resource has no cap
func (r *ClassResource) Unlimited() bool {
	return r.Max == rulebook.Unlimited
}

// ResourcePool is every consumable a character tracks between rests
type ResourcePool struct {
	HitPoints  shared.HPResource         `json:"hit_points"`
	SpellSlots SlotPool                  `json:"spell_slots"`
	PactSlots  PactPool                  `json:"pact_slots"`
	HitDice    HitDicePool               `json:"hit_dice"`
	Resources  map[string]*ClassResource `json:"resources"`
}

// Clone deep copies the pool
func (p *ResourcePool) Clone() *ResourcePool {
	if p == nil {
		return nil
	}

	out := &ResourcePool{
		HitPoints: p.HitPoints,
		SpellSlots: SlotPool{
			Max:      copyIntMap(p.SpellSlots.Max),
			Expended: copyIntMap(p.SpellSlots.Expended),
		},
		PactSlots: p.PactSlots,
		HitDice: HitDicePool{
			Max:       copyIntMap(p.HitDice.Max),
			Remaining: copyIntMap(p.HitDice.Remaining),
		},
		Resources: make(map[string]*ClassResource, len(p.Resources)),
	}
	for k, r := range p.Resources {
		cp := *r
		out.Resources[k] = &cp
	}
	return out
}

func copyIntMap(in map[int]int) map[int]int {
	out := make(map[int]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// NewResourcePool builds a fully rested pool for a state
func (e *Engine) NewResourcePool(state *State) (*ResourcePool, error) {
	if err := e.validateState(state); err != nil {
		return nil, err
	}
	return e.buildPool(state)
}

func (e *Engine) buildPool(state *State) (*ResourcePool, error) {
	summary, err := e.ComputeProgression(state.Classes)
	if err != nil {
		return nil, err
	}

	pact := ComputePactMagic(summary.PactLevel)
	pool := &ResourcePool{
		HitPoints: shared.HPResource{Current: state.MaxHitPoints, Max: state.MaxHitPoints},
		SpellSlots: SlotPool{
			Max:      ComputeSpellSlots(summary.CasterLevel),
			Expended: map[int]int{},
		},
		PactSlots: PactPool{SlotLevel: pact.SlotLevel, Max: pact.Slots},
		HitDice: HitDicePool{
			Max:       copyIntMap(summary.HitDice),
			Remaining: copyIntMap(summary.HitDice),
		},
		Resources: map[string]*ClassResource{},
	}

	for _, entry := range state.Classes {
		for _, def := range e.rules.Resources(entry.Class) {
			if entry.Level < def.MinLevel {
				continue
			}
			maxValue := def.Max(entry.Level, state.Abilities)
			pool.Resources[def.Key] = &ClassResource{
				Key:      def.Key,
				Name:     def.Name,
				Class:    entry.Class,
				Max:      maxValue,
				Current:  maxValue,
				Recovery: def.Recovery(entry.Level),
			}
		}
	}

	return pool, nil
}

// SyncResourcePool rebuilds maxima after the state changed (level-up,
// subclass, ASI) while carrying over what has been spent. New resources
// start full and hit points rise by the gain in maximum.
func (e *Engine) SyncResourcePool(pool *ResourcePool, state *State) (*ResourcePool, error) {
	if pool == nil {
		return nil, errors.InvalidArgument("resource pool is required")
	}
	if err := e.validateState(state); err != nil {
		return nil, err
	}

	fresh, err := e.buildPool(state)
	if err != nil {
		return nil, err
	}

	fresh.HitPoints = pool.HitPoints
	fresh.HitPoints.SetMax(state.MaxHitPoints)

	for level, slots := range fresh.SpellSlots.Max {
		fresh.SpellSlots.Expended[level] = clamp(pool.SpellSlots.Expended[level], 0, slots)
	}
	if fresh.PactSlots.Max > 0 {
		fresh.PactSlots.Expended = clamp(pool.PactSlots.Expended, 0, fresh.PactSlots.Max)
	}

	for size, dice := range fresh.HitDice.Max {
		spent := pool.HitDice.Max[size] - pool.HitDice.Remaining[size]
		fresh.HitDice.Remaining[size] = clamp(dice-spent, 0, dice)
	}

	for key, res := range fresh.Resources {
		old, ok := pool.Resources[key]
		if !ok || res.Unlimited() {
			continue
		}
		spent := 0
		if !old.Unlimited() {
			spent = old.Max - old.Current
		}
		res.Current = clamp(res.Max-spent, 0, res.Max)
	}

	return fresh, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ExpendSpellSlot spends one slot. With pact set the pact pool is used and
// spellLevel must be 0 or the pact slot level.
func ExpendSpellSlot(pool *ResourcePool, spellLevel int, pact bool) (*ResourcePool, error) {
	if pool == nil {
		return nil, errors.InvalidArgument("resource pool is required")
	}

	if pact {
		if pool.PactSlots.Max == 0 {
			return nil, errors.RuleViolation("character has no pact magic slots")
		}
		if spellLevel != 0 && spellLevel != pool.PactSlots.SlotLevel {
			return nil, errors.RuleViolationf("pact slots are level %d, not %d", pool.PactSlots.SlotLevel, spellLevel).
				WithMeta("required", pool.PactSlots.SlotLevel).
				WithMeta("actual", spellLevel)
		}
		if pool.PactSlots.Remaining() <= 0 {
			return nil, errors.RuleViolation("no pact magic slots remaining")
		}
		next := pool.Clone()
		next.PactSlots.Expended++
		return next, nil
	}

	if spellLevel < 1 || spellLevel > 9 {
		return nil, errors.InvalidArgumentf("spell level must be 1-9, got %d", spellLevel)
	}
	if pool.SpellSlots.Max[spellLevel] == 0 {
		return nil, errors.RuleViolationf("character has no level %d spell slots", spellLevel).
			WithMeta("level", spellLevel)
	}
	if pool.SpellSlots.Remaining(spellLevel) <= 0 {
		return nil, errors.RuleViolationf("no level %d spell slots remaining", spellLevel).
			WithMeta("level", spellLevel)
	}

	next := pool.Clone()
	next.SpellSlots.Expended[spellLevel]++
	return next, nil
}

// ExpendResource spends amount from a class resource. Unlimited resources
// never run out.
func ExpendResource(pool *ResourcePool, key string, amount int) (*ResourcePool, error) {
	if pool == nil {
		return nil, errors.InvalidArgument("resource pool is required")
	}
	if amount < 1 {
		return nil, errors.InvalidArgumentf("amount must be positive, got %d", amount)
	}

	normalized := rulebook.NormalizeKey(key)
	res, ok := pool.Resources[normalized]
	if !ok {
		return nil, errors.InvalidArgumentf("character has no resource %q", key).
			WithMeta("resource", key)
	}
	if res.Unlimited() {
		return pool.Clone(), nil
	}
	if res.Current < amount {
		return nil, errors.RuleViolationf("%s has %d remaining, cannot spend %d", res.Name, res.Current, amount).
			WithMeta("resource", res.Key).
			WithMeta("required", amount).
			WithMeta("actual", res.Current)
	}

	next := pool.Clone()
	next.Resources[normalized].Current -= amount
	return next, nil
}

// TakeDamage reduces hit points, temporary hit points first
func TakeDamage(pool *ResourcePool, amount int) (*ResourcePool, error) {
	if pool == nil {
		return nil, errors.InvalidArgument("resource pool is required")
	}
	if amount < 0 {
		return nil, errors.InvalidArgumentf("damage cannot be negative, got %d", amount)
	}

	next := pool.Clone()
	next.HitPoints.Damage(amount)
	return next, nil
}
