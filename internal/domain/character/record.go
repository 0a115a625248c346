package character

import (
	"time"

	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
)

// Record is a finalized character as the record store keeps it: identity,
// creation choices, and the progression state and resource pool that only
// the engine mutates
type Record struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Race    string `json:"race"`

	AllocationMethod progression.AllocationMethod `json:"allocation_method"`
	BaseAbilities    shared.AbilityScores         `json:"base_abilities"`
	RacialBonuses    []progression.RacialBonus    `json:"racial_bonuses,omitempty"`

	State     *progression.State        `json:"state"`
	Resources *progression.ResourcePool `json:"resources"`

	// Version increments on every successful write; an update carrying a
	// stale version is rejected
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone deep copies the record so callers can mutate freely
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.RacialBonuses = append([]progression.RacialBonus(nil), r.RacialBonuses...)
	out.State = r.State.Clone()
	out.Resources = r.Resources.Clone()
	return &out
}

// Level is the total character level, 0 for a record without state
func (r *Record) Level() int {
	if r.State == nil {
		return 0
	}
	return r.State.Level
}
