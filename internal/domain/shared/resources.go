package shared

// HPResource tracks hit points and temporary HP
type HPResource struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// Damage applies damage, using temp HP first. Returns the damage taken.
func (hp *HPResource) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}

	remaining := amount
	if hp.Temporary > 0 {
		if hp.Temporary >= remaining {
			hp.Temporary -= remaining
			return amount
		}
		remaining -= hp.Temporary
		hp.Temporary = 0
	}

	hp.Current -= remaining
	if hp.Current < 0 {
		hp.Current = 0
	}

	return amount
}

// Heal restores hit points up to max and returns how many were restored
func (hp *HPResource) Heal(amount int) int {
	if amount <= 0 || hp.Current >= hp.Max {
		return 0
	}

	before := hp.Current
	hp.Current += amount
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}

	return hp.Current - before
}

// AddTemporaryHP adds temporary hit points (doesn't stack)
func (hp *HPResource) AddTemporaryHP(amount int) {
	if amount > hp.Temporary {
		hp.Temporary = amount
	}
}

// SetMax changes the maximum and moves current by the same delta, so a
// level-up heals by the gain and a lowered max never leaves current above it
func (hp *HPResource) SetMax(newMax int) {
	delta := newMax - hp.Max
	hp.Max = newMax
	hp.Current += delta
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}
	if hp.Current < 0 {
		hp.Current = 0
	}
}

// Restore fills current to max and drops temporary hit points
func (hp *HPResource) Restore() {
	hp.Current = hp.Max
	hp.Temporary = 0
}

// Missing is how far current is below max
func (hp *HPResource) Missing() int {
	return hp.Max - hp.Current
}
