package shared

import "fmt"

// MaxAbilityScore is the ceiling for player-controlled increases
const MaxAbilityScore = 20

// AbilityScores is an immutable-by-convention set of the six scores.
// Methods return modified copies.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Modifier returns floor((score-10)/2)
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 && diff%2 != 0 {
		return diff/2 - 1
	}
	return diff / 2
}

// Get returns the score for an attribute, 0 for unknown attributes
func (s AbilityScores) Get(attr Attribute) int {
	switch attr {
	case AttributeStrength:
		return s.Strength
	case AttributeDexterity:
		return s.Dexterity
	case AttributeConstitution:
		return s.Constitution
	case AttributeIntelligence:
		return s.Intelligence
	case AttributeWisdom:
		return s.Wisdom
	case AttributeCharisma:
		return s.Charisma
	}
	return 0
}

// With returns a copy with attr set to score
func (s AbilityScores) With(attr Attribute, score int) AbilityScores {
	switch attr {
	case AttributeStrength:
		s.Strength = score
	case AttributeDexterity:
		s.Dexterity = score
	case AttributeConstitution:
		s.Constitution = score
	case AttributeIntelligence:
		s.Intelligence = score
	case AttributeWisdom:
		s.Wisdom = score
	case AttributeCharisma:
		s.Charisma = score
	}
	return s
}

// Add returns a copy with delta added to attr
func (s AbilityScores) Add(attr Attribute, delta int) AbilityScores {
	return s.With(attr, s.Get(attr)+delta)
}

// Increase adds delta to attr without exceeding MaxAbilityScore. A score
// already above the cap (from magic items, say) is left alone.
func (s AbilityScores) Increase(attr Attribute, delta int) AbilityScores {
	current := s.Get(attr)
	if current >= MaxAbilityScore {
		return s
	}
	next := current + delta
	if next > MaxAbilityScore {
		next = MaxAbilityScore
	}
	return s.With(attr, next)
}

// Modifier returns the modifier for attr
func (s AbilityScores) Modifier(attr Attribute) int {
	return Modifier(s.Get(attr))
}

// Map returns the scores keyed by attribute
func (s AbilityScores) Map() map[Attribute]int {
	out := make(map[Attribute]int, len(Attributes))
	for _, attr := range Attributes {
		out[attr] = s.Get(attr)
	}
	return out
}

// AbilityScoresFromMap builds a set from attribute keyed scores; missing attributes are 0
func AbilityScoresFromMap(m map[Attribute]int) AbilityScores {
	var s AbilityScores
	for attr, score := range m {
		s = s.With(attr, score)
	}
	return s
}

func (s AbilityScores) String() string {
	return fmt.Sprintf("STR %d DEX %d CON %d INT %d WIS %d CHA %d",
		s.Strength, s.Dexterity, s.Constitution, s.Intelligence, s.Wisdom, s.Charisma)
}
