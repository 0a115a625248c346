package progression

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
)

// RacialBonus is one parsed ability adjustment from a race
type RacialBonus struct {
	Attribute shared.Attribute `json:"attribute"`
	Bonus     int              `json:"bonus"`
}

func (b RacialBonus) String() string {
	return fmt.Sprintf("%s %+d", b.Attribute.Short(), b.Bonus)
}

// ParseRacialBonuses reads "<ability> <signed int>" entries such as
// "dex +2", "Constitution: 1" or "cha-1". Entries that cannot be read are
// returned in skipped rather than failing the whole spec.
func ParseRacialBonuses(spec []string) (bonuses []RacialBonus, skipped []string) {
	for _, entry := range spec {
		bonus, ok := parseRacialBonus(entry)
		if !ok {
			skipped = append(skipped, entry)
			continue
		}
		bonuses = append(bonuses, bonus)
	}
	return bonuses, skipped
}

func parseRacialBonus(entry string) (RacialBonus, bool) {
	entry = strings.TrimSpace(entry)
	split := strings.IndexFunc(entry, func(r rune) bool {
		return r == '+' || r == '-' || unicode.IsDigit(r)
	})
	if split <= 0 {
		return RacialBonus{}, false
	}

	name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(entry[:split]), ":="))
	attr, ok := shared.ParseAttribute(name)
	if !ok {
		return RacialBonus{}, false
	}

	value, err := strconv.Atoi(strings.ReplaceAll(entry[split:], " ", ""))
	if err != nil {
		return RacialBonus{}, false
	}

	return RacialBonus{Attribute: attr, Bonus: value}, true
}

// ApplyRacialBonuses adds a race's parsed bonuses to base. The base set is
// not modified; the parsed bonuses are returned for display.
func ApplyRacialBonuses(base shared.AbilityScores, spec []string) (shared.AbilityScores, []RacialBonus) {
	bonuses, _ := ParseRacialBonuses(spec)

	out := base
	for _, b := range bonuses {
		out = out.Add(b.Attribute, b.Bonus)
	}
	return out, bonuses
}
