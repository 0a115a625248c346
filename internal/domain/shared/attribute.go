package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

// Attribute names one of the six ability scores
type Attribute string

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "strength"
	AttributeDexterity    Attribute = "dexterity"
	AttributeConstitution Attribute = "constitution"
	AttributeIntelligence Attribute = "intelligence"
	AttributeWisdom       Attribute = "wisdom"
	AttributeCharisma     Attribute = "charisma"
)

// Attributes lists the six abilities in sheet order
var Attributes = []Attribute{
	AttributeStrength,
	AttributeDexterity,
	AttributeConstitution,
	AttributeIntelligence,
	AttributeWisdom,
	AttributeCharisma,
}

var attributeAliases = map[string]Attribute{
	"strength":     AttributeStrength,
	"str":          AttributeStrength,
	"dexterity":    AttributeDexterity,
	"dex":          AttributeDexterity,
	"constitution": AttributeConstitution,
	"con":          AttributeConstitution,
	"intelligence": AttributeIntelligence,
	"int":          AttributeIntelligence,
	"wisdom":       AttributeWisdom,
	"wis":          AttributeWisdom,
	"charisma":     AttributeCharisma,
	"cha":          AttributeCharisma,
}

var folder = cases.Fold()

// ParseAttribute resolves a full or abbreviated ability name, ignoring case
func ParseAttribute(s string) (Attribute, bool) {
	attr, ok := attributeAliases[folder.String(strings.TrimSpace(s))]
	return attr, ok
}

// Short returns the three letter abbreviation (STR, DEX, ...)
func (a Attribute) Short() string {
	if len(a) < 3 {
		return strings.ToUpper(string(a))
	}
	return strings.ToUpper(string(a[:3]))
}

// Valid reports whether a is one of the six abilities
func (a Attribute) Valid() bool {
	switch a {
	case AttributeStrength, AttributeDexterity, AttributeConstitution,
		AttributeIntelligence, AttributeWisdom, AttributeCharisma:
		return true
	}
	return false
}
