package dnd5e

//go:generate mockgen -destination=mock/mock_client.go -package=mockdnd5e . Client

import (
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
)

// Client reads race and class rule data from the D&D 5e SRD API
type Client interface {
	ListRaceKeys() ([]string, error)
	GetRace(key string) (*rulebook.Race, error)
	GetClassHitDie(key string) (int, error)
}
