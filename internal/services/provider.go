package services

import (
	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	"github.com/KirkDiggler/dnd-progression/internal/clients/dnd5e"
	"github.com/KirkDiggler/dnd-progression/internal/dice"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/repositories/characters"
	progressionService "github.com/KirkDiggler/dnd-progression/internal/services/progression"
)

// Provider holds all service instances
type Provider struct {
	Engine             *progression.Engine
	Publisher          *rpgtoolkit.Publisher
	ProgressionService progressionService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	// Rules defaults to rulebook.Standard()
	Rules               *rulebook.Rules
	Roller              dice.Roller
	HitPointMethod      progression.HitPointMethod
	RequireExperience   bool
	DNDClient           dnd5e.Client
	CharacterRepository characters.Repository
	Publisher           *rpgtoolkit.Publisher
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	rules := cfg.Rules
	if rules == nil {
		rules = rulebook.Standard()
	}

	// Use in-memory repository if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = rpgtoolkit.NewPublisher(nil)
	}

	engine := progression.NewEngine(&progression.EngineConfig{
		Rules:             rules,
		Roller:            cfg.Roller,
		HitPointMethod:    cfg.HitPointMethod,
		RequireExperience: cfg.RequireExperience,
	})

	svc := progressionService.NewService(&progressionService.ServiceConfig{
		Engine:     engine,
		Repository: charRepo,
		Publisher:  publisher,
		DNDClient:  cfg.DNDClient,
	})

	return &Provider{
		Engine:             engine,
		Publisher:          publisher,
		ProgressionService: svc,
	}
}
