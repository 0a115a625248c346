package progression

//go:generate mockgen -destination=mock/mock_service.go -package=mockprogression -source=service.go

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	"github.com/KirkDiggler/dnd-progression/internal/clients/dnd5e"
	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
	"github.com/KirkDiggler/dnd-progression/internal/repositories/characters"
)

// Service runs progression rules against stored characters. Every mutating
// call reads the record, applies one engine transition, writes it back
// under a version check and then publishes an event.
type Service interface {
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GetCharacter(ctx context.Context, characterID string) (*character.Record, error)
	ListCharacters(ctx context.Context, ownerID string) ([]*character.Record, error)
	DeleteCharacter(ctx context.Context, characterID string) error

	LevelUp(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error)
	ResolveASI(ctx context.Context, input *ResolveASIInput) (*character.Record, error)
	ResolveSubclass(ctx context.Context, input *ResolveSubclassInput) (*character.Record, error)
	AwardExperience(ctx context.Context, input *AwardExperienceInput) (*AwardExperienceOutput, error)

	ExpendSpellSlot(ctx context.Context, input *ExpendSpellSlotInput) (*character.Record, error)
	ExpendResource(ctx context.Context, input *ExpendResourceInput) (*character.Record, error)
	TakeDamage(ctx context.Context, input *TakeDamageInput) (*character.Record, error)
	ShortRest(ctx context.Context, input *ShortRestInput) (*ShortRestOutput, error)
	LongRest(ctx context.Context, characterID string) (*character.Record, error)

	SpellSlots(ctx context.Context, characterID string) (*SpellSlotsOutput, error)
}

// EventPublisher receives an event after each successful write
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, record *character.Record, data map[string]any) error
}

// CreateCharacterInput contains the creation choices for a new character
type CreateCharacterInput struct {
	OwnerID       string
	Name          string
	Race          string
	Class         string
	Method        progression.AllocationMethod
	Scores        map[string]int
	Proficiencies []string
	Experience    int
}

// CreateCharacterOutput contains the stored character and creation notes
type CreateCharacterOutput struct {
	Record *character.Record
	// Warnings are non-fatal notes from manual allocation
	Warnings []string
	// SkippedBonuses are race bonus entries that could not be read
	SkippedBonuses []string
}

type LevelUpInput struct {
	CharacterID string
	Class       string
}

type LevelUpOutput struct {
	Record *character.Record
	Result *progression.LevelUpOutput
}

type ResolveASIInput struct {
	CharacterID string
	Level       int
	Choice      *progression.ASIChoice
}

type ResolveSubclassInput struct {
	CharacterID string
	Class       string
	Subclass    string
}

type AwardExperienceInput struct {
	CharacterID string
	Amount      int
}

type AwardExperienceOutput struct {
	Record          *character.Record
	LevelsAvailable int
	NextLevelAt     int
}

type ExpendSpellSlotInput struct {
	CharacterID string
	SpellLevel  int
	Pact        bool
}

type ExpendResourceInput struct {
	CharacterID string
	Resource    string
	Amount      int
}

type TakeDamageInput struct {
	CharacterID string
	Amount      int
}

type ShortRestInput struct {
	CharacterID string
	// HitDice maps die size to how many of that size to spend
	HitDice map[int]int
}

type ShortRestOutput struct {
	Record            *character.Record
	HitDieResults     []int
	HitPointsRestored int
}

// SpellSlotsOutput is a read-only view of a character's casting
type SpellSlotsOutput struct {
	Summary   *progression.Summary
	Max       map[int]int
	Remaining map[int]int
	Pact      progression.PactPool
}

type service struct {
	engine     *progression.Engine
	repository characters.Repository
	publisher  EventPublisher
	dndClient  dnd5e.Client
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Engine     *progression.Engine   // Required
	Repository characters.Repository // Required
	// Publisher defaults to a fresh rpg-toolkit bus
	Publisher EventPublisher
	// DNDClient resolves races missing from the bundled catalog. Optional.
	DNDClient dnd5e.Client
}

// NewService creates a new progression service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("service config is required")
	}
	if cfg.Engine == nil {
		panic("engine is required")
	}
	if cfg.Repository == nil {
		panic("repository is required")
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = rpgtoolkit.NewPublisher(nil)
	}

	return &service{
		engine:     cfg.Engine,
		repository: cfg.Repository,
		publisher:  publisher,
		dndClient:  cfg.DNDClient,
	}
}

// mutate loads a record, lets fn change it and writes it back. Nothing is
// written when fn fails.
func (s *service) mutate(ctx context.Context, op, characterID string, fn func(record *character.Record) error) (*character.Record, error) {
	if characterID == "" {
		return nil, s.reject(op, characterID, dnderr.InvalidArgument("character ID is required"))
	}

	record, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get character %s", characterID).
			WithMeta("operation", op)
	}
	if record.State == nil || record.Resources == nil {
		return nil, dnderr.Internalf("character %s has no progression state", characterID).
			WithMeta("operation", op)
	}

	if err := fn(record); err != nil {
		return nil, s.reject(op, characterID, err)
	}

	if err := s.repository.Update(ctx, record); err != nil {
		return nil, dnderr.Wrapf(err, "failed to save character %s", characterID).
			WithMeta("operation", op)
	}

	return record, nil
}

func (s *service) reject(op, characterID string, err error) error {
	log.Printf("[PROGRESSION] %s rejected for %s: %v", op, characterID, err)
	return err
}

func (s *service) publish(ctx context.Context, eventType string, record *character.Record, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data[rpgtoolkit.ContextOwnerID] = record.OwnerID
	data[rpgtoolkit.ContextLevel] = record.Level()

	rpgtoolkit.LogEventError(eventType, s.publisher.Publish(ctx, eventType, record, data))
}
