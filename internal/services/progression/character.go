package progression

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
)

// CreateCharacter validates the allocation, applies racial bonuses and
// stores a level 1 character with a full resource pool
func (s *service) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, s.reject("CreateCharacter", "", err)
	}

	validation, err := progression.ValidateAbilityScores(input.Method, input.Scores)
	if err != nil {
		return nil, s.reject("CreateCharacter", input.Name, err)
	}

	race, err := s.lookupRace(input.Race)
	if err != nil {
		return nil, s.reject("CreateCharacter", input.Name, err)
	}

	bonuses, skipped := progression.ParseRacialBonuses(race.AbilityBonuses)
	for _, entry := range skipped {
		log.Printf("[PROGRESSION] Skipping unreadable %s bonus %q", race.Key, entry)
	}
	final, _ := progression.ApplyRacialBonuses(validation.Scores, race.AbilityBonuses)

	state, err := s.engine.NewState(&progression.NewStateInput{
		Class:         input.Class,
		Abilities:     final,
		Proficiencies: input.Proficiencies,
		Experience:    input.Experience,
	})
	if err != nil {
		return nil, s.reject("CreateCharacter", input.Name, err)
	}

	pool, err := s.engine.NewResourcePool(state)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to build resource pool")
	}

	record := &character.Record{
		OwnerID:          input.OwnerID,
		Name:             strings.TrimSpace(input.Name),
		Race:             race.Key,
		AllocationMethod: validation.Method,
		BaseAbilities:    validation.Scores,
		RacialBonuses:    bonuses,
		State:            state,
		Resources:        pool,
	}

	if err := s.repository.Create(ctx, record); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character").
			WithMeta("operation", "CreateCharacter")
	}

	log.Printf("[PROGRESSION] Created %s (%s) as %s %s 1, abilities %s",
		record.Name, record.ID, race.Key, state.Classes[0].Class, state.Abilities)
	s.publish(ctx, rpgtoolkit.EventCharacterCreated, record, map[string]any{
		rpgtoolkit.ContextClass: string(state.Classes[0].Class),
	})

	return &CreateCharacterOutput{
		Record:         record,
		Warnings:       validation.Warnings,
		SkippedBonuses: skipped,
	}, nil
}

func validateCreateInput(input *CreateCharacterInput) error {
	if input == nil {
		return dnderr.InvalidArgument("input is required")
	}

	var missing []string
	for field, value := range map[string]string{
		"owner_id": input.OwnerID,
		"name":     input.Name,
		"race":     input.Race,
		"class":    input.Class,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return dnderr.InvalidArgumentf("missing required fields: %s", strings.Join(missing, ", ")).
			WithMeta("fields", missing)
	}
	return nil
}

// lookupRace prefers the bundled catalog and falls back to the API client
func (s *service) lookupRace(name string) (*rulebook.Race, error) {
	race, err := s.engine.Rules().Race(name)
	if err == nil {
		return race, nil
	}
	if s.dndClient == nil {
		return nil, err
	}

	remote, remoteErr := s.dndClient.GetRace(rulebook.NormalizeKey(name))
	if remoteErr != nil {
		log.Printf("[PROGRESSION] Race %q not in catalog and API lookup failed: %v", name, remoteErr)
		return nil, err
	}
	return remote, nil
}

// GetCharacter retrieves a character by ID
func (s *service) GetCharacter(ctx context.Context, characterID string) (*character.Record, error) {
	if characterID == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	record, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get character %s", characterID)
	}
	return record, nil
}

// ListCharacters returns every character an owner has
func (s *service) ListCharacters(ctx context.Context, ownerID string) ([]*character.Record, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	records, err := s.repository.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to list characters for %s", ownerID)
	}
	return records, nil
}

// DeleteCharacter removes a character
func (s *service) DeleteCharacter(ctx context.Context, characterID string) error {
	if characterID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	record, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return dnderr.Wrapf(err, "failed to get character %s", characterID)
	}

	if err := s.repository.Delete(ctx, characterID); err != nil {
		return dnderr.Wrapf(err, "failed to delete character %s", characterID)
	}

	log.Printf("[PROGRESSION] Deleted %s (%s)", record.Name, record.ID)
	s.publish(ctx, rpgtoolkit.EventCharacterDeleted, record, nil)
	return nil
}
