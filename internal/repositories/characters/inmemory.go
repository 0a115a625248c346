package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
	"github.com/KirkDiggler/dnd-progression/internal/uuid"
)

// InMemoryRepository is an in-memory implementation of the character repository
// Useful for testing and development
type InMemoryRepository struct {
	mu            sync.RWMutex
	characters    map[string]*character.Record
	uuidGenerator uuid.Generator
	clock         TimeProvider
}

// InMemoryConfig holds optional collaborators for the in-memory repository
type InMemoryConfig struct {
	UUIDGenerator uuid.Generator
	TimeProvider  TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository(cfg ...*InMemoryConfig) Repository {
	repo := &InMemoryRepository{
		characters:    make(map[string]*character.Record),
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
		clock:         SystemTime(),
	}
	if len(cfg) > 0 && cfg[0] != nil {
		if cfg[0].UUIDGenerator != nil {
			repo.uuidGenerator = cfg[0].UUIDGenerator
		}
		if cfg[0].TimeProvider != nil {
			repo.clock = cfg[0].TimeProvider
		}
	}
	return repo
}

// Create stores a new character
func (r *InMemoryRepository) Create(_ context.Context, record *character.Record) error {
	if record == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if record.State == nil {
		return dnderr.InvalidArgument("character state is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = r.uuidGenerator.New()
	}
	if _, exists := r.characters[record.ID]; exists {
		return dnderr.AlreadyExistsf("character with ID '%s' already exists", record.ID).
			WithMeta("character_id", record.ID)
	}

	now := r.clock.Now()
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now

	r.characters[record.ID] = record.Clone()
	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(_ context.Context, id string) (*character.Record, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.characters[id]
	if !exists {
		return nil, dnderr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	return record.Clone(), nil
}

// GetByOwner retrieves all characters for a specific owner, oldest first
func (r *InMemoryRepository) GetByOwner(_ context.Context, ownerID string) ([]*character.Record, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*character.Record, 0)
	for _, record := range r.characters {
		if record.OwnerID == ownerID {
			result = append(result, record.Clone())
		}
	}
	sortRecords(result)
	return result, nil
}

// Update replaces an existing character when the version matches
func (r *InMemoryRepository) Update(_ context.Context, record *character.Record) error {
	if record == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if record.ID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.characters[record.ID]
	if !exists {
		return dnderr.NotFoundf("character with ID '%s' not found", record.ID).
			WithMeta("character_id", record.ID)
	}
	if existing.Version != record.Version {
		return staleVersion(record.ID, existing.Version, record.Version)
	}

	record.Version++
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.clock.Now()
	r.characters[record.ID] = record.Clone()
	return nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return dnderr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	delete(r.characters, id)
	return nil
}

func staleVersion(id string, stored, given int64) *dnderr.Error {
	return dnderr.Abortedf("character '%s' was modified concurrently", id).
		WithMeta("character_id", id).
		WithMeta("stored_version", stored).
		WithMeta("given_version", given)
}

func sortRecords(records []*character.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
