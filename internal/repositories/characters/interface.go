package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
)

// Repository defines the interface for character record persistence.
// Writes are versioned: Create stores version 1 and every Update must carry
// the version it read, or it fails with an aborted error.
type Repository interface {
	// Create stores a new character, assigning an ID when empty
	Create(ctx context.Context, record *character.Record) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Record, error)

	// GetByOwner retrieves all characters for a specific owner
	GetByOwner(ctx context.Context, ownerID string) ([]*character.Record, error)

	// Update replaces a character if its stored version matches record.Version.
	// On success record.Version and record.UpdatedAt reflect the new write.
	Update(ctx context.Context, record *character.Record) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error
}

// TimeProvider supplies timestamps for written records
type TimeProvider interface {
	Now() time.Time
}
