package characters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
	"github.com/KirkDiggler/dnd-progression/internal/uuid"
)

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
	clock         TimeProvider
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
	TimeProvider  TimeProvider
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	repo := &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
		clock:         cfg.TimeProvider,
	}
	if repo.uuidGenerator == nil {
		repo.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if repo.clock == nil {
		repo.clock = SystemTime()
	}
	return repo
}

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// ownerCharactersKey generates the Redis key for an owner's character set
func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, record *character.Record) error {
	if record == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if record.State == nil {
		return dnderr.InvalidArgument("character state is required")
	}
	if record.ID == "" {
		record.ID = r.uuidGenerator.New()
	}

	exists, err := r.client.Exists(ctx, r.key(record.ID)).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check character existence").
			WithMeta("character_id", record.ID)
	}
	if exists > 0 {
		return dnderr.AlreadyExistsf("character with ID '%s' already exists", record.ID).
			WithMeta("character_id", record.ID)
	}

	now := r.clock.Now()
	stored := record.Clone()
	stored.Version = 1
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := json.Marshal(stored)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal character").
			WithMeta("character_id", record.ID)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(record.ID), string(data), 0)
	if record.OwnerID != "" {
		pipe.SAdd(ctx, r.ownerCharactersKey(record.OwnerID), record.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to save character").
			WithMeta("character_id", record.ID)
	}

	record.Version = stored.Version
	record.CreatedAt = now
	record.UpdatedAt = now
	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Record, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	data, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, dnderr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get character").
			WithMeta("character_id", id)
	}

	return decodeRecord(id, data)
}

// GetByOwner retrieves all characters for a specific owner, oldest first.
// Index entries whose record has gone missing are skipped.
func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*character.Record, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerCharactersKey(ownerID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get owner characters").
			WithMeta("owner_id", ownerID)
	}

	result := make([]*character.Record, 0, len(ids))
	for _, id := range ids {
		record, err := r.Get(ctx, id)
		if err != nil {
			if dnderr.IsNotFound(err) {
				log.Printf("[REDIS] Owner %s indexes missing character %s", ownerID, id)
				continue
			}
			return nil, err
		}
		result = append(result, record)
	}
	sortRecords(result)
	return result, nil
}

// Update replaces an existing character when the stored version matches.
// The read, compare and write run under WATCH so a concurrent writer makes
// this call fail with an aborted error instead of being overwritten.
func (r *redisRepo) Update(ctx context.Context, record *character.Record) error {
	if record == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if record.ID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	key := r.key(record.ID)
	next := record.Clone()
	next.Version = record.Version + 1
	next.UpdatedAt = r.clock.Now()

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return dnderr.NotFoundf("character with ID '%s' not found", record.ID).
				WithMeta("character_id", record.ID)
		}
		if err != nil {
			return dnderr.Wrap(err, "failed to get character").
				WithMeta("character_id", record.ID)
		}

		existing, err := decodeRecord(record.ID, raw)
		if err != nil {
			return err
		}
		if existing.Version != record.Version {
			return staleVersion(record.ID, existing.Version, record.Version)
		}

		next.CreatedAt = existing.CreatedAt
		data, err := json.Marshal(next)
		if err != nil {
			return dnderr.Wrap(err, "failed to marshal character").
				WithMeta("character_id", record.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(data), 0)
			if existing.OwnerID != next.OwnerID {
				if existing.OwnerID != "" {
					pipe.SRem(ctx, r.ownerCharactersKey(existing.OwnerID), record.ID)
				}
				if next.OwnerID != "" {
					pipe.SAdd(ctx, r.ownerCharactersKey(next.OwnerID), record.ID)
				}
			}
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return dnderr.Abortedf("character '%s' was modified concurrently", record.ID).
			WithMeta("character_id", record.ID)
	}
	if err != nil {
		var appErr *dnderr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return dnderr.Wrap(err, "failed to update character").
			WithMeta("character_id", record.ID)
	}

	record.Version = next.Version
	record.CreatedAt = next.CreatedAt
	record.UpdatedAt = next.UpdatedAt
	return nil
}

// Delete removes a character and its owner index entry
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	record, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	if record.OwnerID != "" {
		pipe.SRem(ctx, r.ownerCharactersKey(record.OwnerID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to delete character").
			WithMeta("character_id", id)
	}
	return nil
}

func decodeRecord(id, data string) (*character.Record, error) {
	var record character.Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal character").
			WithMeta("character_id", id)
	}
	return &record, nil
}
