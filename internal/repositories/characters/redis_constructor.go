package characters

import (
	"github.com/KirkDiggler/dnd-progression/internal/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates a new Redis-backed character repository with default collaborators
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:        client,
		UUIDGenerator: uuid.NewGoogleUUIDGenerator(),
		TimeProvider:  SystemTime(),
	})
}
