package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/dnd-progression/internal/uuid"
)

func TestGoogleUUIDGenerator(t *testing.T) {
	gen := uuid.NewGoogleUUIDGenerator()
	a, b := gen.New(), gen.New()

	assert.NotEqual(t, a, b)
	assert.True(t, uuid.IsValid(a))
	assert.False(t, uuid.IsValid("not-a-uuid"))
}

func TestSequenceGenerator(t *testing.T) {
	gen := uuid.NewSequenceGenerator("char")

	assert.Equal(t, "char-1", gen.New())
	assert.Equal(t, "char-2", gen.New())
}
