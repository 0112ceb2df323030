package memory_test

import (
	"context"
	"testing"
	"time"

	"pet-adoption-api/internal/adapters/storage/memory"
	"pet-adoption-api/internal/adapters/storage/storagetest"
	"pet-adoption-api/internal/domain/pets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetRepo(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) pets.Repository {
		return memory.NewPetRepo()
	})
}

func TestPetRepo_SameTimestampKeepsInsertionOrder(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := memory.NewPetRepo(memory.WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	a, err := repo.Create(ctx, storagetest.NewFields("A", pets.TypeDog, 1, "X"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, storagetest.NewFields("B", pets.TypeDog, 1, "X"))
	require.NoError(t, err)

	items, err := repo.Find(ctx, pets.Filter{}, pets.SortNewestFirst)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
	assert.Equal(t, fixed, items[0].CreatedAt)
}
