package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"pet-adoption-api/internal/adapters/storage"
	"pet-adoption-api/internal/adapters/storage/storagetest"
	"pet-adoption-api/internal/config"
	"pet-adoption-api/internal/domain/pets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	repo, closeFn, err := storage.Open(context.Background(), config.StorageConfig{Driver: config.StorageMemory})
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	p, err := repo.Create(context.Background(), storagetest.NewFields("Rex", pets.TypeDog, 2, "Shelter A"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pets.db")

	repo, closeFn, err := storage.Open(context.Background(), config.StorageConfig{
		Driver:     config.StorageSQLite,
		SQLitePath: path,
	})
	require.NoError(t, err)

	created, err := repo.Create(context.Background(), storagetest.NewFields("Mia", pets.TypeCat, 1, "Shelter B"))
	require.NoError(t, err)
	require.NoError(t, closeFn())

	// Reabrir el mismo archivo conserva los datos.
	repo, closeFn, err = storage.Open(context.Background(), config.StorageConfig{
		Driver:     config.StorageSQLite,
		SQLitePath: path,
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	got, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mia", got.Name)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := storage.Open(context.Background(), config.StorageConfig{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
}
