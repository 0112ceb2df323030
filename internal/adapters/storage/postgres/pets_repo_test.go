package postgres_test

import (
	"os"
	"testing"

	"pet-adoption-api/internal/adapters/storage/postgres"
	"pet-adoption-api/internal/adapters/storage/storagetest"
	"pet-adoption-api/internal/domain/pets"

	"github.com/stretchr/testify/require"
)

// Requiere una base real: TEST_DB_DSN=postgres://... go test ./...
func TestPetsRepo(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	db, err := postgres.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(db))
	// Segunda vez: sin cambios, sin error.
	require.NoError(t, postgres.Migrate(db))

	storagetest.Run(t, func(t *testing.T) pets.Repository {
		_, err := db.Exec(`TRUNCATE pets`)
		require.NoError(t, err)
		return postgres.NewPetsRepo(db)
	})
}
