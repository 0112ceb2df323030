package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"pet-adoption-api/internal/adapters/storage/sqlite"
	"pet-adoption-api/internal/adapters/storage/storagetest"
	"pet-adoption-api/internal/domain/pets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sqlite.Open(filepath.Join(t.TempDir(), "pets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestPetsRepo(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) pets.Repository {
		return sqlite.NewPetsRepo(openTestDB(t))
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, sqlite.Migrate(d))
}

func TestCheckConstraintMapsToConstraintError(t *testing.T) {
	d := openTestDB(t)

	// Saltea el schema del dominio para probar el CHECK de la tabla.
	_, err := d.ExecContext(context.Background(), `
		INSERT INTO pets (id, name, type, breed, age, is_adopted, location, created_at, updated_at)
		VALUES ('x', 'Milo', 'Lizard', '', 1, 0, 'A', '2024-01-01T00:00:00.000000000Z', '2024-01-01T00:00:00.000000000Z')
	`)
	require.Error(t, err)

	var ce *pets.ConstraintError
	assert.ErrorAs(t, sqlite.HandleError(err), &ce)
}

func TestUnicodeLowerFunction(t *testing.T) {
	d := openTestDB(t)

	var got string
	require.NoError(t, d.QueryRowContext(context.Background(), `SELECT unicode_lower('ÉLAN Ñandú')`).Scan(&got))
	assert.Equal(t, "élan ñandú", got)
}
