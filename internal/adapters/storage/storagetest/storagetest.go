// Package storagetest contiene la batería de tests común a todos los stores
// que implementan pets.Repository.
package storagetest

import (
	"context"
	"testing"

	"pet-adoption-api/internal/domain/pets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory devuelve un repo vacío para cada subtest.
type Factory func(t *testing.T) pets.Repository

func Run(t *testing.T, newRepo Factory) {
	t.Run("CreateAssignsIDDefaultsAndTimestamps", func(t *testing.T) { testCreate(t, newRepo(t)) })
	t.Run("CreateRejectsInvalidRecord", func(t *testing.T) { testCreateRejects(t, newRepo(t)) })
	t.Run("FindNewestFirst", func(t *testing.T) { testFindOrder(t, newRepo(t)) })
	t.Run("FindFiltersByNameOrType", func(t *testing.T) { testFindFilter(t, newRepo(t)) })
	t.Run("FindByIDMissing", func(t *testing.T) { testFindByIDMissing(t, newRepo(t)) })
	t.Run("UpdateReplace", func(t *testing.T) { testUpdateReplace(t, newRepo(t)) })
	t.Run("UpdateMerge", func(t *testing.T) { testUpdateMerge(t, newRepo(t)) })
	t.Run("UpdateRejectsInvalidAndKeepsRecord", func(t *testing.T) { testUpdateRejects(t, newRepo(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newRepo(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newRepo(t)) })
}

// NewFields arma un Fields válido para tests.
func NewFields(name string, typ pets.Type, age int, location string) pets.Fields {
	return pets.Fields{Name: &name, Type: &typ, Age: &age, Location: &location}
}

func ptr[T any](v T) *T { return &v }

func mustCreate(t *testing.T, repo pets.Repository, f pets.Fields) pets.Pet {
	t.Helper()
	p, err := repo.Create(context.Background(), f)
	require.NoError(t, err)
	return p
}

func testCreate(t *testing.T, repo pets.Repository) {
	ctx := context.Background()

	a := mustCreate(t, repo, NewFields("  Milo  ", pets.TypeDog, 3, "Shelter A"))
	b := mustCreate(t, repo, NewFields("Luna", pets.TypeCat, 0, "Shelter B"))

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	assert.Equal(t, "Milo", a.Name)
	assert.Equal(t, "", a.Breed)
	assert.False(t, a.IsAdopted)
	assert.False(t, a.CreatedAt.IsZero())
	assert.True(t, a.CreatedAt.Equal(a.UpdatedAt))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.Type, got.Type)
	assert.Equal(t, a.Age, got.Age)
	assert.Equal(t, a.Location, got.Location)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
}

func testCreateRejects(t *testing.T, repo pets.Repository) {
	ctx := context.Background()

	cases := map[string]pets.Fields{
		"negative age": NewFields("Milo", pets.TypeDog, -1, "A"),
		"unknown type": NewFields("Milo", pets.Type("Lizard"), 1, "A"),
		"blank name":   NewFields("   ", pets.TypeDog, 1, "A"),
		"missing age":  {Name: ptr("Milo"), Type: ptr(pets.TypeDog), Location: ptr("A")},
	}

	for name, f := range cases {
		_, err := repo.Create(ctx, f)
		var ce *pets.ConstraintError
		assert.ErrorAs(t, err, &ce, name)
	}

	items, err := repo.Find(ctx, pets.Filter{}, pets.SortNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testFindOrder(t *testing.T, repo pets.Repository) {
	ctx := context.Background()

	first := mustCreate(t, repo, NewFields("First", pets.TypeDog, 1, "A"))
	second := mustCreate(t, repo, NewFields("Second", pets.TypeCat, 2, "A"))
	third := mustCreate(t, repo, NewFields("Third", pets.TypeRabbit, 3, "A"))

	items, err := repo.Find(ctx, pets.Filter{}, pets.SortNewestFirst)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(items))

	items, err = repo.Find(ctx, pets.Filter{}, pets.SortOldestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, ids(items))
}

func testFindFilter(t *testing.T, repo pets.Repository) {
	ctx := context.Background()

	rex := mustCreate(t, repo, NewFields("Rex", pets.TypeDog, 4, "A"))
	dogwood := mustCreate(t, repo, NewFields("Dogwood", pets.TypeRabbit, 1, "A"))
	mustCreate(t, repo, NewFields("Whiskers", pets.TypeCat, 2, "A"))

	items, err := repo.Find(ctx, pets.Filter{Text: "dog"}, pets.SortNewestFirst)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{rex.ID, dogwood.ID}, ids(items))

	items, err = repo.Find(ctx, pets.Filter{Text: "zzz"}, pets.SortNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Mayúsculas fuera de ASCII.
	elan := mustCreate(t, repo, NewFields("Élan", pets.TypeCat, 3, "A"))
	for _, q := range []string{"élan", "ÉLAN", "éla"} {
		items, err = repo.Find(ctx, pets.Filter{Text: q}, pets.SortNewestFirst)
		require.NoError(t, err)
		assert.Equal(t, []string{elan.ID}, ids(items), q)
	}
}

func testFindByIDMissing(t *testing.T, repo pets.Repository) {
	_, err := repo.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func testUpdateReplace(t *testing.T, repo pets.Repository) {
	ctx := context.Background()

	f := NewFields("Milo", pets.TypeDog, 3, "A")
	f.Breed = ptr("Beagle")
	f.IsAdopted = ptr(true)
	orig := mustCreate(t, repo, f)

	updated, err := repo.UpdateByID(ctx, orig.ID, NewFields("Max", pets.TypeCat, 5, "B"), pets.UpdateReplace)
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.True(t, orig.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Max", updated.Name)
	assert.Equal(t, pets.TypeCat, updated.Type)
	assert.Equal(t, 5, updated.Age)
	assert.Equal(t, "B", updated.Location)
	assert.Equal(t, "", updated.Breed)
	assert.False(t, updated.IsAdopted)
	assert.False(t, updated.UpdatedAt.Before(orig.UpdatedAt))

	got, err := repo.FindByID(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Breed)
	assert.False(t, got.IsAdopted)
}

func testUpdateMerge(t *testing.T, repo pets.Repository) {
	ctx := context.Background()

	f := NewFields("Milo", pets.TypeDog, 3, "A")
	f.Breed = ptr("Beagle")
	orig := mustCreate(t, repo, f)

	updated, err := repo.UpdateByID(ctx, orig.ID, pets.Fields{IsAdopted: ptr(true)}, pets.UpdateMerge)
	require.NoError(t, err)

	assert.True(t, updated.IsAdopted)
	assert.Equal(t, "Milo", updated.Name)
	assert.Equal(t, pets.TypeDog, updated.Type)
	assert.Equal(t, 3, updated.Age)
	assert.Equal(t, "A", updated.Location)
	assert.Equal(t, "Beagle", updated.Breed)

	got, err := repo.FindByID(ctx, orig.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdopted)
	assert.Equal(t, "Beagle", got.Breed)
}

func testUpdateRejects(t *testing.T, repo pets.Repository) {
	ctx := context.Background()
	orig := mustCreate(t, repo, NewFields("Milo", pets.TypeDog, 3, "A"))

	_, err := repo.UpdateByID(ctx, orig.ID, pets.Fields{Age: ptr(-5)}, pets.UpdateMerge)
	var ce *pets.ConstraintError
	require.ErrorAs(t, err, &ce)

	_, err = repo.UpdateByID(ctx, orig.ID, pets.Fields{Name: ptr("Only name")}, pets.UpdateReplace)
	require.ErrorAs(t, err, &ce)

	got, err := repo.FindByID(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Age)
	assert.Equal(t, "Milo", got.Name)
}

func testUpdateMissing(t *testing.T, repo pets.Repository) {
	ctx := context.Background()

	_, err := repo.UpdateByID(ctx, uuid.NewString(), NewFields("Milo", pets.TypeDog, 3, "A"), pets.UpdateReplace)
	assert.ErrorIs(t, err, pets.ErrNotFound)

	_, err = repo.UpdateByID(ctx, uuid.NewString(), pets.Fields{IsAdopted: ptr(true)}, pets.UpdateMerge)
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func testDelete(t *testing.T, repo pets.Repository) {
	ctx := context.Background()
	p := mustCreate(t, repo, NewFields("Milo", pets.TypeDog, 3, "A"))

	deleted, err := repo.DeleteByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, pets.ErrNotFound)

	_, err = repo.DeleteByID(ctx, p.ID)
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func ids(items []pets.Pet) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}
