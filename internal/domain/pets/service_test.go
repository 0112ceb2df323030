package pets

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Pet
	order []string
	next  int
	err   error // si no es nil, todas las operaciones fallan con él

	lastFilter Filter
	lastSort   Sort
	lastMode   UpdateMode
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(_ context.Context, f Fields) (Pet, error) {
	if r.err != nil {
		return Pet{}, r.err
	}
	r.next++
	p, err := NewRecord("pet-"+strconv.Itoa(r.next), f, time.Now())
	if err != nil {
		return Pet{}, err
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return p, nil
}

func (r *testRepo) Find(_ context.Context, filter Filter, sort Sort) ([]Pet, error) {
	r.lastFilter, r.lastSort = filter, sort
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Pet, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		p, ok := r.byID[r.order[i]]
		if ok && filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) FindByID(_ context.Context, id string) (Pet, error) {
	if r.err != nil {
		return Pet{}, r.err
	}
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) UpdateByID(_ context.Context, id string, f Fields, mode UpdateMode) (Pet, error) {
	r.lastMode = mode
	if r.err != nil {
		return Pet{}, r.err
	}
	current, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	next, err := ApplyUpdate(current, f, mode, time.Now())
	if err != nil {
		return Pet{}, err
	}
	r.byID[id] = next
	return next, nil
}

func (r *testRepo) DeleteByID(_ context.Context, id string) (Pet, error) {
	if r.err != nil {
		return Pet{}, r.err
	}
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	delete(r.byID, id)
	return p, nil
}

type outcome struct {
	op, result string
}

type testRecorder struct {
	got []outcome
}

func (r *testRecorder) RecordOperation(op, result string) {
	r.got = append(r.got, outcome{op, result})
}

// -------------------------
// Tests
// -------------------------

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	rec := &testRecorder{}
	svc := NewService(repo, WithRecorder(rec))

	created, err := svc.Create(ctx, validFields())
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	patched, err := svc.Patch(ctx, created.ID, Fields{IsAdopted: ptr(true)})
	require.NoError(t, err)
	assert.True(t, patched.IsAdopted)
	assert.Equal(t, UpdateMerge, repo.lastMode)

	f := validFields()
	f.Name = ptr("Max")
	replaced, err := svc.Replace(ctx, created.ID, f)
	require.NoError(t, err)
	assert.Equal(t, "Max", replaced.Name)
	assert.False(t, replaced.IsAdopted)
	assert.Equal(t, UpdateReplace, repo.lastMode)

	_, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []outcome{
		{"create", OutcomeOK},
		{"get", OutcomeOK},
		{"patch", OutcomeOK},
		{"replace", OutcomeOK},
		{"delete", OutcomeOK},
		{"get", OutcomeNotFound},
	}, rec.got)
}

func TestService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, Filter{}, repo.lastFilter)
	assert.Equal(t, SortNewestFirst, repo.lastSort)

	_, err = svc.Search(ctx, "dog")
	require.NoError(t, err)
	assert.Equal(t, Filter{Text: "dog"}, repo.lastFilter)
	assert.Equal(t, SortNewestFirst, repo.lastSort)
}

func TestService_RecordsOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected", func(t *testing.T) {
		rec := &testRecorder{}
		svc := NewService(newTestRepo(), WithRecorder(rec))

		f := validFields()
		f.Age = ptr(-1)
		_, err := svc.Create(ctx, f)

		var ce *ConstraintError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, []outcome{{"create", OutcomeRejected}}, rec.got)
	})

	t.Run("error", func(t *testing.T) {
		rec := &testRecorder{}
		repo := newTestRepo()
		repo.err = errors.New("db down")
		svc := NewService(repo, WithRecorder(rec))

		_, err := svc.List(ctx)
		require.Error(t, err)
		assert.Equal(t, []outcome{{"list", OutcomeError}}, rec.got)
	})

	t.Run("nil recorder keeps noop", func(t *testing.T) {
		svc := NewService(newTestRepo(), WithRecorder(nil))
		_, err := svc.Search(ctx, "")
		assert.NoError(t, err)
	})
}
