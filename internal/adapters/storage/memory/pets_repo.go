package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pet-adoption-api/internal/domain/pets"

	"github.com/google/uuid"
)

type storedPet struct {
	pet pets.Pet
	seq uint64 // orden de inserción, desempata created_at
}

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]storedPet
	seq  uint64
	now  func() time.Time
}

type Option func(*petRepo)

// WithClock fija el reloj usado para sellar timestamps (tests).
func WithClock(now func() time.Time) Option {
	return func(r *petRepo) {
		if now != nil {
			r.now = now
		}
	}
}

func NewPetRepo(opts ...Option) pets.Repository {
	r := &petRepo{
		byID: make(map[string]storedPet),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *petRepo) Create(ctx context.Context, f pets.Fields) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := r.byID[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	p, err := pets.NewRecord(id, f, r.now().UTC())
	if err != nil {
		return pets.Pet{}, err
	}

	r.seq++
	r.byID[p.ID] = storedPet{pet: p, seq: r.seq}
	return p, nil
}

func (r *petRepo) Find(ctx context.Context, filter pets.Filter, order pets.Sort) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedPet, 0, len(r.byID))
	for _, sp := range r.byID {
		if filter.Matches(sp.pet) {
			matched = append(matched, sp)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.pet.CreatedAt.Equal(b.pet.CreatedAt) {
			if order == pets.SortOldestFirst {
				return a.pet.CreatedAt.Before(b.pet.CreatedAt)
			}
			return a.pet.CreatedAt.After(b.pet.CreatedAt)
		}
		if order == pets.SortOldestFirst {
			return a.seq < b.seq
		}
		return a.seq > b.seq
	})

	out := make([]pets.Pet, 0, len(matched))
	for _, sp := range matched {
		out = append(out, sp.pet)
	}
	return out, nil
}

func (r *petRepo) FindByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sp, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return sp.pet, nil
}

func (r *petRepo) UpdateByID(ctx context.Context, id string, f pets.Fields, mode pets.UpdateMode) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}

	next, err := pets.ApplyUpdate(sp.pet, f, mode, r.now().UTC())
	if err != nil {
		return pets.Pet{}, err
	}

	sp.pet = next
	r.byID[id] = sp
	return next, nil
}

func (r *petRepo) DeleteByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	delete(r.byID, id)
	return sp.pet, nil
}
