package pets

import (
	"context"
	"errors"
)

// Recorder recibe el resultado de cada operación (métricas).
type Recorder interface {
	RecordOperation(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string) {}

const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Service struct {
	repo Repository
	rec  Recorder
}

type Option func(*Service)

func WithRecorder(rec Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.rec = rec
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		rec:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, f Fields) (Pet, error) {
	p, err := s.repo.Create(ctx, f)
	s.record("create", err)
	return p, err
}

// List devuelve todos los registros, más recientes primero.
func (s *Service) List(ctx context.Context) ([]Pet, error) {
	items, err := s.repo.Find(ctx, Filter{}, SortNewestFirst)
	s.record("list", err)
	return items, err
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.FindByID(ctx, id)
	s.record("get", err)
	return p, err
}

// Replace reemplaza todos los campos mutables (PUT).
func (s *Service) Replace(ctx context.Context, id string, f Fields) (Pet, error) {
	p, err := s.repo.UpdateByID(ctx, id, f, UpdateReplace)
	s.record("replace", err)
	return p, err
}

// Patch cambia solo los campos presentes (PATCH).
func (s *Service) Patch(ctx context.Context, id string, f Fields) (Pet, error) {
	p, err := s.repo.UpdateByID(ctx, id, f, UpdateMerge)
	s.record("patch", err)
	return p, err
}

func (s *Service) Delete(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.DeleteByID(ctx, id)
	s.record("delete", err)
	return p, err
}

// Search busca q como substring (case-insensitive) en nombre o tipo.
func (s *Service) Search(ctx context.Context, q string) ([]Pet, error) {
	items, err := s.repo.Find(ctx, Filter{Text: q}, SortNewestFirst)
	s.record("search", err)
	return items, err
}

func (s *Service) record(op string, err error) {
	s.rec.RecordOperation(op, outcomeOf(err))
}

func outcomeOf(err error) string {
	var ce *ConstraintError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.As(err, &ce):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
