package pets

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("pet not found")

// Repository es el contrato del store de documentos.
// El store genera el ID, asigna defaults, sella timestamps y valida el
// registro resultante con el Schema (ver schema.go) antes de persistir.
type Repository interface {
	Create(ctx context.Context, f Fields) (Pet, error)
	Find(ctx context.Context, filter Filter, sort Sort) ([]Pet, error)
	FindByID(ctx context.Context, id string) (Pet, error)
	UpdateByID(ctx context.Context, id string, f Fields, mode UpdateMode) (Pet, error)
	DeleteByID(ctx context.Context, id string) (Pet, error)
}
