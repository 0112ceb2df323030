package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-adoption-api/internal/domain/pets"

	"github.com/google/uuid"
)

const petColumns = `id, name, type, breed, age, is_adopted, location, created_at, updated_at`

type PetsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db, now: time.Now}
}

// stamp: timestamptz guarda microsegundos.
func (r *PetsRepo) stamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *PetsRepo) Create(ctx context.Context, f pets.Fields) (pets.Pet, error) {
	p, err := pets.NewRecord(uuid.NewString(), f, r.stamp())
	if err != nil {
		return pets.Pet{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.Name,
		string(p.Type),
		p.Breed,
		p.Age,
		p.IsAdopted,
		p.Location,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, handleError(err)
	}
	return p, nil
}

func (r *PetsRepo) Find(ctx context.Context, filter pets.Filter, order pets.Sort) ([]pets.Pet, error) {
	// El filtro se aplica en Go: lower() de Postgres depende de la collation de la base.
	query := `SELECT ` + petColumns + ` FROM pets`

	if order == pets.SortOldestFirst {
		query += ` ORDER BY created_at ASC, seq ASC`
	} else {
		query += ` ORDER BY created_at DESC, seq DESC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find pets: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		if filter.Matches(p) {
			out = append(out, p)
		}
	}

	return out, rows.Err()
}

func (r *PetsRepo) FindByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	return scanOne(row)
}

func (r *PetsRepo) UpdateByID(ctx context.Context, id string, f pets.Fields, mode pets.UpdateMode) (pets.Pet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanOne(tx.QueryRowContext(ctx,
		`SELECT `+petColumns+` FROM pets WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return pets.Pet{}, err
	}

	next, err := pets.ApplyUpdate(current, f, mode, r.stamp())
	if err != nil {
		return pets.Pet{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			type = $3,
			breed = $4,
			age = $5,
			is_adopted = $6,
			location = $7,
			updated_at = $8
		WHERE id = $1
	`,
		next.ID,
		next.Name,
		string(next.Type),
		next.Breed,
		next.Age,
		next.IsAdopted,
		next.Location,
		next.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, handleError(err)
	}

	if err := tx.Commit(); err != nil {
		return pets.Pet{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

func (r *PetsRepo) DeleteByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `DELETE FROM pets WHERE id = $1 RETURNING `+petColumns, id)
	return scanOne(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (pets.Pet, error) {
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func scanPet(row scanner) (pets.Pet, error) {
	var (
		p       pets.Pet
		petType string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&petType,
		&p.Breed,
		&p.Age,
		&p.IsAdopted,
		&p.Location,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Type = pets.Type(petType)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
