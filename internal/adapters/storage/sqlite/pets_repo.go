package sqlite

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

// timeLayout: ancho fijo en UTC para que el orden de texto coincida con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type PetsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db, now: time.Now}
}

func (r *PetsRepo) stamp() time.Time {
	return r.now().UTC()
}

func (r *PetsRepo) Create(ctx context.Context, f pets.Fields) (pets.Pet, error) {
	p, err := pets.NewRecord(uuid.NewString(), f, r.stamp())
	if err != nil {
		return pets.Pet{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.Name,
		string(p.Type),
		p.Breed,
		p.Age,
		p.IsAdopted,
		p.Location,
		p.CreatedAt.Format(timeLayout),
		p.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return pets.Pet{}, handleError(err)
	}
	return p, nil
}

func (r *PetsRepo) Find(ctx context.Context, filter pets.Filter, order pets.Sort) ([]pets.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets`
	args := []any{}

	if filter.Text != "" {
		query += ` WHERE instr(unicode_lower(name), unicode_lower(?)) > 0 OR instr(unicode_lower(type), unicode_lower(?)) > 0`
		args = append(args, filter.Text, filter.Text)
	}

	if order == pets.SortOldestFirst {
		query += ` ORDER BY created_at ASC, rowid ASC`
	} else {
		query += ` ORDER BY created_at DESC, rowid DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find pets: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pets: %w", err)
	}
	return out, nil
}

func (r *PetsRepo) FindByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id)
	return scanOne(row)
}

func (r *PetsRepo) UpdateByID(ctx context.Context, id string, f pets.Fields, mode pets.UpdateMode) (pets.Pet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanOne(tx.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
	if err != nil {
		return pets.Pet{}, err
	}

	next, err := pets.ApplyUpdate(current, f, mode, r.stamp())
	if err != nil {
		return pets.Pet{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE pets
		SET name = ?, type = ?, breed = ?, age = ?, is_adopted = ?, location = ?, updated_at = ?
		WHERE id = ?
	`,
		next.Name,
		string(next.Type),
		next.Breed,
		next.Age,
		next.IsAdopted,
		next.Location,
		next.UpdatedAt.Format(timeLayout),
		next.ID,
	)
	if err != nil {
		return pets.Pet{}, handleError(err)
	}

	if err := tx.Commit(); err != nil {
		return pets.Pet{}, fmt.Errorf("failed to commit: %w", err)
	}
	return next, nil
}

func (r *PetsRepo) DeleteByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `DELETE FROM pets WHERE id = ? RETURNING `+petColumns, id)
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
		p                    pets.Pet
		petType              string
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&petType,
		&p.Breed,
		&p.Age,
		&p.IsAdopted,
		&p.Location,
		&createdAt,
		&updatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Type = pets.Type(petType)

	var err error
	if p.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return pets.Pet{}, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return pets.Pet{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return p, nil
}
