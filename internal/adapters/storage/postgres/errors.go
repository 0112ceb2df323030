package postgres

import (
	"errors"

	"pet-adoption-api/internal/domain/pets"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que son rechazo del dato, no falla de infraestructura.
var constraintCodes = map[string]string{
	"23505": "unique_violation",
	"23514": "check_violation",
	"23502": "not_null_violation",
	"22001": "string_data_right_truncation",
	"22P02": "invalid_text_representation",
	"22003": "numeric_value_out_of_range",
}

// handleError traduce errores de Postgres a errores del dominio.
func handleError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := constraintCodes[pgErr.Code]; ok {
			return &pets.ConstraintError{Message: pgErr.Message}
		}
	}
	return err
}
