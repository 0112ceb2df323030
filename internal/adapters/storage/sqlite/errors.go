package sqlite

import (
	"errors"

	"pet-adoption-api/internal/domain/pets"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// handleError traduce errores de SQLite a errores del dominio.
func handleError(err error) error {
	if err == nil {
		return nil
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		// Los códigos extendidos (UNIQUE, CHECK, NOTNULL...) comparten el byte bajo.
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return &pets.ConstraintError{Message: liteErr.Error()}
		}
	}
	return err
}
