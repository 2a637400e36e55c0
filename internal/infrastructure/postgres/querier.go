package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ordio-mrp/ordio-api/internal/domain"
)

// Querier abstrae pool y transacción: los repositorios aceptan cualquiera de los
// dos, así el TxRunner puede atarlos a una tx sin duplicar adaptadores.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapConflict traduce errores de serialización, deadlock o lock timeout de
// PostgreSQL a ConcurrencyConflictError (el caller reintenta la operación entera).
// Cualquier otro error pasa sin tocar.
func mapConflict(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization_failure, deadlock_detected, lock_not_available
			return &domain.ConcurrencyConflictError{Op: op, Err: err}
		}
	}
	return err
}
