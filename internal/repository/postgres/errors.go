package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"portfolio/internal/workspace"
)

const uniqueViolation = "23505"

// storeError maps driver errors onto workspace rejections. A missing row
// becomes object_not_found for the given kind and id; a lost position race
// becomes conflict_error. Anything else is wrapped with op.
func storeError(err error, op, kind, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return workspace.NotFound(kind, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return workspace.Conflict("Conflict occurred while saving. Please try again.")
	}
	return fmt.Errorf("%s: %w", op, err)
}
