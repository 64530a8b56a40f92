package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("pg: failed to open connection")
	ErrHealthcheckFailed        = errors.New("pg: healthcheck failed")
	ErrFailedToParseDBConfig    = errors.New("pg: failed to parse config")
	ErrFailedToApplyMigrations  = errors.New("pg: failed to apply migrations")
	ErrMigrationsDirNotFound    = errors.New("pg: migrations directory not found")
	ErrMigrationPathNotProvided = errors.New("pg: migration path not provided")
)

// IsNotFoundError reports whether err is pgx.ErrNoRows. Repositories map it
// to their own not-found sentinels.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsExclusionViolationError reports an exclusion constraint violation
// (SQLSTATE 23P01), raised for example by overlapping ranges under an
// EXCLUDE USING gist constraint.
func IsExclusionViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

// IsForeignKeyViolationError reports a referential integrity violation
// (SQLSTATE 23503).
func IsForeignKeyViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
