// file: internals/helpers/pg_error.go
package helper

import "errors"

// Postgres SQLSTATE codes we translate at service/controller boundaries.
const (
	PGUniqueViolation     = "23505"
	PGForeignKeyViolation = "23503"
	PGExclusionViolation  = "23P01"
)

// pgSQLErr is satisfied by pgconn.PgError without importing the driver.
type pgSQLErr interface {
	SQLState() string
	Error() string
}

// PGCode returns the SQLSTATE of a storage error, or "" when the error is not
// a Postgres error.
func PGCode(err error) string {
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) {
		return pgErr.SQLState()
	}
	return ""
}

func IsUniqueViolation(err error) bool    { return PGCode(err) == PGUniqueViolation }
func IsExclusionViolation(err error) bool { return PGCode(err) == PGExclusionViolation }
