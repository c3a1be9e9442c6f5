package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// postgres error code for unique constraint violations
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Pre-checks in the services catch most duplicates, but a race
// between two inserts can still slip through to the constraint; callers
// translate this to a conflict instead of a 500.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}

// IsUniqueViolationOn reports whether err is a unique violation on the
// constraint guarding the given column, going by the constraint name the
// migrator generates (uni_users_email, idx_reviews_author_title, ...).
func IsUniqueViolationOn(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode &&
			strings.Contains(pgErr.ConstraintName, column)
	}
	return false
}
