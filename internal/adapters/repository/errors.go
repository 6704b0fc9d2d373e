package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgForeignKeyViolation       = "23503"
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

var ErrReferenceMissing = errors.New("referenced row does not exist")

// pgErrorCode extracts the SQLSTATE from errors raised by either the pgx
// stdlib driver or lib/pq. It returns "" for anything else.
func pgErrorCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// isMalformedID reports a key that cannot be cast to the UUID column type.
// Such a row cannot exist, so callers treat it as not found.
func isMalformedID(err error) bool {
	return pgErrorCode(err) == pgInvalidTextRepresentation
}
