package pendency

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConflictClassifier decides whether a creation error means the
// pendency already exists. Pluggable because the exact duplicate
// contract varies between backends; batch persistence treats a
// duplicate as accepted, not failed.
type ConflictClassifier func(err error) bool

// DefaultConflictClassifier recognizes a Postgres unique violation
// (SQLSTATE 23505) and falls back to message substrings for errors that
// crossed a transport and lost their structure.
func DefaultConflictClassifier(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "ja existe") ||
		strings.Contains(msg, "já existe")
}
