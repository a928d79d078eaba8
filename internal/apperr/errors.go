// Package apperr defines the error taxonomy shared by the stores and mapped
// to HTTP status codes in the handlers.
package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates malformed input, detected before any write.
	ErrValidation = errors.New("validation")
	// ErrNotFound indicates a referenced challan, party or item is absent.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a unique-constraint collision on a normalized
	// name or reference code.
	ErrConflict = errors.New("conflict")
	// ErrTransaction indicates the enclosing atomic unit failed or aborted.
	ErrTransaction = errors.New("transaction")
	// ErrIntegrity indicates a committed row violates an assumed invariant,
	// e.g. an empty reference code on read. Always a bug.
	ErrIntegrity = errors.New("integrity")
)

// Validation tags an error as input validation failure.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound tags an error as a missing-reference failure.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict tags an error as a uniqueness conflict.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Transaction wraps a store failure that aborted the enclosing unit of work.
func Transaction(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransaction, op, err)
}

// Integrity tags an error as an invariant violation on committed data.
func Integrity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

// IsUniqueViolation reports whether err is a unique-constraint rejection from
// the database. Covers gorm's translated error and the raw Postgres code.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
