package league

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Errors shared by the stores and mapped to HTTP statuses by the server.
var (
	ErrNotFound   = errors.New("requested resource not found")
	ErrConflict   = errors.New("resource already exists")
	ErrValidation = errors.New("validation failed")
)

// Validationf wraps ErrValidation with a message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// TranslateError maps driver errors onto the package sentinels.
func TranslateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%s references an unknown row: %w", what, ErrValidation)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// NullString stores empty strings as NULL.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
