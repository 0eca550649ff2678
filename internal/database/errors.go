package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Errors surfaced at the repository boundary. Callers compare with errors.Is;
// the wrapped message keeps the driver detail for logs.
var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)

// TranslateError maps gorm and sqlite3 errors onto the repository error
// taxonomy. Errors already carrying one of the sentinels pass through
// unchanged; anything unrecognised is returned as is.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConstraintViolation) ||
		errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr,
			sqlite3.ErrNotADB, sqlite3.ErrCorrupt, sqlite3.ErrReadonly, sqlite3.ErrFull:
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	// database/sql does not export an error for a closed pool
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
