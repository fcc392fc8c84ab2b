package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAdminEmailTaken = errors.New("email already registered")
	ErrOrgNameTaken    = errors.New("organization name already exists")
	ErrEmailTaken      = errors.New("user email already exists")

	errDuplicate = errors.New("duplicate key")
)

// mapError folds driver errors into the package sentinels. gorm translates most
// violations itself; raw pgconn errors cover statements gorm does not translate.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", errDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s: %w", errDuplicate, pgErr.ConstraintName, err)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Detail)
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict: %w", err)
	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}

// duplicateAs replaces a unique violation with the caller's conflict sentinel.
func duplicateAs(err, conflict error) error {
	err = mapError(err)
	if errors.Is(err, errDuplicate) {
		return conflict
	}
	return err
}
