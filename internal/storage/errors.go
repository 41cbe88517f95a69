package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"gorm.io/gorm"
)

// MapError maps gorm, Postgres and SQLite failures onto domain codes. Anything
// not recognised as a caller or integrity problem is a backend fault and
// therefore tier_unavailable.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var derr *types.Error
	if errors.As(err, &derr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.Wrap(types.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidField):
		return types.Wrap(types.CodeValidationRejected, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return types.Wrap(types.CodeConflictOnCreate, op, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return types.Wrap(types.CodeMissingParent, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return types.Wrap(types.CodeTierUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return types.Wrap(types.CodeConflictOnCreate, op, err) // unique_violation
		case "23503":
			return types.Wrap(types.CodeMissingParent, op, err) // foreign_key_violation
		case "22P02", "23502", "23514":
			return types.Wrap(types.CodeValidationRejected, op, err) // bad text repr / not null / check
		}
		return types.Wrap(types.CodeTierUnavailable, op, err)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "duplicate key"):
		return types.Wrap(types.CodeConflictOnCreate, op, err)
	case strings.Contains(msg, "foreign key constraint failed"):
		return types.Wrap(types.CodeMissingParent, op, err)
	default:
		return types.Wrap(types.CodeTierUnavailable, op, err)
	}
}
