package persistence

import (
	"errors"

	"github.com/library/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sqlStateError matches pgconn.PgError without importing the driver directly.
type sqlStateError interface {
	SQLState() string
}

const lockNotAvailable = "55P03"

// translateError maps driver and GORM errors to domain sentinels.
// Unrecognized errors pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	var state sqlStateError
	if errors.As(err, &state) && state.SQLState() == lockNotAvailable {
		return shared.ErrLockTimeout
	}
	return err
}
