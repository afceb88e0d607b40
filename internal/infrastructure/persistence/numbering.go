package persistence

import (
	"fmt"
	"time"

	"github.com/library/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// defaultLockTimeout bounds how long a transaction waits for row or
// advisory locks before giving up with a retryable error.
const defaultLockTimeout = 3 * time.Second

// beginSerialized prepares a transaction for lock-sensitive work: on
// PostgreSQL it bounds lock waits with SET LOCAL lock_timeout. Other
// dialects (in-memory SQLite in tests) serialize writes themselves.
func beginSerialized(tx *gorm.DB, timeout time.Duration) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	return tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())).Error
}

// nextInSeries allocates the next custom number for a table's prefix series.
// It must run inside the same transaction that inserts the new row: the
// advisory lock is scoped to (table, prefix) and held until commit, so
// concurrent allocations for the same series serialize and each caller sees
// every previously committed number.
func nextInSeries(tx *gorm.DB, table string, scheme shared.NumberScheme) (string, error) {
	if tx.Dialector.Name() == "postgres" {
		key := table + ":" + scheme.Prefix
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
			return "", translateError(err)
		}
	}

	var numbers []string
	if err := tx.Table(table).
		Where("custom_number LIKE ?", scheme.Pattern()).
		Pluck("custom_number", &numbers).Error; err != nil {
		return "", translateError(err)
	}

	return scheme.Next(numbers)
}
