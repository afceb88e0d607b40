package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/circulation"
	"github.com/library/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens a GORM connection backed by sqlmock with the postgres
// dialector, so the PostgreSQL-only lock statements are exercised.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormRentalRepository_Locking(t *testing.T) {
	ctx := context.Background()

	t.Run("bounds lock waits and locks book then member", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormRentalRepository(db)

		rental, err := circulation.NewBookRental(uuid.New(), uuid.New(), time.Time{})
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout = '3000ms'`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "books"\."id" FROM "books" WHERE id = \$1 .* FOR UPDATE`).
			WithArgs(rental.BookID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rental.BookID))
		mock.ExpectQuery(`SELECT "members"\."id" FROM "members" WHERE id = \$1 .* FOR UPDATE`).
			WithArgs(rental.MemberID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rental.MemberID))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "book_rentals" WHERE book_id = \$1 AND returned_on IS NULL`).
			WithArgs(rental.BookID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "book_rentals" WHERE member_id = \$1 AND returned_on IS NULL`).
			WithArgs(rental.MemberID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "book_rentals"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Create(ctx, rental))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock wait timeout surfaces as retryable", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormRentalRepository(db)

		rental, err := circulation.NewBookRental(uuid.New(), uuid.New(), time.Time{})
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "books"\."id" FROM "books"`).
			WillReturnError(fakeSQLStateErr{state: "55P03"})
		mock.ExpectRollback()

		err = repo.Create(ctx, rental)
		assert.ErrorIs(t, err, shared.ErrLockTimeout)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookRepository_AdvisoryLock(t *testing.T) {
	t.Run("allocation takes the series lock inside the insert transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBookRepository(db)

		book, err := catalog.NewBook("", "Locked Allocation", nil)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
			WithArgs("books:BK").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "custom_number" FROM "books" WHERE custom_number LIKE \$1`).
			WithArgs("BK%").
			WillReturnRows(sqlmock.NewRows([]string{"custom_number"}).AddRow("BK000041"))
		mock.ExpectExec(`INSERT INTO "books"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Create(context.Background(), book, catalog.Associations{}))
		assert.Equal(t, "BK000042", book.CustomNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
