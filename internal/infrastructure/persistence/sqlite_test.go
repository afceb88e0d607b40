package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/circulation"
	"github.com/library/backend/internal/domain/membership"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
// SQLite serializes writes itself, so the PostgreSQL-only lock statements
// are skipped and the repositories behave the same otherwise.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE authors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE publishers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE books (
			id TEXT PRIMARY KEY,
			custom_number TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			publishing_year INTEGER,
			author_id TEXT,
			publisher_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE book_categories (
			book_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			PRIMARY KEY (book_id, category_id)
		)`,
		`CREATE TABLE members (
			id TEXT PRIMARY KEY,
			custom_number TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			personal_number INTEGER NOT NULL UNIQUE,
			phone TEXT UNIQUE,
			email TEXT UNIQUE,
			section TEXT,
			date_of_birth DATETIME,
			date_of_retirement DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE book_rentals (
			id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL,
			member_id TEXT NOT NULL,
			issued_on DATETIME NOT NULL,
			returned_on DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// mustCreateBook inserts a book through the repository and fails the test on error
func mustCreateBook(t *testing.T, db *gorm.DB, name string, assoc catalog.Associations) *catalog.Book {
	t.Helper()
	book, err := catalog.NewBook("", name, nil)
	require.NoError(t, err)
	require.NoError(t, NewGormBookRepository(db).Create(context.Background(), book, assoc))
	return book
}

// mustCreateMember inserts a member through the repository and fails the test on error
func mustCreateMember(t *testing.T, db *gorm.DB, name string, personalNumber int64) *membership.Member {
	t.Helper()
	member, err := membership.NewMember("", name, personalNumber)
	require.NoError(t, err)
	require.NoError(t, NewGormMemberRepository(db).Create(context.Background(), member))
	return member
}

// mustCreateRental inserts an open rental through the repository
func mustCreateRental(t *testing.T, db *gorm.DB, book *catalog.Book, member *membership.Member, issuedOn time.Time) *circulation.BookRental {
	t.Helper()
	rental, err := circulation.NewBookRental(book.ID, member.ID, issuedOn)
	require.NoError(t, err)
	require.NoError(t, NewGormRentalRepository(db).Create(context.Background(), rental))
	return rental
}
