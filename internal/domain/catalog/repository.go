package catalog

import (
	"context"

	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Associations carries the name-resolved references for a new book. Names are
// expected to be normalized already; empty names mean "no reference".
type Associations struct {
	AuthorName    string
	PublisherName string
	CategoryNames []string
}

// BookRepository defines persistence operations for books
type BookRepository interface {
	shared.Repository[Book]
	FindByCustomNumber(ctx context.Context, customNumber string) (*Book, error)

	// Create persists the book and its name-resolved associations in one
	// transaction. When book.CustomNumber is empty it allocates the next
	// number in the BookNumbers series inside the same transaction, holding
	// the series lock until commit. Any failure rolls everything back,
	// including lookup rows created along the way.
	Create(ctx context.Context, book *Book, assoc Associations) error

	// IsAvailable reports whether no open rental references the book. Always
	// recomputed from the ledger, never cached.
	IsAvailable(ctx context.Context, bookID uuid.UUID) (bool, error)

	// Search runs the book's search strategies (by custom number, by book or
	// author name) for the query, unions the matches, and returns up to
	// maxResults records. A blank query matches everything. Structured
	// filters (availability) from filter compose with the search.
	Search(ctx context.Context, query string, maxResults int, filter shared.Filter) ([]Book, error)
}
