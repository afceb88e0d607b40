package circulation

import (
	"context"
	"time"

	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RentalRepository defines persistence operations for the rental ledger
type RentalRepository interface {
	shared.Repository[BookRental]

	// Create validates availability of the book and the member's rental cap
	// and inserts the open entry, all inside one transaction with row locks
	// on the book and member, so two concurrent rentals of the same book (or
	// two rentals pushing one member past the cap) cannot both succeed.
	// Violations come back as shared.ValidationErrors carrying every broken
	// rule; a lock wait past the configured bound comes back as
	// shared.ErrLockTimeout.
	Create(ctx context.Context, rental *BookRental) error

	// CloseAll sets ReturnedOn on the member's matching open entries and
	// returns how many were closed. Closing needs no locking: it only ever
	// increases availability.
	CloseAll(ctx context.Context, memberID uuid.UUID, rentalIDs []uuid.UUID, returnedOn time.Time) (int64, error)

	// CountOpenByMember counts the member's open entries.
	CountOpenByMember(ctx context.Context, memberID uuid.UUID) (int64, error)

	// ExistsOpenByBook reports whether any open entry references the book.
	ExistsOpenByBook(ctx context.Context, bookID uuid.UUID) (bool, error)

	// Search matches entries by the associated book's or member's custom
	// number (numeric-looking query, exact) or name (prefix-tolerant),
	// bounded by maxResults; a blank query matches everything. showAll=false
	// restricts to open entries; the restriction composes with the search.
	Search(ctx context.Context, query string, maxResults int, showAll bool) ([]BookRental, error)
}
