package membership

import (
	"context"

	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberRepository defines persistence operations for members
type MemberRepository interface {
	shared.Repository[Member]
	FindByCustomNumber(ctx context.Context, customNumber string) (*Member, error)

	// Create persists the member. When member.CustomNumber is empty it
	// allocates the next number in the MemberNumbers series inside the same
	// transaction, holding the series lock until commit.
	Create(ctx context.Context, member *Member) error

	// CanRent reports whether the member's open-rental count is strictly
	// below the cap. Always recomputed from the ledger, never cached.
	CanRent(ctx context.Context, memberID uuid.UUID) (bool, error)

	// Search runs the member's search strategies (by custom or personal
	// number, by name) for the query, unions the matches, and returns up to
	// maxResults records. A blank query matches everything. Structured
	// filters (can_rent) from filter compose with the search.
	Search(ctx context.Context, query string, maxResults int, filter shared.Filter) ([]Member, error)
}
