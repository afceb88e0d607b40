package circulation

import (
	"context"
	"time"

	"github.com/library/backend/internal/domain/circulation"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// defaultSearchLimit bounds how many records a free-text search returns
const defaultSearchLimit = 50

// RentalService handles the rental lifecycle: issue, return, fines
type RentalService struct {
	rentalRepo circulation.RentalRepository
	now        func() time.Time
}

// NewRentalService creates a new RentalService
func NewRentalService(rentalRepo circulation.RentalRepository) *RentalService {
	return &RentalService{
		rentalRepo: rentalRepo,
		now:        time.Now,
	}
}

// Create issues a book to a member. Availability and the member's rental cap
// are checked in the same transaction that inserts the entry, so concurrent
// requests for the last copy (or the last cap slot) cannot both win.
func (s *RentalService) Create(ctx context.Context, req CreateRentalRequest) (*RentalResponse, error) {
	var issuedOn time.Time
	if req.IssuedOn != "" {
		parsed, err := time.Parse(dateLayout, req.IssuedOn)
		if err != nil {
			return nil, shared.ValidationErrors{}.Add("issued_on", "must be a date in YYYY-MM-DD form")
		}
		issuedOn = parsed
	} else {
		issuedOn = s.now()
	}

	rental, err := circulation.NewBookRental(req.BookID, req.MemberID, issuedOn)
	if err != nil {
		return nil, err
	}

	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	created, err := s.rentalRepo.FindByID(ctx, rental.ID)
	if err != nil {
		return nil, err
	}
	return toRentalResponse(created, s.now()), nil
}

// GetByID returns a single ledger entry with its fine as of today
func (s *RentalService) GetByID(ctx context.Context, id uuid.UUID) (*RentalResponse, error) {
	rental, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRentalResponse(rental, s.now()), nil
}

// Close returns the member's listed books. Entries that are already closed
// or belong to another member are skipped; the response carries how many
// actually closed.
func (s *RentalService) Close(ctx context.Context, req ReturnRequest) (*ReturnResponse, error) {
	var returnedOn time.Time
	if req.ReturnedOn != "" {
		parsed, err := time.Parse(dateLayout, req.ReturnedOn)
		if err != nil {
			return nil, shared.ValidationErrors{}.Add("returned_on", "must be a date in YYYY-MM-DD form")
		}
		returnedOn = parsed
	} else {
		returnedOn = s.now()
	}

	closed, err := s.rentalRepo.CloseAll(ctx, req.MemberID, req.RentalIDs, returnedOn)
	if err != nil {
		return nil, err
	}
	return &ReturnResponse{Closed: closed}, nil
}

// Fine computes the penalty on an entry as of the given date; a zero asOf
// means today. The amount is never stored, so it is correct the moment it is
// read.
func (s *RentalService) Fine(ctx context.Context, id uuid.UUID, asOf time.Time) (*FineResponse, error) {
	rental, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	return &FineResponse{
		RentalID: rental.ID,
		AsOf:     asOf.Format(dateLayout),
		DueBy:    rental.DueBy().Format(dateLayout),
		Fine:     rental.Fine(asOf),
	}, nil
}

// List returns ledger entries matching the filter. A non-blank query routes
// through the search strategies; otherwise it is a plain paginated listing.
// ShowAll lifts the default open-only restriction in both cases.
func (s *RentalService) List(ctx context.Context, filter RentalListFilter) ([]RentalResponse, int64, error) {
	var (
		rentals []circulation.BookRental
		total   int64
		err     error
	)
	if filter.Query != "" {
		limit := filter.PageSize
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		rentals, err = s.rentalRepo.Search(ctx, filter.Query, limit, filter.ShowAll)
		if err != nil {
			return nil, 0, err
		}
		total = int64(len(rentals))
	} else {
		repoFilter := shared.DefaultFilter()
		if filter.Page > 0 {
			repoFilter.Page = filter.Page
		}
		if filter.PageSize > 0 {
			repoFilter.PageSize = filter.PageSize
		}
		repoFilter.Filters["show_all"] = filter.ShowAll

		rentals, err = s.rentalRepo.FindAll(ctx, repoFilter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.rentalRepo.Count(ctx, repoFilter)
		if err != nil {
			return nil, 0, err
		}
	}

	asOf := s.now()
	responses := make([]RentalResponse, 0, len(rentals))
	for i := range rentals {
		responses = append(responses, *toRentalResponse(&rentals[i], asOf))
	}
	return responses, total, nil
}
