package circulation

import (
	"time"

	"github.com/library/backend/internal/domain/circulation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for date-only fields
const dateLayout = "2006-01-02"

// CreateRentalRequest represents a request to issue a book to a member
type CreateRentalRequest struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	MemberID uuid.UUID `json:"member_id" binding:"required"`
	// IssuedOn is optional; blank means today.
	IssuedOn string `json:"issued_on" binding:"omitempty,datetime=2006-01-02"`
}

// ReturnRequest represents a request to return one or more books
type ReturnRequest struct {
	MemberID  uuid.UUID   `json:"member_id" binding:"required"`
	RentalIDs []uuid.UUID `json:"rental_ids" binding:"required,min=1"`
	// ReturnedOn is optional; blank means today.
	ReturnedOn string `json:"returned_on" binding:"omitempty,datetime=2006-01-02"`
}

// ReturnResponse reports how many entries a return request closed
type ReturnResponse struct {
	Closed int64 `json:"closed"`
}

// RentalResponse represents a ledger entry in API responses
type RentalResponse struct {
	ID           uuid.UUID       `json:"id"`
	BookID       uuid.UUID       `json:"book_id"`
	BookNumber   string          `json:"book_number,omitempty"`
	BookName     string          `json:"book_name,omitempty"`
	MemberID     uuid.UUID       `json:"member_id"`
	MemberNumber string          `json:"member_number,omitempty"`
	MemberName   string          `json:"member_name,omitempty"`
	IssuedOn     string          `json:"issued_on"`
	DueBy        string          `json:"due_by"`
	ReturnedOn   string          `json:"returned_on,omitempty"`
	Open         bool            `json:"open"`
	Fine         decimal.Decimal `json:"fine"`
	CreatedAt    time.Time       `json:"created_at"`
}

// FineResponse reports the penalty accrued on one entry as of a date
type FineResponse struct {
	RentalID uuid.UUID       `json:"rental_id"`
	AsOf     string          `json:"as_of"`
	DueBy    string          `json:"due_by"`
	Fine     decimal.Decimal `json:"fine"`
}

// RentalListFilter carries list and search parameters for the ledger
type RentalListFilter struct {
	Page     int
	PageSize int
	Query    string
	ShowAll  bool
}

// toRentalResponse maps a ledger entry to its API representation. The fine
// is computed as of the given date, never read from storage.
func toRentalResponse(rental *circulation.BookRental, asOf time.Time) *RentalResponse {
	resp := &RentalResponse{
		ID:        rental.ID,
		BookID:    rental.BookID,
		MemberID:  rental.MemberID,
		IssuedOn:  rental.IssuedOn.Format(dateLayout),
		DueBy:     rental.DueBy().Format(dateLayout),
		Open:      !rental.Returned(),
		Fine:      rental.Fine(asOf),
		CreatedAt: rental.CreatedAt,
	}
	if rental.ReturnedOn != nil {
		resp.ReturnedOn = rental.ReturnedOn.Format(dateLayout)
	}
	if rental.Book != nil {
		resp.BookNumber = rental.Book.CustomNumber
		resp.BookName = rental.Book.Name
	}
	if rental.Member != nil {
		resp.MemberNumber = rental.Member.CustomNumber
		resp.MemberName = rental.Member.Name
	}
	return resp
}
