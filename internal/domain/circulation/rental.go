package circulation

import (
	"time"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Circulation rules. The fine rate is flat per day late, in one currency
// unit. These are package-level defaults; deployments may override them at
// startup from configuration, before any repository or service is built.
var (
	// DueByDays is the loan period in days.
	DueByDays = 15
	// MaxRentals is the cap on simultaneous open rentals per member.
	MaxRentals = 2
	// FinePerDay is the flat fine accrued per day past the due date.
	FinePerDay = decimal.NewFromInt(1)
)

// Rule violation messages surfaced to callers of rental creation.
const (
	MsgBookNotAvailable = "book is not available"
	MsgMemberMaxRentals = "member has reached the maximum number of rentals"
)

// BookRental is the ledger entry binding a book to a member for a time
// window. An entry is Open while ReturnedOn is nil and Closed once it is set;
// the transition is one-way, there is no re-open. The entry owns the issued
// and returned dates; book and member are referenced, not owned.
type BookRental struct {
	shared.BaseEntity
	BookID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Book       *catalog.Book      `gorm:"foreignKey:BookID"`
	MemberID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	Member     *membership.Member `gorm:"foreignKey:MemberID"`
	IssuedOn   time.Time          `gorm:"type:date;not null"`
	ReturnedOn *time.Time         `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (BookRental) TableName() string {
	return "book_rentals"
}

// NewBookRental creates an open ledger entry. A zero issuedOn defaults to
// today. The availability and cap checks happen in the persistence layer,
// inside the same transaction as the insert.
func NewBookRental(bookID, memberID uuid.UUID, issuedOn time.Time) (*BookRental, error) {
	var errs shared.ValidationErrors
	if bookID == uuid.Nil {
		errs = errs.Add("book_id", "can't be blank")
	}
	if memberID == uuid.Nil {
		errs = errs.Add("member_id", "can't be blank")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	if issuedOn.IsZero() {
		issuedOn = time.Now()
	}
	return &BookRental{
		BaseEntity: shared.NewBaseEntity(),
		BookID:     bookID,
		MemberID:   memberID,
		IssuedOn:   truncateToDate(issuedOn),
	}, nil
}

// Returned reports whether the entry is Closed.
func (r *BookRental) Returned() bool {
	return r.ReturnedOn != nil
}

// DueBy is the date the book must be returned by. Pure function of IssuedOn.
func (r *BookRental) DueBy() time.Time {
	return truncateToDate(r.IssuedOn).AddDate(0, 0, DueByDays)
}

// Fine computes the penalty accrued as of the given date. It is zero for a
// closed entry and before (or on) the due date; past the due date it grows by
// FinePerDay per day. The fine is always computed on demand, never stored, so
// the fine of an open entry grows day over day without a background job.
func (r *BookRental) Fine(asOf time.Time) decimal.Decimal {
	if r.Returned() {
		return decimal.Zero
	}
	dueBy := r.DueBy()
	asOf = truncateToDate(asOf)
	if !dueBy.Before(asOf) {
		return decimal.Zero
	}
	daysLate := int64(asOf.Sub(dueBy).Hours() / 24)
	return decimal.NewFromInt(daysLate).Mul(FinePerDay)
}

// truncateToDate drops the time-of-day component.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
