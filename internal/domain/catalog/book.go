package catalog

import (
	"time"

	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BookNumbers is the custom-number series for books, e.g. "BK000042".
var BookNumbers = shared.NumberScheme{Prefix: "BK", Width: 6}

// Book represents a physical or logical item available for rental.
//
// Availability is a derived property owned by the circulation ledger: a book
// is available iff no open rental references it. It is never stored on the
// book row, so it cannot go stale and permit a double rental.
type Book struct {
	shared.BaseEntity
	CustomNumber   string     `gorm:"uniqueIndex;not null"`
	Name           string     `gorm:"not null"`
	PublishingYear *int       `gorm:""`
	AuthorID       *uuid.UUID `gorm:"type:uuid"`
	Author         *Author    `gorm:"foreignKey:AuthorID"`
	PublisherID    *uuid.UUID `gorm:"type:uuid"`
	Publisher      *Publisher `gorm:"foreignKey:PublisherID"`
	Categories     []Category `gorm:"many2many:book_categories"`
}

// TableName returns the table name for GORM
func (Book) TableName() string {
	return "books"
}

// NewBook creates a book after normalizing and validating its fields. An
// empty customNumber means the persistence layer allocates the next number in
// the BookNumbers series during creation.
func NewBook(customNumber, name string, publishingYear *int) (*Book, error) {
	book := &Book{
		BaseEntity:     shared.NewBaseEntity(),
		CustomNumber:   shared.NormalizeName(customNumber),
		Name:           shared.NormalizeName(name),
		PublishingYear: publishingYear,
	}
	if errs := book.Validate(); errs.HasErrors() {
		return nil, errs
	}
	return book, nil
}

// Validate checks the book's own invariants. Uniqueness of the custom number
// is enforced by the store.
func (b *Book) Validate() shared.ValidationErrors {
	var errs shared.ValidationErrors
	if b.Name == "" {
		errs = errs.Add("name", "can't be blank")
	}
	// Caller-supplied custom numbers are accepted as-is (data migrations carry
	// legacy formats); only uniqueness is enforced, by the store.
	if b.PublishingYear != nil && *b.PublishingYear > time.Now().Year() {
		errs = errs.Add("publishing_year", "must be less than or equal to the current year")
	}
	return errs
}
