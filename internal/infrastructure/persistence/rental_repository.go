package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/circulation"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRentalRepository implements circulation.RentalRepository using GORM
type GormRentalRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
	maxRentals  int
}

// NewGormRentalRepository creates a new GormRentalRepository
func NewGormRentalRepository(db *gorm.DB) *GormRentalRepository {
	return &GormRentalRepository{
		db:          db,
		lockTimeout: defaultLockTimeout,
		maxRentals:  circulation.MaxRentals,
	}
}

// SetLockTimeout bounds how long guarded transactions wait on row locks
func (r *GormRentalRepository) SetLockTimeout(d time.Duration) {
	if d > 0 {
		r.lockTimeout = d
	}
}

// FindByID finds a rental entry by its ID with book and member loaded
func (r *GormRentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*circulation.BookRental, error) {
	var rental circulation.BookRental
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		First(&rental, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rental, nil
}

// FindAll finds rental entries matching the filter
func (r *GormRentalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]circulation.BookRental, error) {
	var rentals []circulation.BookRental
	query := r.applyFilter(r.db.WithContext(ctx).Model(&circulation.BookRental{}), filter)
	if err := query.
		Preload("Book").
		Preload("Member").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// Count counts rental entries matching the filter
func (r *GormRentalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&circulation.BookRental{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create validates and inserts an open rental entry in one transaction.
// The book row and then the member row are locked FOR UPDATE (always in
// that order), so concurrent rentals touching the same book or member
// serialize; the loser re-checks against the winner's committed state.
// Rule violations are collected into shared.ValidationErrors so a request
// breaking both rules reports both.
func (r *GormRentalRepository) Create(ctx context.Context, rental *circulation.BookRental) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := beginSerialized(tx, r.lockTimeout); err != nil {
			return err
		}

		var book catalog.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&book, "id = ?", rental.BookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		var member membership.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&member, "id = ?", rental.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		var violations shared.ValidationErrors

		var openByBook int64
		if err := tx.Model(&circulation.BookRental{}).
			Where("book_id = ? AND returned_on IS NULL", rental.BookID).
			Count(&openByBook).Error; err != nil {
			return err
		}
		if openByBook > 0 {
			violations = violations.Add("book", circulation.MsgBookNotAvailable)
		}

		var openByMember int64
		if err := tx.Model(&circulation.BookRental{}).
			Where("member_id = ? AND returned_on IS NULL", rental.MemberID).
			Count(&openByMember).Error; err != nil {
			return err
		}
		if openByMember >= int64(r.maxRentals) {
			violations = violations.Add("member", circulation.MsgMemberMaxRentals)
		}

		if violations.HasErrors() {
			return violations
		}

		return tx.Create(rental).Error
	})
	return translateError(err)
}

// CloseAll closes the member's matching open entries and reports how many
// changed. A plain UPDATE suffices: closing only increases availability, so
// no lock ordering is involved.
func (r *GormRentalRepository) CloseAll(ctx context.Context, memberID uuid.UUID, rentalIDs []uuid.UUID, returnedOn time.Time) (int64, error) {
	if len(rentalIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&circulation.BookRental{}).
		Where("member_id = ? AND id IN ? AND returned_on IS NULL", memberID, rentalIDs).
		Update("returned_on", returnedOn)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountOpenByMember counts the member's open entries
func (r *GormRentalRepository) CountOpenByMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&circulation.BookRental{}).
		Where("member_id = ? AND returned_on IS NULL", memberID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsOpenByBook reports whether any open entry references the book
func (r *GormRentalRepository) ExistsOpenByBook(ctx context.Context, bookID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&circulation.BookRental{}).
		Where("book_id = ? AND returned_on IS NULL", bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search matches entries through the associated book and member: a
// numeric-looking query matches custom numbers exactly, anything else
// matches book or member name prefixes. showAll=false restricts to open
// entries; the restriction composes with the match.
func (r *GormRentalRepository) Search(ctx context.Context, query string, maxResults int, showAll bool) ([]circulation.BookRental, error) {
	query = strings.TrimSpace(query)

	tx := r.db.WithContext(ctx).
		Model(&circulation.BookRental{}).
		Joins("JOIN books ON books.id = book_rentals.book_id").
		Joins("JOIN members ON members.id = book_rentals.member_id")

	if !showAll {
		tx = tx.Where("book_rentals.returned_on IS NULL")
	}

	if query != "" {
		if shared.IsNumericQuery(query) {
			tx = tx.Where("books.custom_number = ? OR members.custom_number = ?", query, query)
		} else {
			pattern := query + "%"
			tx = tx.Where("LOWER(books.name) LIKE LOWER(?) OR LOWER(members.name) LIKE LOWER(?)", pattern, pattern)
		}
	}

	var rentals []circulation.BookRental
	if err := tx.
		Order("book_rentals.issued_on DESC").
		Limit(maxResults).
		Preload("Book").
		Preload("Member").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// applyFilter applies filter options to the query
func (r *GormRentalRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("issued_on DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRentalRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "show_all":
			if showAll, ok := value.(bool); ok && showAll {
				continue
			}
			query = query.Where("returned_on IS NULL")
		case "member_id":
			query = query.Where("member_id = ?", value)
		case "book_id":
			query = query.Where("book_id = ?", value)
		}
	}
	if _, ok := filter.Filters["show_all"]; !ok {
		query = query.Where("returned_on IS NULL")
	}
	return query
}

// Ensure GormRentalRepository implements RentalRepository
var _ circulation.RentalRepository = (*GormRentalRepository)(nil)
