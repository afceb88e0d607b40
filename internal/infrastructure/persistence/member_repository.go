package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/library/backend/internal/domain/circulation"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMemberRepository implements membership.MemberRepository using GORM
type GormMemberRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
	maxRentals  int
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{
		db:          db,
		lockTimeout: defaultLockTimeout,
		maxRentals:  circulation.MaxRentals,
	}
}

// SetLockTimeout bounds how long guarded transactions wait on row locks
func (r *GormMemberRepository) SetLockTimeout(d time.Duration) {
	if d > 0 {
		r.lockTimeout = d
	}
}

// FindByID finds a member by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	var member membership.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByCustomNumber finds a member by its custom number
func (r *GormMemberRepository) FindByCustomNumber(ctx context.Context, customNumber string) (*membership.Member, error) {
	var member membership.Member
	if err := r.db.WithContext(ctx).First(&member, "custom_number = ?", customNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindAll finds members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Member, error) {
	var members []membership.Member
	query := r.applyFilter(r.db.WithContext(ctx).Model(&membership.Member{}), filter)
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&membership.Member{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists the member, allocating the next number in the
// MemberNumbers series when none is supplied. The series lock is held by
// the same transaction that inserts the row.
func (r *GormMemberRepository) Create(ctx context.Context, member *membership.Member) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := beginSerialized(tx, r.lockTimeout); err != nil {
			return err
		}

		if member.CustomNumber == "" {
			number, err := nextInSeries(tx, membership.Member{}.TableName(), membership.MemberNumbers)
			if err != nil {
				return err
			}
			member.CustomNumber = number
		}

		return tx.Create(member).Error
	})
	return translateError(err)
}

// CanRent reports whether the member's open-rental count is below the cap
func (r *GormMemberRepository) CanRent(ctx context.Context, memberID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("book_rentals").
		Where("member_id = ? AND returned_on IS NULL", memberID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count < int64(r.maxRentals), nil
}

// searchStrategies returns the ordered strategies for free-text member search
func (r *GormMemberRepository) searchStrategies(filter shared.Filter) []shared.SearchStrategy {
	return []shared.SearchStrategy{
		{
			Name: "by-number",
			Match: func(ctx context.Context, query string) ([]uuid.UUID, error) {
				var ids []uuid.UUID
				tx := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&membership.Member{}), filter)
				if shared.IsNumericQuery(query) {
					tx = tx.Where("custom_number = ? OR personal_number = ?", query, query)
				} else {
					tx = tx.Where("custom_number = ?", query)
				}
				err := tx.Pluck("members.id", &ids).Error
				return ids, err
			},
		},
		{
			Name: "by-name",
			Match: func(ctx context.Context, query string) ([]uuid.UUID, error) {
				var ids []uuid.UUID
				err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&membership.Member{}), filter).
					Where("LOWER(name) LIKE LOWER(?)", query+"%").
					Pluck("members.id", &ids).Error
				return ids, err
			},
		},
	}
}

// Search matches members by custom or personal number, or by name prefix,
// composed with the structured filters, bounded by maxResults. A blank
// query matches everything.
func (r *GormMemberRepository) Search(ctx context.Context, query string, maxResults int, filter shared.Filter) ([]membership.Member, error) {
	query = strings.TrimSpace(query)

	if query == "" {
		filter.Page = 1
		filter.PageSize = maxResults
		return r.FindAll(ctx, filter)
	}

	ids, err := shared.UnionMatches(ctx, query, r.searchStrategies(filter))
	if err != nil {
		return nil, err
	}
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	if len(ids) == 0 {
		return []membership.Member{}, nil
	}

	var members []membership.Member
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	return orderByIDs(members, ids), nil
}

// applyFilter applies filter options to the query
func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("custom_number ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMemberRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "can_rent":
			if canRent, ok := value.(bool); ok {
				sub := "SELECT count(*) FROM book_rentals WHERE book_rentals.member_id = members.id AND book_rentals.returned_on IS NULL"
				if canRent {
					query = query.Where("("+sub+") < ?", r.maxRentals)
				} else {
					query = query.Where("("+sub+") >= ?", r.maxRentals)
				}
			}
		}
	}
	return query
}

// Ensure GormMemberRepository implements MemberRepository
var _ membership.MemberRepository = (*GormMemberRepository)(nil)
