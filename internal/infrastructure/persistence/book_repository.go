package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBookRepository implements catalog.BookRepository using GORM
type GormBookRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormBookRepository creates a new GormBookRepository
func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db, lockTimeout: defaultLockTimeout}
}

// SetLockTimeout bounds how long guarded transactions wait on row locks
func (r *GormBookRepository) SetLockTimeout(d time.Duration) {
	if d > 0 {
		r.lockTimeout = d
	}
}

// FindByID finds a book by its ID with associations loaded
func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	var book catalog.Book
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Publisher").
		Preload("Categories").
		First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// FindByCustomNumber finds a book by its custom number
func (r *GormBookRepository) FindByCustomNumber(ctx context.Context, customNumber string) (*catalog.Book, error) {
	var book catalog.Book
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Publisher").
		Preload("Categories").
		First(&book, "custom_number = ?", customNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// FindAll finds books matching the filter
func (r *GormBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, error) {
	var books []catalog.Book
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Book{}), filter)
	if err := query.
		Preload("Author").
		Preload("Publisher").
		Preload("Categories").
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Count counts books matching the filter
func (r *GormBookRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Book{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists the book and its associations in one transaction. Lookup
// rows (author, publisher, categories) are found or created by name; when
// the book has no custom number one is allocated from the BookNumbers series
// under the series lock. Any failure rolls the whole transaction back.
func (r *GormBookRepository) Create(ctx context.Context, book *catalog.Book, assoc catalog.Associations) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := beginSerialized(tx, r.lockTimeout); err != nil {
			return err
		}

		if name := shared.NormalizeName(assoc.AuthorName); name != "" {
			author, err := findOrCreateAuthor(tx, name)
			if err != nil {
				return err
			}
			book.AuthorID = &author.ID
			book.Author = nil
		}

		if name := shared.NormalizeName(assoc.PublisherName); name != "" {
			publisher, err := findOrCreatePublisher(tx, name)
			if err != nil {
				return err
			}
			book.PublisherID = &publisher.ID
			book.Publisher = nil
		}

		book.Categories = book.Categories[:0]
		seen := make(map[string]struct{}, len(assoc.CategoryNames))
		for _, raw := range assoc.CategoryNames {
			name := shared.NormalizeName(raw)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			category, err := findOrCreateCategory(tx, name)
			if err != nil {
				return err
			}
			book.Categories = append(book.Categories, *category)
		}

		if book.CustomNumber == "" {
			number, err := nextInSeries(tx, catalog.Book{}.TableName(), catalog.BookNumbers)
			if err != nil {
				return err
			}
			book.CustomNumber = number
		}

		// Categories already exist; only the join rows need creating.
		return tx.Omit("Categories.*").Create(book).Error
	})
	return translateError(err)
}

// IsAvailable reports whether no open rental references the book
func (r *GormBookRepository) IsAvailable(ctx context.Context, bookID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("book_rentals").
		Where("book_id = ? AND returned_on IS NULL", bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// searchStrategies returns the ordered strategies for free-text book search
func (r *GormBookRepository) searchStrategies(filter shared.Filter) []shared.SearchStrategy {
	return []shared.SearchStrategy{
		{
			Name: "by-number",
			Match: func(ctx context.Context, query string) ([]uuid.UUID, error) {
				var ids []uuid.UUID
				err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Book{}), filter).
					Where("custom_number = ?", query).
					Pluck("books.id", &ids).Error
				return ids, err
			},
		},
		{
			Name: "by-name",
			Match: func(ctx context.Context, query string) ([]uuid.UUID, error) {
				var ids []uuid.UUID
				pattern := query + "%"
				err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Book{}), filter).
					Joins("LEFT JOIN authors ON authors.id = books.author_id").
					Where("LOWER(books.name) LIKE LOWER(?) OR LOWER(authors.name) LIKE LOWER(?)", pattern, pattern).
					Pluck("books.id", &ids).Error
				return ids, err
			},
		},
	}
}

// Search matches books by custom number or by book/author name prefix,
// composed with the structured filters, bounded by maxResults. A blank query
// matches everything.
func (r *GormBookRepository) Search(ctx context.Context, query string, maxResults int, filter shared.Filter) ([]catalog.Book, error) {
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
		return []catalog.Book{}, nil
	}

	var books []catalog.Book
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Publisher").
		Preload("Categories").
		Where("id IN ?", ids).
		Find(&books).Error; err != nil {
		return nil, err
	}
	return orderByIDs(books, ids), nil
}

// applyFilter applies filter options to the query
func (r *GormBookRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormBookRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "availability":
			if available, ok := value.(bool); ok {
				sub := "SELECT 1 FROM book_rentals WHERE book_rentals.book_id = books.id AND book_rentals.returned_on IS NULL"
				if available {
					query = query.Where("NOT EXISTS (" + sub + ")")
				} else {
					query = query.Where("EXISTS (" + sub + ")")
				}
			}
		}
	}
	return query
}

// Ensure GormBookRepository implements BookRepository
var _ catalog.BookRepository = (*GormBookRepository)(nil)
