package catalog

import (
	"context"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// defaultSearchLimit bounds how many records a free-text search returns
const defaultSearchLimit = 50

// BookService handles book-related business operations
type BookService struct {
	bookRepo catalog.BookRepository
}

// NewBookService creates a new BookService
func NewBookService(bookRepo catalog.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

// Create registers a new book together with its author, publisher and
// category records. All of it happens in one transaction; a duplicate custom
// number or any other failure leaves nothing behind.
func (s *BookService) Create(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	book, err := catalog.NewBook(req.CustomNumber, req.Name, req.PublishingYear)
	if err != nil {
		return nil, err
	}

	assoc := catalog.Associations{
		AuthorName:    req.AuthorName,
		PublisherName: req.PublisherName,
		CategoryNames: req.categoryNames(),
	}
	if err := s.bookRepo.Create(ctx, book, assoc); err != nil {
		return nil, err
	}

	created, err := s.bookRepo.FindByID(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	// A book cannot have an open rental the moment it is created.
	return toBookResponse(created, true), nil
}

// GetByID returns a single book with its current availability
func (s *BookService) GetByID(ctx context.Context, id uuid.UUID) (*BookResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	available, err := s.bookRepo.IsAvailable(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	return toBookResponse(book, available), nil
}

// List returns books matching the filter. A non-blank query routes through
// the search strategies; otherwise it is a plain paginated listing. The
// availability filter composes with both.
func (s *BookService) List(ctx context.Context, filter BookListFilter) ([]BookResponse, int64, error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	if filter.Availability != nil {
		repoFilter.Filters["availability"] = *filter.Availability
	}

	var (
		books []catalog.Book
		total int64
		err   error
	)
	if filter.Query != "" {
		limit := repoFilter.PageSize
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		books, err = s.bookRepo.Search(ctx, filter.Query, limit, repoFilter)
		if err != nil {
			return nil, 0, err
		}
		total = int64(len(books))
	} else {
		books, err = s.bookRepo.FindAll(ctx, repoFilter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.bookRepo.Count(ctx, repoFilter)
		if err != nil {
			return nil, 0, err
		}
	}

	responses := make([]BookResponse, 0, len(books))
	for i := range books {
		available, err := s.bookRepo.IsAvailable(ctx, books[i].ID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, *toBookResponse(&books[i], available))
	}
	return responses, total, nil
}
