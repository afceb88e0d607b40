package catalog

import (
	"strings"
	"time"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CreateBookRequest represents a request to register a new book
type CreateBookRequest struct {
	// CustomNumber is optional; when absent the next number in the BK series
	// is allocated.
	CustomNumber   string `json:"custom_number" binding:"max=20"`
	Name           string `json:"name" binding:"required,min=1,max=200"`
	PublishingYear *int   `json:"publishing_year"`
	AuthorName     string `json:"author_name" binding:"max=200"`
	PublisherName  string `json:"publisher_name" binding:"max=200"`
	// Categories is a comma-separated list of category names.
	Categories string `json:"categories" binding:"max=500"`
}

// categoryNames splits the comma-separated category list
func (r CreateBookRequest) categoryNames() []string {
	if r.Categories == "" {
		return nil
	}
	return strings.Split(r.Categories, ",")
}

// BookResponse represents a book in API responses
type BookResponse struct {
	ID             uuid.UUID `json:"id"`
	CustomNumber   string    `json:"custom_number"`
	Name           string    `json:"name"`
	PublishingYear *int      `json:"publishing_year,omitempty"`
	Author         string    `json:"author,omitempty"`
	Publisher      string    `json:"publisher,omitempty"`
	Categories     []string  `json:"categories"`
	Available      bool      `json:"available"`
	CreatedAt      time.Time `json:"created_at"`
}

// BookListFilter carries list and search parameters for books
type BookListFilter struct {
	Page         int
	PageSize     int
	Query        string
	Availability *bool
}

// toBookResponse maps a domain book to its API representation
func toBookResponse(book *catalog.Book, available bool) *BookResponse {
	resp := &BookResponse{
		ID:             book.ID,
		CustomNumber:   book.CustomNumber,
		Name:           book.Name,
		PublishingYear: book.PublishingYear,
		Categories:     make([]string, 0, len(book.Categories)),
		Available:      available,
		CreatedAt:      book.CreatedAt,
	}
	if book.Author != nil {
		resp.Author = book.Author.Name
	}
	if book.Publisher != nil {
		resp.Publisher = book.Publisher.Name
	}
	for _, category := range book.Categories {
		resp.Categories = append(resp.Categories, category.Name)
	}
	return resp
}
