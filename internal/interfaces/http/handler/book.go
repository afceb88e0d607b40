package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/library/backend/internal/application/catalog"
	"github.com/library/backend/internal/interfaces/http/middleware"
)

// BookHandler handles book-related API endpoints
type BookHandler struct {
	BaseHandler
	bookService *catalogapp.BookService
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService *catalogapp.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// RegisterRoutes registers book routes on the given group
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	books.POST("", h.Create)
	books.GET("", h.List)
	books.GET("/:id", h.GetByID)
}

// Create registers a new book. The custom number is allocated server-side
// when the request leaves it blank.
func (h *BookHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, book)
}

// GetByID retrieves a book by its ID
func (h *BookHandler) GetByID(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid book ID format")
		return
	}

	book, err := h.bookService.GetByID(c.Request.Context(), bookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, book)
}

// List retrieves books. A `q` parameter routes through the search
// strategies; an `available` parameter filters on open rentals.
func (h *BookHandler) List(c *gin.Context) {
	filter := catalogapp.BookListFilter{
		Query: c.Query("q"),
	}
	filter.Page, filter.PageSize = pagination(c)

	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid value for available, must be true or false")
			return
		}
		filter.Availability = &available
	}

	books, total, err := h.bookService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, books, total, filter.Page, filter.PageSize)
}
