package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	circulationapp "github.com/library/backend/internal/application/circulation"
	"github.com/library/backend/internal/domain/circulation"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/interfaces/http/dto"
	"github.com/library/backend/internal/interfaces/http/middleware"
)

// RentalHandler handles lending ledger API endpoints
type RentalHandler struct {
	BaseHandler
	rentalService *circulationapp.RentalService
}

// NewRentalHandler creates a new RentalHandler
func NewRentalHandler(rentalService *circulationapp.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// RegisterRoutes registers rental routes on the given group
func (h *RentalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rentals := rg.Group("/rentals")
	rentals.POST("", h.Create)
	rentals.GET("", h.List)
	rentals.GET("/:id", h.GetByID)
	rentals.GET("/:id/fine", h.Fine)

	rg.POST("/returns", h.Return)
}

// Create issues a book to a member
func (h *RentalHandler) Create(c *gin.Context) {
	var req circulationapp.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	rental, err := h.rentalService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleRentalError(c, err)
		return
	}

	h.Created(c, rental)
}

// GetByID retrieves a ledger entry with its fine as of today
func (h *RentalHandler) GetByID(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rental ID format")
		return
	}

	rental, err := h.rentalService.GetByID(c.Request.Context(), rentalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rental)
}

// Fine reports the penalty accrued on an entry. An `as_of` parameter
// computes it for a different day; blank means today.
func (h *RentalHandler) Fine(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rental ID format")
		return
	}

	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid value for as_of, must be a date in YYYY-MM-DD form")
			return
		}
	}

	fine, err := h.rentalService.Fine(c.Request.Context(), rentalID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fine)
}

// Return closes the member's listed ledger entries
func (h *RentalHandler) Return(c *gin.Context) {
	var req circulationapp.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.rentalService.Close(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves ledger entries. Open entries only by default; `show_all`
// lifts the restriction. A `q` parameter searches by book or member.
func (h *RentalHandler) List(c *gin.Context) {
	filter := circulationapp.RentalListFilter{
		Query:   c.Query("q"),
		ShowAll: c.Query("show_all") == "true",
	}
	filter.Page, filter.PageSize = pagination(c)

	rentals, total, err := h.rentalService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, rentals, total, filter.Page, filter.PageSize)
}

// handleRentalError gives lending-rule violations their own 422 codes so
// clients can distinguish them from plain field validation. Everything else
// falls through to the shared error handling.
func (h *RentalHandler) handleRentalError(c *gin.Context, err error) {
	var violations shared.ValidationErrors
	if errors.As(err, &violations) {
		code := ""
		details := make([]dto.ValidationDetail, 0, len(violations))
		for _, fe := range violations {
			details = append(details, dto.ValidationDetail{Field: fe.Field, Message: fe.Message})
			if code != "" {
				continue
			}
			switch fe.Message {
			case circulation.MsgBookNotAvailable:
				code = dto.ErrCodeBookNotAvailable
			case circulation.MsgMemberMaxRentals:
				code = dto.ErrCodeMemberMaxRentals
			}
		}
		if code != "" {
			resp := dto.NewErrorResponseWithRequestID(code, violations.Error(), getRequestID(c))
			resp.Error.Details = details
			c.JSON(http.StatusUnprocessableEntity, resp)
			return
		}
	}
	h.HandleError(c, err)
}
