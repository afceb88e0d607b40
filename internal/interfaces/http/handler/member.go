package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	membershipapp "github.com/library/backend/internal/application/membership"
	"github.com/library/backend/internal/interfaces/http/middleware"
)

// MemberHandler handles member-related API endpoints
type MemberHandler struct {
	BaseHandler
	memberService *membershipapp.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *membershipapp.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// RegisterRoutes registers member routes on the given group
func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	members.POST("", h.Create)
	members.GET("", h.List)
	members.GET("/:id", h.GetByID)
}

// Create registers a new member
func (h *MemberHandler) Create(c *gin.Context) {
	var req membershipapp.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, member)
}

// GetByID retrieves a member by their ID
func (h *MemberHandler) GetByID(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	member, err := h.memberService.GetByID(c.Request.Context(), memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// List retrieves members. A `q` parameter routes through the search
// strategies; a `can_rent` parameter filters on the rental cap.
func (h *MemberHandler) List(c *gin.Context) {
	filter := membershipapp.MemberListFilter{
		Query: c.Query("q"),
	}
	filter.Page, filter.PageSize = pagination(c)

	if raw := c.Query("can_rent"); raw != "" {
		canRent, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid value for can_rent, must be true or false")
			return
		}
		filter.CanRent = &canRent
	}

	members, total, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, members, total, filter.Page, filter.PageSize)
}
