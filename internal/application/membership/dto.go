package membership

import (
	"time"

	"github.com/library/backend/internal/domain/membership"
	"github.com/google/uuid"
)

// dateLayout is the wire format for date-only fields
const dateLayout = "2006-01-02"

// CreateMemberRequest represents a request to register a new member
type CreateMemberRequest struct {
	// CustomNumber is optional; when absent the next number in the M series
	// is allocated.
	CustomNumber     string `json:"custom_number" binding:"max=20"`
	Name             string `json:"name" binding:"required,min=1,max=200"`
	PersonalNumber   int64  `json:"personal_number" binding:"required,gt=0"`
	Phone            string `json:"phone" binding:"omitempty,len=10"`
	Email            string `json:"email" binding:"omitempty,email,max=200"`
	Section          string `json:"section" binding:"max=100"`
	DateOfBirth      string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	DateOfRetirement string `json:"date_of_retirement" binding:"omitempty,datetime=2006-01-02"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID               uuid.UUID `json:"id"`
	CustomNumber     string    `json:"custom_number"`
	Name             string    `json:"name"`
	PersonalNumber   int64     `json:"personal_number"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Section          string    `json:"section,omitempty"`
	DateOfBirth      string    `json:"date_of_birth,omitempty"`
	DateOfRetirement string    `json:"date_of_retirement,omitempty"`
	CanRent          bool      `json:"can_rent"`
	CreatedAt        time.Time `json:"created_at"`
}

// MemberListFilter carries list and search parameters for members
type MemberListFilter struct {
	Page     int
	PageSize int
	Query    string
	CanRent  *bool
}

// toMemberResponse maps a domain member to its API representation
func toMemberResponse(member *membership.Member, canRent bool) *MemberResponse {
	resp := &MemberResponse{
		ID:             member.ID,
		CustomNumber:   member.CustomNumber,
		Name:           member.Name,
		PersonalNumber: member.PersonalNumber,
		CanRent:        canRent,
		CreatedAt:      member.CreatedAt,
	}
	if member.Phone != nil {
		resp.Phone = *member.Phone
	}
	if member.Email != nil {
		resp.Email = *member.Email
	}
	if member.Section != nil {
		resp.Section = *member.Section
	}
	if member.DateOfBirth != nil {
		resp.DateOfBirth = member.DateOfBirth.Format(dateLayout)
	}
	if member.DateOfRetirement != nil {
		resp.DateOfRetirement = member.DateOfRetirement.Format(dateLayout)
	}
	return resp
}
