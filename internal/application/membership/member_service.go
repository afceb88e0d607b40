package membership

import (
	"context"
	"time"

	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// defaultSearchLimit bounds how many records a free-text search returns
const defaultSearchLimit = 50

// MemberService handles member-related business operations
type MemberService struct {
	memberRepo membership.MemberRepository
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo membership.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// Create registers a new member, allocating a custom number when none is
// supplied. Uniqueness of the custom number, personal number, phone and
// email is enforced by the store.
func (s *MemberService) Create(ctx context.Context, req CreateMemberRequest) (*MemberResponse, error) {
	member, err := membership.NewMember(req.CustomNumber, req.Name, req.PersonalNumber)
	if err != nil {
		return nil, err
	}

	member.SetPhone(req.Phone)
	member.SetEmail(req.Email)
	member.SetSection(req.Section)

	if req.DateOfBirth != "" {
		born, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return nil, shared.ValidationErrors{}.Add("date_of_birth", "must be a date in YYYY-MM-DD form")
		}
		member.DateOfBirth = &born
	}
	if req.DateOfRetirement != "" {
		retired, err := time.Parse(dateLayout, req.DateOfRetirement)
		if err != nil {
			return nil, shared.ValidationErrors{}.Add("date_of_retirement", "must be a date in YYYY-MM-DD form")
		}
		member.DateOfRetirement = &retired
	}

	if errs := member.Validate(); errs.HasErrors() {
		return nil, errs
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	// A fresh member has no rentals and can always rent.
	return toMemberResponse(member, true), nil
}

// GetByID returns a single member with current rental eligibility
func (s *MemberService) GetByID(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	canRent, err := s.memberRepo.CanRent(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	return toMemberResponse(member, canRent), nil
}

// List returns members matching the filter. A non-blank query routes through
// the search strategies; otherwise it is a plain paginated listing. The
// can_rent filter composes with both.
func (s *MemberService) List(ctx context.Context, filter MemberListFilter) ([]MemberResponse, int64, error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	if filter.CanRent != nil {
		repoFilter.Filters["can_rent"] = *filter.CanRent
	}

	var (
		members []membership.Member
		total   int64
		err     error
	)
	if filter.Query != "" {
		limit := repoFilter.PageSize
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		members, err = s.memberRepo.Search(ctx, filter.Query, limit, repoFilter)
		if err != nil {
			return nil, 0, err
		}
		total = int64(len(members))
	} else {
		members, err = s.memberRepo.FindAll(ctx, repoFilter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.memberRepo.Count(ctx, repoFilter)
		if err != nil {
			return nil, 0, err
		}
	}

	responses := make([]MemberResponse, 0, len(members))
	for i := range members {
		canRent, err := s.memberRepo.CanRent(ctx, members[i].ID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, *toMemberResponse(&members[i], canRent))
	}
	return responses, total, nil
}
