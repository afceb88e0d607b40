package membership

import (
	"context"
	"testing"

	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMemberRepository is a mock implementation of membership.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]membership.Member), args.Error(1)
}

func (m *MockMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) FindByCustomNumber(ctx context.Context, customNumber string) (*membership.Member, error) {
	args := m.Called(ctx, customNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Member), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *membership.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) CanRent(ctx context.Context, memberID uuid.UUID) (bool, error) {
	args := m.Called(ctx, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) Search(ctx context.Context, query string, maxResults int, filter shared.Filter) ([]membership.Member, error) {
	args := m.Called(ctx, query, maxResults, filter)
	return args.Get(0).([]membership.Member), args.Error(1)
}

func TestMemberService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a member with optional fields", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*membership.Member")).Run(func(args mock.Arguments) {
			member := args.Get(1).(*membership.Member)
			member.CustomNumber = "M000001"
		}).Return(nil)

		resp, err := service.Create(ctx, CreateMemberRequest{
			Name:           " Ada  Lovelace ",
			PersonalNumber: 1815,
			Phone:          "0123456789",
			Section:        "Engineering",
			DateOfBirth:    "1990-12-10",
		})

		require.NoError(t, err)
		assert.Equal(t, "M000001", resp.CustomNumber)
		assert.Equal(t, "Ada Lovelace", resp.Name)
		assert.EqualValues(t, 1815, resp.PersonalNumber)
		assert.Equal(t, "0123456789", resp.Phone)
		assert.Equal(t, "Engineering", resp.Section)
		assert.Equal(t, "1990-12-10", resp.DateOfBirth)
		assert.True(t, resp.CanRent)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an invalid phone before touching the store", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		_, err := service.Create(ctx, CreateMemberRequest{
			Name:           "Ada",
			PersonalNumber: 1,
			Phone:          "12345",
		})

		var violations shared.ValidationErrors
		require.ErrorAs(t, err, &violations)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		_, err := service.Create(ctx, CreateMemberRequest{
			Name:           "Ada",
			PersonalNumber: 1,
			DateOfBirth:    "12/10/1990",
		})

		var violations shared.ValidationErrors
		require.ErrorAs(t, err, &violations)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("propagates a duplicate personal number", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		repo.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := service.Create(ctx, CreateMemberRequest{Name: "Ada", PersonalNumber: 1})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestMemberService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("reports rental eligibility", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		member, err := membership.NewMember("M000005", "Grace Hopper", 1906)
		require.NoError(t, err)
		repo.On("FindByID", ctx, member.ID).Return(member, nil)
		repo.On("CanRent", ctx, member.ID).Return(false, nil)

		resp, err := service.GetByID(ctx, member.ID)
		require.NoError(t, err)
		assert.False(t, resp.CanRent)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestMemberService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("query routes through search with can_rent filter", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		member, err := membership.NewMember("M000001", "Ada Lovelace", 1815)
		require.NoError(t, err)

		canRent := true
		repo.On("Search", ctx, "ada", 20, mock.MatchedBy(func(f shared.Filter) bool {
			v, ok := f.Filters["can_rent"].(bool)
			return ok && v
		})).Return([]membership.Member{*member}, nil)
		repo.On("CanRent", ctx, member.ID).Return(true, nil)

		resp, total, err := service.List(ctx, MemberListFilter{PageSize: 20, Query: "ada", CanRent: &canRent})
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.EqualValues(t, 1, total)
		assert.True(t, resp[0].CanRent)
		repo.AssertNotCalled(t, "FindAll")
	})

	t.Run("plain listing pages and counts", func(t *testing.T) {
		repo := new(MockMemberRepository)
		service := NewMemberService(repo)

		member, err := membership.NewMember("M000001", "Ada Lovelace", 1815)
		require.NoError(t, err)
		repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return([]membership.Member{*member}, nil)
		repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(3), nil)
		repo.On("CanRent", ctx, member.ID).Return(true, nil)

		resp, total, err := service.List(ctx, MemberListFilter{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.EqualValues(t, 3, total)
	})
}
