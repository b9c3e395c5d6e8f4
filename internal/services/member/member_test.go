package member_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/services/member"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateMember(ctx context.Context, memberData models.Member) (string, error) {
	args := m.Called(ctx, memberData)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetMember(ctx context.Context, uid string) (*models.Member, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *RepoMock) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *RepoMock) ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *RepoMock) ListAllMembers(ctx context.Context) ([]*models.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *RepoMock) ListMembersByStartDateRange(ctx context.Context, from, to time.Time) ([]*models.Member, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *RepoMock) UpdateMemberProfile(ctx context.Context, uid string, height, weight float64, address string) (int, error) {
	args := m.Called(ctx, uid, height, weight, address)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemoveMember(ctx context.Context, uid string) (int, error) {
	args := m.Called(ctx, uid)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpdateMembership(ctx context.Context, uid string, planID int, start, end time.Time, status string) (int, error) {
	args := m.Called(ctx, uid, planID, start, end, status)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) AddWeightRecord(ctx context.Context, uid string, weight float64) error {
	args := m.Called(ctx, uid, weight)
	return args.Error(0)
}

func (m *RepoMock) ListWeightHistory(ctx context.Context, uid string) ([]*models.WeightRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WeightRecord), args.Error(1)
}

// Мок для PlanRepository
type PlanRepoMock struct {
	mock.Mock
}

func (m *PlanRepoMock) ReadPlan(ctx context.Context, id int) (*models.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func passthroughCache() *CacheMock {
	cache := new(CacheMock)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, nil).Maybe()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("Invalidate", mock.Anything).Return(nil).Maybe()
	return cache
}

func TestService_AssignPlan(t *testing.T) {
	plan := &models.MembershipPlan{ID: 5, Name: "Gold", DurationMonths: 3, Status: "active", Branch: "b1"}

	tests := []struct {
		name       string
		planID     int
		startInput any
		setup      func(repo *RepoMock, plans *PlanRepoMock)
		wantErr    error
		verify     func(t *testing.T, window *membership.Window)
	}{
		{
			name:       "day-first start date assigns window",
			planID:     5,
			startInput: "31-01-2025",
			setup: func(repo *RepoMock, plans *PlanRepoMock) {
				plans.On("ReadPlan", mock.Anything, 5).Return(plan, nil).Once()
				repo.On("UpdateMembership", mock.Anything, "member-uid", 5,
					mock.Anything, mock.Anything, mock.Anything).Return(1, nil).Once()
			},
			verify: func(t *testing.T, window *membership.Window) {
				assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local), window.StartDate)
				// 31 января + 3 месяца нормализуется к 1 мая
				assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local), window.EndDate)
			},
		},
		{
			name:       "unknown plan",
			planID:     99,
			startInput: "2025-01-01",
			setup: func(repo *RepoMock, plans *PlanRepoMock) {
				plans.On("ReadPlan", mock.Anything, 99).Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: member.ErrPlanNotFound,
		},
		{
			name:       "impossible start date",
			planID:     5,
			startInput: "31-04-2024",
			setup: func(repo *RepoMock, plans *PlanRepoMock) {
				plans.On("ReadPlan", mock.Anything, 5).Return(plan, nil).Once()
			},
			wantErr: membership.ErrInvalidStartDate,
		},
		{
			name:       "unknown member",
			planID:     5,
			startInput: "2025-01-01",
			setup: func(repo *RepoMock, plans *PlanRepoMock) {
				plans.On("ReadPlan", mock.Anything, 5).Return(plan, nil).Once()
				repo.On("UpdateMembership", mock.Anything, "member-uid", 5,
					mock.Anything, mock.Anything, mock.Anything).Return(0, nil).Once()
			},
			wantErr: member.ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			plans := new(PlanRepoMock)
			tt.setup(repo, plans)
			svc := member.New(repo, plans, passthroughCache())

			window, err := svc.AssignPlan(context.Background(), "member-uid", tt.planID, tt.startInput)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.verify(t, window)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_DashboardCounts(t *testing.T) {
	now := time.Now()
	members := []*models.Member{
		{Membership: models.Membership{
			StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0), Status: "expired"}}, // устаревший кеш
		{Membership: models.Membership{
			StartDate: now.AddDate(0, -1, 0), EndDate: now.Add(48 * time.Hour), Status: "active"}},
		{Membership: models.Membership{
			StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0), Status: "active"}}, // устаревший кеш
		{Membership: models.Membership{}}, // без абонемента
	}

	t.Run("recomputes statuses ignoring stored values", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllMembers", mock.Anything).Return(members, nil).Once()

		cache := new(CacheMock)
		cache.On("Get", member.DashboardCacheKey, mock.Anything).Return(false, nil).Once()
		cache.On("Set", member.DashboardCacheKey, mock.Anything, mock.Anything).Return(nil).Once()

		svc := member.New(repo, new(PlanRepoMock), cache)
		counts, err := svc.DashboardCounts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, counts.Total)
		assert.Equal(t, 1, counts.Active)
		assert.Equal(t, 1, counts.ExpiringSoon)
		// Истекший и неактивный попадают в одну корзину
		assert.Equal(t, 2, counts.Expired)
	})

	t.Run("serves cached counts without hitting storage", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", member.DashboardCacheKey, mock.Anything).Return(true, nil).Once()

		svc := member.New(repo, new(PlanRepoMock), cache)
		_, err := svc.DashboardCounts(context.Background())
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ListAllMembers", mock.Anything)
	})
}

func TestService_Get(t *testing.T) {
	now := time.Now()

	t.Run("derives status on read", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetMember", mock.Anything, "member-uid").Return(&models.Member{
			UID: "member-uid",
			Membership: models.Membership{
				StartDate: now.AddDate(0, -2, 0),
				EndDate:   now.AddDate(0, -1, 0),
				Status:    "active", // устаревший кеш в строке
			},
		}, nil).Once()

		svc := member.New(repo, new(PlanRepoMock), passthroughCache())
		got, err := svc.Get(context.Background(), "member-uid")
		require.NoError(t, err)
		assert.Equal(t, membership.StatusExpired, got.Membership.Status)
	})

	t.Run("missing member", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetMember", mock.Anything, "ghost").Return(nil, sql.ErrNoRows).Once()

		svc := member.New(repo, new(PlanRepoMock), passthroughCache())
		_, err := svc.Get(context.Background(), "ghost")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})
}

func TestService_Remove(t *testing.T) {
	t.Run("invalidates dashboard cache", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("RemoveMember", mock.Anything, "member-uid").Return(1, nil).Once()
		cache := new(CacheMock)
		cache.On("Invalidate", member.DashboardCacheKey).Return(nil).Once()

		svc := member.New(repo, new(PlanRepoMock), cache)
		require.NoError(t, svc.Remove(context.Background(), "member-uid"))
		cache.AssertExpectations(t)
	})

	t.Run("missing member", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("RemoveMember", mock.Anything, "ghost").Return(0, nil).Once()

		svc := member.New(repo, new(PlanRepoMock), passthroughCache())
		err := svc.Remove(context.Background(), "ghost")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})
}
