package plan_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/services/plan"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreatePlan(ctx context.Context, p models.MembershipPlan, createdBy string) (int, error) {
	args := m.Called(ctx, p, createdBy)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

func (m *RepoMock) UpdatePlan(ctx context.Context, p models.MembershipPlan, id int) (int, error) {
	args := m.Called(ctx, p, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemovePlan(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListPlans(ctx context.Context) ([]*models.MembershipPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MembershipPlan), args.Error(1)
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

func TestService_Create(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	form := models.DummyPlan{Name: "Gold", Price: 3000, DurationMonths: 3, Branch: "b1"}
	repo.On("CreatePlan", mock.Anything, mock.MatchedBy(func(p models.MembershipPlan) bool {
		return p.Name == "Gold" && p.DurationMonths == 3 && p.Status == "active" && p.Branch == "b1"
	}), "admin-uid").Return(5, nil).Once()
	cache.On("Invalidate", plan.ListCacheKey).Return(nil).Once()

	svc := plan.New(repo, cache)
	id, err := svc.Create(context.Background(), form, "admin-uid")
	require.NoError(t, err)
	assert.Equal(t, 5, id)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Read(t *testing.T) {
	t.Run("existing plan", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadPlan", mock.Anything, 5).
			Return(&models.MembershipPlan{ID: 5, Name: "Gold"}, nil).Once()

		svc := plan.New(repo, new(CacheMock))
		got, err := svc.Read(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Gold", got.Name)
	})

	t.Run("missing plan", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadPlan", mock.Anything, 99).Return(nil, sql.ErrNoRows).Once()

		svc := plan.New(repo, new(CacheMock))
		_, err := svc.Read(context.Background(), 99)
		assert.ErrorIs(t, err, plan.ErrPlanNotFound)
	})
}

func TestService_Remove(t *testing.T) {
	t.Run("successful remove invalidates cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("RemovePlan", mock.Anything, 5).Return(1, nil).Once()
		cache.On("Invalidate", plan.ListCacheKey).Return(nil).Once()

		svc := plan.New(repo, cache)
		require.NoError(t, svc.Remove(context.Background(), 5))
		cache.AssertExpectations(t)
	})

	t.Run("missing plan", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("RemovePlan", mock.Anything, 99).Return(0, nil).Once()

		svc := plan.New(repo, new(CacheMock))
		err := svc.Remove(context.Background(), 99)
		assert.ErrorIs(t, err, plan.ErrPlanNotFound)
	})
}

func TestService_List(t *testing.T) {
	plans := []*models.MembershipPlan{{ID: 1, Name: "Gold"}, {ID: 2, Name: "Silver"}}

	t.Run("cache miss reads storage and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", plan.ListCacheKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListPlans", mock.Anything).Return(plans, nil).Once()
		cache.On("Set", plan.ListCacheKey, plans, mock.Anything).Return(nil).Once()

		svc := plan.New(repo, cache)
		got, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", plan.ListCacheKey, mock.Anything).Return(true, nil).Once()

		svc := plan.New(repo, cache)
		_, err := svc.List(context.Background())
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ListPlans", mock.Anything)
	})
}
