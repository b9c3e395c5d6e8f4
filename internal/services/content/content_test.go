package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateAnnouncement(ctx context.Context, a models.Announcement) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Announcement), args.Error(1)
}

func (m *RepoMock) RemoveAnnouncement(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreateDietPlan(ctx context.Context, d models.DietPlan) (int, error) {
	args := m.Called(ctx, d)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListDietPlans(ctx context.Context, purpose, category string) ([]*models.DietPlan, error) {
	args := m.Called(ctx, purpose, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DietPlan), args.Error(1)
}

func (m *RepoMock) RemoveDietPlan(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreateWorkout(ctx context.Context, w models.Workout) (int, error) {
	args := m.Called(ctx, w)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListWorkouts(ctx context.Context, muscleGroup string) ([]*models.Workout, error) {
	args := m.Called(ctx, muscleGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Workout), args.Error(1)
}

func (m *RepoMock) RemoveWorkout(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListActivity(ctx context.Context, limit, offset int) ([]*models.ActivityRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActivityRecord), args.Error(1)
}

func TestService_CreateAnnouncement(t *testing.T) {
	repo := new(RepoMock)
	service := New(repo)

	form := models.DummyAnnouncement{Title: "Новое расписание", Body: "С понедельника зал открыт с 7:00."}
	repo.On("CreateAnnouncement", mock.Anything, models.Announcement{
		Title:     form.Title,
		Body:      form.Body,
		CreatedBy: "admin-uid",
	}).Return(7, nil).Once()

	id, err := service.CreateAnnouncement(context.Background(), form, "admin-uid")

	require.NoError(t, err)
	assert.Equal(t, 7, id)
	repo.AssertExpectations(t)
}

func TestService_RemoveAnnouncement(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int
		repoErr      error
		wantErr      error
	}{
		{name: "success", rowsAffected: 1},
		{name: "not found", rowsAffected: 0, wantErr: ErrNotFound},
		{name: "repository error", repoErr: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("RemoveAnnouncement", mock.Anything, 3).Return(tt.rowsAffected, tt.repoErr).Once()
			service := New(repo)

			err := service.RemoveAnnouncement(context.Background(), 3)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, ErrNotFound)
				}
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListDietPlans(t *testing.T) {
	repo := new(RepoMock)
	service := New(repo)

	plans := []*models.DietPlan{
		{ID: 1, Purpose: "weight-loss", Category: "vegetarian", Items: []string{"Овсянка", "Салат"}},
	}
	repo.On("ListDietPlans", mock.Anything, "weight-loss", "").Return(plans, nil).Once()

	got, err := service.ListDietPlans(context.Background(), "weight-loss", "")

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "vegetarian", got[0].Category)
	repo.AssertExpectations(t)
}

func TestService_CreateWorkout(t *testing.T) {
	repo := new(RepoMock)
	service := New(repo)

	form := models.DummyWorkout{Name: "Приседания", MuscleGroup: "legs"}
	repo.On("CreateWorkout", mock.Anything, models.Workout{
		Name:        form.Name,
		MuscleGroup: form.MuscleGroup,
	}).Return(11, nil).Once()

	id, err := service.CreateWorkout(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, 11, id)
	repo.AssertExpectations(t)
}

func TestService_RemoveWorkout_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RemoveWorkout", mock.Anything, 99).Return(0, nil).Once()
	service := New(repo)

	err := service.RemoveWorkout(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertExpectations(t)
}

func TestService_ListActivity(t *testing.T) {
	repo := new(RepoMock)
	service := New(repo)

	records := []*models.ActivityRecord{
		{ID: 2, Actor: "admin-uid", Action: "member.registered", ResourceType: "member"},
	}
	repo.On("ListActivity", mock.Anything, 10, 0).Return(records, nil).Once()

	got, err := service.ListActivity(context.Background(), 10, 0)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "member.registered", got[0].Action)
	repo.AssertExpectations(t)
}
