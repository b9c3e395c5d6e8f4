// Package content содержит бизнес-логику справочного контента клуба:
// объявления, планы питания, каталог тренировок и журнал действий.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// ErrNotFound запись контента не найдена.
var ErrNotFound = errors.New("content not found")

// Repository описывает интерфейс хранилища контента.
type Repository interface {
	CreateAnnouncement(ctx context.Context, a models.Announcement) (int, error)
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
	RemoveAnnouncement(ctx context.Context, id int) (int, error)
	CreateDietPlan(ctx context.Context, d models.DietPlan) (int, error)
	ListDietPlans(ctx context.Context, purpose, category string) ([]*models.DietPlan, error)
	RemoveDietPlan(ctx context.Context, id int) (int, error)
	CreateWorkout(ctx context.Context, w models.Workout) (int, error)
	ListWorkouts(ctx context.Context, muscleGroup string) ([]*models.Workout, error)
	RemoveWorkout(ctx context.Context, id int) (int, error)
	ListActivity(ctx context.Context, limit, offset int) ([]*models.ActivityRecord, error)
}

// Service реализует операции над контентом клуба.
type Service struct {
	repo Repository
}

// New создает новый экземпляр Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAnnouncement создает объявление от имени администратора.
func (s *Service) CreateAnnouncement(ctx context.Context, form models.DummyAnnouncement, createdBy string) (int, error) {
	const op = "content.CreateAnnouncement"
	id, err := s.repo.CreateAnnouncement(ctx, models.Announcement{
		Title:     form.Title,
		Body:      form.Body,
		CreatedBy: createdBy,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListAnnouncements возвращает все объявления, новые первыми.
func (s *Service) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	const op = "content.ListAnnouncements"
	announcements, err := s.repo.ListAnnouncements(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return announcements, nil
}

// RemoveAnnouncement удаляет объявление.
func (s *Service) RemoveAnnouncement(ctx context.Context, id int) error {
	const op = "content.RemoveAnnouncement"
	rowsAffected, err := s.repo.RemoveAnnouncement(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateDietPlan создает план питания.
func (s *Service) CreateDietPlan(ctx context.Context, form models.DummyDietPlan) (int, error) {
	const op = "content.CreateDietPlan"
	id, err := s.repo.CreateDietPlan(ctx, models.DietPlan{
		Purpose:  form.Purpose,
		Category: form.Category,
		Items:    form.Items,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListDietPlans возвращает планы питания с необязательными фильтрами
// по назначению и категории.
func (s *Service) ListDietPlans(ctx context.Context, purpose, category string) ([]*models.DietPlan, error) {
	const op = "content.ListDietPlans"
	plans, err := s.repo.ListDietPlans(ctx, purpose, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}

// RemoveDietPlan удаляет план питания.
func (s *Service) RemoveDietPlan(ctx context.Context, id int) error {
	const op = "content.RemoveDietPlan"
	rowsAffected, err := s.repo.RemoveDietPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateWorkout добавляет упражнение в каталог.
func (s *Service) CreateWorkout(ctx context.Context, form models.DummyWorkout) (int, error) {
	const op = "content.CreateWorkout"
	id, err := s.repo.CreateWorkout(ctx, models.Workout{
		Name:        form.Name,
		MuscleGroup: form.MuscleGroup,
		Description: form.Description,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListWorkouts возвращает каталог упражнений с необязательным фильтром
// по группе мышц.
func (s *Service) ListWorkouts(ctx context.Context, muscleGroup string) ([]*models.Workout, error) {
	const op = "content.ListWorkouts"
	workouts, err := s.repo.ListWorkouts(ctx, muscleGroup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return workouts, nil
}

// RemoveWorkout удаляет упражнение из каталога.
func (s *Service) RemoveWorkout(ctx context.Context, id int) error {
	const op = "content.RemoveWorkout"
	rowsAffected, err := s.repo.RemoveWorkout(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActivity возвращает страницу журнала действий, новые первыми.
func (s *Service) ListActivity(ctx context.Context, limit, offset int) ([]*models.ActivityRecord, error) {
	const op = "content.ListActivity"
	records, err := s.repo.ListActivity(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}
