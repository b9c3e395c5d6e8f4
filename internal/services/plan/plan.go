// Package plan содержит бизнес-логику тарифных планов клуба.
package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// ListCacheKey ключ кеша публичного списка планов.
const ListCacheKey = "plans:list"

const listCacheTTL = 5 * time.Minute

// ErrPlanNotFound тарифный план не найден.
var ErrPlanNotFound = errors.New("membership plan not found")

// Repository контракт хранилища тарифных планов.
type Repository interface {
	CreatePlan(ctx context.Context, plan models.MembershipPlan, createdBy string) (int, error)
	ReadPlan(ctx context.Context, id int) (*models.MembershipPlan, error)
	UpdatePlan(ctx context.Context, plan models.MembershipPlan, id int) (int, error)
	RemovePlan(ctx context.Context, id int) (int, error)
	ListPlans(ctx context.Context) ([]*models.MembershipPlan, error)
}

// Cache контракт кеша списка планов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции с тарифными планами.
type Service struct {
	repo  Repository
	cache Cache
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create создает тарифный план. Длительность — целое число календарных месяцев.
func (s *Service) Create(ctx context.Context, form models.DummyPlan, createdBy string) (int, error) {
	const op = "plan.Create"

	plan := models.MembershipPlan{
		Name:           form.Name,
		Price:          form.Price,
		DurationMonths: form.DurationMonths,
		Description:    form.Description,
		Status:         "active",
		Branch:         form.Branch,
	}
	id, err := s.repo.CreatePlan(ctx, plan, createdBy)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	_ = s.cache.Invalidate(ListCacheKey)
	return id, nil
}

// Read возвращает тарифный план по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.MembershipPlan, error) {
	plan, err := s.repo.ReadPlan(ctx, id)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// Update обновляет тарифный план.
func (s *Service) Update(ctx context.Context, form models.DummyPlan, id int, status string) error {
	const op = "plan.Update"

	if status == "" {
		status = "active"
	}
	plan := models.MembershipPlan{
		Name:           form.Name,
		Price:          form.Price,
		DurationMonths: form.DurationMonths,
		Description:    form.Description,
		Status:         status,
		Branch:         form.Branch,
	}
	rowsAffected, err := s.repo.UpdatePlan(ctx, plan, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrPlanNotFound
	}
	_ = s.cache.Invalidate(ListCacheKey)
	return nil
}

// Remove удаляет тарифный план.
func (s *Service) Remove(ctx context.Context, id int) error {
	const op = "plan.Remove"
	rowsAffected, err := s.repo.RemovePlan(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrPlanNotFound
	}
	_ = s.cache.Invalidate(ListCacheKey)
	return nil
}

// List возвращает все тарифные планы, используя кеш со сквозным чтением.
func (s *Service) List(ctx context.Context) ([]*models.MembershipPlan, error) {
	const op = "plan.List"

	var cached []*models.MembershipPlan
	if found, err := s.cache.Get(ListCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_ = s.cache.Set(ListCacheKey, plans, listCacheTTL)
	return plans, nil
}
