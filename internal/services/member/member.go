// Package member содержит бизнес-логику работы с участниками:
// создание администратором, назначение абонементов, агрегаты панели
// администратора и отчёты по периоду.
package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/password"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// DashboardCacheKey ключ кеша агрегатов панели администратора.
const DashboardCacheKey = "dashboard:counts"

// dashboardCacheTTL агрегаты пересчитываются не реже раза в минуту.
const dashboardCacheTTL = time.Minute

var (
	// ErrMemberNotFound участник не найден.
	ErrMemberNotFound = errors.New("member not found")
	// ErrPlanNotFound тарифный план не найден или неактивен.
	ErrPlanNotFound = errors.New("membership plan not found")
)

// Repository контракт хранилища участников.
type Repository interface {
	CreateMember(ctx context.Context, member models.Member) (string, error)
	GetMember(ctx context.Context, uid string) (*models.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error)
	ListAllMembers(ctx context.Context) ([]*models.Member, error)
	ListMembersByStartDateRange(ctx context.Context, from, to time.Time) ([]*models.Member, error)
	UpdateMemberProfile(ctx context.Context, uid string, height, weight float64, address string) (int, error)
	RemoveMember(ctx context.Context, uid string) (int, error)
	UpdateMembership(ctx context.Context, uid string, planID int, start, end time.Time, status string) (int, error)
	AddWeightRecord(ctx context.Context, uid string, weight float64) error
	ListWeightHistory(ctx context.Context, uid string) ([]*models.WeightRecord, error)
}

// PlanRepository контракт хранилища тарифных планов.
type PlanRepository interface {
	ReadPlan(ctx context.Context, id int) (*models.MembershipPlan, error)
}

// Cache контракт кеша агрегатов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции с участниками.
type Service struct {
	repo  Repository
	plans PlanRepository
	cache Cache
}

// New создает новый экземпляр Service.
func New(repo Repository, plans PlanRepository, cache Cache) *Service {
	return &Service{repo: repo, plans: plans, cache: cache}
}

// Create создает участника от имени администратора, минуя токен доступа.
func (s *Service) Create(ctx context.Context, form models.DummyMember, email, branch string) (*models.Member, error) {
	const op = "member.Create"

	hashed, err := password.GetHash(form.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	member := models.Member{
		FullName:     form.FullName,
		Email:        email,
		Phone:        form.Phone,
		PasswordHash: hashed,
		Branch:       branch,
		Height:       form.Height,
		Weight:       form.Weight,
		Gender:       form.Gender,
		Address:      form.Address,
		Role:         "member",
	}
	uid, err := s.repo.CreateMember(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	member.UID = uid

	_ = s.cache.Invalidate(DashboardCacheKey)
	return &member, nil
}

// Get возвращает участника с производным статусом абонемента.
// Сохранённый статус — кеш, ответ всегда содержит свежевычисленный.
func (s *Service) Get(ctx context.Context, uid string) (*models.Member, error) {
	member, err := s.repo.GetMember(ctx, uid)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	refreshStatus(member, time.Now())
	return member, nil
}

// List возвращает страницу участников с производными статусами.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	const op = "member.List"
	members, err := s.repo.ListMembers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now()
	for _, m := range members {
		refreshStatus(m, now)
	}
	return members, nil
}

// UpdateProfile обновляет анкетные поля участника.
func (s *Service) UpdateProfile(ctx context.Context, uid string, height, weight float64, address string) error {
	const op = "member.UpdateProfile"
	rowsAffected, err := s.repo.UpdateMemberProfile(ctx, uid, height, weight, address)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// Remove удаляет участника.
func (s *Service) Remove(ctx context.Context, uid string) error {
	const op = "member.Remove"
	rowsAffected, err := s.repo.RemoveMember(ctx, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}
	_ = s.cache.Invalidate(DashboardCacheKey)
	return nil
}

// AssignPlan назначает участнику тарифный план с заданной даты.
// Окно абонемента вычисляется единственной точкой входа BuildWindow.
func (s *Service) AssignPlan(ctx context.Context, uid string, planID int, startInput any) (*membership.Window, error) {
	const op = "member.AssignPlan"

	plan, err := s.plans.ReadPlan(ctx, planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	window, err := membership.BuildWindow(startInput, plan.DurationMonths)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := s.repo.UpdateMembership(ctx, uid, planID, window.StartDate, window.EndDate, window.Status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, ErrMemberNotFound
	}

	_ = s.cache.Invalidate(DashboardCacheKey)
	return &window, nil
}

// DashboardCounts возвращает агрегаты по участникам, пересчитывая
// статусы на текущий момент. Результат кешируется на минуту.
func (s *Service) DashboardCounts(ctx context.Context) (membership.Counts, error) {
	const op = "member.DashboardCounts"

	var cached membership.Counts
	if found, err := s.cache.Get(DashboardCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	members, err := s.repo.ListAllMembers(ctx)
	if err != nil {
		return membership.Counts{}, fmt.Errorf("%s: %w", op, err)
	}
	counts := membership.CountFleet(members, time.Now())

	_ = s.cache.Set(DashboardCacheKey, counts, dashboardCacheTTL)
	return counts, nil
}

// Report возвращает участников, чьи абонементы начались в заданном периоде.
func (s *Service) Report(ctx context.Context, from, to time.Time) ([]*models.Member, error) {
	const op = "member.Report"
	members, err := s.repo.ListMembersByStartDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now()
	for _, m := range members {
		refreshStatus(m, now)
	}
	return members, nil
}

// AddWeight добавляет запись истории веса.
func (s *Service) AddWeight(ctx context.Context, uid string, weight float64) error {
	const op = "member.AddWeight"
	if err := s.repo.AddWeightRecord(ctx, uid, weight); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WeightHistory возвращает историю веса участника.
func (s *Service) WeightHistory(ctx context.Context, uid string) ([]*models.WeightRecord, error) {
	const op = "member.WeightHistory"
	history, err := s.repo.ListWeightHistory(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return history, nil
}

func refreshStatus(m *models.Member, now time.Time) {
	m.Membership.Status = membership.DeriveStatus(now, m.Membership.StartDate, m.Membership.EndDate)
}
