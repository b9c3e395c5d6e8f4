// Package scheduler реализует фоновое задание сверки статусов абонементов
// и рассылку напоминаний об истекающих абонементах через брокер сообщений.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// ExpiringWindowDays за сколько дней до окончания абонемента отправляется напоминание.
const ExpiringWindowDays = 7

// MemberRepository контракт хранилища участников для заданий планировщика.
type MemberRepository interface {
	ListAllMembers(ctx context.Context) ([]*models.Member, error)
	UpdateMembershipStatus(ctx context.Context, uid, status string) error
	FindMembershipsExpiringWithin(ctx context.Context, days int) ([]*models.MemberInfo, error)
}

// Publisher публикует уведомления в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service выполняет периодические задания обслуживания абонементов.
type Service struct {
	repo MemberRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo MemberRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// ReconcileStatuses периодически пересчитывает статусы абонементов.
// Сохранённый статус — кеш производной величины, его освежает только это задание.
func (s *Service) ReconcileStatuses(ctx context.Context, interval time.Duration) {
	s.runReconcileStatuses(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runReconcileStatuses(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) runReconcileStatuses(ctx context.Context) {
	s.log.Info("starting membership status reconciliation")
	members, err := s.repo.ListAllMembers(ctx)
	if err != nil {
		s.log.Error("failed to list members", sl.Err(err))
		return
	}

	now := time.Now()
	updated := 0
	for _, m := range members {
		derived := membership.DeriveStatus(now, m.Membership.StartDate, m.Membership.EndDate)
		if derived == m.Membership.Status {
			continue
		}
		if err := s.repo.UpdateMembershipStatus(ctx, m.UID, derived); err != nil {
			s.log.Error("failed to update membership status",
				slog.String("member_uid", m.UID), sl.Err(err))
			continue
		}
		updated++
	}
	s.log.Info("membership status reconciliation finished",
		slog.Int("total", len(members)), slog.Int("updated", updated))
}

// NotifyExpiring периодически находит абонементы, истекающие в ближайшие
// дни, и публикует напоминания в брокер.
func (s *Service) NotifyExpiring(ctx context.Context, publisher Publisher, interval time.Duration) {
	s.runNotifyExpiring(ctx, publisher)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runNotifyExpiring(ctx, publisher)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) runNotifyExpiring(ctx context.Context, publisher Publisher) {
	s.log.Info("starting service to find expiring memberships")
	membersInfo, err := s.repo.FindMembershipsExpiringWithin(ctx, ExpiringWindowDays)
	if err != nil {
		s.log.Error("failed to find expiring memberships", sl.Err(err))
		return
	}
	if len(membersInfo) == 0 {
		s.log.Info("no expiring memberships found")
		return
	}
	s.log.Info("found expiring memberships", slog.Int("count", len(membersInfo)))
	for _, info := range membersInfo {
		if err := publisher.Publish("expiring", info); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
