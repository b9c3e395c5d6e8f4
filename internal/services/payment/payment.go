// Package payment содержит бизнес-логику платежей за тарифные планы:
// создание заказа у платёжного шлюза, подтверждение оплаты по подписи
// и активацию абонемента после успешного платежа.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/paymentprovider"
)

var (
	// ErrPlanNotFound тарифный план не найден.
	ErrPlanNotFound = errors.New("membership plan not found")
	// ErrPaymentNotFound платёж не найден.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrInvalidSignature подпись уведомления не сошлась.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrAlreadyProcessed платёж уже переведён в терминальный статус.
	ErrAlreadyProcessed = errors.New("payment already processed")
)

// Repository контракт хранилища платежей.
type Repository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	MarkPaymentStatus(ctx context.Context, orderID, status, transactionID string) (int, error)
	ListPaymentsByMember(ctx context.Context, memberUID string) ([]*models.Payment, error)
	ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error)
}

// PlanRepository контракт хранилища тарифных планов.
type PlanRepository interface {
	ReadPlan(ctx context.Context, id int) (*models.MembershipPlan, error)
}

// Gateway контракт платёжного шлюза.
type Gateway interface {
	CreateOrder(reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// MembershipAssigner активирует абонемент после успешной оплаты.
type MembershipAssigner interface {
	AssignPlan(ctx context.Context, uid string, planID int, startInput any) (*membership.Window, error)
}

// Service реализует операции с платежами.
type Service struct {
	repo        Repository
	plans       PlanRepository
	gateway     Gateway
	memberships MembershipAssigner
	log         *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, plans PlanRepository, gateway Gateway,
	memberships MembershipAssigner, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		plans:       plans,
		gateway:     gateway,
		memberships: memberships,
		log:         log,
	}
}

// CreateOrder создает заказ у шлюза и сохраняет платёж в статусе pending.
// Сумма передаётся шлюзу в младших единицах валюты.
func (s *Service) CreateOrder(ctx context.Context, memberUID string, planID int) (*models.Payment, error) {
	const op = "payment.CreateOrder"

	plan, err := s.plans.ReadPlan(ctx, planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	receipt := uuid.New().String()
	order, err := s.gateway.CreateOrder(paymentprovider.CreateOrderRequest{
		Amount:   int64(plan.Price * 100),
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment := models.Payment{
		MemberUID: memberUID,
		PlanID:    planID,
		Amount:    plan.Price,
		Currency:  order.Currency,
		Status:    models.PaymentStatusPending,
		OrderID:   order.ID,
		Receipt:   receipt,
	}
	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payment.ID = id
	return &payment, nil
}

// Confirm проверяет подпись уведомления об оплате, помечает платёж
// успешным и активирует абонемент участника с сегодняшнего дня.
// Переход pending -> success условный: повторное уведомление отвергается.
func (s *Service) Confirm(ctx context.Context, orderID, paymentID, signature string) error {
	const op = "payment.Confirm"

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return ErrInvalidSignature
	}

	payment, err := s.repo.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return ErrPaymentNotFound
	}

	rowsAffected, err := s.repo.MarkPaymentStatus(ctx, orderID, models.PaymentStatusSuccess, paymentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyProcessed
	}

	if _, err := s.memberships.AssignPlan(ctx, payment.MemberUID, payment.PlanID, time.Now()); err != nil {
		// Платёж принят, активация не прошла: оставляем след в журнале и не откатываем оплату
		s.log.Error("failed to assign plan after successful payment",
			slog.String("order_id", orderID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Fail помечает платёж неуспешным по уведомлению шлюза.
func (s *Service) Fail(ctx context.Context, orderID, paymentID string) error {
	const op = "payment.Fail"
	rowsAffected, err := s.repo.MarkPaymentStatus(ctx, orderID, models.PaymentStatusFailed, paymentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// HistoryForMember возвращает платежи участника.
func (s *Service) HistoryForMember(ctx context.Context, memberUID string) ([]*models.Payment, error) {
	const op = "payment.HistoryForMember"
	payments, err := s.repo.ListPaymentsByMember(ctx, memberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

// ListAll возвращает все платежи с пагинацией.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	const op = "payment.ListAll"
	payments, err := s.repo.ListPayments(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
