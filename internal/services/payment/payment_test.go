package payment_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/paymentprovider"
	"github.com/magabrotheeeer/gym-membership/internal/services/payment"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreatePayment(ctx context.Context, p models.Payment) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) MarkPaymentStatus(ctx context.Context, orderID, status, transactionID string) (int, error) {
	args := m.Called(ctx, orderID, status, transactionID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListPaymentsByMember(ctx context.Context, memberUID string) ([]*models.Payment, error) {
	args := m.Called(ctx, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *RepoMock) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
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

// Мок для Gateway
type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) CreateOrder(reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreateOrderResponse), args.Error(1)
}

func (m *GatewayMock) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

// Мок для MembershipAssigner
type AssignerMock struct {
	mock.Mock
}

func (m *AssignerMock) AssignPlan(ctx context.Context, uid string, planID int, startInput any) (*membership.Window, error) {
	args := m.Called(ctx, uid, planID, startInput)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Window), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestService_CreateOrder(t *testing.T) {
	plan := &models.MembershipPlan{ID: 5, Name: "Gold", Price: 3000, DurationMonths: 3}

	t.Run("successful order", func(t *testing.T) {
		repo := new(RepoMock)
		plans := new(PlanRepoMock)
		gateway := new(GatewayMock)

		plans.On("ReadPlan", mock.Anything, 5).Return(plan, nil).Once()
		gateway.On("CreateOrder", mock.MatchedBy(func(req paymentprovider.CreateOrderRequest) bool {
			return req.Amount == 300000 && req.Currency == "INR" && req.Receipt != ""
		})).Return(&paymentprovider.CreateOrderResponse{
			ID: "order_123", Amount: 300000, Currency: "INR", Status: "created",
		}, nil).Once()
		repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
			return p.OrderID == "order_123" && p.Status == models.PaymentStatusPending &&
				p.MemberUID == "member-uid" && p.Amount == 3000
		})).Return(11, nil).Once()

		svc := payment.New(repo, plans, gateway, new(AssignerMock), discardLogger())
		got, err := svc.CreateOrder(context.Background(), "member-uid", 5)
		require.NoError(t, err)
		assert.Equal(t, 11, got.ID)
		assert.Equal(t, "order_123", got.OrderID)
		repo.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("unknown plan", func(t *testing.T) {
		plans := new(PlanRepoMock)
		plans.On("ReadPlan", mock.Anything, 99).Return(nil, sql.ErrNoRows).Once()

		svc := payment.New(new(RepoMock), plans, new(GatewayMock), new(AssignerMock), discardLogger())
		_, err := svc.CreateOrder(context.Background(), "member-uid", 99)
		assert.ErrorIs(t, err, payment.ErrPlanNotFound)
	})
}

func TestService_Confirm(t *testing.T) {
	stored := &models.Payment{
		ID: 11, MemberUID: "member-uid", PlanID: 5,
		OrderID: "order_123", Status: models.PaymentStatusPending,
	}

	t.Run("successful confirm assigns plan", func(t *testing.T) {
		repo := new(RepoMock)
		gateway := new(GatewayMock)
		assigner := new(AssignerMock)

		gateway.On("VerifySignature", "order_123", "pay_456", "sig").Return(true).Once()
		repo.On("GetPaymentByOrderID", mock.Anything, "order_123").Return(stored, nil).Once()
		repo.On("MarkPaymentStatus", mock.Anything, "order_123", models.PaymentStatusSuccess, "pay_456").
			Return(1, nil).Once()
		assigner.On("AssignPlan", mock.Anything, "member-uid", 5, mock.AnythingOfType("time.Time")).
			Return(&membership.Window{Status: membership.StatusActive}, nil).Once()

		svc := payment.New(repo, new(PlanRepoMock), gateway, assigner, discardLogger())
		err := svc.Confirm(context.Background(), "order_123", "pay_456", "sig")
		require.NoError(t, err)
		assigner.AssertExpectations(t)
	})

	t.Run("bad signature", func(t *testing.T) {
		gateway := new(GatewayMock)
		gateway.On("VerifySignature", "order_123", "pay_456", "forged").Return(false).Once()

		svc := payment.New(new(RepoMock), new(PlanRepoMock), gateway, new(AssignerMock), discardLogger())
		err := svc.Confirm(context.Background(), "order_123", "pay_456", "forged")
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	})

	t.Run("duplicate notification", func(t *testing.T) {
		repo := new(RepoMock)
		gateway := new(GatewayMock)

		gateway.On("VerifySignature", "order_123", "pay_456", "sig").Return(true).Once()
		repo.On("GetPaymentByOrderID", mock.Anything, "order_123").Return(stored, nil).Once()
		repo.On("MarkPaymentStatus", mock.Anything, "order_123", models.PaymentStatusSuccess, "pay_456").
			Return(0, nil).Once()

		svc := payment.New(repo, new(PlanRepoMock), gateway, new(AssignerMock), discardLogger())
		err := svc.Confirm(context.Background(), "order_123", "pay_456", "sig")
		assert.ErrorIs(t, err, payment.ErrAlreadyProcessed)
	})

	t.Run("unknown order", func(t *testing.T) {
		repo := new(RepoMock)
		gateway := new(GatewayMock)

		gateway.On("VerifySignature", "order_999", "pay_456", "sig").Return(true).Once()
		repo.On("GetPaymentByOrderID", mock.Anything, "order_999").Return(nil, sql.ErrNoRows).Once()

		svc := payment.New(repo, new(PlanRepoMock), gateway, new(AssignerMock), discardLogger())
		err := svc.Confirm(context.Background(), "order_999", "pay_456", "sig")
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})
}

func TestService_Fail(t *testing.T) {
	repo := new(RepoMock)
	repo.On("MarkPaymentStatus", mock.Anything, "order_123", models.PaymentStatusFailed, "pay_456").
		Return(1, nil).Once()

	svc := payment.New(repo, new(PlanRepoMock), new(GatewayMock), new(AssignerMock), discardLogger())
	require.NoError(t, svc.Fail(context.Background(), "order_123", "pay_456"))
}

func TestService_HistoryForMember(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListPaymentsByMember", mock.Anything, "member-uid").Return([]*models.Payment{
		{ID: 1, CreatedAt: time.Now()},
	}, nil).Once()

	svc := payment.New(repo, new(PlanRepoMock), new(GatewayMock), new(AssignerMock), discardLogger())
	got, err := svc.HistoryForMember(context.Background(), "member-uid")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
