package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
)

// Мок сервиса с методами Confirm и Fail
type PaymentServiceMock struct {
	mock.Mock
}

func (m *PaymentServiceMock) Confirm(ctx context.Context, orderID, paymentID, signature string) error {
	args := m.Called(ctx, orderID, paymentID, signature)
	return args.Error(0)
}

func (m *PaymentServiceMock) Fail(ctx context.Context, orderID, paymentID string) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestWebhookHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(PaymentServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockMethod     string
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name: "successful payment confirmed",
			requestBody: Request{
				OrderID:   "order-1",
				PaymentID: "pay-1",
				Signature: "valid-signature",
				Status:    "success",
			},
			mockMethod:     "Confirm",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name: "failed payment recorded",
			requestBody: Request{
				OrderID:   "order-1",
				PaymentID: "pay-1",
				Status:    "failed",
			},
			mockMethod:     "Fail",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - unknown status",
			requestBody: Request{
				OrderID:   "order-1",
				PaymentID: "pay-1",
				Status:    "pending",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Status must be one of: success failed",
			wantStatus:     "Error",
		},
		{
			name: "invalid signature",
			requestBody: Request{
				OrderID:   "order-1",
				PaymentID: "pay-1",
				Signature: "bad-signature",
				Status:    "success",
			},
			mockMethod:     "Confirm",
			mockErr:        paymentservice.ErrInvalidSignature,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid signature",
			wantStatus:     "Error",
		},
		{
			name: "payment not found",
			requestBody: Request{
				OrderID:   "order-unknown",
				PaymentID: "pay-1",
				Signature: "valid-signature",
				Status:    "success",
			},
			mockMethod:     "Confirm",
			mockErr:        paymentservice.ErrPaymentNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "payment not found",
			wantStatus:     "Error",
		},
		{
			name: "webhook redelivery is idempotent",
			requestBody: Request{
				OrderID:   "order-1",
				PaymentID: "pay-1",
				Signature: "valid-signature",
				Status:    "success",
			},
			mockMethod:     "Confirm",
			mockErr:        paymentservice.ErrAlreadyProcessed,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name: "service error",
			requestBody: Request{
				OrderID:   "order-1",
				PaymentID: "pay-1",
				Signature: "valid-signature",
				Status:    "success",
			},
			mockMethod:     "Confirm",
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not process webhook",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			switch tt.mockMethod {
			case "Confirm":
				serviceMock.On("Confirm", mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockErr).Once()
			case "Fail":
				serviceMock.On("Fail", mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, true, data["processed"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
