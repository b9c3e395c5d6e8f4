package reservetoken

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

	"github.com/magabrotheeeer/gym-membership/internal/services/tokengate"
)

// Мок сервиса с методом Reserve
type TokenServiceMock struct {
	mock.Mock
}

func (m *TokenServiceMock) Reserve(ctx context.Context, tokenValue, email string) (string, error) {
	args := m.Called(ctx, tokenValue, email)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestReserveTokenHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(TokenServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name             string
		requestBody      interface{}
		mockContinuation string
		mockErr          error
		callMock         bool
		wantStatusCode   int
		wantError        string
		wantStatus       string
	}{
		{
			name: "valid reservation",
			requestBody: Request{
				Token: "b1-3f2a9c1d8e4b",
				Email: "new.member@example.com",
			},
			mockContinuation: "signed-continuation",
			callMock:         true,
			wantStatusCode:   http.StatusOK,
			wantStatus:       "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - bad email",
			requestBody: Request{
				Token: "b1-3f2a9c1d8e4b",
				Email: "not-an-email",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email",
			wantStatus:     "Error",
		},
		{
			name: "token not found",
			requestBody: Request{
				Token: "b1-unknown",
				Email: "new.member@example.com",
			},
			mockErr:        tokengate.ErrTokenNotFound,
			callMock:       true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "token not found",
			wantStatus:     "Error",
		},
		{
			name: "token already reserved",
			requestBody: Request{
				Token: "b1-3f2a9c1d8e4b",
				Email: "another@example.com",
			},
			mockErr:        tokengate.ErrAlreadyReserved,
			callMock:       true,
			wantStatusCode: http.StatusConflict,
			wantError:      "token already reserved",
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: Request{
				Token: "b1-3f2a9c1d8e4b",
				Email: "new.member@example.com",
			},
			mockErr:        errors.New("db error"),
			callMock:       true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not reserve token",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.callMock {
				serviceMock.On("Reserve", mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockContinuation, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/auth/token/verify", bytes.NewReader(bodyBytes))
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
				assert.Equal(t, tt.mockContinuation, data["continuation"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
