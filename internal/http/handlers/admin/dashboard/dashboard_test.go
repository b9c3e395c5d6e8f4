package dashboard

import (
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

	"github.com/magabrotheeeer/gym-membership/internal/membership"
)

// Мок сервиса с методом DashboardCounts
type MemberServiceMock struct {
	mock.Mock
}

func (m *MemberServiceMock) DashboardCounts(ctx context.Context) (membership.Counts, error) {
	args := m.Called(ctx)
	return args.Get(0).(membership.Counts), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDashboardHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(MemberServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		mockCounts     membership.Counts
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name: "counts returned",
			mockCounts: membership.Counts{
				Total:        12,
				Active:       7,
				ExpiringSoon: 2,
				Expired:      3,
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "service error",
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not build dashboard",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			serviceMock.On("DashboardCounts", mock.Anything).
				Return(tt.mockCounts, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				counts, ok := data["counts"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, float64(tt.mockCounts.Total), counts["total"])
				assert.Equal(t, float64(tt.mockCounts.Active), counts["active"])
				assert.Equal(t, float64(tt.mockCounts.ExpiringSoon), counts["expiring_soon"])
				assert.Equal(t, float64(tt.mockCounts.Expired), counts["expired"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
