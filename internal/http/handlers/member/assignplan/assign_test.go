package assignplan

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
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-membership/internal/membership"
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
)

// Мок сервиса с методом AssignPlan
type MemberServiceMock struct {
	mock.Mock
}

func (m *MemberServiceMock) AssignPlan(ctx context.Context, uid string, planID int, startInput any) (*membership.Window, error) {
	args := m.Called(ctx, uid, planID, startInput)
	var window *membership.Window
	if args.Get(0) != nil {
		window = args.Get(0).(*membership.Window)
	}
	return window, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequestWithUID(body []byte, uid string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/members/"+uid+"/plan", bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uid", uid)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	return req.WithContext(ctx)
}

func TestAssignPlanHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(MemberServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	window := &membership.Window{
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:    "active",
	}

	tests := []struct {
		name           string
		uid            string
		requestBody    interface{}
		mockWindow     *membership.Window
		mockErr        error
		callMock       bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid assignment",
			uid:  "member-uid",
			requestBody: Request{
				PlanID:    3,
				StartDate: "2025-06-01",
			},
			mockWindow:     window,
			callMock:       true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			uid:            "member-uid",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing start date",
			uid:  "member-uid",
			requestBody: Request{
				PlanID: 3,
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field StartDate is a required field",
			wantStatus:     "Error",
		},
		{
			name: "unparseable start date",
			uid:  "member-uid",
			requestBody: Request{
				PlanID:    3,
				StartDate: "June 1st",
			},
			mockErr:        membership.ErrInvalidStartDate,
			callMock:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid start date",
			wantStatus:     "Error",
		},
		{
			name: "plan not found",
			uid:  "member-uid",
			requestBody: Request{
				PlanID:    99,
				StartDate: "2025-06-01",
			},
			mockErr:        memberservice.ErrPlanNotFound,
			callMock:       true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "plan not found",
			wantStatus:     "Error",
		},
		{
			name: "member not found",
			uid:  "ghost-uid",
			requestBody: Request{
				PlanID:    3,
				StartDate: "2025-06-01",
			},
			mockErr:        memberservice.ErrMemberNotFound,
			callMock:       true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "member not found",
			wantStatus:     "Error",
		},
		{
			name: "service error",
			uid:  "member-uid",
			requestBody: Request{
				PlanID:    3,
				StartDate: "2025-06-01",
			},
			mockErr:        errors.New("db error"),
			callMock:       true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not assign plan",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.callMock {
				serviceMock.On("AssignPlan", mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockWindow, tt.mockErr).Once()
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

			req := newRequestWithUID(bodyBytes, tt.uid)
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
				assert.NotNil(t, data["window"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
