package approve

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/magabrotheeeer/entitlement-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Approve(ctx context.Context, id, resolvedBy string) (*models.TrialRequest, error) {
	args := m.Called(ctx, id, resolvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrialRequest), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	const reqID = "5f0c84c7-2f0a-4f61-9b52-6a3f4e2d1c00"
	const admin = "admin@example.com"

	tests := []struct {
		name       string
		setupMocks func(s *ServiceMock)
		wantStatus int
	}{
		{
			name: "success",
			setupMocks: func(s *ServiceMock) {
				s.On("Approve", mock.Anything, reqID, admin).
					Return(&models.TrialRequest{ID: reqID, Status: models.RequestStatusActivated}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "already resolved",
			setupMocks: func(s *ServiceMock) {
				s.On("Approve", mock.Anything, reqID, admin).
					Return(nil, models.ErrAlreadyResolved).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "unknown request",
			setupMocks: func(s *ServiceMock) {
				s.On("Approve", mock.Anything, reqID, admin).
					Return(nil, models.ErrTrialRequestNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMocks(service)

			router := chi.NewRouter()
			router.Post("/trial-requests/{id}/approve", New(newNoopLogger(), service).ServeHTTP)

			req := httptest.NewRequest(http.MethodPost, "/trial-requests/"+reqID+"/approve", nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, admin))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
