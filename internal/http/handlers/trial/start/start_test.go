package start

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/magabrotheeeer/entitlement-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) StartWeeklyTrial(ctx context.Context, userUID string) (*models.TrialState, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrialState), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	const uid = "a2e8d1de-6f2c-4f0a-9a5e-0d3c1b2a4f50"
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	trial := &models.TrialState{
		TrialType: models.TrialTypeWeekly,
		StartedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		Consumed:  true,
	}

	tests := []struct {
		name       string
		withUID    bool
		setupMocks func(s *ServiceMock)
		wantStatus int
	}{
		{
			name:    "success",
			withUID: true,
			setupMocks: func(s *ServiceMock) {
				s.On("StartWeeklyTrial", mock.Anything, uid).Return(trial, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no uid in context",
			withUID:    false,
			setupMocks: func(_ *ServiceMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "already consumed",
			withUID: true,
			setupMocks: func(s *ServiceMock) {
				s.On("StartWeeklyTrial", mock.Anything, uid).
					Return(nil, models.ErrNotEligible).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:    "store unavailable",
			withUID: true,
			setupMocks: func(s *ServiceMock) {
				s.On("StartWeeklyTrial", mock.Anything, uid).
					Return(nil, models.ErrStoreUnavailable).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMocks(service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/me/trial", nil)
			if tt.withUID {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, uid))
			}
			rec := httptest.NewRecorder()
			New(newNoopLogger(), service).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Status string `json:"status"`
					Data   struct {
						TrialType models.TrialType `json:"trial_type"`
						ExpiresAt time.Time        `json:"expires_at"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, models.TrialTypeWeekly, resp.Data.TrialType)
				assert.True(t, resp.Data.ExpiresAt.Equal(trial.ExpiresAt))
			}
			service.AssertExpectations(t)
		})
	}
}
