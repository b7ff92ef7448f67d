package register

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/magabrotheeeer/entitlement-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) RegisterDevice(ctx context.Context, userUID string, req models.DummyDeviceSession) (*models.UserEntitlement, error) {
	args := m.Called(ctx, userUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserEntitlement), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	const uid = "a2e8d1de-6f2c-4f0a-9a5e-0d3c1b2a4f50"
	snapshot := &models.UserEntitlement{UserUID: uid, Role: models.RoleUser}

	tests := []struct {
		name       string
		body       string
		withUID    bool
		setupMocks func(s *ServiceMock)
		wantStatus int
	}{
		{
			name:    "success",
			body:    `{"device_id":"pixel-8","platform":"android","device_label":"Pixel 8"}`,
			withUID: true,
			setupMocks: func(s *ServiceMock) {
				s.On("RegisterDevice", mock.Anything, uid, mock.MatchedBy(func(r models.DummyDeviceSession) bool {
					return r.DeviceID == "pixel-8" && r.Platform == "android"
				})).Return(snapshot, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json",
			body:       `{not json`,
			withUID:    true,
			setupMocks: func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing device_id",
			body:       `{"platform":"android"}`,
			withUID:    true,
			setupMocks: func(_ *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown device_class",
			body:       `{"device_id":"x","platform":"android","device_class":"fridge"}`,
			withUID:    true,
			setupMocks: func(_ *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no uid in context",
			body:       `{"device_id":"pixel-8","platform":"android"}`,
			withUID:    false,
			setupMocks: func(_ *ServiceMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "class limit exceeded",
			body:    `{"device_id":"pixel-8","platform":"android"}`,
			withUID: true,
			setupMocks: func(s *ServiceMock) {
				s.On("RegisterDevice", mock.Anything, uid, mock.Anything).
					Return(nil, models.ErrDeviceLimitExceeded).Once()
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMocks(service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/me/sessions", bytes.NewBufferString(tt.body))
			if tt.withUID {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, uid))
			}
			rec := httptest.NewRecorder()
			New(newNoopLogger(), service).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
