package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type AuthMock struct{ mock.Mock }

func (m *AuthMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	user := &models.User{
		UUID:     "uid-1",
		Email:    "user@example.com",
		Username: "someone",
		Role:     models.RoleUser,
	}

	tests := []struct {
		name       string
		header     string
		setupMocks func(a *AuthMock)
		wantStatus int
		wantNext   bool
	}{
		{
			name:   "valid token fills context",
			header: "Bearer good-token",
			setupMocks: func(a *AuthMock) {
				a.On("ValidateToken", mock.Anything, "good-token").Return(user, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			header:     "",
			setupMocks: func(_ *AuthMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			setupMocks: func(_ *AuthMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			header: "Bearer stale-token",
			setupMocks: func(a *AuthMock) {
				a.On("ValidateToken", mock.Anything, "stale-token").
					Return(nil, errors.New("token is expired")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(AuthMock)
			tt.setupMocks(auth)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "someone", r.Context().Value(User))
				assert.Equal(t, models.RoleUser, r.Context().Value(Role))
				assert.Equal(t, "uid-1", r.Context().Value(UserUID))
				assert.Equal(t, "user@example.com", r.Context().Value(Email))
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			JWTMiddleware(auth, newNoopLogger())(next).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			auth.AssertExpectations(t)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		role       any
		wantStatus int
	}{
		{name: "admin passes", role: models.RoleAdmin, wantStatus: http.StatusOK},
		{name: "superadmin passes", role: models.RoleSuperAdmin, wantStatus: http.StatusOK},
		{name: "plain user rejected", role: models.RoleUser, wantStatus: http.StatusForbidden},
		{name: "missing role rejected", role: nil, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			rec := httptest.NewRecorder()
			RequireAdmin(newNoopLogger())(next).ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
