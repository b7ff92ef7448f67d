package services

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/magabrotheeeer/entitlement-service/internal/lib/jwt"
	"github.com/magabrotheeeer/entitlement-service/internal/lib/password"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newMaker() jwtlib.Maker {
	return jwtlib.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	admins := map[string]struct{}{"root@example.com": {}}

	tests := []struct {
		name     string
		email    string
		wantRole string
	}{
		{name: "plain user", email: "user@example.com", wantRole: models.RoleUser},
		{name: "configured admin email", email: "root@example.com", wantRole: models.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
				if u.Role != tt.wantRole || u.Email != tt.email {
					return false
				}
				// пароль сохраняется только в виде bcrypt-хэша
				return u.PasswordHash != "secret123" &&
					password.CompareHash(u.PasswordHash, "secret123") == nil
			})).Return("new-uid", nil).Once()

			uid, err := NewAuthService(users, newMaker(), admins).
				Register(context.Background(), tt.email, "someone", "secret123")
			require.NoError(t, err)
			assert.Equal(t, "new-uid", uid)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	stored := &models.User{
		UUID:         "a2e8d1de-6f2c-4f0a-9a5e-0d3c1b2a4f50",
		Email:        "user@example.com",
		Username:     "someone",
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	t.Run("valid credentials produce parseable token", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "someone").Return(stored, nil).Once()

		svc := NewAuthService(users, newMaker(), nil)
		token, role, err := svc.Login(context.Background(), "someone", "secret123")
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, role)

		got, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, stored.UUID, got.UUID)
		assert.Equal(t, stored.Email, got.Email)
		assert.Equal(t, stored.Role, got.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "someone").Return(stored, nil).Once()

		_, _, err := NewAuthService(users, newMaker(), nil).
			Login(context.Background(), "someone", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "ghost").
			Return(nil, models.ErrEntitlementNotFound).Once()

		_, _, err := NewAuthService(users, newMaker(), nil).
			Login(context.Background(), "ghost", "secret123")
		require.ErrorIs(t, err, models.ErrEntitlementNotFound)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := NewAuthService(new(UsersMock), newMaker(), nil).
			ValidateToken(context.Background(), "not-a-token")
		require.Error(t, err)
	})
}
