package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/magabrotheeeer/entitlement-service/internal/services/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateTrialRequest(ctx context.Context, req models.TrialRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *RepoMock) GetTrialRequest(ctx context.Context, id string) (*models.TrialRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrialRequest), args.Error(1)
}
func (m *RepoMock) ResolveTrialRequest(ctx context.Context, id string, toStatus models.RequestStatus, resolvedBy string, resolvedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, toStatus, resolvedBy, resolvedAt)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) MarkTrialRequestActivated(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) ListTrialRequests(ctx context.Context, limit, offset int) ([]*models.TrialRequest, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrialRequest), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type GranterMock struct{ mock.Mock }

func (m *GranterMock) GrantAdminTrial(ctx context.Context, userUID string, duration time.Duration, grantedBy string) error {
	return m.Called(ctx, userUID, duration, grantedBy).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const (
	reqID = "5f0c84c7-2f0a-4f61-9b52-6a3f4e2d1c00"
	uid   = "a2e8d1de-6f2c-4f0a-9a5e-0d3c1b2a4f50"
	admin = "admin@example.com"
)

func newService(r *RepoMock, u *UsersMock, g *GranterMock, now time.Time) *TrialRequestService {
	return NewTrialRequestService(r, u, g, newNoopLogger()).
		WithClock(func() time.Time { return now })
}

func TestTrialRequestService_Submit(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := new(RepoMock)
	r.On("CreateTrialRequest", mock.Anything, mock.MatchedBy(func(req models.TrialRequest) bool {
		return req.ID != "" &&
			req.UserUID == uid &&
			req.Email == "user@example.com" &&
			req.Status == models.RequestStatusRequested &&
			req.RequestedAt.Equal(now)
	})).Return(nil).Once()

	got, err := newService(r, new(UsersMock), new(GranterMock), now).
		Submit(context.Background(), uid, models.DummyTrialRequest{
			Email:     "user@example.com",
			TrialType: string(models.TrialTypeWeekly),
			Source:    "mobile_app",
		})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRequested, got.Status)
	r.AssertExpectations(t)
}

func TestTrialRequestService_Approve(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("approve with known uid grants and activates", func(t *testing.T) {
		r := new(RepoMock)
		g := new(GranterMock)
		r.On("ResolveTrialRequest", mock.Anything, reqID, models.RequestStatusApproved, admin, now).
			Return(int64(1), nil).Once()
		r.On("GetTrialRequest", mock.Anything, reqID).
			Return(&models.TrialRequest{ID: reqID, UserUID: uid, Email: "user@example.com",
				Status: models.RequestStatusApproved}, nil).Once()
		g.On("GrantAdminTrial", mock.Anything, uid, policy.TrialDuration, admin).Return(nil).Once()
		r.On("MarkTrialRequestActivated", mock.Anything, reqID).Return(nil).Once()

		got, err := newService(r, new(UsersMock), g, now).Approve(context.Background(), reqID, admin)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusActivated, got.Status)
		r.AssertExpectations(t)
		g.AssertExpectations(t)
	})

	t.Run("approve resolves uid by email", func(t *testing.T) {
		r := new(RepoMock)
		u := new(UsersMock)
		g := new(GranterMock)
		r.On("ResolveTrialRequest", mock.Anything, reqID, models.RequestStatusApproved, admin, now).
			Return(int64(1), nil).Once()
		r.On("GetTrialRequest", mock.Anything, reqID).
			Return(&models.TrialRequest{ID: reqID, Email: "user@example.com",
				Status: models.RequestStatusApproved}, nil).Once()
		u.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{UUID: uid, Email: "user@example.com"}, nil).Once()
		g.On("GrantAdminTrial", mock.Anything, uid, policy.TrialDuration, admin).Return(nil).Once()
		r.On("MarkTrialRequestActivated", mock.Anything, reqID).Return(nil).Once()

		got, err := newService(r, u, g, now).Approve(context.Background(), reqID, admin)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusActivated, got.Status)
		u.AssertExpectations(t)
	})

	t.Run("approve without account stays approved", func(t *testing.T) {
		r := new(RepoMock)
		u := new(UsersMock)
		g := new(GranterMock)
		r.On("ResolveTrialRequest", mock.Anything, reqID, models.RequestStatusApproved, admin, now).
			Return(int64(1), nil).Once()
		r.On("GetTrialRequest", mock.Anything, reqID).
			Return(&models.TrialRequest{ID: reqID, Email: "ghost@example.com",
				Status: models.RequestStatusApproved}, nil).Once()
		u.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, models.ErrEntitlementNotFound).Once()

		got, err := newService(r, u, g, now).Approve(context.Background(), reqID, admin)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusApproved, got.Status)
		g.AssertNotCalled(t, "GrantAdminTrial", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		r.AssertNotCalled(t, "MarkTrialRequestActivated", mock.Anything, mock.Anything)
	})

	t.Run("second resolver gets already resolved", func(t *testing.T) {
		r := new(RepoMock)
		r.On("ResolveTrialRequest", mock.Anything, reqID, models.RequestStatusApproved, admin, now).
			Return(int64(0), nil).Once()
		r.On("GetTrialRequest", mock.Anything, reqID).
			Return(&models.TrialRequest{ID: reqID, Status: models.RequestStatusRejected}, nil).Once()

		_, err := newService(r, new(UsersMock), new(GranterMock), now).
			Approve(context.Background(), reqID, admin)
		require.ErrorIs(t, err, models.ErrAlreadyResolved)
	})

	t.Run("unknown request id", func(t *testing.T) {
		r := new(RepoMock)
		r.On("ResolveTrialRequest", mock.Anything, reqID, models.RequestStatusApproved, admin, now).
			Return(int64(0), nil).Once()
		r.On("GetTrialRequest", mock.Anything, reqID).
			Return(nil, models.ErrTrialRequestNotFound).Once()

		_, err := newService(r, new(UsersMock), new(GranterMock), now).
			Approve(context.Background(), reqID, admin)
		require.ErrorIs(t, err, models.ErrTrialRequestNotFound)
	})
}

func TestTrialRequestService_Reject(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("reject pending request", func(t *testing.T) {
		r := new(RepoMock)
		r.On("ResolveTrialRequest", mock.Anything, reqID, models.RequestStatusRejected, admin, now).
			Return(int64(1), nil).Once()
		r.On("GetTrialRequest", mock.Anything, reqID).
			Return(&models.TrialRequest{ID: reqID, Status: models.RequestStatusRejected}, nil).Once()

		got, err := newService(r, new(UsersMock), new(GranterMock), now).
			Reject(context.Background(), reqID, admin)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusRejected, got.Status)
	})

	t.Run("reject after approve fails", func(t *testing.T) {
		r := new(RepoMock)
		r.On("ResolveTrialRequest", mock.Anything, reqID, models.RequestStatusRejected, admin, now).
			Return(int64(0), nil).Once()
		r.On("GetTrialRequest", mock.Anything, reqID).
			Return(&models.TrialRequest{ID: reqID, Status: models.RequestStatusApproved}, nil).Once()

		_, err := newService(r, new(UsersMock), new(GranterMock), now).
			Reject(context.Background(), reqID, admin)
		require.ErrorIs(t, err, models.ErrAlreadyResolved)
	})
}

func TestTrialRequestService_List(t *testing.T) {
	r := new(RepoMock)
	want := []*models.TrialRequest{{ID: reqID, Status: models.RequestStatusRequested}}
	r.On("ListTrialRequests", mock.Anything, 20, 0).Return(want, nil).Once()

	got, err := newService(r, new(UsersMock), new(GranterMock), time.Now()).
		List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
