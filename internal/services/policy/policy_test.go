package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

func TestIsTrialEligible(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		trial *models.TrialState
		want  bool
	}{
		{
			name:  "no prior trial",
			trial: nil,
			want:  true,
		},
		{
			name: "consumed weekly trial",
			trial: &models.TrialState{
				TrialType: models.TrialTypeWeekly,
				StartedAt: now.AddDate(0, -1, 0),
				ExpiresAt: now.AddDate(0, -1, 7),
				Consumed:  true,
			},
			want: false,
		},
		{
			name: "admin granted trial does not burn eligibility",
			trial: &models.TrialState{
				TrialType: models.TrialTypeAdminGranted,
				StartedAt: now,
				ExpiresAt: now.Add(TrialDuration),
				Consumed:  false,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &models.UserEntitlement{UserUID: "u1", Role: models.RoleUser, Trial: tt.trial}
			assert.Equal(t, tt.want, IsTrialEligible(e))
		})
	}
}

func TestStartWeeklyTrial(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e := &models.UserEntitlement{UserUID: "u1", Role: models.RoleUser}

	trial, err := StartWeeklyTrial(e, now)
	require.NoError(t, err)
	assert.Equal(t, models.TrialTypeWeekly, trial.TrialType)
	assert.Equal(t, now, trial.StartedAt)
	assert.Equal(t, now.Add(TrialDuration), trial.ExpiresAt)
	assert.True(t, trial.Consumed)

	// повторная выдача на обновлённом снимке
	e.Trial = trial
	_, err = StartWeeklyTrial(e, now.AddDate(0, 2, 0))
	assert.ErrorIs(t, err, models.ErrNotEligible)
}

func TestTrialState_ActiveBoundaries(t *testing.T) {
	expires := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)
	trial := &models.TrialState{
		TrialType: models.TrialTypeWeekly,
		StartedAt: expires.Add(-TrialDuration),
		ExpiresAt: expires,
		Consumed:  true,
	}

	tests := []struct {
		name        string
		now         time.Time
		wantActive  bool
		wantExpired bool
	}{
		{"one day before expiry", expires.Add(-24 * time.Hour), true, false},
		{"one millisecond before expiry", expires.Add(-time.Millisecond), true, false},
		{"exactly at expiry", expires, false, true},
		{"one millisecond after expiry", expires.Add(time.Millisecond), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantActive, trial.Active(tt.now))
			assert.Equal(t, tt.wantExpired, trial.Expired(tt.now))
		})
	}

	var none *models.TrialState
	assert.False(t, none.Active(expires))
	assert.False(t, none.Expired(expires))
}

func TestStartAdminTrial(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("fresh user keeps eligibility", func(t *testing.T) {
		e := &models.UserEntitlement{UserUID: "u1"}
		trial := StartAdminTrial(e, TrialDuration, now)
		assert.Equal(t, models.TrialTypeAdminGranted, trial.TrialType)
		assert.False(t, trial.Consumed)

		e.Trial = trial
		assert.True(t, IsTrialEligible(e))
	})

	t.Run("consumed flag survives admin grant", func(t *testing.T) {
		e := &models.UserEntitlement{
			UserUID: "u2",
			Trial: &models.TrialState{
				TrialType: models.TrialTypeWeekly,
				ExpiresAt: now.AddDate(0, 0, -10),
				Consumed:  true,
			},
		}
		trial := StartAdminTrial(e, TrialDuration, now)
		assert.True(t, trial.Consumed)
	})
}

func TestGrantAndRevokePremium(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	before := models.UserEntitlement{UserUID: "u1", Role: models.RoleUser}

	granted := GrantPremium(before, 30*24*time.Hour, "admin@example.com", now)
	assert.True(t, granted.IsPremium)
	assert.Equal(t, "admin@example.com", granted.PremiumGrantedBy)
	require.NotNil(t, granted.PremiumExpiresAt)
	assert.Equal(t, now.AddDate(0, 0, 30), *granted.PremiumExpiresAt)
	assert.True(t, granted.PremiumActive(now.AddDate(0, 0, 29)))
	assert.False(t, granted.PremiumActive(now.AddDate(0, 0, 31)))

	// отзыв возвращает снимок к исходному состоянию
	revoked := RevokePremium(granted)
	assert.Equal(t, before, revoked)
	assert.Equal(t, revoked, RevokePremium(revoked))
}

func TestGrantPremium_OpenEnded(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e := GrantPremium(models.UserEntitlement{UserUID: "u1"}, 0, "root@example.com", now)

	assert.True(t, e.IsPremium)
	assert.Nil(t, e.PremiumExpiresAt)
	assert.True(t, e.PremiumActive(now.AddDate(10, 0, 0)))
}

func TestRegisterDeviceSession(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	limits := models.DefaultSessionLimits()

	phone := models.DeviceSession{DeviceID: "dev-1", DeviceClass: models.DeviceClassPhone, DeviceLabel: "Pixel 8"}

	tests := []struct {
		name     string
		existing []models.DeviceSession
		session  models.DeviceSession
		wantErr  error
		wantLen  int
	}{
		{
			name:    "first phone session",
			session: phone,
			wantLen: 1,
		},
		{
			name:     "second phone device at limit",
			existing: []models.DeviceSession{phone},
			session:  models.DeviceSession{DeviceID: "dev-2", DeviceClass: models.DeviceClassPhone},
			wantErr:  models.ErrDeviceLimitExceeded,
		},
		{
			name:     "same device refreshes instead of taking a slot",
			existing: []models.DeviceSession{phone},
			session:  models.DeviceSession{DeviceID: "dev-1", DeviceClass: models.DeviceClassPhone, DeviceLabel: "Pixel 8 Pro"},
			wantLen:  1,
		},
		{
			name:     "other class has its own limit",
			existing: []models.DeviceSession{phone},
			session:  models.DeviceSession{DeviceID: "dev-3", DeviceClass: models.DeviceClassWeb},
			wantLen:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := models.UserEntitlement{UserUID: "u1", DeviceSessions: tt.existing}
			got, err := RegisterDeviceSession(e, tt.session, limits, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.DeviceSessions, tt.wantLen)
			found := got.FindDeviceSession(tt.session.DeviceID)
			require.NotNil(t, found)
			assert.Equal(t, now, found.LastActivityAt)
			assert.Equal(t, tt.session.DeviceLabel, found.DeviceLabel)
		})
	}
}

func TestRegisterDeviceSession_DoesNotMutateInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e := models.UserEntitlement{
		UserUID: "u1",
		DeviceSessions: []models.DeviceSession{
			{DeviceID: "dev-1", DeviceClass: models.DeviceClassPhone, DeviceLabel: "old"},
		},
	}

	_, err := RegisterDeviceSession(e, models.DeviceSession{DeviceID: "dev-1", DeviceClass: models.DeviceClassPhone, DeviceLabel: "new"}, models.DefaultSessionLimits(), now)
	require.NoError(t, err)
	assert.Equal(t, "old", e.DeviceSessions[0].DeviceLabel)
}

func TestRemoveDeviceSession_Idempotent(t *testing.T) {
	e := models.UserEntitlement{
		UserUID: "u1",
		DeviceSessions: []models.DeviceSession{
			{DeviceID: "dev-1", DeviceClass: models.DeviceClassPhone},
			{DeviceID: "dev-2", DeviceClass: models.DeviceClassWeb},
		},
	}

	once := RemoveDeviceSession(e, "dev-1")
	assert.Len(t, once.DeviceSessions, 1)

	absentOnce := RemoveDeviceSession(once, "dev-1")
	absentTwice := RemoveDeviceSession(absentOnce, "dev-1")
	assert.Equal(t, absentOnce, absentTwice)
	assert.Len(t, absentTwice.DeviceSessions, 1)
}

func TestRemoveAllDeviceSessions_FreesSlots(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	limits := models.DefaultSessionLimits()
	e := models.UserEntitlement{
		UserUID: "u1",
		DeviceSessions: []models.DeviceSession{
			{DeviceID: "dev-1", DeviceClass: models.DeviceClassPhone},
		},
	}

	_, err := RegisterDeviceSession(e, models.DeviceSession{DeviceID: "dev-2", DeviceClass: models.DeviceClassPhone}, limits, now)
	require.ErrorIs(t, err, models.ErrDeviceLimitExceeded)

	cleared := RemoveAllDeviceSessions(e)
	assert.Empty(t, cleared.DeviceSessions)

	got, err := RegisterDeviceSession(cleared, models.DeviceSession{DeviceID: "dev-2", DeviceClass: models.DeviceClassPhone}, limits, now)
	require.NoError(t, err)
	assert.Len(t, got.DeviceSessions, 1)
}

func TestTrialLifecycle_EndToEnd(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e := &models.UserEntitlement{UserUID: "u1", Role: models.RoleUser}

	require.True(t, IsTrialEligible(e))

	trial, err := StartWeeklyTrial(e, t0)
	require.NoError(t, err)
	assert.Equal(t, t0.AddDate(0, 0, 7), trial.ExpiresAt)
	e.Trial = trial

	assert.True(t, e.Trial.Active(t0.AddDate(0, 0, 6)))
	assert.False(t, e.Trial.Active(t0.AddDate(0, 0, 8)))
	assert.True(t, e.Trial.Expired(t0.AddDate(0, 0, 8)))

	_, err = StartWeeklyTrial(e, t0.AddDate(1, 0, 0))
	assert.ErrorIs(t, err, models.ErrNotEligible)
}
