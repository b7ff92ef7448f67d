package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// GetEntitlement возвращает снимок прав пользователя вместе с его
// сессиями устройств. Отсутствие пользователя — models.ErrEntitlementNotFound.
func (s *Storage) GetEntitlement(ctx context.Context, userUID string) (*models.UserEntitlement, error) {
	const op = "storage.GetEntitlement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `SELECT role, is_premium, premium_granted_at, premium_expires_at, premium_granted_by,
			      trial_type, trial_started_at, trial_expires_at, trial_consumed
			  FROM users
			  WHERE uid = $1`
	e := &models.UserEntitlement{UserUID: userUID}

	var grantedAt, expiresAt sql.NullTime
	var grantedBy sql.NullString
	var trialType sql.NullString
	var trialStartedAt, trialExpiresAt sql.NullTime
	var trialConsumed sql.NullBool
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&e.Role, &e.IsPremium, &grantedAt, &expiresAt, &grantedBy,
		&trialType, &trialStartedAt, &trialExpiresAt, &trialConsumed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrEntitlementNotFound)
	}
	if err != nil {
		return nil, storeErr(op, err)
	}

	if grantedAt.Valid {
		e.PremiumGrantedAt = &grantedAt.Time
	}
	if expiresAt.Valid {
		e.PremiumExpiresAt = &expiresAt.Time
	}
	if grantedBy.Valid {
		e.PremiumGrantedBy = grantedBy.String
	}
	if trialType.Valid && trialType.String != string(models.TrialTypeNone) {
		e.Trial = &models.TrialState{
			TrialType: models.TrialType(trialType.String),
			StartedAt: trialStartedAt.Time,
			ExpiresAt: trialExpiresAt.Time,
			Consumed:  trialConsumed.Bool,
		}
	}

	sessions, err := s.listDeviceSessions(ctx, userUID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	e.DeviceSessions = sessions
	return e, nil
}

func (s *Storage) listDeviceSessions(ctx context.Context, userUID string) ([]models.DeviceSession, error) {
	query := `SELECT device_id, device_class, device_label, last_activity_at
			  FROM device_sessions
			  WHERE user_uid = $1
			  ORDER BY last_activity_at DESC, device_id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.DeviceSession
	for rows.Next() {
		var sess models.DeviceSession
		if err = rows.Scan(&sess.DeviceID, &sess.DeviceClass, &sess.DeviceLabel, &sess.LastActivityAt); err != nil {
			return nil, err
		}
		result = append(result, sess)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPremium включает премиум узким обновлением только полей выдачи.
// expiresAt равный nil означает бессрочный премиум.
func (s *Storage) SetPremium(ctx context.Context, userUID string, grantedAt time.Time, expiresAt *time.Time, grantedBy string) error {
	const op = "storage.SetPremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE users
			  SET is_premium = TRUE,
			      premium_granted_at = $2,
			      premium_expires_at = $3,
			      premium_granted_by = $4
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, grantedAt, expiresAt, grantedBy)
	if err != nil {
		return storeErr(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrEntitlementNotFound)
	}
	return nil
}

// ClearPremium выключает премиум и очищает поля выдачи. Идемпотентен.
func (s *Storage) ClearPremium(ctx context.Context, userUID string) error {
	const op = "storage.ClearPremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE users
			  SET is_premium = FALSE,
			      premium_granted_at = NULL,
			      premium_expires_at = NULL,
			      premium_granted_by = NULL
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return storeErr(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrEntitlementNotFound)
	}
	return nil
}

// ClaimWeeklyTrial записывает self-service пробный период при условии,
// что право ещё не использовано. Проверка и запись — одно условное
// обновление, поэтому гонка двух одновременных запросов разрешается
// на стороне базы: проигравший получает models.ErrNotEligible.
func (s *Storage) ClaimWeeklyTrial(ctx context.Context, userUID string, trial models.TrialState) error {
	const op = "storage.ClaimWeeklyTrial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE users
			  SET trial_type = $2,
			      trial_started_at = $3,
			      trial_expires_at = $4,
			      trial_consumed = TRUE
			  WHERE uid = $1 AND trial_consumed = FALSE`
	res, err := s.DB.ExecContext(ctx, query, userUID, trial.TrialType, trial.StartedAt, trial.ExpiresAt)
	if err != nil {
		return storeErr(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotEligible)
	}
	return nil
}

// SaveTrial записывает пробный период без условий. Используется для
// административной выдачи, которая не трогает право на self-service период.
func (s *Storage) SaveTrial(ctx context.Context, userUID string, trial models.TrialState) error {
	const op = "storage.SaveTrial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE users
			  SET trial_type = $2,
			      trial_started_at = $3,
			      trial_expires_at = $4,
			      trial_consumed = $5
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, trial.TrialType, trial.StartedAt, trial.ExpiresAt, trial.Consumed)
	if err != nil {
		return storeErr(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrEntitlementNotFound)
	}
	return nil
}

// UpdateRole обновляет роль пользователя, не трогая остальные поля.
func (s *Storage) UpdateRole(ctx context.Context, userUID, role string) error {
	const op = "storage.UpdateRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE users
			  SET role = $2
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, role)
	if err != nil {
		return storeErr(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrEntitlementNotFound)
	}
	return nil
}

// InsertDeviceSession регистрирует или обновляет сессию устройства.
// Проверка лимита класса и запись выполняются одним условным INSERT:
// новая сессия вставляется, только если число чужих сессий того же класса
// меньше лимита; существующая сессия с тем же device_id обновляется
// независимо от лимита и класса (обновление не занимает новый слот).
func (s *Storage) InsertDeviceSession(ctx context.Context, userUID string, sess models.DeviceSession, classLimit int) error {
	const op = "storage.InsertDeviceSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `INSERT INTO device_sessions (user_uid, device_id, device_class, device_label, last_activity_at)
			  SELECT $1, $2, $3, $4, $5
			  WHERE EXISTS (SELECT 1 FROM device_sessions
			                WHERE user_uid = $1 AND device_id = $2)
			     OR (SELECT COUNT(*) FROM device_sessions
			         WHERE user_uid = $1 AND device_class = $3 AND device_id <> $2) < $6
			  ON CONFLICT (user_uid, device_id) DO UPDATE
			  SET device_class = EXCLUDED.device_class,
			      device_label = EXCLUDED.device_label,
			      last_activity_at = EXCLUDED.last_activity_at`
	res, err := s.DB.ExecContext(ctx, query,
		userUID, sess.DeviceID, sess.DeviceClass, sess.DeviceLabel, sess.LastActivityAt, classLimit)
	if err != nil {
		return storeErr(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDeviceLimitExceeded)
	}
	return nil
}

// DeleteDeviceSession удаляет сессию по device_id.
// Отсутствующая сессия не считается ошибкой.
func (s *Storage) DeleteDeviceSession(ctx context.Context, userUID, deviceID string) error {
	const op = "storage.DeleteDeviceSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `DELETE FROM device_sessions WHERE user_uid = $1 AND device_id = $2`
	if _, err := s.DB.ExecContext(ctx, query, userUID, deviceID); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// DeleteAllDeviceSessions удаляет все сессии пользователя.
func (s *Storage) DeleteAllDeviceSessions(ctx context.Context, userUID string) error {
	const op = "storage.DeleteAllDeviceSessions"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `DELETE FROM device_sessions WHERE user_uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// FindTrialsExpiringToday находит пользователей, у которых сегодня
// истекает пробный период.
func (s *Storage) FindTrialsExpiringToday(ctx context.Context) ([]*models.ExpiryNotice, error) {
	const op = "storage.FindTrialsExpiringToday"
	query := `SELECT uid, email, username, trial_expires_at
			  FROM users
			  WHERE trial_type <> 'none' AND trial_expires_at::DATE = CURRENT_DATE`
	return s.findExpiring(ctx, op, query, "trial")
}

// FindPremiumExpiringToday находит пользователей, у которых сегодня
// истекает оплаченный или выданный премиум.
func (s *Storage) FindPremiumExpiringToday(ctx context.Context) ([]*models.ExpiryNotice, error) {
	const op = "storage.FindPremiumExpiringToday"
	query := `SELECT uid, email, username, premium_expires_at
			  FROM users
			  WHERE is_premium AND premium_expires_at::DATE = CURRENT_DATE`
	return s.findExpiring(ctx, op, query, "premium")
}

func (s *Storage) findExpiring(ctx context.Context, op, query, kind string) ([]*models.ExpiryNotice, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiryNotice
	for rows.Next() {
		var notice models.ExpiryNotice
		var expiresAt time.Time
		if err = rows.Scan(&notice.UserUID, &notice.Email, &notice.Username, &expiresAt); err != nil {
			return nil, storeErr(op, err)
		}
		notice.Kind = kind
		notice.ExpiresAt = expiresAt.Format(time.RFC3339)
		result = append(result, &notice)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return result, nil
}
