// Package services содержит бизнес-логику управления правами пользователя:
// премиум, self-service пробный период и сессии устройств, с кешированием снимков.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/entitlement-service/internal/lib/devicefp"
	"github.com/magabrotheeeer/entitlement-service/internal/lib/sl"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/magabrotheeeer/entitlement-service/internal/services/policy"
)

// EntitlementRepository определяет методы для работы с правами в хранилище.
// Каждый мутирующий метод — узкое условное обновление своего под-пути,
// а не перезапись всего снимка.
type EntitlementRepository interface {
	// GetEntitlement возвращает снимок прав пользователя.
	GetEntitlement(ctx context.Context, userUID string) (*models.UserEntitlement, error)
	// SetPremium включает премиум; expiresAt равный nil — бессрочно.
	SetPremium(ctx context.Context, userUID string, grantedAt time.Time, expiresAt *time.Time, grantedBy string) error
	// ClearPremium выключает премиум и очищает поля выдачи.
	ClearPremium(ctx context.Context, userUID string) error
	// ClaimWeeklyTrial записывает self-service период, если право не использовано.
	ClaimWeeklyTrial(ctx context.Context, userUID string, trial models.TrialState) error
	// SaveTrial записывает пробный период без условий (административная выдача).
	SaveTrial(ctx context.Context, userUID string, trial models.TrialState) error
	// InsertDeviceSession вставляет или обновляет сессию с учётом лимита класса.
	InsertDeviceSession(ctx context.Context, userUID string, sess models.DeviceSession, classLimit int) error
	// DeleteDeviceSession удаляет сессию, отсутствие не считается ошибкой.
	DeleteDeviceSession(ctx context.Context, userUID, deviceID string) error
	// DeleteAllDeviceSessions удаляет все сессии пользователя.
	DeleteAllDeviceSessions(ctx context.Context, userUID string) error
	// UpdateRole обновляет роль пользователя.
	UpdateRole(ctx context.Context, userUID, role string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EntitlementService реализует бизнес-логику работы с правами пользователя.
// Решения принимает пакет policy над снимком; сервис читает снимок,
// сохраняет результат узкими обновлениями и следит за кешем.
type EntitlementService struct {
	repo   EntitlementRepository
	cache  Cache
	limits models.SessionLimits
	log    *slog.Logger
	now    func() time.Time // инжектируемые часы для детерминированных тестов
}

const cacheTTL = 5 * time.Minute

// NewEntitlementService создает новый экземпляр EntitlementService.
func NewEntitlementService(repo EntitlementRepository, cache Cache, limits models.SessionLimits, log *slog.Logger) *EntitlementService {
	return &EntitlementService{
		repo:   repo,
		cache:  cache,
		limits: limits,
		log:    log,
		now:    time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *EntitlementService) WithClock(now func() time.Time) *EntitlementService {
	s.now = now
	return s
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("entitlement:%s", userUID)
}

// Get возвращает снимок прав пользователя, используя кеш или репозиторий.
// Отсутствующая запись трактуется как новый пользователь с правами по
// умолчанию; сбой хранилища пробрасывается, а не маскируется пустым снимком.
func (s *EntitlementService) Get(ctx context.Context, userUID string) (*models.UserEntitlement, error) {
	var result *models.UserEntitlement
	key := cacheKey(userUID)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read entitlement from cache", slog.String("key", key), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.GetEntitlement(ctx, userUID)
	if errors.Is(err, models.ErrEntitlementNotFound) {
		return &models.UserEntitlement{UserUID: userUID, Role: models.RoleUser}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache entitlement", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}

// StartWeeklyTrial выдаёт пользователю недельный self-service пробный период.
// Право проверяется policy-движком по снимку, а затем ещё раз условным
// обновлением в хранилище: проигравший гонку получает models.ErrNotEligible.
func (s *EntitlementService) StartWeeklyTrial(ctx context.Context, userUID string) (*models.TrialState, error) {
	entitlement, err := s.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}

	trial, err := policy.StartWeeklyTrial(entitlement, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.ClaimWeeklyTrial(ctx, userUID, *trial); err != nil {
		return nil, err
	}
	s.invalidate(userUID)

	s.log.Info("weekly trial started", sl.UID(userUID),
		slog.Time("expires_at", trial.ExpiresAt))
	return trial, nil
}

// GrantPremium включает пользователю премиум на durationDays дней.
// Ноль дней означает бессрочный премиум. Авторизацию вызова выполняет
// вызывающий слой; grantedBy сохраняется для аудита.
func (s *EntitlementService) GrantPremium(ctx context.Context, userUID string, durationDays int, grantedBy, reason string) (*models.UserEntitlement, error) {
	entitlement, err := s.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}

	updated := policy.GrantPremium(*entitlement, time.Duration(durationDays)*24*time.Hour, grantedBy, s.now())
	if err := s.repo.SetPremium(ctx, userUID, *updated.PremiumGrantedAt, updated.PremiumExpiresAt, grantedBy); err != nil {
		return nil, err
	}
	s.invalidate(userUID)

	s.log.Info("premium granted", sl.UID(userUID),
		slog.String("granted_by", grantedBy),
		slog.Int("duration_days", durationDays),
		slog.String("reason", reason))
	return &updated, nil
}

// GrantAdminTrial применяет одобренную заявку: включает премиум на время
// периода и записывает пробный период admin_granted, не сжигая право
// пользователя на self-service период.
func (s *EntitlementService) GrantAdminTrial(ctx context.Context, userUID string, duration time.Duration, grantedBy string) error {
	entitlement, err := s.Get(ctx, userUID)
	if err != nil {
		return err
	}

	now := s.now()
	trial := policy.StartAdminTrial(entitlement, duration, now)
	if err := s.repo.SaveTrial(ctx, userUID, *trial); err != nil {
		return err
	}
	expiresAt := trial.ExpiresAt
	if err := s.repo.SetPremium(ctx, userUID, now, &expiresAt, grantedBy); err != nil {
		return err
	}
	s.invalidate(userUID)

	s.log.Info("admin trial granted", sl.UID(userUID),
		slog.String("granted_by", grantedBy),
		slog.Time("expires_at", trial.ExpiresAt))
	return nil
}

// RevokePremium выключает премиум пользователя. Идемпотентна.
func (s *EntitlementService) RevokePremium(ctx context.Context, userUID, revokedBy string) error {
	if err := s.repo.ClearPremium(ctx, userUID); err != nil {
		return err
	}
	s.invalidate(userUID)

	s.log.Info("premium revoked", sl.UID(userUID), slog.String("revoked_by", revokedBy))
	return nil
}

// RegisterDevice регистрирует сессию устройства пользователя.
// Класс определяется по явному полю запроса либо по строке платформы;
// идентификатор устройства приводится к стабильному отпечатку в пределах
// пользователя. Лимит класса повторно проверяется условной вставкой в базе.
func (s *EntitlementService) RegisterDevice(ctx context.Context, userUID string, req models.DummyDeviceSession) (*models.UserEntitlement, error) {
	entitlement, err := s.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}

	class := models.DeviceClass(req.DeviceClass)
	if class == "" {
		class = devicefp.ResolveClass(req.Platform)
	}
	session := models.DeviceSession{
		DeviceID:    devicefp.Fingerprint(userUID, req.DeviceID),
		DeviceClass: class,
		DeviceLabel: req.DeviceLabel,
	}

	updated, err := policy.RegisterDeviceSession(*entitlement, session, s.limits, s.now())
	if err != nil {
		return nil, err
	}

	registered := updated.FindDeviceSession(session.DeviceID)
	if err := s.repo.InsertDeviceSession(ctx, userUID, *registered, s.limits.ForClass(class)); err != nil {
		return nil, err
	}
	s.invalidate(userUID)

	s.log.Info("device session registered", sl.UID(userUID),
		slog.String("device_class", string(class)))
	return &updated, nil
}

// RemoveDevice удаляет сессию устройства пользователя.
// Отсутствующая сессия не считается ошибкой (идемпотентное удаление).
func (s *EntitlementService) RemoveDevice(ctx context.Context, userUID, deviceID string) error {
	if err := s.repo.DeleteDeviceSession(ctx, userUID, devicefp.Fingerprint(userUID, deviceID)); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// RemoveAllDevices удаляет все сессии устройств пользователя.
// Используется административной консолью для освобождения слотов.
func (s *EntitlementService) RemoveAllDevices(ctx context.Context, userUID, removedBy string) error {
	if err := s.repo.DeleteAllDeviceSessions(ctx, userUID); err != nil {
		return err
	}
	s.invalidate(userUID)

	s.log.Info("all device sessions removed", sl.UID(userUID), slog.String("removed_by", removedBy))
	return nil
}

// ListSessions возвращает активные сессии устройств пользователя.
func (s *EntitlementService) ListSessions(ctx context.Context, userUID string) ([]models.DeviceSession, error) {
	entitlement, err := s.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return entitlement.DeviceSessions, nil
}

// UpdateRole обновляет роль пользователя узким обновлением одной колонки.
func (s *EntitlementService) UpdateRole(ctx context.Context, userUID, role, updatedBy string) error {
	if err := s.repo.UpdateRole(ctx, userUID, role); err != nil {
		return err
	}
	s.invalidate(userUID)

	s.log.Info("role updated", sl.UID(userUID),
		slog.String("role", role), slog.String("updated_by", updatedBy))
	return nil
}

func (s *EntitlementService) invalidate(userUID string) {
	key := cacheKey(userUID)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
}
