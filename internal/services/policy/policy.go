// Package policy реализует чистую логику принятия решений о правах пользователя:
// право на пробный период, выдача и отзыв премиума, лимиты сессий по классам устройств.
//
// Все функции работают над снимком UserEntitlement и возвращают новый снимок,
// не обращаясь к хранилищу. Момент времени передаётся параметром now,
// поэтому граничные случаи истечения проверяются детерминированно.
// Сохранение результата — ответственность вызывающего.
package policy

import (
	"time"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// TrialDuration длительность self-service пробного периода.
const TrialDuration = 7 * 24 * time.Hour

// IsTrialEligible сообщает, имеет ли пользователь право на self-service
// пробный период. Право есть, пока флаг Consumed не выставлен:
// период, выданный администратором, права не сжигает.
func IsTrialEligible(e *models.UserEntitlement) bool {
	return e.Trial == nil || !e.Trial.Consumed
}

// StartWeeklyTrial выдаёт недельный пробный период.
// Возвращает models.ErrNotEligible, если право уже использовано.
func StartWeeklyTrial(e *models.UserEntitlement, now time.Time) (*models.TrialState, error) {
	if !IsTrialEligible(e) {
		return nil, models.ErrNotEligible
	}
	return &models.TrialState{
		TrialType: models.TrialTypeWeekly,
		StartedAt: now,
		ExpiresAt: now.Add(TrialDuration),
		Consumed:  true,
	}, nil
}

// StartAdminTrial выдаёт пробный период по решению администратора.
// Флаг Consumed наследуется от текущего состояния: административная выдача
// не лишает пользователя его единственного self-service периода.
func StartAdminTrial(e *models.UserEntitlement, duration time.Duration, now time.Time) *models.TrialState {
	consumed := e.Trial != nil && e.Trial.Consumed
	return &models.TrialState{
		TrialType: models.TrialTypeAdminGranted,
		StartedAt: now,
		ExpiresAt: now.Add(duration),
		Consumed:  consumed,
	}
}

// GrantPremium возвращает снимок с включённым премиумом.
// duration равная нулю означает бессрочный премиум: PremiumExpiresAt
// остаётся nil, а не подменяется датой-заглушкой.
func GrantPremium(e models.UserEntitlement, duration time.Duration, grantedBy string, now time.Time) models.UserEntitlement {
	e.IsPremium = true
	grantedAt := now
	e.PremiumGrantedAt = &grantedAt
	e.PremiumGrantedBy = grantedBy
	if duration > 0 {
		expiresAt := now.Add(duration)
		e.PremiumExpiresAt = &expiresAt
	} else {
		e.PremiumExpiresAt = nil
	}
	return e
}

// RevokePremium возвращает снимок с выключенным премиумом и очищенными
// полями выдачи. Идемпотентна.
func RevokePremium(e models.UserEntitlement) models.UserEntitlement {
	e.IsPremium = false
	e.PremiumGrantedAt = nil
	e.PremiumExpiresAt = nil
	e.PremiumGrantedBy = ""
	return e
}

// RegisterDeviceSession регистрирует сессию устройства или обновляет
// существующую с тем же DeviceID (обновление не занимает новый слот).
// Для нового DeviceID при достигнутом лимите класса возвращает
// models.ErrDeviceLimitExceeded.
func RegisterDeviceSession(e models.UserEntitlement, session models.DeviceSession, limits models.SessionLimits, now time.Time) (models.UserEntitlement, error) {
	session.LastActivityAt = now

	sessions := make([]models.DeviceSession, len(e.DeviceSessions))
	copy(sessions, e.DeviceSessions)
	e.DeviceSessions = sessions

	for i := range e.DeviceSessions {
		if e.DeviceSessions[i].DeviceID == session.DeviceID {
			e.DeviceSessions[i] = session
			return e, nil
		}
	}

	var classCount int
	for i := range e.DeviceSessions {
		if e.DeviceSessions[i].DeviceClass == session.DeviceClass {
			classCount++
		}
	}
	if classCount >= limits.ForClass(session.DeviceClass) {
		return e, models.ErrDeviceLimitExceeded
	}

	e.DeviceSessions = append(e.DeviceSessions, session)
	return e, nil
}

// RemoveDeviceSession удаляет сессию по deviceID.
// Отсутствующий deviceID не считается ошибкой, операция идемпотентна.
func RemoveDeviceSession(e models.UserEntitlement, deviceID string) models.UserEntitlement {
	sessions := make([]models.DeviceSession, 0, len(e.DeviceSessions))
	for i := range e.DeviceSessions {
		if e.DeviceSessions[i].DeviceID != deviceID {
			sessions = append(sessions, e.DeviceSessions[i])
		}
	}
	e.DeviceSessions = sessions
	return e
}

// RemoveAllDeviceSessions очищает весь набор сессий пользователя.
func RemoveAllDeviceSessions(e models.UserEntitlement) models.UserEntitlement {
	e.DeviceSessions = nil
	return e
}
