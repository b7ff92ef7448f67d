// Package models содержит доменные структуры сервиса entitlements:
// права пользователя (премиум, пробный период, сессии устройств),
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Роли пользователей. Роль хранится строкой, как и в таблице users.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// TrialType тип пробного периода.
type TrialType string

// Возможные типы пробного периода.
const (
	TrialTypeNone         TrialType = "none"          // Пробный период отсутствует
	TrialTypeWeekly       TrialType = "weekly"        // Недельный self-service период
	TrialTypeAdminGranted TrialType = "admin_granted" // Период, выданный администратором
)

// DeviceClass класс устройства, по которому считается лимит активных сессий.
type DeviceClass string

// Возможные классы устройств.
const (
	DeviceClassPhone  DeviceClass = "phone"
	DeviceClassTablet DeviceClass = "tablet"
	DeviceClassWeb    DeviceClass = "web"
)

// TrialState описывает состояние пробного периода пользователя.
// Флаг Consumed остаётся true после первого self-service периода
// и определяет право на повторную выдачу; admin_granted его не выставляет.
type TrialState struct {
	TrialType TrialType `json:"trial_type"` // Тип пробного периода
	StartedAt time.Time `json:"started_at"` // Дата начала
	ExpiresAt time.Time `json:"expires_at"` // Дата окончания
	Consumed  bool      `json:"consumed"`   // Использован ли self-service период
}

// Active сообщает, действует ли пробный период в момент now.
// Граница строгая: ExpiresAt == now уже не активен.
func (t *TrialState) Active(now time.Time) bool {
	return t != nil && t.TrialType != TrialTypeNone && t.ExpiresAt.After(now)
}

// Expired сообщает, истёк ли пробный период к моменту now.
func (t *TrialState) Expired(now time.Time) bool {
	return t != nil && t.TrialType != TrialTypeNone && !t.ExpiresAt.After(now)
}

// DeviceSession описывает активную сессию на одном устройстве пользователя.
// DeviceID уникален в пределах пользователя.
type DeviceSession struct {
	DeviceID       string      `json:"device_id"`        // Стабильный идентификатор устройства
	DeviceClass    DeviceClass `json:"device_class"`     // Класс устройства
	DeviceLabel    string      `json:"device_label"`     // Человекочитаемое описание, заполняет клиент
	LastActivityAt time.Time   `json:"last_activity_at"` // Время последнего действия с устройства
}

// UserEntitlement снимок прав одного пользователя: роль, премиум,
// пробный период и активные сессии устройств.
// Поле PremiumExpiresAt равное nil означает бессрочный премиум.
type UserEntitlement struct {
	UserUID          string          `json:"user_uid"`
	Role             string          `json:"role"`
	IsPremium        bool            `json:"is_premium"`
	PremiumGrantedAt *time.Time      `json:"premium_granted_at,omitempty"`
	PremiumExpiresAt *time.Time      `json:"premium_expires_at,omitempty"`
	PremiumGrantedBy string          `json:"premium_granted_by,omitempty"` // Кто выдал премиум (аудит)
	Trial            *TrialState     `json:"trial,omitempty"`
	DeviceSessions   []DeviceSession `json:"device_sessions,omitempty"`
}

// PremiumActive сообщает, действует ли премиум в момент now.
func (e *UserEntitlement) PremiumActive(now time.Time) bool {
	if !e.IsPremium {
		return false
	}
	return e.PremiumExpiresAt == nil || e.PremiumExpiresAt.After(now)
}

// FindDeviceSession возвращает сессию по deviceID или nil, если её нет.
func (e *UserEntitlement) FindDeviceSession(deviceID string) *DeviceSession {
	for i := range e.DeviceSessions {
		if e.DeviceSessions[i].DeviceID == deviceID {
			return &e.DeviceSessions[i]
		}
	}
	return nil
}

// CountDeviceClass считает сессии заданного класса.
func (e *UserEntitlement) CountDeviceClass(class DeviceClass) int {
	var n int
	for i := range e.DeviceSessions {
		if e.DeviceSessions[i].DeviceClass == class {
			n++
		}
	}
	return n
}

// SessionLimits лимиты активных сессий по классам устройств.
type SessionLimits struct {
	MaxPhones  int `yaml:"max_phones" env-default:"1"`
	MaxTablets int `yaml:"max_tablets" env-default:"1"`
	MaxWeb     int `yaml:"max_web" env-default:"1"`
}

// DefaultSessionLimits возвращает лимиты по умолчанию: по одной сессии на класс.
func DefaultSessionLimits() SessionLimits {
	return SessionLimits{MaxPhones: 1, MaxTablets: 1, MaxWeb: 1}
}

// ForClass возвращает лимит для заданного класса устройства.
func (l SessionLimits) ForClass(class DeviceClass) int {
	switch class {
	case DeviceClassPhone:
		return l.MaxPhones
	case DeviceClassTablet:
		return l.MaxTablets
	case DeviceClassWeb:
		return l.MaxWeb
	default:
		return 0
	}
}
