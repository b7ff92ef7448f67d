package models

// DummyGrant используется для приёма JSON-запроса на выдачу премиума.
// DurationDays равное 0 означает бессрочный премиум.
type DummyGrant struct {
	DurationDays int    `json:"duration_days" validate:"gte=0,lte=3650"` // Срок в днях, 0 — бессрочно
	Reason       string `json:"reason"`                                  // Причина выдачи (аудит)
}

// DummyDeviceSession используется для приёма JSON-запроса на регистрацию
// сессии устройства, прежде чем конвертировать его в DeviceSession.
type DummyDeviceSession struct {
	DeviceID    string `json:"device_id" validate:"required"`                            // Идентификатор устройства
	Platform    string `json:"platform" validate:"required"`                             // Сырая строка платформы клиента
	DeviceLabel string `json:"device_label"`                                             // Человекочитаемое описание
	DeviceClass string `json:"device_class" validate:"omitempty,oneof=phone tablet web"` // Явный класс, если клиент его знает
}

// DummyTrialRequest используется для приёма JSON-запроса на создание
// заявки на пробный период.
type DummyTrialRequest struct {
	Email     string `json:"email" validate:"required,email"`                    // Почта заявителя
	TrialType string `json:"trial_type" validate:"required,oneof=weekly admin_granted"` // Запрошенный тип
	Source    string `json:"source"`                                             // Источник заявки
}

// DummyRole используется для приёма JSON-запроса на смену роли пользователя.
type DummyRole struct {
	Role string `json:"role" validate:"required,oneof=user admin superadmin"`
}

// ExpiryNotice сообщение для очереди уведомлений об истечении
// пробного периода или премиума.
type ExpiryNotice struct {
	UserUID   string `json:"user_uid"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Kind      string `json:"kind"`       // "trial" или "premium"
	ExpiresAt string `json:"expires_at"` // RFC3339
}
