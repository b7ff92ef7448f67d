package models

import "time"

// RequestStatus статус заявки на пробный период.
type RequestStatus string

// Жизненный цикл заявки: requested -> approved -> activated,
// requested -> rejected, requested -> expired.
// Статусы rejected и expired терминальные.
const (
	RequestStatusRequested RequestStatus = "requested"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusActivated RequestStatus = "activated"
	RequestStatusExpired   RequestStatus = "expired"
)

// TrialRequest заявка пользователя на пробный период,
// обрабатываемая администратором через очередь одобрения.
// Заявка с пустым UserUID после одобрения остаётся в статусе approved
// до ручной активации.
type TrialRequest struct {
	ID          string        `json:"id"`                    // UUID заявки
	UserUID     string        `json:"user_uid,omitempty"`    // UID пользователя, может отсутствовать
	Email       string        `json:"email"`                 // Почта заявителя
	TrialType   TrialType     `json:"trial_type"`            // Запрошенный тип периода
	Source      string        `json:"source,omitempty"`      // Откуда пришла заявка (экран, кампания)
	Status      RequestStatus `json:"status"`                // Текущий статус
	RequestedAt time.Time     `json:"requested_at"`          // Когда подана
	ResolvedBy  string        `json:"resolved_by,omitempty"` // Кто одобрил или отклонил (аудит)
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"` // Когда решена
}

// Resolved сообщает, решена ли заявка (любой статус кроме requested).
func (r *TrialRequest) Resolved() bool {
	return r.Status != RequestStatusRequested
}
