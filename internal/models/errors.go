package models

import "errors"

// Сентинельные ошибки доменного уровня. Сервисы и обработчики
// сопоставляют их через errors.Is, чтобы HTTP-слой мог отличать
// ожидаемые отказы от сбоев хранилища.
var (
	// ErrNotEligible пользователь уже использовал self-service пробный период.
	ErrNotEligible = errors.New("trial already consumed")
	// ErrDeviceLimitExceeded превышен лимит сессий для класса устройства.
	ErrDeviceLimitExceeded = errors.New("device class session limit exceeded")
	// ErrAlreadyResolved заявка уже одобрена, отклонена или истекла.
	ErrAlreadyResolved = errors.New("trial request already resolved")
	// ErrStoreUnavailable хранилище не ответило за отведённый таймаут
	// или вернуло транспортную ошибку. Не путать с отсутствием данных.
	ErrStoreUnavailable = errors.New("entitlement store unavailable")
	// ErrUnauthorized у вызывающего нет прав на операцию.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEntitlementNotFound запись не найдена в хранилище.
	ErrEntitlementNotFound = errors.New("entitlement not found")
	// ErrTrialRequestNotFound заявка не найдена в хранилище.
	ErrTrialRequestNotFound = errors.New("trial request not found")
)
