package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Права (премиум, сессии, пробный период) хранятся отдельно, см. UserEntitlement.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя: user, admin или superadmin
	CreatedAt    time.Time // Дата создания учётной записи
}
