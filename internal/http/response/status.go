package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// StatusForError сопоставляет доменные ошибки HTTP-статусам.
// Конфликтные исходы (уже использованное право, занятый слот, разрешённая
// заявка) отображаются в 409, недоступность хранилища — в 503.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotEligible),
		errors.Is(err, models.ErrDeviceLimitExceeded),
		errors.Is(err, models.ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrEntitlementNotFound),
		errors.Is(err, models.ErrTrialRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
