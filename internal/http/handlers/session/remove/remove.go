// Package remove реализует HTTP-обработчик удаления сессии устройства пользователя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entitlement-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entitlement-service/internal/http/response"
	"github.com/magabrotheeeer/entitlement-service/internal/lib/sl"
)

// Service описывает интерфейс удаления сессии.
type Service interface {
	RemoveDevice(ctx context.Context, userUID, deviceID string) error
}

// Handler обрабатывает запросы на удаление сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить сессию устройства
// @Description Освобождает слот устройства. Отсутствующая сессия не считается ошибкой.
// @Tags Sessions
// @Produce  json
// @Security BearerAuth
// @Param deviceID path string true "Идентификатор устройства"
// @Success 200 {object} map[string]any "Сессия удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /me/sessions/{deviceID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("useruid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		log.Error("deviceID is missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("deviceID is required"))
		return
	}

	if err := h.service.RemoveDevice(r.Context(), userUID, deviceID); err != nil {
		log.Error("failed to remove device session", sl.UID(userUID), sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not remove device session"))
		return
	}

	log.Info("device session removed", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"device_id": deviceID,
	}))
}
