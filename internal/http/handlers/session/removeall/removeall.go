// Package removeall реализует административный HTTP-обработчик сброса всех
// сессий устройств пользователя.
package removeall

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

// Service описывает интерфейс сброса сессий пользователя.
type Service interface {
	RemoveAllDevices(ctx context.Context, userUID, removedBy string) error
}

// Handler обрабатывает запросы на сброс сессий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сбросить все сессии пользователя
// @Description Удаляет все сессии устройств пользователя, освобождая слоты всех классов.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Сессии сброшены"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /users/{uid}/sessions [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.removeall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		log.Error("uid is missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("uid is required"))
		return
	}

	removedBy, _ := r.Context().Value(middlewarectx.Email).(string)
	if err := h.service.RemoveAllDevices(r.Context(), userUID, removedBy); err != nil {
		log.Error("failed to remove all device sessions", sl.UID(userUID), sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not remove device sessions"))
		return
	}

	log.Info("all device sessions removed", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"useruid": userUID,
	}))
}
