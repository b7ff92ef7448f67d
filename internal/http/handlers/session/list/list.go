// Package list реализует HTTP-обработчик списка сессий устройств.
// Один и тот же обработчик обслуживает self-service маршрут и
// административный маршрут с uid в пути.
package list

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
	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// Service описывает интерфейс чтения сессий.
type Service interface {
	ListSessions(ctx context.Context, userUID string) ([]models.DeviceSession, error)
}

// Handler обрабатывает запросы на чтение списка сессий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список сессий устройств
// @Description Возвращает активные сессии устройств. Для self-service маршрута UID берется из токена, для административного — из пути.
// @Tags Sessions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список сессий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /me/sessions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		userUID, _ = r.Context().Value(middlewarectx.UserUID).(string)
	}
	if userUID == "" {
		log.Error("useruid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list device sessions", sl.UID(userUID), sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not list device sessions"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	}))
}
