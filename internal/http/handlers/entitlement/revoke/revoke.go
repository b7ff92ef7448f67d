// Package revoke реализует административный HTTP-обработчик отзыва премиума.
package revoke

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

// Service описывает интерфейс отзыва премиума.
type Service interface {
	RevokePremium(ctx context.Context, userUID, revokedBy string) error
}

// Handler обрабатывает запросы на отзыв премиума.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отозвать премиум пользователя
// @Description Выключает премиум пользователя. Операция идемпотентна.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Премиум отозван"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /users/{uid}/premium [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.revoke"

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

	revokedBy, _ := r.Context().Value(middlewarectx.Email).(string)
	if err := h.service.RevokePremium(r.Context(), userUID, revokedBy); err != nil {
		log.Error("failed to revoke premium", sl.UID(userUID), sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not revoke premium"))
		return
	}

	log.Info("premium revoked", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"useruid": userUID,
	}))
}
