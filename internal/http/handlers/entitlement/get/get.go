// Package get реализует административный HTTP-обработчик чтения прав пользователя.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entitlement-service/internal/http/response"
	"github.com/magabrotheeeer/entitlement-service/internal/lib/sl"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// Service описывает интерфейс чтения снимка прав.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.UserEntitlement, error)
}

// Handler обрабатывает административные запросы на чтение прав.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Права произвольного пользователя
// @Description Возвращает снимок прав пользователя по UID. Доступно только администраторам.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Снимок прав"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /users/{uid}/entitlement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.get"

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

	entitlement, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read entitlement", sl.UID(userUID), sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not read entitlement"))
		return
	}

	render.JSON(w, r, response.OKWithData(entitlement))
}
