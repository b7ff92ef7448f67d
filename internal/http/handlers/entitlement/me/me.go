// Package me реализует HTTP-обработчик чтения собственных прав пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entitlement-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entitlement-service/internal/http/response"
	"github.com/magabrotheeeer/entitlement-service/internal/lib/sl"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// Service описывает интерфейс чтения снимка прав.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.UserEntitlement, error)
}

// Handler обрабатывает запросы на чтение собственных прав.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущие права пользователя
// @Description Возвращает снимок прав авторизованного пользователя: премиум, пробный период, сессии устройств.
// @Tags Entitlements
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Снимок прав"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /me/entitlement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.me"

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

	entitlement, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read entitlement", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not read entitlement"))
		return
	}

	render.JSON(w, r, response.OKWithData(entitlement))
}
