// Package start реализует HTTP-обработчик запуска self-service пробного периода.
package start

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

// Service описывает интерфейс запуска пробного периода.
type Service interface {
	StartWeeklyTrial(ctx context.Context, userUID string) (*models.TrialState, error)
}

// Handler обрабатывает запросы на запуск пробного периода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запустить недельный пробный период
// @Description Выдает авторизованному пользователю пробный период на 7 дней. Право выдается один раз.
// @Tags Trials
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Пробный период запущен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Право уже использовано"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /me/trial [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trial.start"

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

	trial, err := h.service.StartWeeklyTrial(r.Context(), userUID)
	if err != nil {
		log.Error("failed to start trial", sl.UID(userUID), sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not start trial"))
		return
	}

	log.Info("trial started", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(trial))
}
