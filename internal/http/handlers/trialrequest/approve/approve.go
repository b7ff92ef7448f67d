// Package approve реализует административный HTTP-обработчик одобрения заявки.
package approve

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

// Service описывает интерфейс одобрения заявки.
type Service interface {
	Approve(ctx context.Context, id, resolvedBy string) (*models.TrialRequest, error)
}

// Handler обрабатывает запросы на одобрение заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Одобрить заявку на пробный период
// @Description Одобряет заявку и применяет ее к правам пользователя. Повторное решение по заявке возвращает конфликт.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор заявки"
// @Success 200 {object} map[string]any "Заявка одобрена"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Заявка уже разрешена"
// @Router /trial-requests/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trialrequest.approve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("id is missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("id is required"))
		return
	}

	resolvedBy, _ := r.Context().Value(middlewarectx.Email).(string)
	request, err := h.service.Approve(r.Context(), id, resolvedBy)
	if err != nil {
		log.Error("failed to approve trial request", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not approve trial request"))
		return
	}

	log.Info("trial request approved", slog.String("id", id), slog.String("status", string(request.Status)))
	render.JSON(w, r, response.OKWithData(request))
}
