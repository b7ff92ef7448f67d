// Package reject реализует административный HTTP-обработчик отклонения заявки.
package reject

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

// Service описывает интерфейс отклонения заявки.
type Service interface {
	Reject(ctx context.Context, id, resolvedBy string) (*models.TrialRequest, error)
}

// Handler обрабатывает запросы на отклонение заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отклонить заявку на пробный период
// @Description Отклоняет заявку. Повторное решение по заявке возвращает конфликт.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор заявки"
// @Success 200 {object} map[string]any "Заявка отклонена"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Заявка уже разрешена"
// @Router /trial-requests/{id}/reject [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trialrequest.reject"

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
	request, err := h.service.Reject(r.Context(), id, resolvedBy)
	if err != nil {
		log.Error("failed to reject trial request", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not reject trial request"))
		return
	}

	log.Info("trial request rejected", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(request))
}
