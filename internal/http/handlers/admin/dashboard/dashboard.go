// Package dashboard реализует HTTP-обработчик сводки по абонементам:
// количество участников по производным статусам.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
)

// Handler обрабатывает HTTP-запросы сводки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводки.
type Service interface {
	DashboardCounts(ctx context.Context) (membership.Counts, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка по абонементам
// @Description Возвращает количество участников по статусам: всего, активные, истекающие, истёкшие. Статусы пересчитываются на момент запроса.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Сводка"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	counts, err := h.service.DashboardCounts(r.Context())
	if err != nil {
		log.Error("failed to count memberships", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build dashboard"))
		return
	}

	log.Info("dashboard built", slog.Int("total", counts.Total))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"counts": counts,
	}))
}
