// Package report реализует HTTP-обработчик отчёта по участникам,
// чьи абонементы начинаются в заданном диапазоне дат.
package report

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает HTTP-запросы отчёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отчёта.
type Service interface {
	Report(ctx context.Context, from, to time.Time) ([]*models.Member, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отчёт по началу абонементов
// @Description Возвращает участников, чьи абонементы начинаются в диапазоне [from, to]. Даты в формате 2006-01-02.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param from query string true "Начало диапазона (2006-01-02)"
// @Param to query string true "Конец диапазона (2006-01-02)"
// @Success 200 {object} map[string]any "Отчёт"
// @Failure 400 {object} response.ErrorResponse "Некорректные даты"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/reports/memberships [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.report"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		log.Error("invalid from date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid from date"))
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		log.Error("invalid to date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid to date"))
		return
	}
	if to.Before(from) {
		log.Error("to date before from date")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("to date before from date"))
		return
	}

	members, err := h.service.Report(r.Context(), from, to)
	if err != nil {
		log.Error("failed to build report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build report"))
		return
	}

	log.Info("report built", slog.Int("count", len(members)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(members),
		"members":    members,
	}))
}
