// Package activitylist реализует HTTP-обработчик просмотра журнала
// действий администраторов.
package activitylist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает HTTP-запросы просмотра журнала действий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики журнала действий.
type Service interface {
	ListActivity(ctx context.Context, limit, offset int) ([]*models.ActivityRecord, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Журнал действий
// @Description Возвращает страницу журнала действий администраторов, новые записи первыми. Доступно только администратору.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param limit query int false "Количество записей" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Страница журнала"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/activity [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.activitylist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	records, err := h.service.ListActivity(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list activity", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list activity"))
		return
	}

	log.Info("activity listed", slog.Int("count", len(records)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(records),
		"records":    records,
	}))
}
