// Package dietplanremove реализует HTTP-обработчик удаления плана питания.
package dietplanremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	contentservice "github.com/magabrotheeeer/gym-membership/internal/services/content"
)

// Handler обрабатывает HTTP-запросы удаления плана питания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления плана питания.
type Service interface {
	RemoveDietPlan(ctx context.Context, id int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить план питания
// @Description Удаляет план питания. Доступно только администратору.
// @Tags Content
// @Security BearerAuth
// @Produce  json
// @Param id path int true "Идентификатор плана питания"
// @Success 200 {object} response.Response "План питания удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "План питания не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /diet-plans/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.dietplanremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid diet plan id"))
		return
	}

	if err := h.service.RemoveDietPlan(r.Context(), id); err != nil {
		if errors.Is(err, contentservice.ErrNotFound) {
			log.Error("diet plan not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("diet plan not found"))
			return
		}
		log.Error("failed to remove diet plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove diet plan"))
		return
	}

	log.Info("diet plan removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": true,
	}))
}
