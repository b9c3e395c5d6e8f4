// Package workoutremove реализует HTTP-обработчик удаления упражнения
// из каталога тренировок.
package workoutremove

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

// Handler обрабатывает HTTP-запросы удаления упражнения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления упражнения.
type Service interface {
	RemoveWorkout(ctx context.Context, id int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить упражнение
// @Description Удаляет упражнение из каталога по его идентификатору. Доступно только администратору.
// @Tags Content
// @Security BearerAuth
// @Produce  json
// @Param id path int true "Идентификатор упражнения"
// @Success 200 {object} map[string]any "Упражнение удалено"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Упражнение не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /workouts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.workoutremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid workout id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid workout id"))
		return
	}

	err = h.service.RemoveWorkout(r.Context(), id)
	if err != nil {
		if errors.Is(err, contentservice.ErrNotFound) {
			log.Error("workout not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("workout not found"))
			return
		}
		log.Error("failed to remove workout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove workout"))
		return
	}

	log.Info("workout removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": true,
	}))
}
