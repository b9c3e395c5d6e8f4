// Package workoutlist реализует HTTP-обработчик получения каталога тренировок.
package workoutlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает HTTP-запросы получения списка упражнений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога тренировок.
type Service interface {
	ListWorkouts(ctx context.Context, muscleGroup string) ([]*models.Workout, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог тренировок
// @Description Возвращает список упражнений, опционально отфильтрованный по группе мышц.
// @Tags Content
// @Produce  json
// @Param muscle_group query string false "Группа мышц"
// @Success 200 {object} map[string]any "Список упражнений"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /workouts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.workoutlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	muscleGroup := r.URL.Query().Get("muscle_group")

	workouts, err := h.service.ListWorkouts(r.Context(), muscleGroup)
	if err != nil {
		log.Error("failed to list workouts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list workouts"))
		return
	}

	log.Info("workouts listed", slog.Int("count", len(workouts)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(workouts),
		"workouts":   workouts,
	}))
}
