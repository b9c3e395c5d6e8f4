// Package dietplanlist реализует HTTP-обработчик списка планов питания
// с необязательными фильтрами по назначению и категории.
package dietplanlist

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

// Handler обрабатывает HTTP-запросы списка планов питания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка планов питания.
type Service interface {
	ListDietPlans(ctx context.Context, purpose, category string) ([]*models.DietPlan, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список планов питания
// @Description Возвращает планы питания с необязательными фильтрами purpose и category.
// @Tags Content
// @Security BearerAuth
// @Produce  json
// @Param purpose query string false "Назначение плана"
// @Param category query string false "Категория плана"
// @Success 200 {object} map[string]any "Список планов питания"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /diet-plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.dietplanlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	purpose := r.URL.Query().Get("purpose")
	category := r.URL.Query().Get("category")

	plans, err := h.service.ListDietPlans(r.Context(), purpose, category)
	if err != nil {
		log.Error("failed to list diet plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list diet plans"))
		return
	}

	log.Info("diet plans listed", slog.Int("count", len(plans)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(plans),
		"diet_plans": plans,
	}))
}
