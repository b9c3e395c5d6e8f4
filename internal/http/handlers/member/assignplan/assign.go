// Package assignplan реализует HTTP-обработчик назначения тарифного плана
// участнику. Дата начала принимается в формате ISO или день-первый
// DD-MM-YYYY; окно абонемента вычисляется сервисом.
package assignplan

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
)

// Request структура входных данных для назначения плана.
type Request struct {
	PlanID    int    `json:"plan_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
}

// Handler обрабатывает HTTP-запросы назначения плана.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики назначения плана.
type Service interface {
	AssignPlan(ctx context.Context, uid string, planID int, startInput any) (*membership.Window, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Назначить тарифный план участнику
// @Description Вычисляет окно абонемента от даты начала и длительности плана и сохраняет его. Доступно только администратору.
// @Tags Members
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param uid path string true "Идентификатор участника"
// @Param request body Request true "План и дата начала"
// @Success 200 {object} map[string]any "Окно абонемента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 404 {object} response.ErrorResponse "Участник или план не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /members/{uid}/plan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.assignplan"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	window, err := h.service.AssignPlan(r.Context(), uid, req.PlanID, req.StartDate)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrInvalidStartDate), errors.Is(err, membership.ErrStartDateRequired):
			log.Error("invalid start date", slog.String("start_date", req.StartDate))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid start date"))
		case errors.Is(err, memberservice.ErrPlanNotFound):
			log.Error("plan not found", slog.Int("plan_id", req.PlanID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, memberservice.ErrMemberNotFound):
			log.Error("member not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
		default:
			log.Error("failed to assign plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not assign plan"))
		}
		return
	}

	log.Info("plan assigned", slog.String("uid", uid), slog.Int("plan_id", req.PlanID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"window": window,
	}))
}
