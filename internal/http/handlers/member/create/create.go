// Package create реализует HTTP-обработчик создания участника администратором,
// без одноразового токена. Филиал указывается явно в запросе.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Request структура входных данных для создания участника.
type Request struct {
	Email  string             `json:"email" validate:"required,email"`
	Branch string             `json:"branch" validate:"required,oneof=b1 b2"`
	Form   models.DummyMember `json:"form" validate:"required"`
}

// Handler обрабатывает HTTP-запросы создания участника.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания участника.
type Service interface {
	Create(ctx context.Context, form models.DummyMember, email, branch string) (*models.Member, error)
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
// @Summary Создать участника
// @Description Создаёт участника напрямую, без токена регистрации. Доступно только администратору.
// @Tags Members
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email, филиал и анкета участника"
// @Success 200 {object} map[string]any "Участник создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /members [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	member, err := h.service.Create(r.Context(), req.Form, req.Email, req.Branch)
	if err != nil {
		log.Error("failed to create member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create member"))
		return
	}

	log.Info("member created", slog.String("uid", member.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member": member,
	}))
}
