// Package register реализует HTTP-обработчик завершения регистрации участника.
// Второй шаг двухшаговой регистрации: принимает артефакт продолжения и анкету,
// делегирует погашение токена сервису и возвращает созданного участника
// вместе с JWT доступа.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/services/tokengate"
)

// Request структура входных данных для завершения регистрации.
type Request struct {
	Continuation string             `json:"continuation" validate:"required"`
	Form         models.DummyMember `json:"form" validate:"required"`
}

// Handler обрабатывает HTTP-запросы завершения регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики погашения токена регистрации.
type Service interface {
	Redeem(ctx context.Context, continuation string, form models.DummyMember) (*models.Member, string, error)
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
// @Summary Завершить регистрацию участника
// @Description Погашает зарезервированный токен по артефакту продолжения и создаёт участника в филиале, закодированном классом токена.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Артефакт продолжения и анкета участника"
// @Success 200 {object} map[string]any "Участник зарегистрирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Артефакт продолжения недействителен"
// @Failure 409 {object} response.ErrorResponse "Токен погашен или email занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	member, token, err := h.service.Redeem(r.Context(), req.Continuation, req.Form)
	if err != nil {
		switch {
		case errors.Is(err, tokengate.ErrContinuationInvalid):
			log.Error("continuation invalid", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("continuation token invalid or expired"))
		case errors.Is(err, tokengate.ErrReservationMismatch):
			log.Error("reservation mismatch")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("token reserved for another email"))
		case errors.Is(err, tokengate.ErrTokenConsumed):
			log.Error("token already consumed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("token already consumed"))
		case errors.Is(err, tokengate.ErrTokenNotFound):
			log.Error("token not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("token not found"))
		case errors.Is(err, tokengate.ErrEmailTaken):
			log.Error("email already registered")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
		default:
			log.Error("failed to register member", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not register member"))
		}
		return
	}

	log.Info("member registered", slog.String("uid", member.UID), slog.String("branch", member.Branch))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member": member,
		"token":  token,
	}))
}
