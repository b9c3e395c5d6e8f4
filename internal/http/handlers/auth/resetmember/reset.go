// Package resetmember реализует HTTP-обработчик сброса пароля участника
// по одноразовому токену. Токен погашается за один шаг, без резервирования.
package resetmember

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
	"github.com/magabrotheeeer/gym-membership/internal/services/tokengate"
)

// Request структура входных данных для сброса пароля участника.
type Request struct {
	Token       string `json:"token" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы сброса пароля участника.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики сброса пароля по токену.
type Service interface {
	RedeemForReset(ctx context.Context, tokenValue, email, newPassword string) error
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
// @Summary Сбросить пароль участника по токену
// @Description Погашает неиспользованный токен и устанавливает новый пароль участника. При гонке выигрывает ровно один запрос.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен, email и новый пароль"
// @Success 200 {object} response.Response "Пароль обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Токен или участник не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/member/reset-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetmember"

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

	err := h.service.RedeemForReset(r.Context(), req.Token, req.Email, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, tokengate.ErrTokenNotFound):
			log.Error("token not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("token not found"))
		case errors.Is(err, tokengate.ErrMemberNotFound):
			log.Error("member not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
		default:
			log.Error("failed to reset password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not reset password"))
		}
		return
	}

	log.Info("member password reset", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reset": true,
	}))
}
